package view

import (
	tea "charm.land/bubbletea/v2"
)

// LoadingMessage is the standard message shown while loading
const LoadingMessage = "불러오는 중..."

// View is the interface for all views in the application
type View interface {
	tea.Model

	// SetSize updates the view dimensions
	SetSize(width, height int) tea.Cmd

	// StatusLine returns the status line text for this view
	StatusLine() string

	// ViewString returns the view content as a string (for internal composition)
	ViewString() string
}

// InputCapture is an optional interface for views that capture input
type InputCapture interface {
	// HasActiveInput returns true if the view has active input
	HasActiveInput() bool
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// ThemeChangedMsg tells views to reload their cached styles
type ThemeChangedMsg struct{}

// SubmitQuestionMsg carries a user question from the prompt to the program
// root, which owns dispatching.
type SubmitQuestionMsg struct {
	Text string
}

// CloseMapMsg asks the root to start the map panel's close transition.
type CloseMapMsg struct{}

// BusGuideMsg asks the root to run the bus guide shortcut.
type BusGuideMsg struct{}

// LocalCurrencyMsg asks the root to run the local-currency shortcut.
type LocalCurrencyMsg struct{}

// IsEscKey returns true if the key message represents an escape key press.
// This handles various terminal escape sequences consistently across views.
func IsEscKey(msg tea.KeyPressMsg) bool {
	return msg.String() == "esc" || msg.Code == tea.KeyEscape
}
