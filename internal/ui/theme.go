package ui

import (
	"image/color"

	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"
)

// Theme defines the color scheme for the application
type Theme struct {
	// Primary colors
	Primary   color.Color // Main accent color (titles, highlights)
	Secondary color.Color // Secondary accent color
	Accent    color.Color // Links/keys accent

	// Text colors
	Text       color.Color // Normal text
	TextBright color.Color // Bright/emphasized text
	TextDim    color.Color // Dimmed text (labels, hints)
	TextMuted  color.Color // Very dim text (separators, borders)

	// Semantic colors
	Success color.Color // Green - success states
	Warning color.Color // Yellow/Orange - warning states
	Danger  color.Color // Red - error/danger states
	Info    color.Color // Blue - info states
	Pending color.Color // Yellow - pending/in-progress states

	// UI element colors
	Border          color.Color // Border color
	BorderHighlight color.Color // Highlighted border
	Background      color.Color // Background for panels
	BackgroundAlt   color.Color // Alternative background
	Selection       color.Color // Selected item background
	SelectionText   color.Color // Selected item text

	// Chat bubble colors
	UserBubble color.Color // User message accent
	BotBubble  color.Color // Bot message accent
}

// DefaultTheme returns the default dark theme
func DefaultTheme() *Theme {
	return &Theme{
		// Primary colors
		Primary:   lipgloss.Color("41"), // Green, the neighborhood accent
		Secondary: lipgloss.Color("33"), // Blue
		Accent:    lipgloss.Color("86"), // Cyan

		// Text colors
		Text:       lipgloss.Color("252"), // Light gray
		TextBright: lipgloss.Color("255"), // White
		TextDim:    lipgloss.Color("247"), // Medium gray
		TextMuted:  lipgloss.Color("244"), // Darker gray

		// Semantic colors
		Success: lipgloss.Color("42"),  // Green
		Warning: lipgloss.Color("214"), // Orange
		Danger:  lipgloss.Color("196"), // Red
		Info:    lipgloss.Color("33"),  // Blue
		Pending: lipgloss.Color("226"), // Yellow

		// UI element colors
		Border:          lipgloss.Color("244"), // Gray border
		BorderHighlight: lipgloss.Color("41"),  // Green highlight
		Background:      lipgloss.Color("235"), // Dark background
		BackgroundAlt:   lipgloss.Color("237"), // Slightly lighter
		Selection:       lipgloss.Color("29"),  // Deep green selection
		SelectionText:   lipgloss.Color("229"), // Light yellow

		// Chat bubble colors
		UserBubble: lipgloss.Color("41"), // Green
		BotBubble:  lipgloss.Color("252"), // Light gray
	}
}

// current holds the active theme
var current = DefaultTheme()

// Current returns the current active theme
func Current() *Theme {
	return current
}

// Style helpers that use the current theme

// DimStyle returns a style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.TextDim)
}

// SuccessStyle returns a style for success states
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Success)
}

// WarningStyle returns a style for warning states
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Warning)
}

// DangerStyle returns a style for danger/error states
func DangerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Danger)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Primary)
}

func SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(current.Selection).Foreground(current.SelectionText)
}

func SectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Secondary)
}

func HighlightStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Accent)
}

func BoldDangerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Danger)
}

func BoldWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Warning)
}

// AccentStyle returns a style for accent-colored text (non-bold)
func AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Accent)
}

// MutedStyle returns a style for very dim/muted text
func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.TextMuted)
}

// TextStyle returns a style for normal text
func TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Text)
}

// TextBrightStyle returns a style for emphasized text
func TextBrightStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.TextBright)
}

// SecondaryStyle returns a style for secondary-colored text
func SecondaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Secondary)
}

// BorderStyle returns a style for border-colored text (separators)
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Border)
}

// PrimaryStyle returns a style for primary-colored text (non-bold)
func PrimaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Primary)
}

// InfoStyle returns a style for info states
func InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Info)
}

// PendingStyle returns a style for pending states
func PendingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Pending)
}

// UserBubbleStyle returns a style for the user side of the transcript
func UserBubbleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.UserBubble)
}

// BotBubbleStyle returns a style for the bot side of the transcript
func BotBubbleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.BotBubble)
}

// FaintStyle renders de-emphasized background content under modals
func FaintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Faint(true)
}

func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Border).
		Padding(0, 1)
}

func HighlightBoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.BorderHighlight).
		Padding(0, 1)
}

func InputStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(current.Border).
		Padding(0, 1)
}

func NewSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(current.Accent)
	return s
}
