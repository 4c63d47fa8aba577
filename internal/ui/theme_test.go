package ui

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	assert.Equal(t, lipgloss.Color("41"), theme.Primary)
	assert.Equal(t, lipgloss.Color("196"), theme.Danger)
	assert.Equal(t, lipgloss.Color("41"), theme.UserBubble)
}

func TestCurrentIsDefault(t *testing.T) {
	assert.Equal(t, DefaultTheme(), Current())
}

func TestStyleHelpersUseTheme(t *testing.T) {
	assert.True(t, TitleStyle().GetBold())
	assert.Equal(t, current.Primary, TitleStyle().GetForeground())
	assert.Equal(t, current.TextDim, DimStyle().GetForeground())
	assert.Equal(t, current.Danger, DangerStyle().GetForeground())
	assert.Equal(t, current.Selection, SelectedStyle().GetBackground())
	assert.True(t, UserBubbleStyle().GetBold())
}

func TestBoxStyles(t *testing.T) {
	assert.Equal(t, current.Border, BoxStyle().GetBorderTopForeground())
	assert.Equal(t, current.BorderHighlight, HighlightBoxStyle().GetBorderTopForeground())
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner()
	assert.NotEmpty(t, s.Spinner.Frames)
}
