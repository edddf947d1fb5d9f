package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestResolveThemeHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, NoColorTheme(), ResolveTheme())
}

func TestDefaultThemeHasColors(t *testing.T) {
	theme := DefaultTheme()
	assert.NotEqual(t, lipgloss.AdaptiveColor{}, theme.Primary)
	assert.NotEqual(t, lipgloss.AdaptiveColor{}, theme.Error)
}

func TestNewStylesWithTheme(t *testing.T) {
	theme := DefaultTheme()
	s := NewStylesWithTheme(theme)
	assert.Equal(t, theme, s.Theme())
}
