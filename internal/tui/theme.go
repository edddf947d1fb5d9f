package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ResolveTheme returns the theme to use: NoColorTheme when NO_COLOR is
// set, otherwise DefaultTheme.
func ResolveTheme() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoColorTheme()
	}
	return DefaultTheme()
}

// NoColorTheme returns a theme with empty colors (honors NO_COLOR standard).
func NoColorTheme() Theme {
	none := lipgloss.AdaptiveColor{}
	return Theme{
		Primary:    none,
		Secondary:  none,
		Success:    none,
		Error:      none,
		Muted:      none,
		Foreground: none,
	}
}
