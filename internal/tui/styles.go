package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	nameStyle      = lipgloss.NewStyle().Bold(true)
	containerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

// namedColors covers the CSS keywords containers commonly use. Terminals
// only understand hex, so other keywords render without a swatch colour.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"gray":   "#808080",
	"grey":   "#808080",
	"silver": "#c0c0c0",
	"red":    "#ff0000",
	"maroon": "#800000",
	"orange": "#ffa500",
	"yellow": "#ffff00",
	"olive":  "#808000",
	"lime":   "#00ff00",
	"green":  "#008000",
	"teal":   "#008080",
	"aqua":   "#00ffff",
	"cyan":   "#00ffff",
	"blue":   "#0000ff",
	"navy":   "#000080",
	"purple": "#800080",
	"brown":  "#a52a2a",
	"pink":   "#ffc0cb",
}

// swatchColor maps a CSS colour to a terminal colour, or "" when it has no
// terminal equivalent.
func swatchColor(css string) string {
	css = strings.ToLower(strings.TrimSpace(css))
	if strings.HasPrefix(css, "#") && (len(css) == 4 || len(css) == 7) {
		return css
	}
	return namedColors[css]
}

func swatch(css string) string {
	c := swatchColor(css)
	if c == "" {
		return mutedStyle.Render("■")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■")
}
