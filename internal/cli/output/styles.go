package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds the style set for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#2e7d32", Dark: "#81c784"}
	red := lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#e57373"}
	amber := lipgloss.AdaptiveColor{Light: "#b26a00", Dark: "#ffb74d"}
	grey := lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}

	return &Styles{
		Header1:       r.NewStyle().Bold(true).Underline(true),
		Header2:       r.NewStyle().Bold(true),
		Bold:          r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(grey),
		Success:       r.NewStyle().Foreground(green),
		Warning:       r.NewStyle().Foreground(amber),
		Error:         r.NewStyle().Foreground(red),
		StatusSuccess: r.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(red).SetString("✗"),
	}
}
