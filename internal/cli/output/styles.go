package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Key       lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
}

// NewStyles builds the styles against a lipgloss renderer, which decides the
// color profile.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginTop(1),
		Subheader: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Key:       r.NewStyle().Foreground(lipgloss.Color("8")),
		Muted:     r.NewStyle().Faint(true),
		Success:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}
