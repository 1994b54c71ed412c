package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/alert"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
)

// Styles contains lipgloss styles for the portal
type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Sidebar     lipgloss.Style
	Section     lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Active      lipgloss.Style
	Content     lipgloss.Style
	Label       lipgloss.Style
	Input       lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Modal       lipgloss.Style
	DangerModal lipgloss.Style
	Toast       lipgloss.Style
	Help        lipgloss.Style
}

// StylesFor returns the styles of a role theme.
func StylesFor(theme role.Theme) Styles {
	primary := lipgloss.Color(theme.Primary)
	danger := lipgloss.Color(theme.Danger)
	success := lipgloss.Color(theme.Success)
	gray := lipgloss.Color("241")

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(gray).
			MarginBottom(1),
		Sidebar: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.Sidebar)).
			Foreground(lipgloss.Color(theme.Text)).
			Padding(1, 1),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Accent)),
		Item: lipgloss.NewStyle().
			PaddingLeft(1),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color(theme.Text)).
			Bold(true).
			PaddingLeft(1),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Secondary)).
			Bold(true).
			PaddingLeft(1),
		Content: lipgloss.NewStyle().
			Padding(1, 2),
		Label: lipgloss.NewStyle().
			Bold(true),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(gray),
		Error: lipgloss.NewStyle().
			Foreground(danger),
		Success: lipgloss.NewStyle().
			Foreground(success),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)),
		Muted: lipgloss.NewStyle().
			Foreground(gray),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2),
		DangerModal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Padding(1, 2),
		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(gray).
			MarginTop(1),
	}
}

// ToastStyle colors a toast border by severity.
func (s Styles) ToastStyle(sev alert.Severity) lipgloss.Style {
	switch sev {
	case alert.Error:
		return s.Toast.BorderForeground(s.Error.GetForeground())
	case alert.Success:
		return s.Toast.BorderForeground(s.Success.GetForeground())
	case alert.Warning:
		return s.Toast.BorderForeground(s.Warning.GetForeground())
	default:
		return s.Toast.BorderForeground(s.Muted.GetForeground())
	}
}
