package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vbonduro/prepstock/internal/domain"
)

// Theme bundles the lipgloss styles and symbols every renderer pulls from.
type Theme struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Safe     lipgloss.Style
	Warning  lipgloss.Style
	Danger   lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Border

	SymOK, SymFail string
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

// NewTheme returns the named theme. Anything but "mono" gets classic.
func NewTheme(name string) Theme {
	if strings.EqualFold(name, "mono") {
		plain := lipgloss.NewStyle()
		return Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Safe: plain, Warning: plain, Danger: plain, Error: plain,
			Selected: plain.Bold(true),
			Border:   asciiBorder,
			SymOK:    "ok", SymFail: "error:",
		}
	}
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Safe:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Danger:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Border:   lipgloss.RoundedBorder(),
		SymOK:    "✔", SymFail: "✖",
	}
}

func (t Theme) status(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusDanger:
		return t.Danger
	case domain.StatusWarning:
		return t.Warning
	default:
		return t.Safe
	}
}

// Badge renders a status as a fixed-width label.
func (t Theme) Badge(s domain.Status) string {
	return t.status(s).Render(badgeText(s))
}

func badgeText(s domain.Status) string {
	switch s {
	case domain.StatusDanger:
		return "EXPIRED"
	case domain.StatusWarning:
		return "SOON   "
	default:
		return "OK     "
	}
}

func (t Theme) panel(lines []string) string {
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
