package presentation

import "github.com/charmbracelet/lipgloss"

// Palette colors.
const (
	ColorHeading    = "#e2e8f0"
	ColorMuted      = "#64748b"
	ColorDone       = "#94a3b8"
	ColorHigh       = "#ef4444"
	ColorMedium     = "#eab308"
	ColorLow        = "#22c55e"
	ColorNoCategory = ColorMuted
)

type styles struct {
	heading  lipgloss.Style
	muted    lipgloss.Style
	done     lipgloss.Style
	priority map[string]lipgloss.Style
	r        *lipgloss.Renderer
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHeading)),
		muted:   r.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
		done:    r.NewStyle().Foreground(lipgloss.Color(ColorDone)).Strikethrough(true),
		priority: map[string]lipgloss.Style{
			"high":   r.NewStyle().Foreground(lipgloss.Color(ColorHigh)),
			"medium": r.NewStyle().Foreground(lipgloss.Color(ColorMedium)),
			"low":    r.NewStyle().Foreground(lipgloss.Color(ColorLow)),
		},
		r: r,
	}
}

func (s styles) category(color string) lipgloss.Style {
	if color == "" {
		color = ColorNoCategory
	}
	return s.r.NewStyle().Foreground(lipgloss.Color(color))
}
