package display

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorAccent  = lipgloss.Color("#06b6d4")
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// Reusable styles.
var (
	StylePanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleValue = lipgloss.NewStyle().
		Foreground(ColorBright)
)

// LevelColor returns the meter color for a 0-100 level.
func LevelColor(level float64) lipgloss.Color {
	switch {
	case level > 80:
		return ColorDanger
	case level > 50:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// StatusColor returns green for on and red for off.
func StatusColor(on bool) lipgloss.Color {
	if on {
		return ColorHealthy
	}
	return ColorDanger
}
