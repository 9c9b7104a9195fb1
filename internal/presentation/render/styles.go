package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-research-monitor/internal/core/model"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A67D8", Dark: "#7C3AED"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#38B2AC", Dark: "#4FD1C5"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#38A169", Dark: "#48BB78"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#D69E2E", Dark: "#F6E05E"}
	colorError   = lipgloss.AdaptiveColor{Light: "#E53E3E", Dark: "#FC8181"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#718096", Dark: "#A0AEC0"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#CBD5E0", Dark: "#4A5568"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)

	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)

	messageStyle = lipgloss.NewStyle().Foreground(colorWarning)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// StatusStyle colors a status label by lifecycle state.
func StatusStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch status {
	case model.StatusCompleted:
		return base.Foreground(colorSuccess)
	case model.StatusFailed:
		return base.Foreground(colorError)
	case model.StatusInProgress:
		return base.Foreground(colorInfo)
	case model.StatusSuspended:
		return base.Foreground(colorWarning)
	default:
		return base.Foreground(colorMuted)
	}
}
