package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/p2000/pkg/message"
)

var (
	styleCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleNormal   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))             // cyan
	styleUnknown  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))            // gray
)

// PriorityStyle returns the display style for p, chosen by its urgency.
func PriorityStyle(p message.Priority) lipgloss.Style {
	switch message.Rank(p) {
	case message.UrgencyCritical:
		return styleCritical
	case message.UrgencyHigh:
		return styleHigh
	case message.UrgencyNormal:
		return styleNormal
	default:
		return styleUnknown
	}
}

// PriorityTag renders p padded to a fixed width, colored when color is set.
func PriorityTag(p message.Priority, color bool) string {
	padded := fmt.Sprintf("%-7s", p)
	if !color {
		return padded
	}
	return PriorityStyle(p).Render(padded)
}
