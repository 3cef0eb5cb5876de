// Package ui provides the Bubble Tea dashboard for the scanner.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#38BDF8") // Sky blue
	ColorProfit  = lipgloss.Color("#10B981") // Green
	ColorLoss    = lipgloss.Color("#EF4444") // Red
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorBorder  = lipgloss.Color("#374151") // Dark gray
)

// Styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 2)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	StatusConnected = lipgloss.NewStyle().
			Foreground(ColorProfit).
			Bold(true)

	StatusDisconnected = lipgloss.NewStyle().
				Foreground(ColorLoss).
				Bold(true)

	ProfitValue = lipgloss.NewStyle().
			Foreground(ColorProfit)

	LossValue = lipgloss.NewStyle().
			Foreground(ColorLoss)

	MutedValue = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)
