// Package styles holds the lipgloss styles shared by bookview's panels.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	BuyColor     = lipgloss.Color("#10B981")
	SellColor    = lipgloss.Color("#EF4444")
	NeutralColor = lipgloss.Color("#6B7280")
	BorderColor  = lipgloss.Color("#374151")
	TextColor    = lipgloss.Color("#F9FAFB")
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(NeutralColor)

	BuyStyle = lipgloss.NewStyle().Bold(true).Foreground(BuyColor)

	SellStyle = lipgloss.NewStyle().Bold(true).Foreground(SellColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(NeutralColor)
)
