package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Credit gold marks anything denominated in the reward token.
var (
	ColorCampus  = lipgloss.Color("#0EA5E9")
	ColorCredit  = lipgloss.Color("#EAB308")
	ColorLive    = lipgloss.Color("#22C55E")
	ColorOffline = lipgloss.Color("#F43F5E")
	ColorDim     = lipgloss.Color("#94A3B8")
	ColorFrame   = lipgloss.Color("#334155")
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorFrame).
		Padding(0, 1)

	Banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#0B1120")).
		Background(ColorCampus).
		Padding(0, 2)

	// wallet connection states
	WalletLive    = lipgloss.NewStyle().Foreground(ColorLive).Bold(true)
	WalletOffline = lipgloss.NewStyle().Foreground(ColorOffline)
	WalletPending = lipgloss.NewStyle().Foreground(ColorCredit)

	// shown next to the banner while rewards are simulated
	DemoBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B1120")).
			Background(ColorCredit).
			Bold(true).
			Padding(0, 1)

	Credit      = lipgloss.NewStyle().Foreground(ColorCredit).Bold(true)
	Dim         = lipgloss.NewStyle().Foreground(ColorDim)
	Alert       = lipgloss.NewStyle().Foreground(ColorOffline)
	AlertHeader = lipgloss.NewStyle().Foreground(ColorOffline).Bold(true)
	KeyHints    = lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1)
)
