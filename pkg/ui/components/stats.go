package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds reward figures for display. Values arrive formatted.
type Stats struct {
	Balance       string
	Rewards       int
	Feedback      int
	Reports       int
	Refreshes     int64
	Notifications int
}

// StatsComponent renders the reward summary.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	balanceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)

	balance := s.stats.Balance
	if balance == "" {
		balance = "-"
	}

	return style.Render("REWARDS") + "\n" +
		fmt.Sprintf("Balance: %s  │  Rewards logged: %s  │  Balance refreshes: %s\n",
			balanceStyle.Render(balance),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Rewards)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Refreshes)),
		) +
		fmt.Sprintf("Feedback: %s       │  Reports: %s         │  Notifications: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Feedback)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Reports)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Notifications)),
		)
}
