// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WalletStatus is what the status panel shows.
type WalletStatus struct {
	State     string // disconnected | connecting | connected
	Mode      string // live | demo
	Account   string
	ChainName string
	Attempts  int
	MaxTries  int
	Spinner   string // rendered while connecting
}

// StatusComponent renders the wallet connection panel.
type StatusComponent struct {
	status WalletStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{status: WalletStatus{State: "disconnected", Mode: "live"}}
}

// Update replaces the displayed status.
func (s *StatusComponent) Update(status WalletStatus) {
	s.status = status
}

// View renders the status component.
func (s *StatusComponent) View() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	amber := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	st := s.status
	var state string
	switch st.State {
	case "connected":
		state = green.Render("● Connected")
	case "connecting":
		state = amber.Render(strings.TrimSpace(st.Spinner + " Connecting..."))
	default:
		state = red.Render("○ Disconnected")
	}

	mode := muted.Render("live")
	if st.Mode == "demo" {
		mode = amber.Render("DEMO")
	}

	account := st.Account
	if account == "" {
		account = "-"
	}
	chain := st.ChainName
	if chain == "" {
		chain = "-"
	}

	var b strings.Builder
	b.WriteString(header.Render("WALLET"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "├─ Status:   %s\n", state)
	fmt.Fprintf(&b, "├─ Mode:     %s\n", mode)
	fmt.Fprintf(&b, "├─ Account:  %s\n", account)
	fmt.Fprintf(&b, "├─ Network:  %s\n", chain)
	fmt.Fprintf(&b, "└─ Attempts: %s", muted.Render(fmt.Sprintf("%d of %d", st.Attempts, st.MaxTries)))
	return b.String()
}
