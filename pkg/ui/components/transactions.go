package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TransactionRow is one reward record, newest first.
type TransactionRow struct {
	Time   string
	Hash   string
	To     string
	Amount string
	Status string
	Kind   string
}

// TransactionsComponent renders the reward log with scrolling.
type TransactionsComponent struct {
	rows    []TransactionRow
	visible int
	offset  int
}

// NewTransactionsComponent shows at most visible rows at once.
func NewTransactionsComponent(visible int) *TransactionsComponent {
	return &TransactionsComponent{visible: visible}
}

// Update replaces the rows, keeping the scroll position in range.
func (t *TransactionsComponent) Update(rows []TransactionRow) {
	t.rows = rows
	t.clamp()
}

func (t *TransactionsComponent) ScrollUp() {
	t.offset--
	t.clamp()
}

func (t *TransactionsComponent) ScrollDown() {
	t.offset++
	t.clamp()
}

func (t *TransactionsComponent) clamp() {
	maxOffset := len(t.rows) - t.visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.offset > maxOffset {
		t.offset = maxOffset
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// View renders the transactions component.
func (t *TransactionsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	liveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	demoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("REWARD LOG (%d)", len(t.rows))))
	b.WriteString("\n")

	if len(t.rows) == 0 {
		b.WriteString(mutedStyle.Render("No rewards yet. Submit feedback to earn credits."))
		return b.String()
	}

	b.WriteString("┌──────────┬──────────────┬──────────────┬────────────┬───────────┐\n")
	b.WriteString("│   Time   │     Hash     │      To      │   Amount   │  Status   │\n")
	b.WriteString("├──────────┼──────────────┼──────────────┼────────────┼───────────┤\n")

	end := t.offset + t.visible
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for _, row := range t.rows[t.offset:end] {
		style := mutedStyle
		switch row.Kind {
		case "live":
			style = liveStyle
		case "demo":
			style = demoStyle
		}
		fmt.Fprintf(&b, "│ %8s │ %12s │ %12s │ %10s │ %s │\n",
			row.Time,
			truncate(row.Hash, 12),
			truncate(row.To, 12),
			truncate(row.Amount, 10),
			style.Render(fmt.Sprintf("%-9s", row.Status)),
		)
	}
	b.WriteString("└──────────┴──────────────┴──────────────┴────────────┴───────────┘")

	if len(t.rows) > t.visible {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("showing %d-%d of %d", t.offset+1, end, len(t.rows))))
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
