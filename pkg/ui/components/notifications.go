package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// NotificationRow is one toast.
type NotificationRow struct {
	Message  string
	Severity string // info | success | warning | error
	At       time.Time
}

// NotificationsComponent keeps the latest notifications.
type NotificationsComponent struct {
	rows    []NotificationRow
	maxRows int
}

// NewNotificationsComponent keeps at most maxRows entries.
func NewNotificationsComponent(maxRows int) *NotificationsComponent {
	return &NotificationsComponent{maxRows: maxRows}
}

// Add inserts row in time order, dropping the oldest past the cap.
// Notifications can arrive slightly out of order.
func (n *NotificationsComponent) Add(row NotificationRow) {
	i := len(n.rows)
	for i > 0 && n.rows[i-1].At.After(row.At) {
		i--
	}
	n.rows = append(n.rows, NotificationRow{})
	copy(n.rows[i+1:], n.rows[i:])
	n.rows[i] = row
	if len(n.rows) > n.maxRows {
		n.rows = n.rows[len(n.rows)-n.maxRows:]
	}
}

// Clear removes every notification.
func (n *NotificationsComponent) Clear() {
	n.rows = nil
}

// Len returns how many notifications are held.
func (n *NotificationsComponent) Len() int {
	return len(n.rows)
}

// View renders the notifications component.
func (n *NotificationsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var b strings.Builder
	b.WriteString(headerStyle.Render("NOTIFICATIONS"))
	b.WriteString("\n\n")

	if len(n.rows) == 0 {
		b.WriteString(mutedStyle.Render("  Nothing yet..."))
		return b.String()
	}

	for _, row := range n.rows {
		icon, color := "•", "#60A5FA"
		switch row.Severity {
		case "success":
			icon, color = "✓", "#10B981"
		case "warning":
			icon, color = "!", "#F59E0B"
		case "error":
			icon, color = "✗", "#EF4444"
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		fmt.Fprintf(&b, "  %s %s %s\n",
			mutedStyle.Render(row.At.Format("15:04:05")),
			style.Render(icon),
			style.Render(row.Message),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
