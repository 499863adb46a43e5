package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/campus-rewards/internal/notify"
)

// Notifier forwards notifications to a running dashboard. Before a program
// is attached, and after it exits, notifications are dropped.
type Notifier struct {
	mu      sync.RWMutex
	program *tea.Program
}

var _ notify.Notifier = (*Notifier)(nil)

// NewNotifier returns a detached Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Attach sets the receiving program; nil detaches.
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	n.program = p
	n.mu.Unlock()
}

func (n *Notifier) Notify(_ context.Context, notification notify.Notification) {
	n.mu.RLock()
	p := n.program
	n.mu.RUnlock()
	if p == nil {
		return
	}
	// Send blocks until the event loop receives; services must not wait on it
	go p.Send(NotificationMsg{Notification: notification})
}
