// Package notify carries user-facing messages from the services to whatever
// surface displays them.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/fd1az/campus-rewards/internal/logger"
)

// Severity of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one message for the user.
type Notification struct {
	Message  string
	Severity Severity
	At       time.Time
}

// Notifier displays notifications. Implementations must not block for long.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// New stamps a notification with the current time.
func New(sev Severity, msg string) Notification {
	return Notification{Message: msg, Severity: sev, At: time.Now()}
}

// LogNotifier writes notifications to the logger.
type LogNotifier struct {
	log logger.LoggerInterface
}

// NewLogNotifier returns a Notifier backed by log.
func NewLogNotifier(log logger.LoggerInterface) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	switch n.Severity {
	case SeverityError:
		l.log.Errorc(ctx, 1, n.Message, "notification", true)
	case SeverityWarning:
		l.log.Warnc(ctx, 1, n.Message, "notification", true)
	default:
		l.log.Infoc(ctx, 1, n.Message, "notification", true, "severity", string(n.Severity))
	}
}

// Fanout delivers to every registered notifier. Notifiers can be added after
// construction, which is how the TUI attaches once it is running.
type Fanout struct {
	mu      sync.RWMutex
	targets []Notifier
}

// NewFanout returns a Fanout over targets.
func NewFanout(targets ...Notifier) *Fanout {
	return &Fanout{targets: targets}
}

// Add registers another target.
func (f *Fanout) Add(n Notifier) {
	f.mu.Lock()
	f.targets = append(f.targets, n)
	f.mu.Unlock()
}

func (f *Fanout) Notify(ctx context.Context, n Notification) {
	f.mu.RLock()
	targets := make([]Notifier, len(f.targets))
	copy(targets, f.targets)
	f.mu.RUnlock()

	for _, t := range targets {
		t.Notify(ctx, n)
	}
}

// Recorder keeps every notification; used by tests and the stats command.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of what was recorded.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many notifications contain msg exactly.
func (r *Recorder) Count(msg string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Message == msg {
			n++
		}
	}
	return n
}
