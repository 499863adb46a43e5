package ui

import (
	walletDomain "github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/notify"
)

// Message types for TUI updates

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// NotificationMsg carries a service notification into the UI.
type NotificationMsg struct {
	Notification notify.Notification
}

// SnapshotMsg is the result of polling the wallet and the contribution store.
type SnapshotMsg struct {
	Stats        walletDomain.Stats
	Transactions []walletDomain.TransactionRecord
	Feedback     int
	Reports      int
	Refreshes    int64
}

// ActionDoneMsg reports the outcome of a key-triggered wallet action.
// Failures are already notified by the session; Err is kept for the
// error panel.
type ActionDoneMsg struct {
	Action string
	Err    error
}

// StartupMsg is sent once the modules have started (or failed to).
type StartupMsg struct {
	Err error
}
