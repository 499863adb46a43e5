package domain

import (
	"crypto/rand"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// TxStatus of a reward record.
type TxStatus string

const (
	// StatusSimulated: earned while no wallet was connected.
	StatusSimulated TxStatus = "simulated"
	// StatusDemo is only found in logs written before demo rewards were
	// marked confirmed; it is still decoded.
	StatusDemo      TxStatus = "demo"
	StatusTracked   TxStatus = "tracked"
	StatusConfirmed TxStatus = "confirmed"
)

// TxKind says which session mode produced the record.
type TxKind string

const (
	KindSimulated TxKind = "simulated"
	KindDemo      TxKind = "demo"
	KindLive      TxKind = "live"
)

// PendingRecipient stands in for the recipient while disconnected.
const PendingRecipient = "Pending Connection"

// RewardSource is recorded as the sender of every reward.
const RewardSource = "Campus Rewards"

// TransactionRecord is one entry of the reward log.
type TransactionRecord struct {
	Hash      string          `json:"hash"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp int64           `json:"timestamp"` // unix millis
	Status    TxStatus        `json:"status"`
	Kind      TxKind          `json:"kind"`
	IsReward  bool            `json:"isReward"`
}

// NewTxHash returns a random 32-byte hex string. It identifies a record
// locally and is not derived from the record contents.
func NewTxHash() string {
	var b [common.HashLength]byte
	_, _ = rand.Read(b[:])
	return common.BytesToHash(b[:]).Hex()
}
