package app

import "github.com/fd1az/campus-rewards/business/wallet/domain"

// DefaultLogCapacity bounds the reward log.
const DefaultLogCapacity = 50

// TxLog is an append-only record list that evicts the oldest entry once
// full. It is not safe for concurrent use; Session guards it.
type TxLog struct {
	capacity int
	records  []domain.TransactionRecord
}

// NewTxLog returns an empty log holding at most capacity records.
func NewTxLog(capacity int) *TxLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &TxLog{capacity: capacity}
}

// Append adds rec and returns how many old records were evicted.
func (l *TxLog) Append(rec domain.TransactionRecord) int {
	l.records = append(l.records, rec)
	return l.trim()
}

// Load replaces the contents, keeping only the newest capacity records.
func (l *TxLog) Load(records []domain.TransactionRecord) {
	l.records = append(l.records[:0:0], records...)
	l.trim()
}

func (l *TxLog) trim() int {
	over := len(l.records) - l.capacity
	if over <= 0 {
		return 0
	}
	kept := make([]domain.TransactionRecord, l.capacity)
	copy(kept, l.records[over:])
	l.records = kept
	return over
}

// Records returns a copy, oldest first.
func (l *TxLog) Records() []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len is the number of records held.
func (l *TxLog) Len() int { return len(l.records) }

// RewardCount counts records flagged as rewards.
func (l *TxLog) RewardCount() int {
	n := 0
	for _, r := range l.records {
		if r.IsReward {
			n++
		}
	}
	return n
}
