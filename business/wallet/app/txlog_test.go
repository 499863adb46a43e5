package app

import (
	"fmt"
	"testing"

	"github.com/fd1az/campus-rewards/business/wallet/domain"
)

func rec(i int, reward bool) domain.TransactionRecord {
	return domain.TransactionRecord{Hash: fmt.Sprintf("0x%02x", i), IsReward: reward}
}

func TestTxLog_AppendEvictsOldest(t *testing.T) {
	l := NewTxLog(3)
	for i := 0; i < 3; i++ {
		if ev := l.Append(rec(i, true)); ev != 0 {
			t.Fatalf("append %d evicted %d", i, ev)
		}
	}
	if ev := l.Append(rec(3, true)); ev != 1 {
		t.Fatalf("evicted = %d, want 1", ev)
	}

	got := l.Records()
	want := []string{"0x01", "0x02", "0x03"}
	for i, r := range got {
		if r.Hash != want[i] {
			t.Errorf("records[%d] = %s, want %s", i, r.Hash, want[i])
		}
	}
}

func TestTxLog_LoadKeepsNewest(t *testing.T) {
	tests := []struct {
		name      string
		loaded    int
		wantLen   int
		wantFirst string
	}{
		{"under_capacity", 2, 2, "0x00"},
		{"at_capacity", 3, 3, "0x00"},
		{"over_capacity", 5, 3, "0x02"},
		{"empty", 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in []domain.TransactionRecord
			for i := 0; i < tt.loaded; i++ {
				in = append(in, rec(i, true))
			}
			l := NewTxLog(3)
			l.Load(in)

			if l.Len() != tt.wantLen {
				t.Fatalf("Len() = %d, want %d", l.Len(), tt.wantLen)
			}
			if tt.wantLen > 0 && l.Records()[0].Hash != tt.wantFirst {
				t.Errorf("first = %s, want %s", l.Records()[0].Hash, tt.wantFirst)
			}
		})
	}
}

func TestTxLog_RecordsIsACopy(t *testing.T) {
	l := NewTxLog(0)
	l.Append(rec(1, true))
	l.Records()[0].Hash = "mutated"
	if l.Records()[0].Hash != "0x01" {
		t.Error("Records exposed internal storage")
	}
}

func TestTxLog_RewardCount(t *testing.T) {
	l := NewTxLog(10)
	l.Append(rec(1, true))
	l.Append(rec(2, false))
	l.Append(rec(3, true))
	if l.RewardCount() != 2 {
		t.Errorf("RewardCount() = %d, want 2", l.RewardCount())
	}
}
