package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/campus-rewards/internal/asset"
)

var token = asset.NewAsset("CAMPUS", "Campus Credit", 18)

func policy() RewardPolicy {
	return RewardPolicy{
		PerContribution: asset.MustParse(token, "10"),
		DemoBaseline:    asset.MustParse(token, "100"),
	}
}

func TestRewardPolicy_Balance(t *testing.T) {
	tests := []struct {
		name  string
		count int
		mode  Mode
		want  string
	}{
		{"live_empty", 0, ModeLive, "0"},
		{"live_three", 3, ModeLive, "30"},
		{"demo_empty", 0, ModeDemo, "100"},
		{"demo_three", 3, ModeDemo, "130"},
		{"negative_count_clamped", -2, ModeLive, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy().Balance(tt.count, tt.mode)
			if !got.ToDecimal().Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Balance(%d, %s) = %s, want %s", tt.count, tt.mode, got, tt.want)
			}
		})
	}
}

func TestRewardPolicy_BalanceIsIdempotent(t *testing.T) {
	p := policy()
	for count := 0; count < 20; count++ {
		for _, mode := range []Mode{ModeLive, ModeDemo} {
			a, b := p.Balance(count, mode), p.Balance(count, mode)
			if !a.Equals(b) {
				t.Fatalf("Balance(%d, %s) not stable: %s vs %s", count, mode, a, b)
			}
		}
	}
}

func TestNewTxHash(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		h := NewTxHash()
		if len(h) != 66 || !strings.HasPrefix(h, "0x") {
			t.Fatalf("unexpected hash format %q", h)
		}
		if seen[h] {
			t.Fatalf("duplicate hash %s", h)
		}
		seen[h] = true
	}
}

func TestProviderErrorCode(t *testing.T) {
	err := fmt.Errorf("request accounts: %w", &ProviderError{Code: ProviderCodeUserRejected, Message: "User rejected"})
	if ProviderErrorCode(err) != ProviderCodeUserRejected {
		t.Errorf("code = %d", ProviderErrorCode(err))
	}
	if ProviderErrorCode(errors.New("plain")) != 0 {
		t.Error("plain errors carry no provider code")
	}
}
