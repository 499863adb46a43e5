package domain

import "github.com/fd1az/campus-rewards/internal/asset"

// RewardPolicy fixes what a contribution is worth.
type RewardPolicy struct {
	PerContribution asset.Amount
	DemoBaseline    asset.Amount
}

// Balance derives the displayed balance from local contributions only.
// There is no ledger behind it: same inputs, same output.
func (p RewardPolicy) Balance(contributions int, mode Mode) asset.Amount {
	if contributions < 0 {
		contributions = 0
	}
	bal := p.PerContribution.Mul(int64(contributions))
	if mode == ModeDemo {
		// same asset by construction
		bal, _ = bal.Add(p.DemoBaseline)
	}
	return bal
}
