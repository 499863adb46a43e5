// Package app contains the submission service and its ports.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/campus-rewards/business/feedback/domain"
)

// Repository stores contributions.
type Repository interface {
	Save(ctx context.Context, c domain.Contribution) error
	List(ctx context.Context, kind domain.Kind) ([]domain.Contribution, error)
	Count(ctx context.Context) (int, error)
}

// Rewarder is the slice of the wallet session the submission flow needs.
type Rewarder interface {
	Account() (common.Address, bool)
	SendReward(ctx context.Context, recipient string, amount decimal.Decimal) string
}
