// Package app contains the wallet session and the ports it depends on.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/asset"
)

// Provider is an injected wallet (browser extension bridge, hardware
// signer, ...). Errors that originate in the wallet should wrap
// *domain.ProviderError so the session can tell a user decline apart.
type Provider interface {
	// IsAvailable reports whether the wallet can be reached right now.
	IsAvailable() bool

	// RequestAccounts asks the user to authorise the app. Interactive.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// Accounts returns already-authorised accounts without prompting.
	Accounts(ctx context.Context) ([]common.Address, error)

	// Subscribe registers handler for a pushed event. The returned func
	// removes it.
	Subscribe(event domain.EventName, handler func(domain.Event)) func()

	ChainID(ctx context.Context) (string, error)
	SwitchChain(ctx context.Context, chainID string) error
	AddChain(ctx context.Context, chain asset.Chain) error
}

// ContributionCounter reports how many contributions the local user made.
type ContributionCounter interface {
	Count(ctx context.Context) (int, error)
}

// ContributionCounterFunc adapts a function to ContributionCounter.
type ContributionCounterFunc func(ctx context.Context) (int, error)

func (f ContributionCounterFunc) Count(ctx context.Context) (int, error) { return f(ctx) }
