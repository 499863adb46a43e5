// Package di contains dependency injection tokens for the wallet context.
package di

import (
	"github.com/fd1az/campus-rewards/business/wallet/app"
	"github.com/fd1az/campus-rewards/business/wallet/infra/bridge"
	"github.com/fd1az/campus-rewards/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Session = di.NewToken[*app.Session]("wallet.Session")
)

// Port tokens - implemented outside the wallet module
var (
	ContributionCounter = di.NewToken[app.ContributionCounter]("wallet.ContributionCounter")
)

// Private dependency tokens - internal to wallet module
var (
	Bridge = di.NewToken[*bridge.Provider]("wallet:bridge")
)

// Helper functions for type-safe access
func GetSession(c di.ServiceRegistry) *app.Session {
	return di.GetToken(c, Session)
}

// GetContributionCounter returns nil when no module provides one.
func GetContributionCounter(c di.ServiceRegistry) app.ContributionCounter {
	if !c.Has(ContributionCounter.Name()) {
		return nil
	}
	return di.GetToken(c, ContributionCounter)
}

// GetBridge returns nil when no bridge URL is configured.
func GetBridge(c di.ServiceRegistry) *bridge.Provider {
	return di.GetToken(c, Bridge)
}
