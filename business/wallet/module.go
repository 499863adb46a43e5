// Package wallet implements the wallet bounded context: the connection
// session, the reward log and the live bridge provider.
package wallet

import (
	"context"
	"fmt"

	"github.com/fd1az/campus-rewards/business/wallet/app"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
	"github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/business/wallet/infra/bridge"
	"github.com/fd1az/campus-rewards/internal/asset"
	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/di"
	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/monolith"
	"github.com/fd1az/campus-rewards/internal/notify"
)

// Module implements the wallet bounded context.
type Module struct{}

// RegisterServices registers all wallet services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register bridge provider (private - nil when no bridge is configured)
	di.RegisterToken(c, walletDI.Bridge, func(sr di.ServiceRegistry) *bridge.Provider {
		cfg := sr.Get(monolith.ServiceConfig).(*config.Config)
		log := sr.Get(monolith.ServiceLogger).(logger.LoggerInterface)
		if cfg.Wallet.BridgeURL == "" {
			return nil
		}

		bridgeCfg := bridge.DefaultConfig(cfg.Wallet.BridgeURL)
		bridgeCfg.DialTimeout = cfg.Wallet.InitTimeout
		bridgeCfg.RequestTimeout = cfg.Wallet.RequestTimeout
		bridgeCfg.RequestsPerSecond = cfg.Wallet.RequestsPerSecond
		p, err := bridge.New(bridgeCfg, log)
		if err != nil {
			panic("failed to create wallet bridge: " + err.Error())
		}
		return p
	})

	// Register Session (public - exposed to other modules)
	di.RegisterToken(c, walletDI.Session, func(sr di.ServiceRegistry) *app.Session {
		cfg := sr.Get(monolith.ServiceConfig).(*config.Config)
		log := sr.Get(monolith.ServiceLogger).(logger.LoggerInterface)
		store := sr.Get(monolith.ServiceStore).(kvstore.Store)
		notifier := sr.Get(monolith.ServiceNotifier).(*notify.Fanout)
		chains := sr.Get(monolith.ServiceChains).(*asset.Chains)
		token := sr.Get(monolith.ServiceToken).(*asset.Asset)

		sessionCfg, err := SessionConfig(cfg, token)
		if err != nil {
			panic("invalid wallet configuration: " + err.Error())
		}

		var provider app.Provider
		if b := walletDI.GetBridge(sr); b != nil {
			provider = b
		}

		s, err := app.NewSession(sessionCfg, provider, store,
			walletDI.GetContributionCounter(sr), notifier, chains, log)
		if err != nil {
			panic("failed to create wallet session: " + err.Error())
		}
		return s
	})

	return nil
}

// SessionConfig maps application config onto session settings.
func SessionConfig(cfg *config.Config, token *asset.Asset) (app.Config, error) {
	per, err := asset.ParseDecimal(token, cfg.Rewards.PerContributionDecimal())
	if err != nil {
		return app.Config{}, fmt.Errorf("rewards.per_contribution: %w", err)
	}
	baseline, err := asset.ParseDecimal(token, cfg.Rewards.DemoBaselineDecimal())
	if err != nil {
		return app.Config{}, fmt.Errorf("rewards.demo_baseline: %w", err)
	}

	sc := app.DefaultConfig(domain.RewardPolicy{PerContribution: per, DemoBaseline: baseline})
	sc.ChainID = cfg.Wallet.ChainID
	sc.MaxAttempts = cfg.Wallet.MaxAttempts
	sc.InitTimeout = cfg.Wallet.InitTimeout
	sc.AccountDebounce = cfg.Wallet.AccountDebounce
	sc.ChainDebounce = cfg.Wallet.ChainDebounce
	sc.DemoAccount = cfg.Wallet.DemoAddressHex()
	sc.DemoDelay = cfg.Wallet.DemoDelay
	sc.LogCapacity = cfg.Rewards.LogCapacity
	return sc, nil
}

// Startup dials the bridge (if any) and initialises the session. The dial
// and detection share one InitTimeout budget.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	initCtx, cancel := context.WithTimeout(ctx, mono.Config().Wallet.InitTimeout)
	defer cancel()

	if b := walletDI.GetBridge(mono.Services()); b != nil {
		if err := b.Connect(initCtx); err != nil {
			// Don't fail - the session falls back to demo mode
			log.Warn(ctx, "wallet bridge unreachable", "url", mono.Config().Wallet.BridgeURL, "error", err)
		}
	}

	s := walletDI.GetSession(mono.Services())
	s.Initialize(initCtx)

	st := s.Stats()
	log.Info(ctx, "wallet module started", "mode", st.Mode, "connected", st.Connected)
	return nil
}

// Shutdown stops the session and closes the bridge.
func (m *Module) Shutdown(ctx context.Context, mono monolith.Monolith) error {
	if err := walletDI.GetSession(mono.Services()).Close(); err != nil {
		return err
	}
	if b := walletDI.GetBridge(mono.Services()); b != nil {
		return b.Close()
	}
	return nil
}
