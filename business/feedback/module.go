// Package feedback implements the feedback bounded context: submission,
// moderation and storage of feedback and incident reports.
package feedback

import (
	"context"

	"github.com/fd1az/campus-rewards/business/feedback/app"
	feedbackDI "github.com/fd1az/campus-rewards/business/feedback/di"
	"github.com/fd1az/campus-rewards/business/feedback/domain"
	"github.com/fd1az/campus-rewards/business/feedback/infra/kvrepo"
	walletApp "github.com/fd1az/campus-rewards/business/wallet/app"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/di"
	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/monolith"
	"github.com/fd1az/campus-rewards/internal/notify"
)

// Module implements the feedback bounded context.
type Module struct{}

// RegisterServices registers all feedback services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, feedbackDI.Repository, func(sr di.ServiceRegistry) *kvrepo.Repository {
		return kvrepo.New(sr.Get(monolith.ServiceStore).(kvstore.Store))
	})

	// The wallet derives its balance from our contribution count
	di.RegisterToken(c, walletDI.ContributionCounter, func(sr di.ServiceRegistry) walletApp.ContributionCounter {
		return walletApp.ContributionCounterFunc(feedbackDI.GetRepository(sr).Count)
	})

	di.RegisterToken(c, feedbackDI.Service, func(sr di.ServiceRegistry) *app.Service {
		cfg := sr.Get(monolith.ServiceConfig).(*config.Config)
		log := sr.Get(monolith.ServiceLogger).(logger.LoggerInterface)
		notifier := sr.Get(monolith.ServiceNotifier).(*notify.Fanout)

		moderator := domain.NewModerator(cfg.Moderation.BlockedKeywords, cfg.Moderation.FlaggedKeywords)
		return app.NewService(
			feedbackDI.GetRepository(sr),
			moderator,
			walletDI.GetSession(sr),
			cfg.Rewards.PerContributionDecimal(),
			notifier,
			log,
		)
	})

	return nil
}

// Startup logs how many contributions are already stored.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	n, err := feedbackDI.GetRepository(mono.Services()).Count(ctx)
	if err != nil {
		return err
	}
	mono.Logger().Info(ctx, "feedback module started", "contributions", n)
	return nil
}
