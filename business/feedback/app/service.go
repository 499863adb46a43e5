package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fd1az/campus-rewards/business/feedback/domain"
	walletDomain "github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/apm"
	"github.com/fd1az/campus-rewards/internal/apperror"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/notify"
)

const tracerName = "github.com/fd1az/campus-rewards/business/feedback/app"

// User-facing notification texts.
const (
	msgSubmitted       = "Thanks! Your %s was submitted."
	msgSubmittedReview = "Thanks! Your %s was submitted and will be reviewed by staff."
	msgRejected        = "Your %s was not accepted. Please remove offensive or threatening language."
)

// Service runs the submission flow: validate, moderate, store, reward.
type Service struct {
	repo      Repository
	moderator *domain.Moderator
	wallet    Rewarder
	reward    decimal.Decimal
	notifier  notify.Notifier
	logger    logger.LoggerInterface
	tracer    apm.Tracer
	now       func() time.Time
}

// NewService creates the submission service. reward is paid per accepted
// contribution.
func NewService(
	repo Repository,
	moderator *domain.Moderator,
	wallet Rewarder,
	reward decimal.Decimal,
	notifier notify.Notifier,
	log logger.LoggerInterface,
) *Service {
	return &Service{
		repo:      repo,
		moderator: moderator,
		wallet:    wallet,
		reward:    reward,
		notifier:  notifier,
		logger:    log,
		tracer:    apm.NewTracer(tracerName),
		now:       time.Now,
	}
}

// Submit validates and moderates sub, stores it and pays the reward.
// Rejected content is neither stored nor rewarded.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (*domain.Contribution, error) {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "feedback.submit")
	defer span.End()

	sub = sub.Normalize()
	if err := sub.Validate(); err != nil {
		span.NoticeError(err)
		return nil, err
	}

	mod := s.moderator.Review(sub.Text())
	span.SetAttributes(
		attribute.String("kind", string(sub.Kind)),
		attribute.String("verdict", string(mod.Verdict)),
		attribute.String("sentiment", string(mod.Sentiment)),
	)

	if mod.Verdict == domain.VerdictRejected {
		err := apperror.New(apperror.CodeContentRejected, apperror.WithContext(string(sub.Kind)))
		span.NoticeError(err)
		s.logger.Warn(ctx, "submission rejected by moderation", "kind", sub.Kind, "matched", mod.Matched)
		s.notify(ctx, notify.SeverityError, msgRejected, sub.Kind)
		return nil, err
	}

	c := domain.NewContribution(sub, mod, s.now())
	account, connected := s.wallet.Account()
	if connected && !sub.Anonymous {
		c.Wallet = account.Hex()
	}

	// stored before the reward so the balance refresh counts it
	if err := s.repo.Save(ctx, c); err != nil {
		appErr := apperror.Internal(apperror.CodeStorageFailure, "feedback.save", err)
		span.NoticeError(appErr)
		return nil, appErr
	}

	recipient := walletDomain.PendingRecipient
	if connected {
		recipient = account.Hex()
	}
	c.TxHash = s.wallet.SendReward(ctx, recipient, s.reward)

	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.Warn(ctx, "failed to attach reward hash", "id", c.ID.String(), "error", err)
	}

	s.logger.Info(ctx, "contribution submitted",
		"id", c.ID.String(), "kind", c.Kind, "verdict", mod.Verdict, "tx", c.TxHash)
	if mod.Verdict == domain.VerdictFlagged {
		s.notify(ctx, notify.SeverityWarning, msgSubmittedReview, sub.Kind)
	} else {
		s.notify(ctx, notify.SeveritySuccess, msgSubmitted, sub.Kind)
	}
	return &c, nil
}

// List returns stored contributions of kind, oldest first.
func (s *Service) List(ctx context.Context, kind domain.Kind) ([]domain.Contribution, error) {
	return s.repo.List(ctx, kind)
}

// Count returns the number of stored contributions of both kinds.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) notify(ctx context.Context, sev notify.Severity, format string, kind domain.Kind) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notify.New(sev, fmt.Sprintf(format, kind)))
}
