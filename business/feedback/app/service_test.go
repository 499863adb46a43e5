package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/campus-rewards/business/feedback/domain"
	"github.com/fd1az/campus-rewards/business/feedback/infra/kvrepo"
	walletDomain "github.com/fd1az/campus-rewards/business/wallet/domain"
	"github.com/fd1az/campus-rewards/internal/apperror"
	"github.com/fd1az/campus-rewards/internal/kvstore"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/notify"
)

type fakeRewarder struct {
	mu        sync.Mutex
	account   common.Address
	connected bool
	sent      []string
	amounts   []decimal.Decimal
}

func (f *fakeRewarder) Account() (common.Address, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.account, f.connected
}

func (f *fakeRewarder) SendReward(_ context.Context, recipient string, amount decimal.Decimal) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recipient)
	f.amounts = append(f.amounts, amount)
	return walletDomain.NewTxHash()
}

type failingRepo struct{ Repository }

func (failingRepo) Save(context.Context, domain.Contribution) error {
	return errors.New("disk full")
}

func newService(t *testing.T, wallet Rewarder, repo Repository) (*Service, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	mod := domain.NewModerator([]string{"bomb"}, []string{"stupid"})
	return NewService(repo, mod, wallet, decimal.NewFromInt(10), rec, logger.NewNop()), rec
}

func TestService_Submit(t *testing.T) {
	alice := common.HexToAddress("0x000000000000000000000000000000000000a11c")

	tests := []struct {
		name          string
		wallet        *fakeRewarder
		sub           domain.Submission
		wantWallet    string
		wantRecipient string
		wantVerdict   domain.Verdict
		wantSeverity  notify.Severity
	}{
		{
			name:          "connected",
			wallet:        &fakeRewarder{account: alice, connected: true},
			sub:           domain.Submission{Kind: domain.KindFeedback, Category: "dining", Message: "  great food  "},
			wantWallet:    alice.Hex(),
			wantRecipient: alice.Hex(),
			wantVerdict:   domain.VerdictApproved,
			wantSeverity:  notify.SeveritySuccess,
		},
		{
			name:          "anonymous_keeps_reward_recipient",
			wallet:        &fakeRewarder{account: alice, connected: true},
			sub:           domain.Submission{Kind: domain.KindFeedback, Category: "dining", Message: "fine", Anonymous: true},
			wantWallet:    "",
			wantRecipient: alice.Hex(),
			wantVerdict:   domain.VerdictApproved,
			wantSeverity:  notify.SeveritySuccess,
		},
		{
			name:          "disconnected_pays_pending",
			wallet:        &fakeRewarder{},
			sub:           domain.Submission{Kind: domain.KindReport, Category: "facilities", Title: "Leak", Message: "water leak", Location: "Library"},
			wantRecipient: walletDomain.PendingRecipient,
			wantVerdict:   domain.VerdictApproved,
			wantSeverity:  notify.SeveritySuccess,
		},
		{
			name:          "flagged_is_stored_for_review",
			wallet:        &fakeRewarder{},
			sub:           domain.Submission{Kind: domain.KindFeedback, Category: "staff", Message: "stupid queue"},
			wantRecipient: walletDomain.PendingRecipient,
			wantVerdict:   domain.VerdictFlagged,
			wantSeverity:  notify.SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := kvrepo.New(kvstore.NewMemory())
			svc, rec := newService(t, tt.wallet, repo)

			c, err := svc.Submit(ctx, tt.sub)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if c.Wallet != tt.wantWallet {
				t.Errorf("Wallet = %q, want %q", c.Wallet, tt.wantWallet)
			}
			if c.Moderation.Verdict != tt.wantVerdict {
				t.Errorf("Verdict = %s, want %s", c.Moderation.Verdict, tt.wantVerdict)
			}
			if len(tt.wallet.sent) != 1 || tt.wallet.sent[0] != tt.wantRecipient {
				t.Errorf("rewards sent to %v, want [%s]", tt.wallet.sent, tt.wantRecipient)
			}
			if !tt.wallet.amounts[0].Equal(decimal.NewFromInt(10)) {
				t.Errorf("reward amount = %s", tt.wallet.amounts[0])
			}

			stored, err := svc.List(ctx, tt.sub.Kind)
			if err != nil || len(stored) != 1 {
				t.Fatalf("List() = %v, %v", stored, err)
			}
			if stored[0].TxHash == "" || stored[0].TxHash != c.TxHash {
				t.Errorf("stored TxHash = %q, returned %q", stored[0].TxHash, c.TxHash)
			}

			notes := rec.All()
			if len(notes) != 1 || notes[0].Severity != tt.wantSeverity {
				t.Errorf("notifications = %+v", notes)
			}
		})
	}
}

func TestService_RejectedIsNotStored(t *testing.T) {
	ctx := context.Background()
	wallet := &fakeRewarder{}
	repo := kvrepo.New(kvstore.NewMemory())
	svc, rec := newService(t, wallet, repo)

	_, err := svc.Submit(ctx, domain.Submission{Kind: domain.KindFeedback, Category: "safety", Message: "there is a bomb"})
	if !apperror.HasCode(err, apperror.CodeContentRejected) {
		t.Fatalf("Submit() error = %v, want CONTENT_REJECTED", err)
	}
	if n, _ := svc.Count(ctx); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if len(wallet.sent) != 0 {
		t.Errorf("rejected content was rewarded: %v", wallet.sent)
	}
	if notes := rec.All(); len(notes) != 1 || notes[0].Severity != notify.SeverityError {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestService_ValidationFailure(t *testing.T) {
	wallet := &fakeRewarder{}
	svc, _ := newService(t, wallet, kvrepo.New(kvstore.NewMemory()))

	_, err := svc.Submit(context.Background(), domain.Submission{Kind: domain.KindReport, Category: "x", Message: "broken door"})
	if !apperror.HasCode(err, apperror.CodeRequiredField) {
		t.Errorf("Submit() error = %v, want REQUIRED_FIELD", err)
	}
	if len(wallet.sent) != 0 {
		t.Error("invalid submission was rewarded")
	}
}

func TestService_StorageFailure(t *testing.T) {
	wallet := &fakeRewarder{}
	svc, _ := newService(t, wallet, failingRepo{})

	_, err := svc.Submit(context.Background(), domain.Submission{Kind: domain.KindFeedback, Category: "x", Message: "ok"})
	if !apperror.HasCode(err, apperror.CodeStorageFailure) {
		t.Errorf("Submit() error = %v, want STORAGE_FAILURE", err)
	}
	if len(wallet.sent) != 0 {
		t.Error("unsaved submission was rewarded")
	}
}
