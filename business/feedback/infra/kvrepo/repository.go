// Package kvrepo stores contributions in the key-value store, one JSON
// array per kind.
package kvrepo

import (
	"context"
	"sync"

	"github.com/fd1az/campus-rewards/business/feedback/domain"
	"github.com/fd1az/campus-rewards/internal/apperror"
	"github.com/fd1az/campus-rewards/internal/kvstore"
)

// Storage keys.
const (
	FeedbackKey = "campus_feedback"
	ReportsKey  = "campus_reports"
)

// Repository implements app.Repository.
type Repository struct {
	store kvstore.Store
	mu    sync.Mutex // serialises read-modify-write of a list
}

// New returns a repository over store.
func New(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

func keyFor(kind domain.Kind) (string, error) {
	switch kind {
	case domain.KindFeedback:
		return FeedbackKey, nil
	case domain.KindReport:
		return ReportsKey, nil
	}
	return "", apperror.Validation(apperror.CodeInvalidKind, string(kind))
}

// Save inserts c, or replaces the stored contribution with the same ID.
func (r *Repository) Save(ctx context.Context, c domain.Contribution) error {
	key, err := keyFor(c.Kind)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx, key)
	if err != nil {
		return err
	}

	replaced := false
	for i := range list {
		if list[i].ID == c.ID {
			list[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, c)
	}

	if err := kvstore.SetJSON(ctx, r.store, key, list); err != nil {
		return apperror.Internal(apperror.CodeStorageFailure, key, err)
	}
	return nil
}

// List returns the contributions of kind, oldest first.
func (r *Repository) List(ctx context.Context, kind domain.Kind) ([]domain.Contribution, error) {
	key, err := keyFor(kind)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, key)
}

// Count returns feedback plus reports. It is the contribution counter
// the wallet balance is derived from.
func (r *Repository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, key := range []string{FeedbackKey, ReportsKey} {
		list, err := r.load(ctx, key)
		if err != nil {
			return 0, err
		}
		total += len(list)
	}
	return total, nil
}

func (r *Repository) load(ctx context.Context, key string) ([]domain.Contribution, error) {
	var list []domain.Contribution
	if _, err := kvstore.GetJSON(ctx, r.store, key, &list); err != nil {
		return nil, apperror.Internal(apperror.CodeStorageFailure, key, err)
	}
	return list, nil
}
