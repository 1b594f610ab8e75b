package aiusage

import (
	"context"
	"errors"
)

type usageStore interface {
	Consume(ctx context.Context, clientID string) error
	EnsureClient(ctx context.Context, clientID string) error
}

// Service orchestrates the monthly plan allowance.
type Service struct {
	store usageStore
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Consume deducts one plan from the client's monthly allowance.
// If the client row does not exist yet it is initialised and the plan is immediately consumed.
// Returns ErrQuotaExceeded when the allowance for the current month is exhausted.
func (s *Service) Consume(ctx context.Context, clientID string) error {
	err := s.store.Consume(ctx, clientID)
	if !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureClient(ctx, clientID); initErr != nil {
		return initErr
	}
	return s.store.Consume(ctx, clientID)
}
