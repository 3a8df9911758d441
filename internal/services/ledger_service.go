package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/ledger"
)

// EventPublisher mirrors ledger mutations to the backup queue.
type EventPublisher interface {
	PublishTransactionCreated(ctx context.Context, ownerID int64, t core.Transaction) error
	PublishTransactionDeleted(ctx context.Context, ownerID, id int64) error
}

// LedgerService is the thin mutation pass-through: it writes to the
// store and mirrors successful writes onto the event queue. Publish
// failures are logged and never fail the originating request.
type LedgerService struct {
	store  ledger.TransactionStore
	events EventPublisher
}

func NewLedgerService(store ledger.TransactionStore, events EventPublisher) *LedgerService {
	return &LedgerService{store: store, events: events}
}

// List returns the owner's transactions, newest date first.
func (s *LedgerService) List(ctx context.Context, ownerID int64) ([]core.Transaction, error) {
	transactions, err := s.store.ListByOwner(ctx, ownerID, ledger.ListOptions{Order: ledger.OrderDesc})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

func (s *LedgerService) Create(ctx context.Context, ownerID int64, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.Create(ctx, ownerID, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishTransactionCreated(ctx, ownerID, created); err != nil {
			slog.ErrorContext(ctx, "Failed to publish create event",
				"id", created.ID, "error", err)
		}
	}
	return created, nil
}

// Delete removes the owner's transaction. A missing or non-owned id is
// a silent no-op: the caller sees success either way.
func (s *LedgerService) Delete(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.store.DeleteByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !deleted {
		return nil
	}

	if s.events != nil {
		if err := s.events.PublishTransactionDeleted(ctx, ownerID, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete event",
				"id", id, "error", err)
		}
	}
	return nil
}
