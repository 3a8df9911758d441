package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
)

// TransactionAppender is the slice of the spreadsheet client the
// backup worker needs.
type TransactionAppender interface {
	AppendTransaction(ctx context.Context, ownerID int64, t core.Transaction) error
}

// BackupWorker mirrors ledger events into an append-only spreadsheet
// backup. Created transactions become rows; deletes are acknowledged
// and logged but never remove rows, so the backup doubles as an audit
// trail.
type BackupWorker struct {
	appender TransactionAppender
}

func NewBackupWorker(appender TransactionAppender) *BackupWorker {
	return &BackupWorker{appender: appender}
}

// HandleEvent processes a single transaction event from the queue.
func (w *BackupWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	switch msg.Action {
	case amqp.ActionCreated:
		slog.InfoContext(ctx, "Backing up created transaction",
			"id", msg.ID, "owner_id", msg.OwnerID)

		if err := w.appender.AppendTransaction(ctx, msg.OwnerID, msg.Transaction()); err != nil {
			return fmt.Errorf("append transaction %d: %w", msg.ID, err)
		}
		return nil

	case amqp.ActionDeleted:
		slog.InfoContext(ctx, "Transaction deleted upstream, keeping backup row",
			"id", msg.ID, "owner_id", msg.OwnerID)
		return nil

	default:
		slog.WarnContext(ctx, "Unknown event action, skipping",
			"action", msg.Action, "id", msg.ID)
		return nil
	}
}
