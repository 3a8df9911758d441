package services

import (
	"context"
	"errors"
	"testing"

	"tally/internal/core"
	"tally/internal/ledger/memory"
)

type recordingPublisher struct {
	created []int64
	deleted []int64
	fail    bool
}

func (p *recordingPublisher) PublishTransactionCreated(ctx context.Context, ownerID int64, t core.Transaction) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.created = append(p.created, t.ID)
	return nil
}

func (p *recordingPublisher) PublishTransactionDeleted(ctx context.Context, ownerID, id int64) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.deleted = append(p.deleted, id)
	return nil
}

func TestCreatePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLedgerService(memory.NewStore(), pub)

	created, err := svc.Create(context.Background(), 1, core.Transaction{
		Description: "lunch", Amount: 10, Type: core.TypeExpense, Date: "2024-03-02",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.created) != 1 || pub.created[0] != created.ID {
		t.Fatalf("published = %v, want [%d]", pub.created, created.ID)
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	store := memory.NewStore()
	svc := NewLedgerService(store, &recordingPublisher{fail: true})

	if _, err := svc.Create(context.Background(), 1, core.Transaction{
		Description: "lunch", Amount: 10, Type: core.TypeExpense, Date: "2024-03-02",
	}); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if list, _ := svc.List(context.Background(), 1); len(list) != 1 {
		t.Fatalf("transaction not stored: %v", list)
	}
}

func TestCreateValidationError(t *testing.T) {
	svc := NewLedgerService(memory.NewStore(), nil)
	_, err := svc.Create(context.Background(), 1, core.Transaction{
		Description: "", Amount: 10, Type: core.TypeExpense, Date: "2024-03-02",
	})
	if !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("got %v, want ErrEmptyDescription", err)
	}
}

func TestDeleteSilentNoOp(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLedgerService(memory.NewStore(), pub)

	// Deleting a missing id succeeds and publishes nothing.
	if err := svc.Delete(context.Background(), 1, 99); err != nil {
		t.Fatalf("delete of missing id: %v", err)
	}
	if len(pub.deleted) != 0 {
		t.Fatalf("no-op delete must not publish: %v", pub.deleted)
	}
}

func TestDeletePublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	store := memory.NewStore()
	svc := NewLedgerService(store, pub)

	created, err := svc.Create(context.Background(), 1, core.Transaction{
		Description: "lunch", Amount: 10, Type: core.TypeExpense, Date: "2024-03-02",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.deleted) != 1 || pub.deleted[0] != created.ID {
		t.Fatalf("published deletes = %v", pub.deleted)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewLedgerService(seedStore(t), nil)
	list, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list = %v", list)
	}
	if list[0].Date != "2024-03-02" || list[2].Date != "2024-02-01" {
		t.Fatalf("expected newest first: %v", list)
	}
}
