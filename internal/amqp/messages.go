package amqp

import (
	"encoding/json"
	"time"

	"tally/internal/core"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEventMessage mirrors one ledger mutation onto the queue.
// Created events carry the full record so the consumer can append it to
// the backup without a database round trip; deleted events carry ids only.
type TransactionEventMessage struct {
	Action      string    `json:"action"`
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	Type        string    `json:"type,omitempty"`
	Category    string    `json:"category,omitempty"`
	Date        string    `json:"date,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewCreatedMessage(ownerID int64, t core.Transaction) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:      ActionCreated,
		ID:          t.ID,
		OwnerID:     ownerID,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Category:    t.Category,
		Date:        t.Date,
		Timestamp:   time.Now(),
	}
}

func NewDeletedMessage(ownerID, id int64) *TransactionEventMessage {
	return &TransactionEventMessage{
		Action:    ActionDeleted,
		ID:        id,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
	}
}

// Transaction rebuilds the ledger record carried by a created event.
func (m *TransactionEventMessage) Transaction() core.Transaction {
	return core.Transaction{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Description: m.Description,
		Amount:      m.Amount,
		Type:        core.TransactionType(m.Type),
		Category:    m.Category,
		Date:        m.Date,
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
