package events

import (
	"encoding/json"
	"time"
)

// Kind identifies what happened to which entity.
type Kind string

const (
	ExpenseCreated Kind = "expense.created"
	ExpenseDeleted Kind = "expense.deleted"
	IncomeCreated  Kind = "income.created"
	IncomeDeleted  Kind = "income.deleted"
)

// TransactionEvent is the message published when an expense or income is
// created or deleted. Consumers that need the full row fetch it by id.
type TransactionEvent struct {
	Kind       Kind      `json:"kind"`
	EntityID   string    `json:"entity_id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTransactionEvent(kind Kind, entityID, userID string, amount float64) TransactionEvent {
	return TransactionEvent{
		Kind:       kind,
		EntityID:   entityID,
		UserID:     userID,
		Amount:     amount,
		OccurredAt: time.Now(),
	}
}

func (e TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return TransactionEvent{}, err
	}
	return e, nil
}
