package events

import (
	"testing"
)

func TestNewTransactionEvent(t *testing.T) {
	ev := NewTransactionEvent(ExpenseCreated, "e1", "default-user", 45.50)
	if ev.Kind != ExpenseCreated || ev.EntityID != "e1" || ev.Amount != 45.50 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.OccurredAt.IsZero() {
		t.Fatal("OccurredAt not set")
	}
}

func TestEventWireFormat(t *testing.T) {
	ev := NewTransactionEvent(IncomeDeleted, "i1", "default-user", 100)
	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Kind != IncomeDeleted || got.EntityID != "i1" || got.Amount != 100 {
		t.Fatalf("got %+v", got)
	}

	if _, err := FromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
