// Package services holds the write-side orchestration: persist first, then
// announce. Event publishing never fails a request.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
	"fintrack/internal/storage"
)

// EventPublisher is satisfied by *events.Publisher; nil disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.TransactionEvent) error
}

// TransactionService persists expenses and incomes and publishes lifecycle
// events for downstream consumers.
type TransactionService struct {
	store     *storage.SQLiteRepository
	publisher EventPublisher
}

func NewTransactionService(store *storage.SQLiteRepository, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

func (s *TransactionService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, events.NewTransactionEvent(events.ExpenseCreated, created.ID, created.UserID, created.Amount))
	return created, nil
}

func (s *TransactionService) UpdateExpense(ctx context.Context, id string, p storage.UpdateExpenseParams) (core.Expense, error) {
	return s.store.UpdateExpense(ctx, id, p)
}

func (s *TransactionService) DeleteExpense(ctx context.Context, id string) error {
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.NewTransactionEvent(events.ExpenseDeleted, e.ID, e.UserID, e.Amount))
	return nil
}

func (s *TransactionService) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	created, err := s.store.CreateIncome(ctx, i)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}

	s.publish(ctx, events.NewTransactionEvent(events.IncomeCreated, created.ID, created.UserID, created.Amount))
	return created, nil
}

func (s *TransactionService) UpdateIncome(ctx context.Context, id string, p storage.UpdateIncomeParams) (core.Income, error) {
	return s.store.UpdateIncome(ctx, id, p)
}

func (s *TransactionService) DeleteIncome(ctx context.Context, id string) error {
	i, err := s.store.GetIncome(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}

	s.publish(ctx, events.NewTransactionEvent(events.IncomeDeleted, i.ID, i.UserID, i.Amount))
	return nil
}

// publish is best-effort: the row is already committed, so a broker error
// is logged and swallowed.
func (s *TransactionService) publish(ctx context.Context, ev events.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"kind", string(ev.Kind),
			"entity_id", ev.EntityID,
			"error", err)
	}
}
