package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const budgetColumns = `b.id, b.amount, b.period, b.category_id, b.user_id, b.created_at, b.updated_at,
	c.id, c.name, c.type, c.color`

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var b core.Budget
	var c core.Category
	err := row.Scan(
		&b.ID, &b.Amount, &b.Period, &b.CategoryID, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
		&c.ID, &c.Name, &c.Type, &c.Color)
	if err != nil {
		return core.Budget{}, err
	}
	b.Category = &c
	return b, nil
}

// ListBudgets returns the user's budgets, most recently created first, with
// their categories joined.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+`
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.user_id = ?
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	b, err := scanBudget(r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+`
		 FROM budgets b
		 JOIN categories c ON c.id = b.category_id
		 WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, amount, period, category_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Amount, string(b.Period), b.CategoryID, b.UserID, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return r.GetBudget(ctx, b.ID)
}

// UpdateBudgetParams carries optional fields; nil means unchanged.
type UpdateBudgetParams struct {
	Amount     *float64
	Period     *core.BudgetPeriod
	CategoryID *string
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, id string, p UpdateBudgetParams) (core.Budget, error) {
	b, err := r.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, err
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
	b.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE budgets SET amount = ?, period = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		b.Amount, string(b.Period), b.CategoryID, b.UpdatedAt, b.ID)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return r.GetBudget(ctx, id)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
