package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const expenseColumns = `e.id, e.amount, e.description, e.date, e.category_id, e.user_id, e.created_at, e.updated_at,
	c.id, c.name, c.type, c.color, c.user_id, c.created_at, c.updated_at`

func scanExpense(row interface{ Scan(...any) error }) (core.Expense, error) {
	var e core.Expense
	var c core.Category
	err := row.Scan(
		&e.ID, &e.Amount, &e.Description, &e.Date, &e.CategoryID, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
		&c.ID, &c.Name, &c.Type, &c.Color, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	e.Category = &c
	return e, nil
}

// ListExpenses returns every expense for the user, newest first, each with
// its category populated.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e
		 JOIN categories c ON c.id = e.category_id
		 WHERE e.user_id = ?
		 ORDER BY e.date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// GetExpense returns a single expense with its category, or core.ErrNotFound.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	e, err := scanExpense(r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e
		 JOIN categories c ON c.id = e.category_id
		 WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, description, date, category_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount, e.Description, e.Date, e.CategoryID, e.UserID, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"entity_id", e.ID,
		"amount", e.Amount,
		"category", e.CategoryID)

	return r.GetExpense(ctx, e.ID)
}

// UpdateExpenseParams carries optional fields; nil means unchanged.
type UpdateExpenseParams struct {
	Amount      *float64
	Description *string
	CategoryID  *string
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id string, p UpdateExpenseParams) (core.Expense, error) {
	e, err := r.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	e.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		e.Amount, e.Description, e.CategoryID, e.UpdatedAt, e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return r.GetExpense(ctx, id)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

const incomeColumns = `i.id, i.amount, i.description, i.date, i.category_id, i.source_id, i.user_id, i.created_at, i.updated_at,
	c.id, c.name, c.type, c.color,
	s.id, s.name, s.color`

func scanIncome(row interface{ Scan(...any) error }) (core.Income, error) {
	var i core.Income
	var categoryID, sourceID sql.NullString
	var catID, catName, catType, catColor sql.NullString
	var srcID, srcName, srcColor sql.NullString
	err := row.Scan(
		&i.ID, &i.Amount, &i.Description, &i.Date, &categoryID, &sourceID, &i.UserID, &i.CreatedAt, &i.UpdatedAt,
		&catID, &catName, &catType, &catColor,
		&srcID, &srcName, &srcColor)
	if err != nil {
		return core.Income{}, err
	}
	i.CategoryID = categoryID.String
	i.SourceID = sourceID.String
	if catID.Valid {
		i.Category = &core.Category{
			ID:    catID.String,
			Name:  catName.String,
			Type:  core.CategoryType(catType.String),
			Color: catColor.String,
		}
	}
	if srcID.Valid {
		i.Source = &core.Source{
			ID:    srcID.String,
			Name:  srcName.String,
			Color: srcColor.String,
		}
	}
	return i, nil
}

// ListIncomes returns every income for the user, newest first, with the
// optional category and source joined when present.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID string) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+incomeColumns+`
		 FROM incomes i
		 LEFT JOIN categories c ON c.id = i.category_id
		 LEFT JOIN sources s ON s.id = i.source_id
		 WHERE i.user_id = ?
		 ORDER BY i.date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return incomes, nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id string) (core.Income, error) {
	i, err := scanIncome(r.db.QueryRowContext(ctx,
		`SELECT `+incomeColumns+`
		 FROM incomes i
		 LEFT JOIN categories c ON c.id = i.category_id
		 LEFT JOIN sources s ON s.id = i.source_id
		 WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, core.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income: %w", err)
	}
	return i, nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if i.Date.IsZero() {
		i.Date = now
	}
	i.CreatedAt = now
	i.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (id, amount, description, date, category_id, source_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.Amount, i.Description, i.Date, nullable(i.CategoryID), nullable(i.SourceID), i.UserID, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved",
		"entity_id", i.ID,
		"amount", i.Amount,
		"source", i.SourceID)

	return r.GetIncome(ctx, i.ID)
}

// UpdateIncomeParams carries optional fields; nil means unchanged.
type UpdateIncomeParams struct {
	Amount      *float64
	Description *string
	CategoryID  *string
	SourceID    *string
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, id string, p UpdateIncomeParams) (core.Income, error) {
	i, err := r.GetIncome(ctx, id)
	if err != nil {
		return core.Income{}, err
	}
	if p.Amount != nil {
		i.Amount = *p.Amount
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.CategoryID != nil {
		i.CategoryID = *p.CategoryID
	}
	if p.SourceID != nil {
		i.SourceID = *p.SourceID
	}
	i.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE incomes SET amount = ?, description = ?, category_id = ?, source_id = ?, updated_at = ? WHERE id = ?`,
		i.Amount, i.Description, nullable(i.CategoryID), nullable(i.SourceID), i.UpdatedAt, i.ID)
	if err != nil {
		return core.Income{}, fmt.Errorf("update income: %w", err)
	}
	return r.GetIncome(ctx, id)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// nullable maps the empty string to SQL NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
