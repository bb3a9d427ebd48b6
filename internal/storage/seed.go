package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
)

// Seed inserts the demo dataset for the default user. Fixed ids plus
// INSERT OR IGNORE make it safe to run repeatedly.
func (r *SQLiteRepository) Seed(ctx context.Context) error {
	if _, err := r.EnsureDefaultUser(ctx); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	now := time.Now().UTC()

	categories := []core.Category{
		{ID: "cat-food", Name: "Food & Dining", Type: core.CategoryExpense, Color: "#EF4444"},
		{ID: "cat-transport", Name: "Transportation", Type: core.CategoryExpense, Color: "#3B82F6"},
		{ID: "cat-entertainment", Name: "Entertainment", Type: core.CategoryExpense, Color: "#8B5CF6"},
		{ID: "cat-shopping", Name: "Shopping", Type: core.CategoryExpense, Color: "#10B981"},
		{ID: "cat-health", Name: "Healthcare", Type: core.CategoryExpense, Color: "#F59E0B"},
		{ID: "cat-salary", Name: "Salary", Type: core.CategoryIncome, Color: "#22C55E"},
		{ID: "cat-freelance", Name: "Freelance", Type: core.CategoryIncome, Color: "#06B6D4"},
	}
	for _, c := range categories {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (id, name, type, color, user_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Type), c.Color, core.DefaultUserID, now, now)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}

	sources := []core.Source{
		{ID: "src-salary", Name: "Acme Corp", Color: "#22C55E"},
		{ID: "src-freelance", Name: "Freelance Clients", Color: "#06B6D4"},
		{ID: "src-investments", Name: "Investments", Color: "#EAB308"},
	}
	for _, s := range sources {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO sources (id, name, color, user_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Color, core.DefaultUserID, now, now)
		if err != nil {
			return fmt.Errorf("seed source %s: %w", s.ID, err)
		}
	}

	expenses := []struct {
		id, desc, catID string
		amount          float64
		daysAgo         int
	}{
		{"exp-seed-1", "Groceries", "cat-food", 84.20, 2},
		{"exp-seed-2", "Monthly transit pass", "cat-transport", 49.00, 5},
		{"exp-seed-3", "Cinema tickets", "cat-entertainment", 24.50, 8},
		{"exp-seed-4", "Running shoes", "cat-shopping", 119.99, 12},
		{"exp-seed-5", "Pharmacy", "cat-health", 17.35, 20},
	}
	for _, e := range expenses {
		date := now.AddDate(0, 0, -e.daysAgo)
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO expenses (id, amount, description, date, category_id, user_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.id, e.amount, e.desc, date, e.catID, core.DefaultUserID, now, now)
		if err != nil {
			return fmt.Errorf("seed expense %s: %w", e.id, err)
		}
	}

	incomes := []struct {
		id, desc, catID, srcID string
		amount                 float64
		daysAgo                int
	}{
		{"inc-seed-1", "Monthly salary", "cat-salary", "src-salary", 3200.00, 3},
		{"inc-seed-2", "Website project", "cat-freelance", "src-freelance", 650.00, 10},
	}
	for _, i := range incomes {
		date := now.AddDate(0, 0, -i.daysAgo)
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO incomes (id, amount, description, date, category_id, source_id, user_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i.id, i.amount, i.desc, date, i.catID, i.srcID, core.DefaultUserID, now, now)
		if err != nil {
			return fmt.Errorf("seed income %s: %w", i.id, err)
		}
	}

	slog.InfoContext(ctx, "Demo data seeded", "user_id", core.DefaultUserID)
	return nil
}
