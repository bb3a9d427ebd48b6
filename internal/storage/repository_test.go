package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestEnsureDefaultUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	u, err := repo.EnsureDefaultUser(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}
	if u.ID != core.DefaultUserID || u.Name != "John Doe" {
		t.Fatalf("user = %+v", u)
	}

	// Second call returns the same row.
	again, err := repo.EnsureDefaultUser(ctx)
	if err != nil {
		t.Fatalf("second EnsureDefaultUser: %v", err)
	}
	if again.ID != u.ID || again.Email != u.Email {
		t.Fatalf("second call differs: %+v vs %+v", again, u)
	}
}

func TestUpdateUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}

	name := "Jane Doe"
	u, err := repo.UpdateUser(ctx, core.DefaultUserID, UpdateUserParams{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if u.Name != "Jane Doe" || u.Email != "john.doe@example.com" {
		t.Fatalf("partial update went wrong: %+v", u)
	}

	if _, err := repo.UpdateUser(ctx, "nobody", UpdateUserParams{Name: &name}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExpenseCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}
	cat, err := repo.CreateCategory(ctx, core.Category{
		Name: "Food", Type: core.CategoryExpense, UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	created, err := repo.CreateExpense(ctx, core.Expense{
		Amount: 45.50, Description: "Groceries", CategoryID: cat.ID, UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.ID == "" || created.Date.IsZero() {
		t.Fatalf("created expense missing defaults: %+v", created)
	}
	if created.Category == nil || created.Category.Name != "Food" {
		t.Fatalf("category not joined: %+v", created.Category)
	}

	list, err := repo.ListExpenses(ctx, core.DefaultUserID)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	amount := 50.0
	updated, err := repo.UpdateExpense(ctx, created.ID, UpdateExpenseParams{Amount: &amount})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Amount != 50 || updated.Description != "Groceries" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}

	if err := repo.DeleteExpense(ctx, created.ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if err := repo.DeleteExpense(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetExpense(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncomeWithoutCategoryOrSource(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}

	created, err := repo.CreateIncome(ctx, core.Income{
		Amount: 1000, Description: "Gift", UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	if created.CategoryID != "" || created.Category != nil {
		t.Fatalf("expected no category: %+v", created)
	}
	if created.SourceID != "" || created.Source != nil {
		t.Fatalf("expected no source: %+v", created)
	}

	list, err := repo.ListIncomes(ctx, core.DefaultUserID)
	if err != nil {
		t.Fatalf("ListIncomes: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}
}

func TestIncomeJoinsCategoryAndSource(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}
	cat, err := repo.CreateCategory(ctx, core.Category{
		Name: "Salary", Type: core.CategoryIncome, UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	src, err := repo.CreateSource(ctx, core.Source{Name: "Acme Corp", UserID: core.DefaultUserID})
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}

	created, err := repo.CreateIncome(ctx, core.Income{
		Amount: 3200, CategoryID: cat.ID, SourceID: src.ID, UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}
	if created.Category == nil || created.Category.Name != "Salary" {
		t.Fatalf("category not joined: %+v", created.Category)
	}
	if created.Source == nil || created.Source.Name != "Acme Corp" {
		t.Fatalf("source not joined: %+v", created.Source)
	}
}

func TestListCategoriesTypeFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}
	for _, c := range []core.Category{
		{Name: "Food", Type: core.CategoryExpense, UserID: core.DefaultUserID},
		{Name: "Transport", Type: core.CategoryExpense, UserID: core.DefaultUserID},
		{Name: "Salary", Type: core.CategoryIncome, UserID: core.DefaultUserID},
	} {
		if _, err := repo.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
	}

	all, err := repo.ListCategories(ctx, core.DefaultUserID, "")
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}
	// Ordered by name
	if all[0].Name != "Food" || all[2].Name != "Transport" {
		t.Fatalf("order: %+v", all)
	}

	expenses, err := repo.ListCategories(ctx, core.DefaultUserID, core.CategoryExpense)
	if err != nil {
		t.Fatalf("ListCategories filtered: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expense categories = %d, want 2", len(expenses))
	}
}

func TestBudgetCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.EnsureDefaultUser(ctx); err != nil {
		t.Fatalf("EnsureDefaultUser: %v", err)
	}
	cat, err := repo.CreateCategory(ctx, core.Category{
		Name: "Food", Type: core.CategoryExpense, UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	created, err := repo.CreateBudget(ctx, core.Budget{
		Amount: 400, Period: core.PeriodMonthly, CategoryID: cat.ID, UserID: core.DefaultUserID,
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	if created.Category == nil || created.Category.Name != "Food" {
		t.Fatalf("category not joined: %+v", created.Category)
	}

	amount := 500.0
	period := core.PeriodWeekly
	updated, err := repo.UpdateBudget(ctx, created.ID, UpdateBudgetParams{Amount: &amount, Period: &period})
	if err != nil {
		t.Fatalf("UpdateBudget: %v", err)
	}
	if updated.Amount != 500 || updated.Period != core.PeriodWeekly {
		t.Fatalf("updated = %+v", updated)
	}

	if err := repo.DeleteBudget(ctx, created.ID); err != nil {
		t.Fatalf("DeleteBudget: %v", err)
	}
	if err := repo.DeleteBudget(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	categories, err := repo.ListCategories(ctx, core.DefaultUserID, "")
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 7 {
		t.Fatalf("categories = %d, want 7", len(categories))
	}
	expenses, err := repo.ListExpenses(ctx, core.DefaultUserID)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(expenses) != 5 {
		t.Fatalf("expenses = %d, want 5", len(expenses))
	}
	incomes, err := repo.ListIncomes(ctx, core.DefaultUserID)
	if err != nil {
		t.Fatalf("ListIncomes: %v", err)
	}
	if len(incomes) != 2 {
		t.Fatalf("incomes = %d, want 2", len(incomes))
	}
}
