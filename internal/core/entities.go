// Package core holds the domain entities shared by storage, services and the
// HTTP layer, plus the formatting rules for money and dates.
package core

import (
	"errors"
	"time"
)

// DefaultUserID identifies the single built-in user. There is no
// authentication; every row in the store belongs to this user.
const DefaultUserID = "default-user"

var (
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrMissingCategory = errors.New("category is required")
	ErrMissingName     = errors.New("name is required")
	ErrInvalidType     = errors.New("type must be EXPENSE or INCOME")
	ErrInvalidPeriod   = errors.New("period must be MONTHLY, WEEKLY or YEARLY")
	ErrNotFound        = errors.New("not found")
)

// CategoryType distinguishes expense categories from income categories.
type CategoryType string

const (
	CategoryExpense CategoryType = "EXPENSE"
	CategoryIncome  CategoryType = "INCOME"
)

func (t CategoryType) Valid() bool {
	return t == CategoryExpense || t == CategoryIncome
}

// BudgetPeriod is the recurrence of a budget envelope.
type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "MONTHLY"
	PeriodWeekly  BudgetPeriod = "WEEKLY"
	PeriodYearly  BudgetPeriod = "YEARLY"
)

func (p BudgetPeriod) Valid() bool {
	return p == PeriodMonthly || p == PeriodWeekly || p == PeriodYearly
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Color     string       `json:"color"`
	UserID    string       `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Source is an income-only grouping (employer, freelance, ...), independent
// of Category.
type Source struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expense always belongs to exactly one category; Category is populated on
// every read path, so consumers may dereference it.
type Expense struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CategoryID  string    `json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.CategoryID == "" {
		return ErrMissingCategory
	}
	return nil
}

// Income may carry neither a category nor a source.
type Income struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Category    *Category `json:"category,omitempty"`
	SourceID    string    `json:"sourceId,omitempty"`
	Source      *Source   `json:"source,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (i Income) Validate() error {
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

type Budget struct {
	ID         string       `json:"id"`
	Amount     float64      `json:"amount"`
	Period     BudgetPeriod `json:"period"`
	CategoryID string       `json:"categoryId"`
	Category   *Category    `json:"category,omitempty"`
	UserID     string       `json:"userId"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (b Budget) Validate() error {
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if b.CategoryID == "" {
		return ErrMissingCategory
	}
	return nil
}
