// Package assistant answers free-text financial queries over the user's own
// data. A query is answered in three tiers: a direct intent match, an
// insight accumulation pass, and a conversational fallback. There is no
// model inference behind it; classification is ordered keyword matching.
package assistant

import (
	"math"
	"time"

	"fintrack/internal/core"
)

// Snapshot is the full set of figures derived from one read of the store.
// It is built once per query and never mutated afterwards; every responder
// works off the same value.
type Snapshot struct {
	Expenses   []core.Expense
	Incomes    []core.Income
	Categories []core.Category
	Sources    []core.Source

	TotalExpenses float64
	TotalIncome   float64
	NetSavings    float64

	MonthExpenses     []core.Expense
	MonthIncomes      []core.Income
	MonthExpenseTotal float64
	MonthIncomeTotal  float64

	Now time.Time
}

// CategoryTotal pairs a category name with the summed expense amount.
type CategoryTotal struct {
	Name  string
	Total float64
}

// BuildSnapshot computes every aggregate the responders consume. Inputs are
// assumed sorted date-descending by the store; ordering is preserved in the
// month subsets.
func BuildSnapshot(expenses []core.Expense, incomes []core.Income, categories []core.Category, sources []core.Source, now time.Time) Snapshot {
	s := Snapshot{
		Expenses:   expenses,
		Incomes:    incomes,
		Categories: categories,
		Sources:    sources,
		Now:        now,
	}

	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		if core.SameMonth(e.Date, now) {
			s.MonthExpenses = append(s.MonthExpenses, e)
			s.MonthExpenseTotal += e.Amount
		}
	}
	for _, i := range incomes {
		s.TotalIncome += i.Amount
		if core.SameMonth(i.Date, now) {
			s.MonthIncomes = append(s.MonthIncomes, i)
			s.MonthIncomeTotal += i.Amount
		}
	}
	s.NetSavings = s.TotalIncome - s.TotalExpenses

	return s
}

// MonthSavings is income minus expenses for the current calendar month.
func (s Snapshot) MonthSavings() float64 {
	return s.MonthIncomeTotal - s.MonthExpenseTotal
}

// AverageExpense returns the mean expense amount, 0 when there are none.
func (s Snapshot) AverageExpense() float64 {
	return average(s.TotalExpenses, len(s.Expenses))
}

// AverageIncome returns the mean income amount, 0 when there are none.
func (s Snapshot) AverageIncome() float64 {
	return average(s.TotalIncome, len(s.Incomes))
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// ByCategory sums expenses per category. Every category appears exactly
// once, in the order the store returned them; categories without expenses
// report 0.
func (s Snapshot) ByCategory() []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(s.Categories))
	for _, c := range s.Categories {
		var sum float64
		for _, e := range s.Expenses {
			if e.CategoryID == c.ID {
				sum += e.Amount
			}
		}
		totals = append(totals, CategoryTotal{Name: c.Name, Total: sum})
	}
	return totals
}

// BiggestExpense returns the expense with the largest amount. The strict
// comparison keeps the first encountered on ties. ok is false when there
// are no expenses.
func (s Snapshot) BiggestExpense() (core.Expense, bool) {
	if len(s.Expenses) == 0 {
		return core.Expense{}, false
	}
	max := s.Expenses[0]
	for _, e := range s.Expenses[1:] {
		if e.Amount > max.Amount {
			max = e
		}
	}
	return max, true
}

// DailyAverage estimates average daily spending across the full history,
// treating every 30 transactions as roughly one month of activity.
func (s Snapshot) DailyAverage() float64 {
	if len(s.Expenses) == 0 {
		return 0
	}
	months := math.Max(1, math.Ceil(float64(len(s.Expenses))/30))
	return s.TotalExpenses / months / 30
}

// MonthDailyAverage is this month's spend divided by the days elapsed so
// far; the day of month is never below 1.
func (s Snapshot) MonthDailyAverage() float64 {
	return s.MonthExpenseTotal / float64(s.Now.Day())
}

// SavingsRate is net savings as a percentage of total income, 0 when no
// income is recorded.
func (s Snapshot) SavingsRate() float64 {
	if s.TotalIncome <= 0 {
		return 0
	}
	return s.NetSavings / s.TotalIncome * 100
}
