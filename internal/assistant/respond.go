package assistant

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

const noExpensesSentence = "You don't have any expenses recorded yet."

// Respond renders the one-sentence answer for a matched intent. Every
// intent produces a grammatically valid sentence even with no data; empty
// collections never yield NaN or a panic.
func Respond(intent Intent, s Snapshot) string {
	switch intent {
	case IntentTotalExpense:
		return fmt.Sprintf("Your total expenses are %s across %d transactions.",
			core.FormatAmount(s.TotalExpenses), len(s.Expenses))

	case IntentMonthExpense:
		return fmt.Sprintf("This month you've spent %s across %d transactions.",
			core.FormatAmount(s.MonthExpenseTotal), len(s.MonthExpenses))

	case IntentTotalIncome:
		return fmt.Sprintf("Your total income is %s. This month you've earned %s.",
			core.FormatAmount(s.TotalIncome), core.FormatAmount(s.MonthIncomeTotal))

	case IntentSavings:
		return fmt.Sprintf("Your net savings are %s. This month you've saved %s.",
			core.FormatAmount(s.NetSavings), core.FormatAmount(s.MonthSavings()))

	case IntentCategoryBreakdown:
		if len(s.Categories) == 0 {
			return "You don't have any categories set up yet."
		}
		return "Here are your expenses by category: " + categoryBreakdown(s)

	case IntentBiggestExpense:
		biggest, ok := s.BiggestExpense()
		if !ok {
			return noExpensesSentence
		}
		return fmt.Sprintf("Your biggest expense was %s for %q in the %s category on %s.",
			core.FormatAmount(biggest.Amount), biggest.Description,
			categoryName(biggest), core.FormatDate(biggest.Date))

	case IntentRecentExpenses:
		if len(s.Expenses) == 0 {
			return noExpensesSentence
		}
		recent := s.Expenses
		if len(recent) > 5 {
			recent = recent[:5]
		}
		items := make([]string, len(recent))
		for i, e := range recent {
			items[i] = fmt.Sprintf("%s - %s (%s) on %s",
				core.FormatAmount(e.Amount), e.Description, categoryName(e), core.FormatDate(e.Date))
		}
		return "Your recent expenses: " + strings.Join(items, ", ")

	case IntentMonthSummary:
		return fmt.Sprintf("This month you've spent %s and earned %s, giving you a net of %s.",
			core.FormatAmount(s.MonthExpenseTotal), core.FormatAmount(s.MonthIncomeTotal),
			core.FormatAmount(s.MonthSavings()))

	case IntentDailySpendRate:
		return fmt.Sprintf("Your average daily spending is %s. This month you're spending %s per day on average.",
			core.FormatAmount(s.DailyAverage()), core.FormatAmount(s.MonthDailyAverage()))

	case IntentSpendStats:
		return fmt.Sprintf("You've spent a total of %s across %d transactions. Your average expense is %s.",
			core.FormatAmount(s.TotalExpenses), len(s.Expenses), core.FormatAmount(s.AverageExpense()))

	case IntentEarnStats:
		return fmt.Sprintf("You've earned a total of %s across %d transactions. Your average income is %s.",
			core.FormatAmount(s.TotalIncome), len(s.Incomes), core.FormatAmount(s.AverageIncome()))
	}

	return ""
}

// categoryBreakdown renders "Name: $X.YY, Name: $X.YY" over every category,
// zero-spend categories included.
func categoryBreakdown(s Snapshot) string {
	totals := s.ByCategory()
	parts := make([]string, len(totals))
	for i, ct := range totals {
		parts[i] = ct.Name + ": " + core.FormatAmount(ct.Total)
	}
	return strings.Join(parts, ", ")
}

// categoryName tolerates a missing joined category even though the store
// always populates it.
func categoryName(e core.Expense) string {
	if e.Category != nil {
		return e.Category.Name
	}
	return "Uncategorized"
}
