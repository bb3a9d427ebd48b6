package assistant

import "strings"

// Intent is the classified purpose of a financial query.
type Intent string

const (
	// IntentNone means no direct rule matched; the query falls through to
	// the insight accumulation tier.
	IntentNone Intent = ""

	IntentTotalExpense      Intent = "total_expense"
	IntentMonthExpense      Intent = "month_expense"
	IntentTotalIncome       Intent = "total_income"
	IntentSavings           Intent = "savings"
	IntentCategoryBreakdown Intent = "category_breakdown"
	IntentBiggestExpense    Intent = "biggest_expense"
	IntentRecentExpenses    Intent = "recent_expenses"
	IntentMonthSummary      Intent = "month_summary"
	IntentDailySpendRate    Intent = "daily_spend_rate"
	IntentSpendStats        Intent = "spend_stats"
	IntentEarnStats         Intent = "earn_stats"
)

// rule pairs a predicate with the intent it selects.
type rule struct {
	match  func(q string) bool
	intent Intent
}

// rules is evaluated top to bottom, first match wins. The keyword sets
// overlap ("total expense and savings" matches rules 1 and 4), so the order
// is load-bearing: do not reorder.
var rules = []rule{
	{all("total", "expense"), IntentTotalExpense},
	{all("this month", "expense"), IntentMonthExpense},
	{all("total", "income"), IntentTotalIncome},
	{any("saving", "net"), IntentSavings},
	{any("category", "categories"), IntentCategoryBreakdown},
	{func(q string) bool {
		return any("biggest", "largest", "highest")(q) && strings.Contains(q, "expense")
	}, IntentBiggestExpense},
	{any("recent", "latest"), IntentRecentExpenses},
	{any("month"), IntentMonthSummary},
	{any("budget", "spending"), IntentDailySpendRate},
	{all("how much", "spend"), IntentSpendStats},
	{all("how much", "earn"), IntentEarnStats},
}

// Classify matches the lower-cased query against the ordered rule table and
// returns the first matching intent, or IntentNone.
func Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, r := range rules {
		if r.match(q) {
			return r.intent
		}
	}
	return IntentNone
}

// all returns a predicate true when the query contains every keyword.
func all(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if !strings.Contains(q, k) {
				return false
			}
		}
		return true
	}
}

// any returns a predicate true when the query contains at least one keyword.
func any(keywords ...string) func(string) bool {
	return func(q string) bool {
		for _, k := range keywords {
			if strings.Contains(q, k) {
				return true
			}
		}
		return false
	}
}
