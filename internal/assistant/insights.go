package assistant

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// Accumulate is the second fallback tier for queries no direct rule
// matched. Each topic group is tested independently; every group that
// matches contributes its sentences, so a broad query can collect insights
// from several groups at once. An empty result means the query was not
// financial at all.
func Accumulate(query string, s Snapshot) []string {
	q := strings.ToLower(query)
	var insights []string

	if any("spend", "expense", "cost")(q) {
		insights = append(insights,
			fmt.Sprintf("Your total spending is %s across %d transactions.",
				core.FormatAmount(s.TotalExpenses), len(s.Expenses)),
			fmt.Sprintf("This month you've spent %s.", core.FormatAmount(s.MonthExpenseTotal)))
		if len(s.Expenses) > 0 {
			insights = append(insights,
				fmt.Sprintf("Your average expense is %s.", core.FormatAmount(s.AverageExpense())))
			if biggest, ok := s.BiggestExpense(); ok {
				insights = append(insights,
					fmt.Sprintf("Your largest expense was %s for %q.",
						core.FormatAmount(biggest.Amount), biggest.Description))
			}
		}
	}

	if any("earn", "income", "salary")(q) {
		insights = append(insights,
			fmt.Sprintf("Your total income is %s across %d transactions.",
				core.FormatAmount(s.TotalIncome), len(s.Incomes)),
			fmt.Sprintf("This month you've earned %s.", core.FormatAmount(s.MonthIncomeTotal)))
		if len(s.Incomes) > 0 {
			insights = append(insights,
				fmt.Sprintf("Your average income is %s.", core.FormatAmount(s.AverageIncome())))
		}
	}

	if any("save", "saving", "budget")(q) {
		insights = append(insights,
			fmt.Sprintf("Your net savings are %s.", core.FormatAmount(s.NetSavings)),
			fmt.Sprintf("This month you've saved %s.", core.FormatAmount(s.MonthSavings())))
		if s.NetSavings > 0 {
			insights = append(insights, "Great job! You're saving money overall.")
		} else {
			insights = append(insights,
				"You're spending more than you earn. Consider reducing expenses or increasing income.")
		}
	}

	if any("category", "type", "where")(q) && len(s.Categories) > 0 {
		insights = append(insights, "Your spending by category: "+categoryBreakdown(s))
	}

	if any("trend", "pattern", "change")(q) {
		if len(s.Expenses) > 0 {
			insights = append(insights,
				fmt.Sprintf("Your average daily spending is %s.", core.FormatAmount(s.DailyAverage())))
		}
		if len(s.MonthExpenses) > 0 {
			insights = append(insights,
				fmt.Sprintf("This month you're spending %s per day on average.",
					core.FormatAmount(s.MonthDailyAverage())))
		}
	}

	if any("health", "good", "bad", "advice")(q) {
		insights = append(insights, healthAssessment(s))
	}

	return insights
}

// healthAssessment bands the savings rate into four qualitative tiers.
func healthAssessment(s Snapshot) string {
	rate := s.SavingsRate()
	switch {
	case rate > 20:
		return fmt.Sprintf("Excellent! You're saving %.1f%% of your income.", rate)
	case rate > 10:
		return fmt.Sprintf("Good! You're saving %.1f%% of your income.", rate)
	case rate > 0:
		return fmt.Sprintf("You're saving %.1f%% of your income. Consider increasing this to 20%% for better financial health.", rate)
	default:
		return "You're spending more than you earn. Focus on reducing expenses or increasing income."
	}
}
