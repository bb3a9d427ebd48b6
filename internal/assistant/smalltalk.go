package assistant

import (
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// Greeting is the fixed reply to a salutation, exported so callers can
// assert against it.
const Greeting = "Hello! I'm your financial assistant. I can help you with personal finance questions, analyze your spending patterns, and provide financial advice. What would you like to know about your finances?"

const capabilities = `I'm your financial assistant! I can help you with:
- Analyzing your spending and income patterns
- Providing personalized financial advice
- Answering questions about your budget and savings
- Helping you understand your financial health
- Suggesting ways to improve your money management

I have access to your financial data and can provide insights based on your actual spending and income. What would you like to know?`

const helpText = `I'm here to help with your personal finances! I can:
- Analyze your spending patterns and trends
- Calculate your savings rate and financial health
- Provide budgeting advice and recommendations
- Answer questions about your income and expenses
- Help you understand where your money goes

Just ask me anything about your finances, like "How can I save more money?" or "What are my biggest expenses?"`

const weatherReply = "I'm a financial assistant, so I can't help with weather information. However, I can help you with your personal finances! For example, I can analyze your spending patterns, help with budgeting, or answer questions about your financial health. What financial question can I help you with?"

const jokeReply = `Here's a financial joke: Why don't financial advisors ever get cold? Because they always have their assets covered!

But seriously, I'm here to help with your personal finances. I can analyze your spending patterns, provide budgeting advice, and answer questions about your financial health. What would you like to know about your money?`

const thanksReply = "You're welcome! I'm always here to help with your personal finances. Feel free to ask me about your spending patterns, budgeting advice, savings goals, or any other financial questions you might have."

// SmallTalk is the last fallback tier: conversational patterns get fixed
// replies, and anything else gets a redirect that restates the current
// financial overview. It always returns a sentence.
func SmallTalk(query string, s Snapshot) string {
	q := strings.ToLower(query)

	switch {
	case any("hello", "hi", "hey")(q):
		return Greeting

	case strings.Contains(q, "what") && strings.Contains(q, "you") && any("do", "can")(q):
		return capabilities

	case any("help", "assist")(q):
		return helpText

	case any("weather", "temperature")(q):
		return weatherReply

	case any("time", "date")(q):
		return fmt.Sprintf("The current time is %s. But I'm here to help with your finances! I can analyze your spending, income, and savings patterns. What financial question would you like me to answer?",
			s.Now.Format("3:04:05 PM"))

	case any("joke", "funny")(q):
		return jokeReply

	case any("thank", "thanks")(q):
		return thanksReply
	}

	return fmt.Sprintf(`I'm a financial assistant focused on helping you with personal finance! While I can't answer questions about %s, I can definitely help you with:

- Your spending and income analysis
- Budgeting and savings advice
- Financial health assessment
- Expense categorization and trends
- Money management tips

Here's your current financial overview:
- Total expenses: %s (%d transactions)
- Total income: %s (%d transactions)
- Net savings: %s

What financial question can I help you with today?`,
		q,
		core.FormatAmount(s.TotalExpenses), len(s.Expenses),
		core.FormatAmount(s.TotalIncome), len(s.Incomes),
		core.FormatAmount(s.NetSavings))
}
