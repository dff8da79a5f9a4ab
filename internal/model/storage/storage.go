package storage

import (
	"context"
	"time"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

const summaryRecentLimit = 10

// ExpenseStorage is what both backends implement. Records never get
// updated or deleted once written.
type ExpenseStorage interface {
	SaveExpenses(ctx context.Context, batch []expense.ParsedExpense) ([]expense.Record, error)
	RecentExpenses(ctx context.Context, limit int) ([]expense.Record, error)
	Summary(ctx context.Context, today time.Time) (expense.Summary, error)
}

func currencyOrDefault(currency *string) string {
	if currency == nil || *currency == "" {
		return expense.DefaultCurrency
	}
	return *currency
}
