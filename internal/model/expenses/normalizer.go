package expenses

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// Normalize turns unvalidated candidates into well-formed expenses.
// A candidate failing amount coercion is dropped; nothing else drops it.
// Missing merchant becomes "", a missing or unparseable date becomes today.
func Normalize(candidates []expense.Candidate, today time.Time) []expense.ParsedExpense {
	parsed := make([]expense.ParsedExpense, 0, len(candidates))

	for _, cand := range candidates {
		amount, err := coerceAmount(cand.Amount)
		if err != nil {
			continue
		}

		parsed = append(parsed, expense.ParsedExpense{
			Merchant:    merchantOrEmpty(cand.Merchant),
			Amount:      amount,
			Currency:    cand.Currency,
			Category:    cand.Category,
			Note:        cand.Note,
			ExpenseDate: coerceDate(cand.ExpenseDate, today),
		})
	}

	return parsed
}

func merchantOrEmpty(merchant *string) string {
	if merchant == nil {
		return ""
	}
	return *merchant
}

func coerceAmount(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.Errorf("amount of type %T is not numeric", value)
	}
}

func coerceDate(value any, today time.Time) expense.Date {
	s, ok := value.(string)
	if !ok {
		return expense.NewDate(today)
	}
	parsed, err := time.Parse(expense.DateLayout, s)
	if err != nil {
		return expense.NewDate(today)
	}
	return expense.NewDate(parsed)
}
