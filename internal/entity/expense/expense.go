package expense

import (
	"time"
)

const (
	DefaultCurrency = "USD"
	DateLayout      = "2006-01-02"
)

// Candidate is a single unvalidated expense as the extraction model returns
// it. Amount and ExpenseDate are deliberately loose: the model may emit
// numbers as strings and dates as anything.
type Candidate struct {
	Merchant    *string `json:"merchant"`
	Amount      any     `json:"amount"`
	Currency    *string `json:"currency"`
	Category    *string `json:"category"`
	Note        *string `json:"note"`
	ExpenseDate any     `json:"expense_date"`
}

// Extraction carries the candidates together with a degradation flag, so
// "the model found nothing" and "the call failed" stay distinguishable.
type Extraction struct {
	Candidates []Candidate
	Degraded   bool
}

// ParsedExpense is a validated expense ready for persistence. Amount is
// always a coerced float and ExpenseDate is always a concrete date.
type ParsedExpense struct {
	Merchant    string
	Amount      float64
	Currency    *string
	Category    *string
	Note        *string
	ExpenseDate Date
}

// Record is the persisted form of an expense with server-assigned fields.
type Record struct {
	ID          int64     `json:"id"`
	Merchant    string    `json:"merchant"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    *string   `json:"category"`
	Note        *string   `json:"note"`
	ExpenseDate Date      `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Summary struct {
	TodayTotal float64  `json:"today_total"`
	MonthTotal float64  `json:"month_total"`
	Recent     []Record `json:"recent_expenses"`
}
