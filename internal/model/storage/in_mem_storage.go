package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

// InMemStorage keeps records in memory with the same ordering and
// defaulting rules as the postgres backend. Used in tests and in
// key-less local runs.
type InMemStorage struct {
	mu      sync.Mutex
	records []expense.Record
	nextID  int64
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{nextID: 1}
}

func (s *InMemStorage) SaveExpenses(_ context.Context, batch []expense.ParsedExpense) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]expense.Record, 0, len(batch))
	for _, exp := range batch {
		rec := expense.Record{
			ID:          s.nextID,
			Merchant:    exp.Merchant,
			Amount:      exp.Amount,
			Currency:    currencyOrDefault(exp.Currency),
			Category:    exp.Category,
			Note:        exp.Note,
			ExpenseDate: exp.ExpenseDate,
			CreatedAt:   time.Now(),
		}
		s.nextID++
		s.records = append(s.records, rec)
		records = append(records, rec)
	}
	return records, nil
}

func (s *InMemStorage) RecentExpenses(_ context.Context, limit int) ([]expense.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recentLocked(limit), nil
}

func (s *InMemStorage) recentLocked(limit int) []expense.Record {
	records := make([]expense.Record, len(s.records))
	copy(records, s.records)

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].ExpenseDate.Equal(records[j].ExpenseDate.Time) {
			return records[i].ExpenseDate.After(records[j].ExpenseDate.Time)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

func (s *InMemStorage) Summary(_ context.Context, today time.Time) (expense.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := expense.NewDate(today)
	summary := expense.Summary{Recent: s.recentLocked(summaryRecentLimit)}

	for _, rec := range s.records {
		if rec.ExpenseDate.Equal(day.Time) {
			summary.TodayTotal += rec.Amount
		}
		if rec.ExpenseDate.Year() == day.Year() && rec.ExpenseDate.Month() == day.Month() {
			summary.MonthTotal += rec.Amount
		}
	}
	return summary, nil
}
