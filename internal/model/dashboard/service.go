package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

type expenseStorage interface {
	RecentExpenses(ctx context.Context, limit int) ([]expense.Record, error)
	Summary(ctx context.Context, today time.Time) (expense.Summary, error)
}

type summaryCache interface {
	GetSummary(day string) ([]byte, error)
	CacheSummary(day string, payload []byte) error
}

// Service answers the read side: recent expenses and the daily summary,
// with an optional cache in front of the summary query.
type Service struct {
	storage expenseStorage
	cache   summaryCache
}

func NewService(storage expenseStorage, cache summaryCache) *Service {
	return &Service{
		storage: storage,
		cache:   cache,
	}
}

func (s *Service) Recent(ctx context.Context, limit int) ([]expense.Record, error) {
	records, err := s.storage.RecentExpenses(ctx, limit)
	return records, errors.Wrap(err, "recent expenses")
}

func (s *Service) Summary(ctx context.Context, today time.Time) (expense.Summary, error) {
	day := expense.NewDate(today).String()

	if s.cache != nil {
		if raw, err := s.cache.GetSummary(day); err == nil {
			var cached expense.Summary
			if err = json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			logger.Warn("cannot unmarshal cached summary", zap.Error(err))
		}
	}

	summary, err := s.storage.Summary(ctx, today)
	if err != nil {
		return expense.Summary{}, errors.Wrap(err, "summary")
	}

	if s.cache != nil {
		raw, err := json.Marshal(summary)
		if err == nil {
			err = s.cache.CacheSummary(day, raw)
		}
		if err != nil {
			logger.Warn("cannot cache summary", zap.Error(err))
		}
	}
	return summary, nil
}
