package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/expenses"
)

const (
	savedReplyTemplate = "Got it! I've added these expenses to your tracker: %s. Your dashboards and reports are now up to date."
	noExpensesMessage  = "I didn't clearly see any expenses in that message. " +
		"You can say things like \"I spent 70 dollars at Walmart and 20 on Apple subscriptions.\""
)

type extractor interface {
	Extract(ctx context.Context, message string) expense.Extraction
}

type expenseStorage interface {
	SaveExpenses(ctx context.Context, batch []expense.ParsedExpense) ([]expense.Record, error)
}

// EventPublisher pushes saved records to downstream consumers. Optional.
type EventPublisher interface {
	PublishSaved(records []expense.Record) error
}

// SummaryInvalidator drops a cached dashboard summary for a day. Optional.
type SummaryInvalidator interface {
	InvalidateSummary(day string) error
}

// Service is the message pipeline: extract candidates, normalize them,
// persist what survived, synthesize the reply. Only a persistence failure
// propagates as an error; extraction trouble degrades to the fallback reply.
type Service struct {
	extractor extractor
	storage   expenseStorage
	publisher EventPublisher
	cache     SummaryInvalidator
}

func NewService(extractor extractor, storage expenseStorage, publisher EventPublisher, cache SummaryInvalidator) *Service {
	return &Service{
		extractor: extractor,
		storage:   storage,
		publisher: publisher,
		cache:     cache,
	}
}

type Response struct {
	Reply    string
	Expenses []expense.Record
}

func (s *Service) HandleMessage(ctx context.Context, text string) (Response, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	start := time.Now()
	resp, err := s.handle(ctx, text)
	elapsed := time.Since(start)

	observeResponse(elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return resp, err
}

func (s *Service) handle(ctx context.Context, text string) (Response, error) {
	today := time.Now()

	extraction := s.extractor.Extract(ctx, text)
	if extraction.Degraded {
		observeDegradedExtraction()
	}

	parsed := expenses.Normalize(extraction.Candidates, today)
	if len(parsed) == 0 {
		return Response{Reply: noExpensesMessage, Expenses: []expense.Record{}}, nil
	}

	records, err := s.storage.SaveExpenses(ctx, parsed)
	if err != nil {
		return Response{}, errors.Wrap(err, "handle message")
	}

	s.afterSave(records, today)
	return Response{Reply: formatSavedReply(records), Expenses: records}, nil
}

// afterSave fans saved records out to the optional side channels.
// Neither failure may affect the already-answered request.
func (s *Service) afterSave(records []expense.Record, today time.Time) {
	if s.publisher != nil {
		if err := s.publisher.PublishSaved(records); err != nil {
			logger.Warn("failed to publish saved expenses", zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSummary(expense.NewDate(today).String()); err != nil {
			logger.Warn("failed to invalidate summary cache", zap.Error(err))
		}
	}
}

func formatSavedReply(records []expense.Record) string {
	parts := make([]string, 0, len(records))
	for _, rec := range records {
		parts = append(parts, fmt.Sprintf("%.2f %s at %s on %s",
			rec.Amount, rec.Currency, rec.Merchant, rec.ExpenseDate.String()))
	}
	return fmt.Sprintf(savedReplyTemplate, strings.Join(parts, "; "))
}
