package kafka

import (
	"encoding/json"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
)

type producerConfig interface {
	Brokers() []string
	ExpensesTopic() string
}

// Producer publishes saved expense records for downstream consumers
// (dashboards, reporting jobs). Publishing is best-effort: callers log
// failures and move on.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg producerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers(), config)
	return &Producer{
		producer: producer,
		topic:    cfg.ExpensesTopic(),
	}, err
}

type expenseEvent struct {
	ID          int64     `json:"id"`
	Merchant    string    `json:"merchant"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    *string   `json:"category"`
	ExpenseDate string    `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Producer) PublishSaved(records []expense.Record) error {
	for _, rec := range records {
		message, err := json.Marshal(expenseEvent{
			ID:          rec.ID,
			Merchant:    rec.Merchant,
			Amount:      rec.Amount,
			Currency:    rec.Currency,
			Category:    rec.Category,
			ExpenseDate: rec.ExpenseDate.String(),
			CreatedAt:   rec.CreatedAt,
		})
		if err != nil {
			return errors.Wrap(err, "marshal expense event")
		}
		_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(message),
		})
		if err != nil {
			return errors.Wrap(err, "publish expense event")
		}
	}
	return nil
}

func (p *Producer) Close() {
	err := p.producer.Close()
	if err != nil {
		logger.Error("failed to close producer", zap.Error(err))
	}
}
