package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const DefaultActivityTopic = "wallet_activity"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaActivityLog ships activity entries to a topic keyed by wallet id, so one wallet's history stays ordered.
type KafkaActivityLog struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaActivityLog(writer messageWriter, logger *zap.Logger) *KafkaActivityLog {
	return &KafkaActivityLog{writer: writer, logger: logger}
}

// NewKafkaWriter builds the writer used in production.
func NewKafkaWriter(brokers []string, topic string, logger *zap.Logger) *kafka.Writer {
	if topic == "" {
		topic = DefaultActivityTopic
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Warn(fmt.Sprintf(msg, args...))
		}),
	}
}

func (l *KafkaActivityLog) Append(ctx context.Context, entry domain.ActivityEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal activity entry: %w", err)
	}
	if err := l.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.WalletID),
		Value: payload,
		Time:  entry.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to write activity entry: %w", err)
	}
	l.logger.Debug("activity entry written",
		zap.String("wallet_id", entry.WalletID),
		zap.String("action", string(entry.Action)))
	return nil
}
