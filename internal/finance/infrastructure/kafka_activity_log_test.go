package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockMessageWriter struct {
	Messages []kafka.Message
	Err      error
}

func (m *MockMessageWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func TestKafkaActivityLog_KeysByWallet(t *testing.T) {
	writer := &MockMessageWriter{}
	log := NewKafkaActivityLog(writer, zap.NewNop())
	entry := domain.ActivityEntry{
		ID:         "01HZ",
		WalletID:   "w1",
		Actor:      "u1",
		Action:     domain.ActionMemberAdded,
		EntityType: "wallet",
		EntityID:   "w1",
		Message:    "bob joined",
		CreatedAt:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, log.Append(context.Background(), entry))

	require.Len(t, writer.Messages, 1)
	msg := writer.Messages[0]
	assert.Equal(t, []byte("w1"), msg.Key)
	assert.Equal(t, entry.CreatedAt, msg.Time)
	var decoded domain.ActivityEntry
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, entry, decoded)
}

func TestKafkaActivityLog_WrapsWriterErrors(t *testing.T) {
	writer := &MockMessageWriter{Err: errors.New("leader not available")}
	log := NewKafkaActivityLog(writer, zap.NewNop())

	err := log.Append(context.Background(), domain.ActivityEntry{WalletID: "w1"})
	assert.ErrorIs(t, err, writer.Err)
}

func TestNewKafkaWriter_DefaultTopic(t *testing.T) {
	w := NewKafkaWriter([]string{"localhost:9092"}, "", zap.NewNop())
	assert.Equal(t, DefaultActivityTopic, w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
