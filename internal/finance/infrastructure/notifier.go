package infrastructure

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sebuszqo/BudgetTracker/internal/finance/domain"
	"go.uber.org/zap"
)

const DefaultChangeChannel = "finance_data_changed"

// publisher is the slice of *redis.Client the notifier needs.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes change events on a Redis channel. Failures are logged and swallowed.
type RedisNotifier struct {
	rdb     publisher
	channel string
	logger  *zap.Logger
}

func NewRedisNotifier(rdb publisher, channel string, logger *zap.Logger) *RedisNotifier {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel, logger: logger}
}

func (n *RedisNotifier) DataChanged(ctx context.Context, event domain.ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("failed to marshal change event", zap.String("kind", string(event.Kind)), zap.Error(err))
		return
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.Warn("failed to publish change event",
			zap.String("kind", string(event.Kind)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}

// Broadcaster fans change events out to in-process subscribers. Slow subscribers miss events.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[int]chan domain.ChangeEvent
	next        int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[int]chan domain.ChangeEvent)}
}

// Subscribe returns a buffered channel of events and a func that detaches and closes it.
func (b *Broadcaster) Subscribe(buffer int) (<-chan domain.ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan domain.ChangeEvent, buffer)
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}
}

func (b *Broadcaster) DataChanged(_ context.Context, event domain.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// FanOutNotifier forwards every event to each wrapped notifier.
type FanOutNotifier []domain.ChangeNotifier

func (f FanOutNotifier) DataChanged(ctx context.Context, event domain.ChangeEvent) {
	for _, n := range f {
		n.DataChanged(ctx, event)
	}
}
