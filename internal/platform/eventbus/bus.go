package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/philly/snapgram/internal/platform/logger"
)

// Bus manages subscriptions and event dispatching.
type Bus struct {
	subscriptions map[Topic][]Handler
	mu            sync.RWMutex
	inflight      sync.WaitGroup
	logger        logger.Logger
}

// NewBus creates a new event bus.
func NewBus(logger logger.Logger) *Bus {
	return &Bus{
		subscriptions: make(map[Topic][]Handler),
		logger:        logger,
	}
}

// Subscribe adds a handler for a specific topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions[topic] = append(b.subscriptions[topic], handler)
}

func (b *Bus) handlers(topic Topic) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.subscriptions[topic]...)
}

// Publish sends an event to all subscribers of a topic (fire-and-forget).
// Handlers run detached from the caller's cancellation, so an event published
// at the end of a request is still delivered after the response is written.
func (b *Bus) Publish(ctx context.Context, event Event) {
	detached := context.WithoutCancel(ctx)
	for _, handler := range b.handlers(event.Topic) {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			if err := b.run(detached, h, event); err != nil {
				b.logger.Error(detached, "event handler failed", "topic", event.Topic, "error", err)
			}
		}(handler)
	}
}

func (b *Bus) run(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, event)
}

// Wait blocks until every handler started by Publish has returned.
func (b *Bus) Wait() {
	b.inflight.Wait()
}

// Request sends an event and waits for a single reply from the first
// subscriber of the topic.
func (b *Bus) Request(ctx context.Context, event Event) (Event, error) {
	handlers := b.handlers(event.Topic)
	if len(handlers) == 0 {
		return Event{}, errors.New("no handler registered for request topic: " + string(event.Topic))
	}
	handler := handlers[0]

	event.ReplyChannel = make(chan Event, 1)
	event.ErrorChannel = make(chan error, 1)

	go func() {
		// The reply travels over the channels; the return value is redundant.
		_ = b.run(ctx, handler, event)
	}()

	select {
	case reply := <-event.ReplyChannel:
		return reply, nil
	case err := <-event.ErrorChannel:
		return Event{}, err
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

var _ Publisher = (*Bus)(nil)
