package metrics_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/adapters/metrics"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*metrics.Metrics, *eventbus.Bus, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	bus := eventbus.NewBus(logger.NewSlogAdapterWithWriter(io.Discard, "test", "error"))
	m.Subscribe(bus)
	return m, bus, reg
}

func TestSubscriber_CountsEvents(t *testing.T) {
	m, bus, _ := setup(t)
	ctx := context.Background()

	publish := func(topic eventbus.Topic, payload any) {
		bus.Publish(ctx, eventbus.Event{Topic: topic, Payload: payload})
	}
	publish(events.RelationToggledTopic, events.RelationToggledEvent{Kind: "like", Outcome: "created"})
	publish(events.RelationToggledTopic, events.RelationToggledEvent{Kind: "like", Outcome: "created"})
	publish(events.RelationToggledTopic, events.RelationToggledEvent{Kind: "follow", Outcome: "unchanged"})
	publish(events.PostCreatedTopic, events.PostCreatedEvent{PostID: uuid.New()})
	publish(events.PostDeletedTopic, events.PostDeletedEvent{PostID: uuid.New(), BlobDeleted: false})
	publish(events.CommentCreatedTopic, events.CommentCreatedEvent{})
	publish(events.MediaRequestedTopic, events.MediaRequestedEvent{MediaID: uuid.New()})
	publish(events.MediaRequestedTopic, events.MediaRequestedEvent{Reason: "File is too large"})
	publish(events.MediaSweptTopic, events.MediaSweptEvent{MediaIDs: []uuid.UUID{uuid.New(), uuid.New()}})
	bus.Wait()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RelationToggles.WithLabelValues("like", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelationToggles.WithLabelValues("follow", "unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Posts.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Posts.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Posts.WithLabelValues("blob_orphaned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Comments.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("issued")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MediaSwept))
}

func TestObserveHTTP(t *testing.T) {
	m, _, reg := setup(t)
	m.ObserveHTTP("GET", "/api/v1/posts/{id}", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/posts/{id}", 404, time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "snapgram_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
