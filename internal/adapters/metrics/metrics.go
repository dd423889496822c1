// Package metrics turns bus events and HTTP traffic into Prometheus series.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RelationToggles *prometheus.CounterVec
	Posts           *prometheus.CounterVec
	Comments        *prometheus.CounterVec
	Uploads         *prometheus.CounterVec
	MediaSwept      prometheus.Counter
	HTTPDuration    *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RelationToggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapgram_relation_toggles_total",
			Help: "Follow, like and comment-like toggles by outcome",
		}, []string{"kind", "outcome"}),
		Posts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapgram_posts_total",
			Help: "Post lifecycle events",
		}, []string{"event"}),
		Comments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapgram_comments_total",
			Help: "Comment lifecycle events",
		}, []string{"event"}),
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapgram_uploads_total",
			Help: "Upload handshakes by result",
		}, []string{"result"}),
		MediaSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "snapgram_media_swept_total",
			Help: "Orphaned media rows removed by the sweeper",
		}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "snapgram_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// NewDefault registers on the global registry served by promhttp.Handler.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// Subscribe wires the counters to the bus.
func (m *Metrics) Subscribe(bus *eventbus.Bus) {
	bus.Subscribe(events.RelationToggledTopic, m.onRelationToggled)
	bus.Subscribe(events.PostCreatedTopic, m.countPost("created"))
	bus.Subscribe(events.PostUpdatedTopic, m.countPost("updated"))
	bus.Subscribe(events.PostDeletedTopic, m.onPostDeleted)
	bus.Subscribe(events.CommentCreatedTopic, m.countComment("created"))
	bus.Subscribe(events.CommentDeletedTopic, m.countComment("deleted"))
	bus.Subscribe(events.MediaRequestedTopic, m.onMediaRequested)
	bus.Subscribe(events.MediaSweptTopic, m.onMediaSwept)
}

func (m *Metrics) onRelationToggled(_ context.Context, event eventbus.Event) error {
	if e, ok := event.Payload.(events.RelationToggledEvent); ok {
		m.RelationToggles.WithLabelValues(e.Kind, e.Outcome).Inc()
	}
	return nil
}

func (m *Metrics) countPost(name string) eventbus.Handler {
	return func(context.Context, eventbus.Event) error {
		m.Posts.WithLabelValues(name).Inc()
		return nil
	}
}

func (m *Metrics) onPostDeleted(_ context.Context, event eventbus.Event) error {
	m.Posts.WithLabelValues("deleted").Inc()
	if e, ok := event.Payload.(events.PostDeletedEvent); ok && !e.BlobDeleted {
		m.Posts.WithLabelValues("blob_orphaned").Inc()
	}
	return nil
}

func (m *Metrics) countComment(name string) eventbus.Handler {
	return func(context.Context, eventbus.Event) error {
		m.Comments.WithLabelValues(name).Inc()
		return nil
	}
}

func (m *Metrics) onMediaRequested(_ context.Context, event eventbus.Event) error {
	e, ok := event.Payload.(events.MediaRequestedEvent)
	if !ok {
		return nil
	}
	result := "issued"
	if e.Reason != "" {
		result = "rejected"
	}
	m.Uploads.WithLabelValues(result).Inc()
	return nil
}

func (m *Metrics) onMediaSwept(_ context.Context, event eventbus.Event) error {
	if e, ok := event.Payload.(events.MediaSweptEvent); ok {
		m.MediaSwept.Add(float64(len(e.MediaIDs)))
	}
	return nil
}

// ObserveHTTP records one request. route is the matched pattern, not the raw
// path, to keep cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
