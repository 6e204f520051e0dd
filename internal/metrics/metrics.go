// Package metrics exposes Prometheus collectors for polling, mutations and
// notifications. All methods are safe to call on a nil *Metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/five82/reclamos/internal/logging"
)

const namespace = "reclamos"

// Metrics holds the collectors registered for one application instance.
type Metrics struct {
	Polls         *prometheus.CounterVec
	PollDuration  *prometheus.HistogramVec
	Mutations     *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry so tests never collide on the default one.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		Polls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_total",
			Help:      "List refreshes by screen and result.",
		}, []string{"screen", "result"}),
		PollDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Time spent fetching a screen's list.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"screen"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Optimistic mutations by screen and result.",
		}, []string{"screen", "result"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Status-change notifications recorded or absorbed by deduplication.",
		}, []string{"result"}),
	}
}

// ObservePoll records the outcome of a single list fetch.
func (m *Metrics) ObservePoll(screen string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.PollDuration.WithLabelValues(screen).Observe(elapsed.Seconds())
	m.Polls.WithLabelValues(screen, result(err)).Inc()
}

// ObserveMutation records the outcome of an optimistic mutation.
func (m *Metrics) ObserveMutation(screen string, err error) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(screen, result(err)).Inc()
}

// NotificationRecorded counts a newly created notification.
func (m *Metrics) NotificationRecorded() {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues("recorded").Inc()
}

// NotificationDeduplicated counts a record call absorbed by the dedup window.
func (m *Metrics) NotificationDeduplicated() {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues("deduplicated").Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr is a no-op.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *log.Logger) {
	if addr == "" {
		return
	}
	logger = logging.OrDiscard(logger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.WithField("addr", addr).Info("metrics listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics listener stopped")
		}
	}()
}
