package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	eventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_created_total",
			Help: "Events submitted for moderation",
		},
	)

	eventLikes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_likes_total",
			Help: "Likes recorded across all events",
		},
	)

	eventModerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_moderations_total",
			Help: "Moderation decisions by resulting status",
		},
		[]string{"status"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets issued",
		},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"kind", "result"},
	)
)

func TrackRequest(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func TrackEventCreated() {
	eventsCreated.Inc()
}

func TrackLike() {
	eventLikes.Inc()
}

func TrackModeration(status string) {
	eventModerations.WithLabelValues(status).Inc()
}

func TrackTicketIssued() {
	ticketsIssued.Inc()
}

func TrackLogin(kind, result string) {
	logins.WithLabelValues(kind, result).Inc()
}
