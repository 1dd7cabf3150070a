package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugget_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nugget_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Timeline metrics
	TimelineRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nugget_timeline_requests_total",
			Help: "Total timeline page requests",
		},
	)

	TimelineSourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nugget_timeline_source_duration_seconds",
			Help:    "Per-source timeline fetch duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"kind"},
	)

	TimelineSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugget_timeline_source_errors_total",
			Help: "Total timeline source fetch failures",
		},
		[]string{"kind"},
	)

	MalformedRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugget_timeline_malformed_records_total",
			Help: "Records excluded from the timeline for missing or invalid timestamps",
		},
		[]string{"kind"},
	)

	// Business metrics
	ActivitiesLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugget_activities_logged_total",
			Help: "Total activities logged",
		},
		[]string{"type"},
	)

	MilestonesAchieved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nugget_milestones_achieved_total",
			Help: "Total milestones marked achieved",
		},
	)

	MessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nugget_chat_messages_posted_total",
			Help: "Total chat messages posted",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nugget_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	// Infrastructure metrics
	RedisLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nugget_redis_latency_seconds",
			Help:    "Redis operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
		},
	)

	PostgresLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nugget_postgres_latency_seconds",
			Help:    "PostgreSQL query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1},
		},
	)
)
