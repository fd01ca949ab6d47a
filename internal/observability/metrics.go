package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	messagesHandledTotal  *prometheus.CounterVec
	messageLatencySeconds *prometheus.HistogramVec
	roomSearchesTotal     *prometheus.CounterVec
	gatewayErrorsTotal    *prometheus.CounterVec
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the bot.
func RegisterMetrics() {
	registerOnce.Do(func() {
		messagesHandledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_messages_handled_total",
			Help: "Total number of inbound messages handled, by dispatch action.",
		}, []string{"action"})

		messageLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bot_message_latency_seconds",
			Help:    "Time spent classifying and answering an inbound message.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"action"})

		roomSearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_room_searches_total",
			Help: "Total number of room searches, by outcome.",
		}, []string{"result"})

		gatewayErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_gateway_errors_total",
			Help: "Total number of failed messaging gateway calls.",
		}, []string{"method"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(
			messagesHandledTotal,
			messageLatencySeconds,
			roomSearchesTotal,
			gatewayErrorsTotal,
			httpRequestsTotal,
			httpLatencySeconds,
		)
	})
}

// MessagesHandled exposes the counter of handled messages.
func MessagesHandled() *prometheus.CounterVec {
	RegisterMetrics()
	return messagesHandledTotal
}

// MessageLatency exposes the message handling latency histogram.
func MessageLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return messageLatencySeconds
}

// RoomSearches exposes the counter of room searches.
func RoomSearches() *prometheus.CounterVec {
	RegisterMetrics()
	return roomSearchesTotal
}

// GatewayErrors exposes the counter of gateway failures.
func GatewayErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return gatewayErrorsTotal
}

// HTTPRequests exposes the counter for HTTP requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for HTTP requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}
