package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the dialogue and
// booking flows. A nil receiver disables every observer, so wiring metrics
// stays optional.
type ConversationMetrics struct {
	turnsTotal          *prometheus.CounterVec
	bookingCommitsTotal *prometheus.CounterVec
	notificationsSent   prometheus.Counter
	turnLatency         *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sammy",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		}, []string{"status"}),
		bookingCommitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sammy",
			Subsystem: "booking",
			Name:      "commits_total",
			Help:      "Total booking commit attempts by outcome",
		}, []string{"outcome"}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sammy",
			Subsystem: "notify",
			Name:      "sent_total",
			Help:      "Total booking notifications delivered",
		}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sammy",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of a full conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookingCommitsTotal, m.notificationsSent, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveTurn(status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) ObserveCommit(outcome string) {
	if m == nil {
		return
	}
	m.bookingCommitsTotal.WithLabelValues(outcome).Inc()
}

func (m *ConversationMetrics) ObserveNotifications(sent int) {
	if m == nil || sent <= 0 {
		return
	}
	m.notificationsSent.Add(float64(sent))
}

func (m *ConversationMetrics) ObserveTurnLatency(transport string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(transport).Observe(seconds)
}
