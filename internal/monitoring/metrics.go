package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Checkout attempts by outcome",
		},
		[]string{"outcome"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Processed webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	checkIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendee_check_ins_total",
			Help: "Attendee check-in attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func RecordCheckout(outcome string) {
	checkoutAttempts.WithLabelValues(outcome).Inc()
}

func RecordWebhook(outcome string) {
	webhookEvents.WithLabelValues(outcome).Inc()
}

func RecordCheckIn(outcome string) {
	checkIns.WithLabelValues(outcome).Inc()
}
