package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		updatesTotal,
		repliesTotal,
	)
}

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Incoming updates by kind (text/command/other).",
		},
		[]string{"kind"},
	)

	repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_replies_total",
			Help: "Replies sent by status (ok/fallback/send_error).",
		},
		[]string{"status"},
	)
)

// IncUpdate counts an incoming update.
func IncUpdate(kind string) {
	updatesTotal.WithLabelValues(norm(kind)).Inc()
}

// IncReply counts a reply attempt.
func IncReply(status string) {
	repliesTotal.WithLabelValues(norm(status)).Inc()
}
