package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		journalWritesTotal,
		journalPurgedTotal,
	)
}

var (
	journalWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_writes_total",
			Help: "Exchange journal inserts by result (ok/error).",
		},
		[]string{"result"},
	)

	journalPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "journal_purged_total",
			Help: "Exchanges removed by the retention task.",
		},
	)
)

// IncJournalWrite counts an exchange insert.
func IncJournalWrite(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	journalWritesTotal.WithLabelValues(result).Inc()
}

// AddJournalPurged counts rows removed by retention.
func AddJournalPurged(n int64) {
	if n > 0 {
		journalPurgedTotal.Add(float64(n))
	}
}
