package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsApprovedPoisha,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (pending/approved/rejected).",
		},
		[]string{"status"},
	)

	paymentsApprovedPoisha = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_approved_poisha",
			Help: "Total poisha credited to accounts by approved payments.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddApprovedAmount(amount int64) {
	paymentsApprovedPoisha.Add(float64(amount))
}
