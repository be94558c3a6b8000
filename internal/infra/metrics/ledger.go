package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		usagesTotal,
		usageChargedPoisha,
		insufficientFundsTotal,
		subscriptionPurchasesTotal,
	)
}

var (
	usagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_usages_total",
			Help: "Service usages by coverage (charged/covered).",
		},
		[]string{"coverage"},
	)

	usageChargedPoisha = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_usage_charged_poisha",
			Help: "Total poisha debited for service usages.",
		},
	)

	insufficientFundsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_insufficient_funds_total",
			Help: "Count of ledger debits blocked by a low balance.",
		},
	)

	subscriptionPurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_subscription_purchases_total",
			Help: "Subscription purchases by plan name.",
		},
		[]string{"plan"},
	)
)

func IncUsage(covered bool, cost int64) {
	coverage := "charged"
	if covered {
		coverage = "covered"
	}
	usagesTotal.WithLabelValues(coverage).Inc()
	if cost > 0 {
		usageChargedPoisha.Add(float64(cost))
	}
}

func IncInsufficientFunds() { insufficientFundsTotal.Inc() }

func IncSubscriptionPurchase(plan string) {
	subscriptionPurchasesTotal.WithLabelValues(norm(plan)).Inc()
}
