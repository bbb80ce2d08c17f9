package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Total tickets sold across all events",
		},
	)

	ticketsRefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_refunded_total",
			Help: "Total tickets refunded",
		},
	)

	platformFees = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "platform_fees_accrued_total",
			Help: "Total platform fee amount accrued from purchases",
		},
	)

	escrowHeld = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "escrow_held_amount",
			Help: "Net amount currently held in event escrows",
		},
	)

	operationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_operation_errors_total",
			Help: "Total failed marketplace operations",
		},
		[]string{"operation"},
	)

	auditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_audit_events_total",
			Help: "Total ledger events processed by the audit worker",
		},
		[]string{"kind"},
	)
)

func RecordPurchase(price, fee int64) {
	ticketsSold.Inc()
	platformFees.Add(float64(fee))
	escrowHeld.Add(float64(price - fee))
}

func RecordRefund(amount int64) {
	ticketsRefunded.Inc()
	escrowHeld.Sub(float64(amount))
}

func RecordOperationError(operation string) {
	operationErrors.WithLabelValues(operation).Inc()
}

func RecordAuditEvent(kind string) {
	auditEvents.WithLabelValues(kind).Inc()
}
