package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Metrics holds all Prometheus metrics and implements usecase.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	// Ledger metrics
	OperationsAccepted *prometheus.CounterVec
	OperationsRejected *prometheus.CounterVec
	OperationAmount    *prometheus.HistogramVec

	// Registry metrics
	AccountsOpened       prometheus.Counter
	IdentitiesRegistered prometheus.Counter
}

// New creates all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		OperationsAccepted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_operations_accepted_total",
				Help: "Total ledger operations accepted by kind",
			},
			[]string{"kind"},
		),
		OperationsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_operations_rejected_total",
				Help: "Total ledger operations rejected by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_operation_amount",
				Help:    "Accepted operation amounts",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
			},
			[]string{"kind"},
		),

		AccountsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_accounts_opened_total",
			Help: "Total number of accounts opened",
		}),
		IdentitiesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "gobank_identities_registered_total",
			Help: "Total number of identities registered",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OperationAccepted counts an accepted deposit or withdrawal.
func (m *Metrics) OperationAccepted(kind domain.EntryKind, amount decimal.Decimal) {
	m.OperationsAccepted.WithLabelValues(string(kind)).Inc()
	m.OperationAmount.WithLabelValues(string(kind)).Observe(amount.InexactFloat64())
}

// OperationRejected counts a rejected deposit or withdrawal.
func (m *Metrics) OperationRejected(kind domain.EntryKind, reason string) {
	m.OperationsRejected.WithLabelValues(string(kind), reason).Inc()
}

// AccountOpened counts an opened account.
func (m *Metrics) AccountOpened() {
	m.AccountsOpened.Inc()
}

// IdentityRegistered counts a registered identity.
func (m *Metrics) IdentityRegistered() {
	m.IdentitiesRegistered.Inc()
}

// WriteTextfile dumps the metrics in the text exposition format to path,
// for pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
