package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
)

const (
	OutcomeSuccess = "success"

	OperationDeposit      = "deposit"
	OperationWithdraw     = "withdraw"
	OperationBuy          = "buy"
	OperationSell         = "sell"
	OperationClose        = "close"
	OperationUpdateStatus = "update_status"
	OperationOpen         = "open"
)

// Ledger records the outcome and latency of ledger mutations. A nil *Ledger
// is valid and records nothing.
type Ledger struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewLedger(registerer prometheus.Registerer) *Ledger {
	factory := promauto.With(registerer)

	return &Ledger{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by outcome. Failed operations are labelled with the error kind.",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in a ledger operation including storage round-trips.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// Observe is meant to be deferred with the start time of the operation.
func (l *Ledger) Observe(operation string, started time.Time, err error) {
	if l == nil {
		return
	}

	l.operations.WithLabelValues(operation, Outcome(err)).Inc()
	l.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Outcome turns an operation error into a bounded label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}

	var ledgerErr *commons.Error
	if !errors.As(err, &ledgerErr) {
		return commons.KindInternal.String()
	}
	return ledgerErr.Kind.String()
}
