package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	queueOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barber_queue_operations_total",
			Help: "Walk-in queue commands by operation and result",
		},
		[]string{"operation", "result"},
	)

	queueWaiting = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "barber_queue_waiting",
			Help: "Customers currently waiting per barber",
		},
		[]string{"barber_id"},
	)

	sessionOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barber_session_operations_total",
			Help: "Cash-register session commands by operation and result",
		},
		[]string{"operation", "result"},
	)

	appointmentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barber_appointment_operations_total",
			Help: "Appointment commands by operation and result",
		},
		[]string{"operation", "result"},
	)

	accountOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barber_account_operations_total",
			Help: "Reviews, favorites and staff link commands by area, operation and result",
		},
		[]string{"area", "operation", "result"},
	)

	orphanedSales = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barber_queue_orphaned_sales_total",
			Help: "Finished walk-ins with no active session to credit",
		},
	)

	droppedEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barber_events_dropped_total",
			Help: "Domain events dropped because the dispatch buffer was full",
		},
	)

	lockReleaseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "barber_lock_release_failures_total",
			Help: "Lock releases that failed and were left to expire by TTL",
		},
	)
)

// Result classifica o erro de uma operação para os contadores.
func Result(err error, business bool) string {
	switch {
	case err == nil:
		return ResultOK
	case business:
		return ResultRejected
	default:
		return ResultError
	}
}

func QueueOp(operation, result string) {
	queueOperations.WithLabelValues(operation, result).Inc()
}

func SetWaiting(barberID string, n int) {
	queueWaiting.WithLabelValues(barberID).Set(float64(n))
}

func SessionOp(operation, result string) {
	sessionOperations.WithLabelValues(operation, result).Inc()
}

func AppointmentOp(operation, result string) {
	appointmentOperations.WithLabelValues(operation, result).Inc()
}

func AccountOp(area, operation, result string) {
	accountOperations.WithLabelValues(area, operation, result).Inc()
}

func OrphanedSale() {
	orphanedSales.Inc()
}

func DroppedEvent() {
	droppedEvents.Inc()
}

func LockReleaseFailed() {
	lockReleaseFailures.Inc()
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
