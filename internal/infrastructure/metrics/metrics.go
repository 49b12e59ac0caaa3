package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry registro propio de la consola (no el global de prometheus).
	Registry = prometheus.NewRegistry()

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aproafa",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Llamadas autenticadas al backend por método y estado.",
		},
		[]string{"method", "status"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aproafa",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Duración de las llamadas al backend.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms a ~10s
		},
		[]string{"method"},
	)

	sessionExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aproafa",
			Subsystem: "gateway",
			Name:      "session_expired_total",
			Help:      "Respuestas 401 que cerraron la sesión.",
		},
	)

	workflowRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aproafa",
			Subsystem: "workflow",
			Name:      "runs_total",
			Help:      "Ejecuciones de flujos de inventario por resultado.",
		},
		[]string{"workflow", "outcome"},
	)

	compensationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aproafa",
			Subsystem: "workflow",
			Name:      "compensations_failed_total",
			Help:      "Ajustes de cantidad que fallaron tras registrar el movimiento.",
		},
		[]string{"workflow"},
	)

	consoleRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aproafa",
			Subsystem: "console",
			Name:      "requests_total",
			Help:      "Peticiones atendidas por la consola.",
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		gatewayRequests,
		gatewayDuration,
		sessionExpired,
		workflowRuns,
		compensationsFailed,
		consoleRequests,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler expone el registro en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordGatewayRequest status 0 = error de transporte.
func RecordGatewayRequest(method string, status int, duration time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	method = strings.ToUpper(method)
	gatewayRequests.WithLabelValues(method, label).Inc()
	gatewayDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordSessionExpired cuenta un 401.
func RecordSessionExpired() {
	sessionExpired.Inc()
}

// RecordWorkflow outcome: ok, validation, rejected, partial, error.
func RecordWorkflow(workflow, outcome string) {
	workflowRuns.WithLabelValues(workflow, outcome).Inc()
}

// RecordCompensationFailure cuenta un ajuste fallido.
func RecordCompensationFailure(workflow string) {
	compensationsFailed.WithLabelValues(workflow).Inc()
}

// RecordConsoleRequest route es la plantilla de la ruta (ej. /insumos/:id/compras).
func RecordConsoleRequest(method, route string, status int) {
	if route == "" {
		route = "unknown"
	}
	consoleRequests.WithLabelValues(strings.ToUpper(method), route, strconv.Itoa(status)).Inc()
}

// WorkflowObserver adapta los contadores de flujo al observador de la capa de aplicación.
type WorkflowObserver struct{}

func (WorkflowObserver) WorkflowFinished(workflow, outcome string) { RecordWorkflow(workflow, outcome) }
func (WorkflowObserver) CompensationFailed(workflow string)        { RecordCompensationFailure(workflow) }
