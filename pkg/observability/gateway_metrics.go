package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes used as the "outcome" label
const (
	OutcomeSuccess = "success" // gateway answered success=true
	OutcomeFailure = "failure" // gateway answered, but not with success=true
	OutcomeError   = "error"   // no response body obtained
)

var (
	// Gateway operation metrics
	gatewayOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_operations_total",
		Help: "Total number of gateway operations by action and outcome",
	}, []string{
		"action",  // purch, auth, capture, cancel
		"outcome", // success, failure, error
		"mode",    // test, live
	})

	gatewayOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "gateway_operation_duration_seconds",
		Help: "Time spent on one gateway round trip including parsing",
		// Buckets: 50ms to 30s
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"action",
	})

	gatewayErrorCodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_error_codes_total",
		Help: "Gateway error codes returned on failed operations",
	}, []string{
		"action",
		"code", // 01-07, "unknown" or "none"
	})

	verifyReleaseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_verify_release_failures_total",
		Help: "Verify calls whose releasing void did not succeed",
	})

	// Transport metrics
	transportResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_transport_responses_total",
		Help: "HTTP responses received from the gateway by status code",
	}, []string{
		"endpoint",
		"status_code",
	})

	circuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gateway_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{
		"name",
	})

	auditWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_audit_write_failures_total",
		Help: "Audit entries that could not be persisted",
	})
)

// RecordGatewayOperation records one completed gateway operation
func RecordGatewayOperation(action, outcome string, testMode bool, duration float64) {
	mode := "live"
	if testMode {
		mode = "test"
	}
	gatewayOperationsTotal.WithLabelValues(action, outcome, mode).Inc()
	gatewayOperationDuration.WithLabelValues(action).Observe(duration)
}

// RecordGatewayErrorCode records the error code of a failed operation
func RecordGatewayErrorCode(action, code string) {
	if code == "" {
		code = "none"
	}
	gatewayErrorCodesTotal.WithLabelValues(action, code).Inc()
}

// RecordVerifyReleaseFailure records a verify whose void step failed
func RecordVerifyReleaseFailure() {
	verifyReleaseFailuresTotal.Inc()
}

// RecordTransportResponse records an HTTP status received from the gateway
func RecordTransportResponse(endpoint string, statusCode int) {
	transportResponsesTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// SetCircuitBreakerState publishes the current breaker state
func SetCircuitBreakerState(name string, state float64) {
	circuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordAuditWriteFailure records an audit entry that was dropped
func RecordAuditWriteFailure() {
	auditWriteFailuresTotal.Inc()
}
