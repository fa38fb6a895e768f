package metrics

import (
	"strconv"

	"catalog/internal/apperrors"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects catalog metrics. A nil Recorder records nothing.
type Recorder struct {
	httpRequests *prometheus.CounterVec
	operations   *prometheus.CounterVec
	seeded       prometheus.Gauge
}

// NewRecorder creates the catalog collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_product_operations_total",
				Help: "Product operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		seeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_seeded_products",
			Help: "Number of products inserted by the last reseed",
		}),
	}
	reg.MustRegister(r.httpRequests, r.operations, r.seeded)
	return r
}

// ObserveRequest counts one served HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveOperation counts a product operation; the outcome is "ok" or the error kind.
func (r *Recorder) ObserveOperation(operation string, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = apperrors.KindOf(err).String()
	}
	r.operations.WithLabelValues(operation, outcome).Inc()
}

// SetSeeded records the size of the last reseed.
func (r *Recorder) SetSeeded(n int) {
	if r == nil {
		return
	}
	r.seeded.Set(float64(n))
}
