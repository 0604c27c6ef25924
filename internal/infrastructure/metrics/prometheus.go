// Package metrics expone contadores Prometheus del motor de pagos.
package metrics

import (
	"net/http"

	"github.com/jhoicas/Recaudo-api/internal/application/settlement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var _ settlement.MetricsRecorder = (*Recorder)(nil)

// Recorder implementa settlement.MetricsRecorder sobre un registry propio.
type Recorder struct {
	registry    *prometheus.Registry
	settlements *prometheus.CounterVec
	amount      *prometheus.CounterVec
}

// NewRecorder registra los contadores, más los collectors de proceso y runtime de Go.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recaudo",
			Name:      "settlements_total",
			Help:      "Intentos de pago por categoría, modo y resultado.",
		}, []string{"category", "mode", "outcome"}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recaudo",
			Name:      "settled_amount_total",
			Help:      "Importe que efectivamente pasó a SETTLED, por categoría.",
		}, []string{"category"}),
	}
	r.registry.MustRegister(
		r.settlements,
		r.amount,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveSettlement cuenta el intento y suma el importe pagado (si lo hubo).
func (r *Recorder) ObserveSettlement(category entity.Category, mode, outcome string, amount decimal.Decimal) {
	r.settlements.WithLabelValues(string(category), mode, outcome).Inc()
	if amount.IsPositive() {
		r.amount.WithLabelValues(string(category)).Add(amount.InexactFloat64())
	}
}

// Handler endpoint /metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry para pruebas o collectors adicionales.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
