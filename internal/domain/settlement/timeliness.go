// Package settlement reglas puras del motor de pagos.
package settlement

import "time"

// TimelinessEvaluator clasifica un pago como a tiempo o tardío.
// Location es la zona horaria del municipio; el instante de pago se lleva a esa zona
// antes de tomar su fecha. La fecha límite se interpreta como día calendario tal cual se guardó.
type TimelinessEvaluator struct {
	Location *time.Location
}

// NewTimelinessEvaluator construye el evaluador. loc nil equivale a UTC.
func NewTimelinessEvaluator(loc *time.Location) TimelinessEvaluator {
	if loc == nil {
		loc = time.UTC
	}
	return TimelinessEvaluator{Location: loc}
}

// IsOnTime devuelve true si date(settledAt) <= date(dueAt). El día límite cuenta como a tiempo.
func (e TimelinessEvaluator) IsOnTime(settledAt, dueAt time.Time) bool {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	sy, sm, sd := settledAt.In(loc).Date()
	dy, dm, dd := dueAt.Date()
	paid := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return !paid.After(due)
}
