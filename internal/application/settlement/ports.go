package settlement

import (
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Modos de pago para métricas y logs.
const (
	ModeOne = "one"
	ModeAll = "all"
)

// Resultados de un intento de pago.
const (
	OutcomeSettled        = "settled"
	OutcomePartial        = "partial"
	OutcomeAlreadySettled = "already_settled"
	OutcomeAmountMismatch = "amount_mismatch"
	OutcomeNotFound       = "not_found"
	OutcomeEmptyAccount   = "empty_account"
	OutcomeTransient      = "transient"
	OutcomeInvalid        = "invalid"
	OutcomeError          = "error"
)

// MetricsRecorder registra cada intento de pago. amount es lo que efectivamente cambió de estado (cero si falló).
type MetricsRecorder interface {
	ObserveSettlement(category entity.Category, mode, outcome string, amount decimal.Decimal)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSettlement(entity.Category, string, string, decimal.Decimal) {}
