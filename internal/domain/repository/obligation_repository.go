package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OnTimeFunc decide si un pago hecho ahora sobre una obligación con esa fecha límite es a tiempo.
type OnTimeFunc func(dueAt time.Time) bool

// ObligationRepository puerto de persistencia de obligaciones (multas y prediales).
//
// Las lecturas son consultivas. Las únicas escrituras son TrySettle y TrySettleBatch,
// que vuelven a verificar status = PENDING en la misma operación atómica que escribe.
type ObligationRepository interface {
	// GetByID devuelve domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Obligation, error)
	// ListByAccount ordena por issued_at DESC. status nil = todas.
	ListByAccount(ctx context.Context, account entity.AccountRef, status *entity.Status) ([]*entity.Obligation, error)
	// SumOutstanding suma las pendientes; cero si no hay ninguna (nunca error por cuenta vacía).
	SumOutstanding(ctx context.Context, account entity.AccountRef) (decimal.Decimal, error)
	// PendingSnapshot ids pendientes de la cuenta y su suma en este instante.
	PendingSnapshot(ctx context.Context, account entity.AccountRef) ([]int64, decimal.Decimal, error)
	// TrySettle PENDING → SETTLED condicionado; false si otro escritor ganó.
	TrySettle(ctx context.Context, id int64, settledAt time.Time, settledOnTime bool) (bool, error)
	// TrySettleBatch paga, dentro de la transacción del caller, solo los ids que sigan PENDING
	// y devuelve exactamente cuáles cambiaron de estado y su suma.
	TrySettleBatch(ctx context.Context, ids []int64, settledAt time.Time, onTime OnTimeFunc) (entity.BatchResult, error)
}

// ObligationLoader alta de obligaciones; solo la usan la carga inicial y las pruebas, nunca el motor.
type ObligationLoader interface {
	Insert(ctx context.Context, o *entity.Obligation) error
}

// SettlementTxRunner ejecuta fn dentro de una transacción con un repositorio atado a ella.
// Commit si fn retorna nil; Rollback en cualquier otro camino.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(repo ObligationRepository) error) error
}
