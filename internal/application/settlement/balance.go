package settlement

import (
	"context"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BalanceAggregator saldo pendiente por cuenta, leído siempre del almacén.
type BalanceAggregator struct {
	repo repository.ObligationRepository
}

// NewBalanceAggregator construye el agregador.
func NewBalanceAggregator(repo repository.ObligationRepository) *BalanceAggregator {
	return &BalanceAggregator{repo: repo}
}

// OutstandingTotal cero para cuentas sin obligaciones o sin pendientes.
func (b *BalanceAggregator) OutstandingTotal(ctx context.Context, account entity.AccountRef) (decimal.Decimal, error) {
	return b.repo.SumOutstanding(ctx, account)
}
