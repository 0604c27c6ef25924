package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// OneIntent pago individual validado. Es solo una pista: la escritura vuelve a verificar.
type OneIntent struct {
	ObligationID int64
	Category     entity.Category
	Amount       decimal.Decimal
	DueAt        time.Time
}

// BatchIntent pago total validado: foto de los ids pendientes y su suma.
type BatchIntent struct {
	Account       entity.AccountRef
	ObligationIDs []int64
	Total         decimal.Decimal
}

// Validator reglas de negocio sin estado. Nunca escribe.
type Validator struct {
	repo repository.ObligationRepository
}

// NewValidator construye el validador.
func NewValidator(repo repository.ObligationRepository) *Validator {
	return &Validator{repo: repo}
}

// ValidateOne verifica existencia, estado y monto exacto de una obligación de la categoría.
func (v *Validator) ValidateOne(ctx context.Context, category entity.Category, id int64, submitted decimal.Decimal) (OneIntent, error) {
	ob, err := v.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return OneIntent{}, fmt.Errorf("%w: obligación %d", domain.ErrNotFound, id)
		}
		return OneIntent{}, err
	}
	if ob.Category != category {
		return OneIntent{}, fmt.Errorf("%w: obligación %d", domain.ErrNotFound, id)
	}
	if ob.IsSettled() {
		return OneIntent{}, &domain.AlreadySettledError{ObligationID: ob.ID, Account: ob.Account, SettledAt: ob.SettledAt}
	}
	if !ob.Amount.Equal(submitted) {
		return OneIntent{}, &domain.AmountMismatchError{Expected: ob.Amount, Submitted: submitted}
	}
	return OneIntent{
		ObligationID: ob.ID,
		Category:     ob.Category,
		Amount:       ob.Amount,
		DueAt:        ob.DueAt,
	}, nil
}

// ValidateAll toma la foto de pendientes de la cuenta y exige que submitted sea exactamente su suma.
func (v *Validator) ValidateAll(ctx context.Context, account entity.AccountRef, submitted decimal.Decimal) (BatchIntent, error) {
	ids, total, err := v.repo.PendingSnapshot(ctx, account)
	if err != nil {
		return BatchIntent{}, err
	}
	if len(ids) == 0 {
		return BatchIntent{}, &domain.EmptyAccountError{Account: account.Key}
	}
	if !total.Equal(submitted) {
		return BatchIntent{}, &domain.AmountMismatchError{Expected: total, Submitted: submitted}
	}
	return BatchIntent{Account: account, ObligationIDs: ids, Total: total}, nil
}
