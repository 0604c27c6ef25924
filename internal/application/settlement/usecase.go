// Package settlement contiene el motor de pagos de multas y prediales:
// validación, ejecución atómica y saldos por cuenta.
package settlement

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// UseCase fachada del motor: GetObligations, GetOutstandingTotal, SettleOne, SettleAll.
type UseCase struct {
	repo      repository.ObligationRepository
	validator *Validator
	executor  *Executor
	balance   *BalanceAggregator
	metrics   MetricsRecorder
	log       zerolog.Logger
}

// NewUseCase construye la fachada. metrics nil desactiva las métricas.
func NewUseCase(
	repo repository.ObligationRepository,
	validator *Validator,
	executor *Executor,
	balance *BalanceAggregator,
	metrics MetricsRecorder,
	log zerolog.Logger,
) *UseCase {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &UseCase{
		repo:      repo,
		validator: validator,
		executor:  executor,
		balance:   balance,
		metrics:   metrics,
		log:       log,
	}
}

// GetObligations lista todas las obligaciones de la cuenta, más recientes primero.
func (uc *UseCase) GetObligations(ctx context.Context, account entity.AccountRef) ([]dto.ObligationSummary, error) {
	account, err := normalizeAccount(account)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByAccount(ctx, account, nil)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ObligationSummary, 0, len(list))
	for _, o := range list {
		out = append(out, ToSummary(o))
	}
	return out, nil
}

// GetOutstandingTotal saldo pendiente de la cuenta (cero si no hay pendientes).
func (uc *UseCase) GetOutstandingTotal(ctx context.Context, account entity.AccountRef) (*dto.OutstandingTotalResponse, error) {
	account, err := normalizeAccount(account)
	if err != nil {
		return nil, err
	}
	total, err := uc.balance.OutstandingTotal(ctx, account)
	if err != nil {
		return nil, err
	}
	return &dto.OutstandingTotalResponse{
		Category: string(account.Category),
		Account:  account.Key,
		Total:    total,
	}, nil
}

// SettleOne paga una obligación de la categoría por su monto exacto.
func (uc *UseCase) SettleOne(ctx context.Context, category entity.Category, in dto.SettleOneRequest) (*dto.ReceiptResponse, error) {
	if !category.Valid() || in.ObligationID <= 0 {
		uc.observe(category, ModeOne, domain.ErrInvalidInput, decimal.Zero)
		return nil, domain.ErrInvalidInput
	}

	intent, err := uc.validator.ValidateOne(ctx, category, in.ObligationID, in.Amount)
	if err != nil {
		uc.observe(category, ModeOne, err, decimal.Zero)
		return nil, err
	}
	receipt, err := uc.executor.ExecuteOne(ctx, intent)
	if err != nil {
		uc.observe(category, ModeOne, err, decimal.Zero)
		return nil, err
	}
	uc.observe(category, ModeOne, nil, intent.Amount)
	uc.log.Info().
		Str("category", string(category)).
		Int64("obligation_id", receipt.ObligationID).
		Str("amount", intent.Amount.StringFixed(2)).
		Bool("on_time", receipt.SettledOnTime).
		Msg("obligación pagada")

	return &dto.ReceiptResponse{
		ObligationID:  receipt.ObligationID,
		SettledAt:     receipt.SettledAt,
		SettledOnTime: receipt.SettledOnTime,
	}, nil
}

// SettleAll paga todas las pendientes de la cuenta si amount es exactamente su suma.
func (uc *UseCase) SettleAll(ctx context.Context, category entity.Category, in dto.SettleAllRequest) (*dto.BatchReceiptResponse, error) {
	account, err := normalizeAccount(entity.AccountRef{Category: category, Key: in.Account})
	if err != nil {
		uc.observe(category, ModeAll, err, decimal.Zero)
		return nil, err
	}

	intent, err := uc.validator.ValidateAll(ctx, account, in.Amount)
	if err != nil {
		uc.observe(category, ModeAll, err, decimal.Zero)
		return nil, err
	}
	receipt, err := uc.executor.ExecuteAll(ctx, intent)
	if err != nil {
		uc.observe(category, ModeAll, err, decimal.Zero)
		return nil, err
	}

	outcome := OutcomeSettled
	if receipt.CountSettled < len(intent.ObligationIDs) {
		outcome = OutcomePartial
	}
	uc.metrics.ObserveSettlement(category, ModeAll, outcome, receipt.TotalPaid)
	uc.log.Info().
		Str("account", account.String()).
		Int("count", receipt.CountSettled).
		Str("total_paid", receipt.TotalPaid.StringFixed(2)).
		Msg("cuenta pagada")

	return &dto.BatchReceiptResponse{
		Category:      string(category),
		Account:       account.Key,
		CountSettled:  receipt.CountSettled,
		TotalPaid:     receipt.TotalPaid,
		SettledAt:     receipt.SettledAt,
		ObligationIDs: receipt.ObligationIDs,
	}, nil
}

func (uc *UseCase) observe(category entity.Category, mode string, err error, amount decimal.Decimal) {
	uc.metrics.ObserveSettlement(category, mode, outcomeOf(err), amount)
}

// outcomeOf etiqueta de resultado para un error del motor (nil = pagado).
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSettled
	case errors.Is(err, domain.ErrAlreadySettled):
		return OutcomeAlreadySettled
	case errors.Is(err, domain.ErrAmountMismatch):
		return OutcomeAmountMismatch
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrEmptyAccount):
		return OutcomeEmptyAccount
	case errors.Is(err, domain.ErrTransient):
		return OutcomeTransient
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

func normalizeAccount(account entity.AccountRef) (entity.AccountRef, error) {
	account.Key = strings.TrimSpace(account.Key)
	if !account.Category.Valid() || account.Key == "" {
		return account, domain.ErrInvalidInput
	}
	return account, nil
}

// ToSummary proyecta una obligación al DTO de listado.
func ToSummary(o *entity.Obligation) dto.ObligationSummary {
	return dto.ObligationSummary{
		ID:            o.ID,
		Category:      string(o.Category),
		Concept:       o.Concept,
		Address:       o.Address,
		Amount:        o.Amount,
		IssuedAt:      o.IssuedAt.Format(dateLayout),
		DueAt:         o.DueAt.Format(dateLayout),
		Status:        string(o.Status),
		SettledAt:     o.SettledAt,
		SettledOnTime: o.SettledOnTime,
	}
}
