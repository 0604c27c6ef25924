package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	domainsettlement "github.com/jhoicas/Recaudo-api/internal/domain/settlement"
	"github.com/rs/zerolog"
)

// Executor aplica un intento validado como transición atómica PENDING → SETTLED.
// El resultado de la escritura es la autoridad; la validación previa solo sirve para buenos mensajes.
type Executor struct {
	repo       repository.ObligationRepository
	txRunner   repository.SettlementTxRunner
	timeliness domainsettlement.TimelinessEvaluator
	now        func() time.Time
	log        zerolog.Logger
}

// NewExecutor construye el ejecutor. now nil usa time.Now.
func NewExecutor(
	repo repository.ObligationRepository,
	txRunner repository.SettlementTxRunner,
	timeliness domainsettlement.TimelinessEvaluator,
	now func() time.Time,
	log zerolog.Logger,
) *Executor {
	if now == nil {
		now = time.Now
	}
	return &Executor{
		repo:       repo,
		txRunner:   txRunner,
		timeliness: timeliness,
		now:        now,
		log:        log,
	}
}

// settledAt instante de pago con la precisión que guarda el almacén (microsegundos).
func (e *Executor) settledAt() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

// ExecuteOne recalcula a-tiempo con la fecha límite y el instante actual y llama TrySettle.
// Si otro escritor ganó entre validación y escritura devuelve AlreadySettledError.
func (e *Executor) ExecuteOne(ctx context.Context, intent OneIntent) (*entity.Receipt, error) {
	at := e.settledAt()
	onTime := e.timeliness.IsOnTime(at, intent.DueAt)

	ok, err := e.repo.TrySettle(ctx, intent.ObligationID, at, onTime)
	if err != nil {
		return nil, fmt.Errorf("settle obligation %d: %w", intent.ObligationID, err)
	}
	if !ok {
		e.log.Info().
			Int64("obligation_id", intent.ObligationID).
			Msg("pago concurrente detectado en la escritura")
		return nil, &domain.AlreadySettledError{ObligationID: intent.ObligationID}
	}
	return &entity.Receipt{
		ObligationID:  intent.ObligationID,
		SettledAt:     at,
		SettledOnTime: onTime,
	}, nil
}

// ExecuteAll paga, en una sola transacción, los ids de la foto que sigan pendientes.
//   - ninguno pagado: AlreadySettledError (todo lo pagó otra petición).
//   - subconjunto: comprobante con solo lo que cambió de estado.
//   - todos: comprobante completo.
func (e *Executor) ExecuteAll(ctx context.Context, intent BatchIntent) (*entity.BatchReceipt, error) {
	at := e.settledAt()
	onTime := func(dueAt time.Time) bool { return e.timeliness.IsOnTime(at, dueAt) }

	var result entity.BatchResult
	err := e.txRunner.RunSettlement(ctx, func(repo repository.ObligationRepository) error {
		var err error
		result, err = repo.TrySettleBatch(ctx, intent.ObligationIDs, at, onTime)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("settle account %s: %w", intent.Account, err)
	}

	if len(result.SettledIDs) == 0 {
		e.log.Info().
			Str("account", intent.Account.String()).
			Int("snapshot", len(intent.ObligationIDs)).
			Msg("todas las obligaciones de la foto fueron pagadas por otra petición")
		return nil, &domain.AlreadySettledError{Account: intent.Account.Key}
	}
	if len(result.SettledIDs) < len(intent.ObligationIDs) {
		e.log.Warn().
			Str("account", intent.Account.String()).
			Int("snapshot", len(intent.ObligationIDs)).
			Int("settled", len(result.SettledIDs)).
			Str("validated_total", intent.Total.StringFixed(2)).
			Str("settled_total", result.Total.StringFixed(2)).
			Msg("pago total parcial: parte de la foto se pagó concurrentemente")
	}

	return &entity.BatchReceipt{
		Account:       intent.Account,
		CountSettled:  len(result.SettledIDs),
		TotalPaid:     result.Total,
		SettledAt:     at,
		ObligationIDs: result.SettledIDs,
	}, nil
}
