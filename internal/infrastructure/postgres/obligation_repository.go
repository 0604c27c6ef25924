package postgres

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ObligationRepository = (*ObligationRepo)(nil)

const obligationColumns = `
	id, account, category, COALESCE(concept, ''), COALESCE(address, ''),
	amount, issued_at, due_at, status, settled_at, settled_on_time`

// ObligationRepo implementación de ObligationRepository sobre PostgreSQL (usable con pool o tx).
type ObligationRepo struct {
	q Querier
}

// NewObligationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewObligationRepository(q Querier) *ObligationRepo {
	return &ObligationRepo{q: q}
}

func scanObligation(row pgx.Row) (*entity.Obligation, error) {
	var o entity.Obligation
	var category, status string
	err := row.Scan(
		&o.ID, &o.Account, &category, &o.Concept, &o.Address,
		&o.Amount, &o.IssuedAt, &o.DueAt, &status, &o.SettledAt, &o.SettledOnTime,
	)
	if err != nil {
		return nil, err
	}
	o.Category = entity.Category(category)
	o.Status = entity.Status(status)
	return &o, nil
}

// Insert registra una obligación nueva en estado PENDING. La emisión pertenece a un proceso
// externo; se expone para cargas de datos (cmd/seed) y pruebas.
func (r *ObligationRepo) Insert(ctx context.Context, o *entity.Obligation) error {
	if !o.Amount.IsPositive() || !o.Category.Valid() || o.Account == "" {
		return domain.ErrInvalidInput
	}
	const query = `
		INSERT INTO obligations (account, category, concept, address, amount, issued_at, due_at, status)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, 'PENDING')
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		o.Account, string(o.Category), o.Concept, o.Address, o.Amount, o.IssuedAt, o.DueAt,
	).Scan(&o.ID)
	if err != nil {
		return wrapErr("insert obligation", err)
	}
	o.Status = entity.StatusPending
	o.SettledAt = nil
	o.SettledOnTime = nil
	return nil
}

// GetByID obtiene una obligación por ID.
func (r *ObligationRepo) GetByID(ctx context.Context, id int64) (*entity.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = $1`
	o, err := scanObligation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("get obligation", err)
	}
	return o, nil
}

// ListByAccount lista las obligaciones de la cuenta, más recientes primero.
func (r *ObligationRepo) ListByAccount(ctx context.Context, account entity.AccountRef, status *entity.Status) ([]*entity.Obligation, error) {
	query := `SELECT ` + obligationColumns + `
		FROM obligations
		WHERE category = $1 AND account = $2`
	args := []any{string(account.Category), account.Key}
	if status != nil {
		query += ` AND status = $3`
		args = append(args, string(*status))
	}
	query += ` ORDER BY issued_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list obligations", err)
	}
	defer rows.Close()
	var list []*entity.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, wrapErr("scan obligation", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list obligations", err)
	}
	return list, nil
}

// SumOutstanding usa COALESCE para devolver cero si no hay pendientes.
func (r *ObligationRepo) SumOutstanding(ctx context.Context, account entity.AccountRef) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM obligations
		WHERE category = $1 AND account = $2 AND status = 'PENDING'`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, string(account.Category), account.Key).Scan(&total); err != nil {
		return decimal.Zero, wrapErr("sum outstanding", err)
	}
	return total, nil
}

// PendingSnapshot ids pendientes y su suma, leídos en una sola consulta.
func (r *ObligationRepo) PendingSnapshot(ctx context.Context, account entity.AccountRef) ([]int64, decimal.Decimal, error) {
	const query = `
		SELECT id, amount
		FROM obligations
		WHERE category = $1 AND account = $2 AND status = 'PENDING'
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, string(account.Category), account.Key)
	if err != nil {
		return nil, decimal.Zero, wrapErr("pending snapshot", err)
	}
	defer rows.Close()
	var ids []int64
	total := decimal.Zero
	for rows.Next() {
		var id int64
		var amount decimal.Decimal
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, decimal.Zero, wrapErr("scan pending snapshot", err)
		}
		ids = append(ids, id)
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, wrapErr("pending snapshot", err)
	}
	return ids, total, nil
}

// TrySettle UPDATE condicionado por status = 'PENDING'. Bajo concurrencia, el segundo
// UPDATE espera el lock de fila, re-evalúa el predicado y no afecta filas.
func (r *ObligationRepo) TrySettle(ctx context.Context, id int64, settledAt time.Time, settledOnTime bool) (bool, error) {
	const query = `
		UPDATE obligations
		SET status          = 'SETTLED',
		    settled_at      = $2,
		    settled_on_time = $3
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(ctx, query, id, settledAt, settledOnTime)
	if err != nil {
		return false, wrapErr("try settle", err)
	}
	return tag.RowsAffected() == 1, nil
}

// TrySettleBatch bloquea (FOR UPDATE, en orden de id) las filas del conjunto que sigan pendientes,
// calcula a-tiempo por fila y las actualiza. Debe llamarse con un repo atado a una tx (TxRunner).
func (r *ObligationRepo) TrySettleBatch(ctx context.Context, ids []int64, settledAt time.Time, onTime repository.OnTimeFunc) (entity.BatchResult, error) {
	result := entity.BatchResult{Total: decimal.Zero}
	if len(ids) == 0 {
		return result, nil
	}

	const lockQuery = `
		SELECT id, due_at
		FROM obligations
		WHERE id = ANY($1) AND status = 'PENDING'
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, lockQuery, ids)
	if err != nil {
		return result, wrapErr("lock pending obligations", err)
	}
	var lockedIDs []int64
	var flags []bool
	for rows.Next() {
		var id int64
		var dueAt time.Time
		if err := rows.Scan(&id, &dueAt); err != nil {
			rows.Close()
			return result, wrapErr("scan locked obligation", err)
		}
		lockedIDs = append(lockedIDs, id)
		flags = append(flags, onTime(dueAt))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, wrapErr("lock pending obligations", err)
	}
	if len(lockedIDs) == 0 {
		return result, nil
	}

	const updateQuery = `
		UPDATE obligations o
		SET status          = 'SETTLED',
		    settled_at      = $1,
		    settled_on_time = v.on_time
		FROM unnest($2::bigint[], $3::boolean[]) AS v(id, on_time)
		WHERE o.id = v.id AND o.status = 'PENDING'
		RETURNING o.id, o.amount`
	upd, err := r.q.Query(ctx, updateQuery, settledAt, lockedIDs, flags)
	if err != nil {
		return result, wrapErr("settle batch", err)
	}
	defer upd.Close()
	for upd.Next() {
		var id int64
		var amount decimal.Decimal
		if err := upd.Scan(&id, &amount); err != nil {
			return result, wrapErr("scan settled obligation", err)
		}
		result.SettledIDs = append(result.SettledIDs, id)
		result.Total = result.Total.Add(amount)
	}
	if err := upd.Err(); err != nil {
		return result, wrapErr("settle batch", err)
	}
	slices.Sort(result.SettledIDs)
	return result, nil
}
