package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ObligationRepository = (*ObligationRepo)(nil)

// Formatos de ancho fijo en UTC: el orden lexicográfico coincide con el cronológico.
const (
	timestampLayout = "2006-01-02T15:04:05.000000Z"
	dateLayout      = "2006-01-02"
)

const obligationColumns = `
	id, account, category, COALESCE(concept, ''), COALESCE(address, ''),
	amount, issued_at, due_at, status, settled_at, settled_on_time`

// ObligationRepo implementación de ObligationRepository sobre SQLite (usable con db o tx).
type ObligationRepo struct {
	q querier
}

// NewObligationRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewObligationRepository(q querier) *ObligationRepo {
	return &ObligationRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObligation(row rowScanner) (*entity.Obligation, error) {
	var (
		o                entity.Obligation
		category, status string
		issuedAt, dueAt  string
		settledAt        sql.NullString
		settledOnTime    sql.NullBool
	)
	err := row.Scan(
		&o.ID, &o.Account, &category, &o.Concept, &o.Address,
		&o.Amount, &issuedAt, &dueAt, &status, &settledAt, &settledOnTime,
	)
	if err != nil {
		return nil, err
	}
	o.Category = entity.Category(category)
	o.Status = entity.Status(status)
	if o.IssuedAt, err = time.Parse(timestampLayout, issuedAt); err != nil {
		return nil, fmt.Errorf("issued_at %q: %w", issuedAt, err)
	}
	if o.DueAt, err = time.Parse(dateLayout, dueAt); err != nil {
		return nil, fmt.Errorf("due_at %q: %w", dueAt, err)
	}
	if settledAt.Valid {
		t, err := time.Parse(timestampLayout, settledAt.String)
		if err != nil {
			return nil, fmt.Errorf("settled_at %q: %w", settledAt.String, err)
		}
		o.SettledAt = &t
	}
	if settledOnTime.Valid {
		v := settledOnTime.Bool
		o.SettledOnTime = &v
	}
	return &o, nil
}

// Insert registra una obligación nueva en estado PENDING. La emisión pertenece a un proceso
// externo; se expone para cargas de datos y pruebas.
func (r *ObligationRepo) Insert(ctx context.Context, o *entity.Obligation) error {
	if !o.Amount.IsPositive() || !o.Category.Valid() || o.Account == "" {
		return domain.ErrInvalidInput
	}
	const query = `
		INSERT INTO obligations (account, category, concept, address, amount, issued_at, due_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'PENDING')`
	res, err := r.q.ExecContext(ctx, query,
		o.Account, string(o.Category), nullIfEmpty(o.Concept), nullIfEmpty(o.Address),
		o.Amount.String(), o.IssuedAt.UTC().Format(timestampLayout), o.DueAt.Format(dateLayout),
	)
	if err != nil {
		return wrapErr("insert obligation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("insert obligation id", err)
	}
	o.ID = id
	o.Status = entity.StatusPending
	o.SettledAt = nil
	o.SettledOnTime = nil
	return nil
}

// GetByID obtiene una obligación por ID.
func (r *ObligationRepo) GetByID(ctx context.Context, id int64) (*entity.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = ?`
	o, err := scanObligation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		WHERE category = ? AND account = ?`
	args := []any{string(account.Category), account.Key}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY issued_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
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

// SumOutstanding suma en Go: SUM() de SQLite sobre TEXT pasaría por punto flotante.
func (r *ObligationRepo) SumOutstanding(ctx context.Context, account entity.AccountRef) (decimal.Decimal, error) {
	_, total, err := r.PendingSnapshot(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// PendingSnapshot ids pendientes y su suma exacta.
func (r *ObligationRepo) PendingSnapshot(ctx context.Context, account entity.AccountRef) ([]int64, decimal.Decimal, error) {
	const query = `
		SELECT id, amount
		FROM obligations
		WHERE category = ? AND account = ? AND status = 'PENDING'
		ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, string(account.Category), account.Key)
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

// TrySettle UPDATE condicionado por status = 'PENDING'.
func (r *ObligationRepo) TrySettle(ctx context.Context, id int64, settledAt time.Time, settledOnTime bool) (bool, error) {
	const query = `
		UPDATE obligations
		SET status = 'SETTLED', settled_at = ?, settled_on_time = ?
		WHERE id = ? AND status = 'PENDING'`
	res, err := r.q.ExecContext(ctx, query, settledAt.UTC().Format(timestampLayout), settledOnTime, id)
	if err != nil {
		return false, wrapErr("try settle", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr("try settle rows", err)
	}
	return n == 1, nil
}

// TrySettleBatch re-lee las filas del conjunto que siguen pendientes y las actualiza una a una
// con el mismo predicado. Debe correr dentro de la tx de TxRunner.
func (r *ObligationRepo) TrySettleBatch(ctx context.Context, ids []int64, settledAt time.Time, onTime repository.OnTimeFunc) (entity.BatchResult, error) {
	result := entity.BatchResult{Total: decimal.Zero}
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, due_at FROM obligations
		WHERE status = 'PENDING' AND id IN (`+placeholders+`)
		ORDER BY id`, args...)
	if err != nil {
		return result, wrapErr("read pending obligations", err)
	}
	type pending struct {
		id    int64
		dueAt time.Time
	}
	var candidates []pending
	for rows.Next() {
		var p pending
		var due string
		if err := rows.Scan(&p.id, &due); err != nil {
			rows.Close()
			return result, wrapErr("scan pending obligation", err)
		}
		if p.dueAt, err = time.Parse(dateLayout, due); err != nil {
			rows.Close()
			return result, fmt.Errorf("due_at %q: %w", due, err)
		}
		candidates = append(candidates, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, wrapErr("read pending obligations", err)
	}

	at := settledAt.UTC().Format(timestampLayout)
	const update = `
		UPDATE obligations
		SET status = 'SETTLED', settled_at = ?, settled_on_time = ?
		WHERE id = ? AND status = 'PENDING'
		RETURNING amount`
	for _, p := range candidates {
		var amount decimal.Decimal
		err := r.q.QueryRowContext(ctx, update, at, onTime(p.dueAt), p.id).Scan(&amount)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return entity.BatchResult{Total: decimal.Zero}, wrapErr("settle batch", err)
		}
		result.SettledIDs = append(result.SettledIDs, p.id)
		result.Total = result.Total.Add(amount)
	}
	slices.Sort(result.SettledIDs)
	return result, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
