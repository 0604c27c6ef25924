package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
)

var _ repository.SettlementTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunSettlement Commit si fn retorna nil; Rollback en cualquier otro camino.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(repo repository.ObligationRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewObligationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}
