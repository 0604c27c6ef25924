// Package store abre el almacén de obligaciones según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Recaudo-api/pkg/config"
)

// Store repositorios de un almacén abierto.
type Store struct {
	Driver      string
	Obligations repository.ObligationRepository
	Loader      repository.ObligationLoader
	TxRunner    repository.SettlementTxRunner
	Dashboard   repository.DashboardRepository // nil en SQLite: las vistas de reporte usan SQL de PostgreSQL
	close       func()
}

// Close libera las conexiones.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open conecta con el almacén configurado.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		repo := postgres.NewObligationRepository(pool)
		return &Store{
			Driver:      config.DriverPostgres,
			Obligations: repo,
			Loader:      repo,
			TxRunner:    postgres.NewTxRunner(pool),
			Dashboard:   postgres.NewDashboardRepository(pool),
			close:       pool.Close,
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		repo := sqlite.NewObligationRepository(db)
		return &Store{
			Driver:      config.DriverSQLite,
			Obligations: repo,
			Loader:      repo,
			TxRunner:    sqlite.NewTxRunner(db),
			close:       func() { db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
}
