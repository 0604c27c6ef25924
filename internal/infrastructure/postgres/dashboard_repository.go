package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo lee las vistas de reporte precalculadas. Nunca escribe.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador de reportes.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

// GetRevenueLastSixMonths ingreso expedido vs pagado por mes.
func (r *DashboardRepo) GetRevenueLastSixMonths(ctx context.Context) ([]repository.MonthlyRevenueRow, error) {
	const query = `
	SELECT mes_inicio, expedido_total, pagado_total
	FROM v_ingresos_ultimos_seis_meses
	ORDER BY mes_inicio`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("dashboard.GetRevenueLastSixMonths", err)
	}
	defer rows.Close()

	var out []repository.MonthlyRevenueRow
	for rows.Next() {
		var row repository.MonthlyRevenueRow
		if err := rows.Scan(&row.MonthStart, &row.IssuedTotal, &row.PaidTotal); err != nil {
			return nil, fmt.Errorf("dashboard.GetRevenueLastSixMonths scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetMonthlyDelinquency índice de morosidad por mes.
func (r *DashboardRepo) GetMonthlyDelinquency(ctx context.Context) ([]repository.MonthlyDelinquencyRow, error) {
	const query = `
	SELECT mes_inicio, total_expedido, total_moroso, indice_morosidad
	FROM v_indice_morosidad_mes
	ORDER BY mes_inicio`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("dashboard.GetMonthlyDelinquency", err)
	}
	defer rows.Close()

	var out []repository.MonthlyDelinquencyRow
	for rows.Next() {
		var row repository.MonthlyDelinquencyRow
		if err := rows.Scan(&row.MonthStart, &row.TotalIssued, &row.TotalDelinquent, &row.DelinquencyIndex); err != nil {
			return nil, fmt.Errorf("dashboard.GetMonthlyDelinquency scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetGlobalDelinquency índice global de prediales y multas (una fila).
func (r *DashboardRepo) GetGlobalDelinquency(ctx context.Context) (*repository.GlobalDelinquency, error) {
	const query = `
	SELECT COALESCE(indice_morosidad_prediales, 0), COALESCE(indice_morosidad_multas, 0)
	FROM v_indice_morosidad_global`

	var g repository.GlobalDelinquency
	if err := r.pool.QueryRow(ctx, query).Scan(&g.AssessmentIndex, &g.FineIndex); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &repository.GlobalDelinquency{AssessmentIndex: decimal.Zero, FineIndex: decimal.Zero}, nil
		}
		return nil, wrapErr("dashboard.GetGlobalDelinquency", err)
	}
	return &g, nil
}

// GetAssessmentDelinquencyZones morosidad de prediales por celda de 5 km.
func (r *DashboardRepo) GetAssessmentDelinquencyZones(ctx context.Context) ([]repository.ZoneDelinquencyRow, error) {
	const query = `
	SELECT
	    mes_inicio, grid_x, grid_y,
	    center_latitude, center_longitude,
	    total_prediales, total_expedido, total_moroso, indice_morosidad
	FROM v_prediales_morosidad_zonas_cinco_km`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("dashboard.GetAssessmentDelinquencyZones", err)
	}
	defer rows.Close()

	var out []repository.ZoneDelinquencyRow
	for rows.Next() {
		var row repository.ZoneDelinquencyRow
		if err := rows.Scan(
			&row.MonthStart, &row.GridX, &row.GridY,
			&row.CenterLatitude, &row.CenterLongitude,
			&row.TotalAssessments, &row.TotalIssued, &row.TotalDelinquent, &row.DelinquencyIndex,
		); err != nil {
			return nil, fmt.Errorf("dashboard.GetAssessmentDelinquencyZones scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetSpeedingZones multas por exceso de velocidad por celda de 5 km.
func (r *DashboardRepo) GetSpeedingZones(ctx context.Context) ([]repository.SpeedingZoneRow, error) {
	const query = `
	SELECT grid_x, grid_y, center_latitude, center_longitude, total_exceso_velocidad
	FROM v_multas_exceso_velocidad_zonas_5km`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("dashboard.GetSpeedingZones", err)
	}
	defer rows.Close()

	var out []repository.SpeedingZoneRow
	for rows.Next() {
		var row repository.SpeedingZoneRow
		if err := rows.Scan(&row.GridX, &row.GridY, &row.CenterLatitude, &row.CenterLongitude, &row.TotalSpeeding); err != nil {
			return nil, fmt.Errorf("dashboard.GetSpeedingZones scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetOutstandingBalance saldo por pagar de 12 meses; cero si la vista no tiene filas.
func (r *DashboardRepo) GetOutstandingBalance(ctx context.Context, category entity.Category) (decimal.Decimal, error) {
	var query string
	switch category {
	case entity.CategoryFine:
		query = `SELECT COALESCE(SUM(saldo_por_pagar), 0) FROM v_saldo_multas_12m`
	case entity.CategoryAssessment:
		query = `SELECT COALESCE(SUM(saldo_por_pagar), 0) FROM v_saldo_prediales_12m`
	default:
		return decimal.Zero, fmt.Errorf("dashboard.GetOutstandingBalance: categoría desconocida %q", category)
	}

	var balance decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&balance); err != nil {
		return decimal.Zero, wrapErr("dashboard.GetOutstandingBalance", err)
	}
	return balance, nil
}
