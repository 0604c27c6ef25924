package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MonthlyRevenueRow fila de v_ingresos_ultimos_seis_meses.
type MonthlyRevenueRow struct {
	MonthStart  time.Time
	IssuedTotal decimal.Decimal
	PaidTotal   decimal.Decimal
}

// MonthlyDelinquencyRow fila de v_indice_morosidad_mes.
type MonthlyDelinquencyRow struct {
	MonthStart       time.Time
	TotalIssued      decimal.Decimal
	TotalDelinquent  decimal.Decimal
	DelinquencyIndex decimal.Decimal
}

// GlobalDelinquency fila única de v_indice_morosidad_global.
type GlobalDelinquency struct {
	AssessmentIndex decimal.Decimal
	FineIndex       decimal.Decimal
}

// ZoneDelinquencyRow celda de 5 km de v_prediales_morosidad_zonas_cinco_km.
type ZoneDelinquencyRow struct {
	MonthStart       time.Time
	GridX            int
	GridY            int
	CenterLatitude   float64
	CenterLongitude  float64
	TotalAssessments int
	TotalIssued      decimal.Decimal
	TotalDelinquent  decimal.Decimal
	DelinquencyIndex decimal.Decimal
}

// SpeedingZoneRow celda de 5 km de v_multas_exceso_velocidad_zonas_5km.
type SpeedingZoneRow struct {
	GridX           int
	GridY           int
	CenterLatitude  float64
	CenterLongitude float64
	TotalSpeeding   int
}

// DashboardRepository lecturas de vistas precalculadas fuera de este servicio.
// Las implementaciones son read-only y devuelven las filas tal cual.
type DashboardRepository interface {
	GetRevenueLastSixMonths(ctx context.Context) ([]MonthlyRevenueRow, error)
	GetMonthlyDelinquency(ctx context.Context) ([]MonthlyDelinquencyRow, error)
	GetGlobalDelinquency(ctx context.Context) (*GlobalDelinquency, error)
	GetAssessmentDelinquencyZones(ctx context.Context) ([]ZoneDelinquencyRow, error)
	GetSpeedingZones(ctx context.Context) ([]SpeedingZoneRow, error)
	// GetOutstandingBalance saldo por pagar de los últimos 12 meses para la categoría.
	GetOutstandingBalance(ctx context.Context, category entity.Category) (decimal.Decimal, error)
}
