package dto

import "github.com/shopspring/decimal"

// MonthlyRevenueDTO ingreso expedido vs pagado por mes (últimos seis meses).
type MonthlyRevenueDTO struct {
	MonthStart  string          `json:"mes_inicio"`
	IssuedTotal decimal.Decimal `json:"expedido_total"`
	PaidTotal   decimal.Decimal `json:"pagado_total"`
}

// MonthlyDelinquencyDTO índice de morosidad por mes.
type MonthlyDelinquencyDTO struct {
	MonthStart       string          `json:"mes_inicio"`
	TotalIssued      decimal.Decimal `json:"total_expedido"`
	TotalDelinquent  decimal.Decimal `json:"total_moroso"`
	DelinquencyIndex decimal.Decimal `json:"indice_morosidad"`
}

// GlobalDelinquencyDTO índice global por categoría.
type GlobalDelinquencyDTO struct {
	AssessmentIndex decimal.Decimal `json:"indice_morosidad_prediales"`
	FineIndex       decimal.Decimal `json:"indice_morosidad_multas"`
}

// ZoneDelinquencyDTO morosidad de prediales en una celda de 5 km.
type ZoneDelinquencyDTO struct {
	MonthStart       string          `json:"mes_inicio"`
	GridX            int             `json:"grid_x"`
	GridY            int             `json:"grid_y"`
	CenterLatitude   float64         `json:"center_latitude"`
	CenterLongitude  float64         `json:"center_longitude"`
	TotalAssessments int             `json:"total_prediales"`
	TotalIssued      decimal.Decimal `json:"total_expedido"`
	TotalDelinquent  decimal.Decimal `json:"total_moroso"`
	DelinquencyIndex decimal.Decimal `json:"indice_morosidad"`
}

// SpeedingZoneDTO multas por exceso de velocidad en una celda de 5 km.
type SpeedingZoneDTO struct {
	GridX           int     `json:"grid_x"`
	GridY           int     `json:"grid_y"`
	CenterLatitude  float64 `json:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude"`
	TotalSpeeding   int     `json:"total_exceso_velocidad"`
}

// OutstandingBalanceDTO saldo por pagar (12 meses) de una categoría.
type OutstandingBalanceDTO struct {
	Category string          `json:"category"`
	Balance  decimal.Decimal `json:"saldo_por_pagar"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Global            GlobalDelinquencyDTO `json:"indice_global"`
	FineBalance       decimal.Decimal      `json:"saldo_multas"`
	AssessmentBalance decimal.Decimal      `json:"saldo_prediales"`
	DateLabel         string               `json:"date_label"` // ej: "Febrero 2026"
}
