// Package analytics contiene los casos de uso del tablero de recaudación:
// ingresos, morosidad y saldos por categoría.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

const monthLayout = "2006-01"

// DashboardUseCase expone las vistas de reporte tal como vienen del repositorio.
// Solo lectura: nunca toca el estado de las obligaciones.
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso. now nil usa time.Now.
func NewDashboardUseCase(repo repository.DashboardRepository, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{repo: repo, now: now}
}

// RevenueLastSixMonths ingreso expedido vs pagado por mes.
func (uc *DashboardUseCase) RevenueLastSixMonths(ctx context.Context) ([]dto.MonthlyRevenueDTO, error) {
	rows, err := uc.repo.GetRevenueLastSixMonths(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ingresos: %w", err)
	}
	out := make([]dto.MonthlyRevenueDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyRevenueDTO{
			MonthStart:  r.MonthStart.Format(monthLayout),
			IssuedTotal: r.IssuedTotal,
			PaidTotal:   r.PaidTotal,
		})
	}
	return out, nil
}

// MonthlyDelinquency índice de morosidad por mes.
func (uc *DashboardUseCase) MonthlyDelinquency(ctx context.Context) ([]dto.MonthlyDelinquencyDTO, error) {
	rows, err := uc.repo.GetMonthlyDelinquency(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: morosidad mensual: %w", err)
	}
	out := make([]dto.MonthlyDelinquencyDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyDelinquencyDTO{
			MonthStart:       r.MonthStart.Format(monthLayout),
			TotalIssued:      r.TotalIssued,
			TotalDelinquent:  r.TotalDelinquent,
			DelinquencyIndex: r.DelinquencyIndex,
		})
	}
	return out, nil
}

// GlobalDelinquency índice global de morosidad por categoría.
func (uc *DashboardUseCase) GlobalDelinquency(ctx context.Context) (*dto.GlobalDelinquencyDTO, error) {
	g, err := uc.repo.GetGlobalDelinquency(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: morosidad global: %w", err)
	}
	return &dto.GlobalDelinquencyDTO{AssessmentIndex: g.AssessmentIndex, FineIndex: g.FineIndex}, nil
}

// AssessmentDelinquencyZones morosidad de prediales por celda de 5 km.
func (uc *DashboardUseCase) AssessmentDelinquencyZones(ctx context.Context) ([]dto.ZoneDelinquencyDTO, error) {
	rows, err := uc.repo.GetAssessmentDelinquencyZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: zonas de morosidad: %w", err)
	}
	out := make([]dto.ZoneDelinquencyDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ZoneDelinquencyDTO{
			MonthStart:       r.MonthStart.Format(monthLayout),
			GridX:            r.GridX,
			GridY:            r.GridY,
			CenterLatitude:   r.CenterLatitude,
			CenterLongitude:  r.CenterLongitude,
			TotalAssessments: r.TotalAssessments,
			TotalIssued:      r.TotalIssued,
			TotalDelinquent:  r.TotalDelinquent,
			DelinquencyIndex: r.DelinquencyIndex,
		})
	}
	return out, nil
}

// SpeedingZones multas por exceso de velocidad por celda de 5 km.
func (uc *DashboardUseCase) SpeedingZones(ctx context.Context) ([]dto.SpeedingZoneDTO, error) {
	rows, err := uc.repo.GetSpeedingZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: zonas de exceso de velocidad: %w", err)
	}
	out := make([]dto.SpeedingZoneDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SpeedingZoneDTO(r))
	}
	return out, nil
}

// OutstandingBalance saldo por pagar (12 meses) de la categoría.
func (uc *DashboardUseCase) OutstandingBalance(ctx context.Context, category entity.Category) (*dto.OutstandingBalanceDTO, error) {
	balance, err := uc.repo.GetOutstandingBalance(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("dashboard: saldo %s: %w", category, err)
	}
	return &dto.OutstandingBalanceDTO{Category: string(category), Balance: balance}, nil
}

// Summary índice global y saldos de ambas categorías, consultados en paralelo.
// El primer error cancela las demás consultas.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var out dto.DashboardSummaryDTO
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		global, err := uc.GlobalDelinquency(gctx)
		if err != nil {
			return err
		}
		out.Global = *global
		return nil
	})
	g.Go(func() error {
		b, err := uc.repo.GetOutstandingBalance(gctx, entity.CategoryFine)
		if err != nil {
			return fmt.Errorf("dashboard: saldo multas: %w", err)
		}
		out.FineBalance = b
		return nil
	})
	g.Go(func() error {
		b, err := uc.repo.GetOutstandingBalance(gctx, entity.CategoryAssessment)
		if err != nil {
			return fmt.Errorf("dashboard: saldo prediales: %w", err)
		}
		out.AssessmentBalance = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.DateLabel = monthLabel(uc.now())
	return &out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
