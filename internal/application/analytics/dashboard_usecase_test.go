package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	global     *repository.GlobalDelinquency
	balances   map[entity.Category]decimal.Decimal
	balanceErr error
	revenue    []repository.MonthlyRevenueRow
	speeding   []repository.SpeedingZoneRow
}

func (f *fakeDashboardRepo) GetRevenueLastSixMonths(context.Context) ([]repository.MonthlyRevenueRow, error) {
	return f.revenue, nil
}

func (f *fakeDashboardRepo) GetMonthlyDelinquency(context.Context) ([]repository.MonthlyDelinquencyRow, error) {
	return nil, nil
}

func (f *fakeDashboardRepo) GetGlobalDelinquency(context.Context) (*repository.GlobalDelinquency, error) {
	return f.global, nil
}

func (f *fakeDashboardRepo) GetAssessmentDelinquencyZones(context.Context) ([]repository.ZoneDelinquencyRow, error) {
	return nil, nil
}

func (f *fakeDashboardRepo) GetSpeedingZones(context.Context) ([]repository.SpeedingZoneRow, error) {
	return f.speeding, nil
}

func (f *fakeDashboardRepo) GetOutstandingBalance(_ context.Context, c entity.Category) (decimal.Decimal, error) {
	if f.balanceErr != nil {
		return decimal.Zero, f.balanceErr
	}
	return f.balances[c], nil
}

func fixedNow() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

func TestSummary_CombinesParallelReads(t *testing.T) {
	repo := &fakeDashboardRepo{
		global: &repository.GlobalDelinquency{
			AssessmentIndex: decimal.RequireFromString("0.25"),
			FineIndex:       decimal.RequireFromString("0.4"),
		},
		balances: map[entity.Category]decimal.Decimal{
			entity.CategoryFine:       decimal.RequireFromString("1500"),
			entity.CategoryAssessment: decimal.RequireFromString("98000.50"),
		},
	}
	uc := NewDashboardUseCase(repo, fixedNow)

	got, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, got.FineBalance.Equal(decimal.RequireFromString("1500")))
	assert.True(t, got.AssessmentBalance.Equal(decimal.RequireFromString("98000.5")))
	assert.True(t, got.Global.FineIndex.Equal(decimal.RequireFromString("0.4")))
	assert.Equal(t, "Febrero 2026", got.DateLabel)
}

func TestSummary_PropagatesError(t *testing.T) {
	boom := errors.New("view missing")
	repo := &fakeDashboardRepo{
		global:     &repository.GlobalDelinquency{},
		balanceErr: boom,
	}
	_, err := NewDashboardUseCase(repo, fixedNow).Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRevenueAndZones_RowsVerbatim(t *testing.T) {
	repo := &fakeDashboardRepo{
		revenue: []repository.MonthlyRevenueRow{
			{MonthStart: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), IssuedTotal: decimal.NewFromInt(10), PaidTotal: decimal.NewFromInt(7)},
		},
		speeding: []repository.SpeedingZoneRow{
			{GridX: 3, GridY: -2, CenterLatitude: 25.65, CenterLongitude: -100.4, TotalSpeeding: 12},
		},
	}
	uc := NewDashboardUseCase(repo, fixedNow)

	rev, err := uc.RevenueLastSixMonths(context.Background())
	require.NoError(t, err)
	require.Len(t, rev, 1)
	assert.Equal(t, "2025-09", rev[0].MonthStart)
	assert.True(t, rev[0].PaidTotal.Equal(decimal.NewFromInt(7)))

	zones, err := uc.SpeedingZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, 12, zones[0].TotalSpeeding)
	assert.Equal(t, -2, zones[0].GridY)

	empty, err := uc.MonthlyDelinquency(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
