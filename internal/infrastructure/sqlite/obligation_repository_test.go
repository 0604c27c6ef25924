package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func insert(t *testing.T, repo *sqlite.ObligationRepo, cat entity.Category, account, amount string, issued, due time.Time) *entity.Obligation {
	t.Helper()
	o := &entity.Obligation{
		Account:  account,
		Category: cat,
		Concept:  "Concepto " + account,
		Amount:   decimal.RequireFromString(amount),
		IssuedAt: issued,
		DueAt:    due,
	}
	require.NoError(t, repo.Insert(context.Background(), o))
	require.NotZero(t, o.ID)
	return o
}

func TestObligationRepo_InsertAndGetByID(t *testing.T) {
	repo := sqlite.NewObligationRepository(openTestDB(t))
	ctx := context.Background()

	issued := time.Date(2024, 3, 10, 14, 30, 15, 123456789, time.UTC)
	o := insert(t, repo, entity.CategoryFine, "ABC-123", "1250.50", issued, date(2024, 4, 10))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", got.Account)
	assert.Equal(t, entity.CategoryFine, got.Category)
	assert.Equal(t, entity.StatusPending, got.Status)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1250.50")))
	assert.True(t, got.IssuedAt.Equal(issued.Truncate(time.Microsecond)))
	assert.True(t, got.DueAt.Equal(date(2024, 4, 10)))
	assert.Nil(t, got.SettledAt)
	assert.Nil(t, got.SettledOnTime)

	_, err = repo.GetByID(ctx, o.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestObligationRepo_InsertRejectsInvalid(t *testing.T) {
	repo := sqlite.NewObligationRepository(openTestDB(t))
	err := repo.Insert(context.Background(), &entity.Obligation{
		Account:  "X",
		Category: entity.CategoryFine,
		Amount:   decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestObligationRepo_ListByAccount_OrderAndScope(t *testing.T) {
	repo := sqlite.NewObligationRepository(openTestDB(t))
	ctx := context.Background()

	older := insert(t, repo, entity.CategoryFine, "P1", "100", date(2024, 1, 1), date(2024, 2, 1))
	newer := insert(t, repo, entity.CategoryFine, "P1", "200", date(2024, 5, 1), date(2024, 6, 1))
	insert(t, repo, entity.CategoryFine, "P2", "300", date(2024, 5, 1), date(2024, 6, 1))
	// misma clave en otra categoría: no se mezcla
	insert(t, repo, entity.CategoryAssessment, "P1", "400", date(2024, 7, 1), date(2024, 8, 1))

	list, err := repo.ListByAccount(ctx, entity.AccountRef{Category: entity.CategoryFine, Key: "P1"}, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	list, err = repo.ListByAccount(ctx, entity.AccountRef{Category: entity.CategoryFine, Key: "NADA"}, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestObligationRepo_SumOutstanding_IsExact(t *testing.T) {
	repo := sqlite.NewObligationRepository(openTestDB(t))
	ctx := context.Background()
	acc := entity.AccountRef{Category: entity.CategoryAssessment, Key: "CAT-01"}

	total, err := repo.SumOutstanding(ctx, acc)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	insert(t, repo, acc.Category, acc.Key, "0.10", date(2024, 1, 1), date(2024, 2, 1))
	insert(t, repo, acc.Category, acc.Key, "0.20", date(2024, 1, 2), date(2024, 2, 2))
	paid := insert(t, repo, acc.Category, acc.Key, "5.00", date(2024, 1, 3), date(2024, 2, 3))

	ok, err := repo.TrySettle(ctx, paid.ID, time.Now(), true)
	require.NoError(t, err)
	require.True(t, ok)

	total, err = repo.SumOutstanding(ctx, acc)
	require.NoError(t, err)
	assert.Equal(t, "0.30", total.StringFixed(2))
	assert.True(t, total.Equal(decimal.RequireFromString("0.3")))

	ids, snapTotal, err := repo.PendingSnapshot(ctx, acc)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.True(t, snapTotal.Equal(total))
}

func TestObligationRepo_TrySettle_OnlyOnce(t *testing.T) {
	repo := sqlite.NewObligationRepository(openTestDB(t))
	ctx := context.Background()
	o := insert(t, repo, entity.CategoryFine, "ABC-123", "500", date(2024, 3, 1), date(2024, 3, 31))

	at := time.Date(2024, 3, 20, 18, 0, 0, 0, time.UTC)
	ok, err := repo.TrySettle(ctx, o.ID, at, true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TrySettle(ctx, o.ID, at.Add(time.Hour), false)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSettled, got.Status)
	require.NotNil(t, got.SettledAt)
	assert.True(t, got.SettledAt.Equal(at))
	require.NotNil(t, got.SettledOnTime)
	assert.True(t, *got.SettledOnTime)

	ok, err = repo.TrySettle(ctx, 9999, at, true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObligationRepo_SettledRowsAreImmutable(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewObligationRepository(db)
	ctx := context.Background()
	o := insert(t, repo, entity.CategoryFine, "ABC-123", "500", date(2024, 3, 1), date(2024, 3, 31))

	ok, err := repo.TrySettle(ctx, o.ID, time.Now(), true)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = db.ExecContext(ctx, `UPDATE obligations SET status = 'PENDING', settled_at = NULL, settled_on_time = NULL WHERE id = ?`, o.ID)
	assert.Error(t, err)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSettled, got.Status)
}

func TestObligationRepo_TrySettleBatch(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewObligationRepository(db)
	runner := sqlite.NewTxRunner(db)
	ctx := context.Background()

	a := insert(t, repo, entity.CategoryAssessment, "CAT-02", "1000", date(2024, 1, 1), date(2024, 1, 31))
	b := insert(t, repo, entity.CategoryAssessment, "CAT-02", "2500.25", date(2024, 2, 1), date(2024, 6, 30))
	c := insert(t, repo, entity.CategoryAssessment, "CAT-02", "300", date(2024, 3, 1), date(2024, 6, 30))

	// c se paga por otro camino antes del lote
	ok, err := repo.TrySettle(ctx, c.ID, time.Now(), true)
	require.NoError(t, err)
	require.True(t, ok)

	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cutoff := date(2024, 3, 15)
	onTime := func(due time.Time) bool { return !due.Before(cutoff) }

	var result entity.BatchResult
	err = runner.RunSettlement(ctx, func(r repository.ObligationRepository) error {
		var err error
		result, err = r.TrySettleBatch(ctx, []int64{c.ID, b.ID, a.ID}, at, onTime)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, result.SettledIDs)
	assert.Equal(t, "3500.25", result.Total.StringFixed(2))

	gotA, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, gotA.SettledOnTime)
	assert.False(t, *gotA.SettledOnTime)

	gotB, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, gotB.SettledOnTime)
	assert.True(t, *gotB.SettledOnTime)

	// segunda corrida: nada pendiente
	err = runner.RunSettlement(ctx, func(r repository.ObligationRepository) error {
		var err error
		result, err = r.TrySettleBatch(ctx, []int64{a.ID, b.ID}, at, onTime)
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, result.SettledIDs)
	assert.True(t, result.Total.IsZero())
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	repo := sqlite.NewObligationRepository(db)
	runner := sqlite.NewTxRunner(db)
	ctx := context.Background()
	o := insert(t, repo, entity.CategoryFine, "ABC-123", "500", date(2024, 3, 1), date(2024, 3, 31))

	boom := errors.New("boom")
	err := runner.RunSettlement(ctx, func(r repository.ObligationRepository) error {
		ok, err := r.TrySettle(ctx, o.ID, time.Now(), true)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
}
