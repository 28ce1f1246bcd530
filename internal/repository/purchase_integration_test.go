//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	"github.com/soulbliss/soulbliss-api/internal/service"
	"github.com/soulbliss/soulbliss-api/internal/testutil/pgtest"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

func TestPurchaseTransitionAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := pgtest.Start(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(pg.Close)

	selections := repository.NewSelectionRepository(pg.DB)
	enrollments := repository.NewEnrollmentRepository(pg.DB)
	purchases := service.NewPurchaseService(repository.NewPurchaseRepository(pg.DB), nil, nil, nil, nil)

	selection := &models.Selection{
		ClassID:    "C1",
		Name:       "Morning Flow",
		Price:      decimal.RequireFromString("49.99"),
		BuyerEmail: "a@x.com",
	}
	require.NoError(t, selections.Create(ctx, selection))
	require.ErrorIs(t, selections.Create(ctx, &models.Selection{ClassID: "C1", BuyerEmail: "a@x.com"}), repository.ErrDuplicate)

	req := dto.PurchaseRequest{
		BuyerEmail:    "a@x.com",
		SelectedID:    selection.ID,
		ClassID:       "C1",
		ClassName:     "Morning Flow",
		Amount:        decimal.RequireFromString("49.99"),
		TransactionID: "tx_1",
	}

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		repeated  int
		missing   int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := purchases.CompletePurchase(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && result.Outcome == models.PurchaseCompleted:
				completed++
			case err == nil && result.Outcome == models.PurchaseAlreadyPurchased:
				repeated++
			case err != nil && assert.ErrorIs(t, err, appErrors.ErrSelectionMissing):
				missing++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, completed)
	assert.Equal(t, callers-1, repeated+missing)

	var selectedRows, enrolledRows int
	require.NoError(t, pg.DB.GetContext(ctx, &selectedRows, `SELECT COUNT(*) FROM selected`))
	require.NoError(t, pg.DB.GetContext(ctx, &enrolledRows, `SELECT COUNT(*) FROM enrolled`))
	assert.Zero(t, selectedRows)
	assert.Equal(t, 1, enrolledRows)

	again, err := purchases.CompletePurchase(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseAlreadyPurchased, again.Outcome)

	history, err := enrollments.ListByBuyer(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(decimal.RequireFromString("49.99")))
}

func TestPurchaseWithoutSelectionAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := pgtest.Start(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(pg.Close)

	purchases := service.NewPurchaseService(repository.NewPurchaseRepository(pg.DB), nil, nil, nil, nil)
	_, err = purchases.CompletePurchase(ctx, dto.PurchaseRequest{
		BuyerEmail:    "a@x.com",
		SelectedID:    "missing",
		Amount:        decimal.RequireFromString("10"),
		TransactionID: "tx_2",
	})
	require.ErrorIs(t, err, appErrors.ErrSelectionMissing)

	var enrolledRows int
	require.NoError(t, pg.DB.GetContext(ctx, &enrolledRows, `SELECT COUNT(*) FROM enrolled`))
	assert.Zero(t, enrolledRows)
}
