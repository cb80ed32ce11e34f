package repository

import (
	"context"
	"testing"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalaryRepository_AppendOnly(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewSalaryRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	batch := []model.SalarySnapshot{
		{ShopID: shop.ID, SalesPerson: "A", PeriodStart: "2024-05-01", PeriodEnd: "2024-05-31", SaleCount: 3, CalculatedSalary: 90100},
		{ShopID: shop.ID, SalesPerson: "B", PeriodStart: "2024-05-01", PeriodEnd: "2024-05-31", SaleCount: 1, CalculatedSalary: 30000},
	}
	require.NoError(t, repo.CreateSnapshots(ctx, batch))
	// 같은 기간을 다시 저장해도 기존 스냅샷은 유지된다
	require.NoError(t, repo.CreateSnapshots(ctx, []model.SalarySnapshot{
		{ShopID: shop.ID, SalesPerson: "A", PeriodStart: "2024-05-01", PeriodEnd: "2024-05-31", SaleCount: 4, CalculatedSalary: 120000},
	}))
	require.NoError(t, repo.CreateSnapshots(ctx, nil))

	snapshots, err := repo.ListByShop(ctx, shop.ID, 0)
	require.NoError(t, err)
	assert.Len(t, snapshots, 3)

	limited, err := repo.ListByShop(ctx, shop.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
