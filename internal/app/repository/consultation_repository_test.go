package repository

import (
	"context"
	"testing"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConsultationRepository_MarkMoved(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewConsultationRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	c := &model.Consultation{ShopID: shop.ID, Name: "홍길동", ActivationStatus: model.ActivationDone}
	require.NoError(t, repo.Create(ctx, c))

	ok, err := repo.MarkMoved(ctx, c.ID, "report-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// 두 번째 이동은 조건부 업데이트에서 막힌다
	ok, err = repo.MarkMoved(ctx, c.ID, "report-2")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ReportID)
	assert.Equal(t, "report-1", *found.ReportID)
	assert.True(t, found.Moved())

	ok, err = repo.MarkMoved(ctx, "missing", "report-3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConsultationRepository_UpdateKeepsReportID(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewConsultationRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	c := &model.Consultation{ShopID: shop.ID, Name: "홍길동", ActivationStatus: model.ActivationDone}
	require.NoError(t, repo.Create(ctx, c))
	stale := *c

	_, err := repo.MarkMoved(ctx, c.ID, "report-1")
	require.NoError(t, err)

	stale.ActivationStatus = model.ActivationNotYet
	stale.Memo = "변경"
	require.NoError(t, repo.Update(ctx, &stale))

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ActivationNotYet, found.ActivationStatus)
	assert.Equal(t, "변경", found.Memo)
	require.NotNil(t, found.ReportID)
	assert.Equal(t, "report-1", *found.ReportID)
}

func TestConsultationRepository_ListAndStats(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewConsultationRepository(testDB)
	ctx := context.Background()
	shopA := createTestShop(t, testDB, "A", nil)
	shopB := createTestShop(t, testDB, "B", nil)

	seed := []model.Consultation{
		{ShopID: shopA.ID, Name: "김철수", Phone: "010-1111-0000", ConsultationDate: "2024-05-01", ActivationStatus: model.ActivationDone},
		{ShopID: shopA.ID, Name: "이영희", Phone: "010-2222-0000", ConsultationDate: "2024-05-15", ActivationStatus: model.ActivationPending},
		{ShopID: shopA.ID, Name: "박민수", Phone: "010-3333-0000", ConsultationDate: "2024-06-01", ActivationStatus: model.ActivationNotYet},
		{ShopID: shopB.ID, Name: "최지우", Phone: "010-4444-0000", ConsultationDate: "2024-05-10", ActivationStatus: model.ActivationDone},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}
	_, err := repo.MarkMoved(ctx, seed[0].ID, "r1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   ConsultationFilter
		expected int64
	}{
		{"shop only", ConsultationFilter{ShopID: shopA.ID}, 3},
		{"all shops", ConsultationFilter{}, 4},
		{"date range", ConsultationFilter{ShopID: shopA.ID, From: "2024-05-01", To: "2024-05-31"}, 2},
		{"status", ConsultationFilter{ShopID: shopA.ID, Status: model.ActivationDone}, 1},
		{"name query", ConsultationFilter{ShopID: shopA.ID, Query: "영희"}, 1},
		{"phone query", ConsultationFilter{ShopID: shopA.ID, Query: "3333"}, 1},
		{"query does not cross shops", ConsultationFilter{ShopID: shopA.ID, Query: "최지우"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, total)
			assert.Len(t, items, int(tt.expected))
		})
	}

	stats, err := repo.Stats(ctx, shopA.ID, "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, &ConsultationStats{Total: 2, Done: 1, Pending: 1, Moved: 1}, stats)
}

func TestConsultationRepository_Delete(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewConsultationRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	c := &model.Consultation{ShopID: shop.ID, Name: "홍길동"}
	require.NoError(t, repo.Create(ctx, c))
	assert.Equal(t, model.ActivationNotYet, c.ActivationStatus)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), gorm.ErrRecordNotFound)
}
