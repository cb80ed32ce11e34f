package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReportRepository_Import(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewReportRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	entries := make([]model.ReportEntry, ReportBatchSize+20)
	for i := range entries {
		entries[i] = model.ReportEntry{
			ShopID:   shop.ID,
			Name:     fmt.Sprintf("고객%d", i),
			SaleDate: "2024-05-01",
			Margin:   1000,
		}
	}
	upload := &model.ReportUpload{ShopID: shop.ID, FileHash: "hash-1", FileName: "may.xlsx", Source: model.UploadSourceFile}

	require.NoError(t, repo.Import(ctx, upload, entries))
	assert.Equal(t, len(entries), upload.RowCount)

	_, total, err := repo.List(ctx, ReportFilter{ShopID: shop.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(len(entries)), total)

	found, err := repo.FindUploadByHash(ctx, shop.ID, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, upload.ID, found.ID)

	// 같은 매장 같은 해시는 거부되고 행도 추가되지 않는다
	dup := &model.ReportUpload{ShopID: shop.ID, FileHash: "hash-1", Source: model.UploadSourceFile}
	err = repo.Import(ctx, dup, []model.ReportEntry{{ShopID: shop.ID, Name: "중복"}})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, total, err = repo.List(ctx, ReportFilter{ShopID: shop.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(len(entries)), total)

	// 다른 매장은 같은 해시 허용
	other := createTestShop(t, testDB, "역삼점", nil)
	require.NoError(t, repo.Import(ctx, &model.ReportUpload{ShopID: other.ID, FileHash: "hash-1"}, nil))
}

func TestReportRepository_ListAndStats(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewReportRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	for _, e := range []model.ReportEntry{
		{ShopID: shop.ID, Name: "a", SaleDate: "2024-05-01", Amount: 100, Margin: 10, SupportAmount: 1, SalesPerson: "김"},
		{ShopID: shop.ID, Name: "b", SaleDate: "2024-05-31 18:00", Amount: 200, Margin: 20, SupportAmount: 2, SalesPerson: "이"},
		{ShopID: shop.ID, Name: "c", SaleDate: "2024-06-01", Amount: 400, Margin: 40, SupportAmount: 4, SalesPerson: "김"},
	} {
		e := e
		require.NoError(t, repo.Create(ctx, &e))
	}

	items, total, err := repo.List(ctx, ReportFilter{ShopID: shop.ID, From: "2024-05-01", To: "2024-05-31"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, _, err = repo.List(ctx, ReportFilter{ShopID: shop.ID, SalesPerson: "김"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	stats, err := repo.Stats(ctx, shop.ID, "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	assert.Equal(t, &ReportStats{Count: 2, TotalAmount: 300, TotalMargin: 30, TotalSupport: 3}, stats)

	empty, err := repo.Stats(ctx, "no-shop", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Count)
}

func TestReportRepository_FindOrphans(t *testing.T) {
	testDB := setupRepoTest(t)
	reports := NewReportRepository(testDB)
	consultations := NewConsultationRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	linked := &model.Consultation{ShopID: shop.ID, Name: "연결됨", ActivationStatus: model.ActivationDone}
	unlinked := &model.Consultation{ShopID: shop.ID, Name: "고아", ActivationStatus: model.ActivationDone}
	require.NoError(t, consultations.Create(ctx, linked))
	require.NoError(t, consultations.Create(ctx, unlinked))

	good := &model.ReportEntry{ShopID: shop.ID, Name: "연결됨", SourceConsultationID: &linked.ID}
	orphan := &model.ReportEntry{ShopID: shop.ID, Name: "고아", SourceConsultationID: &unlinked.ID}
	manual := &model.ReportEntry{ShopID: shop.ID, Name: "수기"}
	require.NoError(t, reports.Create(ctx, good))
	require.NoError(t, reports.Create(ctx, orphan))
	require.NoError(t, reports.Create(ctx, manual))

	ok, err := consultations.MarkMoved(ctx, linked.ID, good.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// 유예 시간 이내의 행은 진행 중인 이동일 수 있으므로 제외
	found, err := reports.FindOrphans(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = reports.FindOrphans(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, orphan.ID, found[0].ID)
}

func TestReportRepository_UpdateDelete(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewReportRepository(testDB)
	ctx := context.Background()
	shop := createTestShop(t, testDB, "강남점", nil)

	entry := &model.ReportEntry{ShopID: shop.ID, Name: "a", Margin: 10}
	require.NoError(t, repo.Create(ctx, entry))

	entry.Margin = 0
	entry.Memo = "수정"
	require.NoError(t, repo.Update(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, found.Margin)
	assert.Equal(t, "수정", found.Memo)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	_, err = repo.FindByID(ctx, entry.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
