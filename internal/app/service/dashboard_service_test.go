package service

import (
	"context"
	"testing"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()

	for _, c := range []model.Consultation{
		{ShopID: f.shopA.ID, Name: "a", ConsultationDate: "2024-05-01", ActivationStatus: model.ActivationDone},
		{ShopID: f.shopA.ID, Name: "b", ConsultationDate: "2024-05-02", ActivationStatus: model.ActivationNotYet},
		{ShopID: f.shopB.ID, Name: "c", ConsultationDate: "2024-05-02", ActivationStatus: model.ActivationDone},
	} {
		consultation := c
		require.NoError(t, f.consultations.Create(ctx, &consultation))
	}
	for _, e := range []model.ReportEntry{
		{ShopID: f.shopA.ID, Name: "a", SaleDate: "2024-05-01", Margin: 100, Amount: 1000},
		{ShopID: f.shopB.ID, Name: "b", SaleDate: "2024-05-01", Margin: 300},
	} {
		entry := e
		require.NoError(t, f.reports.Create(ctx, &entry))
	}

	svc := NewDashboardService(f.consultations, f.reports, f.authorizer)

	stats, err := svc.Stats(ctx, ownerOf(f.shopA), "", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, f.shopA.ID, stats.ShopID)
	assert.Equal(t, int64(2), stats.Consultations.Total)
	assert.Equal(t, int64(1), stats.Consultations.Done)
	assert.Equal(t, int64(1), stats.Reports.Count)
	assert.Equal(t, 100.0, stats.Reports.TotalMargin)

	// 본사는 매장 미지정 시 전체 합계
	all, err := svc.Stats(ctx, superAdmin(), "", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Consultations.Total)
	assert.Equal(t, 400.0, all.Reports.TotalMargin)

	_, err = svc.Stats(ctx, regionManagerOf(f.group), "", "2024-05")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Stats(ctx, ownerOf(f.shopA), f.shopB.ID, "2024-05")
	assert.ErrorIs(t, err, ErrForbidden)
}
