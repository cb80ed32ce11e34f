package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLocker struct {
	acquired bool
	err      error
	keys     []string
	released int
}

func (l *stubLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, false, l.err
	}
	if !l.acquired {
		return nil, false, nil
	}
	return func() { l.released++ }, true, nil
}

// claimFailingRepository makes the consultation claim step fail.
type claimFailingRepository struct {
	repository.ConsultationRepository
	claimed bool
	err     error
}

func (r *claimFailingRepository) MarkMoved(context.Context, string, string) (bool, error) {
	return r.claimed, r.err
}

func setupConsultationServiceTest(t *testing.T) (*fixture, ConsultationService) {
	f := setupServiceTest(t)
	return f, NewConsultationService(f.consultations, f.reports, f.authorizer, redis.NewNoopLocker())
}

func createConsultation(t *testing.T, svc ConsultationService, f *fixture, status model.ActivationStatus) *model.Consultation {
	t.Helper()
	c, err := svc.Create(context.Background(), ownerOf(f.shopA), ConsultationInput{
		Name:             "홍길동",
		Phone:            "010-1234-5678",
		ProductName:      "Galaxy S24",
		ConsultationDate: "2024-05-03",
		SalesPerson:      "김철수",
		ActivationStatus: status,
		InflowType:       "워크인",
	})
	require.NoError(t, err)
	return c
}

func TestConsultationService_Create(t *testing.T) {
	f, svc := setupConsultationServiceTest(t)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		c, err := svc.Create(ctx, ownerOf(f.shopA), ConsultationInput{Name: "  홍길동 "})
		require.NoError(t, err)
		assert.Equal(t, "홍길동", c.Name)
		assert.Equal(t, f.shopA.ID, c.ShopID)
		assert.Equal(t, model.ActivationNotYet, c.ActivationStatus)
		assert.Equal(t, time.Now().Format("2006-01-02"), c.ConsultationDate)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := svc.Create(ctx, ownerOf(f.shopA), ConsultationInput{Name: "   "})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Create(ctx, ownerOf(f.shopA), ConsultationInput{Name: "a", ActivationStatus: "Y"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "activation_status", verr.Field)
	})

	t.Run("other shop forbidden", func(t *testing.T) {
		_, err := svc.Create(ctx, ownerOf(f.shopA), ConsultationInput{ShopID: f.shopB.ID, Name: "a"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("super admin must name shop", func(t *testing.T) {
		_, err := svc.Create(ctx, superAdmin(), ConsultationInput{Name: "a"})
		assert.ErrorIs(t, err, ErrShopRequired)
	})

	t.Run("region manager in group", func(t *testing.T) {
		c, err := svc.Create(ctx, regionManagerOf(f.group), ConsultationInput{ShopID: f.shopA.ID, Name: "a"})
		require.NoError(t, err)
		assert.Equal(t, f.shopA.ID, c.ShopID)

		_, err = svc.Create(ctx, regionManagerOf(f.group), ConsultationInput{ShopID: f.shopB.ID, Name: "a"})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestConsultationService_ScopeLeak(t *testing.T) {
	f, svc := setupConsultationServiceTest(t)
	ctx := context.Background()

	c := createConsultation(t, svc, f, model.ActivationDone)
	outsider := ownerOf(f.shopB)

	_, err := svc.Get(ctx, outsider, c.ID)
	assert.ErrorIs(t, err, ErrConsultationNotFound)

	_, err = svc.Update(ctx, outsider, c.ID, ConsultationPatch{Name: strPtr("탈취")})
	assert.ErrorIs(t, err, ErrConsultationNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, outsider, c.ID), ErrConsultationNotFound)

	_, err = svc.MoveToReport(ctx, outsider, c.ID)
	assert.ErrorIs(t, err, ErrConsultationNotFound)

	_, _, err = svc.List(ctx, outsider, ConsultationQuery{ShopID: f.shopA.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	list, total, err := svc.List(ctx, outsider, ConsultationQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	stored, err := svc.Get(ctx, ownerOf(f.shopA), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", stored.Name)
}

func TestConsultationService_ListAndStats(t *testing.T) {
	f, svc := setupConsultationServiceTest(t)
	ctx := context.Background()

	createConsultation(t, svc, f, model.ActivationDone)
	createConsultation(t, svc, f, model.ActivationPending)
	createConsultation(t, svc, f, model.ActivationNotYet)

	list, total, err := svc.List(ctx, staffOf(f.shopA), ConsultationQuery{Status: model.ActivationDone})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)

	_, _, err = svc.List(ctx, staffOf(f.shopA), ConsultationQuery{Status: "?"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	stats, err := svc.Stats(ctx, staffOf(f.shopA), "", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Done)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.NotYet)

	_, err = svc.Stats(ctx, staffOf(f.shopA), "", "2024/05")
	assert.ErrorAs(t, err, &verr)
}

func TestConsultationService_MoveToReport(t *testing.T) {
	f, svc := setupConsultationServiceTest(t)
	ctx := context.Background()
	owner := ownerOf(f.shopA)

	c := createConsultation(t, svc, f, model.ActivationDone)

	report, err := svc.MoveToReport(ctx, owner, c.ID)
	require.NoError(t, err)
	assert.Equal(t, f.shopA.ID, report.ShopID)
	assert.Equal(t, "홍길동", report.Name)
	assert.Equal(t, "010-1234-5678", report.Phone)
	assert.Equal(t, "2024-05-03", report.SaleDate)
	assert.Equal(t, "Galaxy S24", report.ProductName)
	assert.Equal(t, "김철수", report.SalesPerson)
	assert.Zero(t, report.Amount)
	assert.Zero(t, report.Margin)
	require.NotNil(t, report.SourceConsultationID)
	assert.Equal(t, c.ID, *report.SourceConsultationID)

	moved, err := svc.Get(ctx, owner, c.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ReportID)
	assert.Equal(t, report.ID, *moved.ReportID)

	// 상태를 바꿔도 두 번째 이동은 거부된다
	for _, status := range []model.ActivationStatus{model.ActivationNotYet, model.ActivationDone} {
		s := status
		_, err = svc.Update(ctx, owner, c.ID, ConsultationPatch{ActivationStatus: &s})
		require.NoError(t, err)

		_, err = svc.MoveToReport(ctx, owner, c.ID)
		assert.ErrorIs(t, err, ErrAlreadyMoved)
	}
	assert.Equal(t, int64(1), f.countReports(t, f.shopA.ID))
}

func TestConsultationService_MoveToReportRequiresDone(t *testing.T) {
	f, svc := setupConsultationServiceTest(t)
	ctx := context.Background()

	for _, status := range []model.ActivationStatus{model.ActivationPending, model.ActivationNotYet} {
		c := createConsultation(t, svc, f, status)
		_, err := svc.MoveToReport(ctx, ownerOf(f.shopA), c.ID)
		assert.ErrorIs(t, err, ErrNotActivated)
	}
	assert.Zero(t, f.countReports(t, f.shopA.ID))
}

func TestConsultationService_UpdateKeepsReportLink(t *testing.T) {
	f, svc := setupConsultationServiceTest(t)
	ctx := context.Background()
	owner := ownerOf(f.shopA)

	c := createConsultation(t, svc, f, model.ActivationDone)
	report, err := svc.MoveToReport(ctx, owner, c.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, c.ID, ConsultationPatch{Memo: strPtr("재방문 예정")})
	require.NoError(t, err)
	assert.Equal(t, "재방문 예정", updated.Memo)
	require.NotNil(t, updated.ReportID)
	assert.Equal(t, report.ID, *updated.ReportID)
}

func TestConsultationService_MoveCompensation(t *testing.T) {
	tests := []struct {
		name    string
		repo    func(base repository.ConsultationRepository) repository.ConsultationRepository
		wantErr error
	}{
		{
			name: "claim lost to concurrent move",
			repo: func(base repository.ConsultationRepository) repository.ConsultationRepository {
				return &claimFailingRepository{ConsultationRepository: base, claimed: false}
			},
			wantErr: ErrAlreadyMoved,
		},
		{
			name: "claim store failure",
			repo: func(base repository.ConsultationRepository) repository.ConsultationRepository {
				return &claimFailingRepository{ConsultationRepository: base, err: errors.New("connection reset")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, base := setupConsultationServiceTest(t)
			c := createConsultation(t, base, f, model.ActivationDone)

			svc := NewConsultationService(tt.repo(f.consultations), f.reports, f.authorizer, redis.NewNoopLocker())
			_, err := svc.MoveToReport(context.Background(), ownerOf(f.shopA), c.ID)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			// 생성했던 판매일보 행은 삭제되어야 한다
			assert.Zero(t, f.countReports(t, f.shopA.ID))

			stored, err := f.consultations.FindByID(context.Background(), c.ID)
			require.NoError(t, err)
			assert.False(t, stored.Moved())
		})
	}
}

func TestConsultationService_MoveLock(t *testing.T) {
	t.Run("held by another request", func(t *testing.T) {
		f := setupServiceTest(t)
		base := NewConsultationService(f.consultations, f.reports, f.authorizer, redis.NewNoopLocker())
		c := createConsultation(t, base, f, model.ActivationDone)

		locker := &stubLocker{acquired: false}
		svc := NewConsultationService(f.consultations, f.reports, f.authorizer, locker)
		_, err := svc.MoveToReport(context.Background(), ownerOf(f.shopA), c.ID)
		assert.ErrorIs(t, err, ErrMoveInProgress)
		assert.Equal(t, []string{"consultation-move:" + c.ID}, locker.keys)
		assert.Zero(t, f.countReports(t, f.shopA.ID))
	})

	t.Run("lock released after move", func(t *testing.T) {
		f := setupServiceTest(t)
		locker := &stubLocker{acquired: true}
		svc := NewConsultationService(f.consultations, f.reports, f.authorizer, locker)
		c := createConsultation(t, svc, f, model.ActivationDone)

		_, err := svc.MoveToReport(context.Background(), ownerOf(f.shopA), c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, locker.released)
	})

	t.Run("lock server down falls back to conditional update", func(t *testing.T) {
		f := setupServiceTest(t)
		svc := NewConsultationService(f.consultations, f.reports, f.authorizer, &stubLocker{err: errors.New("dial tcp: refused")})
		c := createConsultation(t, svc, f, model.ActivationDone)

		_, err := svc.MoveToReport(context.Background(), ownerOf(f.shopA), c.ID)
		require.NoError(t, err)
		_, err = svc.MoveToReport(context.Background(), ownerOf(f.shopA), c.ID)
		assert.ErrorIs(t, err, ErrAlreadyMoved)
	})
}
