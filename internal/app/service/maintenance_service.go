package service

import (
	"context"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/metrics"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
)

const (
	JobPurgeInvites   = "purge_expired_invites"
	JobReconcileMoves = "reconcile_orphan_reports"
)

// MaintenanceService 주기 작업. 스케줄러가 호출한다.
type MaintenanceService interface {
	PurgeExpiredInvites(ctx context.Context) (int64, error)
	ReconcileOrphanReports(ctx context.Context, grace time.Duration) (int64, error)
}

type maintenanceService struct {
	invites repository.InviteRepository
	reports repository.ReportRepository
	now     func() time.Time
}

func NewMaintenanceService(invites repository.InviteRepository, reports repository.ReportRepository) MaintenanceService {
	return &maintenanceService{
		invites: invites,
		reports: reports,
		now:     time.Now,
	}
}

func (s *maintenanceService) PurgeExpiredInvites(ctx context.Context) (int64, error) {
	removed, err := s.invites.DeleteExpired(ctx, s.now())
	metrics.RecordMaintenance(JobPurgeInvites, removed, err)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("Expired invites purged", map[string]interface{}{
			"removed": removed,
		})
	}
	return removed, nil
}

// ReconcileOrphanReports deletes report rows left behind by a move whose
// consultation claim never landed. Rows younger than grace are skipped so an
// in-flight move is not raced.
func (s *maintenanceService) ReconcileOrphanReports(ctx context.Context, grace time.Duration) (int64, error) {
	orphans, err := s.reports.FindOrphans(ctx, s.now().Add(-grace))
	if err != nil {
		metrics.RecordMaintenance(JobReconcileMoves, 0, err)
		return 0, err
	}

	var removed int64
	for _, orphan := range orphans {
		if err := s.reports.Delete(ctx, orphan.ID); err != nil {
			if isNotFound(err) {
				continue
			}
			metrics.RecordMaintenance(JobReconcileMoves, removed, err)
			return removed, err
		}
		removed++
		logger.Warn("Orphan report entry removed", map[string]interface{}{
			"report_id":       orphan.ID,
			"shop_id":         orphan.ShopID,
			"consultation_id": *orphan.SourceConsultationID,
		})
	}

	metrics.RecordMaintenance(JobReconcileMoves, removed, nil)
	return removed, nil
}
