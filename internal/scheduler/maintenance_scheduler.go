package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const jobTimeout = 2 * time.Minute

// MaintenanceScheduler 만료 초대 코드 정리 + 판매일보 이동 고아 행 정리
type MaintenanceScheduler struct {
	cron        *cron.Cron
	spec        string
	orphanGrace time.Duration
	maintenance service.MaintenanceService
}

// NewMaintenanceScheduler 정리 작업 스케줄러 생성
func NewMaintenanceScheduler(maintenance service.MaintenanceService, spec string, orphanGrace time.Duration) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		spec:        spec,
		orphanGrace: orphanGrace,
		maintenance: maintenance,
	}
}

// Start 스케줄러 시작
func (s *MaintenanceScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for maintenance", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Maintenance scheduler started", map[string]interface{}{
		"spec":         s.spec,
		"orphan_grace": s.orphanGrace.String(),
	})
	return nil
}

// RunOnce runs every maintenance job. A failing job does not stop the next one.
func (s *MaintenanceScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Info("Starting scheduled maintenance", nil)

	if removed, err := s.maintenance.PurgeExpiredInvites(ctx); err != nil {
		logger.Error("Failed to purge expired invites", err)
	} else {
		logger.Info("Expired invites purged", map[string]interface{}{
			"removed": removed,
		})
	}

	if removed, err := s.maintenance.ReconcileOrphanReports(ctx, s.orphanGrace); err != nil {
		logger.Error("Failed to reconcile orphan reports", err)
	} else {
		logger.Info("Orphan reports reconciled", map[string]interface{}{
			"removed": removed,
		})
	}
}

// Stop 스케줄러 중지. 실행 중인 작업이 끝날 때까지 기다린다.
func (s *MaintenanceScheduler) Stop() {
	logger.Info("Stopping maintenance scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Maintenance scheduler stopped", nil)
}
