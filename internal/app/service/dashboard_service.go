package service

import (
	"context"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"golang.org/x/sync/errgroup"
)

type DashboardStats struct {
	ShopID        string                        `json:"shop_id,omitempty"`
	From          string                        `json:"from"`
	To            string                        `json:"to"`
	Consultations *repository.ConsultationStats `json:"consultations"`
	Reports       *repository.ReportStats       `json:"reports"`
}

type DashboardService interface {
	Stats(ctx context.Context, auth *authz.AuthContext, shopID, month string) (*DashboardStats, error)
}

type dashboardService struct {
	consultations repository.ConsultationRepository
	reports       repository.ReportRepository
	authorizer    *authz.Authorizer
	now           func() time.Time
}

func NewDashboardService(
	consultations repository.ConsultationRepository,
	reports repository.ReportRepository,
	authorizer *authz.Authorizer,
) DashboardService {
	return &dashboardService{
		consultations: consultations,
		reports:       reports,
		authorizer:    authorizer,
		now:           time.Now,
	}
}

// Stats aggregates the month's consultations and ledger. A super_admin without a
// shop gets the totals across every shop.
func (s *dashboardService) Stats(ctx context.Context, auth *authz.AuthContext, shopID, month string) (*DashboardStats, error) {
	effective, err := s.authorizer.Require(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	from, to, err := monthBounds(month, s.now())
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{ShopID: effective, From: from, To: to}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Consultations, err = s.consultations.Stats(gctx, effective, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Reports, err = s.reports.Stats(gctx, effective, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
