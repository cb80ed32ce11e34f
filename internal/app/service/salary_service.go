package service

import (
	"context"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/salary"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/ikkim/phonedesk-backend/pkg/util"
	"golang.org/x/sync/errgroup"
)

const salaryHistoryLimit = 200

// SalaryReport 기간별 급여 계산 결과
type SalaryReport struct {
	ShopID           string        `json:"shop_id"`
	From             string        `json:"from"`
	To               string        `json:"to"`
	PerSaleIncentive int64         `json:"per_sale_incentive"`
	MarginRatePct    float64       `json:"margin_rate_pct"`
	Lines            []salary.Line `json:"lines"`
}

type SalaryService interface {
	Compute(ctx context.Context, auth *authz.AuthContext, shopID, from, to string) (*SalaryReport, error)
	Save(ctx context.Context, auth *authz.AuthContext, shopID, from, to string) ([]model.SalarySnapshot, error)
	History(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.SalarySnapshot, error)
	Export(ctx context.Context, auth *authz.AuthContext, shopID, from, to string) ([]byte, error)
}

type salaryService struct {
	salaries   repository.SalaryRepository
	reports    repository.ReportRepository
	settings   repository.SettingsRepository
	authorizer *authz.Authorizer
	now        func() time.Time
}

func NewSalaryService(
	salaries repository.SalaryRepository,
	reports repository.ReportRepository,
	settings repository.SettingsRepository,
	authorizer *authz.Authorizer,
) SalaryService {
	return &salaryService{
		salaries:   salaries,
		reports:    reports,
		settings:   settings,
		authorizer: authorizer,
		now:        time.Now,
	}
}

// period defaults to the current month when both bounds are empty.
func (s *salaryService) period(from, to string) (string, string, error) {
	if from == "" && to == "" {
		return monthBounds("", s.now())
	}
	if !util.ValidDate(from) {
		return "", "", invalid("from", "시작일 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	if !util.ValidDate(to) {
		return "", "", invalid("to", "종료일 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	if from > to {
		return "", "", invalid("from", "시작일이 종료일보다 늦습니다")
	}
	return from, to, nil
}

func (s *salaryService) compute(ctx context.Context, shopID, from, to string) (*SalaryReport, error) {
	var settings *model.ShopSettings
	var entries []model.ReportEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = loadSettings(gctx, s.settings, shopID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, _, err = s.reports.List(gctx, repository.ReportFilter{ShopID: shopID, From: from, To: to})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SalaryReport{
		ShopID:           shopID,
		From:             from,
		To:               to,
		PerSaleIncentive: settings.PerSaleIncentive,
		MarginRatePct:    settings.MarginRatePct,
		Lines:            salary.Table(entries, settings.PerSaleIncentive, settings.MarginFraction()),
	}, nil
}

func (s *salaryService) Compute(ctx context.Context, auth *authz.AuthContext, shopID, from, to string) (*SalaryReport, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	from, to, err = s.period(from, to)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, effective, from, to)
}

// Save appends one snapshot per salesperson. Earlier snapshots are never touched.
func (s *salaryService) Save(ctx context.Context, auth *authz.AuthContext, shopID, from, to string) ([]model.SalarySnapshot, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	if !authz.CanSaveSalary(auth.Role) {
		return nil, ErrForbidden
	}
	from, to, err = s.period(from, to)
	if err != nil {
		return nil, err
	}

	report, err := s.compute(ctx, effective, from, to)
	if err != nil {
		return nil, err
	}

	snapshots := make([]model.SalarySnapshot, 0, len(report.Lines))
	for _, line := range report.Lines {
		snapshots = append(snapshots, model.SalarySnapshot{
			ShopID:           effective,
			SalesPerson:      line.SalesPerson,
			PeriodStart:      from,
			PeriodEnd:        to,
			SaleCount:        line.Count,
			TotalMargin:      line.TotalMargin,
			TotalSupport:     line.TotalSupport,
			CalculatedSalary: line.Salary,
			CreatedBy:        auth.ID,
		})
	}
	if err := s.salaries.CreateSnapshots(ctx, snapshots); err != nil {
		return nil, err
	}

	logger.Info("Salary snapshots saved", map[string]interface{}{
		"shop_id": effective,
		"from":    from,
		"to":      to,
		"count":   len(snapshots),
		"by":      auth.ID,
	})
	return snapshots, nil
}

func (s *salaryService) History(ctx context.Context, auth *authz.AuthContext, shopID string) ([]model.SalarySnapshot, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	return s.salaries.ListByShop(ctx, effective, salaryHistoryLimit)
}

func (s *salaryService) Export(ctx context.Context, auth *authz.AuthContext, shopID, from, to string) ([]byte, error) {
	report, err := s.Compute(ctx, auth, shopID, from, to)
	if err != nil {
		return nil, err
	}
	return salary.ExportXLSX(report.From, report.To, report.Lines)
}
