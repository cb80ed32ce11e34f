package service

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/internal/metrics"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"github.com/ikkim/phonedesk-backend/pkg/redis"
	"github.com/ikkim/phonedesk-backend/pkg/util"
)

type ConsultationInput struct {
	ShopID           string
	Name             string
	Phone            string
	ProductName      string
	Memo             string
	ConsultationDate string
	SalesPerson      string
	ActivationStatus model.ActivationStatus
	InflowType       string
}

// ConsultationPatch nil fields are left unchanged.
type ConsultationPatch struct {
	Name             *string
	Phone            *string
	ProductName      *string
	Memo             *string
	ConsultationDate *string
	SalesPerson      *string
	ActivationStatus *model.ActivationStatus
	InflowType       *string
}

type ConsultationQuery struct {
	ShopID string
	From   string
	To     string
	Status model.ActivationStatus
	Query  string
	Limit  int
	Offset int
}

type ConsultationService interface {
	Create(ctx context.Context, auth *authz.AuthContext, input ConsultationInput) (*model.Consultation, error)
	Get(ctx context.Context, auth *authz.AuthContext, id string) (*model.Consultation, error)
	List(ctx context.Context, auth *authz.AuthContext, query ConsultationQuery) ([]model.Consultation, int64, error)
	Update(ctx context.Context, auth *authz.AuthContext, id string, patch ConsultationPatch) (*model.Consultation, error)
	Delete(ctx context.Context, auth *authz.AuthContext, id string) error
	Stats(ctx context.Context, auth *authz.AuthContext, shopID, month string) (*repository.ConsultationStats, error)
	MoveToReport(ctx context.Context, auth *authz.AuthContext, id string) (*model.ReportEntry, error)
}

type consultationService struct {
	consultations repository.ConsultationRepository
	reports       repository.ReportRepository
	authorizer    *authz.Authorizer
	locker        redis.Locker
	now           func() time.Time
}

func NewConsultationService(
	consultations repository.ConsultationRepository,
	reports repository.ReportRepository,
	authorizer *authz.Authorizer,
	locker redis.Locker,
) ConsultationService {
	return &consultationService{
		consultations: consultations,
		reports:       reports,
		authorizer:    authorizer,
		locker:        locker,
		now:           time.Now,
	}
}

func validateStatus(status model.ActivationStatus) error {
	if !status.Valid() {
		return invalid("activation_status", "개통 상태는 O, △, X 중 하나여야 합니다")
	}
	return nil
}

func validateOptionalDate(field, value string) error {
	if value != "" && !util.ValidDate(value) {
		return invalid(field, "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	return nil
}

func (s *consultationService) Create(ctx context.Context, auth *authz.AuthContext, input ConsultationInput) (*model.Consultation, error) {
	shopID, err := s.authorizer.RequireShop(ctx, auth, input.ShopID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "고객명은 필수입니다")
	}
	status := input.ActivationStatus
	if status == "" {
		status = model.ActivationNotYet
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	date := strings.TrimSpace(input.ConsultationDate)
	if date == "" {
		date = s.now().Format(util.DateLayout)
	}
	if err := validateOptionalDate("consultation_date", date); err != nil {
		return nil, err
	}

	c := &model.Consultation{
		ShopID:           shopID,
		Name:             name,
		Phone:            strings.TrimSpace(input.Phone),
		ProductName:      strings.TrimSpace(input.ProductName),
		Memo:             input.Memo,
		ConsultationDate: date,
		SalesPerson:      strings.TrimSpace(input.SalesPerson),
		ActivationStatus: status,
		InflowType:       strings.TrimSpace(input.InflowType),
		CreatedBy:        auth.ID,
	}
	if err := s.consultations.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// owned loads a consultation and hides it when it is outside the caller's scope.
func (s *consultationService) owned(ctx context.Context, auth *authz.AuthContext, id string) (*model.Consultation, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	c, err := s.consultations.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}

	d, err := s.authorizer.Authorize(ctx, auth, c.ShopID)
	if err != nil {
		return nil, err
	}
	if !d.Allowed {
		logger.Warn("Consultation access outside scope", map[string]interface{}{
			"consultation_id": id,
			"profile_id":      auth.ID,
		})
		return nil, ErrConsultationNotFound
	}
	return c, nil
}

func (s *consultationService) Get(ctx context.Context, auth *authz.AuthContext, id string) (*model.Consultation, error) {
	return s.owned(ctx, auth, id)
}

func (s *consultationService) List(ctx context.Context, auth *authz.AuthContext, query ConsultationQuery) ([]model.Consultation, int64, error) {
	shopID, err := s.authorizer.Require(ctx, auth, query.ShopID)
	if err != nil {
		return nil, 0, err
	}
	if query.Status != "" {
		if err := validateStatus(query.Status); err != nil {
			return nil, 0, err
		}
	}

	return s.consultations.List(ctx, repository.ConsultationFilter{
		ShopID: shopID,
		From:   query.From,
		To:     query.To,
		Status: query.Status,
		Query:  strings.TrimSpace(query.Query),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
}

// Update allows any status change at any time, moved or not.
func (s *consultationService) Update(ctx context.Context, auth *authz.AuthContext, id string, patch ConsultationPatch) (*model.Consultation, error) {
	c, err := s.owned(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name", "고객명은 필수입니다")
		}
		c.Name = name
	}
	if patch.ActivationStatus != nil {
		if err := validateStatus(*patch.ActivationStatus); err != nil {
			return nil, err
		}
		c.ActivationStatus = *patch.ActivationStatus
	}
	if patch.ConsultationDate != nil {
		if err := validateOptionalDate("consultation_date", *patch.ConsultationDate); err != nil {
			return nil, err
		}
		c.ConsultationDate = *patch.ConsultationDate
	}
	if patch.Phone != nil {
		c.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.ProductName != nil {
		c.ProductName = strings.TrimSpace(*patch.ProductName)
	}
	if patch.Memo != nil {
		c.Memo = *patch.Memo
	}
	if patch.SalesPerson != nil {
		c.SalesPerson = strings.TrimSpace(*patch.SalesPerson)
	}
	if patch.InflowType != nil {
		c.InflowType = strings.TrimSpace(*patch.InflowType)
	}

	if err := s.consultations.Update(ctx, c); err != nil {
		if isNotFound(err) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	return s.consultations.FindByID(ctx, id)
}

func (s *consultationService) Delete(ctx context.Context, auth *authz.AuthContext, id string) error {
	if _, err := s.owned(ctx, auth, id); err != nil {
		return err
	}
	if err := s.consultations.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrConsultationNotFound
		}
		return err
	}
	return nil
}

func (s *consultationService) Stats(ctx context.Context, auth *authz.AuthContext, shopID, month string) (*repository.ConsultationStats, error) {
	effective, err := s.authorizer.Require(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	from, to, err := monthBounds(month, s.now())
	if err != nil {
		return nil, err
	}
	return s.consultations.Stats(ctx, effective, from, to)
}

// MoveToReport promotes a completed consultation into one report entry.
//
// The report row is written first and the consultation is then claimed with a
// conditional update (report_id IS NULL). If the claim fails or loses a race the
// new report row is deleted again. Rows that survive a failed compensation are
// removed later by the orphan reconciliation job.
func (s *consultationService) MoveToReport(ctx context.Context, auth *authz.AuthContext, id string) (*model.ReportEntry, error) {
	if _, err := s.owned(ctx, auth, id); err != nil {
		return nil, err
	}

	unlock, acquired, err := s.locker.TryLock(ctx, "consultation-move:"+id)
	if err != nil {
		// 락 서버 장애 시에도 조건부 업데이트가 중복 이동을 막는다
		logger.Warn("Move lock unavailable, relying on conditional update", map[string]interface{}{
			"consultation_id": id,
			"error":           err.Error(),
		})
	} else if !acquired {
		metrics.RecordMove(metrics.ResultConflict)
		return nil, ErrMoveInProgress
	} else {
		defer unlock()
	}

	c, err := s.consultations.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	if c.Moved() {
		metrics.RecordMove(metrics.ResultConflict)
		return nil, ErrAlreadyMoved
	}
	if c.ActivationStatus != model.ActivationDone {
		metrics.RecordMove(metrics.ResultRejected)
		return nil, ErrNotActivated
	}

	saleDate := c.ConsultationDate
	if saleDate == "" {
		saleDate = s.now().Format(util.DateLayout)
	}
	sourceID := c.ID
	report := &model.ReportEntry{
		ShopID:               c.ShopID,
		Name:                 c.Name,
		Phone:                c.Phone,
		SaleDate:             saleDate,
		ProductName:          c.ProductName,
		SalesPerson:          c.SalesPerson,
		InflowType:           c.InflowType,
		Memo:                 c.Memo,
		SourceConsultationID: &sourceID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		metrics.RecordMove(metrics.ResultError)
		return nil, err
	}

	claimed, err := s.consultations.MarkMoved(ctx, c.ID, report.ID)
	if err != nil || !claimed {
		s.compensateMove(ctx, c.ID, report.ID)
		if err != nil {
			metrics.RecordMove(metrics.ResultError)
			return nil, err
		}
		metrics.RecordMove(metrics.ResultConflict)
		return nil, ErrAlreadyMoved
	}

	logger.Info("Consultation moved to report", map[string]interface{}{
		"consultation_id": c.ID,
		"report_id":       report.ID,
		"shop_id":         c.ShopID,
		"moved_by":        auth.ID,
	})
	metrics.RecordMove(metrics.ResultSuccess)
	return report, nil
}

func (s *consultationService) compensateMove(ctx context.Context, consultationID, reportID string) {
	// 요청이 취소되어도 보상 삭제는 끝까지 수행
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.reports.Delete(ctx, reportID); err != nil {
		logger.Error("Failed to delete report after failed move, left for reconciliation", err, map[string]interface{}{
			"consultation_id": consultationID,
			"report_id":       reportID,
		})
		return
	}
	logger.Warn("Move to report rolled back", map[string]interface{}{
		"consultation_id": consultationID,
		"report_id":       reportID,
	})
}

// monthBounds resolves YYYY-MM to a date range; empty month means the current month.
func monthBounds(month string, now time.Time) (string, string, error) {
	if month == "" {
		month = util.CurrentMonth(now)
	}
	from, to, err := util.MonthRange(month)
	if err != nil {
		return "", "", invalid("month", err.Error())
	}
	return from, to, nil
}
