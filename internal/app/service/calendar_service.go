package service

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/pkg/util"
)

const DefaultLeaveType = "off"

type TodoInput struct {
	Date      string
	Content   string
	Highlight int
}

type TodoPatch struct {
	Date      *string
	Content   *string
	Highlight *int
	Done      *bool
}

type LeaveInput struct {
	Date      string
	LeaveType string
	Memo      string
}

type CalendarService interface {
	ListTodos(ctx context.Context, auth *authz.AuthContext, month string) ([]model.CalendarTodo, error)
	CreateTodo(ctx context.Context, auth *authz.AuthContext, input TodoInput) (*model.CalendarTodo, error)
	UpdateTodo(ctx context.Context, auth *authz.AuthContext, id string, patch TodoPatch) (*model.CalendarTodo, error)
	DeleteTodo(ctx context.Context, auth *authz.AuthContext, id string) error

	ListLeaves(ctx context.Context, auth *authz.AuthContext, month string) ([]model.CalendarLeave, error)
	UpsertLeave(ctx context.Context, auth *authz.AuthContext, input LeaveInput) (*model.CalendarLeave, error)
	DeleteLeave(ctx context.Context, auth *authz.AuthContext, date string) error
	ShopLeaves(ctx context.Context, auth *authz.AuthContext, shopID, month string) ([]model.CalendarLeave, error)
}

type calendarService struct {
	calendar   repository.CalendarRepository
	profiles   repository.ProfileRepository
	authorizer *authz.Authorizer
	now        func() time.Time
}

func NewCalendarService(
	calendar repository.CalendarRepository,
	profiles repository.ProfileRepository,
	authorizer *authz.Authorizer,
) CalendarService {
	return &calendarService{
		calendar:   calendar,
		profiles:   profiles,
		authorizer: authorizer,
		now:        time.Now,
	}
}

func validHighlight(h int) bool {
	return h >= model.MinTodoHighlight && h <= model.MaxTodoHighlight
}

func (s *calendarService) ListTodos(ctx context.Context, auth *authz.AuthContext, month string) ([]model.CalendarTodo, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	from, to, err := monthBounds(month, s.now())
	if err != nil {
		return nil, err
	}
	return s.calendar.ListTodos(ctx, auth.ID, from, to)
}

func (s *calendarService) CreateTodo(ctx context.Context, auth *authz.AuthContext, input TodoInput) (*model.CalendarTodo, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	if !util.ValidDate(input.Date) {
		return nil, invalid("date", "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, invalid("content", "내용을 입력하세요")
	}
	if !validHighlight(input.Highlight) {
		return nil, invalid("highlight", "강조 단계는 0에서 3 사이여야 합니다")
	}

	todo := &model.CalendarTodo{
		ProfileID: auth.ID,
		Date:      input.Date,
		Content:   content,
		Highlight: input.Highlight,
	}
	if err := s.calendar.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// ownTodo hides other users' todos behind not found.
func (s *calendarService) ownTodo(ctx context.Context, auth *authz.AuthContext, id string) (*model.CalendarTodo, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	todo, err := s.calendar.FindTodoByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	if todo.ProfileID != auth.ID {
		return nil, ErrTodoNotFound
	}
	return todo, nil
}

func (s *calendarService) UpdateTodo(ctx context.Context, auth *authz.AuthContext, id string, patch TodoPatch) (*model.CalendarTodo, error) {
	todo, err := s.ownTodo(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		if !util.ValidDate(*patch.Date) {
			return nil, invalid("date", "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
		}
		todo.Date = *patch.Date
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, invalid("content", "내용을 입력하세요")
		}
		todo.Content = content
	}
	if patch.Highlight != nil {
		if !validHighlight(*patch.Highlight) {
			return nil, invalid("highlight", "강조 단계는 0에서 3 사이여야 합니다")
		}
		todo.Highlight = *patch.Highlight
	}
	if patch.Done != nil {
		todo.Done = *patch.Done
	}

	if err := s.calendar.UpdateTodo(ctx, todo); err != nil {
		if isNotFound(err) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *calendarService) DeleteTodo(ctx context.Context, auth *authz.AuthContext, id string) error {
	if _, err := s.ownTodo(ctx, auth, id); err != nil {
		return err
	}
	if err := s.calendar.DeleteTodo(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTodoNotFound
		}
		return err
	}
	return nil
}

func (s *calendarService) ListLeaves(ctx context.Context, auth *authz.AuthContext, month string) ([]model.CalendarLeave, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	from, to, err := monthBounds(month, s.now())
	if err != nil {
		return nil, err
	}
	return s.calendar.ListLeaves(ctx, []string{auth.ID}, from, to)
}

func (s *calendarService) UpsertLeave(ctx context.Context, auth *authz.AuthContext, input LeaveInput) (*model.CalendarLeave, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	if !util.ValidDate(input.Date) {
		return nil, invalid("date", "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	leaveType := strings.TrimSpace(input.LeaveType)
	if leaveType == "" {
		leaveType = DefaultLeaveType
	}

	leave := &model.CalendarLeave{
		ProfileID: auth.ID,
		Date:      input.Date,
		LeaveType: leaveType,
		Memo:      strings.TrimSpace(input.Memo),
	}
	if err := s.calendar.UpsertLeave(ctx, leave); err != nil {
		return nil, err
	}
	return leave, nil
}

func (s *calendarService) DeleteLeave(ctx context.Context, auth *authz.AuthContext, date string) error {
	if auth == nil {
		return ErrUnauthenticated
	}
	if err := s.calendar.DeleteLeave(ctx, auth.ID, date); err != nil {
		if isNotFound(err) {
			return ErrLeaveNotFound
		}
		return err
	}
	return nil
}

// ShopLeaves lists the leaves of every member of one authorized shop.
func (s *calendarService) ShopLeaves(ctx context.Context, auth *authz.AuthContext, shopID, month string) ([]model.CalendarLeave, error) {
	effective, err := s.authorizer.RequireShop(ctx, auth, shopID)
	if err != nil {
		return nil, err
	}
	from, to, err := monthBounds(month, s.now())
	if err != nil {
		return nil, err
	}

	ids, err := s.profiles.ListIDsByShop(ctx, effective)
	if err != nil {
		return nil, err
	}
	return s.calendar.ListLeaves(ctx, ids, from, to)
}
