package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CalendarRepository interface {
	CreateTodo(ctx context.Context, todo *model.CalendarTodo) error
	FindTodoByID(ctx context.Context, id string) (*model.CalendarTodo, error)
	ListTodos(ctx context.Context, profileID, from, to string) ([]model.CalendarTodo, error)
	UpdateTodo(ctx context.Context, todo *model.CalendarTodo) error
	DeleteTodo(ctx context.Context, id string) error

	UpsertLeave(ctx context.Context, leave *model.CalendarLeave) error
	DeleteLeave(ctx context.Context, profileID, date string) error
	ListLeaves(ctx context.Context, profileIDs []string, from, to string) ([]model.CalendarLeave, error)
}

type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) CreateTodo(ctx context.Context, todo *model.CalendarTodo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		logger.Error("Failed to create calendar todo", err, map[string]interface{}{
			"profile_id": todo.ProfileID,
		})
		return err
	}
	return nil
}

func (r *calendarRepository) FindTodoByID(ctx context.Context, id string) (*model.CalendarTodo, error) {
	var todo model.CalendarTodo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *calendarRepository) ListTodos(ctx context.Context, profileID, from, to string) ([]model.CalendarTodo, error) {
	query := r.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	var todos []model.CalendarTodo
	if err := query.Order("date ASC, highlight DESC, created_at ASC").Find(&todos).Error; err != nil {
		logger.Error("Failed to list calendar todos", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return nil, err
	}
	return todos, nil
}

func (r *calendarRepository) UpdateTodo(ctx context.Context, todo *model.CalendarTodo) error {
	result := r.db.WithContext(ctx).Model(todo).
		Select("date", "content", "highlight", "done").
		Updates(todo)
	if result.Error != nil {
		logger.Error("Failed to update calendar todo", result.Error, map[string]interface{}{
			"todo_id": todo.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *calendarRepository) DeleteTodo(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CalendarTodo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertLeave keeps one leave per (profile_id, date).
func (r *calendarRepository) UpsertLeave(ctx context.Context, leave *model.CalendarLeave) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"leave_type", "memo", "updated_at"}),
	}).Create(leave).Error
	if err != nil {
		logger.Error("Failed to upsert calendar leave", err, map[string]interface{}{
			"profile_id": leave.ProfileID,
			"date":       leave.Date,
		})
		return err
	}
	// 충돌 시 기존 행이 유지되므로 저장된 행을 다시 읽는다
	var stored model.CalendarLeave
	err = r.db.WithContext(ctx).
		Where("profile_id = ? AND date = ?", leave.ProfileID, leave.Date).
		First(&stored).Error
	if err != nil {
		return err
	}
	*leave = stored
	return nil
}

func (r *calendarRepository) DeleteLeave(ctx context.Context, profileID, date string) error {
	result := r.db.WithContext(ctx).
		Where("profile_id = ? AND date = ?", profileID, date).
		Delete(&model.CalendarLeave{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *calendarRepository) ListLeaves(ctx context.Context, profileIDs []string, from, to string) ([]model.CalendarLeave, error) {
	if len(profileIDs) == 0 {
		return []model.CalendarLeave{}, nil
	}

	query := r.db.WithContext(ctx).Where("profile_id IN ?", profileIDs)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	var leaves []model.CalendarLeave
	if err := query.Order("date ASC").Find(&leaves).Error; err != nil {
		logger.Error("Failed to list calendar leaves", err, map[string]interface{}{
			"profiles": len(profileIDs),
		})
		return nil, err
	}
	return leaves, nil
}
