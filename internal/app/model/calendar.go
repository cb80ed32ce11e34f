package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinTodoHighlight = 0
	MaxTodoHighlight = 3
)

// CalendarTodo 개인 일정
type CalendarTodo struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProfileID string    `gorm:"type:varchar(36);not null;index" json:"profile_id"`
	Date      string    `gorm:"type:varchar(10);not null;index" json:"date"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Highlight int       `gorm:"default:0" json:"highlight"`
	Done      bool      `gorm:"default:false" json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CalendarTodo) TableName() string {
	return "calendar_todos"
}

func (t *CalendarTodo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// CalendarLeave 휴무. (profile_id, date) 당 1행.
type CalendarLeave struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProfileID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_calendar_leave_profile_date" json:"profile_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_calendar_leave_profile_date" json:"date"`
	LeaveType string    `gorm:"type:varchar(20)" json:"leave_type"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CalendarLeave) TableName() string {
	return "calendar_leaves"
}

func (l *CalendarLeave) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
