package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice 전체 공지사항
type Notice struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	AuthorID  string    `gorm:"type:varchar(36);not null" json:"author_id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Pinned    bool      `gorm:"default:false;index" json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Comments []NoticeComment `gorm:"foreignKey:NoticeID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (Notice) TableName() string {
	return "notices"
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NoticeComment 공지 댓글. ParentID가 있으면 대댓글.
type NoticeComment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	NoticeID  string    `gorm:"type:varchar(36);not null;index" json:"notice_id"`
	AuthorID  string    `gorm:"type:varchar(36);not null" json:"author_id"`
	ParentID  *string   `gorm:"type:varchar(36);index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (NoticeComment) TableName() string {
	return "notice_comments"
}

func (c *NoticeComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
