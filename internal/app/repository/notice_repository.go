package repository

import (
	"context"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
	"gorm.io/gorm"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *model.Notice) error
	FindByID(ctx context.Context, id string) (*model.Notice, error)
	List(ctx context.Context, limit, offset int) ([]model.Notice, int64, error)
	Update(ctx context.Context, notice *model.Notice) error
	Delete(ctx context.Context, id string) error

	CreateComment(ctx context.Context, comment *model.NoticeComment) error
	FindCommentByID(ctx context.Context, id string) (*model.NoticeComment, error)
	DeleteComment(ctx context.Context, id string) error
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	if err := r.db.WithContext(ctx).Create(notice).Error; err != nil {
		logger.Error("Failed to create notice", err, map[string]interface{}{
			"author_id": notice.AuthorID,
		})
		return err
	}
	return nil
}

func (r *noticeRepository) FindByID(ctx context.Context, id string) (*model.Notice, error) {
	var notice model.Notice
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&notice).Error
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

// List 고정 공지 먼저, 그다음 최신순
func (r *noticeRepository) List(ctx context.Context, limit, offset int) ([]model.Notice, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Notice{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count notices", err)
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var notices []model.Notice
	if err := query.Order("pinned DESC, created_at DESC").Find(&notices).Error; err != nil {
		logger.Error("Failed to list notices", err)
		return nil, 0, err
	}
	return notices, total, nil
}

func (r *noticeRepository) Update(ctx context.Context, notice *model.Notice) error {
	result := r.db.WithContext(ctx).Model(notice).
		Select("title", "content", "pinned").
		Updates(notice)
	if result.Error != nil {
		logger.Error("Failed to update notice", result.Error, map[string]interface{}{
			"notice_id": notice.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *noticeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notice_id = ?", id).Delete(&model.NoticeComment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Notice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *noticeRepository) CreateComment(ctx context.Context, comment *model.NoticeComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		logger.Error("Failed to create notice comment", err, map[string]interface{}{
			"notice_id": comment.NoticeID,
		})
		return err
	}
	return nil
}

func (r *noticeRepository) FindCommentByID(ctx context.Context, id string) (*model.NoticeComment, error) {
	var comment model.NoticeComment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes the comment and its direct replies.
func (r *noticeRepository) DeleteComment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&model.NoticeComment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.NoticeComment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
