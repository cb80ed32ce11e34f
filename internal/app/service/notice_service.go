package service

import (
	"context"
	"strings"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/app/repository"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	"github.com/ikkim/phonedesk-backend/pkg/logger"
)

type NoticeInput struct {
	Title   string
	Content string
	Pinned  bool
}

type NoticePatch struct {
	Title   *string
	Content *string
	Pinned  *bool
}

type NoticeService interface {
	List(ctx context.Context, auth *authz.AuthContext, limit, offset int) ([]model.Notice, int64, error)
	Get(ctx context.Context, auth *authz.AuthContext, id string) (*model.Notice, error)
	Create(ctx context.Context, auth *authz.AuthContext, input NoticeInput) (*model.Notice, error)
	Update(ctx context.Context, auth *authz.AuthContext, id string, patch NoticePatch) (*model.Notice, error)
	Delete(ctx context.Context, auth *authz.AuthContext, id string) error

	AddComment(ctx context.Context, auth *authz.AuthContext, noticeID, content string, parentID *string) (*model.NoticeComment, error)
	DeleteComment(ctx context.Context, auth *authz.AuthContext, noticeID, commentID string) error
}

type noticeService struct {
	notices repository.NoticeRepository
}

func NewNoticeService(notices repository.NoticeRepository) NoticeService {
	return &noticeService{notices: notices}
}

func (s *noticeService) List(ctx context.Context, auth *authz.AuthContext, limit, offset int) ([]model.Notice, int64, error) {
	if auth == nil {
		return nil, 0, ErrUnauthenticated
	}
	return s.notices.List(ctx, limit, offset)
}

func (s *noticeService) Get(ctx context.Context, auth *authz.AuthContext, id string) (*model.Notice, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	notice, err := s.notices.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	return notice, nil
}

func requireSuperAdmin(auth *authz.AuthContext) error {
	if auth == nil {
		return ErrUnauthenticated
	}
	if !authz.IsSuperAdmin(auth) {
		return ErrForbidden
	}
	return nil
}

func (s *noticeService) Create(ctx context.Context, auth *authz.AuthContext, input NoticeInput) (*model.Notice, error) {
	if err := requireSuperAdmin(auth); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, invalid("title", "제목을 입력하세요")
	}

	notice := &model.Notice{
		AuthorID: auth.ID,
		Title:    title,
		Content:  input.Content,
		Pinned:   input.Pinned,
	}
	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}

	logger.Info("Notice created", map[string]interface{}{
		"notice_id": notice.ID,
		"author_id": auth.ID,
	})
	return notice, nil
}

func (s *noticeService) Update(ctx context.Context, auth *authz.AuthContext, id string, patch NoticePatch) (*model.Notice, error) {
	if err := requireSuperAdmin(auth); err != nil {
		return nil, err
	}
	notice, err := s.notices.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, invalid("title", "제목을 입력하세요")
		}
		notice.Title = title
	}
	if patch.Content != nil {
		notice.Content = *patch.Content
	}
	if patch.Pinned != nil {
		notice.Pinned = *patch.Pinned
	}

	if err := s.notices.Update(ctx, notice); err != nil {
		if isNotFound(err) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}
	return notice, nil
}

func (s *noticeService) Delete(ctx context.Context, auth *authz.AuthContext, id string) error {
	if err := requireSuperAdmin(auth); err != nil {
		return err
	}
	if err := s.notices.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrNoticeNotFound
		}
		return err
	}
	return nil
}

func (s *noticeService) AddComment(ctx context.Context, auth *authz.AuthContext, noticeID, content string, parentID *string) (*model.NoticeComment, error) {
	if auth == nil {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("content", "댓글 내용을 입력하세요")
	}
	if _, err := s.notices.FindByID(ctx, noticeID); err != nil {
		if isNotFound(err) {
			return nil, ErrNoticeNotFound
		}
		return nil, err
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		parent, err := s.notices.FindCommentByID(ctx, *parentID)
		if err != nil {
			if isNotFound(err) {
				return nil, invalid("parent_id", "상위 댓글을 찾을 수 없습니다")
			}
			return nil, err
		}
		if parent.NoticeID != noticeID {
			return nil, invalid("parent_id", "상위 댓글이 다른 공지에 속해 있습니다")
		}
	}

	comment := &model.NoticeComment{
		NoticeID: noticeID,
		AuthorID: auth.ID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.notices.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment is allowed for the author and for super_admin.
func (s *noticeService) DeleteComment(ctx context.Context, auth *authz.AuthContext, noticeID, commentID string) error {
	if auth == nil {
		return ErrUnauthenticated
	}
	comment, err := s.notices.FindCommentByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.NoticeID != noticeID {
		return ErrCommentNotFound
	}
	if comment.AuthorID != auth.ID && !authz.IsSuperAdmin(auth) {
		return ErrForbidden
	}

	if err := s.notices.DeleteComment(ctx, commentID); err != nil {
		if isNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}
