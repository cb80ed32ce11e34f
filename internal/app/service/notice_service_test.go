package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoticeService_CRUD(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewNoticeService(f.notices)
	ctx := context.Background()
	admin := superAdmin()

	_, err := svc.Create(ctx, ownerOf(f.shopA), NoticeInput{Title: "공지"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(ctx, admin, NoticeInput{Title: "  "})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	first, err := svc.Create(ctx, admin, NoticeInput{Title: "시스템 점검", Content: "일요일 새벽"})
	require.NoError(t, err)
	pinned, err := svc.Create(ctx, admin, NoticeInput{Title: "필독", Pinned: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, NoticeInput{Title: "최신"})
	require.NoError(t, err)

	list, total, err := svc.List(ctx, staffOf(f.shopA), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, pinned.ID, list[0].ID)

	updated, err := svc.Update(ctx, admin, first.ID, NoticePatch{Title: strPtr("점검 연기")})
	require.NoError(t, err)
	assert.Equal(t, "점검 연기", updated.Title)
	assert.Equal(t, "일요일 새벽", updated.Content)

	_, err = svc.Update(ctx, ownerOf(f.shopA), first.ID, NoticePatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, admin, first.ID))
	_, err = svc.Get(ctx, admin, first.ID)
	assert.ErrorIs(t, err, ErrNoticeNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, admin, first.ID), ErrNoticeNotFound)
}

func TestNoticeService_Comments(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewNoticeService(f.notices)
	ctx := context.Background()

	notice, err := svc.Create(ctx, superAdmin(), NoticeInput{Title: "공지"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, superAdmin(), NoticeInput{Title: "다른 공지"})
	require.NoError(t, err)

	author := staffOf(f.shopA)
	comment, err := svc.AddComment(ctx, author, notice.ID, "확인했습니다", nil)
	require.NoError(t, err)

	reply, err := svc.AddComment(ctx, ownerOf(f.shopB), notice.ID, "저도요", &comment.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)

	var verr *ValidationError
	_, err = svc.AddComment(ctx, author, other.ID, "엉뚱한 대댓글", &comment.ID)
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AddComment(ctx, author, notice.ID, "   ", nil)
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AddComment(ctx, author, "missing", "내용", nil)
	assert.ErrorIs(t, err, ErrNoticeNotFound)

	// 작성자 또는 본사만 삭제할 수 있다
	assert.ErrorIs(t, svc.DeleteComment(ctx, ownerOf(f.shopA), notice.ID, comment.ID), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteComment(ctx, author, other.ID, comment.ID), ErrCommentNotFound)
	require.NoError(t, svc.DeleteComment(ctx, author, notice.ID, comment.ID))

	loaded, err := svc.Get(ctx, author, notice.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Comments, "replies go with their parent")

	c2, err := svc.AddComment(ctx, author, notice.ID, "다시", nil)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteComment(ctx, superAdmin(), notice.ID, c2.ID))
}
