package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNoticeRepository_ListPinnedFirst(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewNoticeRepository(testDB)
	ctx := context.Background()
	base := time.Now()

	for i, n := range []model.Notice{
		{AuthorID: "admin", Title: "오래된 고정", Pinned: true, CreatedAt: base.Add(-3 * time.Hour)},
		{AuthorID: "admin", Title: "일반", CreatedAt: base.Add(-2 * time.Hour)},
		{AuthorID: "admin", Title: "최신 일반", CreatedAt: base.Add(-1 * time.Hour)},
	} {
		n := n
		require.NoError(t, repo.Create(ctx, &n), i)
	}

	notices, total, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notices, 3)
	assert.Equal(t, "오래된 고정", notices[0].Title)
	assert.Equal(t, "최신 일반", notices[1].Title)
	assert.Equal(t, "일반", notices[2].Title)
}

func TestNoticeRepository_Comments(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewNoticeRepository(testDB)
	ctx := context.Background()

	notice := &model.Notice{AuthorID: "admin", Title: "공지"}
	require.NoError(t, repo.Create(ctx, notice))

	parent := &model.NoticeComment{NoticeID: notice.ID, AuthorID: "u1", Content: "질문"}
	require.NoError(t, repo.CreateComment(ctx, parent))
	reply := &model.NoticeComment{NoticeID: notice.ID, AuthorID: "admin", ParentID: &parent.ID, Content: "답변"}
	require.NoError(t, repo.CreateComment(ctx, reply))

	found, err := repo.FindByID(ctx, notice.ID)
	require.NoError(t, err)
	assert.Len(t, found.Comments, 2)

	require.NoError(t, repo.DeleteComment(ctx, parent.ID))
	_, err = repo.FindCommentByID(ctx, reply.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, notice.ID))
	assert.ErrorIs(t, repo.Delete(ctx, notice.ID), gorm.ErrRecordNotFound)
}
