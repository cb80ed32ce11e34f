package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

type NoticeController struct {
	noticeService service.NoticeService
}

func NewNoticeController(noticeService service.NoticeService) *NoticeController {
	return &NoticeController{noticeService: noticeService}
}

type NoticeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Pinned  bool   `json:"pinned"`
}

type NoticePatchRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}

type CommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// ListNotices pinned first, newest first
// GET /api/v1/notices
func (ctrl *NoticeController) ListNotices(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	limit, offset := pagination(c)
	notices, total, err := ctrl.noticeService.List(c.Request.Context(), auth, limit, offset)
	if err != nil {
		respondError(c, err, "list notices")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notices": notices,
		"total":   total,
	})
}

// GetNotice
// GET /api/v1/notices/:id
func (ctrl *NoticeController) GetNotice(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	notice, err := ctrl.noticeService.Get(c.Request.Context(), auth, c.Param("id"))
	if err != nil {
		respondError(c, err, "get notice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notice": notice})
}

// CreateNotice
// POST /api/v1/notices
func (ctrl *NoticeController) CreateNotice(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	notice, err := ctrl.noticeService.Create(c.Request.Context(), auth, service.NoticeInput{
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
	})
	if err != nil {
		respondError(c, err, "create notice")
		return
	}

	log.Info("Notice created", map[string]interface{}{
		"notice_id": notice.ID,
	})
	c.JSON(http.StatusCreated, gin.H{"notice": notice})
}

// UpdateNotice
// PATCH /api/v1/notices/:id
func (ctrl *NoticeController) UpdateNotice(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req NoticePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	notice, err := ctrl.noticeService.Update(c.Request.Context(), auth, c.Param("id"), service.NoticePatch{
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
	})
	if err != nil {
		respondError(c, err, "update notice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notice": notice})
}

// DeleteNotice
// DELETE /api/v1/notices/:id
func (ctrl *NoticeController) DeleteNotice(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	if err := ctrl.noticeService.Delete(c.Request.Context(), auth, c.Param("id")); err != nil {
		respondError(c, err, "delete notice")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notice deleted"})
}

// AddComment
// POST /api/v1/notices/:id/comments
func (ctrl *NoticeController) AddComment(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	comment, err := ctrl.noticeService.AddComment(c.Request.Context(), auth, c.Param("id"), req.Content, req.ParentID)
	if err != nil {
		respondError(c, err, "add notice comment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment author or super_admin
// DELETE /api/v1/notices/:id/comments/:commentId
func (ctrl *NoticeController) DeleteComment(c *gin.Context) {
	auth, ok := authContext(c)
	if !ok {
		return
	}

	if err := ctrl.noticeService.DeleteComment(c.Request.Context(), auth, c.Param("id"), c.Param("commentId")); err != nil {
		respondError(c, err, "delete notice comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
