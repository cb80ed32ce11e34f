package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/service"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	apperrors "github.com/ikkim/phonedesk-backend/internal/errors"
	"github.com/ikkim/phonedesk-backend/internal/middleware"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// notFoundCodes 서비스 not-found 에러별 응답 코드
var notFoundCodes = []struct {
	err  error
	code string
}{
	{service.ErrProfileNotFound, apperrors.ResourceNotFound},
	{service.ErrShopNotFound, apperrors.ShopNotFound},
	{service.ErrStoreGroupNotFound, apperrors.StoreGroupNotFound},
	{service.ErrConsultationNotFound, apperrors.CRMConsultationNotFound},
	{service.ErrReportNotFound, apperrors.ReportNotFound},
	{service.ErrUploadNotFound, apperrors.ResourceNotFound},
	{service.ErrNoticeNotFound, apperrors.ResourceNotFound},
	{service.ErrCommentNotFound, apperrors.ResourceNotFound},
	{service.ErrTodoNotFound, apperrors.ResourceNotFound},
	{service.ErrLeaveNotFound, apperrors.ResourceNotFound},
	{service.ErrInviteInvalid, apperrors.AuthInviteInvalid},
}

var conflictCodes = []struct {
	err  error
	code string
}{
	{service.ErrAlreadyMoved, apperrors.CRMAlreadyMoved},
	{service.ErrMoveInProgress, apperrors.CRMMoveInProgress},
	{service.ErrDuplicateUpload, apperrors.ReportDuplicateUpload},
	{service.ErrImportInProgress, apperrors.ResourceConflict},
	{service.ErrLoginIDExists, apperrors.AuthLoginIDExists},
}

// respondError maps a service error to its status code. Unknown errors are logged and become 500.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var validation *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		apperrors.Unauthorized(c, "")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, err.Error())
		return
	case errors.Is(err, authz.ErrForbidden), errors.Is(err, authz.ErrShopRequired):
		log.Warn("Request denied by scope", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
		apperrors.Forbidden(c, err.Error())
		return
	case errors.As(err, &validation):
		apperrors.RespondWithValidationError(c, map[string]string{validation.Field: validation.Message})
		return
	case errors.Is(err, service.ErrNotActivated):
		apperrors.BadRequest(c, apperrors.CRMNotActivated, err.Error())
		return
	case errors.Is(err, service.ErrNoMappedRows):
		apperrors.BadRequest(c, apperrors.ReportNoMappedRows, err.Error())
		return
	case errors.Is(err, service.ErrArchiveDisabled):
		apperrors.NotFound(c, apperrors.ResourceNotFound, err.Error())
		return
	}

	for _, nf := range notFoundCodes {
		if errors.Is(err, nf.err) {
			apperrors.NotFound(c, nf.code, err.Error())
			return
		}
	}
	for _, cf := range conflictCodes {
		if errors.Is(err, cf.err) {
			apperrors.Conflict(c, cf.code, err.Error())
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"action": action,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, action)
}

// authContext returns the caller or writes a 401.
func authContext(c *gin.Context) (*authz.AuthContext, bool) {
	auth, ok := middleware.GetAuthContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return nil, false
	}
	return auth, true
}

func badJSON(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
}

// pagination reads limit/offset query params with sane bounds.
func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
