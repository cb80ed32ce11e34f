package service

import (
	"errors"

	"github.com/ikkim/phonedesk-backend/internal/authz"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("로그인이 필요합니다")
	ErrForbidden       = authz.ErrForbidden
	ErrShopRequired    = authz.ErrShopRequired

	ErrInvalidCredentials = errors.New("아이디 또는 비밀번호가 올바르지 않습니다")
	ErrLoginIDExists      = errors.New("이미 사용 중인 아이디입니다")
	ErrInviteInvalid      = errors.New("유효하지 않거나 만료된 초대 코드입니다")
	ErrProfileNotFound    = errors.New("사용자를 찾을 수 없습니다")

	ErrShopNotFound       = errors.New("매장을 찾을 수 없습니다")
	ErrStoreGroupNotFound = errors.New("매장 그룹을 찾을 수 없습니다")

	ErrConsultationNotFound = errors.New("상담 내역을 찾을 수 없습니다")
	ErrAlreadyMoved         = errors.New("이미 판매일보로 이동된 상담입니다")
	ErrNotActivated         = errors.New("개통 완료(O) 상태의 상담만 판매일보로 이동할 수 있습니다")
	ErrMoveInProgress       = errors.New("다른 요청이 이 상담을 처리 중입니다. 잠시 후 다시 시도하세요")

	ErrReportNotFound   = errors.New("판매일보 내역을 찾을 수 없습니다")
	ErrUploadNotFound   = errors.New("업로드 기록을 찾을 수 없습니다")
	ErrDuplicateUpload  = errors.New("이미 업로드된 파일입니다")
	ErrNoMappedRows     = errors.New("매핑된 데이터가 없습니다")
	ErrImportInProgress = errors.New("같은 파일을 처리 중입니다. 잠시 후 다시 시도하세요")
	ErrArchiveDisabled  = errors.New("원본 파일 보관이 설정되어 있지 않습니다")

	ErrNoticeNotFound  = errors.New("공지사항을 찾을 수 없습니다")
	ErrCommentNotFound = errors.New("댓글을 찾을 수 없습니다")

	ErrTodoNotFound  = errors.New("일정을 찾을 수 없습니다")
	ErrLeaveNotFound = errors.New("휴무 일정을 찾을 수 없습니다")
)

// ValidationError is a 400 whose message is shown to the caller as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
