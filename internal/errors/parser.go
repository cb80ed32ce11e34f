package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError 저장소 에러를 사용자 친화적인 코드와 메시지로 변환
// 내부 구조(테이블/제약조건 이름)는 응답에 노출하지 않는다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "서버 오류가 발생했습니다"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pgErr.ConstraintName + " " + pgErr.Message)
		case pgForeignKeyViolation:
			return ErrorInfo{Code: ResourceNotFound, Message: "참조하는 데이터를 찾을 수 없습니다"}
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "필수 항목이 누락되었습니다"}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidInput, Message: "입력값이 유효하지 않습니다"}
		}
	}

	// 드라이버가 PgError를 감싸지 않은 경우 (sqlite 등)
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(detail string) ErrorInfo {
	detail = strings.ToLower(detail)

	if strings.Contains(detail, "login_id") {
		return ErrorInfo{Code: AuthLoginIDExists, Message: "이미 사용 중인 아이디입니다"}
	}
	if strings.Contains(detail, "file_hash") || strings.Contains(detail, "report_uploads") {
		return ErrorInfo{Code: ReportDuplicateUpload, Message: "이미 업로드된 파일입니다"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "이미 존재하는 데이터입니다"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "shop") || strings.Contains(contextLower, "매장"):
		return "매장을 찾을 수 없습니다"
	case strings.Contains(contextLower, "consultation") || strings.Contains(contextLower, "상담"):
		return "상담 내역을 찾을 수 없습니다"
	case strings.Contains(contextLower, "report") || strings.Contains(contextLower, "판매일보"):
		return "판매일보를 찾을 수 없습니다"
	case strings.Contains(contextLower, "notice") || strings.Contains(contextLower, "공지"):
		return "공지사항을 찾을 수 없습니다"
	case strings.Contains(contextLower, "profile") || strings.Contains(contextLower, "사용자"):
		return "사용자를 찾을 수 없습니다"
	}
	return "요청한 데이터를 찾을 수 없습니다"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "등록"):
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정"):
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제"):
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "import") || strings.Contains(contextLower, "업로드"):
		return "판매일보 업로드 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
