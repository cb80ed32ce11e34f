package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 아이디/비밀번호
	AuthSessionExpired     = "AUTH_SESSION_EXPIRED"     // 세션 만료
	AuthSessionInvalid     = "AUTH_SESSION_INVALID"     // 잘못된 세션
	AuthLoginIDExists      = "AUTH_LOGIN_ID_EXISTS"     // 아이디 중복
	AuthInviteInvalid      = "AUTH_INVITE_INVALID"      // 초대 코드 없음/만료

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"     // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"    // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 매장 (SHOP_) ====================
	ShopNotFound       = "SHOP_NOT_FOUND"        // 매장 없음
	StoreGroupNotFound = "STORE_GROUP_NOT_FOUND" // 매장 그룹 없음

	// ==================== 상담 (CRM_) ====================
	CRMConsultationNotFound = "CRM_CONSULTATION_NOT_FOUND" // 상담 없음
	CRMAlreadyMoved         = "CRM_ALREADY_MOVED"          // 이미 판매일보로 이동됨
	CRMNotActivated         = "CRM_NOT_ACTIVATED"          // 개통 완료 상태 아님
	CRMMoveInProgress       = "CRM_MOVE_IN_PROGRESS"       // 다른 요청이 이동 중

	// ==================== 판매일보 (REPORT_) ====================
	ReportNotFound        = "REPORT_NOT_FOUND"         // 판매일보 없음
	ReportDuplicateUpload = "REPORT_DUPLICATE_UPLOAD"  // 이미 업로드된 파일
	ReportNoMappedRows    = "REPORT_NO_MAPPED_ROWS"    // 매핑된 데이터 없음
	ReportUnreadableFile  = "REPORT_UNREADABLE_FILE"   // 파일 읽기 실패
	ReportSheetFetch      = "REPORT_SHEET_FETCH_FAILED" // 구글 시트 가져오기 실패

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
