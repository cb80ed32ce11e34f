package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportEntry 판매일보 행
type ReportEntry struct {
	ID            string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ShopID        string  `gorm:"type:varchar(36);not null;index" json:"shop_id"`
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	SaleDate      string  `gorm:"type:varchar(32);index" json:"sale_date"`
	ProductName   string  `json:"product_name"`
	Amount        float64 `json:"amount"`
	Margin        float64 `json:"margin"`
	SalesPerson   string  `gorm:"index" json:"sales_person"`
	SupportAmount float64 `json:"support_amount"`

	// 상세 항목 (시트에 있을 때만 채워짐)
	Carrier        string  `json:"carrier"`         // 통신사
	ActivationType string  `json:"activation_type"` // 신규/번호이동/기기변경
	PlanName       string  `json:"plan_name"`       // 요금제
	InflowType     string  `json:"inflow_type"`
	SerialNumber   string  `json:"serial_number"`
	Memo           string  `gorm:"type:text" json:"memo"`
	FaceAmount     float64 `json:"face_amount"` // 액면
	VerbalA        float64 `json:"verbal_a"`    // 구두 A~F
	VerbalB        float64 `json:"verbal_b"`
	VerbalC        float64 `json:"verbal_c"`
	VerbalD        float64 `json:"verbal_d"`
	VerbalE        float64 `json:"verbal_e"`
	VerbalF        float64 `json:"verbal_f"`

	SourceConsultationID *string   `gorm:"type:varchar(36);index" json:"source_consultation_id,omitempty"`
	UploadID             *string   `gorm:"type:varchar(36);index" json:"upload_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (ReportEntry) TableName() string {
	return "report_entries"
}

func (r *ReportEntry) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type UploadSource string

const (
	UploadSourceFile   UploadSource = "file"
	UploadSourceRows   UploadSource = "rows"
	UploadSourceSheets UploadSource = "google_sheets"
)

// ReportUpload 판매일보 일괄 업로드 기록. 매장별 파일 해시 중복을 막는다.
type ReportUpload struct {
	ID         string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	ShopID     string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_report_uploads_shop_hash" json:"shop_id"`
	FileHash   string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_report_uploads_shop_hash" json:"file_hash"`
	FileName   string       `json:"file_name"`
	Source     UploadSource `gorm:"type:varchar(20)" json:"source"`
	RowCount   int          `json:"row_count"`
	ArchiveKey string       `json:"archive_key,omitempty"`
	UploadedBy string       `gorm:"type:varchar(36)" json:"uploaded_by"`
	CreatedAt  time.Time    `json:"created_at"`
}

func (ReportUpload) TableName() string {
	return "report_uploads"
}

func (u *ReportUpload) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
