package ingest

// Field is a canonical ledger column.
type Field string

const (
	FieldName           Field = "name"
	FieldPhone          Field = "phone"
	FieldSaleDate       Field = "saleDate"
	FieldProductName    Field = "productName"
	FieldAmount         Field = "amount"
	FieldMargin         Field = "margin"
	FieldSalesPerson    Field = "salesPerson"
	FieldSupportAmount  Field = "supportAmount"
	FieldCarrier        Field = "carrier"
	FieldActivationType Field = "activationType"
	FieldPlanName       Field = "planName"
	FieldInflowType     Field = "inflowType"
	FieldSerialNumber   Field = "serialNumber"
	FieldMemo           Field = "memo"
	FieldFaceAmount     Field = "faceAmount"
	FieldVerbalA        Field = "verbalA"
	FieldVerbalB        Field = "verbalB"
	FieldVerbalC        Field = "verbalC"
	FieldVerbalD        Field = "verbalD"
	FieldVerbalE        Field = "verbalE"
	FieldVerbalF        Field = "verbalF"
)

// headerMap maps a trimmed header cell to its field. Lookup is exact and case-sensitive;
// new synonyms are added here, not in code.
var headerMap = map[string]Field{
	// 고객명
	"고객명": FieldName, "이름": FieldName, "성명": FieldName, "가입자": FieldName, "가입자명": FieldName,
	"고객": FieldName, "name": FieldName, "Name": FieldName, "customer": FieldName, "customerName": FieldName,

	// 연락처
	"연락처": FieldPhone, "전화번호": FieldPhone, "휴대폰": FieldPhone, "휴대폰번호": FieldPhone,
	"핸드폰": FieldPhone, "개통번호": FieldPhone, "phone": FieldPhone, "Phone": FieldPhone, "tel": FieldPhone,

	// 판매일
	"개통일": FieldSaleDate, "개통일자": FieldSaleDate, "판매일": FieldSaleDate, "판매일자": FieldSaleDate,
	"날짜": FieldSaleDate, "일자": FieldSaleDate, "date": FieldSaleDate, "Date": FieldSaleDate,
	"saleDate": FieldSaleDate, "sale_date": FieldSaleDate,

	// 모델
	"모델명": FieldProductName, "모델": FieldProductName, "기종": FieldProductName, "단말기": FieldProductName,
	"상품명": FieldProductName, "product": FieldProductName, "productName": FieldProductName,
	"product_name": FieldProductName, "model": FieldProductName,

	// 금액
	"판매금액": FieldAmount, "금액": FieldAmount, "출고가": FieldAmount, "할부원금": FieldAmount,
	"amount": FieldAmount, "Amount": FieldAmount,

	// 마진
	"마진": FieldMargin, "최종마진": FieldMargin, "블랙": FieldMargin, "정산금": FieldMargin,
	"수익": FieldMargin, "margin": FieldMargin, "Margin": FieldMargin,

	// 판매자
	"판매자": FieldSalesPerson, "담당자": FieldSalesPerson, "판매직원": FieldSalesPerson, "직원": FieldSalesPerson,
	"영업사원": FieldSalesPerson, "salesPerson": FieldSalesPerson, "sales_person": FieldSalesPerson,
	"seller": FieldSalesPerson,

	// 지원금
	"지원금": FieldSupportAmount, "공시지원금": FieldSupportAmount, "추가지원금": FieldSupportAmount,
	"support": FieldSupportAmount, "supportAmount": FieldSupportAmount, "support_amount": FieldSupportAmount,

	// 상세
	"통신사": FieldCarrier, "carrier": FieldCarrier,
	"개통유형": FieldActivationType, "가입유형": FieldActivationType, "유형": FieldActivationType,
	"activationType": FieldActivationType,
	"요금제": FieldPlanName, "plan": FieldPlanName, "planName": FieldPlanName,
	"유입경로": FieldInflowType, "유입": FieldInflowType, "inflow": FieldInflowType, "inflowType": FieldInflowType,
	"일련번호": FieldSerialNumber, "단말일련번호": FieldSerialNumber, "serial": FieldSerialNumber,
	"메모": FieldMemo, "비고": FieldMemo, "특이사항": FieldMemo, "memo": FieldMemo, "note": FieldMemo,

	// 액면 + 구두 A~F (마진 미기재 시 합산)
	"액면": FieldFaceAmount, "액면가": FieldFaceAmount, "faceAmount": FieldFaceAmount, "face_amount": FieldFaceAmount,
	"구두A": FieldVerbalA, "구두 A": FieldVerbalA, "verbalA": FieldVerbalA,
	"구두B": FieldVerbalB, "구두 B": FieldVerbalB, "verbalB": FieldVerbalB,
	"구두C": FieldVerbalC, "구두 C": FieldVerbalC, "verbalC": FieldVerbalC,
	"구두D": FieldVerbalD, "구두 D": FieldVerbalD, "verbalD": FieldVerbalD,
	"구두E": FieldVerbalE, "구두 E": FieldVerbalE, "verbalE": FieldVerbalE,
	"구두F": FieldVerbalF, "구두 F": FieldVerbalF, "verbalF": FieldVerbalF,
}

// LookupHeader returns the field for a header cell, if any.
func LookupHeader(header string) (Field, bool) {
	f, ok := headerMap[trimSpace(header)]
	return f, ok
}
