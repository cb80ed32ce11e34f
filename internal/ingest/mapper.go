package ingest

import (
	"fmt"
	"sort"

	"github.com/ikkim/phonedesk-backend/internal/app/model"
)

// ErrNoMappedData is reported once when a non-empty row set yields no entries.
const ErrNoMappedData = "매핑된 데이터가 없습니다. 헤더 행에 고객명 또는 연락처 컬럼이 있는지 확인하세요."

// MapResult is the outcome of mapping a sheet. Errors are user-facing messages; the
// mapper itself never fails.
type MapResult struct {
	Entries []model.ReportEntry
	Errors  []string
	// Unmapped lists header cells that matched no field.
	Unmapped []string
}

type column struct {
	index int
	field Field
}

type setter func(e *model.ReportEntry, cell any)

func textSetter(dst func(e *model.ReportEntry) *string) setter {
	return func(e *model.ReportEntry, cell any) { *dst(e) = CellText(cell) }
}

func numberSetter(dst func(e *model.ReportEntry) *float64) setter {
	return func(e *model.ReportEntry, cell any) { *dst(e) = ParseNumber(cell) }
}

var setters = map[Field]setter{
	FieldName:           textSetter(func(e *model.ReportEntry) *string { return &e.Name }),
	FieldPhone:          textSetter(func(e *model.ReportEntry) *string { return &e.Phone }),
	FieldProductName:    textSetter(func(e *model.ReportEntry) *string { return &e.ProductName }),
	FieldSalesPerson:    textSetter(func(e *model.ReportEntry) *string { return &e.SalesPerson }),
	FieldCarrier:        textSetter(func(e *model.ReportEntry) *string { return &e.Carrier }),
	FieldActivationType: textSetter(func(e *model.ReportEntry) *string { return &e.ActivationType }),
	FieldPlanName:       textSetter(func(e *model.ReportEntry) *string { return &e.PlanName }),
	FieldInflowType:     textSetter(func(e *model.ReportEntry) *string { return &e.InflowType }),
	FieldSerialNumber:   textSetter(func(e *model.ReportEntry) *string { return &e.SerialNumber }),
	FieldMemo:           textSetter(func(e *model.ReportEntry) *string { return &e.Memo }),
	FieldAmount:         numberSetter(func(e *model.ReportEntry) *float64 { return &e.Amount }),
	FieldMargin:         numberSetter(func(e *model.ReportEntry) *float64 { return &e.Margin }),
	FieldSupportAmount:  numberSetter(func(e *model.ReportEntry) *float64 { return &e.SupportAmount }),
	FieldFaceAmount:     numberSetter(func(e *model.ReportEntry) *float64 { return &e.FaceAmount }),
	FieldVerbalA:        numberSetter(func(e *model.ReportEntry) *float64 { return &e.VerbalA }),
	FieldVerbalB:        numberSetter(func(e *model.ReportEntry) *float64 { return &e.VerbalB }),
	FieldVerbalC:        numberSetter(func(e *model.ReportEntry) *float64 { return &e.VerbalC }),
	FieldVerbalD:        numberSetter(func(e *model.ReportEntry) *float64 { return &e.VerbalD }),
	FieldVerbalE:        numberSetter(func(e *model.ReportEntry) *float64 { return &e.VerbalE }),
	FieldVerbalF:        numberSetter(func(e *model.ReportEntry) *float64 { return &e.VerbalF }),
	FieldSaleDate: func(e *model.ReportEntry, cell any) {
		e.SaleDate = NormalizeDate(cell)
	},
}

// MapRows converts raw sheet rows into report entries for shopID using the header row.
// Rows with neither a name nor a phone are skipped. When several columns map to the
// same field the rightmost one wins.
func MapRows(header []string, rows [][]any, shopID string) MapResult {
	var result MapResult

	columns := make([]column, 0, len(header))
	for i, h := range header {
		field, ok := LookupHeader(h)
		if !ok {
			if name := trimSpace(h); name != "" {
				result.Unmapped = append(result.Unmapped, name)
			}
			continue
		}
		columns = append(columns, column{index: i, field: field})
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].index < columns[j].index })

	for _, row := range rows {
		entry, ok := mapRow(columns, row, shopID)
		if !ok {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	if len(result.Entries) == 0 && len(rows) > 0 {
		result.Errors = append(result.Errors, ErrNoMappedData)
	}
	return result
}

func mapRow(columns []column, row []any, shopID string) (model.ReportEntry, bool) {
	entry := model.ReportEntry{ShopID: shopID}
	for _, col := range columns {
		if col.index >= len(row) {
			continue
		}
		setters[col.field](&entry, row[col.index])
	}

	if entry.Name == "" && entry.Phone == "" {
		return entry, false
	}
	applyDerivedMargin(&entry)
	return entry, true
}

// applyDerivedMargin fills an empty margin with face amount plus verbal A~F.
func applyDerivedMargin(e *model.ReportEntry) {
	if e.Margin != 0 {
		return
	}
	sum := e.FaceAmount + e.VerbalA + e.VerbalB + e.VerbalC + e.VerbalD + e.VerbalE + e.VerbalF
	if sum != 0 {
		e.Margin = sum
	}
}

// StringRows widens string rows for MapRows.
func StringRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		out[i] = cells
	}
	return out
}

// Summary describes a mapping for logs and API responses.
func (r MapResult) Summary() string {
	return fmt.Sprintf("entries=%d errors=%d unmapped=%d", len(r.Entries), len(r.Errors), len(r.Unmapped))
}
