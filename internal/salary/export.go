package salary

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "급여"

var exportHeaders = []string{"판매자", "판매 건수", "총 마진", "총 지원금", "급여"}

// ExportXLSX writes the salary table as a single-sheet workbook.
// The period is written into the title row above the header.
func ExportXLSX(from, to string, lines []Line) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(exportSheet, "A1", fmt.Sprintf("급여 정산 %s ~ %s", from, to)); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A2", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A2", "E2", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	var total int64
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		row := []interface{}{line.SalesPerson, line.Count, line.TotalMargin, line.TotalSupport, line.Salary}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+3, err)
		}
		total += line.Salary
	}

	totalCell, err := excelize.CoordinatesToCellName(1, len(lines)+3)
	if err != nil {
		return nil, err
	}
	totalRow := []interface{}{"합계", nil, nil, nil, total}
	if err := f.SetSheetRow(exportSheet, totalCell, &totalRow); err != nil {
		return nil, fmt.Errorf("failed to write total row: %w", err)
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 18); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", "E", 14); err != nil {
		return nil, err
	}
	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
