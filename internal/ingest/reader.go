package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("지원하지 않는 파일 형식입니다 (xlsx, xlsm, csv)")
	ErrEmptySheet        = errors.New("시트에 데이터가 없습니다")
)

type Format string

const (
	FormatWorkbook Format = "xlsx"
	FormatCSV      Format = "csv"
)

// Sheet is a header row plus the data rows below it.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// DetectFormat picks a reader from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatWorkbook, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", ErrUnsupportedFormat
}

// HashContent is the duplicate-upload key of a file.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadFile parses an uploaded ledger.
func ReadFile(filename string, data []byte) (*Sheet, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if format == FormatCSV {
		return ReadCSV(bytes.NewReader(data))
	}
	return ReadWorkbook(bytes.NewReader(data))
}

// ReadWorkbook reads the first sheet of a workbook. Raw cell values are used so that
// dates arrive as serials and amounts without display formatting.
func ReadWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	sheet, err := fromStringRows(rows)
	if err != nil {
		return nil, err
	}
	sheet.Name = name
	return sheet, nil
}

// ReadCSV reads comma separated text. A UTF-8 BOM is dropped and ragged rows are allowed.
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return fromStringRows(rows)
}

func fromStringRows(rows [][]string) (*Sheet, error) {
	// 앞쪽 빈 행은 건너뛰고 첫 번째 비어있지 않은 행을 헤더로 사용
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		return &Sheet{Header: row, Rows: StringRows(rows[i+1:])}, nil
	}
	return nil, ErrEmptySheet
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
