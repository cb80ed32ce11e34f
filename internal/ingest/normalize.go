package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const isoDateLayout = "2006-01-02"

var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	numberPrefix  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// dateLayouts are tried in order when a cell is not already ISO formatted.
var dateLayouts = []string{
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006.01.02.",
	"2006. 1. 2",
	"2006. 1. 2.",
	"2006. 01. 02",
	"2006. 01. 02.",
	"20060102",
	"06.1.2",
	"06-1-2",
	"06. 1. 2.",
	"2006년 1월 2일",
	"2006년 01월 02일",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006.01.02 15:04",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC1123,
}

// Excel serials accepted from text cells. Narrower than the full Excel range so that
// plain numbers such as years are not read as dates.
const (
	minTextSerial = 20000 // 1954-10-03
	maxTextSerial = 80000 // 2119-01-10

	maxExcelSerial = 2958465 // 9999-12-31
)

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// CellText renders any cell value as a trimmed string. nil becomes "".
func CellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return trimSpace(t)
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(isoDateLayout)
	case fmt.Stringer:
		return trimSpace(t.String())
	}
	return trimSpace(fmt.Sprint(v))
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber reads a numeric cell. Thousands separators are removed and the leading
// numeric prefix is used, so "15,000원" is 15000. Anything else, including NaN, is 0.
func ParseNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil, bool:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		f = parseNumericPrefix(t.String())
	default:
		f = parseNumericPrefix(CellText(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumericPrefix(s string) float64 {
	s = trimSpace(strings.ReplaceAll(s, ",", ""))
	m := numberPrefix.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// NormalizeDate returns YYYY-MM-DD when the cell can be read as a date and the raw
// trimmed text otherwise. It never fails and is idempotent on its own output.
func NormalizeDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(isoDateLayout)
	case float64:
		return serialOrText(t, 1, maxExcelSerial, v)
	case int:
		return serialOrText(float64(t), 1, maxExcelSerial, v)
	case int64:
		return serialOrText(float64(t), 1, maxExcelSerial, v)
	}

	s := CellText(v)
	if s == "" {
		return ""
	}
	if isoDatePrefix.MatchString(s) {
		return s[:len(isoDateLayout)]
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.Format(isoDateLayout)
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return serialOrText(serial, minTextSerial, maxTextSerial, s)
	}
	return s
}

func serialOrText(serial, min, max float64, raw any) string {
	if serial >= min && serial <= max {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed.Format(isoDateLayout)
		}
	}
	return CellText(raw)
}
