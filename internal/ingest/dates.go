package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Text layouts tried after DD/MM/YYYY and YYYY-MM-DD
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"01-02-06",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Serial range accepted from cells: 1900-01-01 through 9999-12-31
const (
	minSerial = 1
	maxSerial = 2958465
)

// NormalizeDate converts a cell value to a UTC timestamp using the 1900 date
// system. It returns nil when the value is absent or cannot be read as a date.
func NormalizeDate(v any) *time.Time {
	return normalizeDate(v, false)
}

func normalizeDate(v any, date1904 bool) *time.Time {
	switch val := v.(type) {
	case nil:
		return nil
	case time.Time:
		if val.IsZero() {
			return nil
		}
		t := val.UTC()
		return &t
	case *time.Time:
		if val == nil {
			return nil
		}
		return normalizeDate(*val, date1904)
	case float64:
		return fromSerial(val, date1904)
	case int:
		return fromSerial(float64(val), date1904)
	case int64:
		return fromSerial(float64(val), date1904)
	case string:
		return parseDateText(val, date1904)
	}
	return nil
}

// fromSerial decomposes a spreadsheet serial into calendar fields
func fromSerial(serial float64, date1904 bool) *time.Time {
	if math.IsNaN(serial) || serial < minSerial || serial >= maxSerial+1 {
		return nil
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return nil
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return &t
}

func parseDateText(s string, date1904 bool) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Compact YYYYMMDD would otherwise read as a far-future serial
	if isDigits(s) && len(s) == 8 {
		if t, err := time.Parse("20060102", s); err == nil {
			return &t
		}
		return nil
	}

	// Raw cell values of date cells arrive as serial numbers
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(serial, date1904)
	}

	return ParseDateText(s)
}

// ParseDateText reads a date typed as text. Bare numbers are rejected.
func ParseDateText(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// DD/MM/YYYY is the local convention, so it wins over MM/DD
	for _, layout := range append([]string{"2/1/2006", "2006-01-02"}, fallbackLayouts...) {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
