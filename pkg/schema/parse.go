package schema

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"2006/01/02",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseInteger accepts whole numbers, including integral floats such as the
// "12.0" a spreadsheet may store for a numeric cell.
func ParseInteger(value string) (int64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseDate accepts the textual layouts above or a raw spreadsheet serial
// day number. The result is truncated to a UTC date.
func ParseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(serial)
	}
	return time.Time{}, false
}

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// serialDate converts a 1900-system day number. Day 60 is the 29 February
// 1900 that the format counts but that never existed, so it is rejected and
// days before it are counted from 31 December 1899.
func serialDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial >= maxSerial+1 {
		return time.Time{}, false
	}
	day := math.Floor(serial)
	var t time.Time
	switch {
	case day < 60:
		t = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(day))
	case day == 60:
		return time.Time{}, false
	default:
		converted, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		t = dateOnly(converted)
	}
	if y := t.Year(); y < 1900 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
