package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Write renders headers and rows as a single-sheet workbook. Row values are
// written with excelize's own typing, so ints stay numeric and time.Time
// values become date cells.
func Write(w io.Writer, headers []string, rows [][]interface{}) error {
	book := excelize.NewFile()
	defer book.Close()

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := book.SetCellValue(defaultSheet, cell, h); err != nil {
			return fmt.Errorf("writing header %q: %w", h, err)
		}
	}

	dateStyle, err := book.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return err
	}

	for r, values := range rows {
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := book.SetCellValue(defaultSheet, cell, v); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
			if isTime(v) {
				if err := book.SetCellStyle(defaultSheet, cell, cell, dateStyle); err != nil {
					return err
				}
			}
		}
	}

	_, err = book.WriteTo(w)
	return err
}

// Bytes is Write into a buffer.
func Bytes(headers []string, rows [][]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, headers, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isTime(v interface{}) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}
