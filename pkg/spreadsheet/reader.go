// Package spreadsheet reads and writes single-sheet XLSX workbooks whose first
// row is a header.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMalformedSource is wrapped by every error caused by the file itself
// rather than by the caller.
var ErrMalformedSource = errors.New("malformed spreadsheet")

// Row maps a lower-cased header to the raw cell text.
type Row map[string]string

// Source is a fully buffered sheet. Upload files are small, and validation
// walks the rows several times.
type Source struct {
	columns []string
	rows    [][]string
}

func OpenFile(path string) (*Source, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return Open(f)
}

// Open reads the active sheet of an XLSX workbook. Cell values are read raw,
// so dates arrive as serial day numbers.
func Open(r io.Reader) (*Source, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	defer book.Close()

	sheet := book.GetSheetName(book.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedSource)
	}

	all, err := book.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMalformedSource, sheet)
	}

	return newSource(all[0], all[1:]), nil
}

func newSource(header []string, data [][]string) *Source {
	var columns []string
	for _, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			break
		}
		columns = append(columns, name)
	}
	return &Source{columns: columns, rows: data}
}

// ColumnNames returns the header strip up to the first empty cell.
func (s *Source) ColumnNames() []string {
	cp := make([]string, len(s.columns))
	copy(cp, s.columns)
	return cp
}

func (s *Source) Len() int { return len(s.rows) }

// Rows returns a fresh slice of data rows on every call. Cells past the
// header strip are dropped and missing trailing cells read as "".
func (s *Source) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, cells := range s.rows {
		row := make(Row, len(s.columns))
		for j, name := range s.columns {
			if j < len(cells) {
				row[name] = cells[j]
			} else {
				row[name] = ""
			}
		}
		out[i] = row
	}
	return out
}
