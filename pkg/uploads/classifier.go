package uploads

import (
	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/phage-catalogue/platform/pkg/specimens"
)

// RowsWithAllFields reports, per row, whether every non-nullable column of
// set has a value.
func RowsWithAllFields(rows []spreadsheet.Row, set schema.Set) []bool {
	columns := set.Columns()
	out := make([]bool, len(rows))
	for i, row := range rows {
		complete := true
		for _, c := range columns {
			if !c.AllowNull && !c.HasValue(row) {
				complete = false
				break
			}
		}
		out[i] = complete
	}
	return out
}

// RowsWithAnyFields reports, per row, whether any column of set has a value.
func RowsWithAnyFields(rows []spreadsheet.Row, set schema.Set) []bool {
	columns := set.Columns()
	out := make([]bool, len(rows))
	for i, row := range rows {
		for _, c := range columns {
			if c.HasValue(row) {
				out[i] = true
				break
			}
		}
	}
	return out
}

// Filter keeps the rows whose mask entry is true.
func Filter(rows []spreadsheet.Row, mask []bool) []spreadsheet.Row {
	var out []spreadsheet.Row
	for i, row := range rows {
		if i < len(mask) && mask[i] {
			out = append(out, row)
		}
	}
	return out
}

// Translate renames each row's cells to the canonical field names of set,
// trimming values. Columns outside set are dropped.
func Translate(rows []spreadsheet.Row, set schema.Set) []specimens.Fields {
	columns := set.Columns()
	out := make([]specimens.Fields, len(rows))
	for i, row := range rows {
		fields := make(specimens.Fields, len(columns))
		for _, c := range columns {
			fields[c.Canonical()] = c.Trimmed(row)
		}
		out[i] = fields
	}
	return out
}

// Cells lays fields out in the column order of set, typed for writing back
// to a workbook: integer columns as int64, date columns as time.Time and
// everything else as text. Blank or unparsable values are written as text.
func Cells(fields specimens.Fields, set schema.Set) []interface{} {
	columns := set.Columns()
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		value := fields[c.Canonical()]
		out[i] = value
		switch c.Type {
		case schema.TypeInteger:
			if n, ok := schema.ParseInteger(value); ok {
				out[i] = n
			}
		case schema.TypeDate:
			if d, ok := schema.ParseDate(value); ok {
				out[i] = d
			}
		}
	}
	return out
}
