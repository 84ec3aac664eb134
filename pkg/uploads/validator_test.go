package uploads

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	columns []string
	rows    []spreadsheet.Row
}

func (s memorySource) ColumnNames() []string { return s.columns }

func (s memorySource) Rows() []spreadsheet.Row {
	out := make([]spreadsheet.Row, len(s.rows))
	for i, r := range s.rows {
		cp := make(spreadsheet.Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

type specimenMap map[uint]specimens.Kind

func (m specimenMap) Get(_ context.Context, id uint) (*specimens.Specimen, error) {
	kind, ok := m[id]
	if !ok {
		return nil, specimens.ErrNotFound
	}
	return &specimens.Specimen{ID: id, Kind: kind}, nil
}

type speciesSet map[string]bool

func (s speciesSet) Find(_ context.Context, kind lookups.Kind, name string) (*lookups.Lookup, error) {
	if kind == lookups.KindSpecies && s[strings.TrimSpace(name)] {
		return &lookups.Lookup{Kind: kind, Name: name}, nil
	}
	return nil, lookups.ErrNotFound
}

type brokenFinder struct{}

func (brokenFinder) Get(context.Context, uint) (*specimens.Specimen, error) {
	return nil, errors.New("connection reset")
}

func allColumns() []string {
	return schema.Default().UploadAll.Names()
}

func bacteriumCells() spreadsheet.Row {
	return spreadsheet.Row{
		"key": "", "freezer": "1", "drawer": "2", "box_number": "B7", "position": "A1",
		"description": "Reference stock", "project": "Phage therapy", "date": "2024-05-17",
		"storage method": "Glycerol", "name": "EC-1", "staff member": "J. Smith", "notes": "none",
		"bacterial species": "Escherichia coli", "strain": "K-12", "media": "LB",
		"plasmid name": "pUC19", "resistance marker": "Ampicillin",
		"phage id": "", "host species": "",
	}
}

func phageCells() spreadsheet.Row {
	return spreadsheet.Row{
		"key": "", "freezer": "3", "drawer": "4", "box_number": "P1", "position": "C9",
		"description": "Lytic isolate", "project": "Phage therapy", "date": "45743",
		"storage method": "SM buffer", "name": "T4-like", "staff member": "J. Smith", "notes": "none",
		"bacterial species": "", "strain": "", "media": "", "plasmid name": "", "resistance marker": "",
		"phage id": "PHG-001", "host species": "Escherichia coli",
	}
}

func newTestValidator(known specimenMap) *Validator {
	return NewValidator(schema.Default(), known, speciesSet{"Escherichia coli": true})
}

func validate(t *testing.T, v *Validator, rows ...spreadsheet.Row) []string {
	t.Helper()
	msgs, err := v.Validate(context.Background(), memorySource{columns: allColumns(), rows: rows})
	require.NoError(t, err)
	return msgs
}

func TestValidateCleanFile(t *testing.T) {
	msgs := validate(t, newTestValidator(nil), bacteriumCells(), phageCells())
	assert.Empty(t, msgs)
	assert.NotNil(t, msgs)
}

func TestValidateMissingColumnsStopsEarly(t *testing.T) {
	columns := allColumns()
	var kept []string
	for _, c := range columns {
		if c != "strain" && c != "host species" {
			kept = append(kept, c)
		}
	}
	row := bacteriumCells()
	row["freezer"] = "lots"

	msgs, err := newTestValidator(nil).Validate(context.Background(), memorySource{columns: kept, rows: []spreadsheet.Row{row}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Missing column 'strain'", "Missing column 'host species'"}, msgs)
}

func TestValidateAmbiguousRow(t *testing.T) {
	row := bacteriumCells()
	row["phage id"] = "PHG-001"
	row["host species"] = "Escherichia coli"

	msgs := validate(t, newTestValidator(nil), row)
	assert.Equal(t, []string{"Row 1: contains columns for both bacteria and phages"}, msgs)
}

func TestValidateIncompleteRowIsInsufficient(t *testing.T) {
	row := bacteriumCells()
	row["strain"] = ""

	msgs := validate(t, newTestValidator(nil), row)
	assert.Equal(t, []string{"Row 1: does not contain enough information"}, msgs)
}

func TestValidateStaffMemberFitsLookupName(t *testing.T) {
	row := bacteriumCells()
	row["staff member"] = strings.Repeat("s", 101)
	assert.Equal(t, []string{"Row 1: staff member: Text is longer than 100 characters"}, validate(t, newTestValidator(nil), row))
}

func TestValidateLengthBoundary(t *testing.T) {
	ok := bacteriumCells()
	ok["position"] = strings.Repeat("A", 20)
	assert.Empty(t, validate(t, newTestValidator(nil), ok))

	long := bacteriumCells()
	long["position"] = strings.Repeat("A", 21)
	assert.Equal(t, []string{"Row 1: position: Text is longer than 20 characters"}, validate(t, newTestValidator(nil), long))

	accented := bacteriumCells()
	accented["strain"] = strings.Repeat("é", 100)
	assert.Empty(t, validate(t, newTestValidator(nil), accented))
}

func TestValidateTypes(t *testing.T) {
	row := bacteriumCells()
	row["freezer"] = "top shelf"
	row["drawer"] = "2.5"
	row["date"] = "last tuesday"

	msgs := validate(t, newTestValidator(nil), row)
	assert.Equal(t, []string{
		"Row 1: freezer: Invalid value",
		"Row 1: drawer: Invalid value",
		"Row 1: date: Invalid value",
	}, msgs)
}

func TestValidateRejectsOutOfRangeDateSerials(t *testing.T) {
	var rows []spreadsheet.Row
	for _, value := range []string{"1e300", "99999999999", "2958466", "2958465"} {
		row := bacteriumCells()
		row["date"] = value
		rows = append(rows, row)
	}

	msgs := validate(t, newTestValidator(nil), rows...)
	assert.Equal(t, []string{
		"Row 1: date: Invalid value",
		"Row 2: date: Invalid value",
		"Row 3: date: Invalid value",
	}, msgs)
}

func TestValidateKeys(t *testing.T) {
	v := newTestValidator(specimenMap{7: specimens.KindPhage, 8: specimens.KindBacterium})

	missing := bacteriumCells()
	missing["key"] = "99"
	assert.Equal(t, []string{"Row 1: Key does not exist"}, validate(t, v, missing))

	wrong := bacteriumCells()
	wrong["key"] = "7"
	assert.Equal(t, []string{"Row 1: Key is for the wrong type of specimen"}, validate(t, v, wrong))

	right := bacteriumCells()
	right["key"] = "8.0"
	assert.Empty(t, validate(t, v, right))

	notANumber := bacteriumCells()
	notANumber["key"] = "eight"
	assert.Equal(t, []string{"Row 1: key: Invalid value"}, validate(t, v, notANumber))
}

func TestValidateUnknownSpecies(t *testing.T) {
	bacterium := bacteriumCells()
	bacterium["bacterial species"] = "Bacillus subtilis"
	phage := phageCells()
	phage["host species"] = "Vibrio cholerae"

	msgs := validate(t, newTestValidator(nil), bacterium, phage)
	assert.Equal(t, []string{
		"Row 1: Bacterial Species does not exist",
		"Row 1: Host Species does not exist",
	}, msgs)
}

func TestValidateNumbersRowsWithinEachSubtype(t *testing.T) {
	phage := phageCells()
	badBacterium := bacteriumCells()
	badBacterium["freezer"] = "x"
	badPhage := phageCells()
	badPhage["drawer"] = "y"
	incomplete := phageCells()
	incomplete["phage id"] = ""

	msgs := validate(t, newTestValidator(nil), phage, badBacterium, badPhage, incomplete)
	assert.Equal(t, []string{
		"Row 4: does not contain enough information",
		"Row 1: freezer: Invalid value",
		"Row 2: drawer: Invalid value",
	}, msgs)
}

func TestValidateDeduplicatesAcrossSubtypePasses(t *testing.T) {
	row := bacteriumCells()
	row["phage id"] = "PHG-001"
	row["host species"] = "Escherichia coli"
	row["freezer"] = "x"

	msgs := validate(t, newTestValidator(nil), row)
	assert.Equal(t, []string{
		"Row 1: contains columns for both bacteria and phages",
		"Row 1: freezer: Invalid value",
	}, msgs)
}

func TestValidateIsRepeatable(t *testing.T) {
	row := bacteriumCells()
	row["key"] = "12"
	v := newTestValidator(nil)

	first := validate(t, v, row, row)
	second := validate(t, v, row, row)

	assert.Equal(t, []string{"Row 1: Key does not exist", "Row 2: Key does not exist"}, first)
	assert.Equal(t, first, second)
}

func TestValidateReportsStoreFailures(t *testing.T) {
	row := bacteriumCells()
	row["key"] = "3"
	v := NewValidator(schema.Default(), brokenFinder{}, speciesSet{"Escherichia coli": true})

	_, err := v.Validate(context.Background(), memorySource{columns: allColumns(), rows: []spreadsheet.Row{row}})
	assert.ErrorContains(t, err, "connection reset")
}
