package uploads

import (
	"fmt"
	"testing"
	"time"

	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowsWithAllFieldsIgnoresNullableColumns(t *testing.T) {
	set := schema.NewSet("test",
		schema.Column{Name: "key", Type: schema.TypeInteger, AllowNull: true},
		schema.Column{Name: "strain", Type: schema.TypeString},
	)
	rows := []spreadsheet.Row{
		{"key": "", "strain": "K-12"},
		{"key": "4", "strain": "   "},
		{"key": "4"},
	}

	assert.Equal(t, []bool{true, false, false}, RowsWithAllFields(rows, set))
	assert.Equal(t, []bool{true, true, true}, RowsWithAnyFields(rows, set))
}

func TestRowsWithAnyFieldsNeedsNonBlankValue(t *testing.T) {
	set := schema.Default().PhageOnly
	rows := []spreadsheet.Row{
		{"phage id": " ", "host species": ""},
		{"host species": "Escherichia coli"},
		{},
	}

	assert.Equal(t, []bool{false, true, false}, RowsWithAnyFields(rows, set))
}

func TestFilterAndTranslate(t *testing.T) {
	set := schema.Default().PhageOnly
	rows := []spreadsheet.Row{
		{"phage id": "PHG-1", "host species": " Escherichia coli "},
		{"phage id": "PHG-2"},
	}

	kept := Filter(rows, []bool{false, true})
	assert.Equal(t, []spreadsheet.Row{rows[1]}, kept)
	assert.Nil(t, Filter(rows, nil))

	assert.Equal(t, []specimens.Fields{
		{specimens.FieldPhageIdentifier: "PHG-1", specimens.FieldHost: "Escherichia coli"},
		{specimens.FieldPhageIdentifier: "PHG-2", specimens.FieldHost: ""},
	}, Translate(rows, set))
}

func TestCellsRoundTripThroughTranslate(t *testing.T) {
	set := schema.Default().BacteriumFull
	fields := specimens.Fields{
		specimens.FieldKey:        "12",
		specimens.FieldFreezer:    "3",
		specimens.FieldSampleDate: "2024-05-17",
		specimens.FieldStrain:     "K-12",
	}

	cells := Cells(fields, set)
	require.Len(t, cells, set.Len())
	assert.Equal(t, int64(12), cells[0])
	assert.Equal(t, int64(3), cells[1])
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), cells[7])
	assert.Equal(t, "", cells[2])

	row := make(spreadsheet.Row)
	for i, name := range set.Names() {
		row[name] = fmt.Sprint(cells[i])
	}
	translated := Translate([]spreadsheet.Row{row}, set)[0]
	assert.Equal(t, "K-12", translated[specimens.FieldStrain])
	assert.Equal(t, "12", translated[specimens.FieldKey])
}
