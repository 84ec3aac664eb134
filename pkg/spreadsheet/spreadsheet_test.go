package spreadsheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLowerCasesHeadersUpToFirstBlank(t *testing.T) {
	content, err := Bytes(
		[]string{" Key ", "FREEZER", "Storage Method", "", "ignored"},
		[][]interface{}{
			{nil, 3, "Glycerol", nil, "x"},
			{12, 4},
		},
	)
	require.NoError(t, err)

	src, err := Open(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"key", "freezer", "storage method"}, src.ColumnNames())
	require.Equal(t, 2, src.Len())

	rows := src.Rows()
	assert.Equal(t, Row{"key": "", "freezer": "3", "storage method": "Glycerol"}, rows[0])
	assert.Equal(t, Row{"key": "12", "freezer": "4", "storage method": ""}, rows[1])
}

func TestRowsReturnsFreshCopies(t *testing.T) {
	content, err := Bytes([]string{"name"}, [][]interface{}{{"first"}})
	require.NoError(t, err)
	src, err := Open(bytes.NewReader(content))
	require.NoError(t, err)

	rows := src.Rows()
	rows[0]["name"] = "changed"

	assert.Equal(t, "first", src.Rows()[0]["name"])
}

func TestDatesAreReadAsSerialNumbers(t *testing.T) {
	sampled := time.Date(2025, 3, 27, 0, 0, 0, 0, time.UTC)
	content, err := Bytes([]string{"date"}, [][]interface{}{{sampled}})
	require.NoError(t, err)

	src, err := Open(bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "45743", src.Rows()[0]["date"])
}

func TestOpenMalformed(t *testing.T) {
	_, err := Open(strings.NewReader("key,freezer\n1,2\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedSource))
}

func TestOpenEmptySheet(t *testing.T) {
	content, err := Bytes(nil, nil)
	require.NoError(t, err)

	_, err = Open(bytes.NewReader(content))
	assert.ErrorIs(t, err, ErrMalformedSource)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.xlsx")
	content, err := Bytes([]string{"Name"}, [][]interface{}{{"E. coli stock"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	src, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "E. coli stock", src.Rows()[0]["name"])

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedSource))
}
