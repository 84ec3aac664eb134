package schema

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogueSets(t *testing.T) {
	cat := Default()

	assert.Equal(t, 12, cat.Common.Len())
	assert.Equal(t, 5, cat.BacteriumOnly.Len())
	assert.Equal(t, 2, cat.PhageOnly.Len())
	assert.Equal(t, 17, cat.BacteriumFull.Len())
	assert.Equal(t, 14, cat.PhageFull.Len())
	assert.Equal(t, []string{
		"key", "freezer", "drawer", "box_number", "position", "description", "project", "date",
		"storage method", "name", "staff member", "notes", "bacterial species", "strain", "media",
		"plasmid name", "resistance marker", "phage id", "host species",
	}, cat.UploadAll.Names())
}

func TestColumnCanonical(t *testing.T) {
	cat := Default()

	date, ok := cat.Common.Lookup("date")
	require.True(t, ok)
	assert.Equal(t, "sample_date", date.Canonical())

	freezer, ok := cat.Common.Lookup("freezer")
	require.True(t, ok)
	assert.Equal(t, "freezer", freezer.Canonical())

	_, ok = cat.Common.Lookup("strain")
	assert.False(t, ok)
}

func TestColumnHasValue(t *testing.T) {
	c := Column{Name: "strain", Type: TypeString}

	assert.True(t, c.HasValue(map[string]string{"strain": " K-12 "}))
	assert.False(t, c.HasValue(map[string]string{"strain": "   "}))
	assert.False(t, c.HasValue(map[string]string{}))
	assert.Equal(t, "K-12", c.Trimmed(map[string]string{"strain": " K-12 "}))
}

func TestSetIsImmutable(t *testing.T) {
	columns := []Column{{Name: "a", Type: TypeString}}
	set := NewSet("test", columns...)
	columns[0].Name = "changed"

	got := set.Columns()
	got[0].Name = "also changed"

	assert.Equal(t, []string{"a"}, set.Names())
}

func TestParse(t *testing.T) {
	content := []byte(`
common:
  - name: Key
    type: int
    allow_null: true
  - name: Name
    type: str
bacterium:
  - name: Strain
    type: str
    max_length: 50
phage:
  - name: Phage ID
    type: str
    translated_name: phage_identifier
`)

	cat, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "name", "strain", "phage id"}, cat.UploadAll.Names())

	strain, ok := cat.BacteriumFull.Lookup("strain")
	require.True(t, ok)
	assert.Equal(t, 50, strain.MaxLength)
}

func TestParseRejectsBadSchemas(t *testing.T) {
	cases := map[string]string{
		"missing phage": "common: [{name: a, type: str}]\nbacterium: [{name: b, type: str}]\n",
		"unknown type":  "common: [{name: a, type: float}]\nbacterium: [{name: b, type: str}]\nphage: [{name: c, type: str}]\n",
		"duplicate":     "common: [{name: a, type: str}]\nbacterium: [{name: A, type: str}]\nphage: [{name: c, type: str}]\n",
		"length on int": "common: [{name: a, type: int, max_length: 3}]\nbacterium: [{name: b, type: str}]\nphage: [{name: c, type: str}]\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().UploadAll.Names(), cat.UploadAll.Names())

	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("common: [{name: a, type: str}]\nbacterium: [{name: b, type: date}]\nphage: [{name: c, type: int}]\n"), 0o600))
	cat, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cat.UploadAll.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInteger(t *testing.T) {
	valid := map[string]int64{"12": 12, " -3 ": -3, "12.0": 12, "0": 0}
	for in, want := range valid {
		got, ok := ParseInteger(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", " ", "12.5", "twelve", "1e400"} {
		_, ok := ParseInteger(in)
		assert.False(t, ok, in)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 27, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-03-27", "27/03/2025", "2025/03/27", "27-Mar-2025", "2025-03-27 14:30:00", "45743"} {
		got, ok := ParseDate(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "tomorrow", "31/02/2025", "0", "-3", "60", "1e300", "99999999999", "2958466", "NaN", "Inf"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, in)
	}
}

func TestParseDateSerialBounds(t *testing.T) {
	cases := map[string]time.Time{
		"1":       time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		"5":       time.Date(1900, 1, 5, 0, 0, 0, 0, time.UTC),
		"59":      time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC),
		"61":      time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC),
		"2958465": time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}
