package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/phage-catalogue/platform/pkg/schema"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCLIEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "catalogue.db"))
	t.Setenv("FILE_UPLOAD_DIRECTORY", filepath.Join(dir, "uploads"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func bacteriumRow() []interface{} {
	cells := map[string]interface{}{
		"freezer": 1, "drawer": 2, "box_number": "B7", "position": "a1",
		"description": "Reference stock", "project": "Phage therapy", "date": "2024-05-17",
		"storage method": "Glycerol", "name": "EC-1", "staff member": "J. Smith", "notes": "none",
		"bacterial species": "Escherichia coli", "strain": "K-12", "media": "LB",
		"plasmid name": "pUC19", "resistance marker": "Ampicillin",
	}
	names := schema.Default().UploadAll.Names()
	row := make([]interface{}, len(names))
	for i, n := range names {
		row[i] = cells[n]
	}
	return row
}

func TestTemplateCommand(t *testing.T) {
	dir := setupCLIEnv(t)
	path := filepath.Join(dir, "template.xlsx")

	out, err := runCLI(t, "template", path)
	require.NoError(t, err)
	assert.Contains(t, out, "19 columns")

	src, err := spreadsheet.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, schema.Default().UploadAll.Names(), src.ColumnNames())
	assert.Zero(t, src.Len())
}

func TestValidateImportExport(t *testing.T) {
	dir := setupCLIEnv(t)
	upload := filepath.Join(dir, "stock.xlsx")
	require.NoError(t, writeWorkbook(upload, schema.Default().UploadAll.Names(), [][]interface{}{bacteriumRow()}))

	out, err := runCLI(t, "validate", upload)
	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "Row 1: Bacterial Species does not exist")

	out, err = runCLI(t, "lookups", "seed", "species", "Escherichia coli", "escherichia coli")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered 1 new species values")

	out, err = runCLI(t, "validate", upload)
	require.NoError(t, err)
	assert.Contains(t, out, "no problems found")

	out, err = runCLI(t, "import", upload)
	require.NoError(t, err)
	assert.Contains(t, out, "Awaiting Processing")

	exported := filepath.Join(dir, "export.xlsx")
	out, err = runCLI(t, "export", "--type", "Bacterium", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 specimens")

	src, err := spreadsheet.OpenFile(exported)
	require.NoError(t, err)
	rows := src.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["key"])
	assert.Equal(t, "A1", rows[0]["position"])
	assert.Equal(t, "K-12", rows[0]["strain"])

	out, err = runCLI(t, "import", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Awaiting Processing")

	out, err = runCLI(t, "lookups", "list", "strain")
	require.NoError(t, err)
	assert.Contains(t, out, "K-12")
}

func TestExportRejectsUnknownType(t *testing.T) {
	dir := setupCLIEnv(t)
	_, err := runCLI(t, "export", "--type", "Virus", filepath.Join(dir, "x.xlsx"))
	assert.Error(t, err)
}
