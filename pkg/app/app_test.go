package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/phage-catalogue/platform/pkg/common/config"
	"github.com/phage-catalogue/platform/pkg/spreadsheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithSQLite(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "catalogue.db"))
	t.Setenv("FILE_UPLOAD_DIRECTORY", filepath.Join(dir, "uploads"))

	a, err := New(config.Load())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NoError(t, a.Migrate())

	content, err := spreadsheet.Bytes(a.Catalogue.UploadAll.Names(), nil)
	require.NoError(t, err)
	rec, err := a.Uploads.Upload(context.Background(), "empty.xlsx", bytes.NewReader(content))
	require.NoError(t, err)
	assert.False(t, rec.IsError())
	assert.Equal(t, 0, rec.Created)
}

func TestNewRejectsBadSchemaFile(t *testing.T) {
	t.Setenv("COLUMN_SCHEMA_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := New(config.Load())
	assert.Error(t, err)
}
