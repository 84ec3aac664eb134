package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"stock list.xlsx":       "stock_list.xlsx",
		"../../etc/passwd":      "etc_passwd",
		`C:\lab\Freezer 3.xlsx`: "C_lab_Freezer_3.xlsx",
		"Säurebakterien.xlsx":   "Saurebakterien.xlsx",
		"...":                   "upload",
		"":                      "upload",
	}
	for in, want := range cases {
		assert.Equal(t, want, SecureFilename(in), in)
	}
}

func TestFileStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewFileStore(dir)

	path, err := store.Save(42, "my stock.xlsx", strings.NewReader("content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "42_my_stock.xlsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
