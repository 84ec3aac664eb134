package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a plain ASCII file name with no directory
// parts. It falls back to "upload" when nothing usable remains.
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < unicode.MaxASCII && !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	cleaned := strings.NewReplacer("/", " ", "\\", " ").Replace(b.String())
	cleaned = strings.Join(strings.Fields(cleaned), "_")
	cleaned = unsafeFilenameChars.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "upload"
	}
	return cleaned
}

// FileStore keeps received spreadsheets on local disk as <id>_<name>.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save copies r to the store and returns the path written.
func (f *FileStore) Save(id uint, filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	path := filepath.Join(f.dir, fmt.Sprintf("%d_%s", id, SecureFilename(filename)))

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}
	return path, nil
}
