package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
)

// Importable reports whether path names a spreadsheet the daemon should
// pick up. Hidden files, office lock files and failure workbooks are
// skipped.
func Importable(path string) bool {
	base := filepath.Base(path)
	if isHidden(base) || strings.HasPrefix(base, "~$") {
		return false
	}
	ext := filepath.Ext(base)
	if !constants.IsSpreadsheet(ext) {
		return false
	}
	return !strings.HasSuffix(strings.TrimSuffix(base, ext), constants.FailedSuffix)
}

// ScanDir walks root and returns every importable spreadsheet, skipping
// hidden directories.
func ScanDir(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if Importable(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("walk %s: %w", root, err)
	}
	return out, nil
}

func isHidden(base string) bool {
	return strings.HasPrefix(base, ".")
}
