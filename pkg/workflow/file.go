package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/bgricker/workflowgen/internal/discovery"
)

// Extension is appended to generated workflow file names.
const Extension = ".yml"

// FileName derives the workflow file name from the workflow name, replacing
// each whitespace character with "-".
func FileName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, name) + Extension
}

// Path returns where w is written when no explicit path is given: the
// workflows folder of the nearest .github directory above start.
func Path(w Workflow, start string) (string, error) {
	dir, err := discovery.FindWorkflowDir(start)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName(w.Name)), nil
}

// Write renders w and writes it to path. An empty path resolves to Path(w, "").
// The document is fully rendered before anything touches the disk, and the
// file is replaced atomically. It returns the path written.
func Write(w Workflow, path string) (string, error) {
	data, err := Marshal(w)
	if err != nil {
		return "", err
	}
	if path == "" {
		path, err = Path(w, "")
		if err != nil {
			return "", err
		}
	}
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile creates missing parent directories and atomically replaces path
// with data.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into %q: %w", path, err)
	}
	return nil
}
