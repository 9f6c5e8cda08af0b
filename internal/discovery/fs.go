package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MarkerDir names the directory that anchors a repository's workflows.
	MarkerDir = ".github"
	// WorkflowsDir is the folder under MarkerDir holding workflow files.
	WorkflowsDir = "workflows"
)

var (
	// ErrNoWorkflows indicates that no workflow files were found during discovery.
	ErrNoWorkflows = errors.New("no workflows discovered")
	// ErrNoWorkflowDir indicates that no .github directory exists between the
	// starting directory and the filesystem root.
	ErrNoWorkflowDir = errors.New("no .github directory found")
)

// FindWorkflowDir walks upward from start (the working directory when empty)
// and returns the workflows folder of the first directory containing a
// .github directory. The workflows folder itself need not exist yet.
func FindWorkflowDir(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", start, err)
	}

	for {
		marker := filepath.Join(dir, MarkerDir)
		info, err := os.Stat(marker)
		switch {
		case err == nil && info.IsDir():
			return filepath.Join(marker, WorkflowsDir), nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("stat %q: %w", marker, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("search from %q: %w", start, ErrNoWorkflowDir)
		}
		dir = parent
	}
}

// Workflows returns workflow file paths. If explicit paths are provided they are
// validated and returned in the order given. Otherwise the default GitHub
// Actions workflow glob is used and results are sorted lexicographically.
func Workflows(root string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return resolveExplicit(root, explicit)
	}

	matches := make(map[string]struct{})
	for _, ext := range []string{"*.yml", "*.yaml"} {
		pattern := filepath.Join(root, MarkerDir, WorkflowsDir, ext)
		found, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range found {
			matches[m] = struct{}{}
		}
	}

	if len(matches) == 0 {
		return nil, ErrNoWorkflows
	}

	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, RelOrClean(root, p))
	}
	sort.Strings(paths)

	return paths, nil
}

func resolveExplicit(root string, explicit []string) ([]string, error) {
	seen := make(map[string]struct{})
	resolved := make([]string, 0, len(explicit))
	for _, input := range explicit {
		cleaned := input
		if !filepath.IsAbs(cleaned) {
			cleaned = filepath.Join(root, cleaned)
		}
		info, err := os.Stat(cleaned)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("workflow %q not found", input)
			}
			return nil, fmt.Errorf("stat %q: %w", input, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("workflow %q is a directory", input)
		}
		rel := RelOrClean(root, cleaned)
		if _, ok := seen[rel]; ok {
			continue
		}
		seen[rel] = struct{}{}
		resolved = append(resolved, rel)
	}
	if len(resolved) == 0 {
		return nil, ErrNoWorkflows
	}
	return resolved, nil
}

// RelOrClean returns path relative to root when it lies inside root, and the
// cleaned path otherwise.
func RelOrClean(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Clean(path)
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}
