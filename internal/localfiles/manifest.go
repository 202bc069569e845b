// Package localfiles manages the ignore manifest that lists local-only files
// and the remembered backup selection.
package localfiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Nubebuster/forkflow/internal/git"
)

// Manifest is the per-repo list of gitignore-style patterns naming
// local-only files.
type Manifest struct {
	// Path is the manifest file relative to the repository root.
	Path     string
	Patterns []string
}

// ExcludePatterns returns the lines for the info/exclude block: the manifest
// itself followed by its patterns.
func (m *Manifest) ExcludePatterns() []string {
	out := []string{"/" + filepath.ToSlash(m.Path)}
	for _, p := range m.Patterns {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// LoadManifest reads root/rel. A missing manifest yields an empty Manifest
// and os.ErrNotExist.
func LoadManifest(root, rel string) (*Manifest, error) {
	m := &Manifest{Path: rel}
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return m, err
	}
	m.Patterns = parsePatterns(string(data))
	return m, nil
}

// parsePatterns drops blank lines and comments. Escaped "\#" lines are
// kept as patterns, as git does.
func parsePatterns(content string) []string {
	var patterns []string
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimSpace(line))
	}
	return patterns
}

const manifestTemplate = `# Local-only files for this clone, one gitignore pattern per line.
# Matching files are hidden from git via .git/info/exclude and can be saved
# to the local-only branch with "forkflow backup".
#
# Examples:
# .env
# GEMINI.md
# scratch/
`

// InitManifest writes a commented template to root/rel unless the file
// already exists. Returns whether it was created.
func InitManifest(root, rel string) (bool, error) {
	path := filepath.Join(root, rel)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if _, err := f.WriteString(manifestTemplate); err != nil {
		return false, err
	}
	return true, nil
}

// Candidates returns every file a backup may include: the manifest itself
// and all untracked files matching its patterns. Sorted, no duplicates.
func Candidates(ctx context.Context, root string, m *Manifest) ([]string, error) {
	var files []string

	manifestPath := filepath.Join(root, m.Path)
	if _, err := os.Stat(manifestPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	tracked, err := git.IsTracked(ctx, root, m.Path)
	if err != nil {
		return nil, err
	}
	if !tracked {
		files = append(files, filepath.ToSlash(m.Path))
	}

	if len(m.Patterns) > 0 {
		matched, err := git.ListMatchingUntracked(ctx, root, manifestPath)
		if err != nil {
			return nil, fmt.Errorf("list local files: %w", err)
		}
		files = append(files, matched...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
