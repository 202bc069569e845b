package localfiles

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/Nubebuster/forkflow/internal/git"
	"github.com/Nubebuster/forkflow/internal/storage"
)

// PreferencesFile is the name of the remembered backup selection inside the
// forkflow state directory.
const PreferencesFile = "backup-selection"

// PreferencesPath returns where the backup selection of the repository at
// path is stored.
func PreferencesPath(ctx context.Context, path string) (string, error) {
	common, err := git.GitCommonDir(ctx, path)
	if err != nil {
		return "", err
	}
	return filepath.Join(common, storage.StateDirName, PreferencesFile), nil
}

// LoadPreferences returns the files chosen in the previous backup. exists is
// false when no backup has recorded a selection yet.
func LoadPreferences(file string) (selection []string, exists bool, err error) {
	return storage.ReadLines(file)
}

// SavePreferences replaces the stored selection.
func SavePreferences(file string, selection []string) error {
	return storage.WriteLines(file, selection)
}

// DefaultSelection picks the files to preselect: the previous selection
// restricted to files that still exist, or all candidates when nothing was
// recorded.
func DefaultSelection(candidates, previous []string, hasPrevious bool) []string {
	if !hasPrevious {
		return slices.Clone(candidates)
	}
	var out []string
	for _, c := range candidates {
		if slices.Contains(previous, c) {
			out = append(out, c)
		}
	}
	return out
}
