package git

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
)

// TreeEntry is a file recorded in a commit's tree.
type TreeEntry struct {
	Mode string // git mode, e.g. "100644"
	Hash string
	Path string // slash-separated, relative to the repository root
}

// FileMode returns the permission bits to write the entry with.
func (e TreeEntry) FileMode() fs.FileMode {
	if e.Mode == "100755" {
		return 0755
	}
	return 0644
}

// IsSymlink reports whether the entry is a symbolic link.
func (e TreeEntry) IsSymlink() bool {
	return e.Mode == "120000"
}

// ListTree returns every blob reachable from ref's tree, recursively.
func ListTree(ctx context.Context, path, ref string) ([]TreeEntry, error) {
	out, err := outputGit(ctx, path, "ls-tree", "-r", "-z", "--full-tree", ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", ref, err)
	}
	return parseTree(splitNUL(out)), nil
}

// parseTree parses "<mode> SP <type> SP <hash> TAB <path>" records.
func parseTree(records []string) []TreeEntry {
	var entries []TreeEntry
	for _, rec := range records {
		meta, p, ok := strings.Cut(rec, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 || fields[1] != "blob" {
			continue
		}
		entries = append(entries, TreeEntry{Mode: fields[0], Hash: fields[2], Path: p})
	}
	return entries
}

// ShowFile returns the raw content of file as recorded on ref.
func ShowFile(ctx context.Context, path, ref, file string) ([]byte, error) {
	out, err := outputGit(ctx, path, "cat-file", "blob", ref+":"+file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", file, ref, err)
	}
	return out, nil
}
