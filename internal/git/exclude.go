package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Markers delimiting the block forkflow owns inside info/exclude.
const (
	ExcludeBegin = "# >>> forkflow local files >>>"
	ExcludeEnd   = "# <<< forkflow local files <<<"
)

// ExcludePath returns the path of the repository's info/exclude file.
func ExcludePath(ctx context.Context, path string) (string, error) {
	return GitPath(ctx, path, "info/exclude")
}

// ExcludeBlock returns the patterns currently inside the forkflow block.
func ExcludeBlock(ctx context.Context, path string) ([]string, error) {
	file, err := ExcludePath(ctx, path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	lines, _, _ := cutBlock(string(data))
	return lines, nil
}

// SyncExcludeBlock rewrites the forkflow block in info/exclude to hold exactly
// patterns, leaving the rest of the file alone. Returns whether the file changed.
func SyncExcludeBlock(ctx context.Context, path string, patterns []string) (bool, error) {
	file, err := ExcludePath(ctx, path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("read %s: %w", file, err)
	}

	updated := replaceBlock(string(data), patterns)
	if updated == string(data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(file, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("write %s: %w", file, err)
	}
	return true, nil
}

// ExcludeBlockInSync reports whether the block already holds patterns.
func ExcludeBlockInSync(ctx context.Context, path string, patterns []string) (bool, error) {
	current, err := ExcludeBlock(ctx, path)
	if err != nil {
		return false, err
	}
	return slices.Equal(current, patterns), nil
}

// cutBlock splits content into the lines inside the block and the text
// before and after it. Without a block, before is the whole content.
func cutBlock(content string) (lines []string, before, after string) {
	start := strings.Index(content, ExcludeBegin+"\n")
	if start < 0 {
		return nil, content, ""
	}
	rest := content[start+len(ExcludeBegin)+1:]
	end := strings.Index(rest, ExcludeEnd)
	if end < 0 {
		// unterminated block: treat everything after the marker as ours
		return splitLines([]byte(rest)), content[:start], ""
	}
	after = strings.TrimPrefix(rest[end+len(ExcludeEnd):], "\n")
	return splitLines([]byte(rest[:end])), content[:start], after
}

func replaceBlock(content string, patterns []string) string {
	_, before, after := cutBlock(content)

	var b strings.Builder
	b.WriteString(before)
	if len(patterns) > 0 {
		if before != "" && !strings.HasSuffix(before, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(ExcludeBegin + "\n")
		for _, p := range patterns {
			b.WriteString(p + "\n")
		}
		b.WriteString(ExcludeEnd + "\n")
	}
	b.WriteString(after)
	return b.String()
}
