// Package branchname builds branch names of the form type/slug.
package branchname

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidType is returned when the type is not one of the configured types.
	ErrInvalidType = errors.New("invalid branch type")
	// ErrEmptyName is returned when nothing is left of the name after sanitising.
	ErrEmptyName = errors.New("branch name is empty")
)

// Name is a parsed branch name.
type Name struct {
	Type string
	Slug string
}

func (n Name) String() string {
	return n.Type + "/" + n.Slug
}

// Sanitize lowercases s and replaces every run of characters outside
// [a-z0-9] with a single '-', trimming leading and trailing dashes.
func Sanitize(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Parse splits spec at the first '/' into type and name, validates the type
// against types and sanitises the name.
func Parse(spec string, types []string) (Name, error) {
	typ, name, ok := strings.Cut(strings.TrimSpace(spec), "/")
	if !ok {
		return Name{}, fmt.Errorf("%w: expected type/name, got %q", ErrInvalidType, spec)
	}
	return New(typ, name, types)
}

// New validates typ and sanitises name.
func New(typ, name string, types []string) (Name, error) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if !slices.Contains(types, typ) {
		return Name{}, fmt.Errorf("%w %q: must be one of %s", ErrInvalidType, typ, strings.Join(types, ", "))
	}
	slug := Sanitize(name)
	if slug == "" {
		return Name{}, fmt.Errorf("%w: %q has no letters or digits", ErrEmptyName, name)
	}
	return Name{Type: typ, Slug: slug}, nil
}
