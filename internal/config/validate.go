package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// Enum values for configuration fields.
const (
	BaseUpstream   = "upstream"
	BaseCurrent    = "current"
	StrategyMerge  = "merge"
	StrategyRebase = "rebase"
)

// Valid enum values for configuration fields.
var (
	ValidThemes          = []string{"default", "dracula", "nord", "none"}
	ValidBases           = []string{BaseUpstream, BaseCurrent}
	ValidMergeStrategies = []string{StrategyMerge, StrategyRebase}
)

// Validate checks the configuration for values forkflow cannot work with.
func (c *Config) Validate() error {
	if err := validateEnum(c.Theme, "theme", ValidThemes); err != nil {
		return err
	}
	if err := validateEnum(c.Branch.Base, "branch.base", ValidBases); err != nil {
		return err
	}
	if err := validateEnum(c.Merge.Strategy, "merge.strategy", ValidMergeStrategies); err != nil {
		return err
	}
	for field, v := range map[string]string{
		"upstream.remote": c.Upstream.Remote,
		"upstream.url":    c.Upstream.URL,
		"upstream.branch": c.Upstream.Branch,
		"local.branch":    c.Local.Branch,
		"local.manifest":  c.Local.Manifest,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
	}
	if strings.ContainsAny(c.Local.Branch, " ~^:?*[\\\"'$`") || strings.ContainsFunc(c.Local.Branch, unicode.IsControl) {
		return fmt.Errorf("invalid local.branch %q: not a valid branch name", c.Local.Branch)
	}
	if err := validateManifestPath(c.Local.Manifest); err != nil {
		return err
	}
	if len(c.Branch.Types) == 0 {
		return errors.New("branch.types must list at least one type")
	}
	for i, typ := range c.Branch.Types {
		if typ == "" || typ != strings.ToLower(typ) || strings.ContainsAny(typ, "/ ") {
			return fmt.Errorf("invalid branch.types[%d] %q: must be a lowercase word", i, typ)
		}
	}
	if c.PR.Repo != "" && strings.Count(c.PR.Repo, "/") != 1 {
		return fmt.Errorf("invalid pr.repo %q: must be owner/name", c.PR.Repo)
	}
	return nil
}

// validateManifestPath requires a path inside the repository.
func validateManifestPath(p string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("local.manifest must be relative to the repository root, got: %q", p)
	}
	clean := filepath.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("local.manifest must stay inside the repository, got: %q", p)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
