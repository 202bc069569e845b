package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/log"
)

// shellQuote wraps s in single quotes, escaping embedded single quotes:
// "it's" becomes 'it'\''s'.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// Trigger identifies the command a hook runs after.
type Trigger string

const (
	TriggerMerge    Trigger = "merge"
	TriggerCheckout Trigger = "checkout"
	TriggerCreate   Trigger = "create"
	TriggerBackup   Trigger = "backup"
	TriggerRestore  Trigger = "restore"
	TriggerPR       Trigger = "pr"
	// TriggerManual marks a hook run through "forkflow hook".
	TriggerManual Trigger = "hook"
)

// Context holds the values for placeholder substitution
type Context struct {
	Path    string            // repository root, also the working directory
	Branch  string            // current branch
	Repo    string            // repository folder name
	Trigger Trigger           // command that triggered the hook
	Env     map[string]string // custom variables from --arg key=value
}

// HookMatch is a hook selected to run.
type HookMatch struct {
	Name string
	Hook config.Hook
}

// SelectHooks returns the hooks to run for trigger, ordered by name.
// When hookName is set only that hook is returned, whatever its "on" list.
// Disabled hooks never match.
func SelectHooks(cfg config.HooksConfig, hookName string, noHook bool, trigger Trigger) ([]HookMatch, error) {
	if hookName != "" {
		hook, ok := cfg.Hooks[hookName]
		if !ok {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		if !hook.IsEnabled() {
			return nil, fmt.Errorf("hook %q is disabled", hookName)
		}
		return []HookMatch{{Name: hookName, Hook: hook}}, nil
	}
	if noHook {
		return nil, nil
	}

	var matches []HookMatch
	for name, hook := range cfg.Hooks {
		if hook.IsEnabled() && matchesTrigger(hook, trigger) {
			matches = append(matches, HookMatch{Name: name, Hook: hook})
		}
	}
	slices.SortFunc(matches, func(a, b HookMatch) int { return strings.Compare(a.Name, b.Name) })
	return matches, nil
}

// matchesTrigger reports whether trigger is in the hook's "on" list.
// "all" matches every trigger.
func matchesTrigger(hook config.Hook, trigger Trigger) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(trigger) {
			return true
		}
	}
	return false
}

// RunAll runs the matched hooks in order and stops at the first failure.
func RunAll(ctx context.Context, matches []HookMatch, hc Context) error {
	for _, m := range matches {
		if err := runHook(ctx, m, hc); err != nil {
			return fmt.Errorf("hook %q failed: %w", m.Name, err)
		}
	}
	return nil
}

// RunAllNonFatal runs every matched hook, reporting failures as warnings.
// The command that triggered the hooks already succeeded at this point.
func RunAllNonFatal(ctx context.Context, matches []HookMatch, hc Context) {
	for _, m := range matches {
		if err := runHook(ctx, m, hc); err != nil {
			log.FromContext(ctx).Warn("hook %q failed: %v", m.Name, err)
		}
	}
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runHook(ctx context.Context, m HookMatch, hc Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(m.Hook.Command, hc)

	l.Step("Running hook %s", m.Name)
	done := l.Command(hc.Path, "sh", "-c", command)
	start := time.Now()

	c := exec.CommandContext(ctx, "sh", "-c", command)
	c.Dir = hc.Path
	c.Stdout = l.Writer()
	c.Stderr = l.Writer()
	if stdinIsTerminal() {
		c.Stdin = os.Stdin
	}
	err := c.Run()
	done(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	if m.Hook.Description != "" {
		l.Success("%s", m.Hook.Description)
	}
	return nil
}

// ParseEnv parses "key=value" pairs from --arg flags. A value of "-" is
// replaced by everything read from stdin, which must be piped.
func ParseEnv(args []string, stdin io.Reader) (map[string]string, error) {
	result := make(map[string]string, len(args))
	var stdinKeys []string
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg %q: expected KEY=VALUE", a)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg %q: key cannot be empty", a)
		}
		if value == "-" {
			stdinKeys = append(stdinKeys, key)
			continue
		}
		result[key] = value
	}

	if len(stdinKeys) > 0 {
		if stdinIsTerminal() {
			return nil, fmt.Errorf("stdin not piped: KEY=- requires piped input")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("stdin is empty: KEY=- requires piped input")
		}
		for _, key := range stdinKeys {
			result[key] = string(data)
		}
	}
	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw} and {key:-default}.
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values.
// Built-in placeholders win over --arg variables of the same name.
func SubstitutePlaceholders(command string, hc Context) string {
	builtin := map[string]string{
		"path":    hc.Path,
		"branch":  hc.Branch,
		"repo":    hc.Repo,
		"trigger": string(hc.Trigger),
	}

	return envPlaceholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		sub := envPlaceholderRegex.FindStringSubmatch(match)
		key, raw, def := sub[1], sub[2] == ":raw", sub[3]

		val, ok := builtin[key]
		if !ok {
			val, ok = hc.Env[key]
		}
		if !ok {
			val = def
		}
		if raw {
			return val
		}
		return shellQuote(val)
	})
}
