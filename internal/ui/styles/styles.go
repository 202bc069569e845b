// Package styles provides shared lipgloss styles for UI components.
//
// Colours come from a named theme so that prompts, tables and log lines
// stay consistent. Colours are dropped entirely when the output is not a
// colour-capable terminal.
package styles

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"slices"
	"sort"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // borders, titles
	Accent  color.Color // selected items
	Success color.Color
	Error   color.Color
	Muted   color.Color // disabled/inactive text
	Normal  color.Color
	Warning color.Color
}

var (
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("212"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("196"),
		Muted:   lipgloss.Color("240"),
		Normal:  lipgloss.Color("252"),
		Warning: lipgloss.Color("214"),
	}

	DraculaTheme = Theme{
		Primary: lipgloss.Color("#bd93f9"),
		Accent:  lipgloss.Color("#ff79c6"),
		Success: lipgloss.Color("#50fa7b"),
		Error:   lipgloss.Color("#ff5555"),
		Muted:   lipgloss.Color("#6272a4"),
		Normal:  lipgloss.Color("#f8f8f2"),
		Warning: lipgloss.Color("#ffb86c"),
	}

	NordTheme = Theme{
		Primary: lipgloss.Color("#88c0d0"),
		Accent:  lipgloss.Color("#b48ead"),
		Success: lipgloss.Color("#a3be8c"),
		Error:   lipgloss.Color("#bf616a"),
		Muted:   lipgloss.Color("#4c566a"),
		Normal:  lipgloss.Color("#eceff4"),
		Warning: lipgloss.Color("#ebcb8b"),
	}

	// NoneTheme renders without colors. Bold and underline are kept.
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Normal:  lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

var themes = map[string]Theme{
	"default": DefaultTheme,
	"dracula": DraculaTheme,
	"nord":    NordTheme,
	"none":    NoneTheme,
}

// ThemeNames returns the valid theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Styles derived from the active theme. Rebuilt by apply.
var (
	Bold         = lipgloss.NewStyle().Bold(true)
	PrimaryStyle lipgloss.Style
	AccentStyle  lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	NormalStyle  lipgloss.Style
	TitleStyle   lipgloss.Style

	// HighlightStyle marks fuzzy-matched characters.
	HighlightStyle lipgloss.Style
)

var current = DefaultTheme

func init() {
	apply(DefaultTheme)
}

// Current returns the active theme.
func Current() Theme {
	return current
}

// SetTheme activates a theme by name. Empty selects the default theme.
func SetTheme(name string) error {
	if name == "" {
		name = "default"
	}
	t, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	apply(t)
	return nil
}

// Detect switches to the colorless theme when w is not a colour terminal
// (pipes, NO_COLOR, TERM=dumb).
func Detect(w io.Writer) {
	if !ColorCapable(w, os.Environ()) {
		apply(NoneTheme)
	}
}

// ColorCapable reports whether output to w should carry colour.
func ColorCapable(w io.Writer, env []string) bool {
	p := colorprofile.Detect(w, env)
	return !slices.Contains([]colorprofile.Profile{colorprofile.NoTTY, colorprofile.Ascii}, p)
}

func apply(t Theme) {
	current = t

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	NormalStyle = lipgloss.NewStyle().Foreground(t.Normal)
	TitleStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	HighlightStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Underline(true)
}
