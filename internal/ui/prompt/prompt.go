package prompt

import (
	"errors"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

// ErrNotInteractive is returned when a prompt is needed but stdin or
// stderr is not a terminal.
var ErrNotInteractive = errors.New("not running in an interactive terminal")

// ErrCancelled is returned by callers when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// isTerminal is replaced in tests.
var isTerminal = func(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Interactive reports whether prompts can be shown.
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

// run starts a bubbletea program on stderr with the detected colour profile.
func run(model tea.Model) (tea.Model, error) {
	if !Interactive() {
		return nil, ErrNotInteractive
	}
	profile := colorprofile.Detect(os.Stderr, os.Environ())
	p := tea.NewProgram(model,
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)
	return p.Run()
}
