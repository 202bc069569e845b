package prompt

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

// Answer is the reply to a Confirm prompt.
type Answer int

const (
	No Answer = iota
	Yes
	// YesToAll and NoToAll are only offered when ConfirmOptions.Bulk is set.
	YesToAll
	NoToAll
	Cancelled
)

// Affirmative reports whether the answer means yes.
func (a Answer) Affirmative() bool {
	return a == Yes || a == YesToAll
}

// ConfirmOptions tunes a Confirm prompt.
type ConfirmOptions struct {
	// Default is the answer for a bare enter.
	Default bool
	// Bulk adds "a" (yes to all) and "s" (skip all) for per-item loops.
	Bulk bool
}

type confirmModel struct {
	question string
	opts     ConfirmOptions
	answer   Answer
	done     bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		return m.reply(Yes)
	case "n":
		return m.reply(No)
	case "enter":
		if m.opts.Default {
			return m.reply(Yes)
		}
		return m.reply(No)
	case "a":
		if m.opts.Bulk {
			return m.reply(YesToAll)
		}
	case "s":
		if m.opts.Bulk {
			return m.reply(NoToAll)
		}
	case "ctrl+c", "esc", "q":
		return m.reply(Cancelled)
	}
	return m, nil
}

func (m confirmModel) reply(a Answer) (tea.Model, tea.Cmd) {
	m.answer = a
	m.done = true
	return m, tea.Quit
}

// keys renders the accepted answers with the default capitalised.
func (m confirmModel) keys() string {
	k := "y/N"
	if m.opts.Default {
		k = "Y/n"
	}
	if m.opts.Bulk {
		k += "/a/s"
	}
	return "[" + k + "]"
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	s := m.question + " " + styles.MutedStyle.Render(m.keys()) + " "
	if m.opts.Bulk {
		s += "\n" + styles.MutedStyle.Render("a: yes to all remaining, s: skip all remaining")
	}
	return tea.NewView(s)
}

// Confirm asks a yes/no question.
func Confirm(question string, opts ConfirmOptions) (Answer, error) {
	final, err := run(confirmModel{question: question, opts: opts})
	if err != nil {
		return Cancelled, err
	}
	return final.(confirmModel).answer, nil
}
