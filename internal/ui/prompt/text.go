package prompt

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

// TextOptions tunes a TextInput prompt. All fields are optional.
type TextOptions struct {
	Placeholder string
	// Validate refuses enter until it returns nil.
	Validate func(string) error
	// Preview renders a line under the input from the current value, e.g.
	// the branch name a free-form description turns into.
	Preview func(string) string
}

// TextInputResult is the trimmed input.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

type textInputModel struct {
	title     string
	input     textinput.Model
	opts      TextOptions
	err       error
	done      bool
	cancelled bool
}

func newTextInputModel(title string, opts TextOptions) textInputModel {
	in := textinput.New()
	in.Placeholder = opts.Placeholder
	in.CharLimit = 120
	in.SetWidth(56)
	in.Focus()
	return textInputModel{title: title, input: in, opts: opts}
}

func (m textInputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			if m.opts.Validate != nil {
				if m.err = m.opts.Validate(m.value()); m.err != nil {
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.done, m.cancelled = true, true
			return m, tea.Quit
		}
	}
	// Typing clears a stale validation error.
	m.err = nil
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	lines := []string{styles.TitleStyle.Render(m.title), m.input.View()}
	if m.opts.Preview != nil && m.value() != "" {
		lines = append(lines, styles.MutedStyle.Render("→ "+m.opts.Preview(m.value())))
	}
	if m.err != nil {
		lines = append(lines, styles.ErrorStyle.Render(m.err.Error()))
	}
	return tea.NewView(strings.Join(lines, "\n"))
}

// TextInput reads one line of text.
func TextInput(title string, opts TextOptions) (TextInputResult, error) {
	final, err := run(newTextInputModel(title, opts))
	if err != nil {
		return TextInputResult{}, err
	}
	m := final.(textInputModel)
	return TextInputResult{Value: m.value(), Cancelled: m.cancelled}, nil
}
