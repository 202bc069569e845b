package prompt

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

// MultiSelectResult holds the chosen options in their original order.
type MultiSelectResult struct {
	Values    []string
	Cancelled bool
}

const multiSelectVisible = 15

type multiSelectModel struct {
	prompt    string
	options   []string
	checked   []bool
	cursor    int
	offset    int
	done      bool
	cancelled bool
}

func newMultiSelectModel(prompt string, options, preselected []string) multiSelectModel {
	pre := make(map[string]bool, len(preselected))
	for _, p := range preselected {
		pre[p] = true
	}
	checked := make([]bool, len(options))
	for i, opt := range options {
		checked[i] = pre[opt]
	}
	return multiSelectModel{prompt: prompt, options: options, checked: checked}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "space", " ", "x":
		if len(m.checked) > 0 {
			m.checked[m.cursor] = !m.checked[m.cursor]
		}
	case "a":
		all := !m.allChecked()
		for i := range m.checked {
			m.checked[i] = all
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+multiSelectVisible {
		m.offset = m.cursor - multiSelectVisible + 1
	}
	return m, nil
}

func (m multiSelectModel) allChecked() bool {
	for _, c := range m.checked {
		if !c {
			return false
		}
	}
	return true
}

func (m multiSelectModel) selected() []string {
	var out []string
	for i, c := range m.checked {
		if c {
			out = append(out, m.options[i])
		}
	}
	return out
}

func (m multiSelectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.prompt) + "\n")

	end := min(m.offset+multiSelectVisible, len(m.options))
	if m.offset > 0 {
		b.WriteString(styles.MutedStyle.Render("  ↑ more above") + "\n")
	}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		style := styles.NormalStyle
		if i == m.cursor {
			cursor = "> "
			style = styles.AccentStyle
		}
		box := "[ ]"
		if m.checked[i] {
			box = styles.SuccessStyle.Render("[x]")
		}
		b.WriteString(cursor + box + " " + style.Render(m.options[i]) + "\n")
	}
	if end < len(m.options) {
		b.WriteString(styles.MutedStyle.Render("  ↓ more below") + "\n")
	}

	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d/%d selected • space toggle • a all • enter confirm • esc cancel",
		len(m.selected()), len(m.options))))
	return tea.NewView(b.String())
}

// MultiSelect shows a checkbox list. Options listed in preselected start checked.
func MultiSelect(prompt string, options, preselected []string) (MultiSelectResult, error) {
	if len(options) == 0 {
		return MultiSelectResult{}, nil
	}

	finalModel, err := run(newMultiSelectModel(prompt, options, preselected))
	if err != nil {
		return MultiSelectResult{}, err
	}
	m := finalModel.(multiSelectModel)
	if m.cancelled {
		return MultiSelectResult{Cancelled: true}, nil
	}
	return MultiSelectResult{Values: m.selected()}, nil
}
