package prompt

import (
	"strconv"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

// filterThreshold is the option count above which typing filters the list.
const filterThreshold = 10

// Option is one entry of a Select prompt. Hint is shown dimmed below the
// label when any option has one.
type Option struct {
	Label string
	Hint  string
}

// Choices turns plain labels into options without hints.
func Choices(labels []string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{Label: l}
	}
	return opts
}

// SelectResult is the picked option. Index is its position in the options
// passed to Select, regardless of filtering.
type SelectResult struct {
	Value     string
	Index     int
	Cancelled bool
}

type optionItem struct {
	Option
	index int
}

func (i optionItem) Title() string       { return i.Label }
func (i optionItem) Description() string { return i.Hint }
func (i optionItem) FilterValue() string { return i.Label + " " + i.Hint }

type selectModel struct {
	list      list.Model
	picked    int
	done      bool
	cancelled bool
}

func newSelectModel(title string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	hints := false
	for i, opt := range options {
		items[i] = optionItem{Option: opt, index: i}
		hints = hints || opt.Hint != ""
	}

	d := list.NewDefaultDelegate()
	d.ShowDescription = hints
	d.SetSpacing(0)
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(styles.Current().Accent).Bold(true)
	d.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(styles.Current().Muted)

	perItem := 1
	if hints {
		perItem = 2
	}
	l := list.New(items, d, 72, min(len(options)*perItem+6, 22))
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(options) > filterThreshold)
	l.DisableQuitKeybindings()

	return selectModel{list: l, picked: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		// While the filter input is focused every key belongs to it.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch k := msg.String(); k {
		case "enter":
			if it, ok := m.list.SelectedItem().(optionItem); ok {
				m.picked = it.index
			}
			return m.finish(false)
		case "ctrl+c", "esc", "q":
			return m.finish(true)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(k)
			visible := m.list.VisibleItems()
			if n <= len(visible) {
				m.picked = visible[n-1].(optionItem).index
				return m.finish(false)
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) finish(cancelled bool) (tea.Model, tea.Cmd) {
	m.done = true
	m.cancelled = cancelled
	return m, tea.Quit
}

func (m selectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

// Select shows a single-choice list. Digits 1-9 pick a visible entry
// directly; lists longer than ten entries can be filtered with "/".
func Select(title string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	final, err := run(newSelectModel(title, options))
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)
	if m.cancelled || m.picked < 0 || m.picked >= len(options) {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{Value: options[m.picked].Label, Index: m.picked}, nil
}
