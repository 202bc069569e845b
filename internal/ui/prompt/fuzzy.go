package prompt

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

// FuzzyResult holds the result of a fuzzy selection.
type FuzzyResult struct {
	Value     string
	Cancelled bool
}

const fuzzyVisible = 12

type stringSource []string

func (s stringSource) String(i int) string { return s[i] }
func (s stringSource) Len() int            { return len(s) }

type fuzzyModel struct {
	prompt    string
	options   []string
	filter    string
	filtered  []fuzzy.Match
	cursor    int
	done      bool
	cancelled bool
	selected  int
}

func newFuzzyModel(prompt string, options []string) fuzzyModel {
	m := fuzzyModel{prompt: prompt, options: options, selected: -1}
	m.applyFilter()
	return m
}

func (m *fuzzyModel) applyFilter() {
	if m.filter == "" {
		m.filtered = make([]fuzzy.Match, len(m.options))
		for i, opt := range m.options {
			m.filtered[i] = fuzzy.Match{Str: opt, Index: i}
		}
	} else {
		// Results are sorted by score, best first.
		m.filtered = fuzzy.FindFrom(m.filter, stringSource(m.options))
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m fuzzyModel) Init() tea.Cmd {
	return nil
}

func (m fuzzyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.filtered) == 0 {
			return m, nil
		}
		m.selected = m.filtered[m.cursor].Index
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case "backspace":
		if m.filter != "" {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	default:
		if key.Text != "" {
			m.filter += key.Text
			m.cursor = 0
			m.applyFilter()
		}
	}
	return m, nil
}

func (m fuzzyModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.prompt) + "\n")
	b.WriteString(styles.MutedStyle.Render("> ") + m.filter + "\n\n")

	start := 0
	if m.cursor >= fuzzyVisible {
		start = m.cursor - fuzzyVisible + 1
	}
	end := min(start+fuzzyVisible, len(m.filtered))
	for i := start; i < end; i++ {
		match := m.filtered[i]
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		b.WriteString(prefix + highlight(match, i == m.cursor) + "\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matching items") + "\n")
	}
	b.WriteString(styles.MutedStyle.Render("type to filter • ↑/↓ move • enter select • esc cancel"))
	return tea.NewView(b.String())
}

func highlight(match fuzzy.Match, selected bool) string {
	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}
	base := styles.NormalStyle
	if selected {
		base = styles.AccentStyle
	}
	var b strings.Builder
	// MatchedIndexes are byte offsets into the string.
	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// Fuzzy shows a fuzzy-filtered picker over options.
func Fuzzy(prompt string, options []string) (FuzzyResult, error) {
	if len(options) == 0 {
		return FuzzyResult{Cancelled: true}, nil
	}

	finalModel, err := run(newFuzzyModel(prompt, options))
	if err != nil {
		return FuzzyResult{}, err
	}
	m := finalModel.(fuzzyModel)
	if m.cancelled || m.selected < 0 {
		return FuzzyResult{Cancelled: true}, nil
	}
	return FuzzyResult{Value: m.options[m.selected]}, nil
}
