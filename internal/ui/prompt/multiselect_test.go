package prompt

import (
	"slices"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func pressAll(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(keyPress(k))
	}
	return m
}

func TestMultiSelectModel_Update(t *testing.T) {
	t.Parallel()

	options := []string{".env", "notes.md", "scratch/todo.txt"}

	tests := []struct {
		name        string
		preselected []string
		keys        []string
		want        []string
		cancelled   bool
	}{
		{"nothing checked", nil, []string{"enter"}, nil, false},
		{"preselection kept", []string{"notes.md"}, []string{"enter"}, []string{"notes.md"}, false},
		{"space toggles cursor item", nil, []string{"down", "space", "enter"}, []string{"notes.md"}, false},
		{"x toggles too", nil, []string{"x", "enter"}, []string{".env"}, false},
		{"toggle twice unchecks", nil, []string{"space", "space", "enter"}, nil, false},
		{"a checks all", []string{".env"}, []string{"a", "enter"}, options, false},
		{"a unchecks all when all checked", options, []string{"a", "enter"}, nil, false},
		{"cursor stops at bottom", nil, []string{"down", "down", "down", "down", "space", "enter"}, []string{"scratch/todo.txt"}, false},
		{"cursor stops at top", nil, []string{"up", "k", "space", "enter"}, []string{".env"}, false},
		{"esc cancels", []string{".env"}, []string{"esc"}, []string{".env"}, true},
		{"q cancels", nil, []string{"q"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := pressAll(newMultiSelectModel("Back up which files?", options, tt.preselected), tt.keys...).(multiSelectModel)

			if !m.done {
				t.Fatal("expected model to be done")
			}
			if m.cancelled != tt.cancelled {
				t.Errorf("cancelled = %v, want %v", m.cancelled, tt.cancelled)
			}
			if got := m.selected(); !slices.Equal(got, tt.want) {
				t.Errorf("selected = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMultiSelectModel_View(t *testing.T) {
	t.Parallel()

	m := newMultiSelectModel("Pick", []string{"a.txt", "b.txt"}, []string{"b.txt"})
	content := m.View().Content
	for _, want := range []string{"Pick", "a.txt", "b.txt", "1/2 selected"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q:\n%s", want, content)
		}
	}
}

func TestMultiSelectModel_Scrolls(t *testing.T) {
	t.Parallel()

	var options []string
	for i := range 30 {
		options = append(options, strings.Repeat("f", i+1))
	}
	m := tea.Model(newMultiSelectModel("Pick", options, nil))
	for range 20 {
		m = pressAll(m, "down")
	}
	ms := m.(multiSelectModel)
	if ms.cursor != 20 {
		t.Fatalf("cursor = %d, want 20", ms.cursor)
	}
	if ms.cursor < ms.offset || ms.cursor >= ms.offset+multiSelectVisible {
		t.Errorf("cursor %d outside window [%d,%d)", ms.cursor, ms.offset, ms.offset+multiSelectVisible)
	}
	if !strings.Contains(ms.View().Content, "more above") {
		t.Error("expected scroll indicator")
	}
}
