package main

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the markdown page.
func Render(w io.Writer, commands []Command) error {
	var b strings.Builder
	b.WriteString("# Command tests\n\n")
	b.WriteString("Generated from the doc comments of cmd/forkflow/*_integration_test.go.\n")
	b.WriteString("Run them with `go test -tags integration ./cmd/forkflow`.\n\n")

	b.WriteString("| Command | Tests |\n|---------|-------|\n")
	total := 0
	for _, c := range commands {
		fmt.Fprintf(&b, "| [%s](#%s) | %d |\n", c.Name, anchor(c.Name), len(c.Cases))
		total += len(c.Cases)
	}
	fmt.Fprintf(&b, "| **Total** | **%d** |\n", total)

	for _, c := range commands {
		fmt.Fprintf(&b, "\n## %s\n\n", c.Name)
		b.WriteString("| Test | Scenario | Expected |\n|------|----------|----------|\n")
		for _, tc := range c.Cases {
			name := "`" + tc.Name + "`"
			if tc.Table {
				name += " (table)"
			}
			scenario := tc.Scenario
			if scenario == "" {
				scenario = tc.Summary
			}
			if scenario == "" {
				scenario = "_undocumented_"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, cell(scenario), cell(tc.Expected))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// anchor mirrors GitHub's heading anchors for the names used here.
func anchor(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}
