// Command testdoc renders the Scenario/Expected doc comments of forkflow's
// command tests into a markdown page, one section per command.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var (
		rootDir    string
		outputFile string
	)

	flag.StringVar(&rootDir, "root", "cmd/forkflow", "directory holding the *_integration_test.go files")
	flag.StringVar(&outputFile, "out", "docs/TESTS.md", "output markdown file")
	flag.Parse()

	commands, err := ParseDir(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testdoc: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "testdoc: %v\n", err)
		os.Exit(1)
	}
	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testdoc: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := Render(f, commands); err != nil {
		fmt.Fprintf(os.Stderr, "testdoc: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s with %d commands\n", outputFile, len(commands))
}
