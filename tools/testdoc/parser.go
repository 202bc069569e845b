package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const integrationSuffix = "_integration_test.go"

// Case is one documented test.
type Case struct {
	Name     string
	Summary  string // first doc line without the function name
	Scenario string
	Expected string
	Table    bool // loops over test cases with t.Run
}

// Command groups the cases of one <command>_integration_test.go file.
type Command struct {
	Name  string // e.g. "forkflow merge"
	File  string
	Cases []Case
}

// ParseDir reads every integration test file in dir.
func ParseDir(dir string) ([]Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Command
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), integrationSuffix) {
			continue
		}
		cmd, err := parseFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(cmd.Cases) > 0 {
			out = append(out, cmd)
		}
	}
	slices.SortFunc(out, func(a, b Command) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// commandName maps checkout_integration_test.go to "forkflow checkout".
func commandName(file string) string {
	return "forkflow " + strings.TrimSuffix(filepath.Base(file), integrationSuffix)
}

func parseFile(path string) (Command, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return Command{}, err
	}

	cmd := Command{Name: commandName(path), File: filepath.Base(path)}
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || !strings.HasPrefix(fn.Name.Name, "Test") || !takesTestingT(fn) {
			continue
		}
		c := Case{Name: fn.Name.Name, Table: hasSubtests(fn)}
		if fn.Doc != nil {
			c.Summary, c.Scenario, c.Expected = splitDoc(fn.Name.Name, fn.Doc.Text())
		}
		cmd.Cases = append(cmd.Cases, c)
	}
	return cmd, nil
}

// splitDoc pulls the summary line and the Scenario:/Expected: paragraphs
// out of a test doc comment. Continuation lines are joined with spaces.
func splitDoc(name, doc string) (summary, scenario, expected string) {
	var current *string
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			current = nil
		case strings.HasPrefix(line, "Scenario:"):
			scenario = strings.TrimSpace(strings.TrimPrefix(line, "Scenario:"))
			current = &scenario
		case strings.HasPrefix(line, "Expected:"):
			expected = strings.TrimSpace(strings.TrimPrefix(line, "Expected:"))
			current = &expected
		case current != nil:
			*current += " " + line
		case summary == "":
			summary = strings.TrimPrefix(line, name+" ")
		}
	}
	return summary, scenario, expected
}

func takesTestingT(fn *ast.FuncDecl) bool {
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
		return false
	}
	star, ok := fn.Type.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "testing" && sel.Sel.Name == "T"
}

// hasSubtests reports whether fn calls t.Run inside a range loop.
func hasSubtests(fn *ast.FuncDecl) bool {
	found := false
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		loop, ok := n.(*ast.RangeStmt)
		if !ok || found {
			return !found
		}
		ast.Inspect(loop.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if sel, ok := call.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "Run" {
				found = true
			}
			return !found
		})
		return !found
	})
	return found
}
