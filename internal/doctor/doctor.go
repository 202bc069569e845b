package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/ui/static"
	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	// StatusSkip marks checks that need a repository when none was found.
	StatusSkip Status = "skip"
)

// Result is one row of the doctor report.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	// Fix describes what --fix would do; empty when not fixable.
	Fix string `json:"fix,omitempty" yaml:"fix,omitempty"`

	fix func(context.Context, Env) error
}

// Fixable reports whether --fix can repair a failed check.
func (r Result) Fixable() bool {
	return r.Status != StatusOK && r.fix != nil
}

// Env is what the checks inspect.
type Env struct {
	// Repo is the repository root, empty outside a repository.
	Repo string
	Cfg  *config.Config
}

// Report is the outcome of Run.
type Report struct {
	Results []Result
}

// Healthy reports whether no check failed. Warnings are tolerated.
func (r Report) Healthy() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return false
		}
	}
	return true
}

// Problems returns the results that are not ok or skipped.
func (r Report) Problems() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusWarn || res.Status == StatusFail {
			out = append(out, res)
		}
	}
	return out
}

// Run executes every check in order.
func Run(ctx context.Context, env Env) Report {
	var rep Report
	for _, c := range checks {
		if c.needsRepo && env.Repo == "" {
			rep.Results = append(rep.Results, Result{Name: c.name, Status: StatusSkip, Detail: "not in a git repository"})
			continue
		}
		res := c.run(ctx, env)
		res.Name = c.name
		log.FromContext(ctx).Debug("doctor check", "name", c.name, "status", res.Status)
		rep.Results = append(rep.Results, res)
	}
	return rep
}

// Fix applies the repair of every fixable problem and returns the names of
// the checks it repaired. It keeps going after a failed repair.
func Fix(ctx context.Context, env Env, rep Report) ([]string, error) {
	l := log.FromContext(ctx)
	var fixed []string
	var errs []error
	for _, res := range rep.Results {
		if !res.Fixable() {
			continue
		}
		l.Step("%s: %s", res.Name, res.Fix)
		if err := res.fix(ctx, env); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, err))
			continue
		}
		fixed = append(fixed, res.Name)
	}
	return fixed, errors.Join(errs...)
}

// Render formats the report as a table.
func Render(rep Report) string {
	rows := make([][]string, 0, len(rep.Results))
	for _, r := range rep.Results {
		detail := r.Detail
		if r.Fixable() {
			detail += styles.MutedStyle.Render(" (fix: " + r.Fix + ")")
		}
		rows = append(rows, []string{statusIcon(r.Status), r.Name, detail})
	}
	return static.RenderTable([]string{"", "CHECK", "DETAIL"}, rows)
}

func statusIcon(s Status) string {
	switch s {
	case StatusOK:
		return styles.SuccessStyle.Render("✓")
	case StatusWarn:
		return styles.WarningStyle.Render("!")
	case StatusFail:
		return styles.ErrorStyle.Render("✗")
	default:
		return styles.MutedStyle.Render("-")
	}
}
