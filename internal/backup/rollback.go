package backup

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nubebuster/forkflow/internal/log"
)

// undo is a compensating action registered by a backup step.
type undo struct {
	name string
	fn   func(context.Context) error
}

// rollback is a stack of compensating actions.
type rollback struct {
	steps []undo
}

func (r *rollback) push(name string, fn func(context.Context) error) {
	r.steps = append(r.steps, undo{name: name, fn: fn})
}

// run executes the registered actions newest first. It keeps going when an
// action fails and returns all failures joined. Cancellation of ctx is
// ignored so the repository is never left half-switched.
func (r *rollback) run(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	l := log.FromContext(ctx)

	var errs []error
	for i := len(r.steps) - 1; i >= 0; i-- {
		s := r.steps[i]
		l.Debug("rollback", "step", s.name)
		if err := s.fn(ctx); err != nil {
			l.Warn("rollback: %s failed: %v", s.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	r.steps = nil
	return errors.Join(errs...)
}
