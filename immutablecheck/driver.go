package immutablecheck

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Check validates root and sends the result to sink. A model failure or a
// panic while checking root becomes a single internal diagnostic attributed
// to root, so one malformed declaration does not stop the rest.
func Check(v *Validator, root *Class, sink Sink) {
	diags, err := safeValidate(v, root)
	for _, d := range diags {
		sink.Report(d)
	}
	if err != nil {
		putLog(errr, "validation failed", "class", root.Name, "error", err)
		sink.Report(internalDiagnostic(root, err.Error()))
	}
}

func safeValidate(v *Validator, root *Class) (diags []Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			putLog(dbug, "recovered panic", "class", root.Name, "stack", string(debug.Stack()))
			diags = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return v.Validate(root)
}

// CheckAll runs Check over roots with at most jobs validations in flight.
// The sink must accept concurrent reports when jobs > 1. The only error
// returned is the context's.
func CheckAll(ctx context.Context, v *Validator, roots []*Class, sink Sink, jobs int) error {
	if jobs <= 0 {
		jobs = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(roots), 1)))

	for _, root := range roots {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			Check(v, root, sink)
			return nil
		})
	}
	return g.Wait()
}
