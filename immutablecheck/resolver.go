package immutablecheck

import (
	"errors"
	"fmt"
	"iter"
)

// CycleError is yielded by Ancestors when the supertype chain revisits a class.
type CycleError struct {
	Start *Class
	At    *Class
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("supertype chain of %s cycles through %s", e.Start.Name, e.At.Name)
}

// Resolver answers marker questions by walking supertype chains and
// type parameter bounds. It holds no state between calls.
type Resolver struct {
	model Model
}

func NewResolver(m Model) *Resolver {
	return &Resolver{model: m}
}

// Ancestors yields c, its superclass, and so on up to the root of the chain.
// A revisited class yields a *CycleError and ends the sequence.
func (r *Resolver) Ancestors(c *Class) iter.Seq2[*Class, error] {
	return func(yield func(*Class, error) bool) {
		visited := make(map[*Class]struct{})
		for cur := c; cur != nil; {
			if _, ok := visited[cur]; ok {
				yield(nil, &CycleError{Start: c, At: cur})
				return
			}
			visited[cur] = struct{}{}
			if !yield(cur, nil) {
				return
			}
			next, err := r.model.Superclass(cur)
			if err != nil {
				yield(nil, fmt.Errorf("superclass of %s: %w", cur.Name, err))
				return
			}
			cur = next
		}
	}
}

// IsMarked reports whether d or any of its ancestors carries m directly.
// A type parameter is checked through its bounds instead, whatever m is.
func (r *Resolver) IsMarked(d Declaration, m Marker) (bool, error) {
	switch d.Kind {
	case KindClass:
		return r.classIsMarked(d.Class, m)
	case KindTypeParameter:
		return r.TypeParamIsSafe(d.Param)
	}
	return false, nil
}

func (r *Resolver) classIsMarked(c *Class, m Marker) (bool, error) {
	for cur, err := range r.Ancestors(c) {
		if err != nil {
			return false, err
		}
		if r.model.HasMarker(cur, m) {
			return true, nil
		}
	}
	return false, nil
}

// TypeParamIsSafe reports whether every bound of p is marked immutable.
// A parameter without bounds is never safe.
func (r *Resolver) TypeParamIsSafe(p *TypeParam) (bool, error) {
	return r.paramIsSafe(p, make(map[*TypeParam]struct{}))
}

func (r *Resolver) paramIsSafe(p *TypeParam, visiting map[*TypeParam]struct{}) (bool, error) {
	if _, ok := visiting[p]; ok {
		return false, nil
	}
	visiting[p] = struct{}{}

	bounds, err := r.model.Bounds(p)
	if err != nil {
		return false, fmt.Errorf("bounds of type parameter %s: %w", p.Name, err)
	}
	if len(bounds) == 0 {
		return false, nil
	}
	for _, b := range bounds {
		var ok bool
		switch b.Kind {
		case KindClass:
			ok, err = r.classIsMarked(b.Class, MarkerImmutable)
		case KindTypeParameter:
			ok, err = r.paramIsSafe(b.Param, visiting)
		}
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func asCycle(err error) (*CycleError, bool) {
	var cycle *CycleError
	if errors.As(err, &cycle) {
		return cycle, true
	}
	return nil, false
}
