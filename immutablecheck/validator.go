package immutablecheck

import "fmt"

const DefaultMaxDepth = 64

// Validator checks classes marked immutable against the field rules.
// A Validator may be shared by concurrent validations; every call to
// Validate keeps its own walk state.
type Validator struct {
	model    Model
	resolver *Resolver
	maxDepth int
}

// NewValidator returns a Validator over m. A non-positive maxDepth means DefaultMaxDepth.
func NewValidator(m Model, maxDepth int) *Validator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Validator{model: m, resolver: NewResolver(m), maxDepth: maxDepth}
}

func (v *Validator) Resolver() *Resolver {
	return v.resolver
}

// Validate returns the violations found in root. Model failures are returned
// as an error; callers that want them as diagnostics use Check.
func (v *Validator) Validate(root *Class) ([]Diagnostic, error) {
	out := &sliceSink{}
	w := &walk{
		v:       v,
		root:    root,
		sink:    newDedupSink(out),
		visited: make(map[*Class]struct{}),
	}
	if err := w.run(); err != nil {
		return out.items, err
	}
	return out.items, nil
}

// walk is the state of one validation of one root.
type walk struct {
	v       *Validator
	root    *Class
	sink    Sink
	visited map[*Class]struct{}
}

func (w *walk) run() error {
	if err := w.checkTypeParams(); err != nil {
		return err
	}

	marked, err := w.rootIsMarked(MarkerImmutable)
	if err != nil {
		return err
	}
	if !marked {
		return nil
	}
	putLog(dbug, "validating fields", "class", w.root.Name)
	return w.checkClass(w.root, 0)
}

// rootIsMarked looks up m on the root. Unmarked classes stay silent, so a
// cycle found here is not reported. If a marker sits below the cycle,
// checkClass reports it while collecting inherited fields.
func (w *walk) rootIsMarked(m Marker) (bool, error) {
	ok, err := w.v.resolver.IsMarked(ClassDecl(w.root), m)
	if _, isCycle := asCycle(err); isCycle {
		return false, nil
	}
	return ok, err
}

// isMarked is Resolver.IsMarked with supertype cycles turned into a
// diagnostic. A class on a cycle counts as unmarked.
func (w *walk) isMarked(d Declaration, m Marker) (bool, error) {
	ok, err := w.v.resolver.IsMarked(d, m)
	if err != nil {
		if cycle, isCycle := asCycle(err); isCycle {
			w.sink.Report(cycleDiagnostic(w.root, cycle))
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func (w *walk) checkTypeParams() error {
	marked, err := w.rootIsMarked(MarkerImmutableTypeParameters)
	if err != nil || !marked {
		return err
	}

	params, err := w.v.model.TypeParams(w.root)
	if err != nil {
		return fmt.Errorf("type parameters of %s: %w", w.root.Name, err)
	}
	for _, p := range params {
		safe, err := w.isMarked(ParamDecl(p), MarkerImmutable)
		if err != nil {
			return err
		}
		if !safe {
			w.sink.Report(unsafeTypeParamDiagnostic(w.root, p))
		}
	}
	return nil
}

// checkClass inspects the fields declared on c and on each of its
// ancestors. Each class is inspected at most once per root.
func (w *walk) checkClass(c *Class, depth int) error {
	for anc, err := range w.v.resolver.Ancestors(c) {
		if err != nil {
			if cycle, ok := asCycle(err); ok {
				w.sink.Report(cycleDiagnostic(w.root, cycle))
				return nil
			}
			return err
		}
		if _, seen := w.visited[anc]; seen {
			continue
		}
		w.visited[anc] = struct{}{}

		fields, err := w.v.model.Fields(anc)
		if err != nil {
			return fmt.Errorf("fields of %s: %w", anc.Name, err)
		}
		for _, f := range fields {
			if err := w.checkField(f, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walk) checkField(f Field, depth int) error {
	leaf := f.Type.Primitive || IsBuiltinImmutable(f.Type.Name)

	compliant := f.Final && leaf
	if f.Final && !leaf {
		marked, err := w.isMarked(f.Type.Decl, MarkerImmutable)
		if err != nil {
			return err
		}
		compliant = marked
	}
	if !compliant {
		w.sink.Report(mutableFieldDiagnostic(w.root, f))
		return nil
	}

	if leaf || f.Type.Decl.Kind != KindClass {
		return nil
	}
	if _, seen := w.visited[f.Type.Decl.Class]; seen {
		return nil
	}
	if depth+1 > w.v.maxDepth {
		w.sink.Report(depthDiagnostic(w.root, f, w.v.maxDepth))
		return nil
	}
	return w.checkClass(f.Type.Decl.Class, depth+1)
}
