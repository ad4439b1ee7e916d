package immutablecheck

import (
	"cmp"
	"fmt"
	"go/token"
	"slices"
	"strings"
	"sync"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevError is the only severity the validator emits.
	SevError Severity = iota + 1
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	}
	return "unknown"
}

type Code uint16

const (
	CodeUnknown Code = iota
	CodeMutableField
	CodeUnsafeTypeParam
	CodeSupertypeCycle
	CodeDepthExceeded
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeMutableField:
		return "IMM001"
	case CodeUnsafeTypeParam:
		return "IMM002"
	case CodeSupertypeCycle:
		return "IMM003"
	case CodeDepthExceeded:
		return "IMM004"
	case CodeInternal:
		return "IMM999"
	}
	return "IMM000"
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Root is the class under check. Nested violations are attributed to it.
	Root *Class
	// Element names the offending field or type parameter, empty for class-level diagnostics.
	Element string
	Pos     token.Pos
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
}

func mutableFieldDiagnostic(root *Class, f Field) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     CodeMutableField,
		Message: fmt.Sprintf("Class %s marked immutable but element %s of type %s is not final and either primitive or immutable.",
			root.Name, f.Name, f.Type.Name),
		Root:    root,
		Element: f.Name,
		Pos:     f.Pos,
	}
}

func unsafeTypeParamDiagnostic(root *Class, p *TypeParam) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     CodeUnsafeTypeParam,
		Message:  fmt.Sprintf("Class %s but type parameter %s does not extend an immutable class.", root.Name, p.Name),
		Root:     root,
		Element:  p.Name,
		Pos:      p.Pos,
	}
}

func cycleDiagnostic(root *Class, err *CycleError) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     CodeSupertypeCycle,
		Message:  fmt.Sprintf("Class %s has a cyclic supertype chain through %s.", root.Name, err.At.Name),
		Root:     root,
		Pos:      root.Pos,
	}
}

func depthDiagnostic(root *Class, f Field, limit int) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     CodeDepthExceeded,
		Message:  fmt.Sprintf("Class %s exceeds the maximum nesting depth %d at element %s.", root.Name, limit, f.Name),
		Root:     root,
		Element:  f.Name,
		Pos:      f.Pos,
	}
}

func internalDiagnostic(root *Class, detail string) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     CodeInternal,
		Message:  fmt.Sprintf("Class %s could not be validated: %s", root.Name, detail),
		Root:     root,
		Pos:      root.Pos,
	}
}

// Sink receives diagnostics. Sinks used with CheckAll must accept
// concurrent calls.
type Sink interface {
	Report(d Diagnostic)
}

// Bag is a Sink that collects diagnostics. Safe for concurrent use.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (b *Bag) Report(d Diagnostic) {
	b.mu.Lock()
	b.items = append(b.items, d)
	b.mu.Unlock()
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected diagnostics sorted by position,
// then root, then message, so that parallel runs print deterministically.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	items := slices.Clone(b.items)
	b.mu.Unlock()

	slices.SortStableFunc(items, func(x, y Diagnostic) int {
		if x.Pos != y.Pos {
			return cmp.Compare(x.Pos, y.Pos)
		}
		if c := strings.Compare(rootName(x), rootName(y)); c != 0 {
			return c
		}
		return strings.Compare(x.Message, y.Message)
	})
	return items
}

func rootName(d Diagnostic) string {
	if d.Root == nil {
		return ""
	}
	return d.Root.Name
}

type dedupKey struct {
	code Code
	pos  token.Pos
	msg  string
}

// dedupSink suppresses diagnostics already seen with the same code,
// position and message.
type dedupSink struct {
	next Sink
	seen map[dedupKey]struct{}
}

func newDedupSink(next Sink) *dedupSink {
	return &dedupSink{next: next, seen: make(map[dedupKey]struct{})}
}

func (s *dedupSink) Report(d Diagnostic) {
	key := dedupKey{code: d.Code, pos: d.Pos, msg: d.Message}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.next.Report(d)
}

// sliceSink appends to a slice. Not safe for concurrent use.
type sliceSink struct {
	items []Diagnostic
}

func (s *sliceSink) Report(d Diagnostic) {
	s.items = append(s.items, d)
}
