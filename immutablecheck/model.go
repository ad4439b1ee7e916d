package immutablecheck

import (
	"go/token"
	"strings"
)

// Marker is an out-of-band tag a declaration can carry.
type Marker int

const (
	// MarkerImmutable requires every field of the type and its subtypes to be immutable.
	MarkerImmutable Marker = iota
	// MarkerImmutableTypeParameters requires the type's generic parameters to be immutable-safe.
	MarkerImmutableTypeParameters
)

func (m Marker) String() string {
	switch m {
	case MarkerImmutable:
		return "immutable"
	case MarkerImmutableTypeParameters:
		return "immutable-type-parameters"
	}
	return "unknown"
}

// MarkerSet is a bit set of markers carried directly by one declaration.
type MarkerSet uint8

func (s MarkerSet) Has(m Marker) bool {
	return s&(1<<m) != 0
}

func (s MarkerSet) With(m Marker) MarkerSet {
	return s | 1<<m
}

func (s MarkerSet) String() string {
	var names []string
	for _, m := range []Marker{MarkerImmutable, MarkerImmutableTypeParameters} {
		if s.Has(m) {
			names = append(names, m.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Class is a class-like declaration. Hosts hand out one *Class per
// declaration so that pointer identity is declaration identity.
type Class struct {
	Name string // canonical name
	Pos  token.Pos
	Host any
}

// TypeParam is a generic parameter declared on a Class.
type TypeParam struct {
	Name string
	Pos  token.Pos
	Host any
}

type DeclKind uint8

const (
	// KindNone marks a reference that resolves to no declaration (slices, maps, funcs, ...).
	KindNone DeclKind = iota
	KindClass
	KindTypeParameter
)

// Declaration is what a type reference resolves to.
type Declaration struct {
	Kind  DeclKind
	Class *Class
	Param *TypeParam
}

func ClassDecl(c *Class) Declaration {
	return Declaration{Kind: KindClass, Class: c}
}

func ParamDecl(p *TypeParam) Declaration {
	return Declaration{Kind: KindTypeParameter, Param: p}
}

func (d Declaration) String() string {
	switch d.Kind {
	case KindClass:
		return d.Class.Name
	case KindTypeParameter:
		return d.Param.Name
	}
	return "<none>"
}

// TypeRef is the value type of a field.
type TypeRef struct {
	Name      string // canonical name, used for allowlist matching and messages
	Primitive bool
	Decl      Declaration
}

// Field is a field declared directly on a Class.
type Field struct {
	Name  string
	Pos   token.Pos
	Final bool
	Type  TypeRef
}

// Model is the type-model query a host supplies. Implementations answer
// from an immutable snapshot and must be safe for concurrent use when the
// validator is fanned out with CheckAll.
type Model interface {
	// Superclass returns the direct supertype of c, or nil at the root of the chain.
	Superclass(c *Class) (*Class, error)
	// Fields returns the fields declared directly on c, excluding the supertype link.
	Fields(c *Class) ([]Field, error)
	TypeParams(c *Class) ([]*TypeParam, error)
	// Bounds returns the declared upper bounds of p in declaration order.
	Bounds(p *TypeParam) ([]Declaration, error)
	// HasMarker reports whether c carries m directly. Inheritance is not applied.
	HasMarker(c *Class, m Marker) bool
}
