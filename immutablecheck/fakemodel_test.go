package immutablecheck

import (
	"errors"
	"go/token"
)

// fakeModel is an in-memory Model. Build it fully before validating; after
// that it is only read, so it is safe for concurrent use.
type fakeModel struct {
	nextPos     token.Pos
	supers      map[*Class]*Class
	fields      map[*Class][]Field
	params      map[*Class][]*TypeParam
	bounds      map[*TypeParam][]Declaration
	markers     map[*Class]MarkerSet
	failFields  map[*Class]error
	panicFields map[*Class]bool
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		nextPos:     1,
		supers:      make(map[*Class]*Class),
		fields:      make(map[*Class][]Field),
		params:      make(map[*Class][]*TypeParam),
		bounds:      make(map[*TypeParam][]Declaration),
		markers:     make(map[*Class]MarkerSet),
		failFields:  make(map[*Class]error),
		panicFields: make(map[*Class]bool),
	}
}

func (m *fakeModel) pos() token.Pos {
	p := m.nextPos
	m.nextPos += 10
	return p
}

func (m *fakeModel) class(name string, markers ...Marker) *Class {
	c := &Class{Name: name, Pos: m.pos()}
	var set MarkerSet
	for _, mk := range markers {
		set = set.With(mk)
	}
	m.markers[c] = set
	return c
}

func (m *fakeModel) extends(sub, super *Class) {
	m.supers[sub] = super
}

func (m *fakeModel) field(c *Class, name string, final bool, t TypeRef) Field {
	f := Field{Name: name, Pos: m.pos(), Final: final, Type: t}
	m.fields[c] = append(m.fields[c], f)
	return f
}

func (m *fakeModel) typeParam(c *Class, name string, bounds ...Declaration) *TypeParam {
	p := &TypeParam{Name: name, Pos: m.pos()}
	m.params[c] = append(m.params[c], p)
	m.bounds[p] = bounds
	return p
}

func prim(name string) TypeRef {
	return TypeRef{Name: name, Primitive: true}
}

func opaque(name string) TypeRef {
	return TypeRef{Name: name}
}

func ref(c *Class) TypeRef {
	return TypeRef{Name: c.Name, Decl: ClassDecl(c)}
}

func ptrRef(c *Class) TypeRef {
	return TypeRef{Name: "*" + c.Name, Decl: ClassDecl(c)}
}

func paramRef(p *TypeParam) TypeRef {
	return TypeRef{Name: p.Name, Decl: ParamDecl(p)}
}

var errBroken = errors.New("broken declaration")

func (m *fakeModel) Superclass(c *Class) (*Class, error) {
	return m.supers[c], nil
}

func (m *fakeModel) Fields(c *Class) ([]Field, error) {
	if m.panicFields[c] {
		panic("fields of " + c.Name)
	}
	if err := m.failFields[c]; err != nil {
		return nil, err
	}
	return m.fields[c], nil
}

func (m *fakeModel) TypeParams(c *Class) ([]*TypeParam, error) {
	return m.params[c], nil
}

func (m *fakeModel) Bounds(p *TypeParam) ([]Declaration, error) {
	return m.bounds[p], nil
}

func (m *fakeModel) HasMarker(c *Class, mk Marker) bool {
	return m.markers[c].Has(mk)
}
