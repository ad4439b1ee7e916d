package immutablecheck

import (
	"errors"
	"fmt"
	"go/types"
	"sync"

	"golang.org/x/tools/go/analysis"
)

// ErrUnresolvedType is returned when a field or bound has no valid type,
// usually because the package did not type-check.
var ErrUnresolvedType = errors.New("unresolved type")

// markerFact is exported for every type declared with a marker comment so
// that packages importing it see the marker.
type markerFact struct {
	Markers MarkerSet
}

func (*markerFact) AFact() {}

func (f *markerFact) String() string {
	return f.Markers.String()
}

// goModel implements Model over the types of one analysis pass. Classes and
// type parameters are memoized so pointer identity follows declaration
// identity across the whole pass.
type goModel struct {
	pass  *analysis.Pass
	local map[*types.TypeName]MarkerSet

	mu       sync.Mutex
	classes  map[*types.TypeName]*Class
	params   map[*types.TypeParam]*TypeParam
	imported map[*types.TypeName]MarkerSet
}

func newGoModel(pass *analysis.Pass, local map[*types.TypeName]MarkerSet) *goModel {
	return &goModel{
		pass:     pass,
		local:    local,
		classes:  make(map[*types.TypeName]*Class),
		params:   make(map[*types.TypeParam]*TypeParam),
		imported: make(map[*types.TypeName]MarkerSet),
	}
}

func canonicalName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func (m *goModel) classOf(obj *types.TypeName) *Class {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.classes[obj]; ok {
		return c
	}
	c := &Class{Name: canonicalName(obj), Pos: obj.Pos(), Host: obj}
	m.classes[obj] = c
	return c
}

func (m *goModel) paramOf(tp *types.TypeParam) *TypeParam {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.params[tp]; ok {
		return p
	}
	p := &TypeParam{Name: tp.Obj().Name(), Pos: tp.Obj().Pos(), Host: tp}
	m.params[tp] = p
	return p
}

func typeNameOf(c *Class) (*types.TypeName, error) {
	obj, ok := c.Host.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("class %s has no type declaration", c.Name)
	}
	return obj, nil
}

// namedOf strips aliases and one pointer and returns the declared named type.
func namedOf(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if ptr, ok := t.(*types.Pointer); ok {
		t = types.Unalias(ptr.Elem())
	}
	named, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	return named.Origin(), true
}

func structOf(obj *types.TypeName) (*types.Struct, bool) {
	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return nil, false
	}
	st, ok := named.Origin().Underlying().(*types.Struct)
	return st, ok
}

// superIndex returns the index of the embedded field that links obj to its
// supertype: the first embedded named struct. Embedded interfaces are skipped.
func superIndex(st *types.Struct) int {
	for i := range st.NumFields() {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		named, ok := namedOf(f.Type())
		if !ok {
			continue
		}
		if _, isStruct := named.Underlying().(*types.Struct); isStruct {
			return i
		}
	}
	return -1
}

func (m *goModel) Superclass(c *Class) (*Class, error) {
	obj, err := typeNameOf(c)
	if err != nil {
		return nil, err
	}
	st, ok := structOf(obj)
	if !ok {
		return nil, nil
	}
	i := superIndex(st)
	if i < 0 {
		return nil, nil
	}
	named, _ := namedOf(st.Field(i).Type())
	return m.classOf(named.Obj()), nil
}

func (m *goModel) Fields(c *Class) ([]Field, error) {
	obj, err := typeNameOf(c)
	if err != nil {
		return nil, err
	}
	st, ok := structOf(obj)
	if !ok {
		return nil, nil
	}

	super := superIndex(st)
	fields := make([]Field, 0, st.NumFields())
	for i := range st.NumFields() {
		if i == super {
			continue
		}
		v := st.Field(i)
		ref, err := m.typeRef(v.Type())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", v.Name(), err)
		}
		fields = append(fields, Field{
			Name:  v.Name(),
			Pos:   v.Pos(),
			Final: !v.Exported(),
			Type:  ref,
		})
	}
	return fields, nil
}

func (m *goModel) typeRef(t types.Type) (TypeRef, error) {
	t = types.Unalias(t)
	ref := TypeRef{Name: types.TypeString(t, nil)}

	switch t := t.(type) {
	case *types.Basic:
		if t.Kind() == types.Invalid {
			return ref, ErrUnresolvedType
		}
		ref.Primitive = t.Kind() != types.UnsafePointer
	case *types.Named:
		if b, ok := t.Underlying().(*types.Basic); ok {
			ref.Primitive = b.Kind() != types.UnsafePointer
		}
		ref.Decl = ClassDecl(m.classOf(t.Origin().Obj()))
	case *types.Pointer:
		if named, ok := namedOf(t); ok {
			ref.Decl = ClassDecl(m.classOf(named.Obj()))
		}
	case *types.TypeParam:
		ref.Decl = ParamDecl(m.paramOf(t))
	}
	return ref, nil
}

func (m *goModel) TypeParams(c *Class) ([]*TypeParam, error) {
	obj, err := typeNameOf(c)
	if err != nil {
		return nil, err
	}
	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return nil, nil
	}
	tparams := named.Origin().TypeParams()
	params := make([]*TypeParam, 0, tparams.Len())
	for i := range tparams.Len() {
		params = append(params, m.paramOf(tparams.At(i)))
	}
	return params, nil
}

// Bounds treats a named constraint as the single bound of p. For an
// interface literal every embedded type and every union term is a bound,
// so `any` has none.
func (m *goModel) Bounds(p *TypeParam) ([]Declaration, error) {
	tp, ok := p.Host.(*types.TypeParam)
	if !ok {
		return nil, fmt.Errorf("type parameter %s has no declaration", p.Name)
	}

	constraint := types.Unalias(tp.Constraint())
	if named, ok := constraint.(*types.Named); ok {
		return []Declaration{ClassDecl(m.classOf(named.Origin().Obj()))}, nil
	}
	iface, ok := constraint.Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("constraint of %s: %w", p.Name, ErrUnresolvedType)
	}

	var bounds []Declaration
	for i := range iface.NumEmbeddeds() {
		switch e := types.Unalias(iface.EmbeddedType(i)).(type) {
		case *types.Union:
			for j := range e.Len() {
				bounds = append(bounds, m.boundOf(e.Term(j).Type()))
			}
		default:
			bounds = append(bounds, m.boundOf(e))
		}
	}
	return bounds, nil
}

func (m *goModel) boundOf(t types.Type) Declaration {
	if tp, ok := types.Unalias(t).(*types.TypeParam); ok {
		return ParamDecl(m.paramOf(tp))
	}
	if named, ok := namedOf(t); ok {
		return ClassDecl(m.classOf(named.Obj()))
	}
	return Declaration{}
}

func (m *goModel) HasMarker(c *Class, marker Marker) bool {
	obj, err := typeNameOf(c)
	if err != nil || obj.Pkg() == nil {
		return false
	}
	if obj.Pkg() == m.pass.Pkg {
		return m.local[obj].Has(marker)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.imported[obj]
	if !ok {
		var fact markerFact
		if m.pass.ImportObjectFact(obj, &fact) {
			set = fact.Markers
		}
		m.imported[obj] = set
	}
	return set.Has(marker)
}
