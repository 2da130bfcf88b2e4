package types

import (
	"sort"
	"strings"
	"sync"
)

// Registry interns structurally equal types so that, once built through a
// Registry's constructors, equal types share the same pointer and equality
// is pointer equality. It also owns the authoritative table
// of declared datatypes, addressed by the stable DataKey handle.
type Registry struct {
	mu      sync.Mutex
	interns map[string]Type
	data    map[DataKey]*DataInfo
	byName  map[string]DataKey
	nextKey DataKey
}

// NewRegistry returns an empty registry seeded with nothing but the
// primitive types, which are interned lazily like everything else.
func NewRegistry() *Registry {
	return &Registry{
		interns: make(map[string]Type),
		data:    make(map[DataKey]*DataInfo),
		byName:  make(map[string]DataKey),
	}
}

func (r *Registry) intern(key string, build func() Type) Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.interns[key]; ok {
		return t
	}
	t := build()
	r.interns[key] = t
	return t
}

// PrimType returns the interned primitive type.
func (r *Registry) PrimType(p Prim) Type {
	return r.intern("prim:"+p.String(), func() Type { return &TPrim{Kind: p} })
}

// Var returns the interned type variable with the given name. Two calls
// with the same name return the same pointer, which is what makes
// substitution-by-name and occurs-check pointer comparisons sound.
func (r *Registry) Var(name string) Type {
	return r.intern("var:"+name, func() Type { return &TVar{Name: name} })
}

// Fn returns the interned function type param -> result.
func (r *Registry) Fn(param, result Type) Type {
	return r.intern("fn:"+param.String()+"->"+result.String(), func() Type {
		return &TFn{Param: param, Result: result}
	})
}

// Tuple returns the interned tuple type. A nil/empty slice is Unit.
func (r *Registry) Tuple(elems []Type) Type {
	if len(elems) == 0 {
		return r.PrimType(Unit)
	}
	if len(elems) == 1 {
		return elems[0]
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	key := "tuple:" + strings.Join(parts, ",")
	return r.intern(key, func() Type { return &TTuple{Elems: elems} })
}

// Record returns the interned record type built from fields, which are
// sorted into canonical label order before interning so that field order
// in the caller's slice never affects identity. A record whose label set
// is exactly {"1",...,"n"} degrades to a tuple, matching the surface
// grammar's `(t1, t2)` being sugar for `{1: t1, 2: t2}`.
func (r *Registry) Record(fields []RecordField) Type {
	sorted := append([]RecordField(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return CanonicalLabelLess(sorted[i].Label, sorted[j].Label) })
	labels := make([]string, len(sorted))
	for i, f := range sorted {
		labels[i] = f.Label
	}
	if IsTupleLabels(labels) {
		elems := make([]Type, len(sorted))
		for i, f := range sorted {
			elems[i] = f.Type
		}
		return r.Tuple(elems)
	}
	var b strings.Builder
	b.WriteString("record:")
	for _, f := range sorted {
		b.WriteString(f.Label)
		b.WriteByte('=')
		b.WriteString(f.Type.String())
		b.WriteByte(';')
	}
	return r.intern(b.String(), func() Type { return &TRecord{Fields: sorted} })
}

// Container returns the interned `elem list`/`elem bag`/`elem vector` type.
func (r *Registry) Container(elem Type, kind ContainerKind) Type {
	key := kind.String() + ":" + elem.String()
	return r.intern(key, func() Type { return &TContainer{Elem: elem, Kind: kind} })
}

// DeclareData registers a new datatype (or replaces an existing one of the
// same name in place, so already-built TData values referencing its
// DataKey pick up the new constructor set) and returns its DataKey.
func (r *Registry) DeclareData(name string, tyVars []string) DataKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.byName[name]; ok {
		r.data[key] = &DataInfo{Key: key, Name: name, TyVars: tyVars, Ctors: map[string]*CtorInfo{}}
		return key
	}
	key := r.nextKey
	r.nextKey++
	r.byName[name] = key
	r.data[key] = &DataInfo{Key: key, Name: name, TyVars: tyVars, Ctors: map[string]*CtorInfo{}}
	return key
}

// AddCtor attaches a constructor to an already-declared datatype.
func (r *Registry) AddCtor(key DataKey, name string, payload Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key].Ctors[name] = &CtorInfo{Name: name, Payload: payload}
}

// DataInfo looks up the authoritative record for a DataKey.
func (r *Registry) DataInfo(key DataKey) (*DataInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.data[key]
	return d, ok
}

// LookupDataByName finds a previously declared datatype by name.
func (r *Registry) LookupDataByName(name string) (*DataInfo, bool) {
	r.mu.Lock()
	key, ok := r.byName[name]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	return r.DataInfo(key)
}

// Data returns the interned application of a declared datatype to args.
func (r *Registry) Data(key DataKey, name string, args []Type) Type {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(name)
	for _, a := range args {
		b.WriteByte(',')
		b.WriteString(a.String())
	}
	return r.intern(b.String(), func() Type { return &TData{Key: key, Name: name, Args: args} })
}

// LookupCtor finds the datatype and constructor info for a constructor
// name, searching every declared datatype. Constructor names are unique
// across the whole environment, matching the surface language's single
// flat constructor namespace.
func (r *Registry) LookupCtor(name string) (*DataInfo, *CtorInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.data {
		if c, ok := d.Ctors[name]; ok {
			return d, c, true
		}
	}
	return nil, nil, false
}
