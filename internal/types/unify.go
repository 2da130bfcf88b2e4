package types

import "fmt"

// UnifyError reports a unification failure: a structural clash or an
// occurs-check violation between two types, at a source position supplied
// by the caller (the resolver attaches positions; this package stays
// position-agnostic so it can be reused outside the resolver, e.g. by
// `over`/`inst` overload resolution).
type UnifyError struct {
	Left, Right Type
	Reason      string
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
}

// Substitution maps type variable names to their bound types. It is built
// up incrementally by Unify; a bound type may itself mention variables
// that are bound elsewhere in the map, so readers go through Walk (to the
// first non-bound type) or Apply (fully resolved).
type Substitution map[string]Type

// Walk follows t through sub until it reaches a type that is not a bound
// variable.
func (sub Substitution) Walk(t Type) Type {
	for {
		v, ok := t.(*TVar)
		if !ok {
			return t
		}
		next, ok := sub[v.Name]
		if !ok {
			return t
		}
		t = next
	}
}

// Apply fully resolves t through the substitution, rebuilding composite
// types bottom-up via reg so the result is interned.
func (sub Substitution) Apply(t Type, reg *Registry) Type {
	t = sub.Walk(t)
	switch n := t.(type) {
	case *TFn:
		return reg.Fn(sub.Apply(n.Param, reg), sub.Apply(n.Result, reg))
	case *TTuple:
		elems := make([]Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = sub.Apply(e, reg)
		}
		return reg.Tuple(elems)
	case *TRecord:
		fields := make([]RecordField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = RecordField{Label: f.Label, Type: sub.Apply(f.Type, reg)}
		}
		return reg.Record(fields)
	case *TContainer:
		return reg.Container(sub.Apply(n.Elem, reg), n.Kind)
	case *TData:
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = sub.Apply(a, reg)
		}
		return reg.Data(n.Key, n.Name, args)
	default:
		return t
	}
}

// Unifier carries the Registry used to rebuild interned types as
// unification decomposes and reconstructs them.
type Unifier struct {
	Reg *Registry
}

func NewUnifier(reg *Registry) *Unifier { return &Unifier{Reg: reg} }

// Unify solves t1 =.= t2 against the given substitution, returning an
// extended substitution or a UnifyError. It implements the six
// Martelli-Montanari rules (delete, decompose, conflict, swap, eliminate,
// occurs-check) over Loom's type grammar.
func (u *Unifier) Unify(t1, t2 Type, sub Substitution) (Substitution, error) {
	t1 = sub.Walk(t1)
	t2 = sub.Walk(t2)

	// delete: identical interned types (covers TVar==TVar, TPrim==TPrim
	// of the same kind, and any other pointer-identical interned type).
	if t1 == t2 {
		return sub, nil
	}

	v1, v1ok := t1.(*TVar)
	v2, v2ok := t2.(*TVar)

	switch {
	case v1ok && v2ok:
		// swap is implicit: bind whichever side is the variable.
		return u.bind(v1.Name, t2, sub)
	case v1ok:
		return u.bind(v1.Name, t2, sub)
	case v2ok:
		return u.bind(v2.Name, t1, sub)
	}

	switch n1 := t1.(type) {
	case *TPrim:
		n2, ok := t2.(*TPrim)
		if !ok || n1.Kind != n2.Kind {
			return nil, &UnifyError{t1, t2, "primitive type mismatch"}
		}
		return sub, nil

	case *TFn:
		n2, ok := t2.(*TFn)
		if !ok {
			return nil, &UnifyError{t1, t2, "expected a function type"}
		}
		sub, err := u.Unify(n1.Param, n2.Param, sub)
		if err != nil {
			return nil, err
		}
		return u.Unify(n1.Result, n2.Result, sub)

	case *TTuple:
		n2, ok := t2.(*TTuple)
		if !ok || len(n1.Elems) != len(n2.Elems) {
			return nil, &UnifyError{t1, t2, "tuple arity mismatch"}
		}
		var err error
		for i := range n1.Elems {
			sub, err = u.Unify(n1.Elems[i], n2.Elems[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil

	case *TRecord:
		n2, ok := t2.(*TRecord)
		if !ok || len(n1.Fields) != len(n2.Fields) {
			return nil, &UnifyError{t1, t2, "record shape mismatch"}
		}
		var err error
		for i := range n1.Fields {
			if n1.Fields[i].Label != n2.Fields[i].Label {
				return nil, &UnifyError{t1, t2, fmt.Sprintf("record label mismatch: %q vs %q", n1.Fields[i].Label, n2.Fields[i].Label)}
			}
			sub, err = u.Unify(n1.Fields[i].Type, n2.Fields[i].Type, sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil

	case *TContainer:
		n2, ok := t2.(*TContainer)
		if !ok || n1.Kind != n2.Kind {
			return nil, &UnifyError{t1, t2, "container kind mismatch"}
		}
		return u.Unify(n1.Elem, n2.Elem, sub)

	case *TData:
		n2, ok := t2.(*TData)
		if !ok || n1.Key != n2.Key || len(n1.Args) != len(n2.Args) {
			return nil, &UnifyError{t1, t2, "datatype mismatch"}
		}
		var err error
		for i := range n1.Args {
			sub, err = u.Unify(n1.Args[i], n2.Args[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil

	default:
		return nil, &UnifyError{t1, t2, "incomparable types"}
	}
}

// bind extends sub with name := t after an occurs-check, returning an
// UnifyError if t contains name (which would produce an infinite type).
func (u *Unifier) bind(name string, t Type, sub Substitution) (Substitution, error) {
	if v, ok := t.(*TVar); ok && v.Name == name {
		return sub, nil
	}
	if occurs(name, t, sub) {
		return nil, &UnifyError{u.Reg.Var(name), t, "occurs check failed: infinite type"}
	}
	out := make(Substitution, len(sub)+1)
	for k, v := range sub {
		out[k] = v
	}
	out[name] = t
	return out, nil
}

func occurs(name string, t Type, sub Substitution) bool {
	t = sub.Walk(t)
	switch n := t.(type) {
	case *TVar:
		return n.Name == name
	case *TFn:
		return occurs(name, n.Param, sub) || occurs(name, n.Result, sub)
	case *TTuple:
		for _, e := range n.Elems {
			if occurs(name, e, sub) {
				return true
			}
		}
		return false
	case *TRecord:
		for _, f := range n.Fields {
			if occurs(name, f.Type, sub) {
				return true
			}
		}
		return false
	case *TContainer:
		return occurs(name, n.Elem, sub)
	case *TData:
		for _, a := range n.Args {
			if occurs(name, a, sub) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
