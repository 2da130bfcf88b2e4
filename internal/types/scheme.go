package types

import "sort"

// Scheme is a type scheme (polytype): a set of universally quantified type
// variables over a body type, produced by generalization at `let`/`val`
// boundaries and instantiated afresh at each use site (classic
// let-polymorphism).
type Scheme struct {
	Vars []string
	Body Type
}

// Mono wraps a type with no quantified variables, the common case for
// lambda-bound parameters and other monomorphic bindings.
func Mono(t Type) *Scheme {
	return &Scheme{Body: t}
}

// FreeVars collects the free type variable names occurring in t.
func FreeVars(t Type) map[string]bool {
	out := map[string]bool{}
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Type, out map[string]bool) {
	switch n := t.(type) {
	case *TVar:
		out[n.Name] = true
	case *TFn:
		collectFreeVars(n.Param, out)
		collectFreeVars(n.Result, out)
	case *TTuple:
		for _, e := range n.Elems {
			collectFreeVars(e, out)
		}
	case *TRecord:
		for _, f := range n.Fields {
			collectFreeVars(f.Type, out)
		}
	case *TContainer:
		collectFreeVars(n.Elem, out)
	case *TData:
		for _, a := range n.Args {
			collectFreeVars(a, out)
		}
	}
}

// Generalize closes over every free variable of t that is not free in the
// surrounding environment, producing the scheme bound at a `let`/`val`.
func Generalize(env *Env, t Type, reg *Registry) *Scheme {
	tFree := FreeVars(t)
	envFree := env.FreeVars()
	var vars []string
	for v := range tFree {
		if !envFree[v] {
			vars = append(vars, v)
		}
	}
	sort.Strings(vars)
	return &Scheme{Vars: vars, Body: t}
}

// Instantiate replaces every quantified variable of the scheme with a
// fresh type variable, using fresh to mint each one.
func Instantiate(s *Scheme, reg *Registry, fresh func() Type) Type {
	if len(s.Vars) == 0 {
		return s.Body
	}
	sub := make(map[string]Type, len(s.Vars))
	for _, v := range s.Vars {
		sub[v] = fresh()
	}
	return ApplySub(sub, s.Body, reg)
}

// ApplySub substitutes type variables in t according to sub, rebuilding
// (and re-interning, via reg) any composite type whose children changed.
func ApplySub(sub map[string]Type, t Type, reg *Registry) Type {
	switch n := t.(type) {
	case *TVar:
		if repl, ok := sub[n.Name]; ok {
			return repl
		}
		return t
	case *TPrim:
		return t
	case *TFn:
		p := ApplySub(sub, n.Param, reg)
		r := ApplySub(sub, n.Result, reg)
		if p == n.Param && r == n.Result {
			return t
		}
		return reg.Fn(p, r)
	case *TTuple:
		changed := false
		elems := make([]Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = ApplySub(sub, e, reg)
			if elems[i] != e {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return reg.Tuple(elems)
	case *TRecord:
		changed := false
		fields := make([]RecordField, len(n.Fields))
		for i, f := range n.Fields {
			nt := ApplySub(sub, f.Type, reg)
			fields[i] = RecordField{Label: f.Label, Type: nt}
			if nt != f.Type {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return reg.Record(fields)
	case *TContainer:
		e := ApplySub(sub, n.Elem, reg)
		if e == n.Elem {
			return t
		}
		return reg.Container(e, n.Kind)
	case *TData:
		changed := false
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = ApplySub(sub, a, reg)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return reg.Data(n.Key, n.Name, args)
	default:
		return t
	}
}
