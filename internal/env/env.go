// Package env provides the REPL-facing session environment: the pairing
// of a name's type scheme (for printing and for the next statement's
// inference) with its runtime value (for the next statement's
// evaluation), kept as two parallel persistent layers so that a
// type-checked-but-not-yet-evaluated declaration never desyncs the two.
package env

import (
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/types"
)

// Binding is one named value as the REPL reports it: `val NAME = VALUE :
// TYPE`.
type Binding struct {
	Name   string
	Scheme *types.Scheme
	Value  eval.Value
}

// Session threads a types.Env and an eval.Environment side by side,
// extended together so a name is never bound in one without the other.
type Session struct {
	Types  *types.Env
	Values *eval.Environment
}

// New returns a Session seeded with typeEnv (the base operator/builtin
// type environment) and valueEnv as its runtime environment; valueEnv
// should already carry the matching runtime builtins (internal/eval.BaseEnv).
func New(typeEnv *types.Env, valueEnv *eval.Environment) *Session {
	return &Session{Types: typeEnv, Values: valueEnv}
}

// Bind extends both layers with one name, returning the new Session.
// The receiver is left untouched, matching the immutability of the
// layers it wraps.
func (s *Session) Bind(b Binding) *Session {
	return &Session{
		Types:  s.Types.Extend(b.Name, b.Scheme),
		Values: s.Values.Extend(b.Name, b.Value),
	}
}

// BindAll extends both layers with several names as a single new layer
// each, for a mutually recursive `val rec`/`fun` group.
func (s *Session) BindAll(binds []Binding) *Session {
	types_ := make(map[string]*types.Scheme, len(binds))
	values := make(map[string]eval.Value, len(binds))
	for _, b := range binds {
		types_[b.Name] = b.Scheme
		values[b.Name] = b.Value
	}
	return &Session{
		Types:  s.Types.ExtendAll(types_),
		Values: s.Values.ExtendAll(values),
	}
}

// Names returns every name bound in the type-scheme layer, for `:env`-
// style REPL listings. Constructors introduced by a datatype declaration
// are bound only here (never in Values), so this is the layer to
// enumerate.
func (s *Session) Names() []string {
	return s.Types.Names()
}

// Lookup returns the full Binding for name, if bound in both layers. A
// name present in one layer but not the other indicates a bug upstream
// (some code path bound only half the pair) rather than a normal miss.
func (s *Session) Lookup(name string) (Binding, bool) {
	scheme, ok := s.Types.Lookup(name)
	if !ok {
		return Binding{}, false
	}
	value, ok := s.Values.Get(name)
	if !ok {
		return Binding{}, false
	}
	return Binding{Name: name, Scheme: scheme, Value: value}, true
}
