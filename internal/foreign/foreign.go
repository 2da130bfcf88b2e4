// Package foreign implements the `--foreign=CLASS` plug-in interface: a
// Provider contributes one value of a host-defined type into the base
// environment, carrying both the type it should be known at (so the
// resolver can type-check uses of it) and the runtime value itself (so
// the evaluator has something to bind it to).
package foreign

import (
	"fmt"
	"os"
	"sort"

	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/types"
)

// Provider contributes one foreign binding into the base environment.
type Provider interface {
	// Name is the `--foreign=NAME` identifier this provider registers
	// under.
	Name() string

	// BindingName is the identifier the value is exposed as in Loom
	// source, e.g. "env" for EnvProvider's `env : string -> string
	// option`.
	BindingName() string

	// Type returns the type scheme the binding is given, interning any
	// composite types through reg.
	Type(reg *types.Registry) *types.Scheme

	// Value returns the runtime value bound to BindingName.
	Value() eval.Value
}

// CtorProvider is implemented by a Provider whose Type depends on a
// datatype the provider itself owns (rather than one declared by the
// Loom program being run), so the caller wiring the base environment
// must also bind the datatype's constructors as values before any
// pattern in user source can match against them. internal/repl checks
// for this interface after resolving `--foreign` providers.
type CtorProvider interface {
	// Ctors returns the constructor name -> type scheme bindings that
	// must be added to the type environment alongside the provider's own
	// binding, generalized (polymorphic) so a value produced at one
	// element type can be matched by a pattern expecting another.
	Ctors(reg *types.Registry) map[string]*types.Scheme
}

// Registry is a name-keyed lookup table of available Providers, built up
// at startup from every Provider a build links in, then filtered down to
// the ones actually requested by `--foreign` flags.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns a Registry seeded with the built-in providers
// (currently just EnvProvider); callers may Register additional ones
// before resolving `--foreign` flags.
func NewRegistry() *Registry {
	r := &Registry{providers: map[string]Provider{}}
	r.Register(EnvProvider{})
	return r
}

// Register adds p, keyed by its Name(). A later Register with the same
// name replaces the earlier one.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Lookup finds the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns every registered provider name, sorted, for `--help` and
// error messages naming the available choices.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.providers))
	for n := range r.providers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Resolve looks up each requested name and returns the matching
// Providers, or an error naming the first unrecognized one.
func (r *Registry) Resolve(requested []string) ([]Provider, error) {
	out := make([]Provider, 0, len(requested))
	for _, name := range requested {
		p, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("foreign: unknown provider %q (available: %v)", name, r.Names())
		}
		out = append(out, p)
	}
	return out, nil
}

// EnvProvider exposes OS environment variables as a `string -> string
// option` function bound to the name "env", proving out the Provider
// interface with the smallest useful host capability (matching the
// teacher's pattern of a single minimal builtin registration standing in
// for a whole extension point).
type EnvProvider struct{}

func (EnvProvider) Name() string        { return "env" }
func (EnvProvider) BindingName() string { return "env" }

func (EnvProvider) Type(reg *types.Registry) *types.Scheme {
	str := reg.PrimType(types.String)
	return types.Mono(reg.Fn(str, optionOf(reg, str)))
}

// Ctors binds NONE and SOME as values of the same private "option"
// datatype optionOf interns, generalized so `env "X"` (an `option
// string`) and another provider's `option int` both type-check against
// the same two constructor names.
func (EnvProvider) Ctors(reg *types.Registry) map[string]*types.Scheme {
	key := ensureOptionData(reg)
	elem := reg.Var("'a")
	option := reg.Data(key, "option", []types.Type{elem})
	return map[string]*types.Scheme{
		"NONE": {Vars: []string{"'a"}, Body: option},
		"SOME": {Vars: []string{"'a"}, Body: reg.Fn(elem, option)},
	}
}

// optionOf returns `elem option`, lazily declaring the backing datatype
// the first time any provider needs it. DeclareData overwrites an
// existing datatype's constructor set, so this only declares when no
// "option" datatype is registered yet — if the running program already
// declared its own (e.g. `datatype option = NONE | SOME of int`), that
// declaration wins and env's result unifies against it directly.
func optionOf(reg *types.Registry, elem types.Type) types.Type {
	return reg.Data(ensureOptionData(reg), "option", []types.Type{elem})
}

func ensureOptionData(reg *types.Registry) types.DataKey {
	if info, ok := reg.LookupDataByName("option"); ok {
		return info.Key
	}
	key := reg.DeclareData("option", []string{"'a"})
	elem := reg.Var("'a")
	reg.AddCtor(key, "NONE", nil)
	reg.AddCtor(key, "SOME", elem)
	return key
}

func (EnvProvider) Value() eval.Value {
	return &eval.Builtin{
		Name: "env",
		Fn: func(arg eval.Value) (eval.Value, error) {
			name, ok := arg.(eval.Str)
			if !ok {
				return nil, fmt.Errorf("foreign: env expects a string argument")
			}
			v, found := os.LookupEnv(string(name))
			if !found {
				return &eval.Constructed{Ctor: "NONE"}, nil
			}
			return &eval.Constructed{Ctor: "SOME", Arg: eval.Str(v)}, nil
		},
	}
}
