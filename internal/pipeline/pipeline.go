// Package pipeline wires the independently testable lexer/parser/
// resolve/lower/eval stages into the single per-declaration sequence
// every entry point (the REPL, `use`, a batch-loaded file) drives:
// resolve against the session's current type environment, lower the
// result to core IR, evaluate it against the session's current runtime
// environment, and publish the new bindings into a fresh env.Session.
//
// A datatype declaration runs the two steps in the opposite order:
// internal/lower owns the type Registry's constructor table, and
// internal/resolve's datatype handling only types constructors that
// are already registered, so lowering a datatype must happen before
// resolving it.
package pipeline

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/cache"
	"github.com/loomlang/loom/internal/env"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/lower"
	"github.com/loomlang/loom/internal/resolve"
	"github.com/loomlang/loom/internal/types"
)

// Pipeline bundles the shared, long-lived state that persists across
// every statement in one process: the type Registry (which owns
// interned types and the datatype/constructor table), the Evaluator
// (which owns the installed relational Adapter), and the process-wide
// compiled-statement Cache. internal/resolve's Resolver is deliberately
// re-created per declaration (its Sub and fresh-variable counter are
// meant to be scoped to one inference run, matching how
// internal/resolve's own tests use it).
type Pipeline struct {
	Reg     *types.Registry
	Lowerer *lower.Lowerer
	Eval    *eval.Evaluator
	Cache   *cache.Cache
}

// New returns a Pipeline sharing reg and ev across every statement it
// processes, with a compiled-statement cache holding at most
// cacheCapacity entries (<= 0 disables caching). Callers that want a
// relational adapter installed configure ev.Adapter before passing it
// in; the zero value from eval.New() uses relational.Noop.
func New(reg *types.Registry, ev *eval.Evaluator, cacheCapacity int) *Pipeline {
	return &Pipeline{Reg: reg, Lowerer: lower.New(reg), Eval: ev, Cache: cache.New(cacheCapacity)}
}

// RunDecl resolves, lowers, and evaluates one top-level declaration
// against sess, returning the extended session, the bindings it produced
// (for the caller to print as `val NAME = VALUE : TYPE`), and any
// non-fatal diagnostics lowering raised (currently only TYP007
// non-exhaustive match warnings). On error sess is returned unmodified by
// the caller's own discipline: this function never mutates sess, so a
// failed RunDecl simply has no effect on the session the caller keeps
// using.
func (p *Pipeline) RunDecl(file string, d ast.Decl, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	if _, ok := d.(*ast.DatatypeDecl); ok {
		return p.runDatatypeDecl(file, d, sess)
	}

	r := resolve.New(p.Reg, file)
	newTypes, named, err := r.InferDecl(d, sess.Types)
	if err != nil {
		return nil, nil, nil, err
	}

	binds, err := p.Lowerer.LowerDecl(d)
	warnings := p.Lowerer.DrainWarnings()
	if err != nil {
		return nil, nil, warnings, err
	}

	newValues, produced, err := evalBindings(p.Eval, sess.Values, binds)
	if err != nil {
		return nil, nil, warnings, err
	}

	out := &env.Session{Types: newTypes, Values: newValues}
	var bindings []env.Binding
	for _, nt := range named {
		scheme, _ := newTypes.Lookup(nt.Name)
		bindings = append(bindings, env.Binding{Name: nt.Name, Scheme: scheme, Value: produced[nt.Name]})
	}
	return out, bindings, warnings, nil
}

func (p *Pipeline) runDatatypeDecl(file string, d ast.Decl, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	if _, err := p.Lowerer.LowerDecl(d); err != nil {
		return nil, nil, p.Lowerer.DrainWarnings(), err
	}
	warnings := p.Lowerer.DrainWarnings()
	r := resolve.New(p.Reg, file)
	newTypes, _, err := r.InferDecl(d, sess.Types)
	if err != nil {
		return nil, nil, warnings, err
	}
	// Declaring a datatype binds its constructors into the type
	// environment but never into the runtime one: the evaluator
	// resolves a constructor name straight from the Registry
	// (core.Ctor), so Values is carried through unchanged.
	return &env.Session{Types: newTypes, Values: sess.Values}, nil, warnings, nil
}

// TypeOnly runs resolution alone, skipping lowering and evaluation
// entirely, for the REPL's `:type` command: it reports a declaration's
// principal type without giving it any runtime effect or binding it
// into the session.
func (p *Pipeline) TypeOnly(file string, d ast.Decl, sess *env.Session) (*types.Env, []resolve.NamedType, error) {
	r := resolve.New(p.Reg, file)
	return r.InferDecl(d, sess.Types)
}

// RunProgram runs every declaration in prog against sess in order,
// except that DatatypeDecls are hoisted ahead of everything else
// regardless of their position in the source, so a value declaration
// earlier in the file may still reference a datatype declared later in
// it — the ordinary ML-family forward-reference convention for type
// declarations. It stops at the first error, returning the session as
// of the last successfully processed declaration.
func (p *Pipeline) RunProgram(file string, prog *ast.Program, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	var datatypes, rest []ast.Decl
	for _, d := range prog.Decls {
		if _, ok := d.(*ast.DatatypeDecl); ok {
			datatypes = append(datatypes, d)
		} else {
			rest = append(rest, d)
		}
	}

	cur := sess
	var all []env.Binding
	var warnings []*errors.Report
	for _, d := range append(datatypes, rest...) {
		next, binds, warns, err := p.RunDecl(file, d, cur)
		warnings = append(warnings, warns...)
		if err != nil {
			return cur, all, warnings, err
		}
		cur = next
		all = append(all, binds...)
	}
	return cur, all, warnings, nil
}

// evalBindings evaluates lower.Bindings in order against values,
// threading each new binding into scope for the next one (non-recursive
// groups) or, when the group is recursive, building one shared
// environment layer up front and tying the knot with SetLocal before
// any binding's closure body runs — the same construction
// internal/eval's own core.Let uses for `let rec`, generalized to a
// top-level declaration's worth of bindings instead of one Let node's.
func evalBindings(ev *eval.Evaluator, values *eval.Environment, binds []lower.Binding) (*eval.Environment, map[string]eval.Value, error) {
	produced := map[string]eval.Value{}
	if len(binds) == 0 {
		return values, produced, nil
	}

	if !binds[0].Rec {
		cur := values
		for _, b := range binds {
			v, err := ev.Eval(b.Expr, cur)
			if err != nil {
				return nil, nil, err
			}
			cur = cur.Extend(b.Name, v)
			produced[b.Name] = v
		}
		return cur, produced, nil
	}

	layer := values.ExtendAll(map[string]eval.Value{})
	for _, b := range binds {
		v, err := ev.Eval(b.Expr, layer)
		if err != nil {
			return nil, nil, err
		}
		layer.SetLocal(b.Name, v)
		produced[b.Name] = v
	}
	return layer, produced, nil
}
