// Package lower desugars the surface AST into core IR: `fun` becomes
// `val rec` plus nested `fn`s, infix operators become applications of
// their base-environment identifiers (or, for the short-circuiting
// `andalso`/`orelse`/`implies`, an If), `.field` projection becomes a
// direct RecordSel, constructor application becomes an explicit
// Construct node, and relational from-steps become core.Step values.
//
// This is a dedicated surface-AST -> IR lowering stage with one lowerX
// method per AST node kind and a running fresh-name counter for
// synthesized binders.
package lower

import (
	"fmt"
	"sort"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/types"
)

// Lowerer carries the shared type Registry (needed to resolve datatype
// and constructor names while desugaring), a fresh-name counter for
// synthesized pattern-binding temporaries, and the non-fatal diagnostics
// (TYP007 non-exhaustive match warnings) accumulated by the most recent
// declarations lowered, drained by the caller after each one.
type Lowerer struct {
	Reg      *types.Registry
	fresh    int
	Warnings []*errors.Report
}

func New(reg *types.Registry) *Lowerer {
	return &Lowerer{Reg: reg}
}

// DrainWarnings returns and clears the warnings accumulated since the
// last call, for internal/pipeline to surface after each declaration.
func (l *Lowerer) DrainWarnings() []*errors.Report {
	w := l.Warnings
	l.Warnings = nil
	return w
}

func (l *Lowerer) freshName() string {
	l.fresh++
	return fmt.Sprintf("$t%d", l.fresh)
}

// Binding is one runtime name/expression pair a lowered declaration
// contributes; the caller (internal/pipeline) threads these into a
// core.Let or directly extends the evaluator's environment with them.
type Binding struct {
	Name string
	Rec  bool
	Expr core.Expr
}

// LowerDecl lowers a single top-level or `let`-local declaration.
func (l *Lowerer) LowerDecl(d ast.Decl) ([]Binding, error) {
	switch n := d.(type) {
	case *ast.ValDecl:
		return l.lowerValDecl(n)
	case *ast.FunDecl:
		return l.lowerFunDeclTop(n)
	case *ast.DatatypeDecl:
		return nil, l.lowerDatatypeDecl(n)
	case *ast.TypeDecl:
		return nil, nil // aliases carry no runtime content
	case *ast.OverDecl:
		return nil, nil // overload resolution is a type-resolution-time concern
	case *ast.ExprDecl:
		e, err := l.LowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return []Binding{{Name: "it", Expr: e}}, nil
	default:
		return nil, fmt.Errorf("lower: unsupported declaration %T", d)
	}
}

func (l *Lowerer) lowerValDecl(n *ast.ValDecl) ([]Binding, error) {
	var out []Binding
	for _, b := range n.Binds {
		e, err := l.LowerExpr(b.Body)
		if err != nil {
			return nil, err
		}
		if id, ok := b.Pat.(*ast.IdPat); ok {
			out = append(out, Binding{Name: id.Name, Rec: n.Rec, Expr: e})
			continue
		}
		// A refutable (or merely non-trivial) pattern binding: bind the
		// whole value under a synthetic name, then project each pattern
		// variable out of it with a one-arm Case. A failed match raises
		// the implicit Bind exception, matching `let val (SOME x) = ...`.
		tmp := l.freshName()
		out = append(out, Binding{Name: tmp, Rec: n.Rec, Expr: e})
		pat := l.lowerPattern(b.Pat)
		pos := b.Pat.Position()
		if err := l.checkMatch(pos, []core.Pattern{pat}, []ast.Pos{pos}); err != nil {
			return nil, err
		}
		for _, name := range patternVarNames(b.Pat) {
			proj := &core.Case{
				Scrutinee: &core.Id{Name: tmp},
				Arms:      []core.Match{{Pat: pat, Body: &core.Id{Name: name}}},
			}
			out = append(out, Binding{Name: name, Expr: proj})
		}
	}
	return out, nil
}

func (l *Lowerer) lowerFunDeclTop(n *ast.FunDecl) ([]Binding, error) {
	e, err := l.lowerFunArms(n.Arms)
	if err != nil {
		return nil, err
	}
	return []Binding{{Name: n.Name, Rec: true, Expr: e}}, nil
}

// lowerFunArms desugars `fun f p1 ... pk = e | ...` into k nested
// single-argument core.Fns, the innermost of which pattern-matches the
// tuple of all k arguments against each clause's pattern tuple.
func (l *Lowerer) lowerFunArms(arms []ast.FunArm) (core.Expr, error) {
	arity := len(arms[0].ArgPats)
	params := make([]string, arity)
	for i := range params {
		params[i] = l.freshName()
	}
	var matches []core.Match
	var armPos []ast.Pos
	for _, arm := range arms {
		if len(arm.ArgPats) != arity {
			return nil, fmt.Errorf("lower: function clause arity mismatch: expected %d, got %d", arity, len(arm.ArgPats))
		}
		body, err := l.LowerExpr(arm.Body)
		if err != nil {
			return nil, err
		}
		var pat core.Pattern
		if arity == 1 {
			pat = l.lowerPattern(arm.ArgPats[0])
		} else {
			elems := make([]core.Pattern, arity)
			for i, p := range arm.ArgPats {
				elems[i] = l.lowerPattern(p)
			}
			pat = core.TuplePat{Elems: elems}
		}
		matches = append(matches, core.Match{Pat: pat, Body: body})
		armPos = append(armPos, arm.Pos)
	}

	pats := make([]core.Pattern, len(matches))
	for i, m := range matches {
		pats[i] = m.Pat
	}
	if err := l.checkMatch(arms[0].Pos, pats, armPos); err != nil {
		return nil, err
	}

	var scrutinee core.Expr
	if arity == 1 {
		scrutinee = &core.Id{Name: params[0]}
	} else {
		elems := make([]core.Expr, arity)
		for i, p := range params {
			elems[i] = &core.Id{Name: p}
		}
		scrutinee = &core.Tuple{Elems: elems}
	}
	body := core.Expr(&core.Case{Scrutinee: scrutinee, Arms: matches})

	// Build the nested single-argument lambdas, outermost first.
	var result core.Expr = body
	for i := arity - 1; i >= 0; i-- {
		inner := result
		result = &core.Fn{Param: params[i], Arms: []core.Match{{Pat: core.IdPat{Name: params[i]}, Body: inner}}}
	}
	return result, nil
}

func (l *Lowerer) lowerDatatypeDecl(n *ast.DatatypeDecl) error {
	type pending struct {
		key    types.DataKey
		ctors  []ast.CtorDef
		tyVars []string
	}
	var all []pending
	for _, bind := range n.Binds {
		key := l.Reg.DeclareData(bind.Name, bind.TyVars)
		all = append(all, pending{key: key, ctors: bind.Ctors, tyVars: bind.TyVars})
	}
	for _, p := range all {
		for _, c := range p.ctors {
			var payload types.Type
			if c.Payload != nil {
				payload = l.lowerTypeExpr(c.Payload, p.tyVars)
			}
			l.Reg.AddCtor(p.key, c.Name, payload)
		}
	}
	return nil
}

// lowerTypeExpr resolves a surface type expression to a types.Type,
// treating names in tyVars as the enclosing datatype's own parameters
// and any other name as either a primitive or a previously declared
// datatype (including itself, for recursive datatypes).
func (l *Lowerer) lowerTypeExpr(t ast.TypeExpr, tyVars []string) types.Type {
	switch n := t.(type) {
	case *ast.TyVar:
		return l.Reg.Var(n.Name)
	case *ast.NamedType:
		args := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = l.lowerTypeExpr(a, tyVars)
		}
		switch n.Name {
		case "int":
			return l.Reg.PrimType(types.Int)
		case "real":
			return l.Reg.PrimType(types.Real)
		case "bool":
			return l.Reg.PrimType(types.Bool)
		case "char":
			return l.Reg.PrimType(types.Char)
		case "string":
			return l.Reg.PrimType(types.String)
		case "unit":
			return l.Reg.PrimType(types.Unit)
		default:
			if d, ok := l.Reg.LookupDataByName(n.Name); ok {
				return l.Reg.Data(d.Key, d.Name, args)
			}
			// Forward/unknown reference (e.g. mutually recursive
			// datatypes declared in the same `and` group, or a type not
			// yet declared): register it so later uses resolve.
			key := l.Reg.DeclareData(n.Name, nil)
			return l.Reg.Data(key, n.Name, args)
		}
	case *ast.CompositeType:
		elem := l.lowerTypeExpr(n.Elem, tyVars)
		kind := map[ast.CompositeKind]types.ContainerKind{
			ast.CompositeList: types.KindList, ast.CompositeBag: types.KindBag, ast.CompositeVector: types.KindVector,
		}[n.Kind]
		return l.Reg.Container(elem, kind)
	case *ast.TupleType:
		elems := make([]types.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = l.lowerTypeExpr(e, tyVars)
		}
		return l.Reg.Tuple(elems)
	case *ast.FnType:
		return l.Reg.Fn(l.lowerTypeExpr(n.Param, tyVars), l.lowerTypeExpr(n.Result, tyVars))
	case *ast.RecordType:
		fields := make([]types.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = types.RecordField{Label: f.Label, Type: l.lowerTypeExpr(f.Type, tyVars)}
		}
		return l.Reg.Record(fields)
	default:
		return l.Reg.PrimType(types.Unit)
	}
}

// patternVarNames returns every identifier a pattern binds, sorted by
// name.
func patternVarNames(p ast.Pattern) []string {
	var out []string
	var walk func(ast.Pattern)
	walk = func(p ast.Pattern) {
		switch n := p.(type) {
		case *ast.IdPat:
			out = append(out, n.Name)
		case *ast.TuplePat:
			for _, e := range n.Elems {
				walk(e)
			}
		case *ast.ListPat:
			for _, e := range n.Elems {
				walk(e)
			}
		case *ast.ConsPat:
			walk(n.Head)
			walk(n.Tail)
		case *ast.RecordPat:
			for _, f := range n.Fields {
				walk(f.Pat)
			}
		case *ast.ConPat:
			if n.Arg != nil {
				walk(n.Arg)
			}
		case *ast.AsPat:
			out = append(out, n.Name)
			walk(n.Pat)
		case *ast.AnnotatedPat:
			walk(n.Pat)
		}
	}
	walk(p)
	sort.Strings(out)
	return out
}
