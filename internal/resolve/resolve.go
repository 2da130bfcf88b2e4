// Package resolve implements Hindley-Milner type inference over the
// surface AST: unbound-identifier, constructor-arity, and type-mismatch
// diagnostics, producing the principal type the REPL prints as
// `val NAME = VALUE : TYPE`.
//
// The inference driver carries the current TypeEnv and Unifier, with one
// Infer-like method per AST node kind, threading a substitution outward
// rather than collecting and solving constraints in a separate pass.
package resolve

import (
	"fmt"
	"sort"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/types"
)

// Resolver carries the shared Registry and Unifier, and the incrementally
// extended Substitution built up over one top-level declaration's worth of
// inference.
type Resolver struct {
	Reg     *types.Registry
	Unifier *types.Unifier
	Sub     types.Substitution
	fresh   int
	file    string
}

func New(reg *types.Registry, file string) *Resolver {
	return &Resolver{Reg: reg, Unifier: types.NewUnifier(reg), Sub: types.Substitution{}, file: file}
}

func (r *Resolver) freshVar() types.Type {
	r.fresh++
	return r.Reg.Var(fmt.Sprintf("t%d", r.fresh))
}

func (r *Resolver) unify(a, b types.Type, pos ast.Pos) error {
	sub, err := r.Unifier.Unify(a, b, r.Sub)
	if err != nil {
		ue := err.(*types.UnifyError)
		rep := errors.New("resolve", errors.TYP004, spanAt(r.file, pos),
			fmt.Sprintf("cannot unify %s with %s: %s", ue.Left, ue.Right, ue.Reason))
		return errors.WrapReport(rep)
	}
	r.Sub = sub
	return nil
}

func spanAt(file string, p ast.Pos) ast.Span {
	p.File = file
	return ast.Span{Start: p, End: p}
}

// Apply fully resolves t through the Resolver's current substitution.
func (r *Resolver) Apply(t types.Type) types.Type {
	return r.Sub.Apply(t, r.Reg)
}

// InferDecl type-checks a single top-level declaration against env,
// returning the extended environment (with the declaration's name(s)
// bound to their generalized schemes) and each bound name's resolved type
// in declaration order, for the REPL's `val NAME = VALUE : TYPE` line.
func (r *Resolver) InferDecl(d ast.Decl, env *types.Env) (*types.Env, []NamedType, error) {
	switch n := d.(type) {
	case *ast.ValDecl:
		return r.inferValDecl(n, env)
	case *ast.FunDecl:
		return r.inferFunDecl(n, env)
	case *ast.DatatypeDecl:
		return r.inferDatatypeDecl(n, env)
	case *ast.TypeDecl:
		return env, nil, nil
	case *ast.OverDecl:
		return env.Extend(n.Name, types.Mono(r.freshVar())), nil, nil
	case *ast.ExprDecl:
		t, err := r.Infer(n.Expr, env)
		if err != nil {
			return nil, nil, err
		}
		return env, []NamedType{{Name: "it", Type: r.Apply(t)}}, nil
	default:
		return nil, nil, fmt.Errorf("resolve: unsupported declaration %T", d)
	}
}

// NamedType pairs a bound name with its resolved principal type.
type NamedType struct {
	Name string
	Type types.Type
}

func (r *Resolver) inferValDecl(n *ast.ValDecl, env *types.Env) (*types.Env, []NamedType, error) {
	var results []NamedType
	cur := env
	for _, b := range n.Binds {
		var bodyEnv *types.Env = cur
		var patVarTypes map[string]types.Type
		if n.Rec {
			patVarTypes = map[string]types.Type{}
			for _, name := range patternVarNames(b.Pat) {
				tv := r.freshVar()
				patVarTypes[name] = tv
				bodyEnv = bodyEnv.Extend(name, types.Mono(tv))
			}
		}
		bodyT, err := r.Infer(b.Body, bodyEnv)
		if err != nil {
			return nil, nil, err
		}
		if n.Rec {
			for _, tv := range patVarTypes {
				if err := r.unify(tv, bodyT, b.Pos); err != nil {
					return nil, nil, err
				}
			}
		}
		patT, binds, err := r.inferPattern(b.Pat, cur)
		if err != nil {
			return nil, nil, err
		}
		if err := r.unify(patT, bodyT, b.Pos); err != nil {
			return nil, nil, err
		}
		for _, name := range sortedKeys(binds) {
			scheme := types.Generalize(cur, r.Apply(binds[name]), r.Reg)
			cur = cur.Extend(name, scheme)
			results = append(results, NamedType{Name: name, Type: r.Apply(binds[name])})
		}
	}
	return cur, results, nil
}

func (r *Resolver) inferFunDecl(n *ast.FunDecl, env *types.Env) (*types.Env, []NamedType, error) {
	arity := len(n.Arms[0].ArgPats)
	paramVars := make([]types.Type, arity)
	for i := range paramVars {
		paramVars[i] = r.freshVar()
	}
	resultVar := r.freshVar()
	fnType := buildCurried(r.Reg, paramVars, resultVar)
	recEnv := env.Extend(n.Name, types.Mono(fnType))

	for _, arm := range n.Arms {
		armEnv := recEnv
		for i, p := range arm.ArgPats {
			pt, binds, err := r.inferPattern(p, armEnv)
			if err != nil {
				return nil, nil, err
			}
			if err := r.unify(pt, paramVars[i], arm.Pos); err != nil {
				return nil, nil, err
			}
			for _, name := range sortedKeys(binds) {
				armEnv = armEnv.Extend(name, types.Mono(binds[name]))
			}
		}
		bodyT, err := r.Infer(arm.Body, armEnv)
		if err != nil {
			return nil, nil, err
		}
		if err := r.unify(bodyT, resultVar, arm.Pos); err != nil {
			return nil, nil, err
		}
	}

	resolved := r.Apply(fnType)
	scheme := types.Generalize(env, resolved, r.Reg)
	out := env.Extend(n.Name, scheme)
	return out, []NamedType{{Name: n.Name, Type: resolved}}, nil
}

func buildCurried(reg *types.Registry, params []types.Type, result types.Type) types.Type {
	t := result
	for i := len(params) - 1; i >= 0; i-- {
		t = reg.Fn(params[i], t)
	}
	return t
}

func (r *Resolver) inferDatatypeDecl(n *ast.DatatypeDecl, env *types.Env) (*types.Env, []NamedType, error) {
	// Constructor registration happens in internal/lower (which owns the
	// Registry mutation shared with evaluation); here we only need to type
	// each constructor as a function (or nullary value) binding in env so
	// that later expressions referencing it type-check.
	out := env
	for _, bind := range n.Binds {
		key, ok := r.Reg.LookupDataByName(bind.Name)
		if !ok {
			continue // lower.go runs its own datatype pass; nothing declared yet
		}
		tyVarTypes := make([]types.Type, len(bind.TyVars))
		for i, v := range bind.TyVars {
			tyVarTypes[i] = r.Reg.Var(v)
		}
		dataT := r.Reg.Data(key.Key, bind.Name, tyVarTypes)
		for _, c := range bind.Ctors {
			var ctorT types.Type = dataT
			if c.Payload != nil {
				payloadT := r.typeExprToType(c.Payload)
				ctorT = r.Reg.Fn(payloadT, dataT)
			}
			scheme := types.Generalize(types.NewEnv(), ctorT, r.Reg)
			out = out.Extend(c.Name, scheme)
		}
	}
	return out, nil, nil
}

func (r *Resolver) typeExprToType(t ast.TypeExpr) types.Type {
	switch n := t.(type) {
	case *ast.TyVar:
		return r.Reg.Var(n.Name)
	case *ast.NamedType:
		args := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = r.typeExprToType(a)
		}
		switch n.Name {
		case "int":
			return r.Reg.PrimType(types.Int)
		case "real":
			return r.Reg.PrimType(types.Real)
		case "bool":
			return r.Reg.PrimType(types.Bool)
		case "char":
			return r.Reg.PrimType(types.Char)
		case "string":
			return r.Reg.PrimType(types.String)
		case "unit":
			return r.Reg.PrimType(types.Unit)
		default:
			if d, ok := r.Reg.LookupDataByName(n.Name); ok {
				return r.Reg.Data(d.Key, d.Name, args)
			}
			return r.freshVar()
		}
	case *ast.CompositeType:
		elem := r.typeExprToType(n.Elem)
		kind := map[ast.CompositeKind]types.ContainerKind{
			ast.CompositeList: types.KindList, ast.CompositeBag: types.KindBag, ast.CompositeVector: types.KindVector,
		}[n.Kind]
		return r.Reg.Container(elem, kind)
	case *ast.TupleType:
		elems := make([]types.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = r.typeExprToType(e)
		}
		return r.Reg.Tuple(elems)
	case *ast.FnType:
		return r.Reg.Fn(r.typeExprToType(n.Param), r.typeExprToType(n.Result))
	case *ast.RecordType:
		fields := make([]types.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = types.RecordField{Label: f.Label, Type: r.typeExprToType(f.Type)}
		}
		return r.Reg.Record(fields)
	default:
		return r.freshVar()
	}
}

func sortedKeys(m map[string]types.Type) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

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
	return out
}
