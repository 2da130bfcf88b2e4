package resolve

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/types"
)

// inferPattern computes the type a pattern matches against, plus the
// bindings it introduces (as monomorphic types; pattern-bound variables
// are never generalized, matching ML's value restriction).
func (r *Resolver) inferPattern(p ast.Pattern, env *types.Env) (types.Type, map[string]types.Type, error) {
	binds := map[string]types.Type{}
	t, err := r.inferPatternInto(p, env, binds)
	return t, binds, err
}

func (r *Resolver) inferPatternInto(p ast.Pattern, env *types.Env, binds map[string]types.Type) (types.Type, error) {
	switch n := p.(type) {
	case *ast.Wild:
		return r.freshVar(), nil
	case *ast.IdPat:
		t := r.freshVar()
		binds[n.Name] = t
		return t, nil
	case *ast.LitPat:
		return r.litType(&ast.Lit{Kind: n.Kind, Value: n.Value}), nil
	case *ast.ConsPat:
		headT, err := r.inferPatternInto(n.Head, env, binds)
		if err != nil {
			return nil, err
		}
		tailT, err := r.inferPatternInto(n.Tail, env, binds)
		if err != nil {
			return nil, err
		}
		listT := r.Reg.Container(headT, types.KindList)
		if err := r.unify(tailT, listT, n.Pos); err != nil {
			return nil, err
		}
		return listT, nil
	case *ast.TuplePat:
		elems := make([]types.Type, len(n.Elems))
		for i, e := range n.Elems {
			t, err := r.inferPatternInto(e, env, binds)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return r.Reg.Tuple(elems), nil
	case *ast.ListPat:
		elemT := r.freshVar()
		for _, e := range n.Elems {
			t, err := r.inferPatternInto(e, env, binds)
			if err != nil {
				return nil, err
			}
			if err := r.unify(t, elemT, e.Position()); err != nil {
				return nil, err
			}
		}
		return r.Reg.Container(elemT, types.KindList), nil
	case *ast.RecordPat:
		fields := make([]types.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			t, err := r.inferPatternInto(f.Pat, env, binds)
			if err != nil {
				return nil, err
			}
			fields[i] = types.RecordField{Label: f.Label, Type: t}
		}
		return r.Reg.Record(fields), nil
	case *ast.ConPat:
		scheme, ok := env.Lookup(n.Ctor)
		if !ok {
			rep := errors.New("resolve", errors.TYP002, spanAt(r.file, n.Pos), fmt.Sprintf("unbound constructor %q", n.Ctor))
			return nil, errors.WrapReport(rep)
		}
		ctorT := types.Instantiate(scheme, r.Reg, r.freshVar)
		if n.Arg == nil {
			return ctorT, nil
		}
		fn, ok := ctorT.(*types.TFn)
		if !ok {
			rep := errors.New("resolve", errors.TYP003, spanAt(r.file, n.Pos), fmt.Sprintf("constructor %q takes no argument", n.Ctor))
			return nil, errors.WrapReport(rep)
		}
		argT, err := r.inferPatternInto(n.Arg, env, binds)
		if err != nil {
			return nil, err
		}
		if err := r.unify(argT, fn.Param, n.Pos); err != nil {
			return nil, err
		}
		return fn.Result, nil
	case *ast.AsPat:
		t, err := r.inferPatternInto(n.Pat, env, binds)
		if err != nil {
			return nil, err
		}
		binds[n.Name] = t
		return t, nil
	case *ast.AnnotatedPat:
		t, err := r.inferPatternInto(n.Pat, env, binds)
		if err != nil {
			return nil, err
		}
		declared := r.typeExprToType(n.Type)
		if err := r.unify(t, declared, n.Pos); err != nil {
			return nil, err
		}
		return declared, nil
	default:
		return r.freshVar(), nil
	}
}
