package resolve

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/types"
)

// Infer computes the type of expr under env, threading r.Sub forward.
// The returned type is not yet walked through r.Sub; call r.Apply on it
// (or wait until the enclosing InferDecl call returns) to see its fully
// resolved form.
func (r *Resolver) Infer(expr ast.Expr, env *types.Env) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.Lit:
		return r.litType(e), nil

	case *ast.Id:
		scheme, ok := env.Lookup(e.Name)
		if !ok {
			rep := errors.New("resolve", errors.TYP001, spanAt(r.file, e.Pos),
				fmt.Sprintf("unbound identifier %q", e.Name))
			return nil, errors.WrapReport(rep)
		}
		return types.Instantiate(scheme, r.Reg, r.freshVar), nil

	case *ast.RecordSel:
		// `#label` types as {label: 'a, ...} -> 'a; since record types here
		// are closed rather than row-polymorphic, this approximates to the
		// singleton-field record, which is enough for direct `#label e`
		// application (the common use) though not for passing `#label`
		// itself to something expecting a wider record.
		field := r.freshVar()
		return r.Reg.Fn(r.Reg.Record([]types.RecordField{{Label: e.Label, Type: field}}), field), nil

	case *ast.UnaryOp:
		operandT, err := r.Infer(e.Operand, env)
		if err != nil {
			return nil, err
		}
		if e.Op == "not" {
			b := r.Reg.PrimType(types.Bool)
			if err := r.unify(operandT, b, e.Pos); err != nil {
				return nil, err
			}
			return b, nil
		}
		i := r.Reg.PrimType(types.Int)
		if err := r.unify(operandT, i, e.Pos); err != nil {
			return nil, err
		}
		return i, nil

	case *ast.If:
		condT, err := r.Infer(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if err := r.unify(condT, r.Reg.PrimType(types.Bool), e.Cond.Position()); err != nil {
			return nil, err
		}
		thenT, err := r.Infer(e.Then, env)
		if err != nil {
			return nil, err
		}
		elseT, err := r.Infer(e.Else, env)
		if err != nil {
			return nil, err
		}
		if err := r.unify(thenT, elseT, e.Pos); err != nil {
			return nil, err
		}
		return thenT, nil

	case *ast.Let:
		cur := env
		for _, d := range e.Decls {
			next, _, err := r.InferDecl(d, cur)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return r.Infer(e.Body, cur)

	case *ast.Fn:
		return r.inferFn(e, env)

	case *ast.Apply:
		return r.inferApply(e, env)

	case *ast.Case:
		return r.inferCase(e, env)

	case *ast.Tuple:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, err := r.Infer(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return r.Reg.Tuple(elems), nil

	case *ast.Record:
		return r.inferRecord(e, env)

	case *ast.List:
		elemT := r.freshVar()
		for _, el := range e.Elems {
			t, err := r.Infer(el, env)
			if err != nil {
				return nil, err
			}
			if err := r.unify(t, elemT, el.Position()); err != nil {
				return nil, err
			}
		}
		return r.Reg.Container(elemT, types.KindList), nil

	case *ast.InfixCall:
		return r.inferInfix(e, env)

	case *ast.From:
		return r.inferPipeline(e.Steps, nil, env, e.Pos)

	case *ast.Exists:
		if _, err := r.inferPipeline(e.Steps, nil, env, e.Pos); err != nil {
			return nil, err
		}
		return r.Reg.PrimType(types.Bool), nil

	case *ast.Forall:
		_, err := r.inferPipeline(e.Steps, e.Require, env, e.Pos)
		if err != nil {
			return nil, err
		}
		return r.Reg.PrimType(types.Bool), nil

	case *ast.Annotated:
		t, err := r.Infer(e.Expr, env)
		if err != nil {
			return nil, err
		}
		declared := r.typeExprToType(e.Type)
		if err := r.unify(t, declared, e.Pos); err != nil {
			return nil, err
		}
		return declared, nil

	case *ast.Aggregate:
		fnT, err := r.Infer(e.Fn, env)
		if err != nil {
			return nil, err
		}
		overT, err := r.Infer(e.Over, env)
		if err != nil {
			return nil, err
		}
		resultT := r.freshVar()
		if err := r.unify(fnT, r.Reg.Fn(overT, resultT), e.Pos); err != nil {
			return nil, err
		}
		return resultT, nil

	default:
		return nil, fmt.Errorf("resolve: unsupported expression %T", expr)
	}
}

func (r *Resolver) litType(l *ast.Lit) types.Type {
	switch l.Kind {
	case ast.LitUnit:
		return r.Reg.PrimType(types.Unit)
	case ast.LitBool:
		return r.Reg.PrimType(types.Bool)
	case ast.LitInt:
		return r.Reg.PrimType(types.Int)
	case ast.LitReal:
		return r.Reg.PrimType(types.Real)
	case ast.LitChar:
		return r.Reg.PrimType(types.Char)
	case ast.LitString:
		return r.Reg.PrimType(types.String)
	default:
		return r.Reg.PrimType(types.Unit)
	}
}

func (r *Resolver) inferFn(e *ast.Fn, env *types.Env) (types.Type, error) {
	paramT := r.freshVar()
	resultT := r.freshVar()
	for _, m := range e.Matches {
		patT, binds, err := r.inferPattern(m.Pat, env)
		if err != nil {
			return nil, err
		}
		if err := r.unify(patT, paramT, m.Pat.Position()); err != nil {
			return nil, err
		}
		armEnv := env
		for _, name := range sortedKeys(binds) {
			armEnv = armEnv.Extend(name, types.Mono(binds[name]))
		}
		bodyT, err := r.Infer(m.Body, armEnv)
		if err != nil {
			return nil, err
		}
		if err := r.unify(bodyT, resultT, m.Body.Position()); err != nil {
			return nil, err
		}
	}
	return r.Reg.Fn(paramT, resultT), nil
}

func (r *Resolver) inferApply(e *ast.Apply, env *types.Env) (types.Type, error) {
	fnT, err := r.Infer(e.Fn, env)
	if err != nil {
		return nil, err
	}
	argT, err := r.Infer(e.Arg, env)
	if err != nil {
		return nil, err
	}
	resultT := r.freshVar()
	if err := r.unify(fnT, r.Reg.Fn(argT, resultT), e.Pos); err != nil {
		return nil, err
	}
	return resultT, nil
}

func (r *Resolver) inferCase(e *ast.Case, env *types.Env) (types.Type, error) {
	scrutT, err := r.Infer(e.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	resultT := r.freshVar()
	for _, m := range e.Matches {
		patT, binds, err := r.inferPattern(m.Pat, env)
		if err != nil {
			return nil, err
		}
		if err := r.unify(patT, scrutT, m.Pat.Position()); err != nil {
			return nil, err
		}
		armEnv := env
		for _, name := range sortedKeys(binds) {
			armEnv = armEnv.Extend(name, types.Mono(binds[name]))
		}
		bodyT, err := r.Infer(m.Body, armEnv)
		if err != nil {
			return nil, err
		}
		if err := r.unify(bodyT, resultT, m.Body.Position()); err != nil {
			return nil, err
		}
	}
	return resultT, nil
}

func (r *Resolver) inferRecord(e *ast.Record, env *types.Env) (types.Type, error) {
	fields := make([]types.RecordField, len(e.Fields))
	for i, f := range e.Fields {
		t, err := r.Infer(f.Value, env)
		if err != nil {
			return nil, err
		}
		fields[i] = types.RecordField{Label: f.Label, Type: t}
	}
	if e.With != nil {
		baseT, err := r.Infer(e.With, env)
		if err != nil {
			return nil, err
		}
		base, ok := r.Apply(baseT).(*types.TRecord)
		if !ok {
			rep := errors.New("resolve", errors.TYP010, spanAt(r.file, e.Pos),
				fmt.Sprintf("functional record update requires a record, got %s", r.Apply(baseT)))
			return nil, errors.WrapReport(rep)
		}
		overrides := make(map[string]types.Type, len(fields))
		for _, f := range fields {
			overrides[f.Label] = f.Type
		}
		merged := make([]types.RecordField, 0, len(base.Fields))
		for _, bf := range base.Fields {
			ot, ok := overrides[bf.Label]
			if !ok {
				merged = append(merged, bf)
				continue
			}
			if err := r.unify(bf.Type, ot, e.Pos); err != nil {
				return nil, err
			}
			merged = append(merged, types.RecordField{Label: bf.Label, Type: r.Apply(ot)})
			delete(overrides, bf.Label)
		}
		for label := range overrides {
			rep := errors.New("resolve", errors.TYP010, spanAt(r.file, e.Pos),
				fmt.Sprintf("record has no field %q to update", label))
			return nil, errors.WrapReport(rep)
		}
		return r.Reg.Record(merged), nil
	}
	return r.Reg.Record(fields), nil
}

func (r *Resolver) inferInfix(e *ast.InfixCall, env *types.Env) (types.Type, error) {
	switch e.Op {
	case "andalso", "orelse", "implies":
		lhsT, err := r.Infer(e.Lhs, env)
		if err != nil {
			return nil, err
		}
		b := r.Reg.PrimType(types.Bool)
		if err := r.unify(lhsT, b, e.Pos); err != nil {
			return nil, err
		}
		rhsT, err := r.Infer(e.Rhs, env)
		if err != nil {
			return nil, err
		}
		if err := r.unify(rhsT, b, e.Pos); err != nil {
			return nil, err
		}
		return b, nil
	case "o":
		lhsT, err := r.Infer(e.Lhs, env)
		if err != nil {
			return nil, err
		}
		rhsT, err := r.Infer(e.Rhs, env)
		if err != nil {
			return nil, err
		}
		a, b, c := r.freshVar(), r.freshVar(), r.freshVar()
		if err := r.unify(rhsT, r.Reg.Fn(a, b), e.Pos); err != nil {
			return nil, err
		}
		if err := r.unify(lhsT, r.Reg.Fn(b, c), e.Pos); err != nil {
			return nil, err
		}
		return r.Reg.Fn(a, c), nil
	}
	opScheme, ok := env.Lookup(e.Op)
	if !ok {
		rep := errors.New("resolve", errors.TYP001, spanAt(r.file, e.Pos), fmt.Sprintf("unbound operator %q", e.Op))
		return nil, errors.WrapReport(rep)
	}
	opT := types.Instantiate(opScheme, r.Reg, r.freshVar)
	lhsT, err := r.Infer(e.Lhs, env)
	if err != nil {
		return nil, err
	}
	rhsT, err := r.Infer(e.Rhs, env)
	if err != nil {
		return nil, err
	}
	resultT := r.freshVar()
	if err := r.unify(opT, r.Reg.Fn(lhsT, r.Reg.Fn(rhsT, resultT)), e.Pos); err != nil {
		return nil, err
	}
	return resultT, nil
}
