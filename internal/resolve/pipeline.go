package resolve

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/types"
)

// inferPipeline type-checks a relational `from`/`exists`/`forall` step
// sequence, threading the row environment (the bindings each Scan
// introduces) through Where/Group/Order/.../Yield, and returns the type
// of the sequence's final result (the container `yield` produces, or the
// scalar `into`/`compute` produces). If require is non-nil (a `forall`),
// it is type-checked as a bool in the final row environment.
func (r *Resolver) inferPipeline(steps []ast.FromStep, require ast.Expr, env *types.Env, pos ast.Pos) (types.Type, error) {
	rowEnv := env
	var resultT types.Type = r.Reg.Container(r.freshVar(), types.KindList)

	for _, s := range steps {
		switch n := s.(type) {
		case *ast.Scan:
			srcT, err := r.Infer(n.Source, rowEnv)
			if err != nil {
				return nil, err
			}
			elemT := r.freshVar()
			kind := types.KindList
			if c, ok := r.Apply(srcT).(*types.TContainer); ok {
				kind = c.Kind
			}
			if err := r.unify(srcT, r.Reg.Container(elemT, kind), n.Pos); err != nil {
				return nil, err
			}
			patT, binds, err := r.inferPattern(n.Pat, rowEnv)
			if err != nil {
				return nil, err
			}
			if err := r.unify(patT, elemT, n.Pos); err != nil {
				return nil, err
			}
			for _, name := range sortedKeys(binds) {
				rowEnv = rowEnv.Extend(name, types.Mono(binds[name]))
			}
			if n.On != nil {
				onT, err := r.Infer(n.On, rowEnv)
				if err != nil {
					return nil, err
				}
				if err := r.unify(onT, r.Reg.PrimType(types.Bool), n.Pos); err != nil {
					return nil, err
				}
			}

		case *ast.Join:
			for _, scan := range n.Scans {
				srcT, err := r.Infer(scan.Source, rowEnv)
				if err != nil {
					return nil, err
				}
				elemT := r.freshVar()
				if err := r.unify(srcT, r.Reg.Container(elemT, types.KindList), scan.Pos); err != nil {
					return nil, err
				}
				patT, binds, err := r.inferPattern(scan.Pat, rowEnv)
				if err != nil {
					return nil, err
				}
				if err := r.unify(patT, elemT, scan.Pos); err != nil {
					return nil, err
				}
				for _, name := range sortedKeys(binds) {
					rowEnv = rowEnv.Extend(name, types.Mono(binds[name]))
				}
			}

		case *ast.Where:
			condT, err := r.Infer(n.Cond, rowEnv)
			if err != nil {
				return nil, err
			}
			if err := r.unify(condT, r.Reg.PrimType(types.Bool), n.Pos); err != nil {
				return nil, err
			}

		case *ast.Group:
			if _, err := r.Infer(n.Key, rowEnv); err != nil {
				return nil, err
			}
			if n.Compute != nil {
				if _, err := r.Infer(n.Compute, rowEnv); err != nil {
					return nil, err
				}
			}

		case *ast.Order:
			if _, err := r.Infer(n.Key, rowEnv); err != nil {
				return nil, err
			}

		case *ast.Take:
			nT, err := r.Infer(n.N, rowEnv)
			if err != nil {
				return nil, err
			}
			if err := r.unify(nT, r.Reg.PrimType(types.Int), n.Pos); err != nil {
				return nil, err
			}

		case *ast.Skip:
			nT, err := r.Infer(n.N, rowEnv)
			if err != nil {
				return nil, err
			}
			if err := r.unify(nT, r.Reg.PrimType(types.Int), n.Pos); err != nil {
				return nil, err
			}

		case *ast.Yield:
			yT, err := r.Infer(n.Expr, rowEnv)
			if err != nil {
				return nil, err
			}
			resultT = r.Reg.Container(yT, types.KindList)

		case *ast.Into:
			fnT, err := r.Infer(n.Expr, rowEnv)
			if err != nil {
				return nil, err
			}
			out := r.freshVar()
			if err := r.unify(fnT, r.Reg.Fn(resultT, out), n.Pos); err != nil {
				return nil, err
			}
			resultT = out

		case *ast.Through:
			fnT, err := r.Infer(n.Expr, rowEnv)
			if err != nil {
				return nil, err
			}
			out := r.freshVar()
			if err := r.unify(fnT, r.Reg.Fn(resultT, out), n.Pos); err != nil {
				return nil, err
			}
			resultT = out
			patT, binds, err := r.inferPattern(n.Pat, rowEnv)
			if err != nil {
				return nil, err
			}
			elemT := r.freshVar()
			if err := r.unify(out, r.Reg.Container(elemT, types.KindList), n.Pos); err != nil {
				return nil, err
			}
			if err := r.unify(patT, elemT, n.Pos); err != nil {
				return nil, err
			}
			for _, name := range sortedKeys(binds) {
				rowEnv = rowEnv.Extend(name, types.Mono(binds[name]))
			}

		case *ast.SetOp:
			for _, src := range n.Sources {
				if _, err := r.Infer(src, rowEnv); err != nil {
					return nil, err
				}
			}

		case *ast.Distinct, *ast.Unorder:
			// no type effect

		case *ast.Compute:
			t, err := r.Infer(n.Expr, rowEnv)
			if err != nil {
				return nil, err
			}
			resultT = t

		case *ast.Require:
			t, err := r.Infer(n.Expr, rowEnv)
			if err != nil {
				return nil, err
			}
			if err := r.unify(t, r.Reg.PrimType(types.Bool), n.Pos); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("resolve: unsupported from-step %T", s)
		}
	}

	if require != nil {
		reqT, err := r.Infer(require, rowEnv)
		if err != nil {
			return nil, err
		}
		if err := r.unify(reqT, r.Reg.PrimType(types.Bool), pos); err != nil {
			return nil, err
		}
	}

	return resultT, nil
}
