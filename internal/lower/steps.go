package lower

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
)

func (l *Lowerer) lowerSteps(steps []ast.FromStep) ([]core.Step, error) {
	out := make([]core.Step, 0, len(steps))
	for _, s := range steps {
		lowered, err := l.lowerStep(s)
		if err != nil {
			return nil, err
		}
		out = append(out, lowered...)
	}
	return out, nil
}

// lowerStep returns a slice because Join fans out into several ScanSteps.
func (l *Lowerer) lowerStep(s ast.FromStep) ([]core.Step, error) {
	switch n := s.(type) {
	case *ast.Scan:
		src, err := l.LowerExpr(n.Source)
		if err != nil {
			return nil, err
		}
		var on core.Expr
		if n.On != nil {
			on, err = l.LowerExpr(n.On)
			if err != nil {
				return nil, err
			}
		}
		return []core.Step{core.ScanStep{Pat: l.lowerPattern(n.Pat), Source: src, On: on}}, nil

	case *ast.Join:
		var out []core.Step
		for _, scan := range n.Scans {
			step, err := l.lowerStep(scan)
			if err != nil {
				return nil, err
			}
			out = append(out, step...)
		}
		return out, nil

	case *ast.Where:
		cond, err := l.LowerExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.WhereStep{Cond: cond}}, nil

	case *ast.Group:
		key, err := l.LowerExpr(n.Key)
		if err != nil {
			return nil, err
		}
		var compute core.Expr
		if n.Compute != nil {
			compute, err = l.LowerExpr(n.Compute)
			if err != nil {
				return nil, err
			}
		}
		return []core.Step{core.GroupStep{Key: key, Compute: compute}}, nil

	case *ast.Order:
		key, err := l.LowerExpr(n.Key)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.OrderStep{Key: key}}, nil

	case *ast.Take:
		v, err := l.LowerExpr(n.N)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.TakeStep{N: v}}, nil

	case *ast.Skip:
		v, err := l.LowerExpr(n.N)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.SkipStep{N: v}}, nil

	case *ast.Yield:
		v, err := l.LowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.YieldStep{Expr: v}}, nil

	case *ast.Into:
		v, err := l.LowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.IntoStep{Expr: v}}, nil

	case *ast.Through:
		v, err := l.LowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.ThroughStep{Pat: l.lowerPattern(n.Pat), Expr: v}}, nil

	case *ast.SetOp:
		sources, err := l.lowerExprList(n.Sources)
		if err != nil {
			return nil, err
		}
		kind := map[ast.SetOpKind]core.SetOpKind{
			ast.SetUnion: core.SetUnion, ast.SetIntersect: core.SetIntersect, ast.SetExcept: core.SetExcept,
		}[n.Kind]
		return []core.Step{core.SetOpStep{Kind: kind, Distinct: n.Distinct, Sources: sources}}, nil

	case *ast.Distinct:
		return []core.Step{core.DistinctStep{}}, nil

	case *ast.Unorder:
		return []core.Step{core.UnorderStep{}}, nil

	case *ast.Compute:
		v, err := l.LowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.ComputeStep{Expr: v}}, nil

	case *ast.Require:
		// `require e` only appears as the trailing step of a `forall`,
		// already split out into Forall.Require by the parser; reaching
		// here means it appeared elsewhere, which the resolver should
		// have already rejected, but guard against it defensively.
		v, err := l.LowerExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return []core.Step{core.WhereStep{Cond: v}}, nil

	default:
		return nil, fmt.Errorf("lower: unsupported from-step %T", s)
	}
}
