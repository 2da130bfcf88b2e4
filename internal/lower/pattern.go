package lower

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
)

// lowerPattern lowers a surface pattern to core IR. Constructor patterns
// are resolved against the Registry purely to keep the two pattern
// languages syntactically parallel with lowerApply/LowerExpr; the core
// ConPat itself carries only the constructor name, since the evaluator's
// matcher compares by name against the runtime Constructed value.
func (l *Lowerer) lowerPattern(p ast.Pattern) core.Pattern {
	switch n := p.(type) {
	case *ast.Wild:
		return core.WildPat{}
	case *ast.IdPat:
		return core.IdPat{Name: n.Name}
	case *ast.LitPat:
		return core.LitPat{Value: litPatValue(n)}
	case *ast.ConsPat:
		return core.ConsPat{Head: l.lowerPattern(n.Head), Tail: l.lowerPattern(n.Tail)}
	case *ast.TuplePat:
		elems := make([]core.Pattern, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = l.lowerPattern(e)
		}
		return core.TuplePat{Elems: elems}
	case *ast.ListPat:
		// [] lowers to NilPat; a fixed-length list lowers to nested cons
		// cells terminated by NilPat, the same shape `::`-chained surface
		// patterns produce.
		var result core.Pattern = core.NilPat{}
		for i := len(n.Elems) - 1; i >= 0; i-- {
			result = core.ConsPat{Head: l.lowerPattern(n.Elems[i]), Tail: result}
		}
		return result
	case *ast.RecordPat:
		fields := make([]core.RecordFieldPat, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = core.RecordFieldPat{Label: f.Label, Pat: l.lowerPattern(f.Pat)}
		}
		return core.RecordPat{Fields: fields}
	case *ast.ConPat:
		var arg core.Pattern
		if n.Arg != nil {
			arg = l.lowerPattern(n.Arg)
		}
		return core.ConPat{Ctor: n.Ctor, Arg: arg}
	case *ast.AsPat:
		return core.AsPat{Name: n.Name, Pat: l.lowerPattern(n.Pat)}
	case *ast.AnnotatedPat:
		return l.lowerPattern(n.Pat)
	default:
		return core.WildPat{}
	}
}

func litPatValue(p *ast.LitPat) any {
	switch p.Kind {
	case ast.LitUnit:
		return nil
	case ast.LitBool:
		return p.Value.(bool)
	case ast.LitInt:
		return p.Value.(int64)
	case ast.LitReal:
		return p.Value.(float64)
	case ast.LitChar:
		return p.Value.(rune)
	case ast.LitString:
		return p.Value.(string)
	default:
		return nil
	}
}
