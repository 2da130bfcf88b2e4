package lower

import (
	"fmt"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
)

// operatorNames maps surface infix operator tokens to the identifier a
// lowered Apply chain looks them up under in eval.BaseEnv.
var operatorNames = map[string]string{
	"+": "+", "-": "-", "*": "*", "/": "/", "div": "div", "mod": "mod",
	"^": "^", "=": "=", "<>": "<>", "<": "<", "<=": "<=", ">": ">", ">=": ">=",
	"::": "::", "@": "@", "elem": "elem",
}

// LowerExpr lowers a single surface expression to core IR.
func (l *Lowerer) LowerExpr(e ast.Expr) (core.Expr, error) {
	switch n := e.(type) {
	case *ast.Lit:
		return &core.Lit{Value: litValueOf(n)}, nil

	case *ast.Id:
		if _, c, ok := l.Reg.LookupCtor(n.Name); ok {
			if c.Payload == nil {
				return &core.Ctor{Name: n.Name}, nil
			}
			// A bare reference to a non-nullary constructor used as a
			// value (not applied here) lowers to an eta-expansion so it
			// behaves like any other function value.
			param := l.freshName()
			return &core.Fn{
				Param: param,
				Arms:  []core.Match{{Pat: core.IdPat{Name: param}, Body: &core.Construct{Ctor: n.Name, Arg: &core.Id{Name: param}}}},
			}, nil
		}
		return &core.Id{Name: n.Name}, nil

	case *ast.RecordSel:
		param := l.freshName()
		return &core.Fn{
			Param: param,
			Arms:  []core.Match{{Pat: core.IdPat{Name: param}, Body: &core.RecordSel{Label: n.Label, Record: &core.Id{Name: param}}}},
		}, nil

	case *ast.UnaryOp:
		operand, err := l.LowerExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		name := "~"
		if n.Op == "not" {
			name = "not"
		}
		return &core.Apply{Fn: &core.Id{Name: name}, Arg: operand}, nil

	case *ast.If:
		cond, err := l.LowerExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.LowerExpr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := l.LowerExpr(n.Else)
		if err != nil {
			return nil, err
		}
		return &core.If{Cond: cond, Then: then, Else: els}, nil

	case *ast.Let:
		return l.lowerLetExpr(n)

	case *ast.Fn:
		return l.lowerFnExpr(n)

	case *ast.Apply:
		return l.lowerApply(n)

	case *ast.Case:
		scrut, err := l.LowerExpr(n.Scrutinee)
		if err != nil {
			return nil, err
		}
		arms, err := l.lowerMatches(n.Matches)
		if err != nil {
			return nil, err
		}
		return &core.Case{Scrutinee: scrut, Arms: arms}, nil

	case *ast.Tuple:
		elems, err := l.lowerExprList(n.Elems)
		if err != nil {
			return nil, err
		}
		return &core.Tuple{Elems: elems}, nil

	case *ast.Record:
		return l.lowerRecordExpr(n)

	case *ast.List:
		elems, err := l.lowerExprList(n.Elems)
		if err != nil {
			return nil, err
		}
		return &core.ContainerLit{Elems: elems, Kind: core.KindList}, nil

	case *ast.InfixCall:
		return l.lowerInfix(n)

	case *ast.From:
		steps, err := l.lowerSteps(n.Steps)
		if err != nil {
			return nil, err
		}
		return &core.Pipeline{Steps: steps, Kind: core.PipelineFrom}, nil

	case *ast.Exists:
		steps, err := l.lowerSteps(n.Steps)
		if err != nil {
			return nil, err
		}
		return &core.Pipeline{Steps: steps, Kind: core.PipelineExists}, nil

	case *ast.Forall:
		steps, err := l.lowerSteps(n.Steps)
		if err != nil {
			return nil, err
		}
		require, err := l.LowerExpr(n.Require)
		if err != nil {
			return nil, err
		}
		return &core.Pipeline{Steps: steps, Kind: core.PipelineForall, Require: require}, nil

	case *ast.Annotated:
		// Type annotations drive inference only; the core IR carries the
		// resolved type on every node already, so evaluation just sees
		// the inner expression.
		return l.LowerExpr(n.Expr)

	case *ast.Aggregate:
		fn, err := l.LowerExpr(n.Fn)
		if err != nil {
			return nil, err
		}
		over, err := l.LowerExpr(n.Over)
		if err != nil {
			return nil, err
		}
		return &core.Apply{Fn: fn, Arg: over}, nil

	default:
		return nil, fmt.Errorf("lower: unsupported expression %T", e)
	}
}

func litValueOf(l *ast.Lit) any {
	switch l.Kind {
	case ast.LitUnit:
		return nil
	case ast.LitBool:
		return l.Value.(bool)
	case ast.LitInt:
		return l.Value.(int64)
	case ast.LitReal:
		return l.Value.(float64)
	case ast.LitChar:
		return l.Value.(rune)
	case ast.LitString:
		return l.Value.(string)
	default:
		return nil
	}
}

func (l *Lowerer) lowerExprList(es []ast.Expr) ([]core.Expr, error) {
	out := make([]core.Expr, len(es))
	for i, e := range es {
		v, err := l.LowerExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (l *Lowerer) lowerMatches(matches []ast.Match) ([]core.Match, error) {
	out := make([]core.Match, len(matches))
	armPos := make([]ast.Pos, len(matches))
	for i, m := range matches {
		body, err := l.LowerExpr(m.Body)
		if err != nil {
			return nil, err
		}
		out[i] = core.Match{Pat: l.lowerPattern(m.Pat), Body: body}
		armPos[i] = m.Pat.Position()
	}
	if len(out) > 0 {
		pats := make([]core.Pattern, len(out))
		for i, m := range out {
			pats[i] = m.Pat
		}
		if err := l.checkMatch(armPos[0], pats, armPos); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (l *Lowerer) lowerFnExpr(n *ast.Fn) (core.Expr, error) {
	arms, err := l.lowerMatches(n.Matches)
	if err != nil {
		return nil, err
	}
	param := l.freshName()
	return &core.Fn{Param: param, Arms: arms}, nil
}

func (l *Lowerer) lowerApply(n *ast.Apply) (core.Expr, error) {
	// `#label e` desugars straight to a RecordSel rather than an indirect
	// call through the eta-expanded projection function.
	if sel, ok := n.Fn.(*ast.RecordSel); ok {
		rec, err := l.LowerExpr(n.Arg)
		if err != nil {
			return nil, err
		}
		return &core.RecordSel{Label: sel.Label, Record: rec}, nil
	}
	// Applying a known constructor by name builds a Construct node
	// directly instead of going through generic function application.
	if id, ok := n.Fn.(*ast.Id); ok {
		if _, c, ok := l.Reg.LookupCtor(id.Name); ok && c.Payload != nil {
			arg, err := l.LowerExpr(n.Arg)
			if err != nil {
				return nil, err
			}
			return &core.Construct{Ctor: id.Name, Arg: arg}, nil
		}
	}
	fn, err := l.LowerExpr(n.Fn)
	if err != nil {
		return nil, err
	}
	arg, err := l.LowerExpr(n.Arg)
	if err != nil {
		return nil, err
	}
	return &core.Apply{Fn: fn, Arg: arg}, nil
}

func (l *Lowerer) lowerInfix(n *ast.InfixCall) (core.Expr, error) {
	lhs, err := l.LowerExpr(n.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := l.LowerExpr(n.Rhs)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "andalso":
		return &core.If{Cond: lhs, Then: rhs, Else: &core.Lit{Value: false}}, nil
	case "orelse":
		return &core.If{Cond: lhs, Then: &core.Lit{Value: true}, Else: rhs}, nil
	case "implies":
		return &core.If{Cond: lhs, Then: rhs, Else: &core.Lit{Value: true}}, nil
	case "o":
		// (f o g) x = f (g x)
		param := l.freshName()
		inner := &core.Apply{Fn: rhs, Arg: &core.Id{Name: param}}
		outer := &core.Apply{Fn: lhs, Arg: inner}
		return &core.Fn{Param: param, Arms: []core.Match{{Pat: core.IdPat{Name: param}, Body: outer}}}, nil
	}
	name, ok := operatorNames[n.Op]
	if !ok {
		name = n.Op
	}
	return &core.Apply{Fn: &core.Apply{Fn: &core.Id{Name: name}, Arg: lhs}, Arg: rhs}, nil
}

func (l *Lowerer) lowerLetExpr(n *ast.Let) (core.Expr, error) {
	var binds []Binding
	for _, d := range n.Decls {
		bs, err := l.LowerDecl(d)
		if err != nil {
			return nil, err
		}
		binds = append(binds, bs...)
	}
	body, err := l.LowerExpr(n.Body)
	if err != nil {
		return nil, err
	}
	// core.Let is all-or-nothing on recursion, but a `let` can mix plain
	// `val` and `val rec`/`fun` bindings; wrap each one in its own nested
	// Let using its own recorded Rec flag rather than forcing one flag
	// across the whole decl list.
	result := body
	for i := len(binds) - 1; i >= 0; i-- {
		b := binds[i]
		result = &core.Let{Rec: b.Rec, Binds: []core.LetBind{{Name: b.Name, Value: b.Expr}}, Body: result}
	}
	return result, nil
}

func (l *Lowerer) lowerRecordExpr(n *ast.Record) (core.Expr, error) {
	fields := make([]core.RecordField, len(n.Fields))
	for i, f := range n.Fields {
		v, err := l.LowerExpr(f.Value)
		if err != nil {
			return nil, err
		}
		fields[i] = core.RecordField{Label: f.Label, Value: v}
	}
	var base core.Expr
	if n.With != nil {
		b, err := l.LowerExpr(n.With)
		if err != nil {
			return nil, err
		}
		base = b
	}
	return &core.Record{Fields: fields, Base: base}, nil
}
