package eval

import (
	"sort"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
	"github.com/loomlang/loom/internal/relational"
)

// Evaluator tree-walks core IR. It carries the installed relational
// Adapter (relational.Noop if none was configured); evaluation never
// calls it, and every pipeline runs on the evaluator's own interpreter.
type Evaluator struct {
	Adapter relational.Adapter
}

// New returns an Evaluator with relational.Noop as its Adapter.
func New() *Evaluator {
	return &Evaluator{Adapter: relational.Noop{}}
}

// Eval evaluates expr in env.
func (ev *Evaluator) Eval(expr core.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *core.Lit:
		return litValue(e.Value), nil

	case *core.Id:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, BindException(e.Position())
		}
		return v, nil

	case *core.Ctor:
		return &Constructed{Ctor: e.Name}, nil

	case *core.Construct:
		var arg Value
		if e.Arg != nil {
			v, err := ev.Eval(e.Arg, env)
			if err != nil {
				return nil, err
			}
			arg = v
		}
		return &Constructed{Ctor: e.Ctor, Arg: arg}, nil

	case *core.Fn:
		return &Closure{Matches: e.Arms, Env: env, Name: e.Param}, nil

	case *core.If:
		c, err := ev.Eval(e.Cond, env)
		if err != nil {
			return nil, err
		}
		if b, ok := c.(Bool); ok && bool(b) {
			return ev.Eval(e.Then, env)
		}
		return ev.Eval(e.Else, env)

	case *core.Apply:
		fn, err := ev.Eval(e.Fn, env)
		if err != nil {
			return nil, err
		}
		arg, err := ev.Eval(e.Arg, env)
		if err != nil {
			return nil, err
		}
		return ev.apply(fn, arg, e.Position())

	case *core.Let:
		return ev.evalLet(e, env)

	case *core.Case:
		scrut, err := ev.Eval(e.Scrutinee, env)
		if err != nil {
			return nil, err
		}
		return ev.evalMatchArms(e.Arms, scrut, env, e.Position())

	case *core.Tuple:
		elems := make([]Value, len(e.Elems))
		for i, sub := range e.Elems {
			v, err := ev.Eval(sub, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &Tuple{Elems: elems}, nil

	case *core.Record:
		return ev.evalRecord(e, env)

	case *core.RecordSel:
		rv, err := ev.Eval(e.Record, env)
		if err != nil {
			return nil, err
		}
		rec, ok := rv.(*Record)
		if !ok {
			return nil, BindException(e.Position())
		}
		v, ok := rec.Get(e.Label)
		if !ok {
			return nil, BindException(e.Position())
		}
		return v, nil

	case *core.ContainerLit:
		elems := make([]Value, len(e.Elems))
		for i, sub := range e.Elems {
			v, err := ev.Eval(sub, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &Container{Elems: elems, Kind: containerKind(e.Kind)}, nil

	case *core.Raise:
		v, err := ev.Eval(e.Exn, env)
		if err != nil {
			return nil, err
		}
		return nil, &Raised{Exn: v, At: e.Position()}

	case *core.Handle:
		v, err := ev.Eval(e.Body, env)
		if err == nil {
			return v, nil
		}
		raised, ok := err.(*Raised)
		if !ok {
			return nil, err
		}
		return ev.evalMatchArmsCatch(e.Arms, raised, env, e.Position())

	case *core.Pipeline:
		return ev.evalPipeline(e, env)

	default:
		return nil, BindException(expr.Position())
	}
}

func litValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return Unit{}
	case bool:
		return Bool(x)
	case int64:
		return Int(x)
	case float64:
		return Real(x)
	case rune:
		return Char(x)
	case string:
		return Str(x)
	default:
		return Unit{}
	}
}

func containerKind(k core.ContainerKind) ContainerKind {
	switch k {
	case core.KindBag:
		return KindBag
	case core.KindVector:
		return KindVector
	default:
		return KindList
	}
}

func (ev *Evaluator) apply(fn Value, arg Value, at ast.Pos) (Value, error) {
	switch f := fn.(type) {
	case *Closure:
		return ev.evalMatchArms(f.Matches, arg, f.Env, at)
	case *Builtin:
		return f.Fn(arg)
	default:
		return nil, &Raised{Exn: &Constructed{Ctor: "NotAFunction"}, At: at}
	}
}

func (ev *Evaluator) evalMatchArms(arms []core.Match, scrut Value, env *Environment, at ast.Pos) (Value, error) {
	for _, arm := range arms {
		if binds, ok := Match(arm.Pat, scrut); ok {
			return ev.Eval(arm.Body, env.ExtendAll(binds))
		}
	}
	return nil, BindException(at)
}

func (ev *Evaluator) evalMatchArmsCatch(arms []core.Match, raised *Raised, env *Environment, _ ast.Pos) (Value, error) {
	for _, arm := range arms {
		if binds, ok := Match(arm.Pat, raised.Exn); ok {
			return ev.Eval(arm.Body, env.ExtendAll(binds))
		}
	}
	return nil, raised
}

func (ev *Evaluator) evalLet(e *core.Let, env *Environment) (Value, error) {
	if !e.Rec {
		cur := env
		for _, b := range e.Binds {
			v, err := ev.Eval(b.Value, cur)
			if err != nil {
				return nil, err
			}
			cur = cur.Extend(b.Name, v)
		}
		return ev.Eval(e.Body, cur)
	}

	// Recursive binding group: build one shared layer, evaluate each
	// closure in that layer, then tie the knot by mutating it in place
	// before anything outside this function can observe it.
	layer := env.ExtendAll(map[string]Value{})
	for _, b := range e.Binds {
		v, err := ev.Eval(b.Value, layer)
		if err != nil {
			return nil, err
		}
		layer.SetLocal(b.Name, v)
	}
	return ev.Eval(e.Body, layer)
}

func (ev *Evaluator) evalRecord(e *core.Record, env *Environment) (Value, error) {
	var fields []RecordField
	if e.Base != nil {
		bv, err := ev.Eval(e.Base, env)
		if err != nil {
			return nil, err
		}
		base, ok := bv.(*Record)
		if !ok {
			return nil, BindException(e.Position())
		}
		fields = append(fields, base.Fields...)
	}
	overrides := map[string]Value{}
	for _, f := range e.Fields {
		v, err := ev.Eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		overrides[f.Label] = v
	}
	var merged []RecordField
	seen := map[string]bool{}
	for _, f := range fields {
		if v, ok := overrides[f.Label]; ok {
			merged = append(merged, RecordField{Label: f.Label, Value: v})
		} else {
			merged = append(merged, f)
		}
		seen[f.Label] = true
	}
	var extra []string
	for label := range overrides {
		if !seen[label] {
			extra = append(extra, label)
		}
	}
	sort.Strings(extra)
	for _, label := range extra {
		merged = append(merged, RecordField{Label: label, Value: overrides[label]})
	}
	sort.SliceStable(merged, func(i, j int) bool { return canonicalLess(merged[i].Label, merged[j].Label) })
	return &Record{Fields: merged}, nil
}

func canonicalLess(a, b string) bool {
	an, aok := asInt(a)
	bn, bok := asInt(b)
	if aok && bok {
		return an < bn
	}
	if aok != bok {
		return aok
	}
	return a < b
}

func asInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
