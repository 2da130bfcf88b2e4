package eval

import (
	"testing"

	"github.com/loomlang/loom/internal/core"
)

func intLit(n int64) *core.Lit { return &core.Lit{Value: n} }

func TestEvalLiteralsAndTuple(t *testing.T) {
	ev := New()
	tup := &core.Tuple{Elems: []core.Expr{intLit(1), intLit(2)}}
	v, err := ev.Eval(tup, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := v.(*Tuple)
	if !ok || len(got.Elems) != 2 || got.Elems[0].(Int) != 1 || got.Elems[1].(Int) != 2 {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalLetNonRecursive(t *testing.T) {
	ev := New()
	let := &core.Let{
		Binds: []core.LetBind{{Name: "x", Value: intLit(41)}},
		Body:  &core.Id{Name: "x"},
	}
	v, err := ev.Eval(let, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(Int) != 41 {
		t.Fatalf("got %v", v)
	}
}

func TestEvalFnApplication(t *testing.T) {
	ev := New()
	// fn x => x
	id := &core.Fn{Arms: []core.Match{{Pat: core.IdPat{Name: "x"}, Body: &core.Id{Name: "x"}}}}
	apply := &core.Apply{Fn: id, Arg: intLit(7)}
	v, err := ev.Eval(apply, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(Int) != 7 {
		t.Fatalf("got %v", v)
	}
}

func TestEvalCaseConsPattern(t *testing.T) {
	ev := New()
	list := &core.ContainerLit{Elems: []core.Expr{intLit(1), intLit(2), intLit(3)}}
	caseExpr := &core.Case{
		Scrutinee: list,
		Arms: []core.Match{
			{Pat: core.NilPat{}, Body: intLit(0)},
			{Pat: core.ConsPat{Head: core.IdPat{Name: "h"}, Tail: core.IdPat{Name: "t"}}, Body: &core.Id{Name: "h"}},
		},
	}
	v, err := ev.Eval(caseExpr, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(Int) != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestEvalRecordSelectAndUpdate(t *testing.T) {
	ev := New()
	rec := &core.Record{Fields: []core.RecordField{{Label: "x", Value: intLit(1)}, {Label: "y", Value: intLit(2)}}}
	sel := &core.RecordSel{Label: "y", Record: rec}
	v, err := ev.Eval(sel, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(Int) != 2 {
		t.Fatalf("got %v", v)
	}

	updated := &core.Record{Base: rec, Fields: []core.RecordField{{Label: "x", Value: intLit(99)}}}
	v2, err := ev.Eval(updated, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2 := v2.(*Record)
	xv, _ := r2.Get("x")
	if xv.(Int) != 99 {
		t.Fatalf("expected updated field x=99, got %#v", r2)
	}
}

func TestEvalRelationalPipelineScanYield(t *testing.T) {
	ev := New()
	// from e in [1, 2, 3] yield e
	source := &core.ContainerLit{Elems: []core.Expr{intLit(1), intLit(2), intLit(3)}}
	pipeline := &core.Pipeline{
		Kind: core.PipelineFrom,
		Steps: []core.Step{
			core.ScanStep{Pat: core.IdPat{Name: "e"}, Source: source},
			core.YieldStep{Expr: &core.Id{Name: "e"}},
		},
	}
	v, err := ev.Eval(pipeline, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := v.(*Container)
	if !ok || len(c.Elems) != 3 {
		t.Fatalf("got %#v", v)
	}
}

func TestEvalRaiseAndHandle(t *testing.T) {
	ev := New()
	handle := &core.Handle{
		Body: &core.Raise{Exn: &core.Ctor{Name: "Fail"}},
		Arms: []core.Match{
			{Pat: core.ConPat{Ctor: "Fail"}, Body: intLit(-1)},
		},
	}
	v, err := ev.Eval(handle, NewEnvironment())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(Int) != -1 {
		t.Fatalf("got %v", v)
	}
}

func TestEvalUnboundIdentifierRaisesBind(t *testing.T) {
	ev := New()
	_, err := ev.Eval(&core.Id{Name: "nope"}, NewEnvironment())
	if _, ok := err.(*Raised); !ok {
		t.Fatalf("expected a Raised error for an unbound identifier, got %v", err)
	}
}
