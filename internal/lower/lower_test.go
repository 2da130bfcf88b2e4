package lower

import (
	"testing"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
	"github.com/loomlang/loom/internal/parser"
	"github.com/loomlang/loom/internal/types"
)

// parseOneDecl parses src as a single-declaration program and returns its
// first Decl, failing the test on any syntax error.
func parseOneDecl(t *testing.T, src string) ast.Decl {
	t.Helper()
	p := parser.New(src, "test")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors())
	}
	if len(prog.Decls) == 0 {
		t.Fatalf("no declarations parsed from %q", src)
	}
	return prog.Decls[0]
}

func lowerSrc(t *testing.T, reg *types.Registry, src string) []Binding {
	t.Helper()
	p := parser.New(src, "test")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors())
	}
	l := New(reg)
	binds, err := l.LowerDecl(prog.Decls[0])
	if err != nil {
		t.Fatalf("lower error for %q: %v", src, err)
	}
	return binds
}

func TestLowerValDeclSimple(t *testing.T) {
	binds := lowerSrc(t, types.NewRegistry(), "val x = 1 + 2")
	if len(binds) != 1 || binds[0].Name != "x" {
		t.Fatalf("unexpected bindings: %+v", binds)
	}
	app, ok := binds[0].Expr.(*core.Apply)
	if !ok {
		t.Fatalf("expected Apply, got %T", binds[0].Expr)
	}
	inner, ok := app.Fn.(*core.Apply)
	if !ok {
		t.Fatalf("expected nested Apply for curried +, got %T", app.Fn)
	}
	id, ok := inner.Fn.(*core.Id)
	if !ok || id.Name != "+" {
		t.Fatalf("expected operator identifier '+', got %+v", inner.Fn)
	}
}

func TestLowerFunDeclMultiClause(t *testing.T) {
	binds := lowerSrc(t, types.NewRegistry(), "fun fact 0 = 1 | fact n = n * 1")
	if len(binds) != 1 || binds[0].Name != "fact" || !binds[0].Rec {
		t.Fatalf("unexpected bindings: %+v", binds)
	}
	fn, ok := binds[0].Expr.(*core.Fn)
	if !ok {
		t.Fatalf("expected Fn, got %T", binds[0].Expr)
	}
	if len(fn.Arms) != 1 {
		t.Fatalf("expected the outer Fn to bind its parameter in 1 arm, got %d", len(fn.Arms))
	}
	cs, ok := fn.Arms[0].Body.(*core.Case)
	if !ok || len(cs.Arms) != 2 {
		t.Fatalf("expected a Case with 2 arms over the argument, got %+v", fn.Arms[0].Body)
	}
	if _, ok := cs.Arms[0].Pat.(core.LitPat); !ok {
		t.Fatalf("expected first arm pattern to be a literal, got %T", cs.Arms[0].Pat)
	}
}

func TestLowerAndalsoShortCircuits(t *testing.T) {
	binds := lowerSrc(t, types.NewRegistry(), "val b = true andalso false")
	ifExpr, ok := binds[0].Expr.(*core.If)
	if !ok {
		t.Fatalf("expected If, got %T", binds[0].Expr)
	}
	if lit, ok := ifExpr.Else.(*core.Lit); !ok || lit.Value != false {
		t.Fatalf("expected andalso's Else branch to be literal false, got %+v", ifExpr.Else)
	}
}

func TestLowerRecordSelProjection(t *testing.T) {
	binds := lowerSrc(t, types.NewRegistry(), "val y = #name r")
	sel, ok := binds[0].Expr.(*core.RecordSel)
	if !ok || sel.Label != "name" {
		t.Fatalf("expected RecordSel on 'name', got %+v", binds[0].Expr)
	}
}

func TestLowerConstructorApplication(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	dtDecl := parseOneDecl(t, "datatype option = None | Some of int")
	if _, err := l.LowerDecl(dtDecl); err != nil {
		t.Fatalf("lowering datatype decl: %v", err)
	}
	if _, _, ok := reg.LookupCtor("Some"); !ok {
		t.Fatalf("expected constructor Some to be registered")
	}

	valDecl := parseOneDecl(t, "val s = Some 1")
	binds, err := l.LowerDecl(valDecl)
	if err != nil {
		t.Fatalf("lowering val decl: %v", err)
	}
	construct, ok := binds[0].Expr.(*core.Construct)
	if !ok || construct.Ctor != "Some" {
		t.Fatalf("expected Construct{Ctor: Some}, got %+v", binds[0].Expr)
	}

	noneDecl := parseOneDecl(t, "val n = None")
	binds, err = l.LowerDecl(noneDecl)
	if err != nil {
		t.Fatalf("lowering val decl: %v", err)
	}
	if ctor, ok := binds[0].Expr.(*core.Ctor); !ok || ctor.Name != "None" {
		t.Fatalf("expected bare Ctor{Name: None}, got %+v", binds[0].Expr)
	}
}

func TestLowerPatternBindingProjectsVariables(t *testing.T) {
	reg := types.NewRegistry()
	l := New(reg)
	dtDecl := parseOneDecl(t, "datatype option = None | Some of int")
	if _, err := l.LowerDecl(dtDecl); err != nil {
		t.Fatalf("lowering datatype decl: %v", err)
	}
	valDecl := parseOneDecl(t, "val Some x = Some 5")
	binds, err := l.LowerDecl(valDecl)
	if err != nil {
		t.Fatalf("lowering val decl: %v", err)
	}
	// Expect a synthetic temporary binding plus a projection for `x`.
	if len(binds) != 2 {
		t.Fatalf("expected 2 bindings (temp + projection), got %d: %+v", len(binds), binds)
	}
	if binds[1].Name != "x" {
		t.Fatalf("expected second binding to project 'x', got %q", binds[1].Name)
	}
	if _, ok := binds[1].Expr.(*core.Case); !ok {
		t.Fatalf("expected projection to be a Case, got %T", binds[1].Expr)
	}
}
