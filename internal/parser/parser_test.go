package parser

import (
	"testing"

	"github.com/loomlang/loom/internal/ast"
)

func parseExprString(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := New(src, "stdIn")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("expected exactly one decl, got %d", len(prog.Decls))
	}
	ed, ok := prog.Decls[0].(*ast.ExprDecl)
	if !ok {
		t.Fatalf("expected ExprDecl, got %T", prog.Decls[0])
	}
	return ed.Expr
}

func TestParseFactorialDecl(t *testing.T) {
	src := `fun fact n = if n < 1 then 1 else n * fact (n - 1)`
	p := New(src, "stdIn")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fd, ok := prog.Decls[0].(*ast.FunDecl)
	if !ok {
		t.Fatalf("expected FunDecl, got %T", prog.Decls[0])
	}
	if fd.Name != "fact" || len(fd.Arms) != 1 {
		t.Fatalf("got %+v", fd)
	}
}

func TestParseLetPolymorphismExpr(t *testing.T) {
	e := parseExprString(t, `let val id = fn x => x in (id 1, id "a") end`)
	let, ok := e.(*ast.Let)
	if !ok {
		t.Fatalf("expected Let, got %T", e)
	}
	body, ok := let.Body.(*ast.Tuple)
	if !ok || len(body.Elems) != 2 {
		t.Fatalf("expected 2-tuple body, got %#v", let.Body)
	}
}

func TestParseApplicationBindsTighterThanInfix(t *testing.T) {
	e := parseExprString(t, `f x + 1`)
	bin, ok := e.(*ast.InfixCall)
	if !ok {
		t.Fatalf("expected top-level InfixCall, got %T", e)
	}
	if _, ok := bin.Lhs.(*ast.Apply); !ok {
		t.Fatalf("expected application on the left of +, got %T", bin.Lhs)
	}
}

func TestParseFromPipeline(t *testing.T) {
	e := parseExprString(t, `from e in emps where #dept e = "A" yield #id e`)
	from, ok := e.(*ast.From)
	if !ok {
		t.Fatalf("expected From, got %T", e)
	}
	if len(from.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d: %v", len(from.Steps), from.Steps)
	}
	if _, ok := from.Steps[0].(*ast.Scan); !ok {
		t.Fatalf("expected Scan first, got %T", from.Steps[0])
	}
	if _, ok := from.Steps[1].(*ast.Where); !ok {
		t.Fatalf("expected Where second, got %T", from.Steps[1])
	}
	if _, ok := from.Steps[2].(*ast.Yield); !ok {
		t.Fatalf("expected Yield third, got %T", from.Steps[2])
	}
}

func TestParseRecordUpdate(t *testing.T) {
	e := parseExprString(t, `{p with x = 1, y = 2}`)
	rec, ok := e.(*ast.Record)
	if !ok {
		t.Fatalf("expected Record, got %T", e)
	}
	if rec.With == nil || len(rec.Fields) != 2 {
		t.Fatalf("got %#v", rec)
	}
}

func TestParseDatatypeDecl(t *testing.T) {
	src := `datatype 'a option = NONE | SOME of 'a`
	p := New(src, "stdIn")
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	dd, ok := prog.Decls[0].(*ast.DatatypeDecl)
	if !ok {
		t.Fatalf("expected DatatypeDecl, got %T", prog.Decls[0])
	}
	if len(dd.Binds) != 1 || len(dd.Binds[0].Ctors) != 2 {
		t.Fatalf("got %+v", dd.Binds)
	}
	if dd.Binds[0].Ctors[1].Payload == nil {
		t.Fatalf("expected SOME to carry a payload type")
	}
}

func TestParseConsPatternAndMatch(t *testing.T) {
	e := parseExprString(t, `case xs of [] => 0 | h :: t => h`)
	c, ok := e.(*ast.Case)
	if !ok {
		t.Fatalf("expected Case, got %T", e)
	}
	if len(c.Matches) != 2 {
		t.Fatalf("expected 2 match arms, got %d", len(c.Matches))
	}
	if _, ok := c.Matches[1].Pat.(*ast.ConsPat); !ok {
		t.Fatalf("expected ConsPat, got %T", c.Matches[1].Pat)
	}
}

func TestParseNegativeIntPattern(t *testing.T) {
	e := parseExprString(t, `fn ~1 => true | _ => false`)
	fn, ok := e.(*ast.Fn)
	if !ok {
		t.Fatalf("expected Fn, got %T", e)
	}
	lp, ok := fn.Matches[0].Pat.(*ast.LitPat)
	if !ok || lp.Value != int64(-1) {
		t.Fatalf("expected literal pattern -1, got %#v", fn.Matches[0].Pat)
	}
}

func TestParseTupleAndAnnotation(t *testing.T) {
	e := parseExprString(t, `(1, 2, 3)`)
	tup, ok := e.(*ast.Tuple)
	if !ok || len(tup.Elems) != 3 {
		t.Fatalf("got %#v", e)
	}
	e2 := parseExprString(t, `(1 : int)`)
	ann, ok := e2.(*ast.Annotated)
	if !ok {
		t.Fatalf("expected Annotated, got %T", e2)
	}
	nt, ok := ann.Type.(*ast.NamedType)
	if !ok || nt.Name != "int" {
		t.Fatalf("got %#v", ann.Type)
	}
}
