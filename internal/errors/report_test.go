package errors

import (
	"strings"
	"testing"

	"github.com/loomlang/loom/internal/ast"
)

func span(file string, l1, c1, l2, c2 int) ast.Span {
	return ast.Span{Start: ast.Pos{File: file, Line: l1, Col: c1}, End: ast.Pos{File: file, Line: l2, Col: c2}}
}

func TestRenderMatchesReplFormat(t *testing.T) {
	r := New("resolve", TYP001, span("stdIn", 3, 1, 3, 12), "unbound identifier 'foo'")
	got := r.Render()
	want := "stdIn:3.1-3.12 Error: unbound identifier 'foo'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderIncludesRaisedAt(t *testing.T) {
	r := New("eval", EVL004, span("stdIn", 1, 1, 1, 5), "uncaught exception Fail")
	raised := ast.Pos{File: "stdIn", Line: 2, Col: 3}
	r.RaisedAt = &raised
	got := r.Render()
	if !strings.Contains(got, "raised at: stdIn:2.3") {
		t.Fatalf("expected raised-at line, got %q", got)
	}
}

func TestWrapAndAsReportRoundTrip(t *testing.T) {
	r := New("parser", PAR001, span("stdIn", 1, 1, 1, 2), "unexpected token")
	err := WrapReport(r)
	got, ok := AsReport(err)
	if !ok || got != r {
		t.Fatalf("expected AsReport to recover the same report")
	}
}
