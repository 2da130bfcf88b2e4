package ast

import "testing"

func TestLitString(t *testing.T) {
	cases := []struct {
		lit  *Lit
		want string
	}{
		{&Lit{Kind: LitUnit}, "()"},
		{&Lit{Kind: LitInt, Value: 5}, "5"},
		{&Lit{Kind: LitString, Value: "a"}, `"a"`},
	}
	for _, c := range cases {
		if got := c.lit.String(); got != c.want {
			t.Errorf("Lit.String() = %q, want %q", got, c.want)
		}
	}
}

func TestFunDeclString(t *testing.T) {
	fd := &FunDecl{
		Name: "fact",
		Arms: []FunArm{{
			ArgPats: []Pattern{&IdPat{Name: "n"}},
			Body:    &Id{Name: "n"},
		}},
	}
	want := "fun fact n = n"
	if got := fd.String(); got != want {
		t.Errorf("FunDecl.String() = %q, want %q", got, want)
	}
}

func TestWalkVisitsNestedExpressions(t *testing.T) {
	expr := &If{
		Cond: &Id{Name: "b"},
		Then: &Apply{Fn: &Id{Name: "f"}, Arg: &Lit{Kind: LitInt, Value: 1}},
		Else: &Lit{Kind: LitInt, Value: 0},
	}
	var seen []string
	Walk(Visitor{Pre: func(n Node) bool {
		seen = append(seen, n.String())
		return true
	}}, expr)
	if len(seen) < 4 {
		t.Fatalf("expected at least 4 visited nodes, got %d: %v", len(seen), seen)
	}
}

func TestPosString(t *testing.T) {
	p := Pos{File: "stdIn", Line: 1, Col: 3}
	if got, want := p.String(), "stdIn:1.3"; got != want {
		t.Errorf("Pos.String() = %q, want %q", got, want)
	}
}
