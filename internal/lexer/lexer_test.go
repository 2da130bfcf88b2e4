package lexer

import "testing"

func collect(input string) []Token {
	l := New(input, "stdIn")
	var toks []Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == EOF {
			return toks
		}
	}
}

func TestNegativeIntLiteral(t *testing.T) {
	toks := collect("~5")
	if toks[0].Type != INT || toks[0].Literal != "-5" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestBlockCommentNests(t *testing.T) {
	toks := collect("(* outer (* inner *) still-comment *) 1")
	if toks[0].Type != INT || toks[0].Literal != "1" {
		t.Fatalf("expected comment to be fully skipped, got %+v", toks)
	}
}

func TestLineCommentVariant(t *testing.T) {
	toks := collect("(*) trailing comment\n1")
	if toks[0].Type != INT || toks[0].Literal != "1" {
		t.Fatalf("expected (*) to act as line comment, got %+v", toks)
	}
}

func TestBacktickIdentifier(t *testing.T) {
	toks := collect("`val` + 1")
	if toks[0].Type != IDENT || toks[0].Literal != "val" {
		t.Fatalf("expected backtick-escaped identifier, got %+v", toks[0])
	}
}

func TestTypeVarAndLabel(t *testing.T) {
	toks := collect("'a #name")
	if toks[0].Type != TYVAR || toks[0].Literal != "a" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Type != LABEL || toks[1].Literal != "name" {
		t.Fatalf("got %+v", toks[1])
	}
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	toks := collect("fun f val")
	want := []Type{KW_FUN, IDENT, KW_VAL, EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestArrowsAndDoubleColon(t *testing.T) {
	toks := collect("a -> b => c :: d")
	want := []Type{IDENT, ARROW, IDENT, FARROW, IDENT, CONS, IDENT, EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(`"a\nb"`)
	if toks[0].Type != STRING || toks[0].Literal != "a\nb" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestRealLiteral(t *testing.T) {
	toks := collect("1.5 ~2.0")
	if toks[0].Type != REAL || toks[0].Literal != "1.5" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Type != REAL || toks[1].Literal != "-2.0" {
		t.Fatalf("got %+v", toks[1])
	}
}

func TestEllipsis(t *testing.T) {
	toks := collect("{x = 1, ...}")
	var found bool
	for _, tok := range toks {
		if tok.Type == ELLIPSIS {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ELLIPSIS token, got %+v", toks)
	}
}
