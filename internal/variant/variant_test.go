package variant

import (
	"testing"

	"github.com/loomlang/loom/internal/eval"
)

func roundTrip(t *testing.T, v eval.Value) eval.Value {
	t.Helper()
	printed := Print(v)
	got, err := Parse(printed)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", printed, err)
	}
	return got
}

func TestRoundTripPrimitives(t *testing.T) {
	cases := []eval.Value{
		eval.Unit{},
		eval.Bool(true),
		eval.Bool(false),
		eval.Int(-42),
		eval.Real(3.5),
		eval.Char('x'),
		eval.Str("hello, \"world\"\n"),
	}
	for _, v := range cases {
		got := roundTrip(t, v)
		if got.String() != v.String() {
			t.Errorf("round-trip mismatch: printed %q as %q, parsed back to %q", Print(v), v.String(), got.String())
		}
	}
}

func TestRoundTripContainer(t *testing.T) {
	c := &eval.Container{Elems: []eval.Value{eval.Int(1), eval.Int(2), eval.Int(3)}, Kind: eval.KindList}
	got := roundTrip(t, c).(*eval.Container)
	if len(got.Elems) != 3 || got.Kind != eval.KindList {
		t.Fatalf("expected a 3-element list, got %v", got)
	}
}

func TestRoundTripRecord(t *testing.T) {
	r := &eval.Record{Fields: []eval.RecordField{
		{Label: "a", Value: eval.Int(1)},
		{Label: "b", Value: eval.Bool(true)},
	}}
	got := roundTrip(t, r).(*eval.Record)
	if v, ok := got.Get("a"); !ok || v.(eval.Int) != 1 {
		t.Fatalf("expected field a=1, got %v", got)
	}
}

func TestRoundTripTuple(t *testing.T) {
	tup := &eval.Tuple{Elems: []eval.Value{eval.Int(1), eval.Bool(true), eval.Str("z")}}
	printed := Print(tup)
	got, err := Parse(printed)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", printed, err)
	}
	if _, ok := got.(*eval.Tuple); !ok {
		t.Fatalf("expected Parse(Print(tuple)) to parse back as *eval.Tuple, got %T", got)
	}
	if !eval.Equal(tup, got) {
		t.Fatalf("expected Parse(Print(v)) to equal v, got %v from %v", got, tup)
	}
}

func TestRoundTripOption(t *testing.T) {
	none := &eval.Constructed{Ctor: "NONE"}
	if Print(none) != "NONE" {
		t.Fatalf("expected NONE to print as \"NONE\", got %q", Print(none))
	}
	some := &eval.Constructed{Ctor: "SOME", Arg: eval.Int(7)}
	got := roundTrip(t, some).(*eval.Constructed)
	if got.Ctor != "SOME" || got.Arg.(eval.Int) != 7 {
		t.Fatalf("expected SOME 7, got %v", got)
	}
}

func TestRoundTripConstructed(t *testing.T) {
	c := &eval.Constructed{Ctor: "Red"}
	got := roundTrip(t, c).(*eval.Constructed)
	if got.Ctor != "Red" || got.Arg != nil {
		t.Fatalf("expected nullary Red, got %v", got)
	}

	pair := &eval.Constructed{Ctor: "Pair", Arg: &eval.Tuple{Elems: []eval.Value{eval.Int(1), eval.Int(2)}}}
	if Print(pair) == "" {
		t.Fatalf("expected a non-empty printed form")
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	if _, err := Parse("INT 1 garbage"); err == nil {
		t.Fatalf("expected trailing input to be rejected")
	}
}
