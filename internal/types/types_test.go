package types

import "testing"

func TestRegistryInternsStructurallyEqualTypes(t *testing.T) {
	r := NewRegistry()
	a := r.Fn(r.PrimType(Int), r.PrimType(Bool))
	b := r.Fn(r.PrimType(Int), r.PrimType(Bool))
	if a != b {
		t.Fatalf("expected identical pointers for structurally equal fn types")
	}
}

func TestRecordCanonicalLabelOrder(t *testing.T) {
	r := NewRegistry()
	a := r.Record([]RecordField{{"b", r.PrimType(Int)}, {"a", r.PrimType(Bool)}})
	b := r.Record([]RecordField{{"a", r.PrimType(Bool)}, {"b", r.PrimType(Int)}})
	if a != b {
		t.Fatalf("expected field order to not affect record identity")
	}
	rec := a.(*TRecord)
	if rec.Fields[0].Label != "a" || rec.Fields[1].Label != "b" {
		t.Fatalf("expected canonical sorted order, got %+v", rec.Fields)
	}
}

func TestRecordWithTupleLabelsDegradesToTuple(t *testing.T) {
	r := NewRegistry()
	rec := r.Record([]RecordField{{"2", r.PrimType(Bool)}, {"1", r.PrimType(Int)}})
	tup, ok := rec.(*TTuple)
	if !ok {
		t.Fatalf("expected {1:.., 2:..} to degrade to a tuple, got %T", rec)
	}
	if tup.Elems[0] != r.PrimType(Int) || tup.Elems[1] != r.PrimType(Bool) {
		t.Fatalf("got %v", tup.Elems)
	}
}

func TestCanonicalLabelLessNumericBeforeLexicographic(t *testing.T) {
	if !CanonicalLabelLess("2", "10") {
		t.Fatalf("expected numeric comparison: 2 < 10")
	}
	if !CanonicalLabelLess("3", "dept") {
		t.Fatalf("expected numeric labels to sort before non-numeric ones")
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	r := NewRegistry()
	u := NewUnifier(r)
	tv := r.Var("a")
	listOfA := r.Container(tv, KindList)
	if _, err := u.Unify(tv, listOfA, Substitution{}); err == nil {
		t.Fatalf("expected occurs-check failure unifying 'a with 'a list")
	}
}

func TestUnifySolvesFunctionArgAndResult(t *testing.T) {
	r := NewRegistry()
	u := NewUnifier(r)
	a := r.Var("a")
	fnType := r.Fn(a, a)
	concrete := r.Fn(r.PrimType(Int), r.PrimType(Int))
	sub, err := u.Unify(fnType, concrete, Substitution{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Apply(a, r) != r.PrimType(Int) {
		t.Fatalf("expected 'a bound to int, got %s", sub.Apply(a, r))
	}
}

func TestUnifyRejectsMismatchedPrimitives(t *testing.T) {
	r := NewRegistry()
	u := NewUnifier(r)
	if _, err := u.Unify(r.PrimType(Int), r.PrimType(Bool), Substitution{}); err == nil {
		t.Fatalf("expected int/bool unification to fail")
	}
}

func TestGeneralizeAndInstantiateRoundTrip(t *testing.T) {
	r := NewRegistry()
	env := NewEnv()
	tv := r.Var("a")
	idType := r.Fn(tv, tv)
	scheme := Generalize(env, idType, r)
	if len(scheme.Vars) != 1 {
		t.Fatalf("expected 'a to generalize, got vars=%v", scheme.Vars)
	}
	counter := 0
	fresh := func() Type {
		counter++
		return r.Var(fmtFreshName(counter))
	}
	inst1 := Instantiate(scheme, r, fresh)
	inst2 := Instantiate(scheme, r, fresh)
	if inst1 == inst2 {
		t.Fatalf("expected two instantiations to produce distinct fresh type variables")
	}
}

func fmtFreshName(n int) string {
	return "t" + string(rune('0'+n))
}

func TestEnvExtendIsPersistent(t *testing.T) {
	e0 := NewEnv()
	e1 := e0.Extend("x", Mono(&TPrim{Kind: Int}))
	if _, ok := e0.Lookup("x"); ok {
		t.Fatalf("expected base env to be unaffected by Extend")
	}
	if s, ok := e1.Lookup("x"); !ok || s.Body.(*TPrim).Kind != Int {
		t.Fatalf("expected extended env to see x bound to int")
	}
}
