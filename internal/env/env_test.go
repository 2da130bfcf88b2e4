package env

import (
	"testing"

	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/types"
)

func TestBindAndLookup(t *testing.T) {
	reg := types.NewRegistry()
	s := New(types.NewEnv(), eval.NewEnvironment())
	s = s.Bind(Binding{Name: "x", Scheme: types.Mono(reg.PrimType(types.Int)), Value: eval.Int(5)})

	got, ok := s.Lookup("x")
	if !ok {
		t.Fatalf("expected x to be bound")
	}
	if got.Value.(eval.Int) != 5 {
		t.Fatalf("expected value 5, got %v", got.Value)
	}
	if got.Scheme.Body != reg.PrimType(types.Int) {
		t.Fatalf("expected int scheme")
	}
}

func TestLookupMissing(t *testing.T) {
	s := New(types.NewEnv(), eval.NewEnvironment())
	if _, ok := s.Lookup("nope"); ok {
		t.Fatalf("expected lookup of unbound name to fail")
	}
}

func TestBindAllSharesOneLayer(t *testing.T) {
	reg := types.NewRegistry()
	s := New(types.NewEnv(), eval.NewEnvironment())
	s = s.BindAll([]Binding{
		{Name: "even", Scheme: types.Mono(reg.Fn(reg.PrimType(types.Int), reg.PrimType(types.Bool)))},
		{Name: "odd", Scheme: types.Mono(reg.Fn(reg.PrimType(types.Int), reg.PrimType(types.Bool)))},
	})
	if _, ok := s.Lookup("even"); !ok {
		t.Fatalf("expected even to be bound")
	}
	if _, ok := s.Lookup("odd"); !ok {
		t.Fatalf("expected odd to be bound")
	}
}
