package foreign

import (
	"testing"

	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/types"
)

func TestRegistryResolvesEnvProvider(t *testing.T) {
	r := NewRegistry()
	providers, err := r.Resolve([]string{"env"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(providers) != 1 || providers[0].BindingName() != "env" {
		t.Fatalf("expected the env provider, got %v", providers)
	}
}

func TestRegistryResolveUnknownProvider(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Resolve([]string{"nope"}); err == nil {
		t.Fatalf("expected an error for an unknown provider name")
	}
}

func TestEnvProviderTypeAndCtors(t *testing.T) {
	p := EnvProvider{}
	reg := types.NewRegistry()
	scheme := p.Type(reg)
	if scheme.Body.String() == "" {
		t.Fatalf("expected a non-empty type for env")
	}

	ctors := p.Ctors(reg)
	if _, ok := ctors["NONE"]; !ok {
		t.Fatalf("expected NONE constructor binding")
	}
	if _, ok := ctors["SOME"]; !ok {
		t.Fatalf("expected SOME constructor binding")
	}
}

func TestEnvProviderValueLooksUpRealVariables(t *testing.T) {
	t.Setenv("LOOM_FOREIGN_TEST_VAR", "hello")
	p := EnvProvider{}
	b, ok := p.Value().(*eval.Builtin)
	if !ok {
		t.Fatalf("expected env to be a builtin function, got %T", p.Value())
	}
	got, err := b.Fn(eval.Str("LOOM_FOREIGN_TEST_VAR"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := got.(*eval.Constructed)
	if !ok || c.Ctor != "SOME" || c.Arg != eval.Str("hello") {
		t.Fatalf("expected SOME \"hello\", got %v", got)
	}
}
