package resolve

import (
	"strings"
	"testing"

	"github.com/loomlang/loom/internal/parser"
	"github.com/loomlang/loom/internal/types"
)

func inferSrc(t *testing.T, src string) (string, error) {
	t.Helper()
	p := parser.New(src, "test")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors())
	}
	reg := types.NewRegistry()
	r := New(reg, "test")
	env := BaseTypeEnv(reg)
	_, results, err := r.InferDecl(prog.Decls[0], env)
	if err != nil {
		return "", err
	}
	return r.Apply(results[0].Type).String(), nil
}

func TestInferSimpleArithmetic(t *testing.T) {
	got, err := inferSrc(t, "val x = 1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "int" {
		t.Fatalf("expected int, got %s", got)
	}
}

func TestInferIdentityFunctionIsPolymorphic(t *testing.T) {
	got, err := inferSrc(t, "val id = fn x => x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parts := strings.Split(got, " -> ")
	if len(parts) != 2 || parts[0] != parts[1] || !strings.HasPrefix(parts[0], "'") {
		t.Fatalf("expected 'a -> 'a for the identity function, got %s", got)
	}
}

func TestInferUnboundIdentifierFails(t *testing.T) {
	_, err := inferSrc(t, "val x = y")
	if err == nil {
		t.Fatalf("expected an unbound-identifier error")
	}
}

func TestInferIfBranchMismatchFails(t *testing.T) {
	_, err := inferSrc(t, `val x = if true then 1 else "no"`)
	if err == nil {
		t.Fatalf("expected a type mismatch error between int and string")
	}
}

func TestInferListHomogeneity(t *testing.T) {
	got, err := inferSrc(t, "val xs = [1, 2, 3]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "int list" {
		t.Fatalf("expected 'int list', got %s", got)
	}
}

func inferProgram(t *testing.T, src string) (*Resolver, *types.Env, []NamedType, error) {
	t.Helper()
	p := parser.New(src, "test")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors())
	}
	reg := types.NewRegistry()
	r := New(reg, "test")
	env := BaseTypeEnv(reg)
	var all []NamedType
	for _, d := range prog.Decls {
		next, results, err := r.InferDecl(d, env)
		if err != nil {
			return r, env, all, err
		}
		env = next
		all = append(all, results...)
	}
	return r, env, all, nil
}

func TestInferRecordUpdateKeepsBaseFields(t *testing.T) {
	r, _, results, err := inferProgram(t, `val p = {x=1, y=2, name="a"}; val q = {p with x = 3};`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Apply(results[len(results)-1].Type).String()
	if got != "{name: string, x: int, y: int}" {
		t.Fatalf("expected the update to keep every base field, got %s", got)
	}
}

func TestInferRecordUpdateUnknownFieldFails(t *testing.T) {
	_, _, _, err := inferProgram(t, `val p = {x=1}; val q = {p with y = 2};`)
	if err == nil {
		t.Fatalf("expected an error updating a field the base record doesn't have")
	}
}

func TestInferRecursiveFunction(t *testing.T) {
	p := parser.New("fun fact n = if n = 0 then 1 else n * fact (n - 1)", "test")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	reg := types.NewRegistry()
	r := New(reg, "test")
	env := BaseTypeEnv(reg)
	_, results, err := r.InferDecl(prog.Decls[0], env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := r.Apply(results[0].Type).String()
	if got != "int -> int" {
		t.Fatalf("expected 'int -> int', got %s", got)
	}
}
