package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loomlang/loom/internal/env"
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/resolve"
	"github.com/loomlang/loom/internal/types"
)

func newSession() (*Pipeline, *env.Session) {
	reg := types.NewRegistry()
	p := New(reg, eval.New(), 64)
	sess := env.New(resolve.BaseTypeEnv(reg), eval.BaseEnv())
	return p, sess
}

func TestRunDeclSimpleVal(t *testing.T) {
	p, sess := newSession()
	d, err := ParseStatement("val x = 1 + 2;", "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sess, binds, _, err := p.RunDecl("test", d, sess)
	if err != nil {
		t.Fatalf("RunDecl: %v", err)
	}
	if len(binds) != 1 || binds[0].Name != "x" {
		t.Fatalf("expected one binding named x, got %v", binds)
	}
	if binds[0].Value.(eval.Int) != 3 {
		t.Fatalf("expected x = 3, got %v", binds[0].Value)
	}
	if _, ok := sess.Lookup("x"); !ok {
		t.Fatalf("expected x bound in the resulting session")
	}
}

func TestRunDeclRecursiveFun(t *testing.T) {
	p, sess := newSession()
	d, err := ParseStatement("fun fact n = if n = 0 then 1 else n * fact (n - 1);", "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sess, binds, _, err := p.RunDecl("test", d, sess)
	if err != nil {
		t.Fatalf("RunDecl: %v", err)
	}
	if len(binds) != 1 || binds[0].Name != "fact" {
		t.Fatalf("expected one binding named fact, got %v", binds)
	}
	if _, ok := sess.Lookup("fact"); !ok {
		t.Fatalf("expected fact bound")
	}
}

func TestRunDeclDatatypeThenConstructorUse(t *testing.T) {
	p, sess := newSession()
	dt, err := ParseStatement("datatype color = RED | GREEN | BLUE;", "test")
	if err != nil {
		t.Fatalf("parse datatype: %v", err)
	}
	sess, _, _, err = p.RunDecl("test", dt, sess)
	if err != nil {
		t.Fatalf("RunDecl datatype: %v", err)
	}

	use, err := ParseStatement("val c = RED;", "test")
	if err != nil {
		t.Fatalf("parse use: %v", err)
	}
	_, binds, _, err := p.RunDecl("test", use, sess)
	if err != nil {
		t.Fatalf("RunDecl use: %v", err)
	}
	if len(binds) != 1 || binds[0].Name != "c" {
		t.Fatalf("expected one binding named c, got %v", binds)
	}
}

func TestRunProgramHoistsDatatypesBeforeUse(t *testing.T) {
	p, sess := newSession()
	prog, err := ParseProgramSource(`
val c = RED;
datatype color = RED | GREEN | BLUE;
`, "test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sess, binds, _, err := p.RunProgram("test", prog, sess)
	if err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	found := false
	for _, b := range binds {
		if b.Name == "c" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected c to be bound even though its datatype was declared later in the file")
	}
	if _, ok := sess.Lookup("color"); ok {
		t.Fatalf("did not expect a runtime binding named after the datatype itself")
	}
}

func TestUseFileRunsOrdinarySource(t *testing.T) {
	p, sess := newSession()
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.loom")
	if err := os.WriteFile(path, []byte("val x = 41 + 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sess, _, _, err := p.UseFile(path, 0, -1, sess)
	if err != nil {
		t.Fatalf("UseFile: %v", err)
	}
	b, ok := sess.Lookup("x")
	if !ok || b.Value.(eval.Int) != 42 {
		t.Fatalf("expected x = 42, got %v (ok=%v)", b.Value, ok)
	}
}

func TestUseFileDepthExceeded(t *testing.T) {
	p, sess := newSession()
	_, _, _, err := p.UseFile("whatever.loom", 5, 3, sess)
	if err == nil {
		t.Fatal("expected a use-depth-exceeded error")
	}
}

func TestUseFileDispatchesDatalogExtension(t *testing.T) {
	p, sess := newSession()
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.dl")
	src := `
.decl edge(x: int, y: int).
edge(1, 2).
edge(2, 3).
.output edge.
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, binds, _, err := p.UseFile(path, 0, -1, sess)
	if err != nil {
		t.Fatalf("UseFile: %v", err)
	}
	if len(binds) != 1 || binds[0].Name != "it" {
		t.Fatalf("expected an `it` binding from the translated Datalog program, got %v", binds)
	}
}
