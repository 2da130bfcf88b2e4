package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestREPL(t *testing.T) *REPL {
	t.Helper()
	r, err := New(Config{MaxUseDepth: -1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRunDumbPrintsBinding(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	r.RunDumb(strings.NewReader("val x = 1 + 2;\n"), &out)
	if !strings.Contains(out.String(), "val x = 3 : int") {
		t.Fatalf("expected a val binding line, got %q", out.String())
	}
}

func TestRunDumbAccumulatesMultilineStatement(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	r.RunDumb(strings.NewReader("val y =\n  1 + \n  2;\n"), &out)
	if !strings.Contains(out.String(), "val y = 3 : int") {
		t.Fatalf("expected the accumulated statement to evaluate, got %q", out.String())
	}
}

func TestRunDumbReportsParseError(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	r.RunDumb(strings.NewReader("val = ;\n"), &out)
	if !strings.Contains(out.String(), "Error") {
		t.Fatalf("expected an error line, got %q", out.String())
	}
}

func TestRunDumbSessionPersistsAcrossStatements(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	r.RunDumb(strings.NewReader("val x = 10;\nval y = x + 5;\n"), &out)
	if !strings.Contains(out.String(), "val y = 15 : int") {
		t.Fatalf("expected y to see x from the prior statement, got %q", out.String())
	}
}

func TestHandleCommandHelp(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	done := r.handleCommand(":help", &out)
	if done {
		t.Fatal(":help should not terminate the session")
	}
	if !strings.Contains(out.String(), "Commands:") {
		t.Fatalf("expected help text, got %q", out.String())
	}
}

func TestHandleCommandQuit(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	if !r.handleCommand(":quit", &out) {
		t.Fatal(":quit should terminate the session")
	}
}

func TestHandleCommandUnknown(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	r.handleCommand(":bogus", &out)
	if !strings.Contains(out.String(), "unknown REPL command") {
		t.Fatalf("expected an unknown-command error, got %q", out.String())
	}
}

func TestTypeCommandDoesNotBindSession(t *testing.T) {
	r := newTestREPL(t)
	var out bytes.Buffer
	r.printType("1 + 2", &out)
	if !strings.Contains(out.String(), "int") {
		t.Fatalf("expected the probed type to mention int, got %q", out.String())
	}
	if _, ok := r.sess.Lookup("it"); ok {
		t.Fatal(":type must not bind `it` into the session")
	}
}

func TestUseDirectiveLoadsFile(t *testing.T) {
	r := newTestREPL(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.loom")
	if err := os.WriteFile(path, []byte("val z = 100;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	r.RunDumb(strings.NewReader(`use "`+path+`";`+"\n"), &out)
	if _, ok := r.sess.Lookup("z"); !ok {
		t.Fatalf("expected z bound after use, output: %q", out.String())
	}
}
