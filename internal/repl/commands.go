package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/pipeline"
)

const replPhase = "repl"

// parseTypeProbe parses EXPR as a `:type EXPR` argument: a bare
// expression, which internal/parser's top-level declaration grammar
// only accepts as the body of an ExprDecl statement (`EXPR;`), so a
// trailing `;` is added if the user didn't type one.
func parseTypeProbe(src string) (ast.Decl, error) {
	stmt := strings.TrimSpace(src)
	if !strings.HasSuffix(stmt, ";") {
		stmt += ";"
	}
	return pipeline.ParseStatement(stmt, "stdIn")
}

var commandNames = []string{":help", ":quit", ":type", ":env"}

// handleCommand dispatches a `:`-prefixed line. It reports whether the
// session should terminate.
func (r *REPL) handleCommand(line string, out io.Writer) bool {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := strings.TrimSpace(strings.TrimPrefix(line, cmd))

	switch cmd {
	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true

	case ":help", ":h", ":?":
		r.printHelp(out)
		return false

	case ":type":
		r.printType(arg, out)
		return false

	case ":env":
		r.printEnv(out)
		return false

	default:
		pos := ast.Pos{File: "stdIn", Line: 1, Col: 1}
		rep := errors.New(replPhase, errors.SES003, ast.Span{Start: pos, End: pos}, fmt.Sprintf("unknown REPL command %q", cmd))
		fmt.Fprintln(out, red(rep.Render()))
		return false
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  :help            show this message")
	fmt.Fprintln(out, "  :quit            exit the REPL")
	fmt.Fprintln(out, "  :type EXPR       print EXPR's principal type without evaluating it")
	fmt.Fprintln(out, "  :env             list every name currently bound, with its type")
	fmt.Fprintln(out, `  use "FILE"       run FILE as a sub-shell`)
}

func (r *REPL) printType(src string, out io.Writer) {
	if src == "" {
		fmt.Fprintln(out, red("Error: :type requires an expression"))
		return
	}
	decl, err := parseTypeProbe(src)
	if err != nil {
		r.printError(err, out)
		return
	}
	// :type only runs resolution, never lowering/evaluation, so it never
	// has a side effect on the session even for a `val`/`fun` declaration
	// typed experimentally at the prompt.
	_, named, err := r.pipeline.TypeOnly("stdIn", decl, r.sess)
	if err != nil {
		r.printError(err, out)
		return
	}
	for _, nt := range named {
		fmt.Fprintf(out, "%s : %s\n", nt.Name, nt.Type.String())
	}
}

func (r *REPL) printEnv(out io.Writer) {
	names := r.sess.Names()
	sort.Strings(names)
	for _, name := range names {
		b, ok := r.sess.Lookup(name)
		if !ok {
			continue
		}
		ty := "?"
		if b.Scheme != nil && b.Scheme.Body != nil {
			ty = b.Scheme.Body.String()
		}
		fmt.Fprintf(out, "%s : %s\n", name, ty)
	}
}
