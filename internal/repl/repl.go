// Package repl implements the interactive driver: a
// READ_LINE -> ACCUMULATE -> PARSE -> TYPE -> LOWER -> EVAL -> PRINT
// loop over internal/pipeline, with `:`-prefixed commands, a
// `use "file"` sub-shell form, and `val NAME = VALUE : TYPE` /
// `stdIn:L.C-L.C Error: MESSAGE` rendering.
//
// Line editing and history come from github.com/peterh/liner and colored
// output from github.com/fatih/color; `--terminal=dumb` swaps liner for a
// plain bufio.Scanner loop so the REPL can run against a piped, non-tty
// stdin (and so this package's tests can drive it without a real
// terminal).
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/loomlang/loom/internal/env"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/foreign"
	"github.com/loomlang/loom/internal/pipeline"
	"github.com/loomlang/loom/internal/relational/sqlite"
	"github.com/loomlang/loom/internal/resolve"
	"github.com/loomlang/loom/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Config holds the `cmd/loom` CLI flags that shape a REPL session.
type Config struct {
	Banner      bool
	Terminal    string // "" (interactive) or "dumb"
	Echo        bool
	Foreign     []string
	Directory   string
	MaxUseDepth int // negative means unbounded
}

// REPL is one interactive session: the shared Pipeline state, the
// current Session (rebound after every successful statement), and the
// Config it was started with.
type REPL struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	sess     *env.Session
	useDepth int
}

// New builds a REPL, wiring the requested `--foreign` providers (and, if
// any of them is a foreign.CtorProvider, their constructor bindings)
// into the base type/value environment before the first statement runs.
func New(cfg Config) (*REPL, error) {
	reg := types.NewRegistry()
	typeEnv := resolve.BaseTypeEnv(reg)
	valueEnv := eval.BaseEnv()

	providers, err := foreign.NewRegistry().Resolve(cfg.Foreign)
	if err != nil {
		return nil, err
	}
	for _, p := range providers {
		typeEnv = typeEnv.Extend(p.BindingName(), p.Type(reg))
		valueEnv = valueEnv.Extend(p.BindingName(), p.Value())
		if cp, ok := p.(foreign.CtorProvider); ok {
			for name, scheme := range cp.Ctors(reg) {
				typeEnv = typeEnv.Extend(name, scheme)
			}
		}
	}

	ev := eval.New()
	if adapter, err := sqlite.New(); err == nil {
		ev.Adapter = adapter
	}

	return &REPL{
		cfg:      cfg,
		pipeline: pipeline.New(reg, ev, 256),
		sess:     env.New(typeEnv, valueEnv),
	}, nil
}

func (r *REPL) prompt(continuation bool) string {
	if continuation {
		return "= "
	}
	return "- "
}

// Start runs the REPL to completion, reading from os.Stdin (liner owns
// stdin directly in interactive mode; RunDumb takes an explicit reader
// for `--terminal=dumb` and for tests) and writing prompts, results, and
// errors to out.
func (r *REPL) Start(out io.Writer) {
	if r.cfg.Banner {
		fmt.Fprintf(out, "%s\n", bold("Loom"))
		fmt.Fprintln(out, dim("Type :help for help, :quit to exit."))
	}
	if r.cfg.Terminal == "dumb" {
		r.RunDumb(os.Stdin, out)
		return
	}
	r.runInteractive(out)
}

func (r *REPL) runInteractive(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)
	line.SetCompleter(func(s string) (c []string) {
		if !strings.HasPrefix(s, ":") {
			return nil
		}
		for _, cmd := range commandNames {
			if strings.HasPrefix(cmd, s) {
				c = append(c, cmd)
			}
		}
		return c
	})

	var buf strings.Builder
	for {
		input, err := line.Prompt(r.prompt(buf.Len() > 0))
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		line.AppendHistory(input)
		if r.feedLine(input, &buf, out) {
			return
		}
	}
}

// RunDumb drives the loop over an arbitrary io.Reader with no line
// editing, the path `--terminal=dumb` and this package's tests use.
func (r *REPL) RunDumb(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	for scanner.Scan() {
		if r.feedLine(scanner.Text(), &buf, out) {
			return
		}
	}
	if buf.Len() > 0 {
		fmt.Fprintln(out, red("Error: unterminated statement at end of input"))
	}
}

// feedLine appends one line of input to buf (the in-progress multiline
// statement), dispatching a `:`-command immediately or running the
// accumulated statement once it ends with `;`. It reports whether the
// session should terminate.
func (r *REPL) feedLine(input string, buf *strings.Builder, out io.Writer) (done bool) {
	trimmed := strings.TrimSpace(input)
	if buf.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ":") {
			return r.handleCommand(trimmed, out)
		}
	}

	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString(input)

	if !strings.HasSuffix(trimmed, ";") {
		return false
	}

	stmt := buf.String()
	buf.Reset()
	r.runStatement(stmt, out)
	return false
}

func (r *REPL) runStatement(stmt string, out io.Writer) {
	if r.cfg.Echo {
		fmt.Fprintln(out, dim(strings.TrimSpace(stmt)))
	}

	if path, ok := pipeline.ParseUseDirective(stmt); ok {
		r.runUse(path, out)
		return
	}

	sess, binds, warnings, err := r.pipeline.RunStatement("stdIn", stmt, r.sess)
	r.printWarnings(warnings, out)
	if err != nil {
		r.printError(err, out)
		return
	}
	r.sess = sess
	r.printBindings(binds, out)
}

func (r *REPL) runUse(path string, out io.Writer) {
	if r.cfg.Directory != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.Directory, path)
	}
	r.useDepth++
	sess, binds, warnings, err := r.pipeline.UseFile(path, r.useDepth, r.cfg.MaxUseDepth, r.sess)
	r.useDepth--
	r.printWarnings(warnings, out)
	if err != nil {
		r.printError(err, out)
		return
	}
	r.sess = sess
	r.printBindings(binds, out)
}

func (r *REPL) printBindings(binds []env.Binding, out io.Writer) {
	for _, b := range binds {
		ty := "?"
		if b.Scheme != nil && b.Scheme.Body != nil {
			ty = b.Scheme.Body.String()
		}
		fmt.Fprintf(out, "val %s = %s : %s\n", b.Name, b.Value.String(), ty)
	}
}

// printWarnings surfaces non-fatal diagnostics (TYP007 non-exhaustive
// match) ahead of the statement's own result: the warning prints first,
// then the binding or the runtime exception evaluating it produced.
func (r *REPL) printWarnings(warnings []*errors.Report, out io.Writer) {
	for _, w := range warnings {
		fmt.Fprintln(out, yellow(w.Render()))
	}
}

func (r *REPL) printError(err error, out io.Writer) {
	if rep, ok := errors.AsReport(err); ok {
		fmt.Fprintln(out, red(rep.Render()))
		return
	}
	fmt.Fprintf(out, "%s %s\n", red("Error:"), err)
}
