package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/datalog"
	"github.com/loomlang/loom/internal/env"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/parser"
)

const phase = "pipeline"

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// ParseStatement parses one `;`-terminated statement the way the REPL's
// ACCUMULATE -> PARSE transition does, reporting every syntax error
// found as a single Report (the first one; internal/parser collects the
// rest so a caller wanting all of them can still reach p.Errors(), but
// the REPL only ever shows the first per spec's one-report-per-statement
// contract).
func ParseStatement(src, file string) (ast.Decl, error) {
	p := parser.New(src, file)
	d := p.ParseOneStatement()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, parseReport(file, errs[0])
	}
	return d, nil
}

// ParseProgramSource parses a whole file's worth of statements.
func ParseProgramSource(src, file string) (*ast.Program, error) {
	p := parser.New(src, file)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, parseReport(file, errs[0])
	}
	return prog, nil
}

func parseReport(file string, pe *parser.ParseError) error {
	span := ast.Span{Start: pe.Pos, End: pe.Pos}
	return errors.WrapReport(errors.New(phase, errors.PAR001, span, pe.Message))
}

// RunSource compiles and runs an entire source string as a batch
// program: every statement it contains, in order, threaded through one
// growing session. It is used both for `use "file"` (ordinary Language
// source) and for the top-level script a non-interactive CLI invocation
// loads.
func (p *Pipeline) RunSource(src, file string, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	prog, err := ParseProgramSource(src, file)
	if err != nil {
		return sess, nil, nil, err
	}
	return p.RunProgram(file, prog, sess)
}

// UseFile loads path as a `use` sub-shell: a `.dl` file is compiled and
// translated through internal/datalog and run as a single implicit
// expression statement bound to `it`; anything else is read as ordinary
// Language source and run statement by statement. depth is the current
// `use` nesting depth and maxDepth the configured limit (negative means
// unbounded); exceeding it reports SES001 without ever opening the
// file, using the "Too many open files" framing for runaway `use`
// recursion.
func (p *Pipeline) UseFile(path string, depth, maxDepth int, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	if maxDepth >= 0 && depth > maxDepth {
		pos := ast.Pos{File: path, Line: 1, Col: 1}
		rep := errors.New(phase, errors.SES001, ast.Span{Start: pos, End: pos},
			fmt.Sprintf("use %q: Io: openIn failed … Too many open files", path))
		return sess, nil, nil, errors.WrapReport(rep)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		pos := ast.Pos{File: path, Line: 1, Col: 1}
		rep := errors.New(phase, errors.SES002, ast.Span{Start: pos, End: pos}, fmt.Sprintf("use %q: %v", path, err))
		return sess, nil, nil, errors.WrapReport(rep)
	}

	if strings.EqualFold(filepath.Ext(path), ".dl") {
		return p.runDatalogFile(string(data), path, sess)
	}
	return p.RunSource(string(data), path, sess)
}

// ParseUseDirective recognizes a `use "PATH"` statement, the one piece
// of REPL-driver syntax that isn't part of the core
// grammar internal/lexer and internal/parser implement: the Language
// proper has no `use` keyword, so the REPL/pipeline layer spots the
// pattern textually, the same way it spots a `:`-prefixed command,
// before ever handing the statement to the parser.
func ParseUseDirective(stmt string) (path string, ok bool) {
	s := strings.TrimSpace(stmt)
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "use") || len(s) == len("use") || !isSpace(rune(s[len("use")])) {
		return "", false
	}
	rest := strings.TrimSpace(s[len("use"):])
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", false
	}
	return rest[1 : len(rest)-1], true
}

func (p *Pipeline) runDatalogFile(src, path string, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	prog, ana, err := datalog.Compile(src, path, filepath.Dir(path))
	if err != nil {
		return sess, nil, nil, err
	}
	expr, err := datalog.Translate(prog, ana)
	if err != nil {
		return sess, nil, nil, err
	}
	decl := &ast.ExprDecl{Expr: expr, Pos: expr.Position()}
	return p.RunDecl(path, decl, sess)
}
