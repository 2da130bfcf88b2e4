package errors

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/loomlang/loom/internal/ast"
)

// Report is the canonical structured error value produced by every phase
// of the pipeline (lexer, parser, resolver, lowering, evaluator,
// relational adapters, the Datalog frontend).
type Report struct {
	Schema   string         `json:"schema"` // always "loom.error/v1"
	Code     string         `json:"code"`
	Phase    string         `json:"phase"`
	Message  string         `json:"message"`
	Span     *ast.Span      `json:"span,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	RaisedAt *ast.Pos       `json:"raised_at,omitempty"` // position of the exception-raising site, for runtime errors
}

// ReportError wraps a Report so it survives errors.As unwrapping through
// ordinary Go error-handling code.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts the *Report carried by an error chain, if any.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps a Report as an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// New builds a Report for the given phase/code/position/message.
func New(phase, code string, span ast.Span, message string) *Report {
	s := span
	return &Report{Schema: "loom.error/v1", Code: code, Phase: phase, Message: message, Span: &s}
}

// NewGeneric wraps a plain Go error with no position information.
func NewGeneric(phase string, err error) *Report {
	return &Report{Schema: "loom.error/v1", Code: RUNTIME, Phase: phase, Message: err.Error()}
}

// WithData attaches structured data to the report and returns it, for
// chaining at the call site.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// ToJSON renders the report for machine consumption (the `--format json`
// REPL mode and scripting tools that want structured diagnostics).
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		b, err := json.Marshal(r)
		return string(b), err
	}
	b, err := json.MarshalIndent(r, "", "  ")
	return string(b), err
}

// Render formats the report the way the REPL prints it to the terminal:
//
//	stdIn:3.1-3.12 Error: unbound identifier 'foo'
//	  raised at: stdIn:3.5
//
// the second line is only present for runtime errors that carry a raise
// site distinct from the reported span.
func (r *Report) Render() string {
	loc := "?"
	if r.Span != nil {
		loc = formatSpan(*r.Span)
	}
	out := fmt.Sprintf("%s Error: %s", loc, r.Message)
	if r.RaisedAt != nil {
		out += fmt.Sprintf("\n  raised at: %s", r.RaisedAt)
	}
	return out
}

func formatSpan(s ast.Span) string {
	return fmt.Sprintf("%s:%d.%d-%d.%d", s.Start.File, s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}
