// Package relational defines the pluggable backend interface for the
// relational `from`/`exists`/`forall` pipeline: an adapter translates a
// pipeline (or a prefix of one) into a backend-native query plan.
// internal/eval holds an installed Adapter but never calls it; every
// pipeline runs on the evaluator's own interpreter.
package relational

import "github.com/loomlang/loom/internal/core"

// Row is a backend-agnostic tuple: a label->value map using only the
// scalar/nested-Row/[]Row shapes an adapter's backend can represent.
// internal/eval converts between Row and eval.Value at the boundary, so
// this package never needs to depend on eval.
type Row map[string]any

// Plan is an opaque, adapter-specific compiled query; only the adapter
// that produced a Plan knows how to Run it.
type Plan any

// Adapter is the interface a relational backend implements. Nothing in
// the core evaluator requires an Adapter: a core.Pipeline is fully
// evaluable without one. Most surface programs should work unmodified
// whether or not an Adapter is installed; only well-formed-but-untranslatable
// constructs (an aggregate the backend doesn't support, a foreign source
// the backend can't see) are allowed to force the fallback path.
type Adapter interface {
	// Translate attempts to compile steps into a backend-native Plan. It
	// returns ok=false if any part of the pipeline cannot be pushed down,
	// in which case the caller must evaluate the whole pipeline itself.
	Translate(steps []core.Step) (Plan, bool)

	// Run executes a Plan built by Translate, yielding result rows.
	Run(plan Plan) ([]Row, error)

	// RegisterForeign makes an in-memory relation available to the
	// backend under name, so Translate can reference it as a source (for
	// example materializing a Loom list into a scratch SQL table before
	// pushing a `where`/`yield` down to it).
	RegisterForeign(name string, rows []Row) error
}

// Noop is the default adapter: it declines to translate anything, so the
// evaluator always uses its own in-process iterator. It exists so
// wiring an Adapter is optional configuration, not a hard dependency.
type Noop struct{}

func (Noop) Translate([]core.Step) (Plan, bool)      { return nil, false }
func (Noop) Run(Plan) ([]Row, error)                 { return nil, nil }
func (Noop) RegisterForeign(string, []Row) error     { return nil }
