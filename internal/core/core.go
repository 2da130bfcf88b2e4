// Package core defines Loom's typed core intermediate representation: the
// desugared, fully-resolved form that internal/lower produces from the
// surface AST and internal/eval interprets directly. Every node carries
// its resolved type and source position.
package core

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/types"
)

// Node is any core IR node.
type Node interface {
	Position() ast.Pos
	ResolvedType() types.Type
}

type base struct {
	Pos ast.Pos
	Typ types.Type
}

func (b base) Position() ast.Pos        { return b.Pos }
func (b base) ResolvedType() types.Type { return b.Typ }

// Expr is any core expression.
type Expr interface {
	Node
	exprNode()
}

// Lit is a literal value, already converted to its runtime representation
// at lowering time (so the evaluator never re-parses literal text).
type Lit struct {
	base
	Value any // bool, int64, float64, rune, string, or nil for unit
}

func (*Lit) exprNode() {}

// Id is a bound-variable reference.
type Id struct {
	base
	Name string
}

func (*Id) exprNode() {}

// Ctor is a reference to a (possibly partially applied) datatype
// constructor, resolved to its declaring datatype at lowering time.
type Ctor struct {
	base
	Name string
}

func (*Ctor) exprNode() {}

// Fn is a single-argument lambda. Every surface `fn`/`fun` — including
// multi-clause and multi-argument ones — lowers to nested single-argument
// Fns wrapping a Case over the argument, mirroring how the core
// typechecks function application one argument at a time.
type Fn struct {
	base
	Param string
	Arms  []Match // exactly one arm for a plain `fn x => e`, >1 for pattern-matching lambdas
}

func (*Fn) exprNode() {}

// Match is one core-level pattern/body arm, shared by Fn and Case.
type Match struct {
	Pat  Pattern
	Body Expr
}

// If is a conditional; `andalso`/`orelse`/`implies` lower to If rather
// than to function calls so they keep their short-circuit semantics.
type If struct {
	base
	Cond, Then, Else Expr
}

func (*If) exprNode() {}

// Construct builds a value of a declared datatype by applying a
// constructor to Arg (nil for a nullary constructor), resolved at
// lowering time rather than treated as ordinary function application.
type Construct struct {
	base
	Ctor string
	Arg  Expr
}

func (*Construct) exprNode() {}

// Apply is function application.
type Apply struct {
	base
	Fn, Arg Expr
}

func (*Apply) exprNode() {}

// Let is a (possibly recursive, possibly multi-binding) local binding,
// lowered from `let`, `val`, and desugared `fun`.
type Let struct {
	base
	Rec   bool
	Binds []LetBind
	Body  Expr
}

func (*Let) exprNode() {}

// LetBind is one name/value pair of a Let.
type LetBind struct {
	Name   string
	Scheme *types.Scheme
	Value  Expr
}

// Case pattern-matches Scrutinee against Arms in order; non-exhaustive
// and redundant arms have already been diagnosed by internal/lower before
// a Case reaches the evaluator.
type Case struct {
	base
	Scrutinee Expr
	Arms      []Match
}

func (*Case) exprNode() {}

// Tuple is a product value of arity >= 2.
type Tuple struct {
	base
	Elems []Expr
}

func (*Tuple) exprNode() {}

// RecordField is one label/expr pair of a Record, already in canonical
// label order.
type RecordField struct {
	Label string
	Value Expr
}

// Record builds a record value, optionally by copying Base and replacing
// the listed fields (the lowered form of `{e with ...}`).
type Record struct {
	base
	Fields []RecordField
	Base   Expr // nil unless this is a functional update
}

func (*Record) exprNode() {}

// RecordSel projects a single field out of a record.
type RecordSel struct {
	base
	Label  string
	Record Expr
}

func (*RecordSel) exprNode() {}

// ContainerKind mirrors types.ContainerKind/eval.ContainerKind at the
// core IR level.
type ContainerKind int

const (
	KindList ContainerKind = iota
	KindBag
	KindVector
)

// ContainerLit builds a list/bag/vector literal.
type ContainerLit struct {
	base
	Elems []Expr
	Kind  ContainerKind
}

func (*ContainerLit) exprNode() {}

// Raise raises a user exception (a constructed value of the exception
// datatype), lowered from non-exhaustive `case`/`let` fallthrough and
// from explicit `raise`.
type Raise struct {
	base
	Exn Expr
}

func (*Raise) exprNode() {}

// Handle evaluates Body, and on a raised exception matching one of Arms,
// evaluates that arm's body instead; an unmatched exception re-raises.
type Handle struct {
	base
	Body Expr
	Arms []Match
}

func (*Handle) exprNode() {}

// Pipeline is a relational `from`/`exists`/`forall` pipeline, lowered to
// an explicit step list consumed by internal/eval's relational
// interpreter; it is never handed to a relational Adapter.
type Pipeline struct {
	base
	Steps []Step
	Kind  PipelineKind
	// Require is only set when Kind == PipelineForall.
	Require Expr
}

func (*Pipeline) exprNode() {}

// PipelineKind distinguishes from/exists/forall, which share the same
// step vocabulary but differ in how the evaluator folds the result.
type PipelineKind int

const (
	PipelineFrom PipelineKind = iota
	PipelineExists
	PipelineForall
)

// Step is one stage of a lowered relational pipeline.
type Step interface {
	stepNode()
}

type ScanStep struct {
	Pat    Pattern
	Source Expr
	On     Expr // nil unless this scan follows another and has an `on` clause
}

func (ScanStep) stepNode() {}

type WhereStep struct{ Cond Expr }

func (WhereStep) stepNode() {}

type GroupStep struct {
	Key     Expr
	Compute Expr // nil if no `compute` clause
}

func (GroupStep) stepNode() {}

type OrderStep struct{ Key Expr }

func (OrderStep) stepNode() {}

type TakeStep struct{ N Expr }

func (TakeStep) stepNode() {}

type SkipStep struct{ N Expr }

func (SkipStep) stepNode() {}

type YieldStep struct{ Expr Expr }

func (YieldStep) stepNode() {}

type IntoStep struct{ Expr Expr }

func (IntoStep) stepNode() {}

type ThroughStep struct {
	Pat  Pattern
	Expr Expr
}

func (ThroughStep) stepNode() {}

type SetOpKind int

const (
	SetUnion SetOpKind = iota
	SetIntersect
	SetExcept
)

type SetOpStep struct {
	Kind     SetOpKind
	Distinct bool
	Sources  []Expr
}

func (SetOpStep) stepNode() {}

type DistinctStep struct{}

func (DistinctStep) stepNode() {}

type UnorderStep struct{}

func (UnorderStep) stepNode() {}

type ComputeStep struct{ Expr Expr }

func (ComputeStep) stepNode() {}
