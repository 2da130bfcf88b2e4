// Package datalog implements the embedded deductive-query frontend: it
// parses a small Datalog dialect, checks declaration/arity/safety/
// stratification constraints, and translates the program into a Loom
// `let`-expression (the surface ast.Expr feeding the ordinary resolve/
// lower/eval pipeline) rather than evaluating tuples itself.
package datalog

import "github.com/loomlang/loom/internal/ast"

// Pos is a point in a Datalog source file.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) toAST() ast.Pos { return ast.Pos{File: p.File, Line: p.Line, Col: p.Col} }

// Program is a whole parsed Datalog source unit.
type Program struct {
	Decls   []*RelDecl
	Inputs  []*InputDirective
	Outputs []*OutputDirective
	Facts   []*Fact
	Rules   []*Rule
}

// ParamType is the declared type of one relation parameter. Only scalar
// types are supported; they drive .input CSV column coercion and const
// literal checking, not full type inference (that happens once the
// translated program reaches the resolver).
type ParamType int

const (
	TypeInt ParamType = iota
	TypeString
	TypeBool
)

func (t ParamType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	default:
		return "?"
	}
}

// Param is one declared relation parameter.
type Param struct {
	Name string
	Type ParamType
}

// RelDecl is `.decl name(p1: type1, p2: type2).`.
type RelDecl struct {
	Name   string
	Params []Param
	Pos    Pos
}

// InputDirective is `.input name("file.csv").`.
type InputDirective struct {
	Relation string
	File     string
	Pos      Pos
}

// OutputDirective is `.output name.`.
type OutputDirective struct {
	Relation string
	Pos      Pos
}

// ConstKind tags the kind of a ground constant.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstString
	ConstBool
)

// Const is a ground value appearing in a fact or as a term.
type Const struct {
	Kind  ConstKind
	Int   int64
	Str   string
	Bool  bool
}

// Fact is `relation(const1, const2, ...).`.
type Fact struct {
	Relation string
	Args     []Const
	Pos      Pos
}

// Term is either a variable reference or a ground constant. A Term with
// Var == "" is a constant.
type Term struct {
	Var   string
	Const Const
}

// Atom is `relation(term1, term2, ...)`.
type Atom struct {
	Relation string
	Args     []Term
	Pos      Pos
}

// Comparison is `lhs op rhs` for op in {=, <>, <, <=, >, >=}, valid only
// in a rule body.
type Comparison struct {
	Op  string
	Lhs Term
	Rhs Term
	Pos Pos
}

// BodyLit is one literal of a rule body: a positive atom, a negated atom
// (Negated == true), or a comparison (Cmp != nil).
type BodyLit struct {
	Atom    *Atom
	Negated bool
	Cmp     *Comparison
}

// Rule is `head :- lit1, lit2, ..., litN.`.
type Rule struct {
	Head *Atom
	Body []BodyLit
	Pos  Pos
}
