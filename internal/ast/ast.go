// Package ast defines the untyped surface syntax tree for Loom.
//
// Every node carries a Pos so that later phases (the type resolver, the
// lowering resolver, the evaluator) can attach a source location to any
// diagnostic they raise. Nodes are immutable once built by the parser.
package ast

import (
	"fmt"
	"strings"
)

// Node is the interface every AST node satisfies.
type Node interface {
	String() string
	Position() Pos
}

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Col    int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d.%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d.%d", p.File, p.Line, p.Col)
}

// Span is a half-open range between two positions, used for error messages
// that report "L.C-L.C" ranges.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d.%d-%d.%d", s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
	}
	return fmt.Sprintf("%d.%d-%d.%d", s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is any pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Decl is any top-level or let-bound declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr is any surface type expression.
type TypeExpr interface {
	Node
	typeNode()
}

// FromStep is one step of a relational `from` pipeline.
type FromStep interface {
	Node
	fromStepNode()
}

// Program is a whole parsed compilation unit: a sequence of top-level
// declarations and statements, terminated by ';' or EOF, as read by the
// REPL driver or a `use`d file.
type Program struct {
	Decls []Decl
	Pos   Pos
}

func (p *Program) Position() Pos { return p.Pos }
func (p *Program) String() string {
	parts := make([]string, len(p.Decls))
	for i, d := range p.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, ";\n")
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// LitKind tags the kind of a literal.
type LitKind int

const (
	LitUnit LitKind = iota
	LitBool
	LitInt
	LitReal
	LitChar
	LitString
)

// Lit is a literal constant.
type Lit struct {
	Kind  LitKind
	Value interface{}
	Pos   Pos
}

func (l *Lit) exprNode() {}
func (l *Lit) Position() Pos { return l.Pos }
func (l *Lit) String() string {
	switch l.Kind {
	case LitUnit:
		return "()"
	case LitString:
		return fmt.Sprintf("%q", l.Value)
	case LitChar:
		return fmt.Sprintf("#%q", l.Value)
	default:
		return fmt.Sprintf("%v", l.Value)
	}
}

// Id is a variable reference.
type Id struct {
	Name string
	Pos  Pos
}

func (i *Id) exprNode()      {}
func (i *Id) Position() Pos  { return i.Pos }
func (i *Id) String() string { return i.Name }

// RecordSel is the projection function `#label`, usable as a value
// (`#name`) or applied directly (`#name e`).
type RecordSel struct {
	Label string
	Pos   Pos
}

func (r *RecordSel) exprNode()      {}
func (r *RecordSel) Position() Pos  { return r.Pos }
func (r *RecordSel) String() string { return "#" + r.Label }

// UnaryOp is a prefix operator application: `~e` (negation) or `not e`.
type UnaryOp struct {
	Op      string
	Operand Expr
	Pos     Pos
}

func (u *UnaryOp) exprNode()      {}
func (u *UnaryOp) Position() Pos  { return u.Pos }
func (u *UnaryOp) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Operand) }

// If is a conditional expression.
type If struct {
	Cond, Then, Else Expr
	Pos              Pos
}

func (i *If) exprNode()     {}
func (i *If) Position() Pos { return i.Pos }
func (i *If) String() string {
	return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
}

// Let is `let decls in body end`.
type Let struct {
	Decls []Decl
	Body  Expr
	Pos   Pos
}

func (l *Let) exprNode()     {}
func (l *Let) Position() Pos { return l.Pos }
func (l *Let) String() string {
	ds := make([]string, len(l.Decls))
	for i, d := range l.Decls {
		ds[i] = d.String()
	}
	return fmt.Sprintf("let %s in %s end", strings.Join(ds, "; "), l.Body)
}

// Match is one arm of a `fn`/`case`.
type Match struct {
	Pat  Pattern
	Body Expr
}

func (m Match) String() string { return fmt.Sprintf("%s => %s", m.Pat, m.Body) }

// Fn is an anonymous function, `fn p1 => e1 | p2 => e2 | ...`.
type Fn struct {
	Matches []Match
	Pos     Pos
}

func (f *Fn) exprNode()     {}
func (f *Fn) Position() Pos { return f.Pos }
func (f *Fn) String() string {
	parts := make([]string, len(f.Matches))
	for i, m := range f.Matches {
		parts[i] = m.String()
	}
	return "fn " + strings.Join(parts, " | ")
}

// Apply is function application `fn arg`.
type Apply struct {
	Fn, Arg Expr
	Pos     Pos
}

func (a *Apply) exprNode()      {}
func (a *Apply) Position() Pos  { return a.Pos }
func (a *Apply) String() string { return fmt.Sprintf("(%s %s)", a.Fn, a.Arg) }

// Case is `case scrutinee of p1 => e1 | p2 => e2 | ...`.
type Case struct {
	Scrutinee Expr
	Matches   []Match
	Pos       Pos
}

func (c *Case) exprNode()     {}
func (c *Case) Position() Pos { return c.Pos }
func (c *Case) String() string {
	parts := make([]string, len(c.Matches))
	for i, m := range c.Matches {
		parts[i] = m.String()
	}
	return fmt.Sprintf("case %s of %s", c.Scrutinee, strings.Join(parts, " | "))
}

// Tuple is `(e1, e2, ...)`, arity >= 2.
type Tuple struct {
	Elems []Expr
	Pos   Pos
}

func (t *Tuple) exprNode()     {}
func (t *Tuple) Position() Pos { return t.Pos }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RecordField is one `label = expr` entry of a record literal or update.
type RecordField struct {
	Label string
	Value Expr
}

// Record is `{label1 = e1, label2 = e2, ...}`, optionally a functional
// update `{base with label = e, ...}` when With is non-nil.
type Record struct {
	Fields []RecordField
	With   Expr // non-nil for `{e with ...}`
	Pos    Pos
}

func (r *Record) exprNode()     {}
func (r *Record) Position() Pos { return r.Pos }
func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Label, f.Value)
	}
	if r.With != nil {
		return fmt.Sprintf("{%s with %s}", r.With, strings.Join(parts, ", "))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// List is `[e1, e2, ...]`.
type List struct {
	Elems []Expr
	Pos   Pos
}

func (l *List) exprNode()     {}
func (l *List) Position() Pos { return l.Pos }
func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// InfixCall is a binary operator application, kept distinct from Apply so
// the parser can record operator precedence/position without synthesizing
// an intermediate curried-application chain.
type InfixCall struct {
	Op       string
	Lhs, Rhs Expr
	Pos      Pos
}

func (b *InfixCall) exprNode()     {}
func (b *InfixCall) Position() Pos { return b.Pos }
func (b *InfixCall) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs)
}

// From is a relational pipeline: `from step1 step2 ...`.
type From struct {
	Steps []FromStep
	Pos   Pos
}

func (f *From) exprNode()     {}
func (f *From) Position() Pos { return f.Pos }
func (f *From) String() string {
	parts := make([]string, len(f.Steps))
	for i, s := range f.Steps {
		parts[i] = s.String()
	}
	return "from " + strings.Join(parts, " ")
}

// Exists is `exists step1 step2 ...`, sugar for `from ... into notEmpty`.
type Exists struct {
	Steps []FromStep
	Pos   Pos
}

func (e *Exists) exprNode()     {}
func (e *Exists) Position() Pos { return e.Pos }
func (e *Exists) String() string {
	return "exists " + (&From{Steps: e.Steps}).String()[len("from "):]
}

// Forall is `forall step1 step2 require e`.
type Forall struct {
	Steps   []FromStep
	Require Expr
	Pos     Pos
}

func (f *Forall) exprNode()     {}
func (f *Forall) Position() Pos { return f.Pos }
func (f *Forall) String() string {
	return fmt.Sprintf("forall ... require %s", f.Require)
}

// Annotated is `(e : ty)`.
type Annotated struct {
	Expr Expr
	Type TypeExpr
	Pos  Pos
}

func (a *Annotated) exprNode()     {}
func (a *Annotated) Position() Pos { return a.Pos }
func (a *Annotated) String() string {
	return fmt.Sprintf("(%s : %s)", a.Expr, a.Type)
}

// Aggregate is `f over e`, used inside `group ... compute` and `compute`
// steps, e.g. `count over e`, `sum over e`.
type Aggregate struct {
	Fn   Expr
	Over Expr
	Pos  Pos
}

func (a *Aggregate) exprNode()     {}
func (a *Aggregate) Position() Pos { return a.Pos }
func (a *Aggregate) String() string {
	return fmt.Sprintf("%s over %s", a.Fn, a.Over)
}

// TypeOf is the `typeof e` form: its type is the type of e, evaluated at
// inference time; e itself is never evaluated.
type TypeOf struct {
	Expr Expr
	Pos  Pos
}

func (t *TypeOf) typeNode()    {}
func (t *TypeOf) Position() Pos { return t.Pos }
func (t *TypeOf) String() string { return fmt.Sprintf("typeof %s", t.Expr) }

// ---------------------------------------------------------------------
// From-steps
// ---------------------------------------------------------------------

// Scan is `p in source [on e]`.
type Scan struct {
	Pat    Pattern
	Source Expr
	On     Expr // nil if absent
	Pos    Pos
}

func (s *Scan) fromStepNode()  {}
func (s *Scan) Position() Pos  { return s.Pos }
func (s *Scan) String() string {
	if s.On != nil {
		return fmt.Sprintf("%s in %s on %s", s.Pat, s.Source, s.On)
	}
	return fmt.Sprintf("%s in %s", s.Pat, s.Source)
}

// Where is a filter step.
type Where struct {
	Cond Expr
	Pos  Pos
}

func (w *Where) fromStepNode()  {}
func (w *Where) Position() Pos  { return w.Pos }
func (w *Where) String() string { return fmt.Sprintf("where %s", w.Cond) }

// Group is `group key [compute agg]`.
type Group struct {
	Key     Expr
	Compute Expr // nil if absent
	Pos     Pos
}

func (g *Group) fromStepNode() {}
func (g *Group) Position() Pos { return g.Pos }
func (g *Group) String() string {
	if g.Compute != nil {
		return fmt.Sprintf("group %s compute %s", g.Key, g.Compute)
	}
	return fmt.Sprintf("group %s", g.Key)
}

// Order is a sort step.
type Order struct {
	Key Expr
	Pos Pos
}

func (o *Order) fromStepNode()  {}
func (o *Order) Position() Pos  { return o.Pos }
func (o *Order) String() string { return fmt.Sprintf("order %s", o.Key) }

// Take is a bounded prefix step.
type Take struct {
	N   Expr
	Pos Pos
}

func (t *Take) fromStepNode()  {}
func (t *Take) Position() Pos  { return t.Pos }
func (t *Take) String() string { return fmt.Sprintf("take %s", t.N) }

// Skip is a bounded suffix step.
type Skip struct {
	N   Expr
	Pos Pos
}

func (s *Skip) fromStepNode()  {}
func (s *Skip) Position() Pos  { return s.Pos }
func (s *Skip) String() string { return fmt.Sprintf("skip %s", s.N) }

// Yield reshapes the current row.
type Yield struct {
	Expr Expr
	Pos  Pos
}

func (y *Yield) fromStepNode()  {}
func (y *Yield) Position() Pos  { return y.Pos }
func (y *Yield) String() string { return fmt.Sprintf("yield %s", y.Expr) }

// Into materializes the stream with a terminal function.
type Into struct {
	Expr Expr
	Pos  Pos
}

func (i *Into) fromStepNode()  {}
func (i *Into) Position() Pos  { return i.Pos }
func (i *Into) String() string { return fmt.Sprintf("into %s", i.Expr) }

// Through pipes the stream through a function and re-binds the pattern on
// the result rows.
type Through struct {
	Pat  Pattern
	Expr Expr
	Pos  Pos
}

func (t *Through) fromStepNode()  {}
func (t *Through) Position() Pos  { return t.Pos }
func (t *Through) String() string { return fmt.Sprintf("through %s in %s", t.Pat, t.Expr) }

// Join folds a scan into the preceding step as an explicit relational join.
type Join struct {
	Scans []*Scan
	Pos   Pos
}

func (j *Join) fromStepNode() {}
func (j *Join) Position() Pos { return j.Pos }
func (j *Join) String() string {
	parts := make([]string, len(j.Scans))
	for i, s := range j.Scans {
		parts[i] = s.String()
	}
	return "join " + strings.Join(parts, ", ")
}

// SetOpKind tags union/intersect/except.
type SetOpKind int

const (
	SetUnion SetOpKind = iota
	SetIntersect
	SetExcept
)

// SetOp is a `union/intersect/except [distinct] e1, e2, ...` step.
type SetOp struct {
	Kind     SetOpKind
	Distinct bool
	Sources  []Expr
	Pos      Pos
}

func (s *SetOp) fromStepNode() {}
func (s *SetOp) Position() Pos { return s.Pos }
func (s *SetOp) String() string {
	names := [...]string{"union", "intersect", "except"}
	parts := make([]string, len(s.Sources))
	for i, e := range s.Sources {
		parts[i] = e.String()
	}
	return fmt.Sprintf("%s %s", names[s.Kind], strings.Join(parts, ", "))
}

// Distinct removes duplicate rows by structural equality.
type Distinct struct{ Pos Pos }

func (d *Distinct) fromStepNode()  {}
func (d *Distinct) Position() Pos  { return d.Pos }
func (d *Distinct) String() string { return "distinct" }

// Unorder downgrades an ordered sequence back to an unordered bag.
type Unorder struct{ Pos Pos }

func (u *Unorder) fromStepNode()  {}
func (u *Unorder) Position() Pos  { return u.Pos }
func (u *Unorder) String() string { return "unorder" }

// Compute is an aggregate-only terminal step.
type Compute struct {
	Expr Expr
	Pos  Pos
}

func (c *Compute) fromStepNode()  {}
func (c *Compute) Position() Pos  { return c.Pos }
func (c *Compute) String() string { return fmt.Sprintf("compute %s", c.Expr) }

// Require asserts every row satisfies e; valid only inside `forall`.
type Require struct {
	Expr Expr
	Pos  Pos
}

func (r *Require) fromStepNode()  {}
func (r *Require) Position() Pos  { return r.Pos }
func (r *Require) String() string { return fmt.Sprintf("require %s", r.Expr) }

// ---------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------

// Wild is `_`.
type Wild struct{ Pos Pos }

func (w *Wild) patternNode()  {}
func (w *Wild) Position() Pos { return w.Pos }
func (w *Wild) String() string { return "_" }

// IdPat binds a fresh name.
type IdPat struct {
	Name string
	Pos  Pos
}

func (i *IdPat) patternNode()  {}
func (i *IdPat) Position() Pos { return i.Pos }
func (i *IdPat) String() string { return i.Name }

// LitPat matches a literal value exactly.
type LitPat struct {
	Kind  LitKind
	Value interface{}
	Pos   Pos
}

func (l *LitPat) patternNode()  {}
func (l *LitPat) Position() Pos { return l.Pos }
func (l *LitPat) String() string { return (&Lit{Kind: l.Kind, Value: l.Value}).String() }

// ConsPat is `h :: t`.
type ConsPat struct {
	Head, Tail Pattern
	Pos        Pos
}

func (c *ConsPat) patternNode()  {}
func (c *ConsPat) Position() Pos { return c.Pos }
func (c *ConsPat) String() string { return fmt.Sprintf("%s :: %s", c.Head, c.Tail) }

// TuplePat matches a tuple element-wise.
type TuplePat struct {
	Elems []Pattern
	Pos   Pos
}

func (t *TuplePat) patternNode()  {}
func (t *TuplePat) Position() Pos { return t.Pos }
func (t *TuplePat) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ListPat matches a fixed-length list.
type ListPat struct {
	Elems []Pattern
	Pos   Pos
}

func (l *ListPat) patternNode()  {}
func (l *ListPat) Position() Pos { return l.Pos }
func (l *ListPat) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FieldPat is one `label = pat` entry of a record pattern.
type FieldPat struct {
	Label string
	Pat   Pattern
}

// RecordPat matches a record; if Ellipsis is true, unmatched fields are
// permitted (row-polymorphic pattern).
type RecordPat struct {
	Fields   []FieldPat
	Ellipsis bool
	Pos      Pos
}

func (r *RecordPat) patternNode()  {}
func (r *RecordPat) Position() Pos { return r.Pos }
func (r *RecordPat) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Label, f.Pat)
	}
	if r.Ellipsis {
		parts = append(parts, "...")
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ConPat matches a datatype constructor application; Arg is nil for a
// nullary constructor.
type ConPat struct {
	Ctor string
	Arg  Pattern // nil if the constructor is nullary
	Pos  Pos
}

func (c *ConPat) patternNode()  {}
func (c *ConPat) Position() Pos { return c.Pos }
func (c *ConPat) String() string {
	if c.Arg == nil {
		return c.Ctor
	}
	return fmt.Sprintf("%s %s", c.Ctor, c.Arg)
}

// AsPat is `name as pat`.
type AsPat struct {
	Name string
	Pat  Pattern
	Pos  Pos
}

func (a *AsPat) patternNode()  {}
func (a *AsPat) Position() Pos { return a.Pos }
func (a *AsPat) String() string { return fmt.Sprintf("%s as %s", a.Name, a.Pat) }

// AnnotatedPat is `(pat : ty)`.
type AnnotatedPat struct {
	Pat  Pattern
	Type TypeExpr
	Pos  Pos
}

func (a *AnnotatedPat) patternNode()  {}
func (a *AnnotatedPat) Position() Pos { return a.Pos }
func (a *AnnotatedPat) String() string {
	return fmt.Sprintf("(%s : %s)", a.Pat, a.Type)
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// Binding is one `pat = expr` (for `val`) or `name pat1 pat2 ... = expr`
// (for `fun`) entry in a declaration.
type Binding struct {
	Pat      Pattern // for ValDecl
	Name     string  // for FunDecl: the function name
	ArgPats  []Pattern
	Body     Expr
	Pos      Pos
}

// FunArm is a single clause of a multi-arm `fun` declaration sharing Name.
type FunArm struct {
	ArgPats []Pattern
	Body    Expr
	Pos     Pos
}

// ValDecl is `val [rec] [inst] pat1 = e1 and pat2 = e2 and ...`.
type ValDecl struct {
	Rec   bool
	Inst  bool // `val inst` — register a typeclass-style instance binding
	Binds []Binding
	Pos   Pos
}

func (v *ValDecl) declNode()  {}
func (v *ValDecl) Position() Pos { return v.Pos }
func (v *ValDecl) String() string {
	kw := "val"
	if v.Rec {
		kw = "val rec"
	}
	parts := make([]string, len(v.Binds))
	for i, b := range v.Binds {
		parts[i] = fmt.Sprintf("%s = %s", b.Pat, b.Body)
	}
	return kw + " " + strings.Join(parts, " and ")
}

// FunDecl is `fun name p1 p2 = e | name q1 q2 = e2 ...`, possibly with
// multiple co-recursive functions joined by `and`.
type FunDecl struct {
	Name  string
	Arms  []FunArm
	Pos   Pos
}

func (f *FunDecl) declNode()  {}
func (f *FunDecl) Position() Pos { return f.Pos }
func (f *FunDecl) String() string {
	parts := make([]string, len(f.Arms))
	for i, a := range f.Arms {
		ps := make([]string, len(a.ArgPats))
		for j, p := range a.ArgPats {
			ps[j] = p.String()
		}
		parts[i] = fmt.Sprintf("%s %s = %s", f.Name, strings.Join(ps, " "), a.Body)
	}
	return "fun " + strings.Join(parts, " | ")
}

// CtorDef is one constructor in a `datatype` declaration.
type CtorDef struct {
	Name    string
	Payload TypeExpr // nil for a nullary constructor
}

// DatatypeBind is one `name tyvars = ctor1 | ctor2 | ...` in a (possibly
// mutually recursive) `datatype` declaration.
type DatatypeBind struct {
	Name   string
	TyVars []string
	Ctors  []CtorDef
}

// DatatypeDecl declares one or more mutually recursive algebraic types.
type DatatypeDecl struct {
	Binds []DatatypeBind
	Pos   Pos
}

func (d *DatatypeDecl) declNode()  {}
func (d *DatatypeDecl) Position() Pos { return d.Pos }
func (d *DatatypeDecl) String() string {
	parts := make([]string, len(d.Binds))
	for i, b := range d.Binds {
		ctors := make([]string, len(b.Ctors))
		for j, c := range b.Ctors {
			if c.Payload != nil {
				ctors[j] = fmt.Sprintf("%s of %s", c.Name, c.Payload)
			} else {
				ctors[j] = c.Name
			}
		}
		parts[i] = fmt.Sprintf("%s = %s", b.Name, strings.Join(ctors, " | "))
	}
	return "datatype " + strings.Join(parts, " and ")
}

// TypeBind is one `name tyvars = type` alias entry.
type TypeBind struct {
	Name   string
	TyVars []string
	Type   TypeExpr
}

// TypeDecl is a (possibly mutually recursive) set of type aliases.
type TypeDecl struct {
	Binds []TypeBind
	Pos   Pos
}

func (t *TypeDecl) declNode()  {}
func (t *TypeDecl) Position() Pos { return t.Pos }
func (t *TypeDecl) String() string {
	parts := make([]string, len(t.Binds))
	for i, b := range t.Binds {
		parts[i] = fmt.Sprintf("%s = %s", b.Name, b.Type)
	}
	return "type " + strings.Join(parts, " and ")
}

// OverDecl declares `name` as an overloaded family; concrete
// implementations are registered with later `val inst` bindings.
type OverDecl struct {
	Name string
	Pos  Pos
}

func (o *OverDecl) declNode()  {}
func (o *OverDecl) Position() Pos { return o.Pos }
func (o *OverDecl) String() string { return "over " + o.Name }

// ExprDecl wraps a bare expression statement (evaluated and bound to `it`).
type ExprDecl struct {
	Expr Expr
	Pos  Pos
}

func (e *ExprDecl) declNode()  {}
func (e *ExprDecl) Position() Pos { return e.Pos }
func (e *ExprDecl) String() string { return e.Expr.String() }

// ---------------------------------------------------------------------
// Type expressions
// ---------------------------------------------------------------------

// TyVar is `'a`.
type TyVar struct {
	Name string
	Pos  Pos
}

func (t *TyVar) typeNode()    {}
func (t *TyVar) Position() Pos { return t.Pos }
func (t *TyVar) String() string { return "'" + t.Name }

// NamedType is a type constructor application, e.g. `int`, `'a list`,
// `('a, 'b) tree`. Args comes before Name to match Language concrete
// syntax (`'a list`, not `list 'a`).
type NamedType struct {
	Args []TypeExpr
	Name string
	Pos  Pos
}

func (n *NamedType) typeNode()    {}
func (n *NamedType) Position() Pos { return n.Pos }
func (n *NamedType) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	if len(n.Args) == 1 {
		return fmt.Sprintf("%s %s", n.Args[0], n.Name)
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s) %s", strings.Join(parts, ", "), n.Name)
}

// RecordTypeField is one `label : ty` entry.
type RecordTypeField struct {
	Label string
	Type  TypeExpr
}

// RecordType is `{label1 : ty1, label2 : ty2, ...}`.
type RecordType struct {
	Fields []RecordTypeField
	Pos    Pos
}

func (r *RecordType) typeNode()    {}
func (r *RecordType) Position() Pos { return r.Pos }
func (r *RecordType) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s : %s", f.Label, f.Type)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// TupleType is `ty1 * ty2 * ...`.
type TupleType struct {
	Elems []TypeExpr
	Pos   Pos
}

func (t *TupleType) typeNode()    {}
func (t *TupleType) Position() Pos { return t.Pos }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, " * ")
}

// FnType is `ty1 -> ty2`.
type FnType struct {
	Param, Result TypeExpr
	Pos           Pos
}

func (f *FnType) typeNode()    {}
func (f *FnType) Position() Pos { return f.Pos }
func (f *FnType) String() string {
	return fmt.Sprintf("%s -> %s", f.Param, f.Result)
}

// CompositeKind tags `list`, `bag`, `vector` container sugar that parses
// the same as NamedType but is kept distinct for clarity in error messages
// produced before resolution interns the type.
type CompositeKind int

const (
	CompositeList CompositeKind = iota
	CompositeBag
	CompositeVector
)

// CompositeType is `ty list`, `ty bag`, `ty vector`.
type CompositeType struct {
	Elem TypeExpr
	Kind CompositeKind
	Pos  Pos
}

func (c *CompositeType) typeNode()    {}
func (c *CompositeType) Position() Pos { return c.Pos }
func (c *CompositeType) String() string {
	names := [...]string{"list", "bag", "vector"}
	return fmt.Sprintf("%s %s", c.Elem, names[c.Kind])
}
