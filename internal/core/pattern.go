package core

import "github.com/loomlang/loom/internal/types"

// Pattern is a core-level pattern: the surface pattern grammar after
// record-ellipsis expansion and constructor-name resolution, still
// structured (not yet compiled to a decision tree — internal/lower's
// dtree analysis consumes this form to diagnose exhaustiveness and
// redundancy, but the evaluator matches Patterns directly in arm order,
// which is observably equivalent to running a compiled decision tree).
type Pattern interface {
	patternNode()
	ResolvedType() types.Type
}

type patBase struct{ Typ types.Type }

func (p patBase) ResolvedType() types.Type { return p.Typ }

type WildPat struct{ patBase }

func (WildPat) patternNode() {}

type IdPat struct {
	patBase
	Name string
}

func (IdPat) patternNode() {}

type LitPat struct {
	patBase
	Value any
}

func (LitPat) patternNode() {}

type TuplePat struct {
	patBase
	Elems []Pattern
}

func (TuplePat) patternNode() {}

type RecordFieldPat struct {
	Label string
	Pat   Pattern
}

type RecordPat struct {
	patBase
	Fields []RecordFieldPat
}

func (RecordPat) patternNode() {}

// ConsPat matches a non-empty list/bag and binds its head and tail.
type ConsPat struct {
	patBase
	Head, Tail Pattern
}

func (ConsPat) patternNode() {}

// NilPat matches the empty list/bag/vector.
type NilPat struct{ patBase }

func (NilPat) patternNode() {}

// ConPat matches a datatype constructor application.
type ConPat struct {
	patBase
	Ctor string
	Arg  Pattern // nil for a nullary constructor
}

func (ConPat) patternNode() {}

// AsPat binds Name to the whole matched value in addition to matching Pat.
type AsPat struct {
	patBase
	Name string
	Pat  Pattern
}

func (AsPat) patternNode() {}
