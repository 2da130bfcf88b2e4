// Package eval tree-walks the core IR, producing runtime Values.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loomlang/loom/internal/core"
)

// Value is any runtime value the evaluator produces.
type Value interface {
	Type() string
	String() string
}

// Unit is the sole value of type unit.
type Unit struct{}

func (Unit) Type() string   { return "unit" }
func (Unit) String() string { return "()" }

// Bool is a boolean value.
type Bool bool

func (Bool) Type() string { return "bool" }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int is an arbitrary-precision-free (machine int64) integer value.
type Int int64

func (Int) Type() string      { return "int" }
func (i Int) String() string  { return strconv.FormatInt(int64(i), 10) }

// Real is a floating point value.
type Real float64

func (Real) Type() string { return "real" }
func (r Real) String() string {
	s := strconv.FormatFloat(float64(r), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Char is a single character value.
type Char rune

func (Char) Type() string     { return "char" }
func (c Char) String() string { return "#\"" + string(rune(c)) + "\"" }

// Str is a string value.
type Str string

func (Str) Type() string     { return "string" }
func (s Str) String() string { return string(s) }

// Tuple is an ordered product value of arity >= 2.
type Tuple struct{ Elems []Value }

func (*Tuple) Type() string { return "tuple" }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RecordField is one label/value pair of a record, kept in canonical
// label order so printing and row-conversion are deterministic.
type RecordField struct {
	Label string
	Value Value
}

// Record is a closed record value.
type Record struct{ Fields []RecordField }

func (*Record) Type() string { return "record" }
func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s = %s", f.Label, f.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value bound to label, if present.
func (r *Record) Get(label string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return nil, false
}

// ContainerKind mirrors types.ContainerKind at the value level.
type ContainerKind int

const (
	KindList ContainerKind = iota
	KindBag
	KindVector
)

// Container is a list, bag, or vector value. Lists and vectors preserve
// Elems order as their defined order; a Bag's Elems order is incidental
// and must never be relied on by evaluator or adapter code.
type Container struct {
	Elems []Value
	Kind  ContainerKind
}

func (*Container) Type() string { return "container" }
func (c *Container) String() string {
	open, close := "[", "]"
	parts := make([]string, len(c.Elems))
	for i, e := range c.Elems {
		parts[i] = e.String()
	}
	return open + strings.Join(parts, ", ") + close
}

// Closure is a function value: a single-argument match-arm list closed
// over the environment active at its point of definition.
type Closure struct {
	Matches []core.Match
	Env     *Environment
	Name    string // best-effort name for printing/debugging, "" if anonymous
}

func (*Closure) Type() string     { return "fn" }
func (c *Closure) String() string { return "<fn>" }

// Constructed is a value built by an algebraic datatype constructor.
type Constructed struct {
	Ctor string
	Arg  Value // nil for a nullary constructor
}

func (*Constructed) Type() string { return "data" }
func (c *Constructed) String() string {
	if c.Arg == nil {
		return c.Ctor
	}
	return c.Ctor + " " + parenIfCompound(c.Arg)
}

func parenIfCompound(v Value) string {
	switch v.(type) {
	case *Tuple, *Constructed:
		return "(" + v.String() + ")"
	default:
		return v.String()
	}
}

// Ref is a mutable reference cell value. No evaluator path or foreign
// provider in this module creates one.
type Ref struct{ Val Value }

func (*Ref) Type() string     { return "ref" }
func (r *Ref) String() string { return "ref " + r.Val.String() }

// Foreign wraps a value supplied by an internal/foreign.Provider: it
// carries its own type and has no further structure visible to the
// evaluator.
type Foreign struct {
	TypeName string
	Payload  any
}

func (f *Foreign) Type() string     { return f.TypeName }
func (f *Foreign) String() string   { return fmt.Sprintf("<%s>", f.TypeName) }
