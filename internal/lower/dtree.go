package lower

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
	"github.com/loomlang/loom/internal/errors"
)

const phase = "lower"

// Exhaustiveness and redundancy analysis over a match's lowered core
// patterns, run on every `fun` clause group, `case`, `fn`, and refutable
// `let`/`val` binding. The algorithm is Maranget's usefulness check
// ("Warnings for pattern matching", JFP 2007): row i of a pattern matrix
// is redundant if it matches no value that isn't already matched by some
// row above it, and the whole matrix is exhaustive if a trailing
// wildcard row is not useful against it.
//
// Completeness of a column's constructor set comes from two places: the
// fixed two-constructor shape of lists (`::`/`[]`) and booleans, and the
// Registry's constructor table for a datatype reached through any
// observed ConPat. Integer, real, char, and string literals have no
// enumerable constructor set, so a literal-headed column is only ever
// "complete" when every value of the type has already been named, which
// in practice means never — a wildcard or variable arm is required to
// close out a match on those types, the same as any ML-family checker.

// headKind classifies the root constructor one core.Pattern matches.
type headKind int

const (
	headWild headKind = iota
	headLitBool
	headLitUnit
	headLitOpen
	headTuple
	headRecord
	headCons
	headNil
	headCtor
)

// head is the root constructor of a pattern, plus the sub-patterns that
// constructor's arguments bind (empty for a nullary constructor).
type head struct {
	kind  headKind
	key   string
	arity int
	sub   []core.Pattern
}

func patHead(p core.Pattern) head {
	switch n := p.(type) {
	case core.AsPat:
		return patHead(n.Pat)
	case core.LitPat:
		switch v := n.Value.(type) {
		case bool:
			if v {
				return head{kind: headLitBool, key: "true"}
			}
			return head{kind: headLitBool, key: "false"}
		case nil:
			return head{kind: headLitUnit, key: "()"}
		default:
			return head{kind: headLitOpen, key: fmt.Sprintf("%T:%v", v, v)}
		}
	case core.TuplePat:
		return head{kind: headTuple, key: "#tuple", arity: len(n.Elems), sub: n.Elems}
	case core.RecordPat:
		fields := append([]core.RecordFieldPat(nil), n.Fields...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Label < fields[j].Label })
		labels := make([]string, len(fields))
		sub := make([]core.Pattern, len(fields))
		for i, f := range fields {
			labels[i] = f.Label
			sub[i] = f.Pat
		}
		return head{kind: headRecord, key: "#record:" + strings.Join(labels, ","), arity: len(fields), sub: sub}
	case core.ConsPat:
		return head{kind: headCons, key: "::", arity: 2, sub: []core.Pattern{n.Head, n.Tail}}
	case core.NilPat:
		return head{kind: headNil, key: "[]"}
	case core.ConPat:
		if n.Arg != nil {
			return head{kind: headCtor, key: n.Ctor, arity: 1, sub: []core.Pattern{n.Arg}}
		}
		return head{kind: headCtor, key: n.Ctor}
	default:
		// WildPat, IdPat, and anything unrecognized all match everything.
		return head{kind: headWild}
	}
}

// ctorSig is one entry of a column's constructor signature.
type ctorSig struct {
	kind  headKind
	key   string
	arity int
}

// signature inspects the first column of rows (and, for a datatype
// column, the Registry) to report every constructor the column's type
// admits and whether that set has been fully accounted for without a
// default/wildcard branch.
func (l *Lowerer) signature(rows [][]core.Pattern) (sig []ctorSig, complete bool) {
	seen := map[string]ctorSig{}
	kindSeen := headWild
	for _, row := range rows {
		h := patHead(row[0])
		if h.kind == headWild {
			continue
		}
		kindSeen = h.kind
		seen[h.key] = ctorSig{kind: h.kind, key: h.key, arity: h.arity}
	}
	switch kindSeen {
	case headWild:
		return nil, false
	case headTuple, headRecord:
		for _, s := range seen {
			return []ctorSig{s}, true
		}
		return nil, false
	case headCons, headNil:
		return []ctorSig{{kind: headCons, key: "::", arity: 2}, {kind: headNil, key: "[]"}}, true
	case headLitBool:
		return []ctorSig{{kind: headLitBool, key: "true"}, {kind: headLitBool, key: "false"}}, true
	case headLitUnit:
		return []ctorSig{{kind: headLitUnit, key: "()"}}, true
	case headLitOpen:
		out := make([]ctorSig, 0, len(seen))
		for _, s := range seen {
			out = append(out, s)
		}
		return out, false
	case headCtor:
		for _, s := range seen {
			if data, _, ok := l.Reg.LookupCtor(s.key); ok {
				full := make([]ctorSig, 0, len(data.Ctors))
				for name, info := range data.Ctors {
					arity := 0
					if info.Payload != nil {
						arity = 1
					}
					full = append(full, ctorSig{kind: headCtor, key: name, arity: arity})
				}
				return full, true
			}
		}
		out := make([]ctorSig, 0, len(seen))
		for _, s := range seen {
			out = append(out, s)
		}
		return out, false
	default:
		return nil, false
	}
}

// specialize narrows rows to those compatible with constructor c, either
// because the row's head already is c (its sub-patterns are spliced in)
// or because the row's head is a wildcard (c's arity worth of fresh
// wildcards are spliced in instead).
func specialize(rows [][]core.Pattern, c ctorSig) [][]core.Pattern {
	var out [][]core.Pattern
	for _, row := range rows {
		h := patHead(row[0])
		switch {
		case h.kind == headWild:
			newRow := make([]core.Pattern, 0, c.arity+len(row)-1)
			for i := 0; i < c.arity; i++ {
				newRow = append(newRow, core.WildPat{})
			}
			out = append(out, append(newRow, row[1:]...))
		case h.kind == c.kind && h.key == c.key:
			newRow := make([]core.Pattern, 0, len(h.sub)+len(row)-1)
			newRow = append(newRow, h.sub...)
			out = append(out, append(newRow, row[1:]...))
		}
	}
	return out
}

// defaultRows restricts rows to those headed by a wildcard, dropping
// that column, used when a column's constructor set is incomplete.
func defaultRows(rows [][]core.Pattern) [][]core.Pattern {
	var out [][]core.Pattern
	for _, row := range rows {
		if patHead(row[0]).kind == headWild {
			out = append(out, append([]core.Pattern(nil), row[1:]...))
		}
	}
	return out
}

// usefulness reports whether q matches some value not already matched by
// any row of rows (Maranget's U(P, q)).
func (l *Lowerer) usefulness(rows [][]core.Pattern, q []core.Pattern) bool {
	if len(q) == 0 {
		return len(rows) == 0
	}
	h := patHead(q[0])
	if h.kind != headWild {
		c := ctorSig{kind: h.kind, key: h.key, arity: h.arity}
		sub := specialize(rows, c)
		newQ := append(append([]core.Pattern{}, h.sub...), q[1:]...)
		return l.usefulness(sub, newQ)
	}
	sig, complete := l.signature(rows)
	if !complete {
		return l.usefulness(defaultRows(rows), q[1:])
	}
	for _, c := range sig {
		sub := specialize(rows, c)
		wilds := make([]core.Pattern, c.arity)
		for i := range wilds {
			wilds[i] = core.WildPat{}
		}
		newQ := append(append([]core.Pattern{}, wilds...), q[1:]...)
		if l.usefulness(sub, newQ) {
			return true
		}
	}
	return false
}

// checkMatch runs exhaustiveness/redundancy analysis over one match's
// arms. armPos[i] positions the i'th arm's pattern for a TYP006
// diagnostic; headPos positions the match as a whole for TYP007.
// Redundancy is fatal (a clause that can never run is a mistake, never
// intentional); non-exhaustiveness is recorded on l.Warnings and does
// not block lowering, matching the runtime Bind-exception fallthrough a
// non-exhaustive match compiles to.
func (l *Lowerer) checkMatch(headPos ast.Pos, pats []core.Pattern, armPos []ast.Pos) error {
	var rows [][]core.Pattern
	for i, pat := range pats {
		row := []core.Pattern{pat}
		if !l.usefulness(rows, row) {
			pos := headPos
			if i < len(armPos) {
				pos = armPos[i]
			}
			span := ast.Span{Start: pos, End: pos}
			rep := errors.New(phase, errors.TYP006, span, "match arm is redundant: every value it matches is already covered by an earlier arm")
			return errors.WrapReport(rep)
		}
		rows = append(rows, row)
	}
	if l.usefulness(rows, []core.Pattern{core.WildPat{}}) {
		span := ast.Span{Start: headPos, End: headPos}
		l.Warnings = append(l.Warnings, errors.New(phase, errors.TYP007, span, "match nonexhaustive"))
	}
	return nil
}
