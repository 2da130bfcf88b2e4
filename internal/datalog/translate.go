package datalog

import (
	"fmt"
	"sort"

	"github.com/loomlang/loom/internal/ast"
)

// Translate lowers an analyzed Datalog program into a single Loom `let`
// expression: one binding per declared relation, computed in
// dependency order, with a body that yields the `.output` relations (or,
// absent any `.output` directive, a record of every declared relation).
//
// A non-recursive relation's binding is the union (deduplicated) of its
// facts and its rules' `from`-comprehensions. A relation caught in a
// recursive stratum (a self-loop, or a cycle spanning several relations)
// is computed by iterating a generated `__fixpoint` combinator to a
// least fixpoint, starting from the empty relation(s) and repeatedly
// unioning in newly derivable rows until a round adds nothing. Fixpoint
// steps scan the whole current approximation on every round rather than
// threading a delta/frontier through a dedicated second parameter —
// still monotone and still terminates at the same least fixpoint, at the
// cost of the redundant-rescan work true semi-naive evaluation avoids;
// see DESIGN.md.
func Translate(prog *Program, ana *Analysis) (ast.Expr, error) {
	var decls []ast.Decl
	needFixpoint := false
	for _, stratum := range ana.strata {
		if isRecursiveStratum(stratum, ana.graph) {
			needFixpoint = true
			break
		}
	}
	if needFixpoint {
		decls = append(decls, fixpointCombinator())
	}

	for i, stratum := range ana.strata {
		if isRecursiveStratum(stratum, ana.graph) {
			d, err := translateRecursiveStratum(i, stratum, ana)
			if err != nil {
				return nil, err
			}
			decls = append(decls, d...)
			continue
		}
		rel := stratum[0]
		d, err := translateSimpleRelation(rel, ana)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}

	body, err := outputBody(prog, ana)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Decls: decls, Body: body}, nil
}

func isRecursiveStratum(stratum []string, graph map[string]map[string]bool) bool {
	if len(stratum) > 1 {
		return true
	}
	r := stratum[0]
	_, selfLoop := graph[r][r]
	return selfLoop
}

// translateSimpleRelation builds `val rel = <facts ∪ rule-results, deduped>`
// for a relation outside any recursive stratum; every relation it
// references is already bound by an earlier decl.
func translateSimpleRelation(rel string, ana *Analysis) (ast.Decl, error) {
	outside := func(name string) ast.Expr { return &ast.Id{Name: name} }
	union, err := relationUnion(rel, ana, outside)
	if err != nil {
		return nil, err
	}
	return &ast.ValDecl{Binds: []ast.Binding{{Pat: &ast.IdPat{Name: rel}, Body: union}}}, nil
}

// translateRecursiveStratum builds the fixpoint iteration for one
// recursive stratum and the per-relation projections out of it.
func translateRecursiveStratum(index int, stratum []string, ana *Analysis) ([]ast.Decl, error) {
	names := append([]string(nil), stratum...)
	sort.Strings(names)
	stateName := fmt.Sprintf("__stratum%d", index)
	multi := len(names) > 1

	resolve := func(name string) ast.Expr {
		inStratum := false
		for _, n := range names {
			if n == name {
				inStratum = true
				break
			}
		}
		if !inStratum {
			return &ast.Id{Name: name}
		}
		if !multi {
			return &ast.Id{Name: "state"}
		}
		return &ast.Apply{Fn: &ast.RecordSel{Label: name}, Arg: &ast.Id{Name: "state"}}
	}

	var stepBody ast.Expr
	var emptyState ast.Expr
	if !multi {
		union, err := relationUnion(names[0], ana, resolve)
		if err != nil {
			return nil, err
		}
		stepBody = distinctExpr(&ast.InfixCall{Op: "@", Lhs: &ast.Id{Name: "state"}, Rhs: union})
		emptyState = &ast.List{}
	} else {
		fields := make([]ast.RecordField, len(names))
		for i, n := range names {
			union, err := relationUnion(n, ana, resolve)
			if err != nil {
				return nil, err
			}
			grown := distinctExpr(&ast.InfixCall{Op: "@", Lhs: &ast.Apply{Fn: &ast.RecordSel{Label: n}, Arg: &ast.Id{Name: "state"}}, Rhs: union})
			fields[i] = ast.RecordField{Label: n, Value: grown}
		}
		stepBody = &ast.Record{Fields: fields}
		emptyFields := make([]ast.RecordField, len(names))
		for i, n := range names {
			emptyFields[i] = ast.RecordField{Label: n, Value: &ast.List{}}
		}
		emptyState = &ast.Record{Fields: emptyFields}
	}

	stepFn := &ast.Fn{Matches: []ast.Match{{Pat: &ast.IdPat{Name: "state"}, Body: stepBody}}}
	finalState := &ast.Apply{
		Fn:  &ast.Apply{Fn: &ast.Id{Name: "__fixpoint"}, Arg: stepFn},
		Arg: emptyState,
	}

	var decls []ast.Decl
	decls = append(decls, &ast.ValDecl{Binds: []ast.Binding{{Pat: &ast.IdPat{Name: stateName}, Body: finalState}}})
	if !multi {
		decls = append(decls, &ast.ValDecl{Binds: []ast.Binding{{Pat: &ast.IdPat{Name: names[0]}, Body: &ast.Id{Name: stateName}}}})
	} else {
		for _, n := range names {
			decls = append(decls, &ast.ValDecl{Binds: []ast.Binding{{Pat: &ast.IdPat{Name: n}, Body: &ast.Apply{Fn: &ast.RecordSel{Label: n}, Arg: &ast.Id{Name: stateName}}}}})
		}
	}
	return decls, nil
}

// relationUnion builds the deduplicated union of rel's facts and its
// rules' comprehensions, resolving every relation reference (including
// self/sibling references inside a recursive stratum) through resolve.
func relationUnion(rel string, ana *Analysis, resolve func(string) ast.Expr) (ast.Expr, error) {
	decl := ana.decls[rel]
	var parts []ast.Expr
	if facts := ana.facts[rel]; len(facts) > 0 {
		parts = append(parts, factsListExpr(decl, facts))
	}
	for _, r := range ana.rules[rel] {
		expr, err := ruleToFromExpr(r, ana, resolve)
		if err != nil {
			return nil, err
		}
		parts = append(parts, expr)
	}
	if len(parts) == 0 {
		return &ast.List{}, nil
	}
	combined := parts[0]
	for _, p := range parts[1:] {
		combined = &ast.InfixCall{Op: "@", Lhs: combined, Rhs: p}
	}
	return distinctExpr(combined), nil
}

func factsListExpr(decl *RelDecl, facts []*Fact) *ast.List {
	elems := make([]ast.Expr, len(facts))
	for i, f := range facts {
		fields := make([]ast.RecordField, len(f.Args))
		for j, c := range f.Args {
			fields[j] = ast.RecordField{Label: decl.Params[j].Name, Value: constExpr(c)}
		}
		elems[i] = &ast.Record{Fields: fields}
	}
	return &ast.List{Elems: elems}
}

func constExpr(c Const) *ast.Lit {
	switch c.Kind {
	case ConstInt:
		return &ast.Lit{Kind: ast.LitInt, Value: c.Int}
	case ConstString:
		return &ast.Lit{Kind: ast.LitString, Value: c.Str}
	case ConstBool:
		return &ast.Lit{Kind: ast.LitBool, Value: c.Bool}
	default:
		return &ast.Lit{Kind: ast.LitUnit}
	}
}

// ruleToFromExpr lowers one rule body into a `from` pipeline yielding a
// record of the head relation's declared fields.
func ruleToFromExpr(r *Rule, ana *Analysis, resolve func(string) ast.Expr) (ast.Expr, error) {
	var steps []ast.FromStep
	vars := map[string]ast.Expr{}
	tmp := 0
	fresh := func() string {
		tmp++
		return fmt.Sprintf("__v%d", tmp)
	}

	for _, lit := range r.Body {
		switch {
		case lit.Atom != nil && !lit.Negated:
			decl := ana.decls[lit.Atom.Relation]
			names := make([]string, len(lit.Atom.Args))
			for i := range lit.Atom.Args {
				names[i] = fresh()
			}
			fields := make([]ast.FieldPat, len(names))
			for i, n := range names {
				fields[i] = ast.FieldPat{Label: decl.Params[i].Name, Pat: &ast.IdPat{Name: n}}
			}
			steps = append(steps, &ast.Scan{Pat: &ast.RecordPat{Fields: fields}, Source: resolve(lit.Atom.Relation)})
			for i, t := range lit.Atom.Args {
				ref := &ast.Id{Name: names[i]}
				if t.Var != "" {
					if existing, seen := vars[t.Var]; seen {
						steps = append(steps, &ast.Where{Cond: &ast.InfixCall{Op: "=", Lhs: ref, Rhs: existing}})
					} else {
						vars[t.Var] = ref
					}
				} else {
					steps = append(steps, &ast.Where{Cond: &ast.InfixCall{Op: "=", Lhs: ref, Rhs: constExpr(t.Const)}})
				}
			}
		case lit.Atom != nil && lit.Negated:
			decl := ana.decls[lit.Atom.Relation]
			fields := make([]ast.RecordField, len(lit.Atom.Args))
			for i, t := range lit.Atom.Args {
				fields[i] = ast.RecordField{Label: decl.Params[i].Name, Value: termExpr(t, vars)}
			}
			tuple := &ast.Record{Fields: fields}
			cond := &ast.UnaryOp{Op: "not", Operand: &ast.Apply{
				Fn:  &ast.Apply{Fn: &ast.Id{Name: "elem"}, Arg: tuple},
				Arg: resolve(lit.Atom.Relation),
			}}
			steps = append(steps, &ast.Where{Cond: cond})
		case lit.Cmp != nil:
			lhs := termExpr(lit.Cmp.Lhs, vars)
			rhs := termExpr(lit.Cmp.Rhs, vars)
			steps = append(steps, &ast.Where{Cond: &ast.InfixCall{Op: lit.Cmp.Op, Lhs: lhs, Rhs: rhs}})
		}
	}

	headDecl := ana.decls[r.Head.Relation]
	headFields := make([]ast.RecordField, len(r.Head.Args))
	for i, t := range r.Head.Args {
		headFields[i] = ast.RecordField{Label: headDecl.Params[i].Name, Value: termExpr(t, vars)}
	}
	steps = append(steps, &ast.Yield{Expr: &ast.Record{Fields: headFields}})
	return &ast.From{Steps: steps}, nil
}

func termExpr(t Term, vars map[string]ast.Expr) ast.Expr {
	if t.Var != "" {
		return vars[t.Var]
	}
	return constExpr(t.Const)
}

// distinctExpr wraps e (a list expression) in `from __x in e distinct
// yield __x`, deduplicating rows by structural equality.
func distinctExpr(e ast.Expr) ast.Expr {
	return &ast.From{Steps: []ast.FromStep{
		&ast.Scan{Pat: &ast.IdPat{Name: "__x"}, Source: e},
		&ast.Distinct{},
		&ast.Yield{Expr: &ast.Id{Name: "__x"}},
	}}
}

// fixpointCombinator builds `fun __fixpoint step state = let val next =
// step state in if next = state then state else __fixpoint step next
// end`, the one iteration combinator every recursive stratum shares.
func fixpointCombinator() ast.Decl {
	return &ast.FunDecl{
		Name: "__fixpoint",
		Arms: []ast.FunArm{{
			ArgPats: []ast.Pattern{&ast.IdPat{Name: "step"}, &ast.IdPat{Name: "state"}},
			Body: &ast.Let{
				Decls: []ast.Decl{&ast.ValDecl{Binds: []ast.Binding{{
					Pat:  &ast.IdPat{Name: "next"},
					Body: &ast.Apply{Fn: &ast.Id{Name: "step"}, Arg: &ast.Id{Name: "state"}},
				}}}},
				Body: &ast.If{
					Cond: &ast.InfixCall{Op: "=", Lhs: &ast.Id{Name: "next"}, Rhs: &ast.Id{Name: "state"}},
					Then: &ast.Id{Name: "state"},
					Else: &ast.Apply{
						Fn:  &ast.Apply{Fn: &ast.Id{Name: "__fixpoint"}, Arg: &ast.Id{Name: "step"}},
						Arg: &ast.Id{Name: "next"},
					},
				},
			},
		}},
	}
}

// outputBody always yields a record keyed by relation name, even for a
// single `.output` relation, so a caller always destructures the result
// the same way regardless of how many relations were requested.
func outputBody(prog *Program, ana *Analysis) (ast.Expr, error) {
	outs := ana.outputs
	if len(outs) == 0 {
		for name := range ana.decls {
			outs = append(outs, name)
		}
		sort.Strings(outs)
	}
	fields := make([]ast.RecordField, len(outs))
	for i, name := range outs {
		fields[i] = ast.RecordField{Label: name, Value: &ast.Id{Name: name}}
	}
	return &ast.Record{Fields: fields}, nil
}
