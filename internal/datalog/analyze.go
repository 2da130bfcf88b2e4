package datalog

import (
	"fmt"
	"sort"

	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/errors"
)

// Analysis is the result of checking a Program: declaration/arity
// coverage, rule safety, and the stratified dependency order Translate
// walks to build each relation's binding.
type Analysis struct {
	decls   map[string]*RelDecl
	rules   map[string][]*Rule
	facts   map[string][]*Fact
	input   map[string]*InputDirective
	outputs []string

	// strata[i] is one stratification layer: a set of mutually (positively)
	// recursive relation names that must be computed together, in an order
	// such that every relation a stratum depends on appears in an earlier
	// stratum.
	strata [][]string

	graph map[string]map[string]bool
}

const phase = "datalog"

func errAt(code string, pos Pos, msg string, args ...interface{}) error {
	span := ast.Span{Start: pos.toAST(), End: pos.toAST()}
	return errors.WrapReport(errors.New(phase, code, span, fmt.Sprintf(msg, args...)))
}

// Analyze validates decl coverage, fact/rule arity, rule safety, and
// stratification, returning the dependency order Translate needs.
func Analyze(prog *Program) (*Analysis, error) {
	a := &Analysis{
		decls: map[string]*RelDecl{},
		rules: map[string][]*Rule{},
		facts: map[string][]*Fact{},
		input: map[string]*InputDirective{},
	}
	for _, d := range prog.Decls {
		if _, dup := a.decls[d.Name]; dup {
			return nil, errAt(errors.DLG005, d.Pos, "relation %q declared more than once", d.Name)
		}
		a.decls[d.Name] = d
	}
	for _, in := range prog.Inputs {
		if _, ok := a.decls[in.Relation]; !ok {
			return nil, errAt(errors.DLG001, in.Pos, "`.input` names undeclared relation %q", in.Relation)
		}
		a.input[in.Relation] = in
	}
	for _, out := range prog.Outputs {
		if _, ok := a.decls[out.Relation]; !ok {
			return nil, errAt(errors.DLG001, out.Pos, "`.output` names undeclared relation %q", out.Relation)
		}
		a.outputs = append(a.outputs, out.Relation)
	}
	for _, f := range prog.Facts {
		decl, ok := a.decls[f.Relation]
		if !ok {
			return nil, errAt(errors.DLG001, f.Pos, "fact for undeclared relation %q", f.Relation)
		}
		if len(f.Args) != len(decl.Params) {
			return nil, errAt(errors.DLG002, f.Pos, "%q expects %d argument(s), fact has %d", f.Relation, len(decl.Params), len(f.Args))
		}
		for i, c := range f.Args {
			if !constMatchesType(c, decl.Params[i].Type) {
				return nil, errAt(errors.DLG002, f.Pos, "argument %d of fact %q does not match declared type %s", i+1, f.Relation, decl.Params[i].Type)
			}
		}
		a.facts[f.Relation] = append(a.facts[f.Relation], f)
	}
	for _, r := range prog.Rules {
		if err := a.checkRuleArities(r); err != nil {
			return nil, err
		}
		if err := a.checkRuleSafety(r); err != nil {
			return nil, err
		}
		a.rules[r.Head.Relation] = append(a.rules[r.Head.Relation], r)
	}

	graph, err := a.dependencyGraph()
	if err != nil {
		return nil, err
	}
	strata, err := stratify(graph)
	if err != nil {
		return nil, err
	}
	a.graph = graph
	a.strata = strata
	return a, nil
}

func constMatchesType(c Const, t ParamType) bool {
	switch t {
	case TypeInt:
		return c.Kind == ConstInt
	case TypeString:
		return c.Kind == ConstString
	case TypeBool:
		return c.Kind == ConstBool
	default:
		return false
	}
}

func (a *Analysis) checkRuleArities(r *Rule) error {
	check := func(at *Atom) error {
		decl, ok := a.decls[at.Relation]
		if !ok {
			return errAt(errors.DLG001, at.Pos, "use of undeclared relation %q", at.Relation)
		}
		if len(at.Args) != len(decl.Params) {
			return errAt(errors.DLG002, at.Pos, "%q expects %d argument(s), got %d", at.Relation, len(decl.Params), len(at.Args))
		}
		for i, t := range at.Args {
			if t.Var == "" && !constMatchesType(t.Const, decl.Params[i].Type) {
				return errAt(errors.DLG002, at.Pos, "argument %d of %q does not match declared type %s", i+1, at.Relation, decl.Params[i].Type)
			}
		}
		return nil
	}
	if err := check(r.Head); err != nil {
		return err
	}
	for _, lit := range r.Body {
		if lit.Atom != nil {
			if err := check(lit.Atom); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkRuleSafety enforces that every variable in the head and every
// variable inside a negated atom or a comparison also appears in some
// positive body atom.
func (a *Analysis) checkRuleSafety(r *Rule) error {
	bound := map[string]bool{}
	for _, lit := range r.Body {
		if lit.Atom != nil && !lit.Negated {
			for _, t := range lit.Atom.Args {
				if t.Var != "" {
					bound[t.Var] = true
				}
			}
		}
	}
	unsafe := func(pos Pos, v string) error {
		return errAt(errors.DLG003, pos, "variable %q is not bound by a positive body atom", v)
	}
	for _, t := range r.Head.Args {
		if t.Var != "" && !bound[t.Var] {
			return unsafe(r.Head.Pos, t.Var)
		}
	}
	for _, lit := range r.Body {
		if lit.Atom != nil && lit.Negated {
			for _, t := range lit.Atom.Args {
				if t.Var != "" && !bound[t.Var] {
					return unsafe(lit.Atom.Pos, t.Var)
				}
			}
		}
		if lit.Cmp != nil {
			for _, t := range []Term{lit.Cmp.Lhs, lit.Cmp.Rhs} {
				if t.Var != "" && !bound[t.Var] {
					return unsafe(lit.Cmp.Pos, t.Var)
				}
			}
		}
	}
	return nil
}

// dependencyGraph maps each relation with at least one rule to the set of
// relations its rule bodies reference, recording whether any reference is
// through negation.
func (a *Analysis) dependencyGraph() (map[string]map[string]bool, error) {
	graph := map[string]map[string]bool{}
	for name := range a.decls {
		graph[name] = map[string]bool{}
	}
	for head, rules := range a.rules {
		for _, r := range rules {
			for _, lit := range r.Body {
				if lit.Atom == nil {
					continue
				}
				if lit.Negated {
					graph[head][lit.Atom.Relation] = true
				} else if _, exists := graph[head][lit.Atom.Relation]; !exists {
					graph[head][lit.Atom.Relation] = false
				}
			}
		}
	}
	return graph, nil
}

// stratify computes strongly connected components of the dependency graph
// (Tarjan's algorithm) in reverse-postorder (dependencies-first), and
// rejects any component containing a negated internal edge.
func stratify(graph map[string]map[string]bool) ([][]string, error) {
	names := make([]string, 0, len(graph))
	for n := range graph {
		names = append(names, n)
	}
	sort.Strings(names)

	index := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	counter := 0
	var sccs [][]string

	var strong func(v string) error
	strong = func(v string) error {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		deps := make([]string, 0, len(graph[v]))
		for d := range graph[v] {
			deps = append(deps, d)
		}
		sort.Strings(deps)
		for _, w := range deps {
			if _, seen := index[w]; !seen {
				if err := strong(w); err != nil {
					return err
				}
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}
		if lowlink[v] == index[v] {
			var comp []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sort.Strings(comp)
			sccs = append(sccs, comp)
		}
		return nil
	}

	for _, n := range names {
		if _, seen := index[n]; !seen {
			if err := strong(n); err != nil {
				return nil, err
			}
		}
	}

	inComp := map[string]int{}
	for i, comp := range sccs {
		for _, n := range comp {
			inComp[n] = i
		}
	}
	for head, deps := range graph {
		for dep, negated := range deps {
			if negated && inComp[head] == inComp[dep] {
				return nil, errAt(errors.DLG004, Pos{}, "relation %q is not stratified: it depends negatively on %q through a recursive cycle", head, dep)
			}
		}
	}

	// Tarjan closes a component only once every component it depends on
	// (via a head -> dependency edge) has already been closed, so sccs is
	// already in dependencies-first order for translation.
	return sccs, nil
}
