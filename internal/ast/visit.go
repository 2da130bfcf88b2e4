package ast

// Visitor receives pre- and post-order callbacks while Walk traverses an
// expression tree. Either hook may be nil. Returning false from Pre skips
// the node's children (and its Post call).
type Visitor struct {
	Pre  func(Node) bool
	Post func(Node)
}

// Walk traverses expr depth-first, calling v.Pre before and v.Post after
// visiting each child. It covers every Expr variant in package ast; callers
// that only care about a handful of node kinds type-switch inside Pre/Post.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v.Pre != nil && !v.Pre(n) {
		return
	}
	switch e := n.(type) {
	case *If:
		Walk(v, e.Cond)
		Walk(v, e.Then)
		Walk(v, e.Else)
	case *Let:
		for _, d := range e.Decls {
			walkDecl(v, d)
		}
		Walk(v, e.Body)
	case *Fn:
		for _, m := range e.Matches {
			Walk(v, m.Body)
		}
	case *UnaryOp:
		Walk(v, e.Operand)
	case *Apply:
		Walk(v, e.Fn)
		Walk(v, e.Arg)
	case *Case:
		Walk(v, e.Scrutinee)
		for _, m := range e.Matches {
			Walk(v, m.Body)
		}
	case *Tuple:
		for _, el := range e.Elems {
			Walk(v, el)
		}
	case *Record:
		if e.With != nil {
			Walk(v, e.With)
		}
		for _, f := range e.Fields {
			Walk(v, f.Value)
		}
	case *List:
		for _, el := range e.Elems {
			Walk(v, el)
		}
	case *InfixCall:
		Walk(v, e.Lhs)
		Walk(v, e.Rhs)
	case *Annotated:
		Walk(v, e.Expr)
	case *Aggregate:
		Walk(v, e.Fn)
		Walk(v, e.Over)
	case *From:
		for _, s := range e.Steps {
			walkStep(v, s)
		}
	case *Exists:
		for _, s := range e.Steps {
			walkStep(v, s)
		}
	case *Forall:
		for _, s := range e.Steps {
			walkStep(v, s)
		}
		Walk(v, e.Require)
	}
	if v.Post != nil {
		v.Post(n)
	}
}

func walkStep(v Visitor, s FromStep) {
	switch st := s.(type) {
	case *Scan:
		Walk(v, st.Source)
		if st.On != nil {
			Walk(v, st.On)
		}
	case *Where:
		Walk(v, st.Cond)
	case *Group:
		Walk(v, st.Key)
		if st.Compute != nil {
			Walk(v, st.Compute)
		}
	case *Order:
		Walk(v, st.Key)
	case *Take:
		Walk(v, st.N)
	case *Skip:
		Walk(v, st.N)
	case *Yield:
		Walk(v, st.Expr)
	case *Into:
		Walk(v, st.Expr)
	case *Through:
		Walk(v, st.Expr)
	case *Join:
		for _, sc := range st.Scans {
			walkStep(v, sc)
		}
	case *SetOp:
		for _, src := range st.Sources {
			Walk(v, src)
		}
	case *Compute:
		Walk(v, st.Expr)
	case *Require:
		Walk(v, st.Expr)
	}
}

func walkDecl(v Visitor, d Decl) {
	switch decl := d.(type) {
	case *ValDecl:
		for _, b := range decl.Binds {
			Walk(v, b.Body)
		}
	case *FunDecl:
		for _, a := range decl.Arms {
			Walk(v, a.Body)
		}
	case *ExprDecl:
		Walk(v, decl.Expr)
	}
}
