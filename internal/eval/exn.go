package eval

import "github.com/loomlang/loom/internal/ast"

// Raised is the Go-level error used to propagate a raised user exception
// (or an implicit Bind failure from a non-exhaustive match) up through
// Eval's call stack until a Handle catches it.
type Raised struct {
	Exn Value
	At  ast.Pos
}

func (r *Raised) Error() string { return "raised: " + r.Exn.String() }

// BindException is the implicit exception raised when a refutable
// pattern (in a `case`, a `fn` clause, or a `let`-bound pattern) fails to
// match at runtime, mirroring the surface language's `Bind` exception.
func BindException(at ast.Pos) *Raised {
	return &Raised{Exn: &Constructed{Ctor: "Bind"}, At: at}
}
