package eval

import "fmt"

// Builtin is a primitive function implemented in Go rather than as a
// core.Closure. Operators (`+`, `<`, `::`, ...) are ordinary curried
// Builtins in the base
// environment rather than special evaluator cases, matching how the
// surface language treats them as identifiers that can be passed around
// (e.g. `List.foldl (op +) 0 xs`).
type Builtin struct {
	Name string
	Fn   func(Value) (Value, error)
}

func (*Builtin) Type() string     { return "fn" }
func (b *Builtin) String() string { return "<builtin:" + b.Name + ">" }

func curry2(name string, f func(a, b Value) (Value, error)) *Builtin {
	return &Builtin{Name: name, Fn: func(a Value) (Value, error) {
		return &Builtin{Name: name, Fn: func(b Value) (Value, error) {
			return f(a, b)
		}}, nil
	}}
}

// BaseEnv returns a fresh Environment holding every operator and builtin
// function the resolver's base type environment declares signatures for.
func BaseEnv() *Environment {
	env := NewEnvironment()
	ops := map[string]Value{
		"+": curry2("+", func(a, b Value) (Value, error) { return numericBinOp(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y }) }),
		"-": curry2("-", func(a, b Value) (Value, error) { return numericBinOp(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y }) }),
		"*": curry2("*", func(a, b Value) (Value, error) { return numericBinOp(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y }) }),
		"/": curry2("/", func(a, b Value) (Value, error) {
			y, ok := b.(Real)
			if !ok || y == 0 {
				return nil, &Raised{Exn: &Constructed{Ctor: "Div"}}
			}
			x := a.(Real)
			return x / y, nil
		}),
		"div": curry2("div", func(a, b Value) (Value, error) {
			x, y := a.(Int), b.(Int)
			if y == 0 {
				return nil, &Raised{Exn: &Constructed{Ctor: "Div"}}
			}
			return Int(intFloorDiv(int64(x), int64(y))), nil
		}),
		"mod": curry2("mod", func(a, b Value) (Value, error) {
			x, y := a.(Int), b.(Int)
			if y == 0 {
				return nil, &Raised{Exn: &Constructed{Ctor: "Div"}}
			}
			return Int(intFloorMod(int64(x), int64(y))), nil
		}),
		"^": curry2("^", func(a, b Value) (Value, error) { return Str(string(a.(Str)) + string(b.(Str))), nil }),
		"=": curry2("=", func(a, b Value) (Value, error) { return Bool(Equal(a, b)), nil }),
		"<>": curry2("<>", func(a, b Value) (Value, error) { return Bool(!Equal(a, b)), nil }),
		"<": curry2("<", func(a, b Value) (Value, error) { return Bool(Compare(a, b) < 0), nil }),
		"<=": curry2("<=", func(a, b Value) (Value, error) { return Bool(Compare(a, b) <= 0), nil }),
		">": curry2(">", func(a, b Value) (Value, error) { return Bool(Compare(a, b) > 0), nil }),
		">=": curry2(">=", func(a, b Value) (Value, error) { return Bool(Compare(a, b) >= 0), nil }),
		"::": curry2("::", func(a, b Value) (Value, error) {
			tail, ok := b.(*Container)
			if !ok {
				return nil, fmt.Errorf("cons onto a non-list")
			}
			elems := append([]Value{a}, tail.Elems...)
			return &Container{Elems: elems, Kind: tail.Kind}, nil
		}),
		"@": curry2("@", func(a, b Value) (Value, error) {
			x, y := a.(*Container), b.(*Container)
			elems := append(append([]Value{}, x.Elems...), y.Elems...)
			return &Container{Elems: elems, Kind: x.Kind}, nil
		}),
		"elem": curry2("elem", func(a, b Value) (Value, error) {
			c, ok := b.(*Container)
			if !ok {
				return nil, fmt.Errorf("elem: right side is not a container")
			}
			for _, v := range c.Elems {
				if Equal(a, v) {
					return Bool(true), nil
				}
			}
			return Bool(false), nil
		}),
		"~": &Builtin{Name: "~", Fn: func(a Value) (Value, error) {
			switch x := a.(type) {
			case Int:
				return -x, nil
			case Real:
				return -x, nil
			default:
				return nil, fmt.Errorf("~: not a number")
			}
		}},
		"not": &Builtin{Name: "not", Fn: func(a Value) (Value, error) { return !a.(Bool), nil }},
	}
	return env.ExtendAll(ops)
}

func numericBinOp(a, b Value, iop func(x, y int64) int64, fop func(x, y float64) float64) (Value, error) {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)
		if !ok {
			return nil, fmt.Errorf("type mismatch in arithmetic")
		}
		return Int(iop(int64(x), int64(y))), nil
	case Real:
		y, ok := b.(Real)
		if !ok {
			return nil, fmt.Errorf("type mismatch in arithmetic")
		}
		return Real(fop(float64(x), float64(y))), nil
	default:
		return nil, fmt.Errorf("arithmetic on a non-numeric value")
	}
}

func intFloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func intFloorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
