package eval

import "sort"

// Equal reports structural value equality, used by distinct/union/
// intersect/except.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Real:
		y, ok := b.(Real)
		return ok && x == y
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case *Tuple:
		y, ok := b.(*Tuple)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Record:
		y, ok := b.(*Record)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Label != y.Fields[i].Label || !Equal(x.Fields[i].Value, y.Fields[i].Value) {
				return false
			}
		}
		return true
	case *Container:
		y, ok := b.(*Container)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Constructed:
		y, ok := b.(*Constructed)
		if !ok || x.Ctor != y.Ctor {
			return false
		}
		if x.Arg == nil || y.Arg == nil {
			return x.Arg == nil && y.Arg == nil
		}
		return Equal(x.Arg, y.Arg)
	default:
		return false
	}
}

// Compare implements the total order used by `order`/comparison operators
// over orderable values (numbers, strings, chars, bools, and tuples of
// orderable values, compared lexicographically).
func Compare(a, b Value) int {
	switch x := a.(type) {
	case Int:
		y := b.(Int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Real:
		y := b.(Real)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Str:
		y := b.(Str)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Char:
		y := b.(Char)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	case Bool:
		y := b.(Bool)
		if x == y {
			return 0
		}
		if !bool(x) {
			return -1
		}
		return 1
	case *Tuple:
		y := b.(*Tuple)
		for i := range x.Elems {
			if c := Compare(x.Elems[i], y.Elems[i]); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// SortByKey stable-sorts vals by applying key to each element and
// comparing the results with Compare.
func SortByKey(vals []Value, key func(Value) Value) {
	sort.SliceStable(vals, func(i, j int) bool {
		return Compare(key(vals[i]), key(vals[j])) < 0
	})
}
