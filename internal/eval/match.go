package eval

import "github.com/loomlang/loom/internal/core"

// Match attempts to match v against pat, returning the bindings it
// produces (which the caller layers onto an Environment) and whether the
// match succeeded.
func Match(pat core.Pattern, v Value) (map[string]Value, bool) {
	binds := map[string]Value{}
	if matchInto(pat, v, binds) {
		return binds, true
	}
	return nil, false
}

func matchInto(pat core.Pattern, v Value, binds map[string]Value) bool {
	switch p := pat.(type) {
	case core.WildPat:
		return true
	case core.IdPat:
		binds[p.Name] = v
		return true
	case core.LitPat:
		return literalEquals(p.Value, v)
	case core.TuplePat:
		tup, ok := v.(*Tuple)
		if !ok || len(tup.Elems) != len(p.Elems) {
			return false
		}
		for i, sub := range p.Elems {
			if !matchInto(sub, tup.Elems[i], binds) {
				return false
			}
		}
		return true
	case core.RecordPat:
		rec, ok := v.(*Record)
		if !ok {
			return false
		}
		for _, f := range p.Fields {
			fv, ok := rec.Get(f.Label)
			if !ok || !matchInto(f.Pat, fv, binds) {
				return false
			}
		}
		return true
	case core.ConsPat:
		c, ok := v.(*Container)
		if !ok || len(c.Elems) == 0 {
			return false
		}
		if !matchInto(p.Head, c.Elems[0], binds) {
			return false
		}
		tail := &Container{Elems: c.Elems[1:], Kind: c.Kind}
		return matchInto(p.Tail, tail, binds)
	case core.NilPat:
		c, ok := v.(*Container)
		return ok && len(c.Elems) == 0
	case core.ConPat:
		cv, ok := v.(*Constructed)
		if !ok || cv.Ctor != p.Ctor {
			return false
		}
		if p.Arg == nil {
			return cv.Arg == nil
		}
		if cv.Arg == nil {
			return false
		}
		return matchInto(p.Arg, cv.Arg, binds)
	case core.AsPat:
		if !matchInto(p.Pat, v, binds) {
			return false
		}
		binds[p.Name] = v
		return true
	default:
		return false
	}
}

func literalEquals(lit any, v Value) bool {
	switch x := v.(type) {
	case Unit:
		return lit == nil
	case Bool:
		b, ok := lit.(bool)
		return ok && bool(x) == b
	case Int:
		n, ok := lit.(int64)
		return ok && int64(x) == n
	case Real:
		f, ok := lit.(float64)
		return ok && float64(x) == f
	case Char:
		c, ok := lit.(rune)
		return ok && rune(x) == c
	case Str:
		s, ok := lit.(string)
		return ok && string(x) == s
	default:
		return false
	}
}
