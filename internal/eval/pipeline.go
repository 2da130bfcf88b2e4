package eval

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/core"
)

// row is one in-flight tuple of a relational pipeline: the accumulated
// scan-pattern bindings visible to later steps, plus (after a Yield or
// Compute step) the single projected "it" value that later steps see
// under the synthetic name "it".
type row struct {
	binds map[string]Value
}

func (ev *Evaluator) evalPipeline(p *core.Pipeline, env *Environment) (Value, error) {
	rows := []row{{binds: map[string]Value{}}}
	var projected []Value // set once a Yield/Compute step runs; nil means "still row-shaped"

	for _, step := range p.Steps {
		var err error
		rows, projected, err = ev.stepPipeline(step, rows, projected, env)
		if err != nil {
			return nil, err
		}
	}

	switch p.Kind {
	case core.PipelineExists:
		return Bool(len(rows) > 0 || len(projected) > 0), nil
	case core.PipelineForall:
		for _, r := range rows {
			v, err := ev.Eval(p.Require, rowEnv(env, r))
			if err != nil {
				return nil, err
			}
			if b, ok := v.(Bool); !ok || !bool(b) {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	default:
		if projected != nil {
			return &Container{Elems: projected, Kind: KindList}, nil
		}
		// No explicit yield: each row becomes the value of its single
		// bound variable, or a record of all its bound variables keyed
		// by name (see rowToValue).
		out := make([]Value, len(rows))
		for i, r := range rows {
			out[i] = rowToValue(r)
		}
		return &Container{Elems: out, Kind: KindList}, nil
	}
}

func rowEnv(env *Environment, r row) *Environment {
	return env.ExtendAll(r.binds)
}

func rowToValue(r row) Value {
	if v, ok := r.binds["it"]; ok && len(r.binds) == 1 {
		return v
	}
	names := make([]string, 0, len(r.binds))
	for n := range r.binds {
		names = append(names, n)
	}
	if len(names) == 1 {
		return r.binds[names[0]]
	}
	fields := make([]RecordField, 0, len(r.binds))
	for n, v := range r.binds {
		fields = append(fields, RecordField{Label: n, Value: v})
	}
	SortRecordFields(fields)
	return &Record{Fields: fields}
}

// SortRecordFields sorts fields into canonical label order.
func SortRecordFields(fields []RecordField) {
	for i := 1; i < len(fields); i++ {
		for j := i; j > 0 && canonicalLess(fields[j].Label, fields[j-1].Label); j-- {
			fields[j], fields[j-1] = fields[j-1], fields[j]
		}
	}
}

func (ev *Evaluator) stepPipeline(step core.Step, rows []row, projected []Value, env *Environment) ([]row, []Value, error) {
	switch s := step.(type) {
	case core.ScanStep:
		return ev.stepScan(s, rows, env)

	case core.WhereStep:
		var out []row
		for _, r := range rows {
			v, err := ev.Eval(s.Cond, rowEnv(env, r))
			if err != nil {
				return nil, nil, err
			}
			if b, ok := v.(Bool); ok && bool(b) {
				out = append(out, r)
			}
		}
		return out, projected, nil

	case core.OrderStep:
		keyed := make([]Value, len(rows))
		for i, r := range rows {
			v, err := ev.Eval(s.Key, rowEnv(env, r))
			if err != nil {
				return nil, nil, err
			}
			keyed[i] = v
		}
		idx := make([]int, len(rows))
		for i := range idx {
			idx[i] = i
		}
		for i := 1; i < len(idx); i++ {
			for j := i; j > 0 && Compare(keyed[idx[j]], keyed[idx[j-1]]) < 0; j-- {
				idx[j], idx[j-1] = idx[j-1], idx[j]
			}
		}
		out := make([]row, len(rows))
		for i, k := range idx {
			out[i] = rows[k]
		}
		return out, projected, nil

	case core.TakeStep:
		v, err := ev.Eval(s.N, env)
		if err != nil {
			return nil, nil, err
		}
		n := int(v.(Int))
		if n > len(rows) {
			n = len(rows)
		}
		if n < 0 {
			n = 0
		}
		return rows[:n], projected, nil

	case core.SkipStep:
		v, err := ev.Eval(s.N, env)
		if err != nil {
			return nil, nil, err
		}
		n := int(v.(Int))
		if n > len(rows) {
			n = len(rows)
		}
		if n < 0 {
			n = 0
		}
		return rows[n:], projected, nil

	case core.YieldStep:
		out := make([]Value, len(rows))
		for i, r := range rows {
			v, err := ev.Eval(s.Expr, rowEnv(env, r))
			if err != nil {
				return nil, nil, err
			}
			out[i] = v
		}
		newRows := make([]row, len(out))
		for i, v := range out {
			newRows[i] = row{binds: map[string]Value{"it": v}}
		}
		return newRows, out, nil

	case core.ComputeStep:
		v, err := ev.Eval(s.Expr, env)
		if err != nil {
			return nil, nil, err
		}
		return []row{{binds: map[string]Value{"it": v}}}, []Value{v}, nil

	case core.DistinctStep:
		var out []row
		var seen []Value
		for _, r := range rows {
			val := rowToValue(r)
			dup := false
			for _, s := range seen {
				if Equal(s, val) {
					dup = true
					break
				}
			}
			if !dup {
				seen = append(seen, val)
				out = append(out, r)
			}
		}
		return out, projected, nil

	case core.UnorderStep:
		return rows, projected, nil

	case core.SetOpStep:
		return ev.stepSetOp(s, env)

	case core.GroupStep:
		return ev.stepGroup(s, rows, env)

	case core.IntoStep, core.ThroughStep:
		// Routing a relation through/into another computation; evaluated
		// as applying the destination function to the container of
		// current values, which matches the common `into f` usage where
		// f consumes the whole relation at once.
		var dest core.Expr
		switch d := step.(type) {
		case core.IntoStep:
			dest = d.Expr
		case core.ThroughStep:
			dest = d.Expr
		}
		container := &Container{Kind: KindList}
		for _, r := range rows {
			container.Elems = append(container.Elems, rowToValue(r))
		}
		fn, err := ev.Eval(dest, env)
		if err != nil {
			return nil, nil, err
		}
		result, err := ev.apply(fn, container, ast.Pos{})
		if err != nil {
			return nil, nil, err
		}
		if c, ok := result.(*Container); ok {
			newRows := make([]row, len(c.Elems))
			for i, v := range c.Elems {
				newRows[i] = row{binds: map[string]Value{"it": v}}
			}
			return newRows, c.Elems, nil
		}
		return rows, []Value{result}, nil

	default:
		return rows, projected, nil
	}
}

func (ev *Evaluator) stepScan(s core.ScanStep, rows []row, env *Environment) ([]row, []Value, error) {
	var out []row
	for _, r := range rows {
		src, err := ev.Eval(s.Source, rowEnv(env, r))
		if err != nil {
			return nil, nil, err
		}
		c, ok := src.(*Container)
		if !ok {
			continue
		}
		for _, elem := range c.Elems {
			binds, matched := Match(s.Pat, elem)
			if !matched {
				continue
			}
			merged := map[string]Value{}
			for k, v := range r.binds {
				merged[k] = v
			}
			for k, v := range binds {
				merged[k] = v
			}
			if s.On != nil {
				cond, err := ev.Eval(s.On, env.ExtendAll(merged))
				if err != nil {
					return nil, nil, err
				}
				if b, ok := cond.(Bool); !ok || !bool(b) {
					continue
				}
			}
			out = append(out, row{binds: merged})
		}
	}
	return out, nil, nil
}

// stepGroup implements a simplified nested-relational group/compute: rows
// sharing an equal Key value are collected into one output row where
// every originally-scanned variable is rebound to the bag of its values
// across the group, available to a `compute` expression as an `over`
// aggregate source. This covers the common `group k = ... compute agg =
// f over x of e` shape; it does not implement arbitrary grouping-key
// expressions that introduce new bound names beyond re-use of existing
// scan variables.
func (ev *Evaluator) stepGroup(s core.GroupStep, rows []row, env *Environment) ([]row, []Value, error) {
	type bucket struct {
		key  Value
		rows []row
	}
	var buckets []*bucket
	for _, r := range rows {
		k, err := ev.Eval(s.Key, rowEnv(env, r))
		if err != nil {
			return nil, nil, err
		}
		var b *bucket
		for _, cand := range buckets {
			if Equal(cand.key, k) {
				b = cand
				break
			}
		}
		if b == nil {
			b = &bucket{key: k}
			buckets = append(buckets, b)
		}
		b.rows = append(b.rows, r)
	}

	out := make([]row, len(buckets))
	for i, b := range buckets {
		binds := map[string]Value{"key": b.key}
		if len(b.rows) > 0 {
			for name := range b.rows[0].binds {
				elems := make([]Value, len(b.rows))
				for j, r := range b.rows {
					elems[j] = r.binds[name]
				}
				binds[name] = &Container{Elems: elems, Kind: KindBag}
			}
		}
		if s.Compute != nil {
			v, err := ev.Eval(s.Compute, env.ExtendAll(binds))
			if err != nil {
				return nil, nil, err
			}
			binds["compute"] = v
		}
		out[i] = row{binds: binds}
	}
	return out, nil, nil
}

func (ev *Evaluator) stepSetOp(s core.SetOpStep, env *Environment) ([]row, []Value, error) {
	var sets [][]Value
	for _, src := range s.Sources {
		v, err := ev.Eval(src, env)
		if err != nil {
			return nil, nil, err
		}
		c, ok := v.(*Container)
		if !ok {
			continue
		}
		sets = append(sets, c.Elems)
	}
	var out []Value
	switch s.Kind {
	case core.SetUnion:
		for _, set := range sets {
			out = append(out, set...)
		}
	case core.SetIntersect:
		if len(sets) > 0 {
			out = sets[0]
			for _, set := range sets[1:] {
				out = intersectValues(out, set)
			}
		}
	case core.SetExcept:
		if len(sets) > 0 {
			out = sets[0]
			for _, set := range sets[1:] {
				out = exceptValues(out, set)
			}
		}
	}
	if s.Distinct {
		out = distinctValues(out)
	}
	rows := make([]row, len(out))
	for i, v := range out {
		rows[i] = row{binds: map[string]Value{"it": v}}
	}
	return rows, out, nil
}

func intersectValues(a, b []Value) []Value {
	var out []Value
	for _, v := range a {
		for _, w := range b {
			if Equal(v, w) {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func exceptValues(a, b []Value) []Value {
	var out []Value
	for _, v := range a {
		found := false
		for _, w := range b {
			if Equal(v, w) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}

func distinctValues(in []Value) []Value {
	var out []Value
	for _, v := range in {
		dup := false
		for _, w := range out {
			if Equal(v, w) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
