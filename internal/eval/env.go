package eval

// Environment is a persistent, layered, parent-pointer variable
// environment, kept immutable: Extend never mutates the receiver, so a
// Closure that captured an
// Environment keeps seeing exactly the bindings visible when it was
// created even as the REPL keeps extending the top-level one. A chain
// deeper than flattenThreshold is collapsed into one fresh map, bounding
// lookup cost in long REPL sessions.
type Environment struct {
	parent *Environment
	local  map[string]Value
	depth  int
}

const flattenThreshold = 32

// NewEnvironment returns an empty root environment.
func NewEnvironment() *Environment {
	return &Environment{local: map[string]Value{}}
}

// Get looks up name, searching outward through parent layers.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.local[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Extend returns a new Environment with name bound to value, shadowing
// any existing binding, without mutating e.
func (e *Environment) Extend(name string, value Value) *Environment {
	if e.depth >= flattenThreshold {
		flat := e.flatten()
		flat[name] = value
		return &Environment{local: flat}
	}
	return &Environment{parent: e, local: map[string]Value{name: value}, depth: e.depth + 1}
}

// ExtendAll binds several names as a single new layer, used for
// recursive `let`/`val rec` groups that must all see each other.
func (e *Environment) ExtendAll(binds map[string]Value) *Environment {
	if e.depth >= flattenThreshold {
		flat := e.flatten()
		for k, v := range binds {
			flat[k] = v
		}
		return &Environment{local: flat}
	}
	return &Environment{parent: e, local: binds, depth: e.depth + 1}
}

// SetLocal mutates the current layer in place; only used to tie the knot
// for `val rec`/mutually recursive function closures immediately after
// ExtendAll creates their shared layer, before the environment is ever
// shared outside the binding group.
func (e *Environment) SetLocal(name string, value Value) {
	e.local[name] = value
}

func (e *Environment) flatten() map[string]Value {
	out := map[string]Value{}
	var layers []*Environment
	for env := e; env != nil; env = env.parent {
		layers = append(layers, env)
	}
	for i := len(layers) - 1; i >= 0; i-- {
		for k, v := range layers[i].local {
			out[k] = v
		}
	}
	return out
}
