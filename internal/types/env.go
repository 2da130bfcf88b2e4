package types

// Env is a persistent, layered dictionary from name to type scheme, used
// during inference. Extending an Env never mutates the parent, so a
// captured Env (e.g. inside a closure's inferred type) keeps seeing
// exactly the bindings visible at capture time. A deep
// chain of single-binding layers is flattened into a fresh map once it
// passes flattenThreshold, bounding lookup cost for long-lived REPL
// sessions without giving up immutability of already-shared Envs.
type Env struct {
	parent *Env
	local  map[string]*Scheme
	depth  int
}

const flattenThreshold = 32

// NewEnv returns an empty root environment.
func NewEnv() *Env {
	return &Env{local: map[string]*Scheme{}}
}

// Lookup finds the scheme bound to name, searching outward through parent
// layers.
func (e *Env) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.local[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// Extend returns a new Env with name bound to scheme, shadowing any
// existing binding, without mutating e.
func (e *Env) Extend(name string, scheme *Scheme) *Env {
	if e.depth >= flattenThreshold {
		flat := e.flatten()
		flat[name] = scheme
		return &Env{local: flat}
	}
	return &Env{parent: e, local: map[string]*Scheme{name: scheme}, depth: e.depth + 1}
}

// ExtendAll binds several names at once, as a single new layer.
func (e *Env) ExtendAll(binds map[string]*Scheme) *Env {
	if e.depth >= flattenThreshold {
		flat := e.flatten()
		for k, v := range binds {
			flat[k] = v
		}
		return &Env{local: flat}
	}
	return &Env{parent: e, local: binds, depth: e.depth + 1}
}

func (e *Env) flatten() map[string]*Scheme {
	out := map[string]*Scheme{}
	var layers []*Env
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

// Names returns every name bound anywhere in the environment (for `:env`-
// style REPL listings); a name shadowed in an inner layer appears once.
func (e *Env) Names() []string {
	seen := map[string]bool{}
	var out []string
	for env := e; env != nil; env = env.parent {
		for k := range env.local {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// FreeVars returns the union of free type variables occurring anywhere in
// the environment's bound schemes (their bodies only; quantified Vars of
// each scheme are bound, not free).
func (e *Env) FreeVars() map[string]bool {
	out := map[string]bool{}
	for env := e; env != nil; env = env.parent {
		for _, s := range env.local {
			free := FreeVars(s.Body)
			for _, v := range s.Vars {
				delete(free, v)
			}
			for v := range free {
				out[v] = true
			}
		}
	}
	return out
}
