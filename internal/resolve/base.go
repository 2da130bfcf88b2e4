package resolve

import "github.com/loomlang/loom/internal/types"

// BaseTypeEnv returns the type environment binding every operator
// identifier internal/eval.BaseEnv gives a runtime value to, so that
// `internal/lower`'s operator lowering (which targets those same
// identifiers) always resolves against a typed binding. Grounded on the
// teacher's InferenceContext seeding a base TypeEnv with primitive
// operator signatures before inference begins.
func BaseTypeEnv(reg *types.Registry) *types.Env {
	env := types.NewEnv()
	intT := reg.PrimType(types.Int)
	realT := reg.PrimType(types.Real)
	boolT := reg.PrimType(types.Bool)
	strT := reg.PrimType(types.String)

	binOp := func(a, b, r types.Type) *types.Scheme { return types.Mono(reg.Fn(a, reg.Fn(b, r))) }

	env = env.Extend("+", numericBinOpScheme(reg))
	env = env.Extend("-", numericBinOpScheme(reg))
	env = env.Extend("*", numericBinOpScheme(reg))
	env = env.Extend("/", binOp(realT, realT, realT))
	env = env.Extend("div", binOp(intT, intT, intT))
	env = env.Extend("mod", binOp(intT, intT, intT))
	env = env.Extend("^", binOp(strT, strT, strT))
	env = env.Extend("not", types.Mono(reg.Fn(boolT, boolT)))
	env = env.Extend("~", numericUnOpScheme(reg))

	// Polymorphic comparisons: 'a -> 'a -> bool.
	a := reg.Var("$cmp_a")
	env = env.Extend("=", types.Generalize(env, reg.Fn(a, reg.Fn(a, boolT)), reg))
	a = reg.Var("$cmp_b")
	env = env.Extend("<>", types.Generalize(env, reg.Fn(a, reg.Fn(a, boolT)), reg))
	a = reg.Var("$ord_a")
	env = env.Extend("<", types.Generalize(env, reg.Fn(a, reg.Fn(a, boolT)), reg))
	a = reg.Var("$ord_b")
	env = env.Extend("<=", types.Generalize(env, reg.Fn(a, reg.Fn(a, boolT)), reg))
	a = reg.Var("$ord_c")
	env = env.Extend(">", types.Generalize(env, reg.Fn(a, reg.Fn(a, boolT)), reg))
	a = reg.Var("$ord_d")
	env = env.Extend(">=", types.Generalize(env, reg.Fn(a, reg.Fn(a, boolT)), reg))

	// List operators: 'a -> 'a list -> 'a list, 'a list -> 'a list -> 'a list.
	elem := reg.Var("$cons_a")
	listElem := reg.Container(elem, types.KindList)
	env = env.Extend("::", types.Generalize(env, reg.Fn(elem, reg.Fn(listElem, listElem)), reg))
	elem2 := reg.Var("$append_a")
	listElem2 := reg.Container(elem2, types.KindList)
	env = env.Extend("@", types.Generalize(env, reg.Fn(listElem2, reg.Fn(listElem2, listElem2)), reg))
	elem3 := reg.Var("$elem_a")
	listElem3 := reg.Container(elem3, types.KindList)
	env = env.Extend("elem", types.Generalize(env, reg.Fn(elem3, reg.Fn(listElem3, boolT)), reg))

	return env
}

func numericBinOpScheme(reg *types.Registry) *types.Scheme {
	// `+`, `-` and `*` are typed monomorphically over int: real operands
	// do not type-check against them, and no call site picks a real
	// instance. `/` is kept real-only and `div`/`mod` int-only, mirroring AILang's
	// approach of not generalizing arithmetic over a numeric typeclass
	// since the Language has no typeclasses for arithmetic (Non-goal).
	intT := reg.PrimType(types.Int)
	return types.Mono(reg.Fn(intT, reg.Fn(intT, intT)))
}

func numericUnOpScheme(reg *types.Registry) *types.Scheme {
	intT := reg.PrimType(types.Int)
	return types.Mono(reg.Fn(intT, intT))
}
