package pipeline

import (
	"github.com/loomlang/loom/internal/ast"
	"github.com/loomlang/loom/internal/cache"
	"github.com/loomlang/loom/internal/env"
	"github.com/loomlang/loom/internal/errors"
	"github.com/loomlang/loom/internal/lower"
	"github.com/loomlang/loom/internal/resolve"
	"github.com/loomlang/loom/internal/types"
)

// RunStatement parses and runs one REPL statement, consulting the
// process-wide Cache first: a hit re-publishes the statement's
// previously resolved name/scheme pairs and re-evaluates its previously
// lowered core IR directly, skipping parse/resolve/lower. The cache key
// pairs the statement's own (trimmed) source text with a fingerprint of
// every name currently visible in sess, so a shadowing redeclaration (a
// later `val x = ...` changing what `x` means before this statement
// runs again) never reuses a stale entry.
func (p *Pipeline) RunStatement(file, src string, sess *env.Session) (*env.Session, []env.Binding, []*errors.Report, error) {
	key := cache.Key{Source: canonicalStatement(src), EnvFinger: cache.Fingerprint(typeSummary(sess))}

	if entry, ok := p.Cache.Get(key); ok {
		sess, binds, err := p.replayCached(entry, sess)
		return sess, binds, entry.Warnings, err
	}

	decl, err := ParseStatement(src, file)
	if err != nil {
		return sess, nil, nil, err
	}
	if decl == nil {
		return sess, nil, nil, nil
	}

	if _, ok := decl.(*ast.DatatypeDecl); ok {
		// Datatype declarations mutate the shared type Registry as a
		// side effect of lowering (internal/lower.lowerDatatypeDecl), so
		// caching them would either skip that mutation on a hit (wrong:
		// the Registry wouldn't see the datatype) or require replaying
		// it anyway (no benefit). Run them the ordinary, uncached way.
		return p.RunDecl(file, decl, sess)
	}

	r := resolve.New(p.Reg, file)
	newTypes, named, err := r.InferDecl(decl, sess.Types)
	if err != nil {
		return sess, nil, nil, err
	}
	binds, err := p.Lowerer.LowerDecl(decl)
	warnings := p.Lowerer.DrainWarnings()
	if err != nil {
		return sess, nil, warnings, err
	}

	cached := cache.Entry{Bindings: binds, Warnings: warnings}
	for _, nt := range named {
		if scheme, ok := newTypes.Lookup(nt.Name); ok {
			cached.Named = append(cached.Named, cache.NamedType{Name: nt.Name, Scheme: scheme})
		}
	}
	p.Cache.Put(key, cached)

	sess2, binds2, err := p.publish(sess, newTypes, binds, named)
	return sess2, binds2, warnings, err
}

// replayCached re-evaluates a cache hit's lowered bindings and
// re-extends the type environment with its cached name/scheme pairs,
// without touching the parser, resolver, or lowerer.
func (p *Pipeline) replayCached(entry cache.Entry, sess *env.Session) (*env.Session, []env.Binding, error) {
	newValues, produced, err := evalBindings(p.Eval, sess.Values, entry.Bindings)
	if err != nil {
		return sess, nil, err
	}
	newTypes := sess.Types
	var out []env.Binding
	for _, nt := range entry.Named {
		newTypes = newTypes.Extend(nt.Name, nt.Scheme)
		out = append(out, env.Binding{Name: nt.Name, Scheme: nt.Scheme, Value: produced[nt.Name]})
	}
	return &env.Session{Types: newTypes, Values: newValues}, out, nil
}

func (p *Pipeline) publish(sess *env.Session, newTypes *types.Env, binds []lower.Binding, named []resolve.NamedType) (*env.Session, []env.Binding, error) {
	newValues, produced, err := evalBindings(p.Eval, sess.Values, binds)
	if err != nil {
		return sess, nil, err
	}
	var out []env.Binding
	for _, nt := range named {
		scheme, _ := newTypes.Lookup(nt.Name)
		out = append(out, env.Binding{Name: nt.Name, Scheme: scheme, Value: produced[nt.Name]})
	}
	return &env.Session{Types: newTypes, Values: newValues}, out, nil
}

// typeSummary captures every name visible in sess as name -> printed
// type, the input cache.Fingerprint hashes into the cache key's
// environment half.
func typeSummary(sess *env.Session) map[string]string {
	out := map[string]string{}
	for _, name := range sess.Names() {
		if b, ok := sess.Lookup(name); ok && b.Scheme != nil && b.Scheme.Body != nil {
			out[name] = b.Scheme.Body.String()
		}
	}
	return out
}

// canonicalStatement trims incidental whitespace so that two statements
// differing only in leading/trailing space or a missing trailing `;`
// share a cache entry.
func canonicalStatement(src string) string {
	s := src
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\n' || s[len(s)-1] == '\r' || s[len(s)-1] == ';') {
		s = s[:len(s)-1]
	}
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
		s = s[1:]
	}
	return s
}
