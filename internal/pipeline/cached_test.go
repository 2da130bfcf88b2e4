package pipeline

import (
	"testing"

	"github.com/loomlang/loom/internal/env"
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/resolve"
)

func TestRunStatementCachesAcrossIdenticalCalls(t *testing.T) {
	p, sess := newSession()

	sess1, binds1, _, err := p.RunStatement("test", "val x = 1 + 2;", sess)
	if err != nil {
		t.Fatalf("first RunStatement: %v", err)
	}
	if p.Cache.Len() != 1 {
		t.Fatalf("expected one cache entry after the first run, got %d", p.Cache.Len())
	}

	// A second, independent session sharing the same Pipeline (and so
	// the same Registry) starting over from the base environment should
	// hit the cache for the identical statement text.
	sess0 := env.New(resolve.BaseTypeEnv(p.Reg), eval.BaseEnv())
	sess2, binds2, _, err := p.RunStatement("test", "val x = 1 + 2;", sess0)
	if err != nil {
		t.Fatalf("second RunStatement: %v", err)
	}
	if len(binds1) != 1 || len(binds2) != 1 || binds1[0].Name != binds2[0].Name {
		t.Fatalf("expected matching bindings across both runs, got %v and %v", binds1, binds2)
	}
	if binds2[0].Value.String() != "3" {
		t.Fatalf("expected the cached replay to still evaluate to 3, got %v", binds2[0].Value)
	}
	if _, ok := sess1.Lookup("x"); !ok {
		t.Fatalf("expected x bound in the first session")
	}
	if _, ok := sess2.Lookup("x"); !ok {
		t.Fatalf("expected x bound in the second (cache-hit) session")
	}
}

func TestRunStatementDatatypeDeclBypassesCache(t *testing.T) {
	p, sess := newSession()
	before := p.Cache.Len()
	_, _, _, err := p.RunStatement("test", "datatype color = RED | GREEN | BLUE;", sess)
	if err != nil {
		t.Fatalf("RunStatement: %v", err)
	}
	if p.Cache.Len() != before {
		t.Fatalf("expected a datatype declaration to never populate the cache")
	}
}
