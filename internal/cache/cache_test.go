package cache

import "testing"

func TestGetMissThenHit(t *testing.T) {
	c := New(2)
	key := Key{Source: "val x = 1", EnvFinger: "abc"}
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected a miss on an empty cache")
	}
	c.Put(key, Entry{})
	if _, ok := c.Get(key); !ok {
		t.Fatalf("expected a hit after Put")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	a := Key{Source: "a"}
	b := Key{Source: "b"}
	d := Key{Source: "d"}
	c.Put(a, Entry{})
	c.Put(b, Entry{})
	c.Get(a) // a is now most-recently-used; b is least-recently-used
	c.Put(d, Entry{})

	if _, ok := c.Get(b); ok {
		t.Fatalf("expected b to have been evicted")
	}
	if _, ok := c.Get(a); !ok {
		t.Fatalf("expected a to survive eviction")
	}
	if _, ok := c.Get(d); !ok {
		t.Fatalf("expected d to be present")
	}
	if c.Len() != 2 {
		t.Fatalf("expected cache to hold exactly 2 entries, got %d", c.Len())
	}
}

func TestZeroCapacityDisablesCaching(t *testing.T) {
	c := New(0)
	key := Key{Source: "val x = 1"}
	c.Put(key, Entry{})
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected a zero-capacity cache to never hit")
	}
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := Fingerprint(map[string]string{"x": "int", "y": "bool"})
	b := Fingerprint(map[string]string{"y": "bool", "x": "int"})
	if a != b {
		t.Fatalf("expected order-independent fingerprints, got %q and %q", a, b)
	}
	c := Fingerprint(map[string]string{"x": "int"})
	if a == c {
		t.Fatalf("expected different binding sets to fingerprint differently")
	}
}
