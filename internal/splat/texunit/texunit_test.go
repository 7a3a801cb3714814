package texunit

import (
	"errors"
	"strings"
	"testing"
)

func TestReserveLowestFree(t *testing.T) {
	p := NewPool(4, map[int]string{0: "Terrain Color", 2: "Terrain Elevation"})

	u, err := p.Reserve("Splat Noise")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if u != 1 {
		t.Errorf("expected unit 1, got %d", u)
	}

	u, err = p.Reserve("LandCover")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if u != 3 {
		t.Errorf("expected unit 3, got %d", u)
	}

	if label, _ := p.Label(3); label != "LandCover" {
		t.Errorf("expected label LandCover, got %q", label)
	}
	if p.Available() != 0 {
		t.Errorf("expected 0 available, got %d", p.Available())
	}
}

func TestReserveExhausted(t *testing.T) {
	p := NewPool(1, nil)
	if _, err := p.Reserve("first"); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	u, err := p.Reserve("second")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if u != -1 {
		t.Errorf("expected -1 on exhaustion, got %d", u)
	}
	if !strings.Contains(err.Error(), "second") {
		t.Errorf("error should name the label: %v", err)
	}
}

func TestReleaseRestoresPool(t *testing.T) {
	p := NewPool(2, nil)
	before := p.Reserved()

	a, _ := p.Reserve("a")
	b, _ := p.Reserve("b")
	if err := p.Release(b); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := p.Release(a); err != nil {
		t.Fatalf("release: %v", err)
	}

	if len(p.Reserved()) != len(before) {
		t.Errorf("pool not restored: %s", p)
	}
	if err := p.Release(a); !errors.Is(err, ErrNotReserved) {
		t.Errorf("expected ErrNotReserved on double release, got %v", err)
	}
}

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(0, map[int]string{99: "out of range"})
	if p.Size() != DefaultUnits {
		t.Errorf("expected default size %d, got %d", DefaultUnits, p.Size())
	}
	if p.Available() != DefaultUnits {
		t.Errorf("out-of-range pre-reservation should be ignored, available=%d", p.Available())
	}
}

func TestReservedIsSnapshot(t *testing.T) {
	p := NewPool(2, nil)
	p.Reserve("a")
	snap := p.Reserved()
	snap[1] = "mutated"
	if _, ok := p.Label(1); ok {
		t.Error("mutating the snapshot must not affect the pool")
	}
}
