package xrd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReflectionsFCC(t *testing.T) {
	got, err := Reflections(FCC, 5)
	if err != nil {
		t.Fatalf("Reflections: %v", err)
	}
	want := []Reflection{
		{H: 1, K: 1, L: 1, Q: 3},
		{H: 2, K: 0, L: 0, Q: 4},
		{H: 2, K: 2, L: 0, Q: 8},
		{H: 3, K: 1, L: 1, Q: 11},
		{H: 2, K: 2, L: 2, Q: 12},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fcc reflections mismatch (-want +got):\n%s", diff)
	}
}

func TestReflectionsBCC(t *testing.T) {
	got, err := Reflections(BCC, 5)
	if err != nil {
		t.Fatalf("Reflections: %v", err)
	}
	want := []Reflection{
		{H: 1, K: 1, L: 0, Q: 2},
		{H: 2, K: 0, L: 0, Q: 4},
		{H: 2, K: 1, L: 1, Q: 6},
		{H: 2, K: 2, L: 0, Q: 8},
		{H: 3, K: 1, L: 0, Q: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bcc reflections mismatch (-want +got):\n%s", diff)
	}
}

func TestReflectionsAscendingAndDistinct(t *testing.T) {
	for _, hyp := range []Hypothesis{FCC, BCC} {
		t.Run(string(hyp), func(t *testing.T) {
			refl, err := Reflections(hyp, 24)
			if err != nil {
				t.Fatalf("Reflections: %v", err)
			}
			if len(refl) != 24 {
				t.Fatalf("got %d reflections, want 24", len(refl))
			}
			for i := 1; i < len(refl); i++ {
				if refl[i].Q <= refl[i-1].Q {
					t.Errorf("Q not strictly ascending at %d: %d then %d", i, refl[i-1].Q, refl[i].Q)
				}
			}
			for _, r := range refl {
				if r.Q != r.H*r.H+r.K*r.K+r.L*r.L {
					t.Errorf("%s: Q=%d does not match indices", r.Label(), r.Q)
				}
				if !allowed(hyp, r.H, r.K, r.L) {
					t.Errorf("%s violates the %s selection rule", r.Label(), hyp)
				}
			}
		})
	}
}

func TestReflectionsIdempotent(t *testing.T) {
	first, err := Reflections(FCC, 12)
	if err != nil {
		t.Fatalf("Reflections: %v", err)
	}
	second, err := Reflections(FCC, 12)
	if err != nil {
		t.Fatalf("Reflections: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated calls differ (-first +second):\n%s", diff)
	}

	// Mutating one result must not leak into the cache.
	second[0].Q = -1
	third, err := Reflections(FCC, 12)
	if err != nil {
		t.Fatalf("Reflections: %v", err)
	}
	if diff := cmp.Diff(first, third); diff != "" {
		t.Errorf("cache was mutated through a returned slice (-want +got):\n%s", diff)
	}
}

func TestReflectionsCanonicalLabel(t *testing.T) {
	refl, err := Reflections(FCC, 12)
	if err != nil {
		t.Fatalf("Reflections: %v", err)
	}
	// Q=27 is shared by (511) and (333); the conventional label is (511).
	for _, r := range refl {
		if r.Q == 27 && r.Label() != "(511)" {
			t.Errorf("Q=27 labelled %s, want (511)", r.Label())
		}
	}
}

func TestReflectionsBadInput(t *testing.T) {
	if _, err := Reflections(Hypothesis("hcp"), 5); err == nil {
		t.Error("unknown hypothesis should be rejected")
	}
	if _, err := Reflections(FCC, 0); err == nil {
		t.Error("non-positive count should be rejected")
	}
}
