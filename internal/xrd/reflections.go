package xrd

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultMaxReflectionCount is the default reflection table length. It
// comfortably exceeds the number of peaks a lab powder scan resolves.
const DefaultMaxReflectionCount = 12

// maxMillerIndex bounds the (h,k,l) enumeration. Index 12 gives distinct
// Q values past 400, far more than any supported table length needs.
const maxMillerIndex = 12

type reflectionKey struct {
	hypothesis Hypothesis
	n          int
}

var (
	reflectionMu    sync.Mutex
	reflectionCache = map[reflectionKey][]Reflection{}
)

// Reflections returns the first n allowed reflections for a cubic
// lattice hypothesis, ascending by Q = h²+k²+l². Several index triples
// can share the same Q; each Q appears once, labelled by its
// conventional triple (largest in lexicographic h ≥ k ≥ l order, so Q=27
// reads (511) rather than (333)).
//
// Selection rules: fcc requires h, k, l all even or all odd; bcc
// requires h+k+l even. The result is a pure function of (hypothesis, n)
// and is cached; callers receive a fresh copy they may keep.
func Reflections(hypothesis Hypothesis, n int) ([]Reflection, error) {
	if hypothesis != FCC && hypothesis != BCC {
		return nil, fmt.Errorf("unknown lattice hypothesis %q", hypothesis)
	}
	if n <= 0 {
		return nil, fmt.Errorf("reflection count must be positive, got %d", n)
	}

	key := reflectionKey{hypothesis, n}
	reflectionMu.Lock()
	cached, ok := reflectionCache[key]
	reflectionMu.Unlock()
	if ok {
		return append([]Reflection(nil), cached...), nil
	}

	byQ := map[int]Reflection{}
	for h := 0; h <= maxMillerIndex; h++ {
		for k := 0; k <= h; k++ {
			for l := 0; l <= k; l++ {
				if h == 0 && k == 0 && l == 0 {
					continue
				}
				if !allowed(hypothesis, h, k, l) {
					continue
				}
				q := h*h + k*k + l*l
				r := Reflection{H: h, K: k, L: l, Q: q}
				if prev, seen := byQ[q]; !seen || lexGreater(r, prev) {
					byQ[q] = r
				}
			}
		}
	}

	all := make([]Reflection, 0, len(byQ))
	for _, r := range byQ {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Q < all[j].Q })
	if n < len(all) {
		all = all[:n]
	}

	reflectionMu.Lock()
	reflectionCache[key] = all
	reflectionMu.Unlock()
	return append([]Reflection(nil), all...), nil
}

// allowed applies the structure factor selection rule.
func allowed(hypothesis Hypothesis, h, k, l int) bool {
	switch hypothesis {
	case FCC:
		allEven := h%2 == 0 && k%2 == 0 && l%2 == 0
		allOdd := h%2 == 1 && k%2 == 1 && l%2 == 1
		return allEven || allOdd
	case BCC:
		return (h+k+l)%2 == 0
	}
	return false
}

func lexGreater(a, b Reflection) bool {
	if a.H != b.H {
		return a.H > b.H
	}
	if a.K != b.K {
		return a.K > b.K
	}
	return a.L > b.L
}
