package spiral

import (
	"fmt"
	"math/cmplx"
	"strings"
	"sync"
	"sync/atomic"
)

// RingTemplate is a radius-normalized, origin-centered copy of one arc
// group's geometry: every point divided by the base circle's radius after
// subtracting its center. Any congruent group reconstructs its outline as a
// pure rotate+scale+translate of the template, skipping stitching entirely.
type RingTemplate struct {
	ArcPoints  [][]complex128
	Outline    []complex128
	RefVector  complex128 // direction of the first drawn arc's start, unit-circle relative
	BaseRadius float64
	DrawnPairs []arcPair
}

// matchesPairs reports whether a group selected the same drawn-arc index
// pairs as the group this template was built from. A mismatch means the two
// are not congruent and the template must not be applied.
func (t *RingTemplate) matchesPairs(pairs []arcPair) bool {
	if len(t.DrawnPairs) != len(pairs) {
		return false
	}
	for i, pr := range pairs {
		if t.DrawnPairs[i] != pr {
			return false
		}
	}
	return true
}

// matchesGeometry reports whether the group's arcs are a rigid transform of
// the template's. Equal signatures are not enough: circles near the packing
// boundary borrow seam arcs from neighbors that sit differently (or are
// missing), so two groups with the same key can still differ. This aligns
// the template by its reference vector and compares every normalized arc
// endpoint, borrowed arcs included, within StitchTol.
func (t *RingTemplate) matchesGeometry(group *ArcGroup, c *Circle) bool {
	if len(t.ArcPoints) != len(group.Arcs) {
		return false
	}
	norm := func(p complex128) complex128 {
		return (p - c.Center) / complex(c.Radius, 0)
	}
	rot := norm(group.Arcs[0].Start) / t.RefVector
	if m := cmplx.Abs(rot); m > 0 {
		rot /= complex(m, 0)
	}
	for i, arc := range group.Arcs {
		if !samePoint(rot*t.ArcPoints[i][0], norm(arc.Start)) ||
			!samePoint(rot*t.ArcPoints[i][1], norm(arc.End)) {
			return false
		}
	}
	return true
}

// TemplateKey identifies a template by render parameters plus the geometric
// signature of the group it was built from. An equal key is necessary but
// not sufficient for congruence; matchesGeometry settles it.
type TemplateKey struct {
	P, Q      int
	T         float64
	Mode      ArcMode
	Gaps      int
	Signature string
}

// TemplateCache memoizes ring templates process-wide. Entries are immutable
// once inserted and never invalidated; the map only grows. It is injectable
// so tests can use a fresh cache per test.
type TemplateCache struct {
	mu      sync.RWMutex
	entries map[TemplateKey]*RingTemplate
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewTemplateCache returns an empty cache.
func NewTemplateCache() *TemplateCache {
	return &TemplateCache{entries: make(map[TemplateKey]*RingTemplate)}
}

// Get returns the cached template for key, if any.
func (tc *TemplateCache) Get(key TemplateKey) (*RingTemplate, bool) {
	tc.mu.RLock()
	tmpl, ok := tc.entries[key]
	tc.mu.RUnlock()

	if ok {
		tc.hits.Add(1)
	} else {
		tc.misses.Add(1)
	}
	return tmpl, ok
}

// PutIfAbsent inserts the template unless another writer got there first and
// returns the entry that won. Losing a race costs one redundant computation,
// never a torn entry.
func (tc *TemplateCache) PutIfAbsent(key TemplateKey, tmpl *RingTemplate) *RingTemplate {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if existing, ok := tc.entries[key]; ok {
		return existing
	}
	tc.entries[key] = tmpl
	return tmpl
}

// Len returns the number of cached templates.
func (tc *TemplateCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.entries)
}

// Stats returns cumulative hit/miss counts.
func (tc *TemplateCache) Stats() (hits, misses uint64) {
	return tc.hits.Load(), tc.misses.Load()
}

// templateKey derives the cache key for a group. The signature covers the
// ring index, the exact drawn-arc index pairs, and the neighbor/arc counts
// that shape the borrowed seams.
//
// When p = q the packing is fully rotationally symmetric and every circle of
// a ring is a rotated clone of the first, so the drawn pairs are dropped
// from the signature and one ring master serves the whole ring. The random
// mode is excluded: its per-circle seeds break within-ring congruence.
func (as *assembler) templateKey(c *Circle, group *ArcGroup) TemplateKey {
	var sig strings.Builder
	fmt.Fprintf(&sig, "r%d|n%d|a%d", group.RingIndex, len(c.Intersections), len(group.Arcs))
	if as.params.P != as.params.Q || as.params.ArcMode == ModeRandom {
		sig.WriteByte('|')
		for i, pr := range group.Pairs {
			if i > 0 {
				sig.WriteByte(',')
			}
			fmt.Fprintf(&sig, "%d-%d", pr.I, pr.J)
		}
	}
	return TemplateKey{
		P:         as.params.P,
		Q:         as.params.Q,
		T:         as.params.T,
		Mode:      as.params.ArcMode,
		Gaps:      as.params.NumGaps,
		Signature: sig.String(),
	}
}

// buildTemplate normalizes a fully stitched group relative to its own
// circle.
func buildTemplate(group *ArcGroup, c *Circle) *RingTemplate {
	norm := func(p complex128) complex128 {
		return (p - c.Center) / complex(c.Radius, 0)
	}

	tmpl := &RingTemplate{BaseRadius: c.Radius, DrawnPairs: group.Pairs}
	tmpl.RefVector = norm(group.Arcs[0].Start)
	tmpl.Outline = make([]complex128, len(group.Outline))
	for i, p := range group.Outline {
		tmpl.Outline[i] = norm(p)
	}
	tmpl.ArcPoints = make([][]complex128, len(group.Arcs))
	for i, arc := range group.Arcs {
		// Arc endpoints relative to the template circle; matchesGeometry
		// compares candidate groups against these.
		tmpl.ArcPoints[i] = []complex128{norm(arc.Start), norm(arc.End)}
	}
	return tmpl
}

// applyTemplate reconstructs a group outline from a template by aligning the
// template's reference vector with the group's actual first drawn arc start,
// then rotating, scaling, and translating every template point.
func applyTemplate(group *ArcGroup, c *Circle, tmpl *RingTemplate) {
	actual := (group.Arcs[0].Start - c.Center) / complex(c.Radius, 0)
	rot := actual / tmpl.RefVector
	if m := cmplx.Abs(rot); m > 0 {
		rot /= complex(m, 0) // pure rotation, no residual scale
	}

	group.Outline = make([]complex128, len(tmpl.Outline))
	scale := complex(c.Radius, 0)
	for i, p := range tmpl.Outline {
		group.Outline[i] = c.Center + scale*rot*p
	}
}
