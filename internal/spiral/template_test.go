package spiral

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemplateCacheBasics exercises insert-if-absent semantics and the
// hit/miss counters.
func TestTemplateCacheBasics(t *testing.T) {
	cache := NewTemplateCache()
	key := TemplateKey{P: 16, Q: 16, Mode: ModeClosest, Gaps: 2, Signature: "r0|n6|a8"}

	_, ok := cache.Get(key)
	assert.False(t, ok)

	first := &RingTemplate{BaseRadius: 1}
	assert.Same(t, first, cache.PutIfAbsent(key, first))

	// A losing writer gets the entry that won.
	second := &RingTemplate{BaseRadius: 2}
	assert.Same(t, first, cache.PutIfAbsent(key, second))
	assert.Equal(t, 1, cache.Len())

	got, ok := cache.Get(key)
	require.True(t, ok)
	assert.Same(t, first, got)

	hits, misses := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

// TestTemplateMatchesPairs verifies a template refuses groups whose drawn
// pairs differ from the group it was built from.
func TestTemplateMatchesPairs(t *testing.T) {
	tmpl := &RingTemplate{DrawnPairs: []arcPair{{0, 1}, {2, 3}}}
	assert.True(t, tmpl.matchesPairs([]arcPair{{0, 1}, {2, 3}}))
	assert.False(t, tmpl.matchesPairs([]arcPair{{0, 1}, {3, 4}}))
	assert.False(t, tmpl.matchesPairs([]arcPair{{0, 1}}))
}

// TestTemplatedOutlinesMatchStitched renders the same spiral with and
// without template reuse and compares every group outline vertex by vertex.
// The cache is a performance strategy only; geometry must not change. The
// packing boundary is the hard part: circles there borrow seam arcs that
// differ from their ring siblings', so same-signature groups are not
// automatically congruent.
func TestTemplatedOutlinesMatchStitched(t *testing.T) {
	params := Params{P: 16, Q: 16, T: 0, MaxDistance: 2000, ArcMode: ModeClosest, NumGaps: 2}

	templated, err := Render(params, Options{Cache: NewTemplateCache()})
	require.NoError(t, err)
	stitched, err := Render(params, Options{Cache: NewTemplateCache(), DisableTemplates: true})
	require.NoError(t, err)

	reused := 0
	for _, g := range templated.Groups {
		if g.FromTemplate {
			reused++
		}
	}
	assert.Greater(t, reused, 0, "expected at least one template reuse")

	byID := make(map[int]ArcGroup, len(stitched.Groups))
	for _, g := range stitched.Groups {
		byID[g.ID] = g
	}
	require.Equal(t, len(stitched.Groups), len(templated.Groups))
	for _, g := range templated.Groups {
		ref, ok := byID[g.ID]
		require.True(t, ok, "group %d missing from stitched render", g.ID)
		require.Equal(t, len(ref.Outline), len(g.Outline), "group %d outline length", g.ID)
		for i := range g.Outline {
			assert.LessOrEqual(t, cmplx.Abs(g.Outline[i]-ref.Outline[i]), 1e-6,
				"group %d vertex %d", g.ID, i)
		}
	}
}

// TestTemplatedOutlinesMatchStitchedAcrossT repeats the equivalence check
// over several time parameters, since the boundary layout shifts with t.
func TestTemplatedOutlinesMatchStitchedAcrossT(t *testing.T) {
	for _, tv := range []float64{0.3, 0.5, 1.0} {
		params := Params{P: 16, Q: 16, T: tv, MaxDistance: 1200, ArcMode: ModeClosest, NumGaps: 2}

		templated, err := Render(params, Options{Cache: NewTemplateCache()})
		require.NoError(t, err)
		stitched, err := Render(params, Options{Cache: NewTemplateCache(), DisableTemplates: true})
		require.NoError(t, err)

		byID := make(map[int]ArcGroup, len(stitched.Groups))
		for _, g := range stitched.Groups {
			byID[g.ID] = g
		}
		require.Equal(t, len(stitched.Groups), len(templated.Groups), "t=%v", tv)
		for _, g := range templated.Groups {
			ref := byID[g.ID]
			require.Equal(t, len(ref.Outline), len(g.Outline), "t=%v group %d outline length", tv, g.ID)
			for i := range g.Outline {
				assert.LessOrEqual(t, cmplx.Abs(g.Outline[i]-ref.Outline[i]), 1e-6,
					"t=%v group %d vertex %d", tv, g.ID, i)
			}
		}
	}
}

// TestTemplateRejectsNonCongruentGroup verifies matchesGeometry: a rotated
// clone of the source group may reuse the template, a group with one
// displaced arc endpoint must not.
func TestTemplateRejectsNonCongruentGroup(t *testing.T) {
	arena := NewArena(2)
	center := complex(5, 0)
	id := arena.Add(center, 1, true)
	c := arena.At(id)
	*c = *hexCircle(id, center)

	as := &assembler{arena: arena, origin: 0}
	pairs := selectArcs(c, 0, 0, ModeAll)
	group := ArcGroup{ID: id, Circle: id, Pairs: pairs}
	for _, pr := range pairs {
		start := c.Intersections[pr.I].Point
		end := c.Intersections[pr.J].Point
		group.Arcs = append(group.Arcs, Arc{Circle: id, Start: start, End: end, Steps: arcSteps(c, start, end)})
	}
	group.Outline = as.stitch(group.Arcs)
	tmpl := buildTemplate(&group, c)

	assert.True(t, tmpl.matchesGeometry(&group, c), "a group matches its own template")

	// Rotate every arc endpoint around the circle center: still congruent.
	rot := cmplx.Rect(1, 0.7)
	rotated := ArcGroup{ID: id, Pairs: pairs}
	for _, a := range group.Arcs {
		rotated.Arcs = append(rotated.Arcs, Arc{
			Circle: a.Circle,
			Start:  c.Center + rot*(a.Start-c.Center),
			End:    c.Center + rot*(a.End-c.Center),
			Steps:  a.Steps,
		})
	}
	assert.True(t, tmpl.matchesGeometry(&rotated, c), "rigid rotation stays congruent")

	// Displace one endpoint the way a boundary circle's borrowed seam arc
	// differs from its ring siblings'.
	skewed := ArcGroup{ID: id, Pairs: pairs, Arcs: append([]Arc(nil), group.Arcs...)}
	last := len(skewed.Arcs) - 1
	skewed.Arcs[last].End += complex(0.05, 0)
	assert.False(t, tmpl.matchesGeometry(&skewed, c), "displaced endpoint must refuse reuse")

	// Arc count mismatch refuses outright.
	short := ArcGroup{ID: id, Pairs: pairs, Arcs: group.Arcs[:len(group.Arcs)-1]}
	assert.False(t, tmpl.matchesGeometry(&short, c))
}

// TestRingMasterCollapse verifies that symmetric spirals share one template
// per ring: the cache stays far smaller than the group count.
func TestRingMasterCollapse(t *testing.T) {
	cache := NewTemplateCache()
	sp, err := Render(Params{P: 16, Q: 16, T: 0, MaxDistance: 2000, ArcMode: ModeClosest, NumGaps: 2},
		Options{Cache: cache})
	require.NoError(t, err)

	standard := 0
	for _, g := range sp.Groups {
		if g.RingIndex >= 0 {
			standard++
		}
	}
	require.Greater(t, standard, 0)
	assert.Less(t, cache.Len(), standard, "cache must collapse congruent ring members")
	assert.LessOrEqual(t, cache.Len(), sp.RingCount())
}

// TestRandomModeSkipsRingMasters verifies the random mode keeps the drawn
// pairs in the signature, so differently seeded circles never share a
// template entry with different geometry.
func TestRandomModeSkipsRingMasters(t *testing.T) {
	params := Params{P: 16, Q: 16, T: 0, MaxDistance: 2000, ArcMode: ModeRandom, NumGaps: 2}

	templated, err := Render(params, Options{Cache: NewTemplateCache()})
	require.NoError(t, err)
	stitched, err := Render(params, Options{Cache: NewTemplateCache(), DisableTemplates: true})
	require.NoError(t, err)

	byID := make(map[int]ArcGroup, len(stitched.Groups))
	for _, g := range stitched.Groups {
		byID[g.ID] = g
	}
	for _, g := range templated.Groups {
		ref := byID[g.ID]
		require.Equal(t, len(ref.Outline), len(g.Outline), "group %d outline length", g.ID)
		for i := range g.Outline {
			assert.LessOrEqual(t, cmplx.Abs(g.Outline[i]-ref.Outline[i]), 1e-6,
				"group %d vertex %d", g.ID, i)
		}
	}
}

// TestApplyTemplateRoundTrip builds a template from one group and applies it
// back to the same group: the reconstruction must reproduce the outline.
func TestApplyTemplateRoundTrip(t *testing.T) {
	arena := NewArena(2)
	center := complex(5, 0)
	id := arena.Add(center, 1, true)
	c := arena.At(id)
	*c = *hexCircle(id, center)

	as := &assembler{arena: arena, origin: 0}
	pairs := selectArcs(c, 0, 0, ModeAll)
	group := ArcGroup{ID: id, Circle: id, Pairs: pairs}
	for _, pr := range pairs {
		start := c.Intersections[pr.I].Point
		end := c.Intersections[pr.J].Point
		group.Arcs = append(group.Arcs, Arc{Circle: id, Start: start, End: end, Steps: arcSteps(c, start, end)})
	}
	group.Outline = as.stitch(group.Arcs)
	require.NotEmpty(t, group.Outline)

	tmpl := buildTemplate(&group, c)
	rebuilt := ArcGroup{ID: group.ID, Arcs: group.Arcs, Pairs: group.Pairs}
	applyTemplate(&rebuilt, c, tmpl)

	require.Equal(t, len(group.Outline), len(rebuilt.Outline))
	for i := range group.Outline {
		assert.LessOrEqual(t, cmplx.Abs(group.Outline[i]-rebuilt.Outline[i]), 1e-9, "vertex %d", i)
	}
}
