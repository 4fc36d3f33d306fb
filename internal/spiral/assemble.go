package spiral

import (
	"math"
	"math/cmplx"
	"sort"
)

// Arc is a sampled polyline along a circle between two intersection points,
// always the minor arc.
type Arc struct {
	Circle int
	Start  complex128
	End    complex128
	Steps  int
}

// ArcGroup is one closed (or best-effort closed) polygon stitched from the
// drawn arcs of a circle, plus borrowed seam-closing arcs from neighbors.
// Boundary-closure groups carry RingIndex -1 and are excluded from exports.
type ArcGroup struct {
	ID           int
	RingIndex    int
	Circle       int
	Arcs         []Arc
	Pairs        []arcPair
	Outline      []complex128
	FromTemplate bool
}

// Adaptive sampling: segment length is kept within roughly [6,30] geometry
// units by aiming at 24 per segment, with the step count bounded to [10,44].
const (
	arcSegmentTarget = 24.0
	arcStepsMin      = 10
	arcStepsMax      = 44
)

// Neighbor offsets (from the end of the ranked neighbor list) whose arcs are
// borrowed to close the seams between adjacent cells, and the arc each one
// contributes (negative counts from the end of the neighbor's arc list).
var borrowOffsets = [4]struct{ neighbor, arc int }{
	{-1, -3},
	{-2, -2},
	{-5, 1},
	{-6, 0},
}

// arcSteps picks the sample count for the minor arc between start and end.
func arcSteps(c *Circle, start, end complex128) int {
	a0 := cmplx.Phase(start - c.Center)
	a1 := cmplx.Phase(end - c.Center)
	span := math.Abs(wrapAngle(a1 - a0))
	length := span * c.Radius
	steps := int(math.Ceil(length / arcSegmentTarget))
	if steps < arcStepsMin {
		steps = arcStepsMin
	}
	if steps > arcStepsMax {
		steps = arcStepsMax
	}
	return steps
}

// sampleArc returns steps+1 points along the minor arc. The first and last
// points are the exact intersection points so stitching can match endpoints
// within StitchTol.
func sampleArc(c *Circle, arc Arc) []complex128 {
	a0 := cmplx.Phase(arc.Start - c.Center)
	span := wrapAngle(cmplx.Phase(arc.End-c.Center) - a0)
	pts := make([]complex128, arc.Steps+1)
	pts[0] = arc.Start
	for k := 1; k < arc.Steps; k++ {
		ang := a0 + span*float64(k)/float64(arc.Steps)
		pts[k] = c.Center + cmplx.Rect(c.Radius, ang)
	}
	pts[arc.Steps] = arc.End
	return pts
}

// ringIndices maps quantized circle radii to ring indices, ascending by
// radius. Distinct radii get distinct indices.
func ringIndices(arena *Arena, mainIDs []int) map[float64]int {
	seen := make(map[float64]bool)
	radii := make([]float64, 0, 16)
	for _, id := range mainIDs {
		r := quantizeRadius(arena.At(id).Radius)
		if !seen[r] {
			seen[r] = true
			radii = append(radii, r)
		}
	}
	sort.Float64s(radii)
	rings := make(map[float64]int, len(radii))
	for i, r := range radii {
		rings[r] = i
	}
	return rings
}

func quantizeRadius(r float64) float64 {
	return math.Round(r*1e6) / 1e6
}

// assembler builds the arc groups of one render.
type assembler struct {
	arena        *Arena
	origin       complex128
	params       Params
	rings        map[float64]int
	cache        *TemplateCache
	useTemplates bool
}

// buildGroups creates one group per eligible visible circle plus the
// boundary-closure groups from the outer rim.
func (as *assembler) buildGroups(mainIDs, outerIDs []int) []ArcGroup {
	groups := make([]ArcGroup, 0, len(mainIDs))
	for _, id := range mainIDs {
		c := as.arena.At(id)
		// Only full hexagonal cells form standard groups.
		if len(c.Intersections) != 6 {
			continue
		}
		pairs := selectArcs(c, as.origin, as.params.NumGaps, as.params.ArcMode)
		if len(pairs) == 0 {
			continue
		}
		groups = append(groups, as.buildCircleGroup(c, pairs))
	}
	for _, id := range outerIDs {
		c := as.arena.At(id)
		if g, ok := as.buildClosureGroup(c); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// buildCircleGroup assembles one circle's group: its own drawn arcs, up to
// four borrowed neighbor arcs, and the stitched (or template-reconstructed)
// outline.
func (as *assembler) buildCircleGroup(c *Circle, pairs []arcPair) ArcGroup {
	group := ArcGroup{
		ID:        c.ID,
		RingIndex: as.rings[quantizeRadius(c.Radius)],
		Circle:    c.ID,
		Pairs:     pairs,
	}

	for _, pr := range pairs {
		start := c.Intersections[pr.I].Point
		end := c.Intersections[pr.J].Point
		group.Arcs = append(group.Arcs, Arc{Circle: c.ID, Start: start, End: end, Steps: arcSteps(c, start, end)})
	}
	as.borrowNeighborArcs(c, &group)

	as.resolveOutline(c, &group)
	return group
}

// borrowNeighborArcs appends one boundary-adjacent arc from each of four
// specific neighbors, closing the small visual seams between adjacent cells.
func (as *assembler) borrowNeighborArcs(c *Circle, group *ArcGroup) {
	neighbors := c.Neighbors()
	if len(neighbors) != 6 {
		return
	}
	for _, off := range borrowOffsets {
		nb := as.arena.At(neighbors[len(neighbors)+off.neighbor])
		all := selectArcs(nb, as.origin, 0, ModeAll)
		if len(all) == 0 {
			continue
		}
		ai := off.arc
		if ai < 0 {
			ai += len(all)
		}
		if ai < 0 || ai >= len(all) {
			continue
		}
		pr := all[ai]
		start := nb.Intersections[pr.I].Point
		end := nb.Intersections[pr.J].Point
		group.Arcs = append(group.Arcs, Arc{Circle: nb.ID, Start: start, End: end, Steps: arcSteps(nb, start, end)})
	}
}

// buildClosureGroup attaches the 2nd and 3rd origin-closest arcs of an outer
// rim circle as a boundary-closure group.
func (as *assembler) buildClosureGroup(c *Circle) (ArcGroup, bool) {
	n := len(c.Intersections)
	if n < 2 {
		return ArcGroup{}, false
	}

	type rankedArc struct {
		dist float64
		pair arcPair
	}
	ranked := make([]rankedArc, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		mid := (c.Intersections[i].Point + c.Intersections[j].Point) / 2
		ranked[i] = rankedArc{dist: cmplx.Abs(mid - as.origin), pair: arcPair{I: i, J: j}}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].dist < ranked[b].dist })

	group := ArcGroup{ID: c.ID, RingIndex: -1, Circle: c.ID}
	for idx := 1; idx < n && idx < 3; idx++ {
		pr := ranked[idx].pair
		start := c.Intersections[pr.I].Point
		end := c.Intersections[pr.J].Point
		group.Arcs = append(group.Arcs, Arc{Circle: c.ID, Start: start, End: end, Steps: arcSteps(c, start, end)})
	}
	if len(group.Arcs) == 0 {
		return ArcGroup{}, false
	}
	group.Outline = as.stitch(group.Arcs)
	return group, true
}

// resolveOutline fills the group outline, through the template cache when a
// matching template exists and by full stitching otherwise. Disabling the
// cache produces geometrically identical outlines modulo floating-point
// error; the cache is purely a performance strategy.
func (as *assembler) resolveOutline(c *Circle, group *ArcGroup) {
	if !as.useTemplates || as.cache == nil {
		group.Outline = as.stitch(group.Arcs)
		return
	}

	key := as.templateKey(c, group)
	if tmpl, ok := as.cache.Get(key); ok && tmpl.matchesPairs(group.Pairs) &&
		tmpl.matchesGeometry(group, c) {
		applyTemplate(group, c, tmpl)
		group.FromTemplate = true
		return
	}

	group.Outline = as.stitch(group.Arcs)
	as.cache.PutIfAbsent(key, buildTemplate(group, c))
}

// stitch joins sampled arcs into one ordered, ideally closed polyline.
// It starts from the longest arc and repeatedly appends any arc whose
// endpoint matches either end of the chain; when no exact match remains it
// degrades to proximity attachment, so near-miss tolerance cases still
// produce a best-effort closed shape.
func (as *assembler) stitch(arcs []Arc) []complex128 {
	if len(arcs) == 0 {
		return nil
	}

	polylines := make([][]complex128, len(arcs))
	longest, longestLen := 0, -1.0
	for i, arc := range arcs {
		polylines[i] = sampleArc(as.arena.At(arc.Circle), arc)
		if l := polylineLength(polylines[i]); l > longestLen {
			longest, longestLen = i, l
		}
	}

	chain := polylines[longest]
	remaining := make([][]complex128, 0, len(polylines)-1)
	remaining = append(remaining, polylines[:longest]...)
	remaining = append(remaining, polylines[longest+1:]...)

	for len(remaining) > 0 {
		if idx, atHead, reversed, ok := findExactMatch(chain, remaining); ok {
			chain = attach(chain, remaining[idx], atHead, reversed)
			remaining = append(remaining[:idx], remaining[idx+1:]...)
			continue
		}
		idx, atHead, reversed := findClosestMatch(chain, remaining)
		chain = attach(chain, remaining[idx], atHead, reversed)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return chain
}

func polylineLength(pts []complex128) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += cmplx.Abs(pts[i] - pts[i-1])
	}
	return total
}

// findExactMatch looks for a polyline whose endpoint coincides with either
// chain end within StitchTol, trying both orientations.
func findExactMatch(chain []complex128, remaining [][]complex128) (idx int, atHead, reversed, ok bool) {
	head, tail := chain[0], chain[len(chain)-1]
	for i, pl := range remaining {
		plHead, plTail := pl[0], pl[len(pl)-1]
		switch {
		case samePoint(tail, plHead):
			return i, false, false, true
		case samePoint(tail, plTail):
			return i, false, true, true
		case samePoint(head, plTail):
			return i, true, false, true
		case samePoint(head, plHead):
			return i, true, true, true
		}
	}
	return 0, false, false, false
}

// findClosestMatch picks the attachment minimizing the endpoint distance.
func findClosestMatch(chain []complex128, remaining [][]complex128) (idx int, atHead, reversed bool) {
	head, tail := chain[0], chain[len(chain)-1]
	best := math.Inf(1)
	for i, pl := range remaining {
		plHead, plTail := pl[0], pl[len(pl)-1]
		candidates := []struct {
			d    float64
			head bool
			rev  bool
		}{
			{cmplx.Abs(tail - plHead), false, false},
			{cmplx.Abs(tail - plTail), false, true},
			{cmplx.Abs(head - plTail), true, false},
			{cmplx.Abs(head - plHead), true, true},
		}
		for _, cand := range candidates {
			if cand.d < best {
				best = cand.d
				idx, atHead, reversed = i, cand.head, cand.rev
			}
		}
	}
	return idx, atHead, reversed
}

// attach joins a polyline onto the chain at the given end and orientation,
// dropping the duplicated joint point.
func attach(chain, pl []complex128, atHead, reversed bool) []complex128 {
	if reversed {
		pl = reversePoints(pl)
	}
	if atHead {
		out := make([]complex128, 0, len(pl)+len(chain)-1)
		out = append(out, pl[:len(pl)-1]...)
		out = append(out, chain...)
		return out
	}
	return append(chain, pl[1:]...)
}

func reversePoints(pts []complex128) []complex128 {
	out := make([]complex128, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
