package spiral

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"
)

// ArcMode selects which arcs of a circle's intersection polygon are drawn.
// Unknown modes are rejected at parse time, never mid-render.
type ArcMode int

const (
	ModeClosest ArcMode = iota
	ModeFarthest
	ModeAlternating
	ModeAll
	ModeRandom
	ModeSymmetric
	ModeAngular
)

var arcModeNames = map[ArcMode]string{
	ModeClosest:     "closest",
	ModeFarthest:    "farthest",
	ModeAlternating: "alternating",
	ModeAll:         "all",
	ModeRandom:      "random",
	ModeSymmetric:   "symmetric",
	ModeAngular:     "angular",
}

func (m ArcMode) String() string {
	if s, ok := arcModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ArcMode(%d)", int(m))
}

// ParseArcMode maps a mode name to its variant.
func ParseArcMode(s string) (ArcMode, error) {
	for m, name := range arcModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, &ConfigError{Field: "arcMode", Msg: fmt.Sprintf("unknown mode %q", s)}
}

// arcPair indexes one arc between consecutive intersection points I and J
// (J wraps around).
type arcPair struct {
	I, J int
}

// selectArcs partitions a circle's n arcs into drawn and gap arcs and
// returns the drawn ones. For the ranking modes (closest, farthest, angular)
// the result is in rank order; for the others, index order. Circles with
// fewer than two intersections yield nothing.
func selectArcs(c *Circle, origin complex128, numGaps int, mode ArcMode) []arcPair {
	n := len(c.Intersections)
	if n < 2 {
		return nil
	}

	arcs := make([]arcPair, n)
	midpoints := make([]complex128, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		arcs[i] = arcPair{I: i, J: j}
		midpoints[i] = (c.Intersections[i].Point + c.Intersections[j].Point) / 2
	}

	switch mode {
	case ModeClosest, ModeFarthest:
		dist := lineDistances(c, origin, midpoints)
		ranked := rankArcs(arcs, dist, mode == ModeFarthest)
		if numGaps >= len(ranked) {
			return nil
		}
		return ranked[numGaps:]

	case ModeAlternating:
		if numGaps >= n {
			return nil
		}
		interval := n / (numGaps + 1)
		if interval < 1 {
			interval = 1
		}
		kept := make([]arcPair, 0, n)
		for i := 0; i < n; i++ {
			if i%interval != 0 {
				kept = append(kept, arcs[i])
			}
		}
		return kept

	case ModeAll:
		return arcs

	case ModeRandom:
		// Seeded from the circle id: the same circle always drops the same
		// arcs, so repeated renders are reproducible.
		rng := rand.New(rand.NewSource(int64(c.ID) + 1))
		skip := make(map[int]bool, numGaps)
		for _, idx := range rng.Perm(n) {
			if len(skip) >= numGaps {
				break
			}
			skip[idx] = true
		}
		kept := make([]arcPair, 0, n)
		for i, arc := range arcs {
			if !skip[i] {
				kept = append(kept, arc)
			}
		}
		return kept

	case ModeSymmetric:
		return selectSymmetric(c, origin, numGaps, arcs, midpoints)

	case ModeAngular:
		diffs := angularDeviations(c, origin, midpoints)
		ranked := rankArcs(arcs, diffs, false)
		if numGaps >= len(ranked) {
			return nil
		}
		return ranked[numGaps:]
	}

	// Unreachable for parsed modes; Params.Validate rejects anything else.
	return nil
}

// lineDistances computes, for each midpoint, its perpendicular distance from
// the line through the circle center toward the origin. When the circle sits
// on the origin the line is undefined; distance to the origin is used
// instead.
func lineDistances(c *Circle, origin complex128, midpoints []complex128) []float64 {
	lineVec := origin - c.Center
	dist := make([]float64, len(midpoints))
	if cmplx.Abs(lineVec) < StitchTol {
		for i, m := range midpoints {
			dist[i] = cmplx.Abs(m - origin)
		}
		return dist
	}
	norm := cmplx.Abs(lineVec)
	for i, m := range midpoints {
		dist[i] = math.Abs(imag(cmplx.Conj(lineVec)*(m-c.Center))) / norm
	}
	return dist
}

// angularDeviations computes each midpoint's absolute angular deviation from
// the direction toward the origin (or the x-axis in the degenerate case).
func angularDeviations(c *Circle, origin complex128, midpoints []complex128) []float64 {
	lineVec := origin - c.Center
	target := 0.0
	if cmplx.Abs(lineVec) >= StitchTol {
		target = cmplx.Phase(lineVec)
	}
	diffs := make([]float64, len(midpoints))
	for i, m := range midpoints {
		diffs[i] = math.Abs(wrapAngle(cmplx.Phase(m-c.Center) - target))
	}
	return diffs
}

// rankArcs sorts arcs by key, ascending (or descending). Ties keep index
// order so the ranking is deterministic.
func rankArcs(arcs []arcPair, keys []float64, descending bool) []arcPair {
	idx := make([]int, len(arcs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return keys[idx[a]] > keys[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})
	ranked := make([]arcPair, len(arcs))
	for i, id := range idx {
		ranked[i] = arcs[id]
	}
	return ranked
}

// selectSymmetric drops numGaps arcs favoring angular proximity to the
// origin direction and its antipode. Half the gaps go to the arcs nearest
// the target direction; each picked arc also drops the arc starting at the
// intersection point roughly opposite it. An odd gap count additionally
// drops the arc starting at the intersection point closest to the target
// line.
func selectSymmetric(c *Circle, origin complex128, numGaps int, arcs []arcPair, midpoints []complex128) []arcPair {
	n := len(arcs)
	diffs := angularDeviations(c, origin, midpoints)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return diffs[idx[a]] < diffs[idx[b]] })

	skip := make(map[int]bool, numGaps+1)
	for _, chosen := range idx[:min(numGaps/2, n)] {
		skip[chosen] = true

		// Find the intersection point opposite the chosen arc's midpoint.
		opposite := cmplx.Phase(midpoints[chosen]-c.Center) + math.Pi
		oppIdx, bestDiff := -1, math.Inf(1)
		for i := 0; i < n; i++ {
			d := math.Abs(wrapAngle(cmplx.Phase(c.Intersections[i].Point-c.Center) - opposite))
			if d < bestDiff {
				bestDiff, oppIdx = d, i
			}
		}
		for i, arc := range arcs {
			if arc.I == oppIdx {
				skip[i] = true
				break
			}
		}
	}

	lineVec := origin - c.Center
	if numGaps%2 != 0 && cmplx.Abs(lineVec) >= StitchTol {
		norm := cmplx.Abs(lineVec)
		closest, bestDist := -1, math.Inf(1)
		for i, ref := range c.Intersections {
			d := math.Abs(imag(cmplx.Conj(lineVec)*(ref.Point-c.Center))) / norm
			if d < bestDist {
				bestDist, closest = d, i
			}
		}
		for i, arc := range arcs {
			if arc.I == closest {
				skip[i] = true
				break
			}
		}
	}

	kept := make([]arcPair, 0, n)
	for i, arc := range arcs {
		if !skip[i] {
			kept = append(kept, arc)
		}
	}
	return kept
}
