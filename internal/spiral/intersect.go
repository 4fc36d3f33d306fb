package spiral

import (
	"math"
	"math/cmplx"
	"sort"
)

// Canonical tolerances. IntersectTol decides whether two circles touch and
// whether a chord degenerates to a single tangent point; StitchTol decides
// whether two sampled points are the same point. Each concept gets exactly
// one constant so call sites cannot drift apart.
const (
	IntersectTol = 1e-3
	StitchTol    = 1e-6
)

// samePoint reports whether two points coincide within the stitching
// tolerance.
func samePoint(a, b complex128) bool {
	return cmplx.Abs(a-b) <= StitchTol
}

// circleIntersections returns the 0, 1, or 2 intersection points of two
// circles. Tangency within IntersectTol yields a single point.
func circleIntersections(c1 complex128, r1 float64, c2 complex128, r2, tol float64) []complex128 {
	delta := c2 - c1
	d := cmplx.Abs(delta)
	if d > r1+r2+tol || d < math.Abs(r1-r2)-tol || d < tol {
		return nil
	}

	// Chord midpoint along the center line, half-chord perpendicular to it.
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	hSq := r1*r1 - a*a
	if hSq < -tol {
		return nil
	}
	h := 0.0
	if hSq > 0 {
		h = math.Sqrt(hSq)
	}

	mid := c1 + delta*complex(a/d, 0)
	perp := complex(-imag(delta)/d, real(delta)/d)

	if h <= tol {
		return []complex128{mid + perp*complex(h, 0)}
	}
	return []complex128{
		mid + perp*complex(h, 0),
		mid - perp*complex(h, 0),
	}
}

// computeIntersections computes all pairwise circle intersections in the
// arena and attaches each point to both circles with a back-reference.
//
// The pair loop is an interval-pruning sweep: circles are sorted by center
// x, and a running suffix-maximum radius lets the inner loop break as soon
// as the x-gap exceeds any possible reach ahead. Sub-quadratic in practice
// on spiral packings, which are radially spread.
func computeIntersections(arena *Arena, origin complex128) {
	n := arena.Len()
	if n < 2 {
		return
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return real(arena.Circles[order[i]].Center) < real(arena.Circles[order[j]].Center)
	})

	// suffixMax[i] = largest radius among order[i:].
	suffixMax := make([]float64, n+1)
	for i := n - 1; i >= 0; i-- {
		suffixMax[i] = math.Max(suffixMax[i+1], arena.Circles[order[i]].Radius)
	}

	for ii := 0; ii < n; ii++ {
		c1 := &arena.Circles[order[ii]]
		for jj := ii + 1; jj < n; jj++ {
			c2 := &arena.Circles[order[jj]]
			gap := real(c2.Center) - real(c1.Center)
			if gap > c1.Radius+suffixMax[jj]+IntersectTol {
				break // nothing further right can reach back
			}
			if gap > c1.Radius+c2.Radius+IntersectTol {
				continue
			}
			pts := circleIntersections(c1.Center, c1.Radius, c2.Center, c2.Radius, IntersectTol)
			for _, pt := range pts {
				c1.Intersections = append(c1.Intersections, IntersectionRef{Point: pt, Other: c2.ID})
				c2.Intersections = append(c2.Intersections, IntersectionRef{Point: pt, Other: c1.ID})
			}
		}
	}

	for i := range arena.Circles {
		sortIntersectionsClockwise(&arena.Circles[i], origin)
	}
}

// sortIntersectionsClockwise orders a circle's intersection points clockwise
// by angle around its center, starting from the point nearest the shared
// origin. Anchoring at a shared reference keeps arc indexing consistent
// across circles.
func sortIntersectionsClockwise(c *Circle, origin complex128) {
	if len(c.Intersections) < 2 {
		return
	}

	anchor := 0
	best := math.Inf(1)
	for i, ref := range c.Intersections {
		if d := cmplx.Abs(ref.Point - origin); d < best {
			best, anchor = d, i
		}
	}
	base := cmplx.Phase(c.Intersections[anchor].Point - c.Center)

	sort.SliceStable(c.Intersections, func(i, j int) bool {
		return clockwiseFrom(base, cmplx.Phase(c.Intersections[i].Point-c.Center)) <
			clockwiseFrom(base, cmplx.Phase(c.Intersections[j].Point-c.Center))
	})
}

// clockwiseFrom maps an angle to its clockwise offset from base in [0, 2pi).
func clockwiseFrom(base, angle float64) float64 {
	d := math.Mod(base-angle, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d
}

// wrapAngle normalizes an angle to (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
