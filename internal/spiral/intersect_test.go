package spiral

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCircleIntersectionsTwoPoints checks the canonical case: centers 3
// apart, radii 2 and 2, exactly two intersection points, each equidistant
// from both centers.
func TestCircleIntersectionsTwoPoints(t *testing.T) {
	c1, c2 := complex(0, 0), complex(3, 0)
	pts := circleIntersections(c1, 2, c2, 2, IntersectTol)
	require.Len(t, pts, 2)

	for _, pt := range pts {
		assert.InDelta(t, 2.0, cmplx.Abs(pt-c1), 1e-9)
		assert.InDelta(t, 2.0, cmplx.Abs(pt-c2), 1e-9)
	}
}

// TestCircleIntersectionsTangent verifies a tangent pair collapses to one
// point within tolerance.
func TestCircleIntersectionsTangent(t *testing.T) {
	pts := circleIntersections(complex(0, 0), 1, complex(2, 0), 1, IntersectTol)
	require.Len(t, pts, 1)
	assert.InDelta(t, 1.0, real(pts[0]), 1e-6)
	assert.InDelta(t, 0.0, imag(pts[0]), 1e-6)
}

// TestCircleIntersectionsDisjoint verifies separated and nested pairs yield
// nothing.
func TestCircleIntersectionsDisjoint(t *testing.T) {
	assert.Empty(t, circleIntersections(complex(0, 0), 1, complex(10, 0), 1, IntersectTol))
	assert.Empty(t, circleIntersections(complex(0, 0), 5, complex(0.1, 0), 1, IntersectTol))
	assert.Empty(t, circleIntersections(complex(0, 0), 1, complex(0, 0), 1, IntersectTol))
}

// TestSweepMatchesBruteForce verifies the interval-pruning sweep finds the
// same intersections as the quadratic loop on a deterministic random soup.
func TestSweepMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	build := func() *Arena {
		arena := NewArena(80)
		for i := 0; i < 80; i++ {
			center := complex(rng.Float64()*200-100, rng.Float64()*200-100)
			arena.Add(center, 2+rng.Float64()*18, true)
		}
		return arena
	}

	swept := build()
	computeIntersections(swept, 0)

	rng = rand.New(rand.NewSource(42))
	brute := build()
	for i := 0; i < brute.Len(); i++ {
		for j := i + 1; j < brute.Len(); j++ {
			c1, c2 := brute.At(i), brute.At(j)
			pts := circleIntersections(c1.Center, c1.Radius, c2.Center, c2.Radius, IntersectTol)
			for _, pt := range pts {
				c1.Intersections = append(c1.Intersections, IntersectionRef{Point: pt, Other: j})
				c2.Intersections = append(c2.Intersections, IntersectionRef{Point: pt, Other: i})
			}
		}
	}

	for i := 0; i < swept.Len(); i++ {
		assert.Len(t, swept.At(i).Intersections, len(brute.At(i).Intersections),
			"circle %d intersection count", i)
	}
}

// TestClockwiseSortAnchorsNearOrigin verifies intersection ordering: the
// first point is the one nearest the origin and subsequent points proceed
// clockwise around the circle center.
func TestClockwiseSortAnchorsNearOrigin(t *testing.T) {
	c := &Circle{ID: 0, Center: complex(10, 0), Radius: 1}
	// Four synthetic points around the center.
	for _, p := range []complex128{
		complex(10, 1),  // top
		complex(11, 0),  // right (farthest from origin)
		complex(10, -1), // bottom
		complex(9, 0),   // left (closest to origin)
	} {
		c.Intersections = append(c.Intersections, IntersectionRef{Point: p, Other: 1})
	}

	sortIntersectionsClockwise(c, 0)

	require.Len(t, c.Intersections, 4)
	assert.Equal(t, complex(9, 0), c.Intersections[0].Point, "anchor must be nearest the origin")
	// Clockwise from the left point: top, right, bottom.
	assert.Equal(t, complex(10, 1), c.Intersections[1].Point)
	assert.Equal(t, complex(11, 0), c.Intersections[2].Point)
	assert.Equal(t, complex(10, -1), c.Intersections[3].Point)
}

// TestPackingHasHexagonalCells verifies that a real packing produces
// interior circles with exactly 6 intersections.
func TestPackingHasHexagonalCells(t *testing.T) {
	sp, err := Render(Params{P: 16, Q: 16, T: 0, MaxDistance: 2000, ArcMode: ModeAll, NumGaps: 0}, Options{})
	require.NoError(t, err)

	hex := 0
	for _, id := range sp.MainIDs {
		if len(sp.Arena.At(id).Intersections) == 6 {
			hex++
		}
	}
	assert.Greater(t, hex, 0, "expected interior circles with 6 intersections")
}
