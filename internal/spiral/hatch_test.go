package spiral

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(size float64) []complex128 {
	return []complex128{
		complex(0, 0),
		complex(size, 0),
		complex(size, size),
		complex(0, size),
	}
}

// TestHatchSquareHorizontal fills a 100x100 square with horizontal lines at
// spacing 10: full-width segments, one per scan line, 10 apart.
func TestHatchSquareHorizontal(t *testing.T) {
	segs := HatchLines(square(100), 10, 0, 0)
	require.NotEmpty(t, segs)

	ys := make([]float64, 0, len(segs))
	for _, s := range segs {
		assert.InDelta(t, imag(s.A), imag(s.B), 1e-9, "segments must be horizontal")
		assert.InDelta(t, 100.0, math.Abs(real(s.B)-real(s.A)), 1e-6, "segments span the full square")
		assert.GreaterOrEqual(t, imag(s.A), -1e-9)
		assert.LessOrEqual(t, imag(s.A), 100+1e-9)
		ys = append(ys, imag(s.A))
	}

	sort.Float64s(ys)
	for i := 1; i < len(ys); i++ {
		assert.InDelta(t, 10.0, ys[i]-ys[i-1], 1e-6, "scan lines must be evenly spaced")
	}
}

// TestHatchSquareRotated verifies the angle parameter tilts the fill: at 90
// degrees the segments become vertical.
func TestHatchSquareRotated(t *testing.T) {
	segs := HatchLines(square(100), 10, 90, 0)
	require.NotEmpty(t, segs)
	for _, s := range segs {
		assert.InDelta(t, real(s.A), real(s.B), 1e-6, "segments must be vertical")
	}
}

// TestHatchOffsetShrinksFill verifies the inset keeps every segment strictly
// inside the offset boundary.
func TestHatchOffsetShrinksFill(t *testing.T) {
	segs := HatchLines(square(100), 10, 0, 10)
	require.NotEmpty(t, segs)
	for _, s := range segs {
		for _, p := range []complex128{s.A, s.B} {
			assert.GreaterOrEqual(t, real(p), 10-1e-6)
			assert.LessOrEqual(t, real(p), 90+1e-6)
			assert.GreaterOrEqual(t, imag(p), 10-1e-6)
			assert.LessOrEqual(t, imag(p), 90+1e-6)
		}
	}
}

// TestHatchDegenerateInput verifies the empty-fill cases return nil instead
// of erroring.
func TestHatchDegenerateInput(t *testing.T) {
	assert.Nil(t, HatchLines(square(100), 0, 0, 0), "zero spacing")
	assert.Nil(t, HatchLines(square(100), -5, 0, 0), "negative spacing")
	assert.Nil(t, HatchLines([]complex128{complex(0, 0), complex(1, 0)}, 10, 0, 0), "too few vertices")
	assert.Nil(t, HatchLines(nil, 10, 0, 0), "nil polygon")
}

// TestHatchCollapsingOffset verifies an inset deeper than the polygon's
// inradius collapses the fill to nothing. The over-inset square comes back
// point-reflected with its orientation intact, so the area and orientation
// guards alone would let a phantom interior through.
func TestHatchCollapsingOffset(t *testing.T) {
	assert.Nil(t, HatchLines(square(100), 10, 0, 60))
}

// TestInsetPolygonCollapse pins the collapse boundary: an inset short of the
// square's inradius survives, one past it returns nil.
func TestInsetPolygonCollapse(t *testing.T) {
	require.Len(t, insetPolygon(square(100), 49), 4)
	assert.Nil(t, insetPolygon(square(100), 51), "past the inradius the edges reverse")
	assert.Nil(t, insetPolygon(square(100), 60))
}

// TestHatchClosedPolygonInput verifies a polygon with a duplicated closing
// vertex hatches the same as the open form.
func TestHatchClosedPolygonInput(t *testing.T) {
	open := square(100)
	closed := append(append([]complex128{}, open...), open[0])

	a := HatchLines(open, 10, 0, 0)
	b := HatchLines(closed, 10, 0, 0)
	assert.Equal(t, a, b)
}

// TestInsetPolygonSquare verifies the miter inset of a square is the
// concentric smaller square.
func TestInsetPolygonSquare(t *testing.T) {
	inset := insetPolygon(square(100), 10)
	require.Len(t, inset, 4)
	want := []complex128{
		complex(10, 10),
		complex(90, 10),
		complex(90, 90),
		complex(10, 90),
	}
	for i, p := range inset {
		assert.InDelta(t, real(want[i]), real(p), 1e-9, "vertex %d", i)
		assert.InDelta(t, imag(want[i]), imag(p), 1e-9, "vertex %d", i)
	}
}
