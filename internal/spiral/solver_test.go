package spiral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSolveDeterministic verifies repeated solves return bit-identical
// roots: the iteration has no ambient randomness.
func TestSolveDeterministic(t *testing.T) {
	cases := [][2]int{{16, 16}, {7, 32}, {8, 12}, {2, 2}}
	for _, pq := range cases {
		first, err := Solve(pq[0], pq[1])
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := Solve(pq[0], pq[1])
			require.NoError(t, err)
			assert.Equal(t, first, again, "p=%d q=%d run %d", pq[0], pq[1], i)
		}
	}
}

// TestSolveProducesValidRoot checks the solution's structural properties:
// an outward-growing generator, a positive base radius, and a residual that
// actually satisfies the packing condition.
func TestSolveProducesValidRoot(t *testing.T) {
	for _, pq := range [][2]int{{16, 16}, {7, 32}, {4, 9}} {
		root, err := Solve(pq[0], pq[1])
		require.NoError(t, err, "p=%d q=%d", pq[0], pq[1])

		assert.Greater(t, root.ModA, 1.0, "generator must grow outward")
		assert.Greater(t, root.R, 0.0)
		assert.False(t, math.IsNaN(root.ArgA))

		f1, f2 := residual(root.ModA, root.ArgA, pq[0], pq[1])
		assert.Less(t, math.Max(math.Abs(f1), math.Abs(f2)), 1e-8,
			"packing condition residual too large for p=%d q=%d", pq[0], pq[1])
	}
}

// TestSolveRootMatchesDerivedFields verifies A's polar form agrees with the
// stored modulus and argument.
func TestSolveRootMatchesDerivedFields(t *testing.T) {
	root, err := Solve(16, 16)
	require.NoError(t, err)

	assert.InDelta(t, root.ModA, mod(root.A), 1e-12)
	assert.InDelta(t, root.ArgA, arg(root.A), 1e-12)
}

func mod(z complex128) float64 { return math.Hypot(real(z), imag(z)) }
func arg(z complex128) float64 { return math.Atan2(imag(z), real(z)) }
