package spiral

import (
	"math"
	"math/cmplx"
)

// FamilyIterationCap bounds circle generation per family walk. Exceeding it
// is fatal: the parameters are too extreme for a sane packing, and silently
// truncating would hide that.
const FamilyIterationCap = 10000

// familyGenerator expands the two generator constants into the circle
// population: q spiral families of visible circles plus one invisible rim
// circle per family used for outer closure and render normalization.
type familyGenerator struct {
	root SpiralRoot
	q    int
	t    float64
	maxD float64
	cap  int
}

func newFamilyGenerator(root SpiralRoot, q int, t, maxD float64) *familyGenerator {
	return &familyGenerator{root: root, q: q, t: t, maxD: maxD, cap: FamilyIterationCap}
}

// generate adds the visible circles of all q families to the arena and
// returns their ids. Family k is seeded at a*b^k; the walk multiplies by a
// outward while the multiplier modulus stays below maxDistance and divides
// by a inward while it stays above 1/scale.
func (g *familyGenerator) generate(arena *Arena) ([]int, error) {
	scale := math.Pow(g.root.ModA, g.t)
	alpha := g.root.ArgA * g.t
	w := cmplx.Rect(scale, alpha) // scale * e^(i*alpha), applied to every center
	minD := 1 / scale
	a := g.root.A
	modA := cmplx.Abs(a)
	r := g.root.R

	ids := make([]int, 0, g.q*16)
	start := a
	for fam := 0; fam < g.q; fam++ {
		// Outward walk.
		qv := start
		modQ := cmplx.Abs(qv)
		steps := 0
		for modQ < g.maxD {
			if steps++; steps > g.cap {
				return nil, &ExhaustionError{Family: fam, Cap: g.cap}
			}
			ids = append(ids, arena.Add(qv*w, r*scale*modQ, true))
			qv *= a
			modQ *= modA
		}

		// Inward walk, starting one step inside the seed.
		qv = start / a
		modQ = cmplx.Abs(qv)
		steps = 0
		for modQ > minD {
			if steps++; steps > g.cap {
				return nil, &ExhaustionError{Family: fam, Cap: g.cap}
			}
			ids = append(ids, arena.Add(qv*w, r*scale*modQ, true))
			qv /= a
			modQ /= modA
		}

		start *= g.root.B
	}
	return ids, nil
}

// generateOuter adds one invisible circle per family just past the
// maxDistance crossing, marking the outer rim. The rim both closes the
// boundary arcs and sets the render normalization extent, so the pattern
// fills the canvas edge-to-edge.
func (g *familyGenerator) generateOuter(arena *Arena) ([]int, error) {
	scale := math.Pow(g.root.ModA, g.t)
	alpha := g.root.ArgA * g.t
	w := cmplx.Rect(scale, alpha)
	a := g.root.A
	modA := cmplx.Abs(a)
	r := g.root.R

	ids := make([]int, 0, g.q)
	start := a
	for fam := 0; fam < g.q; fam++ {
		qv := start
		modQ := cmplx.Abs(qv)
		steps := 0
		for modQ < g.maxD {
			if steps++; steps > g.cap {
				return nil, &ExhaustionError{Family: fam, Cap: g.cap}
			}
			qv *= a
			modQ *= modA
		}
		// qv is now the first multiplier past the boundary. Keep it within a
		// generous window so extreme scale factors cannot fling the rim off.
		if modQ < g.maxD*modA*2 {
			ids = append(ids, arena.Add(qv*w, r*scale*modQ, false))
		}
		start *= g.root.B
	}
	return ids, nil
}
