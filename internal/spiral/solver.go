package spiral

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// SpiralRoot holds the two complex generator constants of a Doyle spiral and
// the derived base radius. It depends only on (p, q), never on the time
// parameter t.
type SpiralRoot struct {
	A    complex128 // generator along a family
	B    complex128 // generator between families
	R    float64    // base radius ratio
	ModA float64    // |A|
	ArgA float64    // arg(A)
}

const (
	solverMaxIter     = 80
	solverTol         = 1e-14
	solverFDStep      = 1e-8
	solverMaxHalvings = 40
)

// dist2 is the squared distance between the circle at (z, t) and its image
// under the (p,q) rotation.
func dist2(z, t, p, q float64) float64 {
	w := math.Pow(z, p/q)
	s := (p*t + 2*math.Pi) / q
	dx := z*math.Cos(t) - w*math.Cos(s)
	dy := z*math.Sin(t) - w*math.Sin(s)
	return dx*dx + dy*dy
}

// sumSq is the squared sum of the two circle moduli.
func sumSq(z, p, q float64) float64 {
	w := z + math.Pow(z, p/q)
	return w * w
}

// radiusRatio is the packing radius ratio r(z, t, p, q) = d/s. A valid Doyle
// packing makes this agree for the base, rotated, and scaled configurations.
func radiusRatio(z, t, p, q float64) float64 {
	return dist2(z, t, p, q) / sumSq(z, p, q)
}

// residual evaluates the two packing conditions at (z, t).
func residual(z, t float64, p, q int) (f1, f2 float64) {
	pf, qf := float64(p), float64(q)
	base := radiusRatio(z, t, 0, 1)
	f1 = base - radiusRatio(z, t, pf, qf)
	f2 = base - radiusRatio(math.Pow(z, pf/qf), (pf*t+2*math.Pi)/qf, 0, 1)
	return f1, f2
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Solve finds the spiral's defining constants for integers (p, q) by Newton
// iteration on the unknowns (z, t) with a finite-difference Jacobian and a
// halving line search. The iteration is deterministic: fixed start (2, 0),
// fixed step rule, no randomness.
//
// Candidate steps that land on a non-finite residual are rejected like any
// non-improving step; divergence is only fatal when the accepted state
// itself turns non-finite.
func Solve(p, q int) (SpiralRoot, error) {
	z, t := 2.0, 0.0
	f1, f2 := residual(z, t, p, q)
	if !finite(f1, f2) {
		return SpiralRoot{}, &DivergenceError{P: p, Q: q, Z: z, T: t}
	}

	bestZ, bestT := z, t
	bestRes := math.Max(math.Abs(f1), math.Abs(f2))

	var step mat.VecDense
	for iter := 0; iter < solverMaxIter; iter++ {
		res := math.Max(math.Abs(f1), math.Abs(f2))
		if res < bestRes {
			bestRes, bestZ, bestT = res, z, t
		}
		if res < solverTol {
			break
		}

		// Forward-difference Jacobian.
		h := solverFDStep
		f1z, f2z := residual(z+h, t, p, q)
		f1t, f2t := residual(z, t+h, p, q)
		jac := mat.NewDense(2, 2, []float64{
			(f1z - f1) / h, (f1t - f1) / h,
			(f2z - f2) / h, (f2t - f2) / h,
		})
		rhs := mat.NewVecDense(2, []float64{-f1, -f2})
		if err := step.SolveVec(jac, rhs); err != nil {
			// Singular Jacobian: stop with the best point found.
			break
		}
		dz, dt := step.AtVec(0), step.AtVec(1)

		// Accept a full or halved step only if it strictly reduces the
		// max-abs residual.
		accepted := false
		lambda := 1.0
		for k := 0; k < solverMaxHalvings; k++ {
			nz, nt := z+lambda*dz, t+lambda*dt
			nf1, nf2 := residual(nz, nt, p, q)
			if finite(nf1, nf2) && math.Max(math.Abs(nf1), math.Abs(nf2)) < res {
				z, t, f1, f2 = nz, nt, nf1, nf2
				accepted = true
				break
			}
			lambda /= 2
		}
		if !accepted {
			break
		}
	}

	f1, f2 = residual(bestZ, bestT, p, q)
	if !finite(f1, f2) {
		return SpiralRoot{}, &DivergenceError{P: p, Q: q, Z: bestZ, T: bestT}
	}

	z, t = bestZ, bestT
	pf, qf := float64(p), float64(q)
	s := (pf*t + 2*math.Pi) / qf
	return SpiralRoot{
		A:    cmplx.Rect(z, t),
		B:    cmplx.Rect(math.Pow(z, pf/qf), s),
		R:    math.Sqrt(radiusRatio(z, t, 0, 1)),
		ModA: z,
		ArgA: t,
	}, nil
}
