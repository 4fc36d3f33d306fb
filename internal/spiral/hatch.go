package spiral

import (
	"math"
	"math/cmplx"
	"sort"
)

// Segment is one hatch line clipped to a polygon.
type Segment struct {
	A, B complex128
}

// hatchEps guards the degenerate cases: zero-length edges, collinear
// crossings, near-zero spacing, collapsed insets.
const hatchEps = 1e-9

// HatchLines fills a closed polygon with evenly spaced parallel segments,
// optionally rotated and inset inward from the boundary. Degenerate input
// (too few vertices, near-zero spacing, a collapsed inset) yields no
// segments rather than an error; empty fills are expected at packing
// boundaries.
func HatchLines(polygon []complex128, spacing, angleDeg, offset float64) []Segment {
	poly := dropClosingVertex(polygon)
	if len(poly) < 3 || spacing <= hatchEps {
		return nil
	}
	if offset > 0 {
		poly = insetPolygon(poly, offset)
		if len(poly) < 3 {
			return nil
		}
	}

	// Rotate so the scan lines become horizontal.
	rot := cmplx.Rect(1, -angleDeg*math.Pi/180)
	rotated := make([]complex128, len(poly))
	minY, maxY := math.Inf(1), math.Inf(-1)
	var centroid complex128
	for i, p := range poly {
		rp := p * rot
		rotated[i] = rp
		minY = math.Min(minY, imag(rp))
		maxY = math.Max(maxY, imag(rp))
		centroid += rp
	}
	centroid /= complex(float64(len(poly)), 0)

	// Scan lines are centered on the centroid so the fill phase does not
	// jump as the polygon moves.
	var segments []Segment
	back := cmplx.Rect(1, angleDeg*math.Pi/180)
	kMin := int(math.Floor((minY - imag(centroid)) / spacing))
	kMax := int(math.Ceil((maxY - imag(centroid)) / spacing))
	for k := kMin; k <= kMax; k++ {
		y := imag(centroid) + float64(k)*spacing
		xs := scanlineCrossings(rotated, y)
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		xs = dedupeCrossings(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			mid := complex((xs[i]+xs[i+1])/2, y)
			if !pointInPolygon(rotated, mid) {
				continue
			}
			segments = append(segments, Segment{
				A: complex(xs[i], y) * back,
				B: complex(xs[i+1], y) * back,
			})
		}
	}
	return segments
}

// dropClosingVertex removes a duplicated last vertex.
func dropClosingVertex(poly []complex128) []complex128 {
	if len(poly) > 1 && samePoint(poly[0], poly[len(poly)-1]) {
		return poly[:len(poly)-1]
	}
	return poly
}

// scanlineCrossings collects the x coordinates where the horizontal line at
// y crosses polygon edges. Edges lying on the line are skipped as collinear.
func scanlineCrossings(poly []complex128, y float64) []float64 {
	var xs []float64
	n := len(poly)
	for i := 0; i < n; i++ {
		p1, p2 := poly[i], poly[(i+1)%n]
		y1, y2 := imag(p1), imag(p2)
		if math.Abs(y2-y1) < hatchEps {
			continue
		}
		if (y1 > y) == (y2 > y) {
			continue
		}
		t := (y - y1) / (y2 - y1)
		xs = append(xs, real(p1)+t*(real(p2)-real(p1)))
	}
	return xs
}

// dedupeCrossings drops crossings that coincide (a scan line through a
// vertex hits both adjacent edges).
func dedupeCrossings(xs []float64) []float64 {
	out := xs[:0]
	for _, x := range xs {
		if len(out) > 0 && math.Abs(x-out[len(out)-1]) < hatchEps {
			continue
		}
		out = append(out, x)
	}
	return out
}

// pointInPolygon is a standard even-odd ray cast.
func pointInPolygon(poly []complex128, pt complex128) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := real(poly[i]), imag(poly[i])
		xj, yj := real(poly[j]), imag(poly[j])
		if (yi > imag(pt)) != (yj > imag(pt)) &&
			real(pt) < (xj-xi)*(imag(pt)-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// insetPolygon moves every vertex inward by offset using the angle-bisector
// intersection of the two adjacent edge normals (the miter point). Vertices
// with a degenerate edge are skipped; reversing edges fall back to the
// averaged normal. A collapsed result (under 3 vertices, near-zero area,
// flipped orientation, or any reversed edge) returns nil.
func insetPolygon(poly []complex128, offset float64) []complex128 {
	n := len(poly)
	if n < 3 {
		return nil
	}

	// Inward is left of travel for counterclockwise polygons.
	inwardSign := 1.0
	if signedArea(poly) < 0 {
		inwardSign = -1
	}

	out := make([]complex128, 0, n)
	src := make([]int, 0, n)
	for i := 0; i < n; i++ {
		prev := poly[(i-1+n)%n]
		cur := poly[i]
		next := poly[(i+1)%n]

		e1, e2 := cur-prev, next-cur
		l1, l2 := cmplx.Abs(e1), cmplx.Abs(e2)
		if l1 < hatchEps || l2 < hatchEps {
			continue
		}
		n1 := complex(0, inwardSign) * e1 / complex(l1, 0)
		n2 := complex(0, inwardSign) * e2 / complex(l2, 0)

		bisector := n1 + n2
		denom := 1 + real(n1)*real(n2) + imag(n1)*imag(n2)
		var move complex128
		if denom > hatchEps {
			move = bisector * complex(offset/denom, 0)
		} else {
			// Edges nearly reverse; the miter point runs away. Use the
			// averaged normal instead.
			lb := cmplx.Abs(bisector)
			if lb < hatchEps {
				continue
			}
			move = bisector * complex(offset/lb, 0)
		}
		out = append(out, cur+move)
		src = append(src, i)
	}

	if len(out) < 3 || math.Abs(signedArea(out)) < hatchEps {
		return nil
	}
	// An inset that flips orientation has collapsed through itself.
	if signedArea(out)*signedArea(poly) < 0 {
		return nil
	}
	// An inset past the inradius can come back as a point-reflected polygon
	// with the orientation intact. That collapse shows up per edge: the
	// inset edge runs against its source edge.
	m := len(out)
	for i := 0; i < m; i++ {
		j := (i + 1) % m
		e := poly[src[j]] - poly[src[i]]
		ie := out[j] - out[i]
		if real(e)*real(ie)+imag(e)*imag(ie) <= 0 {
			return nil
		}
	}
	return out
}

// signedArea is the shoelace area; positive for counterclockwise polygons.
func signedArea(poly []complex128) float64 {
	area := 0.0
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += real(poly[i])*imag(poly[j]) - real(poly[j])*imag(poly[i])
	}
	return area / 2
}
