// Package spiral generates Doyle spiral circle packings and derives closed
// arc-group polygons from them for rendering, extrusion, and export.
//
// A render is synchronous and pure: it depends only on its parameters and
// the injected template cache. All per-render state (the circle arena, the
// groups) is owned by the call and discarded afterward; only the cache is
// shared across renders, and its entries are immutable once inserted.
package spiral

import "math"

// Options tune one render invocation beyond its geometric parameters.
type Options struct {
	// Cache memoizes ring templates across renders. Nil disables reuse.
	Cache *TemplateCache
	// DisableTemplates forces full stitching for every group even with a
	// cache present. Output is identical modulo floating-point error.
	DisableTemplates bool
}

// Spiral is the result of one render invocation.
type Spiral struct {
	Params   Params
	Root     SpiralRoot
	Arena    *Arena
	MainIDs  []int
	OuterIDs []int
	Groups   []ArcGroup
}

// Render runs the full pipeline: validate, solve, generate circles, compute
// intersections, select arcs, assemble groups. The packing origin is the
// reference for intersection ordering and arc selection throughout.
func Render(params Params, opts Options) (*Spiral, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	root, err := Solve(params.P, params.Q)
	if err != nil {
		return nil, err
	}

	gen := newFamilyGenerator(root, params.Q, params.T, params.MaxDistance)
	arena := NewArena(params.Q * 32)
	mainIDs, err := gen.generate(arena)
	if err != nil {
		return nil, err
	}
	outerIDs, err := gen.generateOuter(arena)
	if err != nil {
		return nil, err
	}

	const origin = complex(0, 0)
	computeIntersections(arena, origin)

	as := &assembler{
		arena:        arena,
		origin:       origin,
		params:       params,
		rings:        ringIndices(arena, mainIDs),
		cache:        opts.Cache,
		useTemplates: opts.Cache != nil && !opts.DisableTemplates,
	}
	groups := as.buildGroups(mainIDs, outerIDs)

	return &Spiral{
		Params:   params,
		Root:     root,
		Arena:    arena,
		MainIDs:  mainIDs,
		OuterIDs: outerIDs,
		Groups:   groups,
	}, nil
}

// GeometryExport is the immutable snapshot consumed by rendering and
// animation collaborators. Boundary-closure groups are internal and never
// exported.
type GeometryExport struct {
	Params    Params           `json:"params"`
	ArcGroups []ArcGroupExport `json:"arcgroups"`
}

// ArcGroupExport is one closed polygon with its metadata.
type ArcGroupExport struct {
	ID        int          `json:"id"`
	RingIndex int          `json:"ringIndex"`
	LineAngle float64      `json:"lineAngle"`
	Outline   [][2]float64 `json:"outline"`
	ArcCount  int          `json:"arcCount"`
}

// Export builds the geometry export. anglePerRing assigns each group a line
// angle of ringIndex*anglePerRing degrees, normalized to [0, 360).
func (s *Spiral) Export(anglePerRing float64) *GeometryExport {
	out := &GeometryExport{Params: s.Params}
	for _, g := range s.Groups {
		if g.RingIndex < 0 {
			continue
		}
		outline := make([][2]float64, len(g.Outline))
		for i, p := range g.Outline {
			outline[i] = [2]float64{real(p), imag(p)}
		}
		angle := math.Mod(float64(g.RingIndex)*anglePerRing, 360)
		if angle < 0 {
			angle += 360
		}
		out.ArcGroups = append(out.ArcGroups, ArcGroupExport{
			ID:        g.ID,
			RingIndex: g.RingIndex,
			LineAngle: angle,
			Outline:   outline,
			ArcCount:  len(g.Arcs),
		})
	}
	return out
}

// VisibleCircleCount returns the number of main (visible) circles.
func (s *Spiral) VisibleCircleCount() int {
	return len(s.MainIDs)
}

// RingCount returns the number of distinct radius classes among visible
// circles.
func (s *Spiral) RingCount() int {
	return len(ringIndices(s.Arena, s.MainIDs))
}
