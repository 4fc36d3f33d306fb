package render

import (
	"io"
	"math/cmplx"

	"github.com/fogleman/gg"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

// WritePNG rasterizes the spiral with the same projection and styling rules
// as the SVG renderer and encodes it as PNG.
func WritePNG(w io.Writer, sp *spiral.Spiral, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	proj := newProjector(sp, opts.Size)
	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetLineWidth(opts.StrokeWidth)
	if opts.RedOutline {
		dc.SetRGB(1, 0, 0)
	} else {
		dc.SetRGB(0, 0, 0)
	}

	switch opts.Mode {
	case ModeDoyle:
		drawCircles(dc, sp, proj)
	case ModeArramBoyle:
		drawGroups(dc, sp, proj, opts)
	}

	return dc.EncodePNG(w)
}

func drawCircles(dc *gg.Context, sp *spiral.Spiral, proj projector) {
	for _, id := range sp.MainIDs {
		c := sp.Arena.At(id)
		x, y := proj.point(c.Center)
		dc.DrawCircle(x, y, proj.length(c.Radius))
		dc.Stroke()
	}
}

func drawGroups(dc *gg.Context, sp *spiral.Spiral, proj projector, opts Options) {
	for _, g := range sp.Groups {
		if g.RingIndex < 0 || len(g.Outline) < 3 {
			continue
		}

		screen := make([]complex128, len(g.Outline))
		for i, p := range g.Outline {
			x, y := proj.point(p)
			screen[i] = complex(x, y)
		}

		if opts.DrawOutline {
			dc.MoveTo(real(screen[0]), imag(screen[0]))
			for _, p := range screen[1:] {
				dc.LineTo(real(p), imag(p))
			}
			dc.Stroke()
		}

		if opts.Spacing > 0 {
			angle := float64(g.RingIndex) * opts.AnglePerRing
			for _, seg := range spiral.HatchLines(screen, opts.Spacing, angle, opts.Offset) {
				dc.DrawLine(real(seg.A), imag(seg.A), real(seg.B), imag(seg.B))
				dc.Stroke()
			}
		}
	}
}

// Extent returns the packing's maximum distance from the origin including the
// outer rim, in packing units. Useful for callers that scale externally.
func Extent(sp *spiral.Spiral) float64 {
	maxExtent := 0.0
	for i := range sp.Arena.Circles {
		c := &sp.Arena.Circles[i]
		if e := cmplx.Abs(c.Center) + c.Radius; e > maxExtent {
			maxExtent = e
		}
	}
	return maxExtent
}
