// Package render turns a computed spiral into SVG and PNG documents. It is a
// pure boundary layer: all geometry comes from the spiral package and the
// renderers only project, style, and serialize it.
package render

import (
	"fmt"
	"strings"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

// Mode selects what the renderer draws.
type Mode string

const (
	// ModeDoyle draws the raw circle packing.
	ModeDoyle Mode = "doyle"
	// ModeArramBoyle draws the stitched arc-group polygons with hatch fill.
	ModeArramBoyle Mode = "arram_boyle"
)

// Options are the presentational parameters of one render. They never affect
// the underlying geometry.
type Options struct {
	Size         int
	Mode         Mode
	StrokeWidth  float64
	DrawOutline  bool
	RedOutline   bool // debug styling: outlines in red instead of black
	Spacing      float64
	AnglePerRing float64
	Offset       float64
}

// OptionsFrom maps the configured render defaults onto Options.
func OptionsFrom(cfg config.RenderConfig) Options {
	return Options{
		Size:         cfg.Size,
		Mode:         ModeArramBoyle,
		StrokeWidth:  cfg.StrokeWidth,
		DrawOutline:  cfg.DrawOutline,
		Spacing:      cfg.Spacing,
		AnglePerRing: cfg.AnglePerRing,
		Offset:       cfg.Offset,
	}
}

// Stats summarizes what a render produced.
type Stats struct {
	ArcGroups     int
	Polygons      int
	HatchSegments int
}

// projector maps packing coordinates onto a size x size canvas. The packing
// is normalized so the outer rim fits with a small margin, then centered.
// The imaginary axis is flipped because canvas y grows downward.
type projector struct {
	scale float64
	half  float64
}

func newProjector(sp *spiral.Spiral, size int) projector {
	maxExtent := Extent(sp)
	scale := 1.0
	if maxExtent > 0 {
		scale = (float64(size) / 2.1) / maxExtent
	}
	return projector{scale: scale, half: float64(size) / 2}
}

func (p projector) point(z complex128) (float64, float64) {
	return p.half + real(z)*p.scale, p.half - imag(z)*p.scale
}

func (p projector) length(l float64) float64 {
	return l * p.scale
}

func (o Options) validate() error {
	if o.Size <= 0 {
		return &spiral.ConfigError{Field: "size", Msg: "must be > 0"}
	}
	switch o.Mode {
	case ModeDoyle, ModeArramBoyle:
		return nil
	default:
		return &spiral.ConfigError{Field: "mode", Msg: fmt.Sprintf("unknown render mode %q", o.Mode)}
	}
}

func (o Options) strokeColor() string {
	if o.RedOutline {
		return "red"
	}
	return "black"
}

// SVG serializes the spiral as an SVG document.
func SVG(sp *spiral.Spiral, opts Options) (string, Stats, error) {
	if err := opts.validate(); err != nil {
		return "", Stats{}, err
	}

	proj := newProjector(sp, opts.Size)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Size, opts.Size, opts.Size, opts.Size)
	b.WriteByte('\n')

	var stats Stats
	switch opts.Mode {
	case ModeDoyle:
		stats = writeCircles(&b, sp, proj, opts)
	case ModeArramBoyle:
		stats = writeGroups(&b, sp, proj, opts)
	}

	b.WriteString("</svg>\n")
	return b.String(), stats, nil
}

func writeCircles(b *strings.Builder, sp *spiral.Spiral, proj projector, opts Options) Stats {
	var stats Stats
	for _, id := range sp.MainIDs {
		c := sp.Arena.At(id)
		x, y := proj.point(c.Center)
		fmt.Fprintf(b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`,
			x, y, proj.length(c.Radius), opts.strokeColor(), opts.StrokeWidth)
		b.WriteByte('\n')
		stats.Polygons++
	}
	return stats
}

func writeGroups(b *strings.Builder, sp *spiral.Spiral, proj projector, opts Options) Stats {
	var stats Stats
	for _, g := range sp.Groups {
		if g.RingIndex < 0 || len(g.Outline) < 3 {
			continue
		}
		stats.ArcGroups++

		screen := make([]complex128, len(g.Outline))
		for i, p := range g.Outline {
			x, y := proj.point(p)
			screen[i] = complex(x, y)
		}

		if opts.DrawOutline {
			b.WriteString(`<polyline points="`)
			for i, p := range screen {
				if i > 0 {
					b.WriteByte(' ')
				}
				fmt.Fprintf(b, "%.2f,%.2f", real(p), imag(p))
			}
			fmt.Fprintf(b, `" fill="none" stroke="%s" stroke-width="%.2f"/>`,
				opts.strokeColor(), opts.StrokeWidth)
			b.WriteByte('\n')
			stats.Polygons++
		}

		if opts.Spacing > 0 {
			angle := float64(g.RingIndex) * opts.AnglePerRing
			for _, seg := range spiral.HatchLines(screen, opts.Spacing, angle, opts.Offset) {
				fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`,
					real(seg.A), imag(seg.A), real(seg.B), imag(seg.B), opts.strokeColor(), opts.StrokeWidth)
				b.WriteByte('\n')
				stats.HatchSegments++
			}
		}
	}
	return stats
}
