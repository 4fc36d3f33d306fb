package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

func testSpiral(t *testing.T) *spiral.Spiral {
	t.Helper()
	params := spiral.Params{P: 16, Q: 16, T: 0, MaxDistance: 1200, ArcMode: spiral.ModeClosest, NumGaps: 2}
	sp, err := spiral.Render(params, spiral.Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return sp
}

func TestSVGModes(t *testing.T) {
	sp := testSpiral(t)

	tests := []struct {
		name     string
		mode     Mode
		contains []string
	}{
		{"doyle draws circles", ModeDoyle, []string{"<svg", "<circle"}},
		{"arram_boyle draws polylines", ModeArramBoyle, []string{"<svg", "<polyline", "<line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := OptionsFrom(config.DefaultRender())
			opts.Mode = tt.mode

			svg, stats, err := SVG(sp, opts)
			if err != nil {
				t.Fatalf("SVG() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(svg, want) {
					t.Errorf("SVG output missing %q", want)
				}
			}
			if stats.Polygons == 0 {
				t.Error("expected at least one drawn polygon")
			}
		})
	}
}

func TestSVGUnknownMode(t *testing.T) {
	sp := testSpiral(t)
	opts := OptionsFrom(config.DefaultRender())
	opts.Mode = "spirograph"

	if _, _, err := SVG(sp, opts); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSVGStats(t *testing.T) {
	sp := testSpiral(t)
	opts := OptionsFrom(config.DefaultRender())

	_, stats, err := SVG(sp, opts)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if stats.ArcGroups == 0 {
		t.Error("expected arc groups in stats")
	}
	if stats.HatchSegments == 0 {
		t.Error("expected hatch segments with default spacing")
	}

	// Disabling outline and hatch leaves nothing but the svg envelope.
	opts.DrawOutline = false
	opts.Spacing = 0
	_, stats, err = SVG(sp, opts)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if stats.Polygons != 0 || stats.HatchSegments != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestProjectorKeepsPackingOnCanvas(t *testing.T) {
	sp := testSpiral(t)
	const size = 1000
	proj := newProjector(sp, size)

	for i := range sp.Arena.Circles {
		c := &sp.Arena.Circles[i]
		x, y := proj.point(c.Center)
		r := proj.length(c.Radius)
		if x-r < 0 || x+r > size || y-r < 0 || y+r > size {
			t.Errorf("circle %d out of canvas: center (%.1f, %.1f) r %.1f", i, x, y, r)
		}
	}
}

func TestWritePNG(t *testing.T) {
	sp := testSpiral(t)
	opts := OptionsFrom(config.DefaultRender())
	opts.Size = 200 // keep the test fast

	var buf bytes.Buffer
	if err := WritePNG(&buf, sp, opts); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}

	magic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), magic) {
		t.Error("output is not a PNG")
	}
}

func TestOptionsFrom(t *testing.T) {
	cfg := config.RenderConfig{Size: 640, StrokeWidth: 2, Spacing: 7, AnglePerRing: 30, Offset: 1, DrawOutline: false}
	opts := OptionsFrom(cfg)

	if opts.Size != 640 || opts.Spacing != 7 || opts.AnglePerRing != 30 || opts.DrawOutline {
		t.Errorf("OptionsFrom mismatch: %+v", opts)
	}
	if opts.Mode != ModeArramBoyle {
		t.Errorf("default mode = %q, want %q", opts.Mode, ModeArramBoyle)
	}
}
