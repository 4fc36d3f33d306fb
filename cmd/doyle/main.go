// Command doyle renders one Doyle spiral packing and writes it to a file as
// SVG, PNG, or the raw geometry export as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/config"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/render"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

func main() {
	defaults := spiral.DefaultParams()
	renderCfg := config.DefaultRender()

	p := flag.Int("p", defaults.P, "spiral parameter p")
	q := flag.Int("q", defaults.Q, "spiral parameter q")
	tParam := flag.Float64("t", defaults.T, "time parameter")
	maxDistance := flag.Float64("maxDistance", defaults.MaxDistance, "packing extent bound")
	arcMode := flag.String("arcMode", defaults.ArcMode.String(), "arc selection mode")
	gaps := flag.Int("gaps", defaults.NumGaps, "arcs dropped per circle")

	format := flag.String("format", "svg", "output format: svg | json | png")
	mode := flag.String("mode", string(render.ModeArramBoyle), "render mode: doyle | arram_boyle")
	out := flag.String("o", "", "output file (default spiral.<format>)")
	size := flag.Int("size", renderCfg.Size, "canvas size in pixels")
	spacing := flag.Float64("spacing", renderCfg.Spacing, "hatch spacing (0 disables)")
	angle := flag.Float64("angle", renderCfg.AnglePerRing, "hatch angle increment per ring")
	offset := flag.Float64("offset", renderCfg.Offset, "inward hatch inset")
	flag.Parse()

	selected, err := spiral.ParseArcMode(*arcMode)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	params := spiral.Params{
		P:           *p,
		Q:           *q,
		T:           *tParam,
		MaxDistance: *maxDistance,
		ArcMode:     selected,
		NumGaps:     *gaps,
	}

	start := time.Now()
	sp, err := spiral.Render(params, spiral.Options{Cache: spiral.NewTemplateCache()})
	if err != nil {
		log.Fatalf("❌ Render failed: %v", err)
	}
	elapsed := time.Since(start)

	opts := render.Options{
		Size:         *size,
		Mode:         render.Mode(*mode),
		StrokeWidth:  renderCfg.StrokeWidth,
		DrawOutline:  renderCfg.DrawOutline,
		Spacing:      *spacing,
		AnglePerRing: *angle,
		Offset:       *offset,
	}

	path := *out
	if path == "" {
		path = "spiral." + *format
	}

	if err := writeOutput(path, *format, sp, opts); err != nil {
		log.Fatalf("❌ %v", err)
	}

	export := sp.Export(opts.AnglePerRing)
	fmt.Printf("✅ %s written in %s\n", path, elapsed.Round(time.Millisecond))
	fmt.Printf("   circles: %d  rings: %d  arc groups: %d\n",
		sp.VisibleCircleCount(), sp.RingCount(), len(export.ArcGroups))
}

func writeOutput(path, format string, sp *spiral.Spiral, opts render.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "svg":
		svg, _, err := render.SVG(sp, opts)
		if err != nil {
			return err
		}
		_, err = f.WriteString(svg)
		return err
	case "json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(sp.Export(opts.AnglePerRing))
	case "png":
		return render.WritePNG(f, sp, opts)
	default:
		return fmt.Errorf("unknown format %q (want svg, json, or png)", format)
	}
}
