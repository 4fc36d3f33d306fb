package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kryptokommunist/doyle-packing-sub000/internal/render"
	"github.com/kryptokommunist/doyle-packing-sub000/internal/spiral"
)

// Handler methods for routerHandlers
// These are used by both the standalone router (for testing) and the full Server.

// spiralRequest is the POST /api/spiral payload. All fields are optional;
// missing fields fall back to the geometry defaults and the configured render
// defaults.
type spiralRequest struct {
	P           *int     `json:"p"`
	Q           *int     `json:"q"`
	T           *float64 `json:"t"`
	MaxDistance *float64 `json:"maxDistance"`
	ArcMode     *string  `json:"arcMode"`
	NumGaps     *int     `json:"numGaps"`

	Mode        *string  `json:"mode"`
	Size        *int     `json:"size"`
	StrokeWidth *float64 `json:"strokeWidth"`
	Outline     *bool    `json:"outline"`
	RedOutline  *bool    `json:"redOutline"`
	Spacing     *float64 `json:"spacing"`
	Angle       *float64 `json:"angle"`
	Offset      *float64 `json:"offset"`
}

// toParams merges the request onto the geometry defaults.
func (req *spiralRequest) toParams() (spiral.Params, error) {
	params := spiral.DefaultParams()
	if req.P != nil {
		params.P = *req.P
	}
	if req.Q != nil {
		params.Q = *req.Q
	}
	if req.T != nil {
		params.T = *req.T
	}
	if req.MaxDistance != nil {
		params.MaxDistance = *req.MaxDistance
	}
	if req.ArcMode != nil {
		mode, err := spiral.ParseArcMode(*req.ArcMode)
		if err != nil {
			return spiral.Params{}, err
		}
		params.ArcMode = mode
	}
	if req.NumGaps != nil {
		params.NumGaps = *req.NumGaps
	}
	return params, nil
}

// toOptions merges the request onto the configured render defaults.
func (req *spiralRequest) toOptions(h *routerHandlers) render.Options {
	opts := render.OptionsFrom(h.defaults)
	if req.Mode != nil {
		opts.Mode = render.Mode(*req.Mode)
	}
	if req.Size != nil {
		opts.Size = *req.Size
	}
	if req.StrokeWidth != nil {
		opts.StrokeWidth = *req.StrokeWidth
	}
	if req.Outline != nil {
		opts.DrawOutline = *req.Outline
	}
	if req.RedOutline != nil {
		opts.RedOutline = *req.RedOutline
	}
	if req.Spacing != nil {
		opts.Spacing = *req.Spacing
	}
	if req.Angle != nil {
		opts.AnglePerRing = *req.Angle
	}
	if req.Offset != nil {
		opts.Offset = *req.Offset
	}
	return opts
}

func (h *routerHandlers) handleCreateSpiral(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req spiralRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := req.toParams()
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	renderStart := time.Now()
	sp, err := h.renderer.Render(params)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	renderMs := time.Since(renderStart)

	opts := req.toOptions(h)
	svgStart := time.Now()
	svg, stats, err := render.SVG(sp, opts)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	RecordSVG(time.Since(svgStart))

	export := sp.Export(opts.AnglePerRing)
	id := h.store.Put(export, opts)

	RecordRender(renderMs, sp.VisibleCircleCount(), len(export.ArcGroups))
	UpdateTemplateCacheStats(h.renderer.CacheStats())

	writeJSON(w, map[string]interface{}{
		"svg": svg,
		"stats": map[string]interface{}{
			"arcgroups":  stats.ArcGroups,
			"polygons":   stats.Polygons + stats.HatchSegments,
			"durationMs": time.Since(start).Milliseconds(),
		},
		"renderMs": renderMs.Milliseconds(),
		"spiralId": id,
		"viewUrl":  "/api/spiral/" + id,
	})
}

func (h *routerHandlers) handleGetSpiral(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := h.store.Get(id)
	if !ok {
		writeError(w, "Spiral not found", http.StatusNotFound)
		return
	}
	writeJSON(w, entry.Export)
}

func (h *routerHandlers) handleGetSpiralSVG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, ok := h.store.Get(id)
	if !ok {
		writeError(w, "Spiral not found", http.StatusNotFound)
		return
	}

	// The store keeps only the export; re-render from the stored parameters.
	// The template cache makes this cheap for recently seen spirals.
	sp, err := h.renderer.Render(entry.Export.Params)
	if err != nil {
		writeRenderError(w, err)
		return
	}
	svg, _, err := render.SVG(sp, entry.Options)
	if err != nil {
		writeRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

func (h *routerHandlers) handleGetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"params": spiral.DefaultParams(),
		"render": h.defaults,
	})
}

// writeRenderError maps pipeline errors onto status codes: parameter errors
// are the client's fault, everything else is ours.
func writeRenderError(w http.ResponseWriter, err error) {
	var cfgErr *spiral.ConfigError
	if errors.As(err, &cfgErr) {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeError(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
