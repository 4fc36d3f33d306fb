package spiral

import (
	"encoding/json"
	"math"
)

// Parameter bounds enforced before any geometry work begins.
const (
	MinPQ          = 2
	MaxPQ          = 256
	MinMaxDistance = 10
	MaxMaxDistance = 50000
)

// Params are the inputs of one render invocation. Everything else the
// service accepts (canvas size, stroke widths, fill toggles) is
// presentational and handled by the rendering layer.
type Params struct {
	P           int     `json:"p"`
	Q           int     `json:"q"`
	T           float64 `json:"t"`
	MaxDistance float64 `json:"maxDistance"`
	ArcMode     ArcMode `json:"arcMode"`
	NumGaps     int     `json:"numGaps"`
}

// DefaultParams mirrors the service defaults: a 16x16 spiral with two gaps
// per circle.
func DefaultParams() Params {
	return Params{
		P:           16,
		Q:           16,
		T:           0,
		MaxDistance: 2000,
		ArcMode:     ModeClosest,
		NumGaps:     2,
	}
}

// Validate checks the parameter bounds. A nil return guarantees the solver
// and generator can run without further input checking.
func (p Params) Validate() error {
	if p.P < MinPQ || p.P > MaxPQ {
		return &ConfigError{Field: "p", Msg: "must be in [2,256]"}
	}
	if p.Q < MinPQ || p.Q > MaxPQ {
		return &ConfigError{Field: "q", Msg: "must be in [2,256]"}
	}
	if math.IsNaN(p.T) || math.IsInf(p.T, 0) {
		return &ConfigError{Field: "t", Msg: "must be finite"}
	}
	if p.MaxDistance < MinMaxDistance || p.MaxDistance > MaxMaxDistance {
		return &ConfigError{Field: "maxDistance", Msg: "must be in [10,50000]"}
	}
	if p.ArcMode < ModeClosest || p.ArcMode > ModeAngular {
		return &ConfigError{Field: "arcMode", Msg: "unknown arc selection mode"}
	}
	if p.NumGaps < 0 {
		return &ConfigError{Field: "numGaps", Msg: "must be >= 0"}
	}
	return nil
}

// MarshalJSON emits arc modes by name so exports stay readable.
func (m ArcMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts arc mode names; unknown names fail decoding.
func (m *ArcMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, err := ParseArcMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
