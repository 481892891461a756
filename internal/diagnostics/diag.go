package diagnostics

import (
	"errors"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/cloud"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

const (
	MalformedModel     = "RENDER.MALFORMED_MODEL"
	MalformedLightning = "RENDER.MALFORMED_LIGHTNING"
	MalformedArgs      = "RENDER.MALFORMED_ARGS"
	OutOfMemory        = "RENDER.OUT_OF_MEMORY"
	RenderError        = "RENDER.ERROR"
)

// FromError describes a failed render. Detail carries err's message.
func FromError(err error) Diagnostic {
	d := Diagnostic{Severity: Err, Code: RenderError, Summary: "Render failed"}
	switch {
	case errors.Is(err, cloud.ErrMalformedModel):
		d.Code = MalformedModel
		d.Summary = "Model is not a whole number of positions"
		d.LikelyCauses = []string{"positions packed as float64", "truncated upload"}
		d.SuggestedFixes = []string{"pack each LED as three little-endian float32 values (12 bytes)"}
	case errors.Is(err, cloud.ErrMalformedLightning):
		d.Code = MalformedLightning
		d.Summary = "Lightning record could not be decoded"
		d.SuggestedFixes = []string{"send 7 values per bolt: cx, cy, cz, r, g, b, falloff", "keep falloff finite and >= 0"}
	case errors.Is(err, cloud.ErrMalformedArgs):
		d.Code = MalformedArgs
		d.Summary = "Matrix or color has the wrong number of values"
		d.SuggestedFixes = []string{"matrix takes 16 column-major values; colors take 3"}
	case errors.Is(err, cloud.ErrOutOfMemory):
		d.Code = OutOfMemory
		d.Summary = "Frame exceeds render limits"
		d.SuggestedFixes = []string{"raise render.max_leds or render.max_lightning"}
	}
	if err != nil {
		d.Detail = err.Error()
	}
	return d
}

// BadRequest describes a request body that could not be parsed at all.
func BadRequest(err error) Diagnostic {
	return Diagnostic{
		Severity:       Err,
		Code:           "REQUEST.INVALID",
		Summary:        "Request body is not a render request",
		Detail:         err.Error(),
		SuggestedFixes: []string{`send JSON {"model": base64, "matrix": [16], "base_color": [3], "noise_color": [3], "lightning": [[7], ...]}`},
	}
}
