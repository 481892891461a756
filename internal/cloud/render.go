// Package cloud is the single call boundary of the cloud effect: it
// validates a frame's encoded inputs and hands them to the render kernel.
package cloud

import (
	"github.com/golang/geo/r3"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/render"
)

// Request is one frame's worth of encoded inputs. In JSON the model is
// base64.
type Request struct {
	Model      []byte      `json:"model"`
	Matrix     []float64   `json:"matrix"`
	BaseColor  []float64   `json:"base_color"`
	NoiseColor []float64   `json:"noise_color"`
	Lightning  [][]float64 `json:"lightning,omitempty"`
}

// Render validates req and returns 3 bytes (R, G, B) per LED in model
// order, using the default engine and limits.
func Render(req *Request) ([]byte, error) {
	return RenderWith(render.DefaultEngine, DefaultLimits, req)
}

// RenderWith is Render with an explicit engine and limits. Nothing is
// shaded unless every input is valid.
func RenderWith(e *render.Engine, lim Limits, req *Request) ([]byte, error) {
	positions, args, err := req.Decode(lim)
	if err != nil {
		return nil, err
	}
	return e.Render(positions, args), nil
}

// Decode validates req against lim and converts it to kernel inputs.
func (req *Request) Decode(lim Limits) ([]r3.Vector, *render.Args, error) {
	n, err := modelLen(req.Model)
	if err != nil {
		return nil, nil, err
	}
	m, err := DecodeMatrix(req.Matrix)
	if err != nil {
		return nil, nil, err
	}
	base, err := DecodeColor("base color", req.BaseColor)
	if err != nil {
		return nil, nil, err
	}
	nc, err := DecodeColor("noise color", req.NoiseColor)
	if err != nil {
		return nil, nil, err
	}
	if err := lim.check(n, len(req.Lightning)); err != nil {
		return nil, nil, err
	}
	lights, err := DecodeLightning(req.Lightning)
	if err != nil {
		return nil, nil, err
	}
	positions, err := DecodeModel(req.Model)
	if err != nil {
		return nil, nil, err
	}
	return positions, &render.Args{Matrix: m, Base: base, Noise: nc, Lightning: lights}, nil
}
