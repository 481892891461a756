package config

import (
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/cloud"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/layout"
)

type Dim struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Layout picks the LED positions: an OPC file, a named preset, or a grid,
// in that order of preference. With none of them set it is the AMCP
// platform.
type Layout struct {
	File   string `yaml:"file,omitempty"`
	Preset string `yaml:"preset,omitempty"` // "amcp"

	Dim             Dim     `yaml:"dim"`
	PitchMM         float64 `yaml:"pitch_mm"`
	PanelGapMM      float64 `yaml:"panel_gap_mm"`
	XFlipEveryRow   bool    `yaml:"x_flip_every_row"`
	YFlipEveryPanel bool    `yaml:"y_flip_every_panel"`
}

type Lightning struct {
	Center [3]float64 `yaml:"center,flow"`
	Color  string     `yaml:"color,omitempty"` // hex, default white
	Luma   *float64   `yaml:"luma,omitempty"`  // scales Color, default 1
	// Falloff must be >= 0.
	Falloff float64 `yaml:"falloff"`
}

type Render struct {
	Workers  int `yaml:"workers"`   // 0 = GOMAXPROCS
	MinChunk int `yaml:"min_chunk"` // LEDs per goroutine, at least

	cloud.Limits `yaml:",inline"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Output struct {
	File       string `yaml:"file,omitempty"` // raw RGB, "-" for stdout
	PNG        string `yaml:"png,omitempty"`
	PNGColumns int    `yaml:"png_columns"`
	PNGScale   int    `yaml:"png_scale"`
}

type Config struct {
	Layout    Layout       `yaml:"layout"`
	Effect    cloud.Params `yaml:"effect"`
	Lightning []Lightning  `yaml:"lightning,omitempty"`
	Render    Render       `yaml:"render"`
	Server    Server       `yaml:"server"`
	Output    Output       `yaml:"output"`
}

// Default is the cloud platform with its stock effect settings.
func Default() *Config {
	return &Config{
		Layout: Layout{
			PitchMM:    10,
			PanelGapMM: 50,
		},
		Effect: cloud.DefaultParams(),
		Render: Render{MinChunk: 256, Limits: cloud.DefaultLimits},
		Server: Server{Addr: ":8080"},
		Output: Output{PNGColumns: 64, PNGScale: 8},
	}
}

// Load reads path over Default, so keys the file omits keep their
// defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (l Layout) Grid() layout.Layout {
	return layout.Layout{
		Dim:        layout.Dim{X: l.Dim.X, Y: l.Dim.Y, Z: l.Dim.Z},
		Order:      layout.Serpentine{XFlipEveryRow: l.XFlipEveryRow, YFlipEveryPanel: l.YFlipEveryPanel},
		PanelGapMM: l.PanelGapMM,
		PitchMM:    l.PitchMM,
	}
}

// Points resolves the configured layout to LED positions.
func (l Layout) Points() ([]r3.Vector, error) {
	switch {
	case l.File != "":
		return layout.Load(l.File)
	case l.Preset == "amcp":
		return layout.AMCP(), nil
	case l.Preset == "grid":
		return l.Grid().Points(), nil
	case l.Preset != "":
		return nil, fmt.Errorf("unknown layout preset %q", l.Preset)
	case l.Grid().Count() > 0:
		return l.Grid().Points(), nil
	default:
		return layout.AMCP(), nil
	}
}

// Record encodes the bolt as a 7-float lightning record.
func (l Lightning) Record() ([]float64, error) {
	c := colorful.Color{R: 1, G: 1, B: 1}
	if l.Color != "" {
		var err error
		if c, err = colorful.Hex(l.Color); err != nil {
			return nil, fmt.Errorf("lightning color %q: %w", l.Color, err)
		}
	}
	if l.Luma != nil {
		k := *l.Luma
		c = colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
	}
	center := r3.Vector{X: l.Center[0], Y: l.Center[1], Z: l.Center[2]}
	return cloud.ColoredLightningRecord(center, c, l.Falloff), nil
}

// Records encodes every configured bolt.
func (c *Config) Records() ([][]float64, error) {
	out := make([][]float64, 0, len(c.Lightning))
	for i, l := range c.Lightning {
		r, err := l.Record()
		if err != nil {
			return nil, fmt.Errorf("lightning %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
