package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/cloud"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/config"
	diag "github.com/ArdentHeavyIndustries/amcp-rpi/internal/diagnostics"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/layout"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/preview"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/render"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/server"
)

func main() {
	// ---- Flags (config.yaml overrides the defaults; flags given explicitly win) ----
	var (
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		layoutPath  = flag.String("layout", "", "OPC JSON layout file (overrides layout in config)")
		outPath     = flag.String("out", "", "write raw RGB frame here, - for stdout")
		pngPath     = flag.String("png", "", "write a PNG preview of the frame here")
		term        = flag.Bool("term", false, "print the frame to the terminal")
		bench       = flag.Int("bench", 0, "render this many frames and report the rate")
		serveAddr   = flag.String("serve", "", "serve renders over HTTP/websocket on this address")
		workers     = flag.Int("workers", 0, "render goroutines (0 = GOMAXPROCS)")
		debug       = flag.Bool("debug", false, "debug logging")
		writeLayout = flag.String("write-layout", "", "write the resolved layout as OPC JSON and exit")
		saveConfig  = flag.String("save-config", "", "write the effective config and exit")
	)
	flag.Parse()

	// ---- Logging (stderr, stdout may carry pixels) ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults")
	} else {
		cfg = c
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if *layoutPath != "" {
		cfg.Layout.File = *layoutPath
	}
	if set["workers"] {
		cfg.Render.Workers = *workers
	}
	if set["out"] {
		cfg.Output.File = *outPath
	}
	if set["png"] {
		cfg.Output.PNG = *pngPath
	}
	if set["serve"] {
		cfg.Server.Addr = *serveAddr
	}

	if *saveConfig != "" {
		if err := config.Save(*saveConfig, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *saveConfig).Msg("save config")
		}
		log.Info().Str("path", *saveConfig).Msg("config written")
		return
	}

	// ---- Build model ----
	points, err := cfg.Layout.Points()
	if err != nil {
		log.Fatal().Err(err).Msg("layout")
	}
	lo, hi := layout.Bounds(points)
	log.Info().
		Int("leds", len(points)).
		Floats64("min", []float64{lo.X, lo.Y, lo.Z}).
		Floats64("max", []float64{hi.X, hi.Y, hi.Z}).
		Msg("layout loaded")

	if *writeLayout != "" {
		if err := writeFile(*writeLayout, func(w io.Writer) error { return layout.WriteOPC(w, points) }); err != nil {
			log.Fatal().Err(err).Str("path", *writeLayout).Msg("write layout")
		}
		return
	}

	records, err := cfg.Records()
	if err != nil {
		log.Fatal().Err(err).Msg("lightning")
	}
	engine := &render.Engine{Workers: cfg.Render.Workers, MinChunk: cfg.Render.MinChunk}
	req := cfg.Effect.Request(layout.Pack(points), records)

	switch {
	case set["serve"]:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		srv := server.New(engine, cfg.Render.Limits, log.Logger)
		if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
			log.Fatal().Err(err).Msg("http server crashed")
		}
		log.Info().Msg("shut down")

	case *bench > 0:
		runBench(engine, cfg.Render.Limits, req, *bench)

	default:
		renderOnce(engine, cfg, req, *term)
	}
}

func renderOnce(e *render.Engine, cfg *config.Config, req *cloud.Request, term bool) {
	rgb, err := cloud.RenderWith(e, cfg.Render.Limits, req)
	if err != nil {
		d := diag.FromError(err)
		log.Fatal().Str("code", d.Code).Strs("fixes", d.SuggestedFixes).Msg(d.Detail)
	}
	if p := cfg.Output.File; p != "" {
		if err := writeFile(p, func(w io.Writer) error { _, err := w.Write(rgb); return err }); err != nil {
			log.Fatal().Err(err).Str("path", p).Msg("write frame")
		}
	}
	if p := cfg.Output.PNG; p != "" {
		png := func(w io.Writer) error {
			return preview.WritePNG(w, rgb, cfg.Output.PNGColumns, cfg.Output.PNGScale)
		}
		if err := writeFile(p, png); err != nil {
			log.Fatal().Err(err).Str("path", p).Msg("write preview")
		}
	}
	if term {
		if err := preview.Terminal(rgb); err != nil {
			log.Warn().Err(err).Msg("terminal preview")
		}
	}
	log.Info().Int("bytes", len(rgb)).Msg("frame rendered")
}

// runBench renders the same frame n times and logs the frame rate.
func runBench(e *render.Engine, lim cloud.Limits, req *cloud.Request, n int) {
	start := time.Now()
	for i := 0; i < n; i++ {
		if _, err := cloud.RenderWith(e, lim, req); err != nil {
			log.Fatal().Err(err).Int("frame", i).Msg("bench")
		}
	}
	elapsed := time.Since(start)
	rate := physic.Frequency(float64(n) / elapsed.Seconds() * float64(physic.Hertz))
	log.Info().
		Int("frames", n).
		Int("workers", e.Parallelism()).
		Dur("elapsed", elapsed).
		Stringer("rate", rate).
		Msg("bench done")
}

func writeFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
