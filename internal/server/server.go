// Package server exposes the cloud renderer over HTTP and websockets so a
// remote animation driver can send frames and get pixels back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
	"gopkg.in/macaron.v1"

	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/cloud"
	diag "github.com/ArdentHeavyIndustries/amcp-rpi/internal/diagnostics"
	"github.com/ArdentHeavyIndustries/amcp-rpi/internal/render"
)

const (
	maxBody   = 64 << 20
	writeWait = 2 * time.Second
)

type Server struct {
	engine *render.Engine
	limits cloud.Limits
	log    zerolog.Logger

	registry metrics.Registry
	frames   metrics.Timer
	failures metrics.Counter
	leds     metrics.Histogram

	started  time.Time
	upgrader websocket.Upgrader
	m        *macaron.Macaron
}

func New(e *render.Engine, lim cloud.Limits, log zerolog.Logger) *Server {
	reg := metrics.NewRegistry()
	s := &Server{
		engine:   e,
		limits:   lim,
		log:      log,
		registry: reg,
		frames:   metrics.GetOrRegisterTimer("render.frame", reg),
		failures: metrics.GetOrRegisterCounter("render.errors", reg),
		leds:     metrics.GetOrRegisterHistogram("render.leds", reg, metrics.NewExpDecaySample(1028, 0.015)),
		started:  time.Now(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}

	m := macaron.New()
	m.Use(macaron.Recovery())
	m.Use(withCORS)
	m.Get("/health", s.handleHealth)
	m.Post("/render", s.handleRender)
	m.Get("/ws", s.handleWS)
	s.m = m
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.m.ServeHTTP(w, r)
}

// Registry holds the render.frame timer, render.errors counter and
// render.leds histogram.
func (s *Server) Registry() metrics.Registry { return s.registry }

// Render renders one frame and records it in the server's metrics.
func (s *Server) Render(req *cloud.Request) ([]byte, error) {
	start := time.Now()
	out, err := cloud.RenderWith(s.engine, s.limits, req)
	if err != nil {
		s.failures.Inc(1)
		s.log.Warn().Err(err).Int("model_bytes", len(req.Model)).Msg("render rejected")
		return nil, err
	}
	s.frames.UpdateSince(start)
	s.leds.Update(int64(len(out) / render.BytesPerLED))
	s.log.Debug().
		Int("leds", len(out)/render.BytesPerLED).
		Int("lightning", len(req.Lightning)).
		Dur("took", time.Since(start)).
		Msg("frame")
	return out, nil
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Int("workers", s.engine.Parallelism()).Msg("HTTP server starting")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shut); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type health struct {
	Frames     int64   `json:"frames"`
	Errors     int64   `json:"errors"`
	UptimeS    float64 `json:"uptime_s"`
	MeanMs     float64 `json:"mean_ms"`
	Workers    int     `json:"workers"`
	LEDsMedian float64 `json:"leds_p50"`
}

func (s *Server) handleHealth(ctx *macaron.Context) {
	h := health{
		Frames:     s.frames.Count(),
		Errors:     s.failures.Count(),
		UptimeS:    time.Since(s.started).Seconds(),
		MeanMs:     s.frames.Mean() / float64(time.Millisecond),
		Workers:    s.engine.Parallelism(),
		LEDsMedian: s.leds.Percentile(0.5),
	}
	writeJSON(ctx.Resp, http.StatusOK, h)
}

func (s *Server) handleRender(ctx *macaron.Context) {
	body := http.MaxBytesReader(ctx.Resp, ctx.Req.Request.Body, maxBody)
	var req cloud.Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.failures.Inc(1)
		writeJSON(ctx.Resp, http.StatusBadRequest, diag.BadRequest(err))
		return
	}
	out, err := s.Render(&req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, cloud.ErrOutOfMemory) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(ctx.Resp, status, diag.FromError(err))
		return
	}
	ctx.Resp.Header().Set("Content-Type", "application/octet-stream")
	ctx.Resp.WriteHeader(http.StatusOK)
	_, _ = ctx.Resp.Write(out)
}

// handleWS answers every text frame, a JSON request, with either a binary
// frame of pixels or a text frame holding a diagnostic.
func (s *Server) handleWS(ctx *macaron.Context) {
	conn, err := s.upgrader.Upgrade(ctx.Resp, ctx.Req.Request, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBody)
	// the http.Server read timeout outlives the hijack
	conn.SetReadDeadline(time.Time{})

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		var reply []byte
		kind := websocket.BinaryMessage

		var req cloud.Request
		if err := json.Unmarshal(data, &req); err != nil {
			s.failures.Inc(1)
			reply, kind = mustJSON(diag.BadRequest(err)), websocket.TextMessage
		} else if out, err := s.Render(&req); err != nil {
			reply, kind = mustJSON(diag.FromError(err)), websocket.TextMessage
		} else {
			reply = out
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(kind, reply); err != nil {
			s.log.Debug().Err(err).Msg("write frame")
			return
		}
	}
}

func withCORS(ctx *macaron.Context) {
	h := ctx.Resp.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	if ctx.Req.Method == http.MethodOptions {
		ctx.Resp.WriteHeader(http.StatusOK)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
