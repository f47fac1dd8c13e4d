package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/image/bmp"

	"github.com/pthm-cable/heightfield/config"
	"github.com/pthm-cable/heightfield/export"
	"github.com/pthm-cable/heightfield/heightmap"
	"github.com/pthm-cable/heightfield/pipeline"
	"github.com/pthm-cable/heightfield/terrain"
)

// server handles heightmap requests against a read-only config.
type server struct {
	cfg *config.Config
}

// newRouter configures all routes and returns the router.
func newRouter(cfg *config.Config) http.Handler {
	s := &server{cfg: cfg}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/strategies", s.listStrategies)
	r.Get("/heightmap/{strategy}.{format}", s.heightmap)

	return r
}

// strategyInfo describes one registered strategy.
type strategyInfo struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// listStrategies handles GET /strategies.
func (s *server) listStrategies(w http.ResponseWriter, r *http.Request) {
	out := make([]strategyInfo, 0, len(terrain.Names))
	for _, name := range terrain.Names {
		st, err := terrain.New(name, s.cfg)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		width, height := st.Dims()
		out = append(out, strategyInfo{Name: name, Width: width, Height: height})
	}
	respondJSON(w, http.StatusOK, out)
}

// heightmap handles GET /heightmap/{strategy}.{format}?seed=n.
func (s *server) heightmap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "strategy")
	format := chi.URLParam(r, "format")

	contentType, ok := contentTypes[format]
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	seed := s.cfg.Seed
	if q := r.URL.Query().Get("seed"); q != "" {
		v, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid seed")
			return
		}
		seed = v
	}

	st, err := terrain.New(name, s.cfg)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	if width, height := st.Dims(); width*height > s.cfg.Server.MaxCells {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("%dx%d exceeds max_cells %d", width, height, s.cfg.Server.MaxCells))
		return
	}

	res, err := pipeline.Build(s.cfg, st, seed, nil)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := s.encode(&buf, res, format); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Seed", strconv.FormatInt(seed, 10))
	w.Header().Set("X-RNG-Draws", strconv.FormatUint(res.Draws, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

var contentTypes = map[string]string{
	"png": "image/png",
	"bmp": "image/bmp",
	"csv": "text/csv",
}

func (s *server) encode(buf *bytes.Buffer, res *pipeline.Result, format string) error {
	if format == "csv" {
		if res.Points != nil {
			return export.PointsCSV(buf, res.Points)
		}
		return export.CellsCSV(buf, res.Normalized)
	}

	img, err := res.Image(s.cfg)
	if err != nil {
		return err
	}
	if format == "bmp" {
		return bmp.Encode(buf, export.Paletted(img, s.cfg.Export.BMPColors))
	}
	return png.Encode(buf, img)
}

// statusFor maps generation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, terrain.ErrUnknownStrategy):
		return http.StatusNotFound
	case errors.Is(err, terrain.ErrInvalidParams), errors.Is(err, terrain.ErrInvalidGridSize):
		return http.StatusBadRequest
	case errors.Is(err, heightmap.ErrDegenerateRange), errors.Is(err, heightmap.ErrNonFinite):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs each request via slog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", float64(time.Since(start))/float64(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
