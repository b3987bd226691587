// Package server exposes the label layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     build information
//	POST /v1/render   lay out a document and return one rendered format
//	POST /v1/lookup   return the label drawn at a point
//	GET  /v1/schema   the JSON schema documents are validated against
//
// Documents are posted inline as JSON and pass the same schema and
// semantic checks as documents read from disk.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartlabels/pkg/buildinfo"
	"github.com/matzehuels/chartlabels/pkg/chart"
	"github.com/matzehuels/chartlabels/pkg/errors"
	"github.com/matzehuels/chartlabels/pkg/geom"
	"github.com/matzehuels/chartlabels/pkg/httputil"
	chartio "github.com/matzehuels/chartlabels/pkg/io"
	"github.com/matzehuels/chartlabels/pkg/observability"
	"github.com/matzehuels/chartlabels/pkg/pipeline"
)

// DefaultRequestTimeout bounds a single request, negotiation included.
const DefaultRequestTimeout = 30 * time.Second

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// Server serves the pipeline of one runner.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	timeout time.Duration
	router  chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithRequestTimeout overrides [DefaultRequestTimeout].
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New builds a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schema", s.handleSchema)
		r.Post("/render", s.handleRender)
		r.Post("/lookup", s.handleLookup)
	})
	s.router = r
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then drains open
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// =============================================================================
// Handlers
// =============================================================================

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Document   json.RawMessage `json:"document"`
	Format     string          `json:"format,omitempty"`
	Debug      bool            `json:"debug,omitempty"`
	NoAdjust   bool            `json:"no_adjust,omitempty"`
	EmbedFont  bool            `json:"embed_font,omitempty"`
	Background string          `json:"background,omitempty"`
}

// LookupRequest is the body of POST /v1/lookup.
type LookupRequest struct {
	Document json.RawMessage `json:"document"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	NoAdjust bool            `json:"no_adjust,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(chartio.Schema())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Document:   doc,
		Formats:    []string{format},
		Debug:      req.Debug,
		NoAdjust:   req.NoAdjust,
		EmbedFont:  req.EmbedFont,
		Background: req.Background,
		Logger:     loggerFrom(r.Context(), s.logger),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Document-Hash", result.DocHash)
	if result.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	placement, err := s.runner.Lookup(r.Context(), pipeline.Options{
		Document: doc,
		NoAdjust: req.NoAdjust,
		Logger:   loggerFrom(r.Context(), s.logger),
	}, geom.Point{X: req.X, Y: req.Y})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, placement)
}

// decodeDocument runs an inline document through the same schema checks
// as a file on disk.
func decodeDocument(raw json.RawMessage) (*chart.Document, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	return chartio.Read(bytes.NewReader(raw), chartio.FormatJSON)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	logger := loggerFrom(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "status", status, "error", err)
	}
}
