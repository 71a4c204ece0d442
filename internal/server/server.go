// SPDX-License-Identifier: EPL-2.0

// Package server exposes waveform generation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/audpeaks/audio"
	"github.com/ik5/audpeaks/internal/config"
	"github.com/ik5/audpeaks/internal/storage"
	"github.com/ik5/audpeaks/waveform"
)

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	workers        int
	requestTimeout time.Duration
	defaults       waveform.Params
	logger         *slog.Logger
}

func defaultOptions() options {
	p := waveform.DefaultParams()
	p.SplitChannels = true

	return options{
		workers:        4,
		requestTimeout: 60 * time.Second,
		defaults:       p,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithWorkers sets the maximum number of concurrent waveform requests.
// Zero disables the limit.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithDefaults sets the parameters used when a request does not override them.
func WithDefaults(p waveform.Params) Option {
	return func(o *options) { o.defaults = p }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	proc Processor
	opts options
	sem  chan struct{} // semaphore for worker pool
	log  *slog.Logger
}

// NewHandler returns an http.Handler serving the waveform routes and /health.
func NewHandler(proc Processor, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		proc: proc,
		opts: opts,
		log:  opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /api/process-audio", h.handleDat)
	mux.HandleFunc("GET /audio-processor/process-audio", h.handleDat)
	mux.HandleFunc("GET /api/process-audio-json", h.handleJSON)

	return withRequestID(mux)
}

type ctxKey struct{}

// withRequestID tags every request with an ID, reusing a valid incoming one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the ID assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleDat(w http.ResponseWriter, r *http.Request) {
	env, ok := h.process(w, r)
	if !ok {
		return
	}

	dat, err := env.MarshalBinary()
	if err != nil {
		h.log.ErrorContext(r.Context(), "encoding failed",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="peaks.dat"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(dat)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dat)
}

func (h *handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	env, ok := h.process(w, r)
	if !ok {
		return
	}

	data, err := env.JSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// process validates the query, runs the Processor and writes the error
// response itself when it fails.
func (h *handler) process(w http.ResponseWriter, r *http.Request) (*waveform.Envelope, bool) {
	q := r.URL.Query()

	fileName := strings.TrimSpace(q.Get("fileName"))
	if fileName == "" {
		writeError(w, http.StatusBadRequest, "fileName query parameter is required")
		return nil, false
	}

	params, err := h.params(q.Get("samplesPerPixel"), q.Get("bits"), q.Get("splitChannels"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	// Acquire a worker slot, honouring cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return nil, false
		}
		defer func() { <-h.sem }()
	}

	ctx := r.Context()
	if h.opts.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	env, err := h.proc.Process(ctx, fileName, params)
	durationMS := time.Since(start).Milliseconds()

	attrs := []any{
		slog.String("request_id", RequestID(r.Context())),
		slog.String("file", fileName),
		slog.Int64("duration_ms", durationMS),
	}

	if err != nil {
		status, msg := classify(err)
		attrs = append(attrs, slog.Int("status", status), slog.String("error", err.Error()))
		if status >= http.StatusInternalServerError {
			h.log.ErrorContext(r.Context(), "waveform request failed", attrs...)
		} else {
			h.log.WarnContext(r.Context(), "waveform request rejected", attrs...)
		}

		writeError(w, status, msg)
		return nil, false
	}

	h.log.InfoContext(r.Context(), "waveform generated",
		append(attrs,
			slog.Int("channels", env.Channels),
			slog.Int("length", env.Length),
			slog.Int("bits", env.Bits()),
		)...,
	)

	return env, true
}

// params applies the query overrides to the configured defaults.
func (h *handler) params(spp, bits, split string) (waveform.Params, error) {
	p := h.opts.defaults

	if spp != "" {
		n, err := strconv.Atoi(spp)
		if err != nil {
			return p, fmt.Errorf("invalid samplesPerPixel %q", spp)
		}
		p.SamplesPerPixel = n
	}

	if bits != "" {
		n, err := strconv.Atoi(bits)
		if err != nil {
			return p, fmt.Errorf("invalid bits %q", bits)
		}
		p.Bits = n
	}

	if split != "" {
		b, err := strconv.ParseBool(split)
		if err != nil {
			return p, fmt.Errorf("invalid splitChannels %q", split)
		}
		p.SplitChannels = b
	}

	if err := p.Validate(); err != nil {
		return p, err
	}

	return p, nil
}

// classify maps a processing error to a status code and client message.
// Storage causes are kept out of the response.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrFileRead):
		return http.StatusInternalServerError, storage.ErrFileRead.Error()
	case errors.Is(err, storage.ErrInvalidPath), errors.Is(err, waveform.ErrInvalidParams):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "waveform generation timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	case errors.Is(err, audio.ErrDecode):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	proc            Processor
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New returns a Server for cfg. A nil proc is replaced by a Service reading
// from cfg.Server.BaseDir when the server starts.
func New(cfg config.Config, proc Processor) *Server {
	return &Server{
		cfg:             cfg,
		proc:            proc,
		logger:          slog.Default(),
		shutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger sets the logger passed to the handler.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

func (s *Server) Start(ctx context.Context) error {
	proc := s.proc
	if proc == nil {
		store, err := storage.NewFileStore(s.cfg.Server.BaseDir)
		if err != nil {
			return err
		}
		proc = NewService(store, nil)
	}

	h := NewHandler(proc,
		WithWorkers(s.cfg.Server.Workers),
		WithRequestTimeout(s.cfg.Server.RequestTimeoutDuration()),
		WithDefaults(s.cfg.Waveform.Params()),
		WithLogger(s.logger),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.InfoContext(ctx, "listening", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}
