// Package server hosts the local preview HTTP server and the content
// watcher behind the serve/devserver commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/blogsmith/blogsmith/internal/logfields"
)

// Options configure the preview server.
type Options struct {
	Bind string // default 127.0.0.1; 0.0.0.0 for serve-global
	Port int    // default 8000
	Dir  string // output directory to serve
}

// Health tracks the last rebuild outcome for /healthz. The previous
// good site keeps serving while errors are surfaced out-of-band.
type Health struct {
	mu        sync.RWMutex
	lastErr   error
	goodBuild bool
}

func (h *Health) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr = err
}

func (h *Health) SetOK() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr = nil
	h.goodBuild = true
}

func (h *Health) Status() (lastErr error, goodBuild bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastErr, h.goodBuild
}

// Server serves the generated site.
type Server struct {
	opts    Options
	metrics *Metrics
	health  *Health
}

// New creates a Server. metrics and health may be shared with a
// watcher.
func New(opts Options, metrics *Metrics, health *Health) *Server {
	if opts.Bind == "" {
		opts.Bind = "127.0.0.1"
	}
	if opts.Port == 0 {
		opts.Port = 8000
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if health == nil {
		health = &Health{}
		health.SetOK()
	}
	return &Server{opts: opts, metrics: metrics, health: health}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Bind, strconv.Itoa(s.opts.Port))
}

// Run serves until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("preview server listening",
			logfields.URL("http://"+s.Addr()+"/"),
			logfields.Output(s.opts.Dir))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/", noCache(http.FileServer(http.Dir(s.opts.Dir))))
	return s.metrics.countRequests(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	lastErr, goodBuild := s.health.Status()
	switch {
	case lastErr != nil:
		http.Error(w, "last rebuild failed: "+lastErr.Error(), http.StatusServiceUnavailable)
	case !goodBuild:
		http.Error(w, "no successful build yet", http.StatusServiceUnavailable)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	}
}

// noCache keeps browsers honest while editing; the whole point of the
// preview is seeing the latest rebuild.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
