package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	tachyon "github.com/alnah/go-tachyon"
	"github.com/alnah/go-tachyon/internal/hints"
	"github.com/alnah/go-tachyon/internal/sitefs"
)

// Preview server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// runServe executes the serve command: pages are compiled on request
// from the source root, nothing is written to the output root.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args)
	if err != nil {
		return flagError(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, positional[0])
	}

	site, cfg, logger, err := openSite(flags.common, flags.site, flags.assets, true, env)
	if err != nil {
		return err
	}
	addr := cfg.Serve.Addr
	if flags.addr != "" {
		addr = flags.addr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w%s", addr, err, hints.ForServeAddr(addr))
	}

	srv := &http.Server{
		Handler:           newPreviewHandler(site, logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s on http://%s/\n", site.Source(), ln.Addr())
	}
	return servePreview(ctx, srv, ln, logger)
}

// servePreview serves until ctx is cancelled, then shuts down gracefully.
func servePreview(ctx context.Context, srv *http.Server, ln net.Listener, logger zerolog.Logger) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// previewHandler renders site pages on request.
type previewHandler struct {
	site   *tachyon.Site
	logger zerolog.Logger
}

// newPreviewHandler routes every GET to the page renderer, falling back
// to the raw source file for resources such as images and stylesheets.
func newPreviewHandler(site *tachyon.Site, logger zerolog.Logger) http.Handler {
	h := &previewHandler{site: site, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", h.handleHealth)
	r.Get("/*", h.handlePage)
	return r
}

func (h *previewHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (h *previewHandler) handlePage(w http.ResponseWriter, r *http.Request) {
	logical := path.Clean("/" + chi.URLParam(r, "*"))

	page, err := h.site.RenderPage(r.Context(), logical)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
		return
	case !errors.Is(err, tachyon.ErrPageNotFound):
		h.logger.Error().Err(err).Str("path", logical).Msg("render failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	host := sitefs.HostPath(h.site.Source(), logical)
	info, statErr := os.Stat(host)
	if statErr != nil || info.IsDir() || h.site.Ignored(host) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, host)
}

// requestLogger logs one line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Str("request_id", middleware.GetReqID(r.Context())).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
