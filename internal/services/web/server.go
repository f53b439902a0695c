// Package web hosts the browser-facing persona contact book.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/agenda/internal/platform/timeouts"
	corepersonas "github.com/louisbranch/agenda/internal/services/agenda/personas"
	webapp "github.com/louisbranch/agenda/internal/services/web/app"
	module "github.com/louisbranch/agenda/internal/services/web/module"
	"github.com/louisbranch/agenda/internal/services/web/modules"
	apperrors "github.com/louisbranch/agenda/internal/services/web/platform/errors"
	"github.com/louisbranch/agenda/internal/services/web/platform/flash"
	"github.com/louisbranch/agenda/internal/services/web/platform/httpx"
	"github.com/louisbranch/agenda/internal/services/web/platform/observability"
	"github.com/louisbranch/agenda/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/agenda/internal/services/web/routepath"
	webstatic "github.com/louisbranch/agenda/internal/services/web/static"
)

// Config defines startup inputs for the web service. A nil Personas service
// starts the server in degraded mode. A nil Flash codec is replaced by one
// signing with a random per-process key.
type Config struct {
	HTTPAddr     string
	Personas     *corepersonas.Service
	Flash        *flash.Codec
	SchemePolicy requestmeta.SchemePolicy
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	codec := cfg.Flash
	if codec == nil {
		var err error
		codec, err = flash.NewCodec(nil, flash.WithSchemePolicy(cfg.SchemePolicy))
		if err != nil {
			return nil, fmt.Errorf("init flash codec: %w", err)
		}
	}
	deps := module.Dependencies{
		Personas: cfg.Personas,
		Flash:    codec,
	}
	defaultModules := modules.DefaultModules(deps)
	h, err := webapp.Composer{}.Compose(webapp.ComposeInput{
		Modules:             defaultModules,
		RequestSchemePolicy: cfg.SchemePolicy,
	})
	if err != nil {
		return nil, err
	}
	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.Static, http.StripPrefix(routepath.Static, http.FileServer(http.FS(webstatic.FS))))
	rootMux.HandleFunc(http.MethodGet+" "+routepath.Health, healthHandler(cfg.Personas, defaultModules))
	rootMux.HandleFunc(routepath.Health, httpx.MethodNotAllowed(http.MethodGet))
	rootMux.Handle("/", h)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		observability.RequestLogger(log.Default()),
	), nil
}

var errUnavailable = apperrors.E(apperrors.KindUnavailable, "unavailable")

// healthHandler answers 200 while every module is healthy and storage
// answers a ping, 503 otherwise.
func healthHandler(personas *corepersonas.Service, mounted []module.Module) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if !webapp.Healthy(mounted) {
			httpx.WriteError(w, errUnavailable)
			return
		}
		if err := personas.Ping(r.Context()); err != nil {
			log.Printf("health check failed: %v", err)
			httpx.WriteError(w, errUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
