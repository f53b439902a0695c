package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/agenda/internal/platform/timeouts"
	"github.com/louisbranch/agenda/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Agenda MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Pinger reports storage liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server hosts the persona MCP server.
type Server struct {
	mcpServer *mcp.Server
	pinger    Pinger
}

// New creates an MCP server exposing persona tools and resources backed by
// svc. When svc also implements Pinger, Serve monitors storage liveness.
func New(svc domain.PersonaService) (*Server, error) {
	if svc == nil {
		return nil, errors.New("persona service is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	notify := func(ctx context.Context, uri string) {
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	registrar := mcpServerRegistrationAdapter{server: mcpServer}
	if err := registerPersonaTools(registrar, svc, notify); err != nil {
		return nil, err
	}
	registerPersonaResources(registrar, svc)

	server := &Server{mcpServer: mcpServer}
	if pinger, ok := svc.(Pinger); ok {
		server.pinger = pinger
	}
	return server, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport runs the MCP server on transport. Context cancellation
// is a clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	monitorCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.monitorStorage(monitorCtx, timeouts.HealthProbe)

	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// monitorStorage periodically pings storage and logs failures. Tool calls
// keep reporting their own storage errors.
func (s *Server) monitorStorage(ctx context.Context, interval time.Duration) {
	if s == nil || s.pinger == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCDial)
			err := s.pinger.Ping(callCtx)
			cancel()
			if err != nil {
				log.Printf("storage health check failed: %v", err)
			}
		}
	}
}
