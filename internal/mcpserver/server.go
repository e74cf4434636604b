package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"idfctl/internal/combination"
	"idfctl/internal/config"
	"idfctl/internal/resolver"
	"idfctl/pkg/logging"
)

// Config holds the SSE endpoint settings.
type Config struct {
	Host string
	Port int
}

// Server exposes the configuration engine over MCP so AI assistants and
// other tooling can query apps, validate combinations and generate matrices
// without shelling out to the CLI.
type Server struct {
	config    Config
	version   string
	model     *config.Model
	validator *combination.Validator
	resolver  *resolver.Resolver

	server    *server.MCPServer
	sseServer *server.SSEServer
}

// New creates an MCP server over a loaded configuration.
func New(cfg Config, version string, load *config.Result, res *resolver.Resolver) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8090
	}
	return &Server{
		config:    cfg,
		version:   version,
		model:     load.Model,
		validator: combination.NewValidator(load.Model),
		resolver:  res,
	}
}

// Start brings up the SSE endpoint. It returns once the listener goroutine
// is running; use Stop for shutdown.
func (s *Server) Start(ctx context.Context) error {
	if s.server != nil {
		return fmt.Errorf("mcp server already started")
	}

	mcpServer := server.NewMCPServer(
		"idfctl",
		s.version,
		server.WithToolCapabilities(true),
	)
	mcpServer.AddTools(s.tools()...)
	s.server = mcpServer

	baseURL := fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
	s.sseServer = server.NewSSEServer(
		s.server,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	logging.Info("MCPServer", "Starting MCP server on %s", addr)

	sseServer := s.sseServer
	go func() {
		if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logging.Error("MCPServer", err, "SSE server error")
		}
	}()

	return nil
}

// Stop shuts the SSE endpoint down.
func (s *Server) Stop(ctx context.Context) error {
	if s.sseServer == nil {
		return fmt.Errorf("mcp server not started")
	}
	return s.sseServer.Shutdown(ctx)
}

// Endpoint returns the SSE endpoint URL clients connect to.
func (s *Server) Endpoint() string {
	return fmt.Sprintf("http://%s:%d/sse", s.config.Host, s.config.Port)
}
