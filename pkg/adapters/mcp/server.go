package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/debloat"
	"github.com/aretw0/debloat/internal/logging"
	"github.com/aretw0/debloat/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// CatalogURI is the resource URI of the catalog.
const CatalogURI = "debloat://catalog"

// StatusResponse is the structured result of the session tools.
type StatusResponse struct {
	SessionID string      `json:"session_id" jsonschema_description:"The session the result refers to"`
	Accepted  *bool       `json:"accepted,omitempty" jsonschema_description:"For start_run: whether a new run was started"`
	View      domain.View `json:"view" jsonschema_description:"Run state and preferences of the session"`
}

// ToggleResponse is the structured result of the toggle tools.
type ToggleResponse struct {
	SessionID string `json:"session_id"`
	ID        string `json:"id,omitempty" jsonschema_description:"The toggled option or category"`
	Value     bool   `json:"value" jsonschema_description:"New enabled (option) or collapsed (category) flag"`
	Theme     string `json:"theme,omitempty"`
}

type sessionArgs struct {
	SessionID string `mapstructure:"session_id"`
}

type startArgs struct {
	SessionID string `mapstructure:"session_id"`
	Wait      bool   `mapstructure:"wait"`
}

type optionArgs struct {
	SessionID string `mapstructure:"session_id"`
	OptionID  string `mapstructure:"option_id"`
}

type categoryArgs struct {
	SessionID  string `mapstructure:"session_id"`
	CategoryID string `mapstructure:"category_id"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Catalog() *domain.Catalog
	Session(ctx context.Context, id string) (*debloat.Session, error)
}

// Server wraps the debloat Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("debloat-mcp", debloat.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionParam() mcp.ToolOption {
	return mcp.WithString("session_id", mcp.Description("Session ID (optional, defaults to \"default\")"))
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_catalog",
		mcp.WithDescription("List every tweak category and option, with default selection and command."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Catalog())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Get the run state (is_running, progress, log) and the selection of a session."),
		sessionParam(),
		mcp.WithOutputSchema[StatusResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetStatus))

	s.mcpServer.AddTool(mcp.NewTool("start_run",
		mcp.WithDescription("Apply the selected tweaks. Ignored while a run is already in progress."),
		sessionParam(),
		mcp.WithBoolean("wait", mcp.Description("Block until the run has finished")),
		mcp.WithOutputSchema[StatusResponse](),
	), mcp.NewStructuredToolHandler(s.handleStartRun))

	s.mcpServer.AddTool(mcp.NewTool("toggle_option",
		mcp.WithDescription("Flip whether an option is selected."),
		sessionParam(),
		mcp.WithString("option_id", mcp.Required(), mcp.Description("Option ID from list_catalog")),
		mcp.WithOutputSchema[ToggleResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggleOption))

	s.mcpServer.AddTool(mcp.NewTool("toggle_category",
		mcp.WithDescription("Flip whether a category is collapsed in the UI."),
		sessionParam(),
		mcp.WithString("category_id", mcp.Required(), mcp.Description("Category ID from list_catalog")),
		mcp.WithOutputSchema[ToggleResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggleCategory))

	s.mcpServer.AddTool(mcp.NewTool("toggle_theme",
		mcp.WithDescription("Switch the session between the light and dark theme."),
		sessionParam(),
		mcp.WithOutputSchema[ToggleResponse](),
	), mcp.NewStructuredToolHandler(s.handleToggleTheme))
}

func decodeArgs(args map[string]interface{}, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return StatusResponse{}, err
	}
	sess, err := s.engine.Session(ctx, in.SessionID)
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{SessionID: sess.ID(), View: sess.View()}, nil
}

func (s *Server) handleStartRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	var in startArgs
	if err := decodeArgs(args, &in); err != nil {
		return StatusResponse{}, err
	}
	sess, err := s.engine.Session(ctx, in.SessionID)
	if err != nil {
		return StatusResponse{}, err
	}

	accepted := sess.Start(ctx)
	if accepted && in.Wait {
		if err := sess.Wait(ctx); err != nil {
			return StatusResponse{}, fmt.Errorf("wait for run: %w", err)
		}
	}
	s.logger.Info("MCP start_run", "session_id", sess.ID(), "accepted", accepted)
	return StatusResponse{SessionID: sess.ID(), Accepted: &accepted, View: sess.View()}, nil
}

func (s *Server) handleToggleOption(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToggleResponse, error) {
	var in optionArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToggleResponse{}, err
	}
	sess, err := s.engine.Session(ctx, in.SessionID)
	if err != nil {
		return ToggleResponse{}, err
	}
	v, err := sess.ToggleOption(ctx, in.OptionID)
	if err != nil {
		return ToggleResponse{}, err
	}
	return ToggleResponse{SessionID: sess.ID(), ID: in.OptionID, Value: v}, nil
}

func (s *Server) handleToggleCategory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToggleResponse, error) {
	var in categoryArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToggleResponse{}, err
	}
	sess, err := s.engine.Session(ctx, in.SessionID)
	if err != nil {
		return ToggleResponse{}, err
	}
	v, err := sess.ToggleCategory(ctx, in.CategoryID)
	if err != nil {
		return ToggleResponse{}, err
	}
	return ToggleResponse{SessionID: sess.ID(), ID: in.CategoryID, Value: v}, nil
}

func (s *Server) handleToggleTheme(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToggleResponse, error) {
	var in sessionArgs
	if err := decodeArgs(args, &in); err != nil {
		return ToggleResponse{}, err
	}
	sess, err := s.engine.Session(ctx, in.SessionID)
	if err != nil {
		return ToggleResponse{}, err
	}
	theme, err := sess.ToggleTheme(ctx)
	if err != nil {
		return ToggleResponse{}, err
	}
	return ToggleResponse{SessionID: sess.ID(), Theme: theme}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Tweak Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
