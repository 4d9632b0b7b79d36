package mcp

import (
	"context"
	"errors"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsl-infer/internal/mcp/prompts"
	"github.com/usestring/jsl-infer/internal/mcp/tools"
)

// Version is reported to clients in the initialize handshake.
var Version = "dev"

const instructions = "Infer schemas from example JSON records with jsl_infer_schema, " +
	"then check further samples against the stored schema with jsl_validate_records. " +
	"Stored schemas are readable as jsl-infer://schema/{schema_id} resources."

// Server exposes schema inference over MCP: the inference and validation
// tools, the stored-schema resources, and the authoring prompts.
type Server struct {
	sdk    *sdkmcp.Server
	deps   *tools.Deps
	logger *slog.Logger
}

type serverOptions struct {
	tools   bool
	prompts bool
	logger  *slog.Logger
	extra   []func(*sdkmcp.Server)
}

// ServerOption configures NewServer.
type ServerOption func(*serverOptions)

// WithBuiltinTools registers jsl_infer_schema, jsl_validate_records and the
// schema resources they refer to.
func WithBuiltinTools() ServerOption {
	return func(o *serverOptions) { o.tools = true }
}

// WithBuiltinPrompts registers the schema authoring prompts.
func WithBuiltinPrompts() ServerOption {
	return func(o *serverOptions) { o.prompts = true }
}

// WithCustomRegistration runs fn against the SDK server after the builtins
// are registered.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(o *serverOptions) { o.extra = append(o.extra, fn) }
}

// WithLogger sets the request logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(o *serverOptions) { o.logger = l }
}

// NewServer builds a server over deps.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil {
		return nil, errors.New("mcp: nil deps")
	}

	o := serverOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		deps:   deps,
		logger: o.logger,
		sdk: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "jsl-infer", Version: Version},
			&sdkmcp.ServerOptions{Instructions: instructions},
		),
	}
	s.sdk.AddReceivingMiddleware(LoggingMiddleware(s.logger))

	if o.tools {
		tools.Register(s.sdk, deps)
		s.registerResources()
	}
	if o.prompts {
		prompts.Register(s.sdk, &prompts.Config{MaxToolRecords: deps.Config.MaxToolRecords})
	}
	for _, fn := range o.extra {
		fn(s.sdk)
	}
	return s, nil
}

// Serve handles one session on t until the client disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context, t sdkmcp.Transport) error {
	s.logger.Info("mcp server starting", slog.String("version", Version))
	err := s.sdk.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("mcp server stopped", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Run serves over stdin and stdout.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.sdk
}
