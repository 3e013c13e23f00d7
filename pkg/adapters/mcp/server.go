package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/tape"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultMaxSteps bounds a simulate call that does not set max_steps.
const DefaultMaxSteps = 10000

// MachineURIPrefix prefixes the resource URI of every machine.
const MachineURIPrefix = "turing://machines/"

// ListResponse is the result of list_machines.
type ListResponse struct {
	Machines []string `json:"machines" jsonschema_description:"Names of the available machines"`
}

// DescribeResponse is the result of describe_machine.
type DescribeResponse struct {
	Definition *domain.Definition `json:"definition" jsonschema_description:"The machine definition"`
	Summary    string             `json:"summary" jsonschema_description:"Markdown summary of the machine"`
	Mermaid    string             `json:"mermaid" jsonschema_description:"State diagram in Mermaid syntax"`
}

// SimulateResponse is the result of simulate.
type SimulateResponse struct {
	Machine  string       `json:"machine" jsonschema_description:"The simulated machine"`
	Accepted bool         `json:"accepted" jsonschema_description:"Whether the machine halted in an accepting state"`
	Steps    int          `json:"steps" jsonschema_description:"Transitions applied before halting"`
	State    domain.State `json:"state" jsonschema_description:"The state the machine halted in"`
	Head     int          `json:"head" jsonschema_description:"Final head position"`
	Tape     string       `json:"tape" jsonschema_description:"Final tape content without surrounding blanks"`
	Frames   []string     `json:"frames,omitempty" jsonschema_description:"Rendered configuration before every step (trace only)"`
}

// Server exposes a machine catalog as an MCP Server.
type Server struct {
	loader      ports.DefinitionLoader
	programOpts []runtime.Option
	maxSteps    int
	logger      *slog.Logger
	mcpServer   *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger of the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithProgramOptions sets the options every simulated program is compiled with.
func WithProgramOptions(opts ...runtime.Option) Option {
	return func(s *Server) {
		s.programOpts = append(s.programOpts, opts...)
	}
}

// WithMaxSteps sets the step limit applied when a call does not set one.
func WithMaxSteps(n int) Option {
	return func(s *Server) {
		s.maxSteps = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(loader ports.DefinitionLoader, opts ...Option) *Server {
	s := &Server{
		loader:    loader,
		maxSteps:  DefaultMaxSteps,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", turing.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of the available Turing machines."),
		mcp.WithOutputSchema[ListResponse](),
	), mcp.NewStructuredToolHandler(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("describe_machine",
		mcp.WithDescription("Show the definition of a machine with a markdown summary and a Mermaid diagram."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Name of the machine")),
		mcp.WithOutputSchema[DescribeResponse](),
	), mcp.NewStructuredToolHandler(s.handleDescribe))

	s.mcpServer.AddTool(mcp.NewTool("simulate",
		mcp.WithDescription("Run a machine on an input until it halts and report acceptance and the final tape."),
		mcp.WithString("machine", mcp.Required(), mcp.Description("Name of the machine")),
		mcp.WithString("input", mcp.Description("Input written on the tape from position 0 (one character per cell)")),
		mcp.WithNumber("max_steps", mcp.Description("Step limit (default 10000, 0 keeps the default)")),
		mcp.WithBoolean("trace", mcp.Description("Include the rendered configuration before every step")),
		mcp.WithNumber("window", mcp.Description("Cells shown on each side of the head in trace frames (default 10)")),
		mcp.WithOutputSchema[SimulateResponse](),
	), mcp.NewStructuredToolHandler(s.handleSimulate))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ListResponse, error) {
	names, err := s.loader.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list failed: %w", err)
	}
	return ListResponse{Machines: names}, nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DescribeResponse, error) {
	name, _ := args["machine"].(string)
	def, err := s.loader.Load(ctx, name)
	if err != nil {
		return DescribeResponse{}, fmt.Errorf("describe failed: %w", err)
	}
	return DescribeResponse{
		Definition: def,
		Summary:    tui.Describe(def),
		Mermaid:    graph.GenerateMermaid(def, nil),
	}, nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SimulateResponse, error) {
	name, _ := args["machine"].(string)
	raw, _ := args["input"].(string)
	traced, _ := args["trace"].(bool)

	maxSteps := s.maxSteps
	if n := intArg(args, "max_steps"); n > 0 {
		maxSteps = n
	}
	window := tape.DefaultRadius
	if _, ok := args["window"]; ok {
		window = intArg(args, "window")
	}

	input, err := runner.SanitizeInput(raw)
	if err != nil {
		s.logger.Warn("MCP Simulate: Input rejected", "err", err, "size", len(raw))
		return SimulateResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	def, err := s.loader.Load(ctx, name)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("simulate failed: %w", err)
	}
	prog, err := runtime.Compile(def, s.programOpts...)
	if err != nil {
		return SimulateResponse{}, fmt.Errorf("simulate failed: %w", err)
	}

	var (
		res    *runner.Result
		frames []string
	)
	if traced {
		res, frames, err = runner.Trace(ctx, prog.NewMachine(), input, maxSteps, window)
	} else {
		res, err = runner.Simulate(ctx, prog.NewMachine(), input, maxSteps)
	}
	if err != nil {
		if errors.Is(err, runner.ErrStepLimit) {
			s.logger.Warn("MCP Simulate: Step limit reached", "machine", name, "max_steps", maxSteps)
		}
		return SimulateResponse{}, fmt.Errorf("simulate failed: %w", err)
	}

	return SimulateResponse{
		Machine:  prog.Name(),
		Accepted: res.Accepted,
		Steps:    res.Steps,
		State:    res.State,
		Head:     res.Head,
		Tape:     res.Tape,
		Frames:   frames,
	}, nil
}

// intArg reads a JSON number argument; missing or malformed values read as 0.
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(MachineURIPrefix+"{name}", "Machine Definition",
		mcp.WithTemplateDescription("A machine definition in its canonical JSON form"),
		mcp.WithTemplateMIMEType("application/json"),
	), s.readMachine)
}

func (s *Server) readMachine(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	name := strings.TrimPrefix(uri, MachineURIPrefix)
	if name == uri || name == "" {
		return nil, fmt.Errorf("unknown resource %q", uri)
	}

	def, err := s.loader.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine: %w", err)
	}
	data, err := compiler.EncodeJSON(def)
	if err != nil {
		return nil, fmt.Errorf("failed to encode machine: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
