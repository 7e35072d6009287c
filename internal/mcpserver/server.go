// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the check catalog for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

// Server wraps the MCP server with the lint tools.
type Server struct {
	mcp    *server.MCPServer
	store  storage.Provider
	runner *runner.Runner
}

// New creates a new MCP server with all lint tools registered.
// Lint runs through this server are always dry, nothing is written back.
func New(store storage.Provider, r *runner.Runner) *Server {
	s := &Server{store: store, runner: r}

	s.mcp = server.NewMCPServer(
		"check-markdown-files",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lint_content",
		mcp.WithDescription("Check Markdown blog posting content against the configured rules. "+
			"Content MUST follow the posting format (YAML frontmatter between --- fences, "+
			"then the Markdown body). Read the contract first via the get_posting_contract "+
			"tool or the check-markdown-files://posting-format resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full posting content including frontmatter")),
		mcp.WithString("name", mcp.Description("Optional document name used in diagnostics")),
	), s.lintContent)

	s.mcp.AddTool(mcp.NewTool("lint_file",
		mcp.WithDescription("Check a Markdown blog posting on disk against the configured rules. "+
			"The file is never modified."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the posting (must end with .md)")),
	), s.lintFile)

	s.mcp.AddTool(mcp.NewTool("list_checks",
		mcp.WithDescription("List the enabled checks in execution order."),
	), s.listChecks)

	s.mcp.AddTool(mcp.NewTool("get_posting_contract",
		mcp.WithDescription("Returns the canonical posting format contract. "+
			"Call this before writing postings to ensure correct structure."),
	), s.getPostingContract)

	// Resource: posting format contract.
	s.mcp.AddResource(
		mcp.NewResource("check-markdown-files://posting-format", "Posting Format Contract",
			mcp.WithResourceDescription("Canonical Markdown posting format that checked files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostingFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// lintResult is the JSON payload returned by the lint tools.
type lintResult struct {
	Path        string   `json:"path"`
	Diagnostics []string `json:"diagnostics"`
	Flagged     bool     `json:"flagged"`
	Changed     bool     `json:"changed"`
	Output      string   `json:"output,omitempty"`
}

func toolResult(res *runner.Result) *mcp.CallToolResult {
	out := lintResult{
		Path:        res.Path,
		Diagnostics: res.Diagnostics,
		Flagged:     res.Flagged(),
		Changed:     res.Changed,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []string{}
	}
	if res.Changed {
		out.Output = res.Output
	}
	raw, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(raw))
}

func (s *Server) lintContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name := "request.md"
	if n, nameErr := req.RequireString("name"); nameErr == nil && n != "" {
		name = n
	}

	res, err := s.runner.Run(name, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(res), nil
}

func (s *Server) lintFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	res, err := s.runner.Run(path, string(data))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(res), nil
}

func (s *Server) listChecks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var names []string
	for _, c := range s.runner.Checks() {
		names = append(names, c.Name())
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) getPostingContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostingFormatContract), nil
}

func (s *Server) readPostingFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "check-markdown-files://posting-format",
			MIMEType: "text/markdown",
			Text:     PostingFormatContract,
		},
	}, nil
}
