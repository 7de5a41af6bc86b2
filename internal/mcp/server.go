// Package mcp exposes the pipeline entry points as Model Context Protocol
// tools over standard I/O. It is a thin front end: handlers call the
// pipeline and serialize the finished records, nothing more.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/doculens/doculens/internal/config"
	"github.com/doculens/doculens/internal/pipeline"
	"github.com/doculens/doculens/internal/schema"
)

// Server represents the MCP server instance.
type Server struct {
	config    *config.Config
	pipeline  *pipeline.Pipeline
	mcpServer *server.MCPServer
	logger    zerolog.Logger
}

// NewServer creates a new MCP server around the pipeline.
func NewServer(cfg *config.Config, p *pipeline.Pipeline, logger zerolog.Logger) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // Tool list is static.
	)

	s := &Server{
		config:    cfg,
		pipeline:  p,
		mcpServer: mcpServer,
		logger:    logger.With().Str("component", "mcp").Logger(),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	generateTool := mcp.NewTool(
		"metadata_generate",
		mcp.WithDescription("Generate a full metadata record for one document (PDF, DOCX, TXT, Markdown)"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the document"),
		),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)

	basicTool := mcp.NewTool(
		"metadata_generate_basic",
		mcp.WithDescription("Generate basic file info and text statistics for one document without any model-backed analysis"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the document"),
		),
	)
	s.mcpServer.AddTool(basicTool, s.handleGenerateBasic)

	batchTool := mcp.NewTool(
		"metadata_batch",
		mcp.WithDescription("Generate metadata records for every supported document in a directory"),
		mcp.WithString("directory",
			mcp.Required(),
			mcp.Description("Directory to process"),
		),
	)
	s.mcpServer.AddTool(batchTool, s.handleBatch)
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.pipeline.GenerateMetadata(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return recordResult(rec)
}

func (s *Server) handleGenerateBasic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.pipeline.GenerateBasicMetadata(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return recordResult(rec)
}

func (s *Server) handleBatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("directory")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := s.pipeline.ProcessDirectory(ctx, dir)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func recordResult(rec *schema.Record) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Run serves the MCP protocol on standard I/O until the transport closes.
// Logs must already be routed to stderr so stdout stays protocol-clean.
func (s *Server) Run(_ context.Context) error {
	s.logger.Info().
		Str("server", s.config.ServerName).
		Str("version", s.config.Version).
		Msg("starting MCP server on stdio")

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
