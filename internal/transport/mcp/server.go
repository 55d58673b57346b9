// Package mcp exposes literature search as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	documentuc "github.com/kailas-cloud/litsearch/internal/usecase/document"
	retrievaluc "github.com/kailas-cloud/litsearch/internal/usecase/retrieval"
)

// Server wraps the MCP server with the retrieval and document services.
type Server struct {
	mcp       *gomcp.Server
	retrieval *retrievaluc.Service
	documents *documentuc.Service
	logger    *zap.Logger
}

// NewServer creates an MCP server with the search_literature and get_document tools.
func NewServer(
	retrieval *retrievaluc.Service, documents *documentuc.Service, version string, logger *zap.Logger,
) (*Server, error) {
	if retrieval == nil {
		return nil, errors.New("retrieval service is required")
	}
	if documents == nil {
		return nil, errors.New("document service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp: gomcp.NewServer(&gomcp.Implementation{
			Name:    "litsearch",
			Version: version,
		}, nil),
		retrieval: retrieval,
		documents: documents,
		logger:    logger,
	}
	s.registerTools()
	return s, nil
}

// Serve runs the server over stdio until ctx ends or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t gomcp.Transport) (*gomcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
