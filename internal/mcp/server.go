// ABOUTME: MCP server exposing a workout logging session to AI assistants.
// ABOUTME: Wraps the MCP server around an app.Session; stdio transport only.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/workoutlog/internal/app"
)

// Server wraps the MCP server with session access.
type Server struct {
	mcpServer *mcp.Server
	session   *app.Session
}

// NewServer creates a new MCP server for the given session.
func NewServer(sess *app.Session, version string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "workoutlog",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		session:   sess,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve runs the MCP server over stdio until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
