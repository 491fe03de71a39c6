// ABOUTME: MCP resource implementations for the workout logging session.
// ABOUTME: Provides workoutlog://session and workoutlog://workouts.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/workoutlog/internal/models"
)

const (
	sessionURI  = "workoutlog://session"
	workoutsURI = "workoutlog://workouts"
)

func (s *Server) registerResources() {
	// workoutlog://session - map, form, and workout state
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         sessionURI,
		Name:        "Session State",
		Description: "Map center, pending click, form state, and logged workouts",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	// workoutlog://workouts - list rows as rendered
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         workoutsURI,
		Name:        "Logged Workouts",
		Description: "Summaries of every workout logged in this session",
		MIMEType:    "application/json",
	}, s.handleWorkoutsResource)
}

// Resource handlers

func (s *Server) handleSessionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	st, err := s.session.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return jsonResource(sessionURI, st)
}

func (s *Server) handleWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.session.Workouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	rows := make([]models.Summary, 0, len(workouts))
	for _, w := range workouts {
		rows = append(rows, w.Summarize())
	}
	return jsonResource(workoutsURI, map[string]any{"workouts": rows})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
