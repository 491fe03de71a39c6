// ABOUTME: MCP tool implementations for the workout logging session.
// ABOUTME: Map clicks, form input, submission, listing, and focusing workouts.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/workoutlog/internal/app"
	"github.com/harperreed/workoutlog/internal/geo"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/observability"
	"github.com/harperreed/workoutlog/internal/session"
)

func (s *Server) registerTools() {
	// click_map
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "click_map",
		Description: "Click a location on the map and open the workout form there",
	}, s.handleClickMap)

	// select_kind
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "select_kind",
		Description: "Switch the form between running (cadence) and cycling (elevation gain)",
	}, s.handleSelectKind)

	// fill_form
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fill_form",
		Description: "Set workout form fields (kind, distance, duration, cadence, elevation)",
	}, s.handleFillForm)

	// submit_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "submit_workout",
		Description: "Submit the workout form and log the workout at the clicked location",
	}, s.handleSubmitWorkout)

	// log_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Click, fill, and submit in one step",
	}, s.handleLogWorkout)

	// list_workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts logged in this session, optionally filtered by kind",
	}, s.handleListWorkouts)

	// focus_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "focus_workout",
		Description: "Move the map to a logged workout by ID or ID prefix",
	}, s.handleFocusWorkout)

	// session_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "session_stats",
		Description: "Counters for clicks, logged workouts, and rejected submissions",
	}, s.handleSessionStats)
}

// Tool input/output types

type clickMapInput struct {
	Lat float64 `json:"lat" jsonschema:"Latitude in decimal degrees"`
	Lng float64 `json:"lng" jsonschema:"Longitude in decimal degrees"`
}

type selectKindInput struct {
	Kind string `json:"kind" jsonschema:"Workout kind: running or cycling"`
}

type fillFormInput struct {
	Kind      string   `json:"kind,omitempty" jsonschema:"Workout kind: running or cycling"`
	Distance  *float64 `json:"distance_km,omitempty" jsonschema:"Distance in kilometers"`
	Duration  *float64 `json:"duration_min,omitempty" jsonschema:"Duration in minutes"`
	Cadence   *float64 `json:"cadence_spm,omitempty" jsonschema:"Running cadence in steps per minute"`
	Elevation *float64 `json:"elevation_gain_m,omitempty" jsonschema:"Cycling elevation gain in meters"`
}

type logWorkoutInput struct {
	Lat       float64  `json:"lat" jsonschema:"Latitude in decimal degrees"`
	Lng       float64  `json:"lng" jsonschema:"Longitude in decimal degrees"`
	Kind      string   `json:"kind" jsonschema:"Workout kind: running or cycling"`
	Distance  float64  `json:"distance_km" jsonschema:"Distance in kilometers"`
	Duration  float64  `json:"duration_min" jsonschema:"Duration in minutes"`
	Cadence   *float64 `json:"cadence_spm,omitempty" jsonschema:"Running cadence in steps per minute"`
	Elevation *float64 `json:"elevation_gain_m,omitempty" jsonschema:"Cycling elevation gain in meters"`
}

type emptyInput struct{}

type listWorkoutsInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"Filter by kind: running or cycling"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results, most recent first (default 20)"`
}

type focusWorkoutInput struct {
	ID string `json:"id" jsonschema:"Workout ID or ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type workoutOutput struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	Summary     models.Summary `json:"summary"`
	Message     string         `json:"message"`
}

type listWorkoutsOutput struct {
	Workouts []models.Summary `json:"workouts"`
	Message  string           `json:"message,omitempty"`
}

type statsOutput struct {
	Counters []observability.Sample `json:"counters"`
}

func newWorkoutOutput(w *models.Workout) workoutOutput {
	m := w.Metric()
	return workoutOutput{
		ID:          w.ShortID(),
		Kind:        string(w.Kind),
		Description: w.Description,
		Summary:     w.Summarize(),
		Message: fmt.Sprintf("Logged %s: %g km in %g min, %.1f %s (ID: %s)",
			w.Description, w.DistanceKm, w.DurationMin, m.Value, m.Unit, w.ShortID()),
	}
}

// userError turns session errors into messages an assistant can act on.
func userError(err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidWorkoutInput):
		return fmt.Errorf("%s (%v)", session.InvalidInputMessage, err)
	case errors.Is(err, session.ErrNoPendingLocation):
		return fmt.Errorf("click the map before submitting: %w", err)
	case errors.Is(err, session.ErrMapUnavailable):
		return fmt.Errorf("%s: %w", session.PositionUnavailableMessage, err)
	}
	return err
}

// Tool handlers

func (s *Server) handleClickMap(ctx context.Context, req *mcp.CallToolRequest, input clickMapInput) (*mcp.CallToolResult, simpleOutput, error) {
	at, err := geo.NewCoordinates(input.Lat, input.Lng)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.session.Click(ctx, at); err != nil {
		return nil, simpleOutput{}, userError(err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Form opened at %s", at),
	}, nil
}

func (s *Server) handleSelectKind(ctx context.Context, req *mcp.CallToolRequest, input selectKindInput) (*mcp.CallToolResult, simpleOutput, error) {
	kind, err := models.ParseKind(input.Kind)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.session.SetField(ctx, session.FieldKind, string(kind)); err != nil {
		return nil, simpleOutput{}, err
	}
	field := session.FieldCadence
	if kind == models.KindCycling {
		field = session.FieldElevation
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Form set to %s; %s field shown", kind, field),
	}, nil
}

func (s *Server) handleFillForm(ctx context.Context, req *mcp.CallToolRequest, input fillFormInput) (*mcp.CallToolResult, simpleOutput, error) {
	err := s.session.Fill(ctx, app.FormInput{
		Kind:      input.Kind,
		Distance:  input.Distance,
		Duration:  input.Duration,
		Cadence:   input.Cadence,
		Elevation: input.Elevation,
	})
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "Form updated"}, nil
}

func (s *Server) handleSubmitWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.session.Submit(ctx)
	if err != nil {
		return nil, workoutOutput{}, userError(err)
	}
	return nil, newWorkoutOutput(w), nil
}

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	kind, err := models.ParseKind(input.Kind)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	at, err := geo.NewCoordinates(input.Lat, input.Lng)
	if err != nil {
		return nil, workoutOutput{}, err
	}

	distance, duration := input.Distance, input.Duration
	fill := app.FormInput{Kind: string(kind), Distance: &distance, Duration: &duration}
	if kind == models.KindRunning {
		fill.Cadence = input.Cadence
	} else {
		fill.Elevation = input.Elevation
	}

	w, err := s.session.Log(ctx, at, fill)
	if err != nil {
		return nil, workoutOutput{}, userError(err)
	}
	return nil, newWorkoutOutput(w), nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var kind models.Kind
	if input.Kind != "" {
		k, err := models.ParseKind(input.Kind)
		if err != nil {
			return nil, listWorkoutsOutput{}, err
		}
		kind = k
	}

	workouts, err := s.session.Workouts(ctx)
	if err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}

	out := listWorkoutsOutput{Workouts: []models.Summary{}}
	for i := len(workouts) - 1; i >= 0 && len(out.Workouts) < input.Limit; i-- {
		if kind != "" && workouts[i].Kind != kind {
			continue
		}
		out.Workouts = append(out.Workouts, workouts[i].Summarize())
	}
	if len(out.Workouts) == 0 {
		out.Message = "No workouts found."
	}
	return nil, out, nil
}

func (s *Server) handleFocusWorkout(ctx context.Context, req *mcp.CallToolRequest, input focusWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.session.Select(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, userError(err)
	}
	out := newWorkoutOutput(w)
	out.Message = fmt.Sprintf("Map centered on %s at %s", w.Description, w.Coords)
	return nil, out, nil
}

func (s *Server) handleSessionStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statsOutput, error) {
	samples, err := s.session.Stats()
	if err != nil {
		return nil, statsOutput{}, err
	}
	if samples == nil {
		samples = []observability.Sample{}
	}
	return nil, statsOutput{Counters: samples}, nil
}
