// ABOUTME: Wires a logging session: loop, controller, form, terminal map and list.
// ABOUTME: Front ends (REPL, MCP) call these methods; each one runs on the session loop.
package app

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/workoutlog/internal/form"
	"github.com/harperreed/workoutlog/internal/geo"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/observability"
	"github.com/harperreed/workoutlog/internal/render"
	"github.com/harperreed/workoutlog/internal/session"
)

// Options configures a Session.
type Options struct {
	Out          io.Writer
	Locator      session.Locator
	Zoom         int
	RestoreDelay time.Duration
	Logger       *zap.SugaredLogger

	// AfterFunc replaces time.AfterFunc for the form restore timer.
	AfterFunc func(d time.Duration, fn func())
}

// Session is one in-memory logging session.
type Session struct {
	loop       *session.Loop
	controller *session.Controller
	form       *form.Form
	mapView    *render.TerminalMap
	list       *render.TerminalList
	metrics    *observability.Metrics
	log        *zap.SugaredLogger
}

// New builds a session. Call Run to start its loop.
func New(opts Options) (*Session, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Locator == nil {
		opts.Locator = geo.UnavailableLocator{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	s := &Session{
		loop:    session.NewLoop(64),
		form:    form.New(),
		mapView: render.NewTerminalMap(opts.Out),
		list:    render.NewTerminalList(opts.Out),
		metrics: observability.NewMetrics(),
		log:     opts.Logger,
	}

	ctrl, err := session.NewController(session.Deps{
		Locator:    opts.Locator,
		Map:        s.mapView,
		Form:       s.form,
		List:       s.list,
		Notifier:   render.NewTerminalNotifier(opts.Out),
		Dispatcher: s.loop,
		Logger:     opts.Logger,
		Metrics:    s.metrics,
		AfterFunc:  opts.AfterFunc,
	}, session.Options{Zoom: opts.Zoom, RestoreDelay: opts.RestoreDelay})
	if err != nil {
		return nil, err
	}
	s.controller = ctrl
	s.form.OnKindChange(func(models.Kind) { ctrl.ToggleMetricField() })

	return s, nil
}

// Run starts geolocation and drains the session loop until ctx is done.
// ready, if non-nil, receives the geolocation outcome once.
func (s *Session) Run(ctx context.Context, ready func(error)) error {
	s.controller.Initialize(ctx, ready)
	return s.loop.Run(ctx)
}

// Click simulates a map click.
func (s *Session) Click(ctx context.Context, at models.Coordinates) error {
	var err error
	if doErr := s.loop.Do(ctx, func() { err = s.mapView.Click(at) }); doErr != nil {
		return doErr
	}
	return err
}

// SetField types a value into a form field.
func (s *Session) SetField(ctx context.Context, field session.Field, value string) error {
	var err error
	if doErr := s.loop.Do(ctx, func() { err = s.form.Set(field, value) }); doErr != nil {
		return doErr
	}
	return err
}

// FormInput fills several form fields at once. Nil numbers leave a field untouched.
type FormInput struct {
	Kind      string
	Distance  *float64
	Duration  *float64
	Cadence   *float64
	Elevation *float64
}

// Fill applies a FormInput.
func (s *Session) Fill(ctx context.Context, in FormInput) error {
	var err error
	if doErr := s.loop.Do(ctx, func() { err = s.fill(in) }); doErr != nil {
		return doErr
	}
	return err
}

// fill runs on the loop.
func (s *Session) fill(in FormInput) error {
	if in.Kind != "" {
		if err := s.form.Set(session.FieldKind, in.Kind); err != nil {
			return err
		}
	}
	fields := []struct {
		name  session.Field
		value *float64
	}{
		{session.FieldDistance, in.Distance},
		{session.FieldDuration, in.Duration},
		{session.FieldCadence, in.Cadence},
		{session.FieldElevation, in.Elevation},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := s.form.Set(f.name, strconv.FormatFloat(*f.value, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}

// Log clicks at, fills the form from in, and submits, all in one loop turn
// so concurrent callers cannot interleave. Fields left nil in in are empty
// rather than carried over from earlier input.
func (s *Session) Log(ctx context.Context, at models.Coordinates, in FormInput) (*models.Workout, error) {
	var (
		w   *models.Workout
		err error
	)
	doErr := s.loop.Do(ctx, func() {
		if err = s.mapView.Click(at); err != nil {
			return
		}
		s.form.Clear()
		if err = s.fill(in); err != nil {
			return
		}
		w, err = s.controller.SubmitForm()
	})
	if doErr != nil {
		return nil, doErr
	}
	return w, err
}

// Submit submits the entry form.
func (s *Session) Submit(ctx context.Context) (*models.Workout, error) {
	var (
		w   *models.Workout
		err error
	)
	if doErr := s.loop.Do(ctx, func() { w, err = s.controller.SubmitForm() }); doErr != nil {
		return nil, doErr
	}
	return w, err
}

// Select focuses the map on a logged workout.
func (s *Session) Select(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	var (
		w   *models.Workout
		err error
	)
	if doErr := s.loop.Do(ctx, func() { w, err = s.controller.WorkoutSelected(idOrPrefix) }); doErr != nil {
		return nil, doErr
	}
	return w, err
}

// Workout returns one logged workout by id or prefix.
func (s *Session) Workout(ctx context.Context, idOrPrefix string) (*models.Workout, error) {
	var (
		w   *models.Workout
		err error
	)
	if doErr := s.loop.Do(ctx, func() { w, err = s.controller.Workout(idOrPrefix) }); doErr != nil {
		return nil, doErr
	}
	return w, err
}

// Workouts returns all logged workouts, oldest first.
func (s *Session) Workouts(ctx context.Context) ([]*models.Workout, error) {
	var out []*models.Workout
	if err := s.loop.Do(ctx, func() { out = s.controller.Workouts() }); err != nil {
		return nil, err
	}
	return out, nil
}

// Redraw prints the workout list again.
func (s *Session) Redraw(ctx context.Context) error {
	return s.loop.Do(ctx, s.list.Redraw)
}

// Export writes the session's workouts in the given format.
func (s *Session) Export(ctx context.Context, w io.Writer, format string) error {
	workouts, err := s.Workouts(ctx)
	if err != nil {
		return err
	}
	return render.Export(w, format, workouts)
}

// FormState describes the entry form for display.
type FormState struct {
	Values      session.FormValues `json:"values"`
	Visible     bool               `json:"visible"`
	Displayable bool               `json:"displayable"`
	Focused     session.Field      `json:"focused,omitempty"`
	MetricField session.Field      `json:"metric_field"`
}

// State is a snapshot of the whole session.
type State struct {
	MapReady bool                `json:"map_ready"`
	Center   *models.Coordinates `json:"center,omitempty"`
	Zoom     int                 `json:"zoom,omitempty"`
	Pending  *models.Coordinates `json:"pending_location,omitempty"`
	Form     FormState           `json:"form"`
	Workouts []*models.Workout   `json:"workouts"`
}

// State snapshots the session.
func (s *Session) State(ctx context.Context) (*State, error) {
	var st State
	err := s.loop.Do(ctx, func() {
		st.MapReady = s.mapView.Ready()
		if st.MapReady {
			center, zoom := s.mapView.Center()
			st.Center = &center
			st.Zoom = zoom
		}
		if p, ok := s.controller.PendingLocation(); ok {
			st.Pending = &p
		}
		st.Form = FormState{
			Values:      s.form.Values(),
			Visible:     s.form.Visible(),
			Displayable: s.form.Displayable(),
			Focused:     s.form.Focused(),
			MetricField: s.form.MetricField(),
		}
		st.Workouts = s.controller.Workouts()
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Stats returns the session counters.
func (s *Session) Stats() ([]observability.Sample, error) {
	samples, err := s.metrics.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	return samples, nil
}
