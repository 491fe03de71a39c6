// ABOUTME: Session controller owning the logged workouts and the pending map click.
// ABOUTME: Mediates between geolocation, map, form, list, and the Workout model.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/observability"
)

const (
	DefaultZoom         = 13
	DefaultRestoreDelay = time.Second
)

// Options tunes controller behavior.
type Options struct {
	Zoom         int
	RestoreDelay time.Duration
}

// Deps are the collaborators injected into a Controller.
type Deps struct {
	Locator    Locator
	Map        MapWidget
	Form       EntryForm
	List       ListSurface
	Notifier   Notifier
	Dispatcher Dispatcher

	// Optional.
	Logger    *zap.SugaredLogger
	Metrics   *observability.Metrics
	AfterFunc func(d time.Duration, fn func())
}

// Controller is the single stateful orchestrator of a logging session.
// It is not safe for concurrent use; all calls must come from the Dispatcher's goroutine.
type Controller struct {
	deps Deps
	opts Options
	log  *zap.SugaredLogger

	workouts []*models.Workout
	pending  *models.Coordinates
	mapView  MapHandle
}

// NewController wires a controller to its collaborators.
func NewController(deps Deps, opts Options) (*Controller, error) {
	switch {
	case deps.Locator == nil:
		return nil, errors.New("session: locator is required")
	case deps.Map == nil:
		return nil, errors.New("session: map widget is required")
	case deps.Form == nil:
		return nil, errors.New("session: entry form is required")
	case deps.List == nil:
		return nil, errors.New("session: list surface is required")
	case deps.Notifier == nil:
		return nil, errors.New("session: notifier is required")
	case deps.Dispatcher == nil:
		return nil, errors.New("session: dispatcher is required")
	}

	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.RestoreDelay <= 0 {
		opts.RestoreDelay = DefaultRestoreDelay
	}
	if deps.AfterFunc == nil {
		deps.AfterFunc = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Controller{deps: deps, opts: opts, log: log}, nil
}

// Initialize requests the current position in the background. When it
// resolves, the map is loaded (or the failure alerted) on the dispatcher and
// done, if non-nil, receives the outcome. There is no retry.
func (c *Controller) Initialize(ctx context.Context, done func(error)) {
	go func() {
		pos, err := c.deps.Locator.Locate(ctx)
		c.deps.Dispatcher.Post(func() {
			err := c.positionResolved(pos, err)
			if done != nil {
				done(err)
			}
		})
	}()
}

func (c *Controller) positionResolved(pos models.Coordinates, err error) error {
	if err != nil {
		c.deps.Metrics.GeolocationFailed()
		c.log.Warnw("geolocation failed", "error", err)
		c.deps.Notifier.Alert(PositionUnavailableMessage)
		if !errors.Is(err, ErrGeolocationUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
		}
		return err
	}
	return c.loadMap(pos)
}

func (c *Controller) loadMap(center models.Coordinates) error {
	handle, err := c.deps.Map.Create(center, c.opts.Zoom)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	c.mapView = handle
	handle.OnClick(c.MapClicked)
	c.log.Infow("map loaded", "center", center.String(), "zoom", c.opts.Zoom)
	return nil
}

// MapReady reports whether the map was loaded.
func (c *Controller) MapReady() bool {
	return c.mapView != nil
}

// MapClicked remembers the clicked location and opens the entry form.
// A later click replaces an earlier one.
func (c *Controller) MapClicked(at models.Coordinates) {
	c.deps.Metrics.MapClicked()
	c.pending = &at
	c.deps.Form.Show()
	c.deps.Form.Focus(FieldDistance)
}

// PendingLocation returns the location of the last unconsumed map click.
func (c *Controller) PendingLocation() (models.Coordinates, bool) {
	if c.pending == nil {
		return models.Coordinates{}, false
	}
	return *c.pending, true
}

// ToggleMetricField shows cadence for running or elevation for cycling,
// following the kind currently selected in the form.
func (c *Controller) ToggleMetricField() {
	c.deps.Form.ShowMetricField(c.deps.Form.Values().Kind)
}

// SubmitForm validates the form and logs a new workout at the pending location.
// Invalid input is alerted and leaves the form and pending click untouched.
func (c *Controller) SubmitForm() (*models.Workout, error) {
	if c.pending == nil {
		return nil, ErrNoPendingLocation
	}

	in, err := validateForm(c.deps.Form.Values())
	if err != nil {
		c.deps.Metrics.InvalidSubmission()
		c.log.Infow("rejected workout form", "error", err)
		c.deps.Notifier.Alert(InvalidInputMessage)
		return nil, err
	}

	w := in.build(*c.pending)
	c.workouts = append(c.workouts, w)
	c.pending = nil
	c.deps.Metrics.WorkoutLogged(string(w.Kind))

	c.renderMarker(w)
	c.deps.List.Append(w.Summarize())
	c.hideForm()

	c.log.Infow("workout logged", "id", w.ShortID(), "kind", w.Kind)
	return w.Clone(), nil
}

func (c *Controller) renderMarker(w *models.Workout) {
	if c.mapView == nil {
		return
	}
	popup := Popup{
		MaxWidth:     250,
		MinWidth:     100,
		AutoClose:    false,
		CloseOnClick: false,
		ClassName:    string(w.Kind) + "-popup",
		Content:      w.Kind.Icon() + " " + w.Description,
	}
	if err := c.mapView.AddMarker(w.Coords, popup); err != nil {
		c.log.Warnw("failed to render marker", "id", w.ShortID(), "error", err)
	}
}

// hideForm clears and hides the form, making it displayable again after the
// restore delay.
func (c *Controller) hideForm() {
	c.deps.Form.Clear()
	c.deps.Form.Hide()
	c.deps.AfterFunc(c.opts.RestoreDelay, func() {
		c.deps.Dispatcher.Post(c.deps.Form.Restore)
	})
}

// WorkoutSelected pans the map to the workout whose id starts with idOrPrefix.
func (c *Controller) WorkoutSelected(idOrPrefix string) (*models.Workout, error) {
	w, err := c.find(idOrPrefix)
	if err != nil {
		c.log.Debugw("workout selection ignored", "id", idOrPrefix, "error", err)
		return nil, err
	}
	if c.mapView == nil {
		return nil, ErrMapUnavailable
	}
	if err := c.mapView.SetView(w.Coords, c.opts.Zoom); err != nil {
		return nil, fmt.Errorf("move map: %w", err)
	}
	return w.Clone(), nil
}

// Workout returns a copy of the workout matching idOrPrefix.
func (c *Controller) Workout(idOrPrefix string) (*models.Workout, error) {
	w, err := c.find(idOrPrefix)
	if err != nil {
		return nil, err
	}
	return w.Clone(), nil
}

func (c *Controller) find(idOrPrefix string) (*models.Workout, error) {
	idOrPrefix = strings.ToLower(strings.TrimSpace(idOrPrefix))
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrWorkoutNotFound)
	}

	var match *models.Workout
	for _, w := range c.workouts {
		if !strings.HasPrefix(w.ID.String(), idOrPrefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous prefix %s: matches multiple workouts", idOrPrefix)
		}
		match = w
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, idOrPrefix)
	}
	return match, nil
}

// Workouts returns copies of all logged workouts in the order they were added.
func (c *Controller) Workouts() []*models.Workout {
	out := make([]*models.Workout, len(c.workouts))
	for i, w := range c.workouts {
		out[i] = w.Clone()
	}
	return out
}

// Len returns the number of logged workouts.
func (c *Controller) Len() int {
	return len(c.workouts)
}
