// ABOUTME: Tests for the session controller using fake collaborators.
// ABOUTME: Covers geolocation, map clicks, submission, validation, and list selection.
package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harperreed/workoutlog/internal/form"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/observability"
	"github.com/harperreed/workoutlog/internal/session"
)

type immediate struct{}

func (immediate) Post(fn func()) { fn() }

type fakeLocator struct {
	pos models.Coordinates
	err error
}

func (l fakeLocator) Locate(context.Context) (models.Coordinates, error) {
	return l.pos, l.err
}

type marker struct {
	at    models.Coordinates
	popup session.Popup
}

type fakeMap struct {
	created bool
	center  models.Coordinates
	zoom    int
	onClick func(models.Coordinates)
	markers []marker
	views   []models.Coordinates
}

func (m *fakeMap) Create(center models.Coordinates, zoom int) (session.MapHandle, error) {
	m.created = true
	m.center = center
	m.zoom = zoom
	return m, nil
}

func (m *fakeMap) OnClick(fn func(models.Coordinates)) { m.onClick = fn }

func (m *fakeMap) AddMarker(at models.Coordinates, popup session.Popup) error {
	m.markers = append(m.markers, marker{at, popup})
	return nil
}

func (m *fakeMap) SetView(center models.Coordinates, zoom int) error {
	m.views = append(m.views, center)
	return nil
}

type fakeList struct{ rows []models.Summary }

func (l *fakeList) Append(s models.Summary) { l.rows = append(l.rows, s) }

type fakeNotifier struct{ alerts []string }

func (n *fakeNotifier) Alert(msg string) { n.alerts = append(n.alerts, msg) }

type timer struct {
	delay time.Duration
	fn    func()
}

type harness struct {
	ctrl    *session.Controller
	form    *form.Form
	maps    *fakeMap
	list    *fakeList
	alerts  *fakeNotifier
	timers  []timer
	metrics *observability.Metrics
}

func newHarness(t *testing.T, loc session.Locator) *harness {
	t.Helper()
	h := &harness{
		form:    form.New(),
		maps:    &fakeMap{},
		list:    &fakeList{},
		alerts:  &fakeNotifier{},
		metrics: observability.NewMetrics(),
	}
	ctrl, err := session.NewController(session.Deps{
		Locator:    loc,
		Map:        h.maps,
		Form:       h.form,
		List:       h.list,
		Notifier:   h.alerts,
		Dispatcher: immediate{},
		Metrics:    h.metrics,
		AfterFunc: func(d time.Duration, fn func()) {
			h.timers = append(h.timers, timer{d, fn})
		},
	}, session.Options{})
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

func (h *harness) init(t *testing.T) error {
	t.Helper()
	done := make(chan error, 1)
	h.ctrl.Initialize(context.Background(), func(err error) { done <- err })
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Initialize did not complete")
		return nil
	}
}

func (h *harness) fill(t *testing.T, kind, distance, duration, metric string) {
	t.Helper()
	require.NoError(t, h.form.Set(session.FieldKind, kind))
	require.NoError(t, h.form.Set(session.FieldDistance, distance))
	require.NoError(t, h.form.Set(session.FieldDuration, duration))
	if kind == "running" {
		require.NoError(t, h.form.Set(session.FieldCadence, metric))
	} else {
		require.NoError(t, h.form.Set(session.FieldElevation, metric))
	}
}

var home = models.Coordinates{Lat: 51.5074, Lng: -0.1278}

func TestNewControllerRequiresDeps(t *testing.T) {
	_, err := session.NewController(session.Deps{}, session.Options{})
	require.Error(t, err)
}

func TestInitializeLoadsMap(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})

	require.NoError(t, h.init(t))
	require.True(t, h.ctrl.MapReady())
	require.True(t, h.maps.created)
	require.Equal(t, home, h.maps.center)
	require.Equal(t, session.DefaultZoom, h.maps.zoom)
	require.NotNil(t, h.maps.onClick)
	require.Empty(t, h.alerts.alerts)
}

func TestInitializeGeolocationFailure(t *testing.T) {
	h := newHarness(t, fakeLocator{err: errors.New("permission denied")})

	err := h.init(t)
	require.ErrorIs(t, err, session.ErrGeolocationUnavailable)
	require.False(t, h.ctrl.MapReady())
	require.False(t, h.maps.created)
	require.Equal(t, []string{session.PositionUnavailableMessage}, h.alerts.alerts)
	require.Equal(t, 1.0, h.metrics.Value("workoutlog_geolocation_failures_total", nil))
}

func TestMapClickShowsForm(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	click := models.Coordinates{Lat: 51.51, Lng: -0.13}
	h.maps.onClick(click)

	require.True(t, h.form.Visible())
	require.Equal(t, session.FieldDistance, h.form.Focused())
	got, ok := h.ctrl.PendingLocation()
	require.True(t, ok)
	require.Equal(t, click, got)
}

func TestSubmitRunning(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	click := models.Coordinates{Lat: 51.52, Lng: -0.1}
	h.maps.onClick(click)
	h.fill(t, "running", "5", "30", "160")

	w, err := h.ctrl.SubmitForm()
	require.NoError(t, err)
	require.Equal(t, models.KindRunning, w.Kind)
	require.Equal(t, 6.0, w.Running.PaceMinPerKm)
	require.Equal(t, click, w.Coords)
	require.Equal(t, 1, h.ctrl.Len())

	require.Len(t, h.maps.markers, 1)
	m := h.maps.markers[0]
	require.Equal(t, click, m.at)
	require.Equal(t, "running-popup", m.popup.ClassName)
	require.Equal(t, 250, m.popup.MaxWidth)
	require.Equal(t, 100, m.popup.MinWidth)
	require.False(t, m.popup.AutoClose)
	require.False(t, m.popup.CloseOnClick)
	require.Contains(t, m.popup.Content, w.Description)

	require.Len(t, h.list.rows, 1)
	require.Equal(t, w.ID.String(), h.list.rows[0].ID)
	require.Equal(t, 30.0, h.list.rows[0].DurationMin)
	require.Equal(t, 6.0, h.list.rows[0].Metric.Value)

	_, pending := h.ctrl.PendingLocation()
	require.False(t, pending)
}

func TestSubmitCycling(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	h.maps.onClick(home)
	h.fill(t, "cycling", "20", "60", "400")

	w, err := h.ctrl.SubmitForm()
	require.NoError(t, err)
	require.Equal(t, 20.0, w.Cycling.SpeedKmPerHr)
	require.Equal(t, 400.0, w.Cycling.ElevationGainM)
	require.Equal(t, "cycling-popup", h.maps.markers[0].popup.ClassName)
	require.Equal(t, 1.0, h.metrics.Value("workoutlog_workouts_logged_total", map[string]string{"kind": "cycling"}))
}

func TestSubmitHidesAndRestoresForm(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	h.maps.onClick(home)
	h.fill(t, "running", "5", "30", "160")
	_, err := h.ctrl.SubmitForm()
	require.NoError(t, err)

	require.False(t, h.form.Visible())
	require.False(t, h.form.Displayable())
	v := h.form.Values()
	require.Empty(t, v.Distance)
	require.Empty(t, v.Duration)
	require.Empty(t, v.Cadence)

	require.Len(t, h.timers, 1)
	require.Equal(t, session.DefaultRestoreDelay, h.timers[0].delay)
	h.timers[0].fn()

	require.True(t, h.form.Displayable())
	require.False(t, h.form.Visible())
}

func TestSubmitInvalidInput(t *testing.T) {
	tests := []struct {
		name                            string
		kind, distance, duration, metric string
	}{
		{"zero distance", "running", "0", "30", "160"},
		{"negative duration", "running", "5", "-30", "160"},
		{"non-numeric distance", "running", "five", "30", "160"},
		{"empty duration", "cycling", "20", "", "400"},
		{"zero cadence", "running", "5", "30", "0"},
		{"missing cadence", "running", "5", "30", ""},
		{"negative elevation", "cycling", "20", "60", "-10"},
		{"infinite distance", "cycling", "Inf", "60", "10"},
		{"NaN elevation", "cycling", "20", "60", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, fakeLocator{pos: home})
			require.NoError(t, h.init(t))

			h.maps.onClick(home)
			h.fill(t, tt.kind, tt.distance, tt.duration, tt.metric)
			before := h.form.Values()

			_, err := h.ctrl.SubmitForm()
			require.ErrorIs(t, err, session.ErrInvalidWorkoutInput)
			require.Equal(t, 0, h.ctrl.Len())
			require.Equal(t, []string{session.InvalidInputMessage}, h.alerts.alerts)
			require.True(t, h.form.Visible())
			require.Equal(t, before, h.form.Values())
			require.Empty(t, h.maps.markers)
			require.Empty(t, h.list.rows)
			require.Empty(t, h.timers)

			_, pending := h.ctrl.PendingLocation()
			require.True(t, pending)
		})
	}
}

func TestZeroElevationAllowed(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	h.maps.onClick(home)
	h.fill(t, "cycling", "10", "30", "0")
	w, err := h.ctrl.SubmitForm()
	require.NoError(t, err)
	require.Equal(t, 0.0, w.Cycling.ElevationGainM)
}

func TestSubmitWithoutClick(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	h.fill(t, "running", "5", "30", "160")
	_, err := h.ctrl.SubmitForm()
	require.ErrorIs(t, err, session.ErrNoPendingLocation)
	require.Equal(t, 0, h.ctrl.Len())
}

func TestLastClickWins(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	first := models.Coordinates{Lat: 1, Lng: 1}
	second := models.Coordinates{Lat: 2, Lng: 2}
	h.maps.onClick(first)
	h.maps.onClick(second)
	h.fill(t, "running", "5", "30", "160")

	w, err := h.ctrl.SubmitForm()
	require.NoError(t, err)
	require.Equal(t, second, w.Coords)
	require.Equal(t, second, h.maps.markers[0].at)
	require.Equal(t, 2.0, h.metrics.Value("workoutlog_map_clicks_total", nil))
}

func TestWorkoutsAppendOnly(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	var ids []string
	for i, kind := range []string{"running", "cycling", "running"} {
		h.maps.onClick(models.Coordinates{Lat: float64(i), Lng: float64(i)})
		h.fill(t, kind, "10", "50", "100")
		w, err := h.ctrl.SubmitForm()
		require.NoError(t, err)
		ids = append(ids, w.ID.String())
		require.Equal(t, i+1, h.ctrl.Len())
	}

	snapshot := h.ctrl.Workouts()
	snapshot[0].DistanceKm = 999
	snapshot[0].Running.CadenceSpm = 999

	again := h.ctrl.Workouts()
	require.Len(t, again, 3)
	for i, w := range again {
		require.Equal(t, ids[i], w.ID.String())
	}
	require.Equal(t, 10.0, again[0].DistanceKm)
	require.Equal(t, 100.0, again[0].Running.CadenceSpm)
}

func TestToggleMetricField(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})

	h.form.SelectKind(models.KindCycling)
	h.ctrl.ToggleMetricField()
	require.Equal(t, session.FieldElevation, h.form.MetricField())

	h.form.SelectKind(models.KindRunning)
	h.ctrl.ToggleMetricField()
	require.Equal(t, session.FieldCadence, h.form.MetricField())
}

func TestWorkoutSelectedPansMap(t *testing.T) {
	h := newHarness(t, fakeLocator{pos: home})
	require.NoError(t, h.init(t))

	at := models.Coordinates{Lat: 48.85, Lng: 2.35}
	h.maps.onClick(at)
	h.fill(t, "running", "5", "30", "160")
	w, err := h.ctrl.SubmitForm()
	require.NoError(t, err)

	got, err := h.ctrl.WorkoutSelected(w.ShortID())
	require.NoError(t, err)
	require.Equal(t, w.ID, got.ID)
	require.Equal(t, []models.Coordinates{at}, h.maps.views)

	_, err = h.ctrl.WorkoutSelected("ffffffff-nope")
	require.ErrorIs(t, err, session.ErrWorkoutNotFound)

	_, err = h.ctrl.WorkoutSelected("")
	require.ErrorIs(t, err, session.ErrWorkoutNotFound)
}

func TestWorkoutSelectedWithoutMap(t *testing.T) {
	h := newHarness(t, fakeLocator{err: session.ErrGeolocationUnavailable})
	require.Error(t, h.init(t))

	// Without a map nothing can be clicked, so no workout can exist either.
	_, err := h.ctrl.WorkoutSelected("abc")
	require.ErrorIs(t, err, session.ErrWorkoutNotFound)
}
