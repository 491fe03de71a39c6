// ABOUTME: Workout model for map-logged running and cycling sessions.
// ABOUTME: Derived metrics (pace, speed) and the description are fixed at construction.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the closed tag distinguishing running from cycling workouts.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// AllKinds returns every valid workout kind.
var AllKinds = []Kind{KindRunning, KindCycling}

// ParseKind converts a string into a Kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown workout kind: %q (want running or cycling)", s)
}

// Icon returns the emoji shown next to workouts of this kind.
func (k Kind) Icon() string {
	if k == KindRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

// Running holds the running-specific fields of a workout.
type Running struct {
	CadenceSpm   float64 `json:"cadence_spm" yaml:"cadence_spm"`
	PaceMinPerKm float64 `json:"pace_min_per_km" yaml:"pace_min_per_km"`
}

// Cycling holds the cycling-specific fields of a workout.
type Cycling struct {
	ElevationGainM float64 `json:"elevation_gain_m" yaml:"elevation_gain_m"`
	SpeedKmPerHr   float64 `json:"speed_km_per_hr" yaml:"speed_km_per_hr"`
}

// Workout represents a single logged exercise session.
// Exactly one of Running or Cycling is set, matching Kind.
type Workout struct {
	ID          uuid.UUID   `json:"id" yaml:"id"`
	Kind        Kind        `json:"kind" yaml:"kind"`
	Description string      `json:"description" yaml:"description"`
	Coords      Coordinates `json:"coords" yaml:"coords"`
	DistanceKm  float64     `json:"distance_km" yaml:"distance_km"`
	DurationMin float64     `json:"duration_min" yaml:"duration_min"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
	Running     *Running    `json:"running,omitempty" yaml:"running,omitempty"`
	Cycling     *Cycling    `json:"cycling,omitempty" yaml:"cycling,omitempty"`
}

// now is swapped in tests to pin the creation date.
var now = time.Now

func newWorkout(kind Kind, coords Coordinates, distanceKm, durationMin float64) *Workout {
	createdAt := now()
	return &Workout{
		ID:          uuid.New(),
		Kind:        kind,
		Description: FormatLabel(kind, createdAt),
		Coords:      coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		CreatedAt:   createdAt,
	}
}

// NewRunning creates a running workout and computes its pace in min/km.
// Inputs are not validated; callers check them first.
func NewRunning(coords Coordinates, distanceKm, durationMin, cadenceSpm float64) *Workout {
	w := newWorkout(KindRunning, coords, distanceKm, durationMin)
	w.Running = &Running{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: durationMin / distanceKm,
	}
	return w
}

// NewCycling creates a cycling workout and computes its speed in km/h.
// Inputs are not validated; callers check them first.
func NewCycling(coords Coordinates, distanceKm, durationMin, elevationGainM float64) *Workout {
	w := newWorkout(KindCycling, coords, distanceKm, durationMin)
	w.Cycling = &Cycling{
		ElevationGainM: elevationGainM,
		SpeedKmPerHr:   distanceKm / (durationMin / 60),
	}
	return w
}

// FormatLabel builds the human description, e.g. "Running on April 7".
func FormatLabel(kind Kind, createdAt time.Time) string {
	name := string(kind)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on %s %d", name, createdAt.Month(), createdAt.Day())
}

// ShortID returns the 8-character ID prefix used in listings.
func (w *Workout) ShortID() string {
	return w.ID.String()[:8]
}

// Measure is a single displayed value with its unit.
type Measure struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit" yaml:"unit"`
}

// Metric returns the kind-specific derived metric: pace for running, speed for cycling.
func (w *Workout) Metric() Measure {
	switch w.Kind {
	case KindRunning:
		return Measure{Name: "pace", Value: w.Running.PaceMinPerKm, Unit: "min/km"}
	case KindCycling:
		return Measure{Name: "speed", Value: w.Cycling.SpeedKmPerHr, Unit: "km/h"}
	}
	return Measure{}
}

// SecondaryMetric returns the user-entered kind metric: cadence or elevation gain.
func (w *Workout) SecondaryMetric() Measure {
	switch w.Kind {
	case KindRunning:
		return Measure{Name: "cadence", Value: w.Running.CadenceSpm, Unit: "spm"}
	case KindCycling:
		return Measure{Name: "elevation", Value: w.Cycling.ElevationGainM, Unit: "m"}
	}
	return Measure{}
}

// Summary is the structured row handed to list renderers.
type Summary struct {
	ID          string  `json:"id" yaml:"id"`
	Kind        Kind    `json:"kind" yaml:"kind"`
	Description string  `json:"description" yaml:"description"`
	DistanceKm  float64 `json:"distance_km" yaml:"distance_km"`
	DurationMin float64 `json:"duration_min" yaml:"duration_min"`
	Metric      Measure `json:"metric" yaml:"metric"`
	Secondary   Measure `json:"secondary" yaml:"secondary"`
}

// Summarize builds the list-rendering summary for the workout.
func (w *Workout) Summarize() Summary {
	return Summary{
		ID:          w.ID.String(),
		Kind:        w.Kind,
		Description: w.Description,
		DistanceKm:  w.DistanceKm,
		DurationMin: w.DurationMin,
		Metric:      w.Metric(),
		Secondary:   w.SecondaryMetric(),
	}
}

// Clone returns a deep copy so callers cannot mutate stored workouts.
func (w *Workout) Clone() *Workout {
	c := *w
	if w.Running != nil {
		r := *w.Running
		c.Running = &r
	}
	if w.Cycling != nil {
		cy := *w.Cycling
		c.Cycling = &cy
	}
	return &c
}
