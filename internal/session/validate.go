// ABOUTME: Parses and validates entry form values before a workout is built.
// ABOUTME: Non-numeric text parses as NaN and fails the finiteness check.
package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/workoutlog/internal/models"
)

// workoutInput is a validated form submission.
type workoutInput struct {
	kind      models.Kind
	distance  float64
	duration  float64
	cadence   float64
	elevation float64
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validateForm checks the fields relevant to the selected kind.
// Distance, duration and cadence must be > 0; elevation gain must be >= 0.
func validateForm(v FormValues) (workoutInput, error) {
	in := workoutInput{
		kind:     v.Kind,
		distance: parseNumber(v.Distance),
		duration: parseNumber(v.Duration),
	}

	type check struct {
		field Field
		value float64
		min   float64
		// strict requires value > min instead of value >= min.
		strict bool
	}
	checks := []check{
		{FieldDistance, in.distance, 0, true},
		{FieldDuration, in.duration, 0, true},
	}

	switch v.Kind {
	case models.KindRunning:
		in.cadence = parseNumber(v.Cadence)
		checks = append(checks, check{FieldCadence, in.cadence, 0, true})
	case models.KindCycling:
		in.elevation = parseNumber(v.Elevation)
		checks = append(checks, check{FieldElevation, in.elevation, 0, false})
	default:
		return workoutInput{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidWorkoutInput, v.Kind)
	}

	for _, c := range checks {
		if !isFinite(c.value) {
			return workoutInput{}, fmt.Errorf("%w: %s is not a number", ErrInvalidWorkoutInput, c.field)
		}
		if c.strict && c.value <= c.min {
			return workoutInput{}, fmt.Errorf("%w: %s must be positive", ErrInvalidWorkoutInput, c.field)
		}
		if !c.strict && c.value < c.min {
			return workoutInput{}, fmt.Errorf("%w: %s must not be negative", ErrInvalidWorkoutInput, c.field)
		}
	}
	// "-0" passes the >= 0 check; store it as 0.
	if in.elevation == 0 {
		in.elevation = 0
	}
	return in, nil
}

// build constructs the workout variant for a validated input.
func (in workoutInput) build(at models.Coordinates) *models.Workout {
	if in.kind == models.KindRunning {
		return models.NewRunning(at, in.distance, in.duration, in.cadence)
	}
	return models.NewCycling(at, in.distance, in.duration, in.elevation)
}
