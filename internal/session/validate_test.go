// ABOUTME: Tests for form validation rules.
// ABOUTME: Checks per-kind field requirements and numeric parsing.
package session

import (
	"errors"
	"math"
	"testing"

	"github.com/harperreed/workoutlog/internal/models"
)

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name    string
		in      FormValues
		wantErr bool
	}{
		{"running ok", FormValues{Kind: models.KindRunning, Distance: "5", Duration: "30", Cadence: "160"}, false},
		{"running ignores elevation", FormValues{Kind: models.KindRunning, Distance: "5", Duration: "30", Cadence: "160", Elevation: "x"}, false},
		{"cycling ok", FormValues{Kind: models.KindCycling, Distance: "20", Duration: "60", Elevation: "400"}, false},
		{"cycling ignores cadence", FormValues{Kind: models.KindCycling, Distance: "20", Duration: "60", Elevation: "0", Cadence: "-1"}, false},
		{"whitespace trimmed", FormValues{Kind: models.KindRunning, Distance: " 5 ", Duration: "30\n", Cadence: "160"}, false},
		{"unknown kind", FormValues{Kind: "rowing", Distance: "5", Duration: "30"}, true},
		{"zero duration", FormValues{Kind: models.KindCycling, Distance: "20", Duration: "0", Elevation: "1"}, true},
		{"text cadence", FormValues{Kind: models.KindRunning, Distance: "5", Duration: "30", Cadence: "fast"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateForm(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWorkoutInput) {
					t.Errorf("expected ErrInvalidWorkoutInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildUsesKind(t *testing.T) {
	in, err := validateForm(FormValues{Kind: models.KindCycling, Distance: "30", Duration: "90", Elevation: "250"})
	if err != nil {
		t.Fatalf("validateForm failed: %v", err)
	}
	w := in.build(models.Coordinates{Lat: 1, Lng: 2})
	if w.Kind != models.KindCycling || w.Cycling == nil {
		t.Fatalf("expected cycling workout, got %+v", w)
	}
	if w.Cycling.SpeedKmPerHr != 20 {
		t.Errorf("SpeedKmPerHr = %v, want 20", w.Cycling.SpeedKmPerHr)
	}
}

func TestNegativeZeroElevationStoredAsZero(t *testing.T) {
	in, err := validateForm(FormValues{Kind: models.KindCycling, Distance: "10", Duration: "30", Elevation: "-0"})
	if err != nil {
		t.Fatalf("validateForm failed: %v", err)
	}
	w := in.build(models.Coordinates{})
	if w.Cycling.ElevationGainM != 0 || math.Signbit(w.Cycling.ElevationGainM) {
		t.Errorf("ElevationGainM = %v, want +0", w.Cycling.ElevationGainM)
	}
}
