// ABOUTME: Tests for the in-memory entry form.
// ABOUTME: Covers visibility transitions, field setting, and kind change notifications.
package form

import (
	"testing"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/session"
)

func TestNewFormDefaults(t *testing.T) {
	f := New()

	if f.Visible() {
		t.Error("new form should be hidden")
	}
	if !f.Displayable() {
		t.Error("new form should be displayable")
	}
	if f.Values().Kind != models.KindRunning {
		t.Errorf("Kind = %s, want running", f.Values().Kind)
	}
	if f.MetricField() != session.FieldCadence {
		t.Errorf("MetricField = %s, want cadence", f.MetricField())
	}
}

func TestVisibilityCycle(t *testing.T) {
	f := New()

	f.Show()
	if !f.Visible() {
		t.Fatal("expected visible after Show")
	}

	f.Hide()
	if f.Visible() || f.Displayable() {
		t.Fatal("expected hidden and suppressed after Hide")
	}

	f.Restore()
	if f.Visible() {
		t.Error("Restore must not show the form")
	}
	if !f.Displayable() {
		t.Error("expected displayable after Restore")
	}
}

func TestSetAndClear(t *testing.T) {
	f := New()

	tests := []struct {
		field session.Field
		value string
	}{
		{session.FieldDistance, "5"},
		{session.FieldDuration, "30"},
		{session.FieldCadence, "160"},
		{session.FieldElevation, "12"},
	}
	for _, tt := range tests {
		if err := f.Set(tt.field, tt.value); err != nil {
			t.Fatalf("Set(%s) failed: %v", tt.field, err)
		}
		if f.Focused() != tt.field {
			t.Errorf("Focused = %s, want %s", f.Focused(), tt.field)
		}
	}

	v := f.Values()
	if v.Distance != "5" || v.Duration != "30" || v.Cadence != "160" || v.Elevation != "12" {
		t.Errorf("unexpected values: %+v", v)
	}

	if err := f.Set(session.FieldKind, "cycling"); err != nil {
		t.Fatalf("Set(kind) failed: %v", err)
	}
	f.Clear()
	v = f.Values()
	if v.Distance != "" || v.Duration != "" || v.Cadence != "" || v.Elevation != "" {
		t.Errorf("expected cleared fields, got %+v", v)
	}
	if v.Kind != models.KindCycling {
		t.Errorf("Clear should keep kind, got %s", v.Kind)
	}
}

func TestSetErrors(t *testing.T) {
	f := New()
	if err := f.Set(session.FieldKind, "rowing"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if err := f.Set(session.Field("pace"), "5"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestKindChangeNotification(t *testing.T) {
	f := New()
	var got []models.Kind
	f.OnKindChange(func(k models.Kind) { got = append(got, k) })

	f.SelectKind(models.KindRunning) // unchanged, no event
	f.SelectKind(models.KindCycling)
	f.SelectKind(models.KindRunning)

	if len(got) != 2 || got[0] != models.KindCycling || got[1] != models.KindRunning {
		t.Errorf("change events = %v", got)
	}
}

func TestShowMetricField(t *testing.T) {
	f := New()
	f.ShowMetricField(models.KindCycling)
	if f.MetricField() != session.FieldElevation {
		t.Errorf("MetricField = %s, want elevation", f.MetricField())
	}
	f.ShowMetricField(models.KindRunning)
	if f.MetricField() != session.FieldCadence {
		t.Errorf("MetricField = %s, want cadence", f.MetricField())
	}
}
