// ABOUTME: In-memory entry form backing the terminal and MCP front ends.
// ABOUTME: Tracks field text, selected kind, visibility, focus, and the visible metric row.
package form

import (
	"fmt"

	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/session"
)

// Compile-time check that Form implements session.EntryForm.
var _ session.EntryForm = (*Form)(nil)

// Form holds the state of the workout entry form. It starts hidden with
// running selected and the cadence row visible.
type Form struct {
	values      session.FormValues
	hidden      bool
	suppressed  bool
	focused     session.Field
	metricField session.Field

	onKindChange func(models.Kind)
}

// New creates a hidden form.
func New() *Form {
	return &Form{
		values:      session.FormValues{Kind: models.KindRunning},
		hidden:      true,
		metricField: session.FieldCadence,
	}
}

// OnKindChange registers the callback fired when the selected kind changes.
func (f *Form) OnKindChange(fn func(models.Kind)) {
	f.onKindChange = fn
}

// Values returns the current field contents.
func (f *Form) Values() session.FormValues {
	return f.values
}

// Show reveals the form.
func (f *Form) Show() {
	f.hidden = false
}

// Hide hides the form and takes it out of layout until Restore.
func (f *Form) Hide() {
	f.hidden = true
	f.suppressed = true
}

// Restore puts the form back into layout. It stays hidden.
func (f *Form) Restore() {
	f.suppressed = false
}

// Clear empties the numeric fields. The selected kind is kept.
func (f *Form) Clear() {
	f.values.Distance = ""
	f.values.Duration = ""
	f.values.Cadence = ""
	f.values.Elevation = ""
}

// Focus moves input focus to a field.
func (f *Form) Focus(field session.Field) {
	f.focused = field
}

// ShowMetricField shows the cadence row for running and elevation for cycling.
func (f *Form) ShowMetricField(kind models.Kind) {
	if kind == models.KindCycling {
		f.metricField = session.FieldElevation
		return
	}
	f.metricField = session.FieldCadence
}

// Visible reports whether the form is shown.
func (f *Form) Visible() bool {
	return !f.hidden
}

// Displayable reports whether the form can be shown; false during the
// restore delay that follows a successful submit.
func (f *Form) Displayable() bool {
	return !f.suppressed
}

// Focused returns the field that has input focus.
func (f *Form) Focused() session.Field {
	return f.focused
}

// MetricField returns the kind-specific field currently visible.
func (f *Form) MetricField() session.Field {
	return f.metricField
}

// SelectKind changes the selected kind and fires the change callback.
func (f *Form) SelectKind(kind models.Kind) {
	if f.values.Kind == kind {
		return
	}
	f.values.Kind = kind
	if f.onKindChange != nil {
		f.onKindChange(kind)
	}
}

// Set types text into a field. Setting FieldKind parses the kind.
func (f *Form) Set(field session.Field, value string) error {
	switch field {
	case session.FieldKind:
		kind, err := models.ParseKind(value)
		if err != nil {
			return err
		}
		f.SelectKind(kind)
	case session.FieldDistance:
		f.values.Distance = value
	case session.FieldDuration:
		f.values.Duration = value
	case session.FieldCadence:
		f.values.Cadence = value
	case session.FieldElevation:
		f.values.Elevation = value
	default:
		return fmt.Errorf("unknown form field: %q", field)
	}
	f.focused = field
	return nil
}
