// ABOUTME: Interfaces for the outside world the session controller talks to.
// ABOUTME: Geolocation, map widget, entry form, workout list, and user alerts.
package session

import (
	"context"

	"github.com/harperreed/workoutlog/internal/models"
)

// Locator resolves the user's current position. Locate may block; the
// controller always calls it off the event loop.
type Locator interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

// Popup configures the popup bound to a map marker.
type Popup struct {
	MaxWidth     int    `json:"max_width"`
	MinWidth     int    `json:"min_width"`
	AutoClose    bool   `json:"auto_close"`
	CloseOnClick bool   `json:"close_on_click"`
	ClassName    string `json:"class_name"`
	Content      string `json:"content"`
}

// MapWidget creates interactive maps.
type MapWidget interface {
	Create(center models.Coordinates, zoom int) (MapHandle, error)
}

// MapHandle is a live map returned by MapWidget.Create.
type MapHandle interface {
	OnClick(fn func(models.Coordinates))
	AddMarker(at models.Coordinates, popup Popup) error
	SetView(center models.Coordinates, zoom int) error
}

// Field names an input of the entry form.
type Field string

const (
	FieldKind      Field = "kind"
	FieldDistance  Field = "distance"
	FieldDuration  Field = "duration"
	FieldCadence   Field = "cadence"
	FieldElevation Field = "elevation"
)

// FormValues is the raw content of the entry form. Numeric fields are kept as
// typed so that non-numeric input can be rejected by validation.
type FormValues struct {
	Kind      models.Kind `json:"kind"`
	Distance  string      `json:"distance"`
	Duration  string      `json:"duration"`
	Cadence   string      `json:"cadence"`
	Elevation string      `json:"elevation"`
}

// EntryForm is the workout entry form.
type EntryForm interface {
	Values() FormValues
	Show()
	// Hide hides the form and suppresses it from layout until Restore.
	Hide()
	// Restore makes a hidden form displayable again without showing it.
	Restore()
	Clear()
	Focus(f Field)
	// ShowMetricField reveals the metric input for kind and hides the other.
	ShowMetricField(kind models.Kind)
}

// ListSurface displays logged workouts.
type ListSurface interface {
	Append(s models.Summary)
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}

// Dispatcher runs functions on the session's single event goroutine.
type Dispatcher interface {
	Post(fn func())
}
