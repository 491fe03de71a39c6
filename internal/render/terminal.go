// ABOUTME: Terminal implementations of the map, list, and alert collaborators.
// ABOUTME: Output is colored with fatih/color and written to an io.Writer.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/harperreed/workoutlog/internal/geo"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/session"
)

var (
	faint  = color.New(color.Faint)
	green  = color.New(color.FgGreen)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Marker is a marker placed on a TerminalMap.
type Marker struct {
	At    models.Coordinates
	Popup session.Popup
}

// TerminalMap is a map widget that prints what it would draw.
// It is its own handle; only one map can be created.
type TerminalMap struct {
	out     io.Writer
	created bool
	center  models.Coordinates
	zoom    int
	onClick func(models.Coordinates)
	markers []Marker
}

var (
	_ session.MapWidget = (*TerminalMap)(nil)
	_ session.MapHandle = (*TerminalMap)(nil)
)

// NewTerminalMap creates a map widget writing to out.
func NewTerminalMap(out io.Writer) *TerminalMap {
	return &TerminalMap{out: out}
}

// Create loads the map centered on center.
func (m *TerminalMap) Create(center models.Coordinates, zoom int) (session.MapHandle, error) {
	if m.created {
		return nil, fmt.Errorf("map already created")
	}
	m.created = true
	m.center = center
	m.zoom = zoom
	fmt.Fprintf(m.out, "%s map centered on %s (zoom %d)\n", green.Sprint("✓"), center, zoom)
	fmt.Fprintf(m.out, "  %s\n", faint.Sprint(geo.OSMURL(center, zoom)))
	return m, nil
}

// OnClick registers the click handler.
func (m *TerminalMap) OnClick(fn func(models.Coordinates)) {
	m.onClick = fn
}

// Click simulates a user click at the given location.
func (m *TerminalMap) Click(at models.Coordinates) error {
	if !m.created {
		return session.ErrMapUnavailable
	}
	if m.onClick != nil {
		m.onClick(at)
	}
	return nil
}

// AddMarker places a marker and opens its popup.
func (m *TerminalMap) AddMarker(at models.Coordinates, popup session.Popup) error {
	m.markers = append(m.markers, Marker{At: at, Popup: popup})
	fmt.Fprintf(m.out, "📍 %s %s %s\n", at, popup.Content, faint.Sprintf("[%s]", popup.ClassName))
	return nil
}

// SetView re-centers the map.
func (m *TerminalMap) SetView(center models.Coordinates, zoom int) error {
	if !m.created {
		return session.ErrMapUnavailable
	}
	m.center = center
	m.zoom = zoom
	fmt.Fprintf(m.out, "%s map moved to %s (zoom %d)\n", cyan.Sprint("→"), center, zoom)
	return nil
}

// Ready reports whether the map was created.
func (m *TerminalMap) Ready() bool {
	return m.created
}

// Center returns the current center and zoom.
func (m *TerminalMap) Center() (models.Coordinates, int) {
	return m.center, m.zoom
}

// Markers returns the placed markers in order.
func (m *TerminalMap) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// TerminalList prints one line per logged workout.
type TerminalList struct {
	out  io.Writer
	rows []models.Summary
}

var _ session.ListSurface = (*TerminalList)(nil)

// NewTerminalList creates a list writing to out.
func NewTerminalList(out io.Writer) *TerminalList {
	return &TerminalList{out: out}
}

// Append prints the summary and keeps it for later redraws.
func (l *TerminalList) Append(s models.Summary) {
	l.rows = append(l.rows, s)
	fmt.Fprintln(l.out, FormatRow(s))
}

// Rows returns every appended summary.
func (l *TerminalList) Rows() []models.Summary {
	out := make([]models.Summary, len(l.rows))
	copy(out, l.rows)
	return out
}

// Redraw prints the whole list again.
func (l *TerminalList) Redraw() {
	if len(l.rows) == 0 {
		fmt.Fprintln(l.out, "No workouts logged yet.")
		return
	}
	for _, s := range l.rows {
		fmt.Fprintln(l.out, FormatRow(s))
	}
}

// FormatRow renders a summary as a single list line.
func FormatRow(s models.Summary) string {
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	metricIcon, secondaryIcon := "⚡️", "🦶🏼"
	if s.Kind == models.KindCycling {
		secondaryIcon = "⛰"
	}
	return fmt.Sprintf("%s %s %s  %s km  ⏱ %s min  %s %.1f %s  %s %s %s",
		faint.Sprint(id),
		s.Kind.Icon(),
		padRight(s.Description, 24),
		formatNumber(s.DistanceKm),
		formatNumber(s.DurationMin),
		metricIcon, s.Metric.Value, s.Metric.Unit,
		secondaryIcon, formatNumber(s.Secondary.Value), s.Secondary.Unit,
	)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func padRight(s string, length int) string {
	for len([]rune(s)) < length {
		s += " "
	}
	return s
}

// TerminalNotifier prints alerts.
type TerminalNotifier struct {
	out io.Writer
}

var _ session.Notifier = (*TerminalNotifier)(nil)

// NewTerminalNotifier creates a notifier writing to out.
func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out}
}

// Alert prints msg as a warning.
func (n *TerminalNotifier) Alert(msg string) {
	fmt.Fprintf(n.out, "%s %s\n", red.Sprint("⚠"), yellow.Sprint(msg))
}
