// ABOUTME: Prometheus counters describing what happened during a logging session.
// ABOUTME: Kept on a private registry and read back for the in-session stats command.
package observability

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the session counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	workoutsLogged     *prometheus.CounterVec
	invalidSubmissions prometheus.Counter
	mapClicks          prometheus.Counter
	geolocationFailed  prometheus.Counter
}

// NewMetrics creates the counters on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		workoutsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workoutlog",
			Name:      "workouts_logged_total",
			Help:      "Workouts appended to the session, by kind.",
		}, []string{"kind"}),
		invalidSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workoutlog",
			Name:      "invalid_submissions_total",
			Help:      "Form submissions rejected by input validation.",
		}),
		mapClicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workoutlog",
			Name:      "map_clicks_total",
			Help:      "Clicks received from the map widget.",
		}),
		geolocationFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "workoutlog",
			Name:      "geolocation_failures_total",
			Help:      "Geolocation requests that did not return a position.",
		}),
	}
	m.registry.MustRegister(m.workoutsLogged, m.invalidSubmissions, m.mapClicks, m.geolocationFailed)
	return m
}

// WorkoutLogged counts an appended workout of the given kind.
func (m *Metrics) WorkoutLogged(kind string) {
	if m == nil {
		return
	}
	m.workoutsLogged.WithLabelValues(kind).Inc()
}

// InvalidSubmission counts a rejected form submission.
func (m *Metrics) InvalidSubmission() {
	if m == nil {
		return
	}
	m.invalidSubmissions.Inc()
}

// MapClicked counts a map click.
func (m *Metrics) MapClicked() {
	if m == nil {
		return
	}
	m.mapClicks.Inc()
}

// GeolocationFailed counts a failed position lookup.
func (m *Metrics) GeolocationFailed() {
	if m == nil {
		return
	}
	m.geolocationFailed.Inc()
}

// Sample is one counter value read back from the registry.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Snapshot gathers every counter, sorted by name then labels.
func (m *Metrics) Snapshot() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range mf.GetMetric() {
			s := Sample{Name: mf.GetName(), Value: metric.GetCounter().GetValue()}
			for _, lp := range metric.GetLabel() {
				if s.Labels == nil {
					s.Labels = map[string]string{}
				}
				s.Labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, s)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return labelKey(out[i].Labels) < labelKey(out[j].Labels)
	})
	return out, nil
}

func labelKey(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s string
	for _, k := range keys {
		s += k + "=" + labels[k] + ","
	}
	return s
}

// Value returns the current value of a counter, summed across label sets
// that match the given labels. Unknown names return 0.
func (m *Metrics) Value(name string, labels map[string]string) float64 {
	samples, err := m.Snapshot()
	if err != nil {
		return 0
	}
	var total float64
	for _, s := range samples {
		if s.Name != name || !matches(s.Labels, labels) {
			continue
		}
		total += s.Value
	}
	return total
}

func matches(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
