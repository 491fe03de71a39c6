// ABOUTME: Exports a session's workouts as JSON, YAML, or Markdown.
// ABOUTME: Output goes to a writer; exports are never read back in.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/workoutlog/internal/models"
)

// ExportData is the envelope written by Export.
type ExportData struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	Workouts   []*models.Workout `json:"workouts" yaml:"workouts"`
}

// Formats lists the supported export formats.
var Formats = []string{"json", "yaml", "markdown"}

// Export writes workouts to w in the given format.
func Export(w io.Writer, format string, workouts []*models.Workout) error {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "workoutlog",
		Workouts:   workouts,
	}
	if data.Workouts == nil {
		data.Workouts = []*models.Workout{}
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "markdown", "md":
		return exportMarkdown(w, data)
	default:
		return fmt.Errorf("unknown export format: %q (want json, yaml, or markdown)", format)
	}
}

func exportMarkdown(w io.Writer, data *ExportData) error {
	var sb strings.Builder
	sb.WriteString("# Workouts\n\n")
	fmt.Fprintf(&sb, "_Exported %s_\n\n", data.ExportedAt.Format("2006-01-02 15:04"))

	if len(data.Workouts) == 0 {
		sb.WriteString("No workouts logged.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("| ID | Description | Location | Distance (km) | Duration (min) | Metric | Secondary |\n")
	sb.WriteString("|----|-------------|----------|---------------|----------------|--------|-----------|\n")
	for _, wo := range data.Workouts {
		m, s := wo.Metric(), wo.SecondaryMetric()
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %.1f %s | %s %s |\n",
			wo.ShortID(),
			wo.Description,
			wo.Coords,
			formatNumber(wo.DistanceKm),
			formatNumber(wo.DurationMin),
			m.Value, m.Unit,
			formatNumber(s.Value), s.Unit,
		)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
