// ABOUTME: Interactive prompt that turns typed commands into session actions.
// ABOUTME: Map clicks, form fields, submit, list, show, export, and stats.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/harperreed/workoutlog/internal/app"
	"github.com/harperreed/workoutlog/internal/geo"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/render"
	"github.com/harperreed/workoutlog/internal/session"
)

const replHelp = `Commands:
  click <lat> <lng>       click the map and open the form there
  kind <running|cycling>  choose the workout kind
  distance <km>           set distance
  duration <min>          set duration
  cadence <spm>           set running cadence
  elevation <m>           set cycling elevation gain
  submit                  log the workout
  form                    show the form
  list                    show logged workouts
  show <id>               move the map to a workout
  export <format>         print workouts as json, yaml, or markdown
  stats                   show session counters
  help                    show this help
  quit                    leave`

// fieldCommands maps prompt commands to form fields.
var fieldCommands = map[string]session.Field{
	"kind":      session.FieldKind,
	"distance":  session.FieldDistance,
	"duration":  session.FieldDuration,
	"cadence":   session.FieldCadence,
	"elevation": session.FieldElevation,
}

var errQuit = errors.New("quit")

type repl struct {
	sess *app.Session
	out  io.Writer
}

func newREPL(sess *app.Session, out io.Writer) *repl {
	return &repl{sess: sess, out: out}
}

// run reads commands until quit, EOF, or ctx is done.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	faint := color.New(color.Faint)
	fmt.Fprintln(r.out, faint.Sprint(`Type "help" for commands.`))

	lines, readErr := readLines(ctx, in)
	for {
		fmt.Fprint(r.out, "> ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				return <-readErr
			}
			line = l
		}

		err := r.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(r.out, color.RedString("Error: %v", err))
		}
	}
}

// readLines scans in on its own goroutine so a pending read does not hold
// up cancellation. The error channel receives the scan result once lines
// is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return lines, readErr
}

// parseLine splits a command line into a lowercased command and its arguments.
func parseLine(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// parseClick accepts "lat lng", "lat,lng", or "lat, lng".
func parseClick(args []string) (models.Coordinates, error) {
	if len(args) == 0 {
		return models.Coordinates{}, errors.New("usage: click <lat> <lng>")
	}
	return geo.ParseCoordinates(strings.Join(args, " "))
}

func (r *repl) exec(ctx context.Context, line string) error {
	cmd, args := parseLine(line)

	if field, ok := fieldCommands[cmd]; ok {
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <value>", cmd)
		}
		return r.sess.SetField(ctx, field, args[0])
	}

	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(r.out, replHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "click":
		at, err := parseClick(args)
		if err != nil {
			return err
		}
		return r.sess.Click(ctx, at)
	case "submit":
		return r.submit(ctx)
	case "form":
		return r.showForm(ctx)
	case "list", "ls":
		return r.sess.Redraw(ctx)
	case "show":
		if len(args) != 1 {
			return errors.New("usage: show <id>")
		}
		return r.show(ctx, args[0])
	case "export":
		if len(args) != 1 {
			return fmt.Errorf("usage: export <%s>", strings.Join(render.Formats, "|"))
		}
		return r.sess.Export(ctx, r.out, args[0])
	case "stats":
		return r.stats()
	default:
		return fmt.Errorf("unknown command: %s (try help)", cmd)
	}
}

func (r *repl) submit(ctx context.Context) error {
	w, err := r.sess.Submit(ctx)
	switch {
	case errors.Is(err, session.ErrNoPendingLocation):
		return errors.New("click the map before submitting")
	case errors.Is(err, session.ErrInvalidWorkoutInput):
		// Already alerted.
		return nil
	case err != nil:
		return err
	}
	color.New(color.FgGreen).Fprintf(r.out, "✓ Logged %s (ID: %s)\n", w.Description, w.ShortID())
	return nil
}

func (r *repl) showForm(ctx context.Context) error {
	st, err := r.sess.State(ctx)
	if err != nil {
		return err
	}
	faint := color.New(color.Faint)

	if !st.Form.Visible {
		fmt.Fprintln(r.out, faint.Sprint("Form is hidden. Click the map to open it."))
		return nil
	}
	if st.Pending != nil {
		fmt.Fprintf(r.out, "At:        %s\n", st.Pending)
	}
	v := st.Form.Values
	fmt.Fprintf(r.out, "Kind:      %s\n", v.Kind)
	fmt.Fprintf(r.out, "Distance:  %s\n", v.Distance)
	fmt.Fprintf(r.out, "Duration:  %s\n", v.Duration)
	if st.Form.MetricField == session.FieldElevation {
		fmt.Fprintf(r.out, "Elevation: %s\n", v.Elevation)
	} else {
		fmt.Fprintf(r.out, "Cadence:   %s\n", v.Cadence)
	}
	return nil
}

func (r *repl) show(ctx context.Context, id string) error {
	w, err := r.sess.Select(ctx, id)
	if err != nil {
		return err
	}
	faint := color.New(color.Faint)
	m, sec := w.Metric(), w.SecondaryMetric()

	fmt.Fprintf(r.out, "%s %s\n", w.Kind.Icon(), color.New(color.Bold).Sprint(w.Description))
	fmt.Fprintf(r.out, "  ID:       %s\n", faint.Sprint(w.ID.String()))
	fmt.Fprintf(r.out, "  At:       %s\n", w.Coords)
	fmt.Fprintf(r.out, "  Distance: %g km\n", w.DistanceKm)
	fmt.Fprintf(r.out, "  Duration: %g min\n", w.DurationMin)
	fmt.Fprintf(r.out, "  %-9s %.1f %s\n", strings.ToUpper(m.Name[:1])+m.Name[1:]+":", m.Value, m.Unit)
	fmt.Fprintf(r.out, "  %-9s %g %s\n", strings.ToUpper(sec.Name[:1])+sec.Name[1:]+":", sec.Value, sec.Unit)
	return nil
}

func (r *repl) stats() error {
	samples, err := r.sess.Stats()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		fmt.Fprintln(r.out, "No activity yet.")
		return nil
	}
	for _, s := range samples {
		name := s.Name
		if len(s.Labels) > 0 {
			keys := make([]string, 0, len(s.Labels))
			for k := range s.Labels {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, fmt.Sprintf("%s=%q", k, s.Labels[k]))
			}
			name += "{" + strings.Join(pairs, ",") + "}"
		}
		fmt.Fprintf(r.out, "%-60s %g\n", name, s.Value)
	}
	return nil
}
