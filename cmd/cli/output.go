package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/and161185/fittrack/internal/api"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints v as JSON or via text, depending on --format.
func render(w io.Writer, o *rootOptions, v any, text func(io.Writer)) error {
	if o.Format == "json" {
		return printJSON(w, v)
	}
	text(w)
	return nil
}

func textWorkouts(ws []api.Workout) func(io.Writer) {
	return func(w io.Writer) {
		if len(ws) == 0 {
			fmt.Fprintln(w, "no workouts")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tEXERCISE\tMIN\tKCAL\tINTENSITY\tNOTES")
		total := 0
		for _, x := range ws {
			notes := ""
			if x.Notes != nil {
				notes = *x.Notes
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
				x.ID, x.Date.Local().Format("Mon 2006-01-02 15:04"), x.ExerciseType, x.Duration, x.Calories, x.Intensity, notes)
			total += x.Calories
		}
		_ = tw.Flush()
		fmt.Fprintf(w, "%d workout(s), %d kcal\n", len(ws), total)
	}
}

func textGoals(gs []api.Goal) func(io.Writer) {
	return func(w io.Writer) {
		if len(gs) == 0 {
			fmt.Fprintln(w, "no goals")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tPROGRESS\tSINCE")
		for _, g := range gs {
			fmt.Fprintf(tw, "%s\t%s\t%g/%g\t%s\n", g.ID, g.Type, g.Current, g.Target, g.Date.Local().Format(time.DateOnly))
		}
		_ = tw.Flush()
	}
}

func textExercises(es []api.Exercise) func(io.Writer) {
	return func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tKCAL/MIN")
		for _, e := range es {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", e.ID, strings.TrimSpace(e.Emoji+" "+e.Name), e.Category, e.CaloriesPerMinute)
		}
		_ = tw.Flush()
	}
}

// parseDate accepts a calendar date (midnight in loc) or an RFC 3339 timestamp.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
