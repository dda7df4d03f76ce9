package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/register"
)

// Day sets the working date. With no argument it resets to today.
func (a *App) Day(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.day = time.Now().Format(dateLayout)
		fmt.Fprintf(os.Stdout, "Working date: %s\n", a.day)
		return nil
	}
	d, err := time.ParseInLocation(dateLayout, args[0], time.Local)
	if err != nil {
		return a.report(ctx, fmt.Errorf("%w: expected date as yyyy-mm-dd", common.ErrValidation))
	}
	a.day = d.Format(dateLayout)
	fmt.Fprintf(os.Stdout, "Working date: %s\n", a.day)
	return nil
}

// Filter sets the daily-view text filter. With no argument it clears it.
func (a *App) Filter(ctx context.Context, args []string) error {
	a.filter = strings.Join(args, " ")
	if a.filter == "" {
		fmt.Fprintln(os.Stdout, "Filter cleared.")
	} else {
		fmt.Fprintf(os.Stdout, "Filter: %q\n", a.filter)
	}
	return nil
}

// List prints the daily view for the working date: one line per entry, the
// per-category counts and the overnight rows.
func (a *App) List(ctx context.Context) error {
	if err := a.session.Require(register.ModuleRegister, register.ActionView); err != nil {
		return a.report(ctx, err)
	}

	view, err := a.projector.Project(ctx, a.day, a.filter)
	if err != nil {
		return a.report(ctx, err)
	}

	if len(view.Rows) == 0 {
		fmt.Fprintf(os.Stdout, "No entries for %s.\n", view.Date)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Entry\tClient\tBike\tBrand\tColor\tIn\tOut\tFlags")
	for _, r := range view.Rows {
		out := ""
		if r.Entry.ExitTimestamp != nil {
			out = r.Entry.ExitTimestamp.Format("15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Entry.ID,
			r.Client.Name,
			r.Entry.BikeSnapshot.Model,
			r.Entry.BikeSnapshot.Brand,
			r.Entry.BikeSnapshot.Color,
			r.Entry.EntryTimestamp.Format("15:04"),
			out,
			rowFlags(r),
		)
	}
	if err := tw.Flush(); err != nil {
		return a.report(ctx, err)
	}

	names := make([]string, 0, len(view.Categories))
	for name := range view.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(os.Stdout, "\nTotal: %d", len(view.Rows))
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "  %s: %d", name, view.Categories[name])
	}
	fmt.Fprintf(os.Stdout, "  overnight: %d\n", len(view.Overnight))
	return nil
}

// Summary prints the hierarchical year/month/day entry counts.
func (a *App) Summary(ctx context.Context) error {
	if err := a.session.Require(register.ModuleRegister, register.ActionView); err != nil {
		return a.report(ctx, err)
	}

	s := a.index.Summary()
	fmt.Fprintf(os.Stdout, "Total entries: %d\n", s.TotalEntries)

	years := make([]int, 0, len(s.Years))
	for y := range s.Years {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		ys := s.Years[y]
		fmt.Fprintf(os.Stdout, "%d (%d months)\n", y, ys.TotalMonths)

		months := make([]time.Month, 0, len(ys.Months))
		for m := range ys.Months {
			months = append(months, m)
		}
		sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

		for _, m := range months {
			ms := ys.Months[m]
			fmt.Fprintf(os.Stdout, "  %s: %d entries over %d days\n", ms.Name, ms.TotalEntries, ms.TotalDays)
		}
	}
	return nil
}

func rowFlags(r register.Row) string {
	var flags []string
	if r.Entry.AccessRemoved {
		flags = append(flags, "removed")
	}
	if r.Entry.Overnight {
		flags = append(flags, "overnight")
	}
	return strings.Join(flags, ",")
}
