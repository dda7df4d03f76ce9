package export

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rlourenco/bicicletario/internal/register"
)

// WriteReport writes the tabular daily report: the CSV columns plus
// Category, followed by a footer with per-category counts and the overnight
// count. Category icons decorate the footer when a mapping exists; a
// missing mapping is tolerated.
func WriteReport(w io.Writer, view *register.DailyView, icons map[string]string) error {
	rows := make([]register.Row, len(view.Rows))
	copy(rows, view.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Entry.EntryTimestamp.After(rows[j].Entry.EntryTimestamp)
	})

	if _, err := fmt.Fprintf(w, "Daily access register - %s\n\n", view.Date); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Client\tID\tBike\tBrand\tColor\tCategory\tEntry\tExit")
	for _, r := range rows {
		category := r.Entry.Category
		if category == "" {
			category = r.Client.Category
		}
		if category == "" {
			category = register.UncategorizedLabel
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Client.Name,
			r.Client.Document,
			r.Entry.BikeSnapshot.Model,
			r.Entry.BikeSnapshot.Brand,
			r.Entry.BikeSnapshot.Color,
			category,
			formatTimestamp(&r.Entry.EntryTimestamp),
			formatTimestamp(r.Entry.ExitTimestamp),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nTotal: %d\n", len(rows)); err != nil {
		return err
	}

	names := make([]string, 0, len(view.Categories))
	for name := range view.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		label := name
		if icon, ok := icons[name]; ok && icon != "" {
			label = icon + " " + name
		}
		if _, err := fmt.Fprintf(w, "%s: %d\n", label, view.Categories[name]); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Overnight: %d\n", len(view.Overnight))
	return err
}
