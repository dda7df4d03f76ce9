// Package export renders the daily view into the artifacts consumers of the
// register share outside the tool: a CSV file, a tabular text report, and an
// optional upload of either to S3-compatible object storage.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rlourenco/bicicletario/internal/register"
)

// timestampLayout is the operator-facing timestamp format used in exports.
const timestampLayout = "02/01/2006 15:04"

// csvHeader is a compatibility contract with previously exported files;
// the column order must not change.
var csvHeader = []string{"Client", "ID", "Bike", "Brand", "Color", "Entry", "Exit"}

// WriteCSV writes the view's rows as CSV, sorted by entry timestamp
// descending.
func WriteCSV(w io.Writer, view *register.DailyView) error {
	rows := make([]register.Row, len(view.Rows))
	copy(rows, view.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Entry.EntryTimestamp.After(rows[j].Entry.EntryTimestamp)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Client.Name,
			r.Client.Document,
			r.Entry.BikeSnapshot.Model,
			r.Entry.BikeSnapshot.Brand,
			r.Entry.BikeSnapshot.Color,
			formatTimestamp(&r.Entry.EntryTimestamp),
			formatTimestamp(r.Entry.ExitTimestamp),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timestampLayout)
}
