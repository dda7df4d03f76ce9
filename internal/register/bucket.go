package register

import (
	"sort"
	"sync"
	"time"

	"github.com/rlourenco/bicicletario/internal/models"
)

// Bucketed is the three-level year → month → day grouping of entries, keyed
// on each entry's local calendar date.
type Bucketed map[int]map[time.Month]map[int][]models.Entry

// MonthSummary aggregates one month of a year.
type MonthSummary struct {
	Name         string      `json:"name"`
	TotalDays    int         `json:"totalDays"`
	TotalEntries int         `json:"totalEntries"`
	Days         map[int]int `json:"days"`
}

// YearSummary aggregates one year.
type YearSummary struct {
	TotalMonths int                          `json:"totalMonths"`
	Months      map[time.Month]*MonthSummary `json:"months"`
}

// Summary is the hierarchical count rollup derived from the bucketed index.
type Summary struct {
	TotalEntries int                  `json:"totalEntries"`
	Years        map[int]*YearSummary `json:"years"`
}

// Index derives the date buckets and summary from the entry list. It is
// fully rebuilt after every persisted mutation; no incremental updates.
// That trades efficiency for simplicity, acceptable at the expected volume.
type Index struct {
	mu      sync.Mutex
	buckets Bucketed
	summary Summary
}

func NewIndex() *Index {
	x := &Index{}
	x.Rebuild(nil)
	return x
}

// Rebuild recomputes the buckets and summary from scratch. Entries within a
// day keep the input (insertion) order.
func (x *Index) Rebuild(entries []models.Entry) {
	buckets := make(Bucketed)
	summary := Summary{Years: make(map[int]*YearSummary)}

	for _, e := range entries {
		// Local calendar date, not UTC.
		year, month, day := e.EntryTimestamp.Date()

		months, ok := buckets[year]
		if !ok {
			months = make(map[time.Month]map[int][]models.Entry)
			buckets[year] = months
		}
		days, ok := months[month]
		if !ok {
			days = make(map[int][]models.Entry)
			months[month] = days
		}
		days[day] = append(days[day], e)

		ys, ok := summary.Years[year]
		if !ok {
			ys = &YearSummary{Months: make(map[time.Month]*MonthSummary)}
			summary.Years[year] = ys
		}
		ms, ok := ys.Months[month]
		if !ok {
			ms = &MonthSummary{Name: month.String(), Days: make(map[int]int)}
			ys.Months[month] = ms
		}
		if ms.Days[day] == 0 {
			ms.TotalDays++
		}
		ms.Days[day]++
		ms.TotalEntries++
		summary.TotalEntries++
	}

	for _, ys := range summary.Years {
		ys.TotalMonths = len(ys.Months)
	}

	x.mu.Lock()
	x.buckets = buckets
	x.summary = summary
	x.mu.Unlock()
}

// Bucketed returns the current year → month → day grouping.
func (x *Index) Bucketed() Bucketed {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buckets
}

// Summary returns the current hierarchical counts.
func (x *Index) Summary() Summary {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.summary
}

// ByDate returns the entries under the given date selector. With month == 0
// it flattens the whole year; with day == 0 it flattens the whole month.
// Flattened results are ordered by month and day, preserving insertion
// order within a day.
func (x *Index) ByDate(year int, month time.Month, day int) []models.Entry {
	x.mu.Lock()
	defer x.mu.Unlock()

	months, ok := x.buckets[year]
	if !ok {
		return nil
	}

	if month == 0 {
		var out []models.Entry
		for _, m := range sortedMonths(months) {
			out = append(out, flattenMonth(months[m])...)
		}
		return out
	}

	days, ok := months[month]
	if !ok {
		return nil
	}
	if day == 0 {
		return flattenMonth(days)
	}
	return append([]models.Entry(nil), days[day]...)
}

func sortedMonths(months map[time.Month]map[int][]models.Entry) []time.Month {
	keys := make([]time.Month, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func flattenMonth(days map[int][]models.Entry) []models.Entry {
	keys := make([]int, 0, len(days))
	for d := range days {
		keys = append(keys, d)
	}
	sort.Ints(keys)

	var out []models.Entry
	for _, d := range keys {
		out = append(out, days[d]...)
	}
	return out
}
