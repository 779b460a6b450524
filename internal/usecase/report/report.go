// Package report derives chart-ready series from a user's snapshot
// history. All functions are pure: they take an already-fetched snapshot
// sequence and perform no I/O and no mutation of stored data.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrimonio/tracker-backend/internal/domain"
)

// MinChartPoints is the minimum number of snapshots a series needs to be
// meaningful for charting. Fewer points is not an error; consumers signal
// "insufficient data" to the user instead.
const MinChartPoints = 2

// TotalRow is one point of the running-totals series.
type TotalRow struct {
	Date       time.Time       `json:"date"`
	TotalGross decimal.Decimal `json:"totalGross"`
	TotalNet   decimal.Decimal `json:"totalNet"`
}

// CategoryValue holds the gross and net amounts of one named asset on one
// date.
type CategoryValue struct {
	Gross decimal.Decimal `json:"gross"`
	Net   decimal.Decimal `json:"net"`
}

// CategoryRow is one point of the per-asset-name series. Names missing
// from a snapshot are absent from Values; renderers treat absent as
// zero-or-blank.
type CategoryRow struct {
	Date   time.Time                `json:"date"`
	Values map[string]CategoryValue `json:"values"`
}

// DeltaRow is one point of the period-over-period delta series, dated by
// the later snapshot of the pair it compares.
type DeltaRow struct {
	Date       time.Time       `json:"date"`
	DeltaGross decimal.Decimal `json:"deltaGross"`
	DeltaNet   decimal.Decimal `json:"deltaNet"`
}

// sortedByDate returns a copy of snapshots in ascending date order.
// The store already guarantees chronological order, but callers may hand
// in anything; the sort is stable so same-date snapshots keep their
// arrival order instead of flapping.
func sortedByDate(snapshots []*domain.Snapshot) []*domain.Snapshot {
	sorted := make([]*domain.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// TotalSeries produces one row per snapshot with gross and net totals
// summed across that snapshot's entries.
func TotalSeries(snapshots []*domain.Snapshot) []TotalRow {
	rows := make([]TotalRow, 0, len(snapshots))
	for _, snap := range sortedByDate(snapshots) {
		rows = append(rows, TotalRow{
			Date:       snap.Date,
			TotalGross: snap.TotalGross(),
			TotalNet:   snap.TotalNet(),
		})
	}
	return rows
}

// CategorySeries produces one row per snapshot keyed by the distinct
// entry names seen across the whole history (not just one snapshot),
// sorted lexicographically. A later entry with a name already present on
// the same date wins, mirroring last-write semantics of the form.
func CategorySeries(snapshots []*domain.Snapshot) ([]string, []CategoryRow) {
	sorted := sortedByDate(snapshots)

	nameSet := make(map[string]struct{})
	for _, snap := range sorted {
		for _, entry := range snap.Entries {
			nameSet[entry.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(nameSet))
	for name := range nameSet {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]CategoryRow, 0, len(sorted))
	for _, snap := range sorted {
		values := make(map[string]CategoryValue, len(snap.Entries))
		for _, entry := range snap.Entries {
			values[entry.Name] = CategoryValue{Gross: entry.Gross, Net: entry.Net}
		}
		rows = append(rows, CategoryRow{Date: snap.Date, Values: values})
	}

	return names, rows
}

// DeltaSeries produces the difference in totals between each consecutive
// pair of snapshots in chronological order: n-1 rows for n snapshots,
// zero rows when fewer than MinChartPoints are supplied.
func DeltaSeries(snapshots []*domain.Snapshot) []DeltaRow {
	totals := TotalSeries(snapshots)
	if len(totals) < MinChartPoints {
		return []DeltaRow{}
	}

	rows := make([]DeltaRow, 0, len(totals)-1)
	for i := 1; i < len(totals); i++ {
		previous := totals[i-1]
		current := totals[i]
		rows = append(rows, DeltaRow{
			Date:       current.Date,
			DeltaGross: current.TotalGross.Sub(previous.TotalGross),
			DeltaNet:   current.TotalNet.Sub(previous.TotalNet),
		})
	}
	return rows
}
