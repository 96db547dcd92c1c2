package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pfrederiksen/matchday-index/internal/discovery"
	"github.com/pfrederiksen/matchday-index/internal/label"
	"github.com/pfrederiksen/matchday-index/internal/logger"
	"github.com/pfrederiksen/matchday-index/internal/matchday"
)

// SummaryFormat specifies how the run summary is printed
type SummaryFormat string

const (
	SummaryText  SummaryFormat = "text"
	SummaryTable SummaryFormat = "table"
	SummaryJSON  SummaryFormat = "json"
	SummaryNone  SummaryFormat = "none"
)

func (f SummaryFormat) valid() bool {
	switch f {
	case SummaryText, SummaryTable, SummaryJSON, SummaryNone:
		return true
	}
	return false
}

// RegionSummary counts what was found below one region
type RegionSummary struct {
	Region    string `json:"region"`
	Districts int    `json:"districts"`
	Leagues   int    `json:"leagues"`
	Seasons   int    `json:"seasons"`
	Current   int    `json:"current"`
}

// SkippedNode is a skipped page as printed in summaries
type SkippedNode struct {
	Level string `json:"level"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Summary contains data to be output after a run
type Summary struct {
	RunAt    time.Time                `json:"run_at"`
	Regions  []RegionSummary          `json:"regions"`
	RowCount int                      `json:"row_count"`
	Output   string                   `json:"output"`
	Skipped  []SkippedNode            `json:"skipped,omitempty"`
	Changes  *matchday.DiffResult     `json:"changes,omitempty"` // nil without a previous table
	Metrics  logger.Snapshot          `json:"metrics"`
	Records  []*matchday.SeasonRecord `json:"-"`
}

// NewSummary builds a summary from a finished run
func NewSummary(res *discovery.Result, output string, metrics logger.Snapshot) *Summary {
	s := &Summary{
		RunAt:    time.Now().UTC(),
		RowCount: res.Table.Len(),
		Output:   output,
		Metrics:  metrics,
		Records:  res.Table.Records(),
	}

	groups := res.Table.ByRegion()
	for _, region := range res.Regions {
		s.Regions = append(s.Regions, summarizeRegion(region, groups[label.Normalize(region)]))
	}

	for _, sk := range res.Skipped {
		s.Skipped = append(s.Skipped, SkippedNode{
			Level: string(sk.Level),
			URL:   sk.URL,
			Kind:  discovery.Kind(sk.Err),
			Error: sk.Err.Error(),
		})
	}

	return s
}

func summarizeRegion(region string, records []*matchday.SeasonRecord) RegionSummary {
	rs := RegionSummary{Region: region, Seasons: len(records)}
	districts := make(map[string]bool)
	leagues := make(map[string]bool)
	for _, rec := range records {
		districts[rec.DistrictURL] = true
		leagues[rec.LeagueURL] = true
		if rec.CurrentSeason {
			rs.Current++
		}
	}
	rs.Districts = len(districts)
	rs.Leagues = len(leagues)
	return rs
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, s *Summary, format SummaryFormat, order SortOrder) error {
	switch format {
	case SummaryJSON:
		return writeJSON(w, s)
	case SummaryTable:
		return writeTable(w, s, order)
	case SummaryText:
		return writeText(w, s)
	case SummaryNone:
		return nil
	default:
		return fmt.Errorf("unknown summary format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, s *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// writeText outputs per-region counts as human-readable text
func writeText(w io.Writer, s *Summary) error {
	if s.RowCount == 0 {
		fmt.Fprintln(w, "No seasons found.")
	}

	regions := make([]RegionSummary, len(s.Regions))
	copy(regions, s.Regions)
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Region < regions[j].Region
	})

	for _, rs := range regions {
		fmt.Fprintf(w, "%s: %d seasons (%d current) in %d leagues across %d districts\n",
			rs.Region, rs.Seasons, rs.Current, rs.Leagues, rs.Districts)
	}

	writeChanges(w, s.Changes)
	writeSkipped(w, s.Skipped)
	fmt.Fprintf(w, "\nTotal: %d seasons written to %s\n", s.RowCount, s.Output)
	return nil
}

// writeTable lists every row in a table
func writeTable(w io.Writer, s *Summary, order SortOrder) error {
	records := make([]*matchday.SeasonRecord, len(s.Records))
	copy(records, s.Records)
	sortRecords(records, order)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Region", "District", "League", "Season", "Current", "Matchday URL"})
	for _, rec := range records {
		current := ""
		if rec.CurrentSeason {
			current = "yes"
		}
		t.AppendRow(table.Row{rec.Region, rec.District, rec.League, rec.Season, current, rec.MatchdayURL})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", s.RowCount, s.Output})

	fmt.Fprintln(w, t.Render())
	writeSkipped(w, s.Skipped)
	return nil
}

func writeSkipped(w io.Writer, skipped []SkippedNode) {
	if len(skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSkipped %d pages:\n", len(skipped))
	for _, sk := range skipped {
		fmt.Fprintf(w, "  %s %s (%s): %s\n", sk.Level, sk.URL, sk.Kind, sk.Error)
	}
}

func writeChanges(w io.Writer, d *matchday.DiffResult) {
	if d == nil {
		return
	}
	if d.Empty() {
		fmt.Fprintln(w, "\nNo changes since last run.")
		return
	}
	fmt.Fprintf(w, "\nSince last run: %d added, %d removed, %d changed\n", len(d.Added), len(d.Removed), len(d.Changed))
	for _, rec := range d.Added {
		fmt.Fprintf(w, "  + %s\n", rec.ID)
	}
	for _, rec := range d.Removed {
		fmt.Fprintf(w, "  - %s\n", rec.ID)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "  ~ %s %s: %s -> %s\n", c.ID, c.Field, c.OldValue, c.NewValue)
	}
}
