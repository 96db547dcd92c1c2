package matchday

import (
	"fmt"
	"strconv"
	"strings"
)

// Columns is the fixed column order of an exported table.
var Columns = []string{
	"region",
	"region_url",
	"district",
	"district_url",
	"league",
	"league_url",
	"season",
	"mtchdy_url",
	"current_season",
	"done",
	"mtchday_id",
}

// SeasonRecord is one discovered season of a league
type SeasonRecord struct {
	Region        string `json:"region"`
	RegionURL     string `json:"region_url"`
	District      string `json:"district"`
	DistrictURL   string `json:"district_url"`
	League        string `json:"league"`
	LeagueURL     string `json:"league_url"`
	Season        string `json:"season"`
	MatchdayURL   string `json:"mtchdy_url"`
	CurrentSeason bool   `json:"current_season"`
	Done          bool   `json:"done"` // reserved for the fixture crawler, always false here
	ID            string `json:"mtchday_id"`
}

// BuildID joins the normalized region, district, league and season labels into the
// composite matchday identifier.
func BuildID(region, district, league, season string) string {
	return strings.Join([]string{region, district, league, season}, "_")
}

// Row renders the record in Columns order. Booleans are written as 1 and 0.
func (r *SeasonRecord) Row() []string {
	return []string{
		r.Region,
		r.RegionURL,
		r.District,
		r.DistrictURL,
		r.League,
		r.LeagueURL,
		r.Season,
		r.MatchdayURL,
		formatBool(r.CurrentSeason),
		formatBool(r.Done),
		r.ID,
	}
}

// ParseRow is the inverse of Row
func ParseRow(row []string) (*SeasonRecord, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(Columns), len(row))
	}

	current, err := parseBool(row[8])
	if err != nil {
		return nil, fmt.Errorf("current_season: %w", err)
	}
	done, err := parseBool(row[9])
	if err != nil {
		return nil, fmt.Errorf("done: %w", err)
	}

	return &SeasonRecord{
		Region:        row[0],
		RegionURL:     row[1],
		District:      row[2],
		DistrictURL:   row[3],
		League:        row[4],
		LeagueURL:     row[5],
		Season:        row[6],
		MatchdayURL:   row[7],
		CurrentSeason: current,
		Done:          done,
		ID:            row[10],
	}, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false", "":
		return false, nil
	}
	return strconv.ParseBool(s)
}
