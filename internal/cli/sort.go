package cli

import (
	"sort"

	"github.com/pfrederiksen/matchday-index/internal/matchday"
)

// SortOrder represents the available row orders of the table summary
type SortOrder string

const (
	SortByDiscovery SortOrder = "discovery"
	SortByID        SortOrder = "id"
	SortByLeague    SortOrder = "league"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortByDiscovery, SortByID, SortByLeague:
		return true
	}
	return false
}

// sortRecords orders records in place. Discovery order is left untouched.
func sortRecords(records []*matchday.SeasonRecord, order SortOrder) {
	switch order {
	case SortByID:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ID < records[j].ID
		})
	case SortByLeague:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByLeague(records[i], records[j])
		})
	}
}

// compareByLeague orders by region, district and league, then newest season first.
func compareByLeague(i, j *matchday.SeasonRecord) bool {
	if i.Region != j.Region {
		return i.Region < j.Region
	}
	if i.District != j.District {
		return i.District < j.District
	}
	if i.League != j.League {
		return i.League < j.League
	}
	// The current season has no comparable label, keep it on top
	if i.CurrentSeason != j.CurrentSeason {
		return i.CurrentSeason
	}
	return i.Season > j.Season
}
