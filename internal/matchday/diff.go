package matchday

import "sort"

// Change describes a season whose row differs between two runs
type Change struct {
	ID       string `json:"mtchday_id"`
	Field    string `json:"field"` // "mtchdy_url" or "current_season"
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// DiffResult contains the results of comparing two tables
type DiffResult struct {
	Added   []*SeasonRecord `json:"added"`
	Removed []*SeasonRecord `json:"removed"`
	Changed []*Change       `json:"changed"`
}

// Empty reports whether the tables held the same rows
func (d *DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares the current table against a previous one, matching rows by ID.
// A nil previous table counts as empty.
func Diff(previous, current *Table) *DiffResult {
	result := &DiffResult{
		Added:   make([]*SeasonRecord, 0),
		Removed: make([]*SeasonRecord, 0),
		Changed: make([]*Change, 0),
	}

	if previous == nil {
		previous = NewTable()
	}

	for _, rec := range current.records {
		old, exists := previous.Get(rec.ID)
		if !exists {
			result.Added = append(result.Added, rec)
			continue
		}
		result.Changed = append(result.Changed, DetectChanges(old, rec)...)
	}

	for _, rec := range previous.records {
		if _, exists := current.Get(rec.ID); !exists {
			result.Removed = append(result.Removed, rec)
		}
	}

	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].ID < result.Removed[j].ID
	})

	return result
}

// DetectChanges compares two rows with the same ID
func DetectChanges(previous, current *SeasonRecord) []*Change {
	var changes []*Change

	if previous.MatchdayURL != current.MatchdayURL {
		changes = append(changes, &Change{
			ID:       current.ID,
			Field:    "mtchdy_url",
			OldValue: previous.MatchdayURL,
			NewValue: current.MatchdayURL,
		})
	}

	// A season that was current last time is usually archived now
	if previous.CurrentSeason != current.CurrentSeason {
		changes = append(changes, &Change{
			ID:       current.ID,
			Field:    "current_season",
			OldValue: formatBool(previous.CurrentSeason),
			NewValue: formatBool(current.CurrentSeason),
		})
	}

	return changes
}
