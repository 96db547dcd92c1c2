package matchday

import "fmt"

// DuplicateIDError is returned by Table.Append when two seasons share a label path.
type DuplicateIDError struct {
	ID       string
	Existing *SeasonRecord
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate matchday id %q (already used by %s)", e.ID, e.Existing.MatchdayURL)
}

// Table holds season records in discovery order
type Table struct {
	records []*SeasonRecord
	index   map[string]*SeasonRecord // keyed by SeasonRecord.ID
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{
		records: make([]*SeasonRecord, 0),
		index:   make(map[string]*SeasonRecord),
	}
}

// Append adds a record. Records with an ID already present are rejected.
func (t *Table) Append(rec *SeasonRecord) error {
	if existing, ok := t.index[rec.ID]; ok {
		return &DuplicateIDError{ID: rec.ID, Existing: existing}
	}
	t.index[rec.ID] = rec
	t.records = append(t.records, rec)
	return nil
}

// Records returns the records in the order they were appended.
func (t *Table) Records() []*SeasonRecord {
	out := make([]*SeasonRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.records)
}

// Get looks up a record by matchday ID
func (t *Table) Get(id string) (*SeasonRecord, bool) {
	rec, ok := t.index[id]
	return rec, ok
}

// ByRegion groups records by region label, preserving discovery order within a region.
func (t *Table) ByRegion() map[string][]*SeasonRecord {
	groups := make(map[string][]*SeasonRecord)
	for _, rec := range t.records {
		groups[rec.Region] = append(groups[rec.Region], rec)
	}
	return groups
}
