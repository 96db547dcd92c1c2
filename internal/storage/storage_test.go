package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/matchday-index/internal/matchday"
)

func testTable(t *testing.T) *matchday.Table {
	t.Helper()

	table := matchday.NewTable()
	for i, season := range []string{"2020_2021", "2019_2020"} {
		rec := &matchday.SeasonRecord{
			Region:        "mittelrhein",
			RegionURL:     "https://www.fupa.net/mittelrhein",
			District:      "koln",
			DistrictURL:   "https://www.fupa.net/mittelrhein/koeln",
			League:        "kreisliga_a_koln",
			LeagueURL:     "https://www.fupa.net/liga/kreisliga-a-koeln",
			Season:        season,
			MatchdayURL:   "https://www.fupa.net/liga/kreisliga-a-koeln/spielplan",
			CurrentSeason: i == 0,
			ID:            matchday.BuildID("mittelrhein", "koln", "kreisliga_a_koln", season),
		}
		if err := table.Append(rec); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}
	return table
}

func TestSaveTable_CSV(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	path, err := store.SaveTable(testTable(t), "matchday_data.csv", "csv")
	if err != nil {
		t.Fatalf("SaveTable() error: %v", err)
	}
	if path != filepath.Join(tmpDir, "matchday_data.csv") {
		t.Errorf("SaveTable() path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want 3:\n%s", len(lines), data)
	}
	if lines[0] != strings.Join(matchday.Columns, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",1,0,mittelrhein_koln_kreisliga_a_koln_2020_2021") {
		t.Errorf("first row = %q", lines[1])
	}

	entries, _ := os.ReadDir(tmpDir)
	if len(entries) != 1 {
		t.Errorf("data dir has %d entries, want only the table", len(entries))
	}
}

func TestSaveTable_JSON(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	path, err := store.SaveTable(testTable(t), "out/matchday.json", "json")
	if err != nil {
		t.Fatalf("SaveTable() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("JSON has %d rows, want 2", len(rows))
	}
	for _, col := range matchday.Columns {
		if _, ok := rows[0][col]; !ok {
			t.Errorf("JSON row missing column %q", col)
		}
	}
}

func TestSaveTable_UnknownFormat(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if _, err := store.SaveTable(testTable(t), "x.xlsx", "xlsx"); err == nil {
		t.Error("SaveTable() with unknown format expected error")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "x.xlsx")); !os.IsNotExist(err) {
		t.Error("SaveTable() left a file behind on error")
	}
}

func TestLoadTable(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format string
	}{
		{"csv", "matchday_data.csv", "csv"},
		{"json", "matchday_data.json", "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(t.TempDir())
			if err != nil {
				t.Fatalf("Failed to create storage: %v", err)
			}

			want := testTable(t)
			if _, err := store.SaveTable(want, tt.file, tt.format); err != nil {
				t.Fatalf("SaveTable() error: %v", err)
			}

			got, err := store.LoadTable(tt.file, tt.format)
			if err != nil {
				t.Fatalf("LoadTable() error: %v", err)
			}
			if got.Len() != want.Len() {
				t.Fatalf("LoadTable() rows = %d, want %d", got.Len(), want.Len())
			}
			for i, rec := range got.Records() {
				if *rec != *want.Records()[i] {
					t.Errorf("row %d = %+v, want %+v", i, rec, want.Records()[i])
				}
			}
		})
	}
}

func TestLoadTable_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if _, err := store.LoadTable("missing.csv", "csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadTable() on missing file = %v, want fs.ErrNotExist", err)
	}

	os.WriteFile(filepath.Join(tmpDir, "bad.csv"), []byte("a,b,c\n1,2,3\n"), 0644)
	if _, err := store.LoadTable("bad.csv", "csv"); err == nil {
		t.Error("LoadTable() with wrong header expected error")
	}

	os.WriteFile(filepath.Join(tmpDir, "bad.json"), []byte("{not json"), 0644)
	if _, err := store.LoadTable("bad.json", "json"); err == nil {
		t.Error("LoadTable() with broken JSON expected error")
	}
	if _, err := store.LoadTable("bad.json", "xml"); err == nil {
		t.Error("LoadTable() with unknown format expected error")
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := New("~/matchday")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if store.Path("x.csv") != filepath.Join(home, "matchday", "x.csv") {
		t.Errorf("Path() = %q", store.Path("x.csv"))
	}
	if _, err := os.Stat(filepath.Join(home, "matchday")); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}
