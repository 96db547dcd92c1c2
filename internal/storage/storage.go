package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/matchday-index/internal/matchday"
)

// Storage handles persistence of matchday tables
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the location of a table file. Absolute names are used as given.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// SaveTable writes the whole table to name in the given format ("csv" or "json")
// and returns the path written.
func (s *Storage) SaveTable(table *matchday.Table, name, format string) (string, error) {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var encode func(io.Writer, []*matchday.SeasonRecord) error
	switch strings.ToLower(format) {
	case "csv":
		encode = writeCSV
	case "json":
		encode = writeJSON
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := encode(tmp, table.Records()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encoding table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing table: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("writing table: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("writing table: %w", err)
	}

	return path, nil
}

// LoadTable reads a table written by SaveTable in the given format. A missing file
// yields an error matching fs.ErrNotExist.
func (s *Storage) LoadTable(name, format string) (*matchday.Table, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	defer f.Close()

	var records []*matchday.SeasonRecord
	switch format {
	case "csv":
		records, err = readCSV(f)
	case "json":
		err = json.NewDecoder(f).Decode(&records)
	default:
		return nil, fmt.Errorf("unknown table format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing table: %w", err)
	}

	table := matchday.NewTable()
	for i, rec := range records {
		if err := table.Append(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	return table, nil
}

func readCSV(r io.Reader) ([]*matchday.SeasonRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(matchday.Columns, ",") {
		return nil, fmt.Errorf("unexpected header: %v", header)
	}

	var records []*matchday.SeasonRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		rec, err := matchday.ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
}

func writeCSV(w io.Writer, records []*matchday.SeasonRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchday.Columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, records []*matchday.SeasonRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
