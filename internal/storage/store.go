package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmptyTable  = errors.New("storage: table has no columns")
	ErrRaggedTable = errors.New("storage: row width does not match columns")
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// Table is a column-oriented numeric report. Rows[i][j] belongs to Columns[j].
type Table struct {
	Columns []string
	Rows    [][]float64
}

func (t *Table) Column(name string) ([]float64, bool) {
	idx := -1
	for j, c := range t.Columns {
		if c == name {
			idx = j
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, true
}

func (t *Table) validate() error {
	if len(t.Columns) == 0 {
		return ErrEmptyTable
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedTable, i, len(row), len(t.Columns))
		}
	}
	return nil
}

type ColumnSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type RunMetadata struct {
	ID               string                   `json:"id"`
	Kind             string                   `json:"kind"`
	Timestamp        time.Time                `json:"timestamp"`
	Curve            string                   `json:"curve"`
	SunPosition      []float64                `json:"sun_position"`
	PeculiarVelocity []float64                `json:"peculiar_velocity"`
	VcircSun         float64                  `json:"vcirc_sun"`
	Columns          []string                 `json:"columns"`
	Rows             int                      `json:"rows"`
	Summary          map[string]ColumnSummary `json:"summary"`
}

// Run is what a CLI command hands to Save.
type Run struct {
	Kind             string
	Curve            string
	SunPosition      []float64
	PeculiarVelocity []float64
	VcircSun         float64
	Table            *Table
}

func (s *Store) Save(run Run) (string, error) {
	if run.Table == nil {
		return "", ErrEmptyTable
	}
	if err := run.Table.validate(); err != nil {
		return "", err
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Kind, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Kind:             run.Kind,
		Timestamp:        now,
		Curve:            run.Curve,
		SunPosition:      run.SunPosition,
		PeculiarVelocity: run.PeculiarVelocity,
		VcircSun:         run.VcircSun,
		Columns:          run.Table.Columns,
		Rows:             len(run.Table.Rows),
		Summary:          Summarize(run.Table),
	}

	if err := writeMetadata(filepath.Join(runDir, "metadata.json"), &meta); err != nil {
		return "", err
	}
	if err := writeTable(filepath.Join(runDir, "data.csv"), run.Table); err != nil {
		return "", err
	}

	return runID, nil
}

// closeInto closes c and reports its error through err unless err is
// already set. Writes buffered by the OS can first fail on close.
func closeInto(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func writeMetadata(path string, meta *RunMetadata) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(f, &err)

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTable(path string, t *Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(f, &err)

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Summarize computes per-column statistics over the finite values of each
// column. Columns with no finite values are left out.
func Summarize(t *Table) map[string]ColumnSummary {
	out := make(map[string]ColumnSummary, len(t.Columns))
	for j, name := range t.Columns {
		vals := make([]float64, 0, len(t.Rows))
		for _, row := range t.Rows {
			v := row[j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			continue
		}
		mean, std := stat.MeanStdDev(vals, nil)
		if len(vals) == 1 {
			std = 0
		}
		out[name] = ColumnSummary{
			Count:  len(vals),
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(vals),
			Max:    floats.Max(vals),
		}
	}
	return out
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadTable(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "data.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: read %s table: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s row %d column %s: %w", runID, i+1, t.Columns[j], err)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
