package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
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

type RunMetadata struct {
	ID               string             `json:"id"`
	Timestamp        time.Time          `json:"timestamp"`
	AngularFrequency float64            `json:"angular_frequency"`
	DampingRatio     float64            `json:"damping_ratio"`
	Regime           string             `json:"regime"`
	Dt               float64            `json:"dt"`
	Duration         float64            `json:"duration"`
	Integrator       string             `json:"integrator"`
	Target           string             `json:"target"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Trace is a recorded run: one row per tick.
type Trace struct {
	Times      []float64
	Positions  []float64
	Velocities []float64
	Targets    []float64
}

// Save writes metadata.json and states.csv into a new run directory and
// returns the run ID. ID and Timestamp in meta are filled in here.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Integrator, now.UnixNano())
	meta.Timestamp = now
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "position", "velocity", "target"}); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, x := range result.States {
		if len(x) < 2 {
			return fmt.Errorf("%w: state %d has %d entries", dynamo.ErrDimensionMismatch, i, len(x))
		}
		tgt := 0.0
		if i < len(result.Controls) {
			tgt = result.Controls[i].Target()
		}
		row := []string{format(result.Times[i]), format(x[0]), format(x[1]), format(tgt)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return &Trace{}, nil
		}
		return nil, err
	}

	tr := &Trace{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [4]float64
		for i := range vals {
			vals[i], err = strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s line %d: %w", statesFile, len(tr.Times)+2, err)
			}
		}
		tr.Times = append(tr.Times, vals[0])
		tr.Positions = append(tr.Positions, vals[1])
		tr.Velocities = append(tr.Velocities, vals[2])
		tr.Targets = append(tr.Targets, vals[3])
	}

	return tr, nil
}
