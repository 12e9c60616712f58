package storage

import (
	"encoding/csv"
	"errors"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/qwell/internal/dynamo"
	"github.com/san-kum/qwell/internal/shooting"
	"github.com/san-kum/qwell/internal/solver"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
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

// Run is one solved eigenstate together with the settings that produced it.
// Trajectory is kept in its own CSV file and left out of metadata.json.
type Run struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Potential     string             `json:"potential"`
	Params        map[string]float64 `json:"params,omitempty"`
	Domain        dynamo.Domain      `json:"domain"`
	Bracket       solver.Bracket     `json:"bracket"`
	Integrator    string             `json:"integrator"`
	Method        string             `json:"method"`
	Energy        float64            `json:"energy"`
	Residual      float64            `json:"residual"`
	Converged     bool               `json:"converged"`
	Iterations    int                `json:"iterations"`
	FunctionCalls int                `json:"function_calls"`
	Stats         dynamo.Stats       `json:"stats"`

	Trajectory shooting.Trajectory `json:"-"`
}

// NewRun copies the outcome of a search into a Run. Settings fields are left
// for the caller.
func NewRun(name string, state *solver.Eigenstate) *Run {
	return &Run{
		Name:          name,
		Bracket:       state.Bracket,
		Energy:        state.Energy,
		Residual:      state.Residual,
		Converged:     state.Converged,
		Iterations:    state.Iterations,
		FunctionCalls: state.FunctionCalls,
		Stats:         state.Stats,
		Trajectory:    state.Trajectory,
	}
}

// Eigenstate rebuilds the search result stored in r.
func (r *Run) Eigenstate() *solver.Eigenstate {
	return &solver.Eigenstate{
		Energy:        r.Energy,
		Residual:      r.Residual,
		Bracket:       r.Bracket,
		Trajectory:    r.Trajectory,
		Stats:         r.Stats,
		Converged:     r.Converged,
		Iterations:    r.Iterations,
		FunctionCalls: r.FunctionCalls,
	}
}

// Save writes run under a fresh id and returns it. run.ID and run.Timestamp
// are filled in.
func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	name := run.Name
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	run.ID = runID
	run.Timestamp = now

	// metadata.json goes last: List only sees runs whose files are complete
	err := WriteFile(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
		return WriteTrajectoryCSV(w, run.Trajectory)
	})
	if err == nil {
		err = WriteFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		})
	}
	if err != nil {
		run.ID, run.Timestamp = "", time.Time{}
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			return "", errors.Join(err, rmErr)
		}
		return "", err
	}
	return runID, nil
}

// WriteFile creates path, hands it to write and closes it. The first error
// from write or Close is returned.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// WriteTrajectoryCSV writes an x,psi,dpsi header followed by one row per
// sample at full precision.
func WriteTrajectoryCSV(out io.Writer, traj shooting.Trajectory) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"x", "psi", "dpsi"}); err != nil {
		return err
	}
	for _, s := range traj {
		row := []string{
			strconv.FormatFloat(s.X, 'g', -1, 64),
			strconv.FormatFloat(s.Psi, 'g', -1, 64),
			strconv.FormatFloat(s.DPsi, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]Run, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, err
	}

	runs := make([]Run, 0)
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

func (s *Store) Load(runID string) (*Run, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta Run
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (shooting.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return shooting.Trajectory{}, nil
	}

	traj := make(shooting.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [3]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		traj = append(traj, shooting.Sample{X: vals[0], Psi: vals[1], DPsi: vals[2]})
	}
	return traj, nil
}

// LoadFull returns the metadata with its trajectory attached.
func (s *Store) LoadFull(runID string) (*Run, error) {
	run, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	if run.Trajectory, err = s.LoadTrajectory(runID); err != nil {
		return nil, err
	}
	return run, nil
}
