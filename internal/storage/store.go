package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kossner/accrete/internal/body"
	"github.com/kossner/accrete/internal/sim"
)

// Store persists finished runs under a base directory, one subdirectory per
// run holding metadata.json and snapshots.csv.
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
	ID            string             `json:"id"`
	Scenario      string             `json:"scenario"`
	Solver        string             `json:"solver"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Dt            float64            `json:"dt"`
	Duration      float64            `json:"duration"`
	Dim           int                `json:"dim"`
	InitialBodies int                `json:"initial_bodies"`
	FinalBodies   int                `json:"final_bodies"`
	RemovedBodies int                `json:"removed_bodies"`
	EnergyDrift   float64            `json:"energy_drift"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes one run to disk and returns its id. The metadata's ID and
// Timestamp fields are filled here.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.RemovedBodies = len(result.Removed)
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "snapshots.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"time", "id"}
	axes := []string{"x", "y", "z"}[:meta.Dim]
	for _, a := range axes {
		header = append(header, a)
	}
	for _, a := range axes {
		header = append(header, "v"+a)
	}
	header = append(header, "mass", "radius", "temperature")
	if err := w.Write(header); err != nil {
		return "", err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', 17, 64) }
	for _, sample := range result.Samples {
		for bi, id := range sample.IDs {
			row := make([]string, 0, len(header))
			row = append(row, ff(sample.T), strconv.FormatUint(uint64(id), 10))
			for d := 0; d < meta.Dim; d++ {
				row = append(row, ff(sample.Pos[bi*meta.Dim+d]))
			}
			for d := 0; d < meta.Dim; d++ {
				row = append(row, ff(sample.Vel[bi*meta.Dim+d]))
			}
			row = append(row, ff(sample.Mass[bi]), ff(sample.Radius[bi]), ff(sample.Temp[bi]))
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}

	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshots reads the per-tick population samples of a stored run. Rows
// sharing a timestamp are folded into one sample.
func (s *Store) LoadSnapshots(runID string, dim int) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "snapshots.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0)
	var cur *sim.Sample
	for _, rec := range records[1:] {
		if len(rec) < 2+2*dim+3 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		id, err := strconv.ParseUint(rec[1], 10, 32)
		if err != nil {
			continue
		}

		if cur == nil || cur.T != t {
			samples = append(samples, sim.Sample{T: t})
			cur = &samples[len(samples)-1]
		}

		vals := make([]float64, 0, 2*dim+3)
		ok := true
		for _, f := range rec[2:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			vals = append(vals, v)
		}
		if !ok {
			continue
		}

		cur.IDs = append(cur.IDs, body.ID(id))
		cur.Pos = append(cur.Pos, vals[:dim]...)
		cur.Vel = append(cur.Vel, vals[dim:2*dim]...)
		cur.Mass = append(cur.Mass, vals[2*dim])
		cur.Radius = append(cur.Radius, vals[2*dim+1])
		cur.Temp = append(cur.Temp, vals[2*dim+2])
	}
	return samples, nil
}
