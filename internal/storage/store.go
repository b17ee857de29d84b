package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	probeFile     = "probe.csv"
	particlesFile = "particles.csv"
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

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Mode        string             `json:"mode"`
	Timestamp   time.Time          `json:"timestamp"`
	Scenario    string             `json:"scenario,omitempty"`
	Field       string             `json:"field,omitempty"`
	Current     float64            `json:"current,omitempty"`
	Turns       int                `json:"turns,omitempty"`
	ChargeMode  string             `json:"charge_mode,omitempty"`
	Particles   int                `json:"particles"`
	ChargeSpeed float64            `json:"charge_speed,omitempty"`
	FixedStep   float64            `json:"fixed_step"`
	Speed       float64            `json:"speed"`
	Duration    float64            `json:"duration"`
	ProbeX      float64            `json:"probe_x"`
	ProbeY      float64            `json:"probe_y"`
	Ticks       uint64             `json:"ticks"`
	Bounces     int                `json:"bounces"`
	Clamped     int                `json:"clamped"`
	Metrics     map[string]float64 `json:"metrics"`
}

// SampleRate is the number of probe samples per simulated second.
func (m RunMetadata) SampleRate() float64 {
	dt := m.FixedStep * m.Speed
	if dt <= 0 {
		return 0
	}
	return 1 / dt
}

// Save writes meta and result under a new run directory and returns its id.
// ID, Timestamp and the counters in meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Mode, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.Bounces = result.Bounces
	meta.Clamped = result.Clamped
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeProbe(filepath.Join(runDir, probeFile), result); err != nil {
		return "", err
	}
	if len(result.Snapshots) > 0 {
		if err := writeParticles(filepath.Join(runDir, particlesFile), result.Snapshots); err != nil {
			return "", err
		}
	}
	return runID, nil
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

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeProbe(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "probe"}); err != nil {
		return err
	}
	for i := range result.Times {
		if err := w.Write([]string{formatFloat(result.Times[i]), formatFloat(result.Probe[i])}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

var particleHeader = []string{"tick", "time", "id", "x", "y", "vx", "vy", "charge"}

func writeParticles(path string, snaps []sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(particleHeader); err != nil {
		return err
	}
	for _, snap := range snaps {
		for _, p := range snap.Particles {
			row := []string{
				strconv.FormatUint(snap.Tick, 10),
				formatFloat(snap.Time),
				strconv.Itoa(p.ID),
				formatFloat(p.X),
				formatFloat(p.Y),
				formatFloat(p.VX),
				formatFloat(p.VY),
				formatFloat(p.Charge),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadProbe returns the probe time series of a run.
func (s *Store) LoadProbe(runID string) (times, probe []float64, err error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), probeFile))
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	times = make([]float64, 0, len(records)-1)
	probe = make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		probe = append(probe, v)
	}
	return times, probe, nil
}

// LoadParticles returns the particle snapshots of a run. Runs without
// particles yield no snapshots and no error.
func (s *Store) LoadParticles(runID string) ([]sim.Snapshot, error) {
	records, err := readCSV(filepath.Join(s.Dir(runID), particlesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snaps []sim.Snapshot
	for _, record := range records[min(1, len(records)):] {
		if len(record) < len(particleHeader) {
			continue
		}
		tick, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		var vals [7]float64
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+1], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if len(snaps) == 0 || snaps[len(snaps)-1].Tick != tick {
			snaps = append(snaps, sim.Snapshot{Tick: tick, Time: vals[0]})
		}
		last := &snaps[len(snaps)-1]
		last.Particles = append(last.Particles, integrators.Particle{
			ID:     int(vals[1]),
			X:      vals[2],
			Y:      vals[3],
			VX:     vals[4],
			VY:     vals[5],
			Charge: vals[6],
			Mass:   1,
		})
	}
	return snaps, nil
}
