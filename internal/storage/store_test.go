package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fieldlab/internal/config"
	"github.com/san-kum/fieldlab/internal/integrators"
	"github.com/san-kum/fieldlab/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times: []float64{1.0 / 60, 2.0 / 60, 3.0 / 60},
		Probe: []float64{0.5, -0.25, 0.125},
		Snapshots: []sim.Snapshot{
			{Tick: 1, Time: 1.0 / 60, Particles: []integrators.Particle{
				{ID: 0, X: 100, Y: 200, VX: 1, VY: -1, Charge: 1},
				{ID: 1, X: 300, Y: 200, VX: -1, VY: 1, Charge: -1},
			}},
			{Tick: 3, Time: 3.0 / 60, Particles: []integrators.Particle{
				{ID: 0, X: 101, Y: 199, VX: 1, VY: -1, Charge: 1},
				{ID: 1, X: 299, Y: 201, VX: -1, VY: 1, Charge: -1},
			}},
		},
		Metrics: map[string]float64{"energy": 1.5},
		Bounces: 4,
		Ticks:   3,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Mode: "magnetic", Field: "coil", FixedStep: 1.0 / 60, Speed: 1}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "magnetic_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Field != "coil" || meta.Ticks != 3 || meta.Bounces != 4 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", meta.Metrics["energy"])
	}
	if r := meta.SampleRate(); r < 59.999 || r > 60.001 {
		t.Errorf("expected sample rate 60, got %f", r)
	}

	times, probe, err := st.LoadProbe(runID)
	if err != nil {
		t.Fatalf("load probe failed: %v", err)
	}
	want := testResult()
	if len(times) != 3 || times[1] != want.Times[1] || probe[2] != want.Probe[2] {
		t.Errorf("probe round trip mismatch: %v %v", times, probe)
	}

	snaps, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[1].Tick != 3 || len(snaps[1].Particles) != 2 {
		t.Errorf("unexpected snapshot %+v", snaps[1])
	}
	if p := snaps[1].Particles[1]; p.X != 299 || p.Charge != -1 {
		t.Errorf("unexpected particle %+v", p)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	first, _ := st.Save(RunMetadata{Mode: "wave"}, &sim.Result{Metrics: map[string]float64{}})
	second, _ := st.Save(RunMetadata{Mode: "magnetic"}, &sim.Result{Metrics: map[string]float64{}})

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected runs oldest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	waveID, err := st.Save(RunMetadata{Mode: "wave"}, &sim.Result{Times: []float64{0}, Probe: []float64{0}})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	runDir := filepath.Join(tmpDir, waveID)
	for _, name := range []string{"metadata.json", "probe.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if _, err := os.Stat(filepath.Join(runDir, "particles.csv")); !os.IsNotExist(err) {
		t.Error("particles.csv should be absent without snapshots")
	}
	snaps, err := st.LoadParticles(waveID)
	if err != nil || snaps != nil {
		t.Errorf("expected no snapshots and no error, got %v %v", snaps, err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Mode: "wave", Scenario: "beats"}, testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Steps != 3 || data.Run.Scenario != "beats" {
		t.Errorf("unexpected export %+v", data)
	}

	buf.Reset()
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || lines[0] != "time,probe" {
		t.Errorf("unexpected csv:\n%s", buf.String())
	}

	if err := st.ExportCSV(&buf, "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestMetadataFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Wave.Scenario = "beats"
	meta := MetadataFromConfig(cfg)
	if meta.Mode != "wave" || meta.Scenario != "beats" {
		t.Errorf("wave meta = %+v", meta)
	}
	if meta.Field != "" || meta.Particles != 0 {
		t.Error("wave run carries magnetic fields")
	}

	cfg.Mode = "magnetic"
	meta = MetadataFromConfig(cfg)
	if meta.Field != "coil" || meta.Turns != 10 || meta.Particles != 8 || meta.ChargeMode != "alternating" {
		t.Errorf("magnetic meta = %+v", meta)
	}
	if meta.Scenario != "" {
		t.Error("magnetic run carries a scenario")
	}
	if got := meta.SampleRate(); got < 59.999 || got > 60.001 {
		t.Errorf("sample rate = %v, want 60", got)
	}
}
