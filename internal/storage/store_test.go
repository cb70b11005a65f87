package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/vec"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Times: []float64{0.0, 0.01},
		Positions: [][]vec.Vec3{
			{vec.New(0, 0, 0), vec.New(1, 0, 0)},
			{vec.New(0, -0.1, 0), vec.New(1, -0.1, 0)},
		},
		Metrics: map[string]float64{
			"kinetic_energy": 1.5,
		},
		FramesTaken: 1,
	}
}

func sampleConfig() engine.Config {
	return engine.Config{FrameRate: 100, Duration: 0.01, Workers: 1}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("test", "euler", sampleConfig(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scene != "test" {
		t.Errorf("expected scene 'test', got '%s'", meta.Scene)
	}
	if meta.Integrator != "euler" {
		t.Errorf("expected integrator 'euler', got '%s'", meta.Integrator)
	}
	if meta.Particles != 2 {
		t.Errorf("expected 2 particles, got %d", meta.Particles)
	}
	if meta.Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("expected kinetic_energy 1.5, got %f", meta.Metrics["kinetic_energy"])
	}

	frames, times, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}

	if len(frames) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 frames and 2 times, got %d and %d", len(frames), len(times))
	}
	if len(frames[0]) != 2 {
		t.Fatalf("expected 2 particles per frame, got %d", len(frames[0]))
	}
	if frames[1][0].Y != -0.1 {
		t.Errorf("expected y -0.1, got %f", frames[1][0].Y)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("test", "rk4", sampleConfig(), sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("test", "euler", sampleConfig(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "trajectory.csv")); os.IsNotExist(err) {
		t.Error("trajectory.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	if err := ExportJSON(path, "test", "euler", sampleConfig(), sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var exported ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if exported.Scene != "test" {
		t.Errorf("expected scene 'test', got '%s'", exported.Scene)
	}
	if exported.Frames != 1 {
		t.Errorf("expected 1 frame, got %d", exported.Frames)
	}
	if len(exported.Positions) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(exported.Positions))
	}
}
