// Package storage persists simulation runs as a metadata.json plus a
// trajectory.csv per run, under a base directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/vec"
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
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	FrameRate  float64            `json:"frame_rate"`
	Duration   float64            `json:"duration"`
	Particles  int                `json:"particles"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes one run directory. The trajectory CSV carries a time
// column followed by three columns per particle.
func (s *Store) Save(scene, integrator string, cfg engine.Config, result *engine.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	particles := 0
	if len(result.Positions) > 0 {
		particles = len(result.Positions[0])
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      scene,
		Timestamp:  time.Now(),
		Integrator: integrator,
		FrameRate:  cfg.FrameRate,
		Duration:   cfg.Duration,
		Particles:  particles,
		Metrics:    result.Metrics,
	}

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

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Positions) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := 0; i < particles; i++ {
		header = append(header,
			fmt.Sprintf("p%d_x", i),
			fmt.Sprintf("p%d_y", i),
			fmt.Sprintf("p%d_z", i),
		)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.Positions {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, pos := range result.Positions[i] {
			row = append(row,
				strconv.FormatFloat(pos.X, 'f', 6, 64),
				strconv.FormatFloat(pos.Y, 'f', 6, 64),
				strconv.FormatFloat(pos.Z, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return "", err
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

// LoadTrajectory reads a run's CSV back into per-frame position
// snapshots.
func (s *Store) LoadTrajectory(runID string) ([][]vec.Vec3, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]vec.Vec3{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	frames := make([][]vec.Vec3, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 1 || (len(record)-1)%3 != 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		frame := make([]vec.Vec3, 0, (len(record)-1)/3)
		ok := true
		for j := 1; j+3 <= len(record); j += 3 {
			x, errX := strconv.ParseFloat(record[j], 64)
			y, errY := strconv.ParseFloat(record[j+1], 64)
			z, errZ := strconv.ParseFloat(record[j+2], 64)
			if errX != nil || errY != nil || errZ != nil {
				ok = false
				break
			}
			frame = append(frame, vec.New(x, y, z))
		}
		if !ok {
			continue
		}

		times = append(times, t)
		frames = append(frames, frame)
	}

	return frames, times, nil
}
