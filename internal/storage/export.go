package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/partsim/internal/engine"
	"github.com/san-kum/partsim/internal/vec"
)

type ExportData struct {
	Scene      string             `json:"scene"`
	Integrator string             `json:"integrator"`
	FrameRate  float64            `json:"frame_rate"`
	Duration   float64            `json:"duration"`
	Frames     int                `json:"frames"`
	Times      []float64          `json:"times"`
	Positions  [][]vec.Vec3       `json:"positions"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run to path as indented JSON. An empty path
// writes to stdout.
func ExportJSON(path, scene, integrator string, cfg engine.Config, result *engine.Result) error {
	var out io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	data := ExportData{
		Scene:      scene,
		Integrator: integrator,
		FrameRate:  cfg.FrameRate,
		Duration:   cfg.Duration,
		Frames:     result.FramesTaken,
		Times:      result.Times,
		Positions:  result.Positions,
		Metrics:    result.Metrics,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
