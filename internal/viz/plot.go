package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/engine"
)

// PlotTrajectory charts one coordinate of one particle over a
// recorded run.
func PlotTrajectory(result *engine.Result, index int, axis analysis.Axis, height int) string {
	series := analysis.Component(result.Positions, index, axis)
	if len(series) < 2 {
		return ""
	}

	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("particle %d, %s over %d frames", index, axisName(axis), result.FramesTaken)),
	)
}

// PlotSpectrum charts the power spectrum of one coordinate of one
// particle.
func PlotSpectrum(result *engine.Result, index int, axis analysis.Axis, height int) string {
	series := analysis.Component(result.Positions, index, axis)
	spectrum := analysis.PowerSpectrum(series)
	if len(spectrum) < 2 {
		return ""
	}

	return asciigraph.Plot(spectrum,
		asciigraph.Height(height),
		asciigraph.Caption(fmt.Sprintf("particle %d, %s power spectrum", index, axisName(axis))),
	)
}

func axisName(axis analysis.Axis) string {
	switch axis {
	case analysis.AxisX:
		return "x"
	case analysis.AxisY:
		return "y"
	case analysis.AxisZ:
		return "z"
	default:
		return "?"
	}
}

// ParseAxis maps a flag value onto an axis, defaulting to y.
func ParseAxis(s string) analysis.Axis {
	switch s {
	case "x":
		return analysis.AxisX
	case "z":
		return analysis.AxisZ
	default:
		return analysis.AxisY
	}
}
