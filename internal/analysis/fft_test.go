package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/partsim/internal/vec"
)

func TestFFTConstantSignal(t *testing.T) {
	data := []float64{1, 1, 1, 1}

	result := FFT(data)
	if len(result) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(result))
	}

	// All energy in the DC bin.
	if math.Abs(real(result[0])-4) > 1e-9 {
		t.Errorf("DC bin = %v, want 4", result[0])
	}
	for i := 1; i < len(result); i++ {
		if math.Abs(real(result[i])) > 1e-9 || math.Abs(imag(result[i])) > 1e-9 {
			t.Errorf("bin %d = %v, want 0", i, result[i])
		}
	}
}

func TestPowerSpectrumTruncates(t *testing.T) {
	data := make([]float64, 13)
	ps := PowerSpectrum(data)
	// 13 truncates to 8, half-spectrum is 4.
	if len(ps) != 4 {
		t.Errorf("expected 4 bins, got %d", len(ps))
	}

	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for empty input")
	}
}

func TestDominantFrequency(t *testing.T) {
	const sampleRate = 128.0
	const freq = 8.0

	n := 256
	data := make([]float64, n)
	for i := range data {
		data[i] = 5 + math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}

	got := DominantFrequency(data, sampleRate)
	if math.Abs(got-freq) > sampleRate/float64(n) {
		t.Errorf("dominant frequency = %f, want %f", got, freq)
	}
}

func TestDominantFrequencyShortSeries(t *testing.T) {
	if got := DominantFrequency([]float64{1, 2}, 100); got != 0 {
		t.Errorf("expected 0 for short series, got %f", got)
	}
}

func TestComponent(t *testing.T) {
	frames := [][]vec.Vec3{
		{vec.New(1, 2, 3), vec.New(4, 5, 6)},
		{vec.New(7, 8, 9), vec.New(10, 11, 12)},
	}

	ys := Component(frames, 1, AxisY)
	if len(ys) != 2 || ys[0] != 5 || ys[1] != 11 {
		t.Errorf("series = %v, want [5 11]", ys)
	}

	if got := Component(frames, 7, AxisX); len(got) != 0 {
		t.Errorf("expected empty series for bad index, got %v", got)
	}
}
