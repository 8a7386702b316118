package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Band edges in Hz.
const (
	bassCutoff = 250.0
	midCutoff  = 2000.0
	highCutoff = 20000.0
)

type Bands struct {
	Bass, Mid, High float64
}

// Analyze returns the windowed magnitude sums of samples in the bass, mid
// and high bands, normalized by the number of bins.
func Analyze(samples []float64, sampleRate int) Bands {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return Bands{}
	}
	windowed := make([]float64, n)
	for i, v := range samples {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = v * w
	}
	spectrum := fft.FFTReal(windowed)

	binHz := float64(sampleRate) / float64(n)
	var b Bands
	for i := 1; i < n/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		f := float64(i) * binHz
		switch {
		case f < bassCutoff:
			b.Bass += mag
		case f < midCutoff:
			b.Mid += mag
		case f < highCutoff:
			b.High += mag
		}
	}
	norm := float64(n / 2)
	b.Bass /= norm
	b.Mid /= norm
	b.High /= norm
	return b
}

// Meter smooths Analyze output into 0..1 levels with automatic gain.
type Meter struct {
	Bands
	maxLevel float64
}

func NewMeter() *Meter {
	return &Meter{maxLevel: 0.01}
}

func (m *Meter) Update(samples []float64, sampleRate int) Bands {
	raw := Analyze(samples, sampleRate)

	peak := math.Max(raw.Bass, math.Max(raw.Mid, raw.High))
	if peak > m.maxLevel {
		m.maxLevel = peak
	} else {
		m.maxLevel *= 0.999
	}
	gain := 1.0
	if m.maxLevel > 0.0001 {
		gain = 1.0 / m.maxLevel
	}

	m.Bass = m.Bass*0.8 + math.Min(raw.Bass*gain, 1)*0.2
	m.Mid = m.Mid*0.8 + math.Min(raw.Mid*gain, 1)*0.2
	m.High = m.High*0.8 + math.Min(raw.High*gain, 1)*0.2
	return m.Bands
}
