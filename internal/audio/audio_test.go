package audio

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/transitviz/internal/piano"
)

func buffers(n int) [][]float32 {
	return [][]float32{make([]float32, n), make([]float32, n)}
}

func peak(buf []float32) float64 {
	p := 0.0
	for _, v := range buf {
		p = math.Max(p, math.Abs(float64(v)))
	}
	return p
}

func TestSynth_PressAndExpire(t *testing.T) {
	s := NewSynth(8000)
	s.Press([]piano.Note{{Name: "A4", Freq: 440}}, 50*time.Millisecond, 0.5)
	if s.Voices() != 1 {
		t.Fatalf("Voices = %d", s.Voices())
	}

	out := buffers(400) // 50ms at 8kHz
	s.Fill(out)
	if p := peak(out[0]); p < 0.3 || p > 0.5 {
		t.Errorf("peak = %v", p)
	}
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			t.Fatalf("channels differ at %d", i)
		}
	}

	out = buffers(100)
	s.Fill(out)
	if p := peak(out[0]); p != 0 {
		t.Errorf("expected silence after note end, peak = %v", p)
	}
	if s.Voices() != 0 {
		t.Errorf("Voices = %d after expiry", s.Voices())
	}
}

func TestSynth_PressAtDelays(t *testing.T) {
	s := NewSynth(1000)
	s.PressAt([]piano.Note{{Name: "x", Freq: 50}}, 100*time.Millisecond, 100*time.Millisecond, 0.5)
	s.PressAt([]piano.Note{{Name: "y", Freq: 50}}, 0, 10*time.Millisecond, 0.5)

	out := buffers(100)
	s.Fill(out)
	if p := peak(out[0][20:]); p != 0 {
		t.Errorf("delayed note sounded early, peak = %v", p)
	}
	out = buffers(100)
	s.Fill(out)
	if p := peak(out[0]); p == 0 {
		t.Error("delayed note never sounded")
	}
}

func TestSynth_Clips(t *testing.T) {
	s := NewSynth(1000)
	var notes []piano.Note
	for i := 0; i < 10; i++ {
		notes = append(notes, piano.Note{Freq: 10})
	}
	s.Press(notes, time.Second, 0.9)
	out := buffers(200)
	s.Fill(out)
	if p := peak(out[0]); p > 1 {
		t.Errorf("peak = %v", p)
	}
}

func TestSynth_IgnoresEmpty(t *testing.T) {
	s := NewSynth(0)
	s.Press(nil, time.Second, 1)
	s.Press([]piano.Note{{Freq: 440}}, 0, 1)
	if s.Voices() != 0 {
		t.Errorf("Voices = %d", s.Voices())
	}
	if s.SampleRate() != SampleRate {
		t.Errorf("SampleRate = %d", s.SampleRate())
	}
}

func sine(freq float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / SampleRate)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	low := Analyze(sine(110, BufferSize), SampleRate)
	if low.Bass <= low.Mid || low.Bass <= low.High {
		t.Errorf("110Hz: %+v", low)
	}
	mid := Analyze(sine(880, BufferSize), SampleRate)
	if mid.Mid <= mid.Bass || mid.Mid <= mid.High {
		t.Errorf("880Hz: %+v", mid)
	}
	high := Analyze(sine(6000, BufferSize), SampleRate)
	if high.High <= high.Bass || high.High <= high.Mid {
		t.Errorf("6kHz: %+v", high)
	}
	if (Analyze(nil, SampleRate) != Bands{}) {
		t.Error("empty input should be silent")
	}
}

func TestMeter_Bounded(t *testing.T) {
	m := NewMeter()
	for i := 0; i < 50; i++ {
		b := m.Update(sine(440, BufferSize), SampleRate)
		for _, v := range []float64{b.Bass, b.Mid, b.High} {
			if v < 0 || v > 1 {
				t.Fatalf("level out of range: %+v", b)
			}
		}
	}
	if m.Mid < 0.5 {
		t.Errorf("Mid = %v after steady 440Hz", m.Mid)
	}
}

func TestSnapshotOrder(t *testing.T) {
	s := NewSynth(1000)
	s.Press([]piano.Note{{Freq: 100}}, time.Second, 0.5)
	out := buffers(BufferSize + 10)
	s.Fill(out)
	snap := s.Snapshot()
	if len(snap) != BufferSize {
		t.Fatalf("len = %d", len(snap))
	}
	if float32(snap[len(snap)-1]) != out[0][len(out[0])-1] {
		t.Error("snapshot should end with the newest sample")
	}
}
