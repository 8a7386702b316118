// Package audio mixes stop-name chords into sample buffers and measures the
// spectrum of what it plays. Sound card output lives in audio/device.
package audio

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/san-kum/transitviz/internal/piano"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// Amplitudes and durations used by the audio view.
	PressAmp      = 0.24
	PressDuration = 50 * time.Millisecond
	MusicAmp      = 0.18
	MusicDuration = 120 * time.Millisecond

	// fade applied at both ends of a voice to avoid clicks
	fadeSeconds = 0.004
)

// Player receives the notes a visualization wants to hear.
type Player interface {
	Press(notes []piano.Note, dur time.Duration, amp float64)
}

// Silent discards everything.
type Silent struct{}

func (Silent) Press([]piano.Note, time.Duration, float64) {}

type voice struct {
	freq  float64
	amp   float64
	start int64
	end   int64
	phase float64
}

// Synth is a sine mixer. Press and PressAt may be called from any
// goroutine; Fill runs on the audio thread.
type Synth struct {
	mu         sync.Mutex
	sampleRate float64
	clock      int64
	active     []voice
	pending    []voice // sorted by start
	tap        []float64
	tapHead    int
}

func NewSynth(sampleRate int) *Synth {
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	return &Synth{
		sampleRate: float64(sampleRate),
		tap:        make([]float64, BufferSize),
	}
}

func (s *Synth) SampleRate() int { return int(s.sampleRate) }

// Press starts every note now.
func (s *Synth) Press(notes []piano.Note, dur time.Duration, amp float64) {
	s.PressAt(notes, 0, dur, amp)
}

// PressAt schedules notes to start delay from now.
func (s *Synth) PressAt(notes []piano.Note, delay, dur time.Duration, amp float64) {
	if len(notes) == 0 || dur <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.clock + s.samples(delay)
	end := start + s.samples(dur)
	for _, n := range notes {
		v := voice{freq: n.Freq, amp: amp, start: start, end: end}
		i := sort.Search(len(s.pending), func(i int) bool { return s.pending[i].start > start })
		s.pending = append(s.pending, voice{})
		copy(s.pending[i+1:], s.pending[i:])
		s.pending[i] = v
	}
}

func (s *Synth) samples(d time.Duration) int64 {
	return int64(math.Round(d.Seconds() * s.sampleRate))
}

// Voices reports how many voices are sounding or waiting to sound.
func (s *Synth) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) + len(s.pending)
}

// Fill is the portaudio output callback: it mixes every live voice into
// each channel of out.
func (s *Synth) Fill(out [][]float32) {
	if len(out) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := 1.0 / s.sampleRate
	fade := int64(fadeSeconds * s.sampleRate)
	for i := range out[0] {
		for len(s.pending) > 0 && s.pending[0].start <= s.clock {
			s.active = append(s.active, s.pending[0])
			s.pending = s.pending[1:]
		}

		sample := 0.0
		live := s.active[:0]
		for _, v := range s.active {
			if s.clock >= v.end {
				continue
			}
			sample += math.Sin(2*math.Pi*v.phase) * v.amp * envelope(s.clock-v.start, v.end-s.clock, fade)
			v.phase += v.freq * dt
			v.phase -= math.Floor(v.phase)
			live = append(live, v)
		}
		s.active = live

		sample = math.Max(-1, math.Min(1, sample))
		for ch := range out {
			out[ch][i] = float32(sample)
		}
		s.tap[s.tapHead] = sample
		s.tapHead = (s.tapHead + 1) % len(s.tap)
		s.clock++
	}
}

func envelope(sinceStart, untilEnd, fade int64) float64 {
	if fade <= 0 {
		return 1
	}
	g := 1.0
	if sinceStart < fade {
		g = float64(sinceStart) / float64(fade)
	}
	if untilEnd < fade {
		g = math.Min(g, float64(untilEnd)/float64(fade))
	}
	return g
}

// Snapshot copies the most recent BufferSize output samples, oldest first.
func (s *Synth) Snapshot() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.tap))
	n := copy(out, s.tap[s.tapHead:])
	copy(out[n:], s.tap[:s.tapHead])
	return out
}
