// Package device plays an audio.Synth on the default portaudio output. It is
// the only package that links portaudio.
package device

import (
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/transitviz/internal/audio"
)

// Output drives a Synth from the default portaudio output device.
type Output struct {
	Synth  *audio.Synth
	Stream *portaudio.Stream
	Active bool
}

func NewOutput(s *audio.Synth) *Output {
	return &Output{Synth: s}
}

func (o *Output) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(o.Synth.SampleRate()), audio.BufferSize, o.Synth.Fill)
	if err != nil {
		portaudio.Terminate()
		slog.Error("audio open failed", "err", err)
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		slog.Error("audio start failed", "err", err)
		return err
	}

	slog.Info("audio started", "sample_rate", o.Synth.SampleRate(), "buffer", audio.BufferSize)
	o.Stream = stream
	o.Active = true
	return nil
}

func (o *Output) Stop() {
	if !o.Active {
		return
	}
	if o.Stream != nil {
		o.Stream.Stop()
		o.Stream.Close()
	}
	portaudio.Terminate()
	o.Active = false
}
