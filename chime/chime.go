// Package chime plays short audio cues when remapping starts or stops, so the
// user gets feedback while the window is hidden in the tray.
package chime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq float64
	dur  time.Duration
}

var (
	startCue = []tone{{660, 70 * time.Millisecond}, {880, 110 * time.Millisecond}}
	stopCue  = []tone{{880, 70 * time.Millisecond}, {587, 110 * time.Millisecond}}
)

// Player plays the cues. A disabled Player does nothing.
type Player struct {
	enabled     bool
	speakerLock sync.Mutex
}

// New initializes the speaker when enabled. Audio failures only disable the
// cues.
func New(enabled bool) *Player {
	p := &Player{enabled: enabled}
	if !enabled {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		slog.Warn("audio disabled: failed to initialize speaker", "error", err)
		p.enabled = false
	}
	return p
}

// Enabled reports whether cues will be played.
func (p *Player) Enabled() bool {
	return p.enabled
}

// SessionStarted plays the rising cue.
func (p *Player) SessionStarted() {
	p.play(startCue)
}

// SessionStopped plays the falling cue.
func (p *Player) SessionStopped() {
	p.play(stopCue)
}

func (p *Player) play(tones []tone) {
	if !p.enabled {
		return
	}
	s, err := buildCue(sampleRate, tones)
	if err != nil {
		slog.Warn("could not build audio cue", "error", err)
		return
	}

	p.speakerLock.Lock()
	defer p.speakerLock.Unlock()
	speaker.Play(s)
}

func buildCue(sr beep.SampleRate, tones []tone) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		sine, err := generators.SineTone(sr, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sr.N(t.dur), sine))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   -2,
	}, nil
}
