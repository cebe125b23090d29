// pkg/audio/sound.go

// Package audio plays short cues for simulation events through the
// system speaker. Audio is optional: when the speaker cannot be opened the
// manager stays silent.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/go-roller/pkg/event"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager mixes event cues into a single speaker stream.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	played      int
	subs        []*event.Subscription
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. Callers treat an error as "no audio".
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Attach plays cues for events published on bus.
func (sm *SoundManager) Attach(bus *event.Bus) {
	sm.subs = append(sm.subs,
		bus.Subscribe(event.VehicleRespawned, func(event.Event) { sm.PlayRespawn() }),
		bus.Subscribe(event.DebugToggled, func(event.Event) { sm.PlayClick() }),
	)
}

// Cleanup unsubscribes and silences the mixer.
func (sm *SoundManager) Cleanup() {
	for _, s := range sm.subs {
		s.Cancel()
	}
	sm.subs = nil

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayRespawn plays a rising chirp.
func (sm *SoundManager) PlayRespawn() {
	sm.play(NewSweepGenerator(sampleRate, 300, 900, 250*time.Millisecond))
}

// PlayClick plays a short tick.
func (sm *SoundManager) PlayClick() {
	sm.play(NewSweepGenerator(sampleRate, 1200, 1200, 30*time.Millisecond))
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
	sm.played++
}

// Played returns how many cues reached the mixer.
func (sm *SoundManager) Played() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.played
}

// SweepGenerator is a sine tone gliding linearly between two frequencies
// with a short attack and a linear release.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	pos      int
	total    int
	phase    float64
}

// NewSweepGenerator creates a finite sweep lasting d.
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *SweepGenerator {
	return &SweepGenerator{sr: sr, from: from, to: to, total: sr.N(d)}
}

// Stream implements beep.Streamer.
func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	attack := g.total / 20
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		progress := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*progress

		amp := 0.2 * (1 - progress)
		if attack > 0 && g.pos < attack {
			amp *= float64(g.pos) / float64(attack)
		}

		v := amp * math.Sin(2*math.Pi*g.phase)
		samples[i][0], samples[i][1] = v, v

		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase--
		}
		g.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (g *SweepGenerator) Err() error {
	return nil
}
