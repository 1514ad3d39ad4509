// Package audio plays short synthesized tones for ship events.
package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/opd-ai/vectorspace/pkg/event"
	"github.com/opd-ai/vectorspace/pkg/logging"
)

const sampleRate = beep.SampleRate(48000)

const (
	bumpFreq      = 330.0
	impactFreq    = 220.0
	minImpactFreq = 60.0
	parkFreq      = 660.0
	toneLength    = 120 * time.Millisecond
	maxToneVolume = 0.8
)

// SoundManager mixes the game's tones into the speaker. Every Play method
// is a no-op until Initialize succeeds.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	logger      *logging.Logger
}

// NewSoundManager creates a new sound manager
func NewSoundManager(logger *logging.Logger) *SoundManager {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Initialize opens the speaker and starts the mixer
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

// Cleanup silences every queued tone
func (sm *SoundManager) Cleanup() {
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

// Active returns the number of tones still queued in the mixer. The
// speaker lock guards the mixer while it streams.
func (sm *SoundManager) Active() int {
	speaker.Lock()
	defer speaker.Unlock()
	return sm.mixer.Len()
}

// PlayBump plays a soft tone for a harmless collision
func (sm *SoundManager) PlayBump() {
	sm.play(bumpFreq, toneLength/2, 0.3)
}

// PlayImpact plays a tone that drops in pitch and rises in volume with
// damage
func (sm *SoundManager) PlayImpact(damage int) {
	freq := math.Max(impactFreq-4*float64(damage), minImpactFreq)
	vol := math.Min(0.4+float64(damage)/50, maxToneVolume)
	sm.play(freq, toneLength, vol)
}

// PlayPark plays a short high chirp
func (sm *SoundManager) PlayPark() {
	sm.play(parkFreq, toneLength/2, 0.4)
}

// PlayDestroyed plays a falling three-tone sequence
func (sm *SoundManager) PlayDestroyed() {
	var parts []beep.Streamer
	for _, freq := range []float64{220, 165, 110} {
		s, err := tone(freq, toneLength*2, maxToneVolume)
		if err != nil {
			sm.logger.Warn(context.Background(), "failed to build tone", "freq", freq, "error", err)
			return
		}
		parts = append(parts, s)
	}
	sm.add(beep.Seq(parts...))
}

// Subscribe plays tones for the ship's collisions, parking and
// destruction. Cancel the returned subscriptions to stop.
func (sm *SoundManager) Subscribe(bus *event.Bus) []*event.Subscription {
	return []*event.Subscription{
		bus.Subscribe(event.BodyCollision, func(e event.Event) {
			ce, ok := e.(*event.CollisionEvent)
			if !ok || ce.Mover != event.MoverShip {
				return
			}
			if ce.Damage > 0 {
				sm.PlayImpact(ce.Damage)
			} else {
				sm.PlayBump()
			}
		}),
		bus.Subscribe(event.ShipParked, func(event.Event) { sm.PlayPark() }),
		bus.Subscribe(event.ShipDestroyed, func(event.Event) { sm.PlayDestroyed() }),
	}
}

func (sm *SoundManager) play(freq float64, d time.Duration, vol float64) {
	s, err := tone(freq, d, vol)
	if err != nil {
		sm.logger.Warn(context.Background(), "failed to build tone", "freq", freq, "error", err)
		return
	}
	sm.add(s)
}

func (sm *SoundManager) add(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// tone returns a sine wave of the given length and linear volume
func tone(freq float64, d time.Duration, vol float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(d), sine),
		Base:     2,
		Volume:   math.Log2(vol),
	}, nil
}
