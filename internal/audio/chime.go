// Package audio plays the short synthesized sounds that accompany pops
// and resets.
package audio

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	ringSize   = 2048

	popFreq     = 880
	popDuration = 120 * time.Millisecond
	popGain     = 0.25

	resetFreq     = 220
	resetDuration = 600 * time.Millisecond
	resetGain     = 0.3

	// at most one pop sound per interval; planets can swallow many
	// particles in one tick
	popThrottle = 60 * time.Millisecond
	maxVoices   = 8
)

// Chime mixes effect tones into the speaker. The zero value is unusable;
// create one with New. A Chime that failed to open the device stays
// silent.
type Chime struct {
	mixer *beep.Mixer
	tap   *levelTap

	mu       sync.Mutex
	ready    bool
	muted    bool
	lastPop  time.Time
	log      *slog.Logger
	initDone bool
}

func New(log *slog.Logger) *Chime {
	if log == nil {
		log = slog.Default()
	}
	mixer := &beep.Mixer{}
	return &Chime{
		mixer: mixer,
		tap:   newLevelTap(mixer, ringSize),
		log:   log,
	}
}

// Init opens the audio device. Errors leave the chime muted for good; the
// playground works without sound.
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initDone {
		return nil
	}
	c.initDone = true
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		c.log.Warn("audio disabled", "error", err)
		return err
	}
	speaker.Play(c.tap)
	c.ready = true
	return nil
}

func (c *Chime) SetMuted(m bool) {
	c.mu.Lock()
	c.muted = m
	c.mu.Unlock()
}

func (c *Chime) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Pop plays the pop tone unless one played within the throttle window.
// It reports whether a tone was queued.
func (c *Chime) Pop(now time.Time) bool {
	c.mu.Lock()
	if !c.ready || c.muted || now.Sub(c.lastPop) < popThrottle {
		c.mu.Unlock()
		return false
	}
	c.lastPop = now
	c.mu.Unlock()
	return c.play(tone(sampleRate, popFreq, popDuration, popGain))
}

// Reset plays the low sweep that goes with a full reset.
func (c *Chime) Reset() bool {
	c.mu.Lock()
	if !c.ready || c.muted {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()
	return c.play(sweep(sampleRate, resetFreq, resetDuration, resetGain))
}

// Level reports the recent output loudness in [0,1].
func (c *Chime) Level() float64 { return c.tap.Level() }

// Close silences everything still playing.
func (c *Chime) Close() {
	c.mu.Lock()
	ready := c.ready
	c.ready = false
	c.mu.Unlock()
	if !ready {
		return
	}
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
}

func (c *Chime) play(s beep.Streamer) bool {
	speaker.Lock()
	defer speaker.Unlock()
	if c.mixer.Len() >= maxVoices {
		return false
	}
	c.mixer.Add(s)
	return true
}

// tone is a sine at freq with an exponential decay, d long.
func tone(rate beep.SampleRate, freq float64, d time.Duration, gain float64) beep.Streamer {
	return envelope(rate, d, gain, func(t float64) float64 {
		return math.Sin(2 * math.Pi * freq * t)
	})
}

// sweep glides from freq up two octaves over d.
func sweep(rate beep.SampleRate, freq float64, d time.Duration, gain float64) beep.Streamer {
	total := d.Seconds()
	return envelope(rate, d, gain, func(t float64) float64 {
		// phase of a linear chirp from freq to 4*freq
		k := 3 * freq / total
		return math.Sin(2 * math.Pi * (freq*t + k*t*t/2))
	})
}

func envelope(rate beep.SampleRate, d time.Duration, gain float64, wave func(t float64) float64) beep.Streamer {
	n := rate.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && pos < n; i++ {
			t := float64(pos) / float64(rate)
			decay := math.Exp(-5 * float64(pos) / float64(n))
			v := gain * decay * wave(t)
			samples[i][0] = v
			samples[i][1] = v
			pos++
		}
		return i, true
	})
}
