package audio

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestToneLengthAndDecay(t *testing.T) {
	samples := drain(tone(sampleRate, popFreq, popDuration, popGain))
	if want := sampleRate.N(popDuration); len(samples) != want {
		t.Fatalf("tone has %d samples, want %d", len(samples), want)
	}
	if samples[0][0] != 0 {
		t.Errorf("tone should start at zero phase, got %v", samples[0][0])
	}

	peak := func(from, to int) float64 {
		p := 0.0
		for _, s := range samples[from:to] {
			p = max(p, math.Abs(s[0]))
		}
		return p
	}
	q := len(samples) / 4
	if early, late := peak(0, q), peak(3*q, 4*q); late >= early {
		t.Errorf("tone does not decay: early %v late %v", early, late)
	}
	for i, s := range samples {
		if s[0] != s[1] || math.Abs(s[0]) > popGain {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
}

func TestSweepEnds(t *testing.T) {
	s := sweep(sampleRate, resetFreq, resetDuration, resetGain)
	if got, want := len(drain(s)), sampleRate.N(resetDuration); got != want {
		t.Errorf("sweep has %d samples, want %d", got, want)
	}
	if n, ok := s.Stream(make([][2]float64, 10)); n != 0 || ok {
		t.Errorf("drained sweep streamed %d, %v", n, ok)
	}
}

func TestLevelTap(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, 0.5}
		}
		return len(samples), true
	})
	tap := newLevelTap(src, 64)
	if tap.Level() != 0 {
		t.Errorf("fresh tap level = %v", tap.Level())
	}
	tap.Stream(make([][2]float64, 100))
	if got := tap.Level(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("level = %v, want 0.5", got)
	}
}

func TestChimeSilentWithoutDevice(t *testing.T) {
	c := New(nil)
	if c.Pop(t0) || c.Reset() {
		t.Error("chime played before Init")
	}
	c.Close()
}

func TestPopThrottleAndVoices(t *testing.T) {
	c := New(nil)
	c.ready = true

	if !c.Pop(t0) {
		t.Fatal("first pop rejected")
	}
	if c.Pop(t0.Add(10 * time.Millisecond)) {
		t.Error("pop inside the throttle window played")
	}
	if !c.Pop(t0.Add(popThrottle)) {
		t.Error("pop after the throttle window rejected")
	}

	c.SetMuted(true)
	if c.Pop(t0.Add(time.Second)) || !c.Muted() {
		t.Error("muted chime played")
	}
	c.SetMuted(false)

	for c.mixer.Len() < maxVoices {
		c.Reset()
	}
	if c.Reset() {
		t.Error("played past the voice limit")
	}
	if c.mixer.Len() != maxVoices {
		t.Errorf("mixer voices = %d", c.mixer.Len())
	}
}
