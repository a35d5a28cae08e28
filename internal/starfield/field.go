// Package starfield is the particle store behind the playground: it owns
// the star particles, feeds them in from the surface edges, moves them
// and drops the ones that drift away.
package starfield

import (
	"log/slog"
	"math"
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

type Rand interface {
	Float64() float64
}

// Star is a live particle plus the state only the renderer cares about.
type Star struct {
	particle.Particle
	Rotation float64 // degrees
	Spin     float64 // degrees per second
	Color    colorful.Color
}

type slot struct {
	star  Star
	gen   uint32
	alive bool
}

type Options struct {
	Rand  Rand
	Log   *slog.Logger
	Color colorful.Color
	// Emitters replaces the default edge emitters when non-nil.
	Emitters []Emitter
}

// Field is a generational slot store. It is driven from the frame loop
// and is not safe for concurrent use.
type Field struct {
	slots []slot
	free  []uint32
	live  int

	surface  coords.Surface
	attached bool

	emitters []Emitter
	emitting bool
	lastEmit time.Time

	rng   Rand
	color colorful.Color
	log   *slog.Logger
}

func New(opts Options) *Field {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Color == (colorful.Color{}) {
		opts.Color = config.StarColor
	}
	if opts.Emitters == nil {
		opts.Emitters = EdgeEmitters()
	}
	return &Field{
		emitters: opts.Emitters,
		emitting: true,
		rng:      opts.Rand,
		color:    opts.Color,
		log:      opts.Log,
	}
}

// Attach sets the render surface for the coming frames. A surface that is
// not Valid detaches the field.
func (f *Field) Attach(s coords.Surface) {
	f.surface = s
	f.attached = s.Valid()
}

func (f *Field) Detach() { f.attached = false }

func (f *Field) Surface() (coords.Surface, bool) {
	return f.surface, f.attached
}

func (f *Field) Len() int { return f.live }

func (f *Field) Live(dst []particle.Handle) []particle.Handle {
	for i := range f.slots {
		if f.slots[i].alive {
			dst = append(dst, particle.Handle{Index: uint32(i), Gen: f.slots[i].gen})
		}
	}
	return dst
}

func (f *Field) Get(h particle.Handle) (*particle.Particle, bool) {
	s, ok := f.Star(h)
	if !ok {
		return nil, false
	}
	return &s.Particle, true
}

// Star resolves a handle to the full star record.
func (f *Field) Star(h particle.Handle) (*Star, bool) {
	if int(h.Index) >= len(f.slots) {
		return nil, false
	}
	sl := &f.slots[h.Index]
	if !sl.alive || sl.gen != h.Gen {
		return nil, false
	}
	return &sl.star, true
}

// Add creates a star at pos with velocity vel, both in surface space.
func (f *Field) Add(pos, vel r2.Vec) (particle.Handle, bool) {
	if !f.attached {
		return particle.Handle{}, false
	}
	star := Star{
		Particle: particle.Particle{
			Pos:     pos,
			Vel:     vel,
			Opacity: 1,
			Size:    f.starSize(),
		},
		Rotation: f.roll() * 360,
		Spin:     config.StarRotation,
		Color:    f.color,
	}
	if f.roll() < 0.5 {
		star.Spin = -star.Spin
	}

	var idx uint32
	if n := len(f.free); n > 0 {
		idx = f.free[n-1]
		f.free = f.free[:n-1]
	} else {
		f.slots = append(f.slots, slot{})
		idx = uint32(len(f.slots) - 1)
	}
	sl := &f.slots[idx]
	sl.star = star
	sl.alive = true
	f.live++
	return particle.Handle{Index: idx, Gen: sl.gen}, true
}

// Destroy frees the slot behind h. Destroying a stale handle is an error.
func (f *Field) Destroy(h particle.Handle) error {
	if _, ok := f.Star(h); !ok {
		return particle.ErrStale
	}
	f.release(h.Index)
	return nil
}

func (f *Field) release(idx uint32) {
	sl := &f.slots[idx]
	sl.alive = false
	sl.gen++
	sl.star = Star{}
	f.free = append(f.free, idx)
	f.live--
}

// Clear removes every star. Handles held by callers go stale.
func (f *Field) Clear() {
	for i := range f.slots {
		if f.slots[i].alive {
			f.release(uint32(i))
		}
	}
	f.lastEmit = time.Time{}
}

// Refresh re-applies the configured colour to every live star and restarts
// the emitter clock.
func (f *Field) Refresh() {
	for i := range f.slots {
		if f.slots[i].alive {
			f.slots[i].star.Color = f.color
		}
	}
	f.lastEmit = time.Time{}
	f.log.Debug("star field refreshed", "stars", f.live)
}

// SetColor changes the colour of stars added from now on. Call Refresh to
// recolour the live ones.
func (f *Field) SetColor(c colorful.Color) { f.color = c }

func (f *Field) Color() colorful.Color { return f.color }

// SetEmitting pauses or resumes the edge emitters.
func (f *Field) SetEmitting(on bool) { f.emitting = on }

// Step advances the field by one animation frame: edge emitters fire,
// every star moves and spins, and stars that left the surface are dropped.
func (f *Field) Step(now time.Time, dt time.Duration) {
	if !f.attached {
		return
	}
	if f.emitting {
		f.emit(now)
	}

	m := coords.NewMapper(f.surface)
	speed := config.StarSpeed * m.Scale().X
	spin := dt.Seconds()
	for i := range f.slots {
		sl := &f.slots[i]
		if !sl.alive {
			continue
		}
		s := &sl.star
		s.Pos = r2.Add(s.Pos, r2.Scale(speed, s.Vel))
		s.Rotation = math.Mod(s.Rotation+s.Spin*spin, 360)
		if m.OffSurface(s.Pos, s.Size) {
			f.release(uint32(i))
		}
	}
}

// Each visits the live stars in slot order.
func (f *Field) Each(fn func(h particle.Handle, s *Star)) {
	for i := range f.slots {
		if f.slots[i].alive {
			fn(particle.Handle{Index: uint32(i), Gen: f.slots[i].gen}, &f.slots[i].star)
		}
	}
}

func (f *Field) emit(now time.Time) {
	if !f.lastEmit.IsZero() && now.Sub(f.lastEmit) < config.EmitterRateDelay {
		return
	}
	f.lastEmit = now
	native := f.surface.Native
	for _, e := range f.emitters {
		for range config.EmitterQuantity {
			f.Add(e.spawn(native, f.roll()), e.Direction)
		}
	}
}

func (f *Field) starSize() float64 {
	m := coords.NewMapper(f.surface)
	size := config.StarSizeMin + f.roll()*(config.StarSizeMax-config.StarSizeMin)
	return m.Length(size)
}

func (f *Field) roll() float64 {
	if f.rng == nil {
		return 0.5
	}
	return f.rng.Float64()
}
