// Package glitter spawns the short-lived sparkles shed by moving
// particles. Glitter lives in page space, outside the particle store, and
// animates itself until its lifetime runs out.
package glitter

import (
	"math"
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Rand is the uniform [0,1) source glitter draws from.
type Rand interface {
	Float64() float64
}

// Glitter is one sparkle. Positions are page space; Vel is applied once
// per animation frame.
type Glitter struct {
	Pos      r2.Vec
	Vel      r2.Vec
	Size     float64
	Spin     float64 // degrees per second
	Rotation float64 // degrees
	Color    colorful.Color
	Rainbow  bool
	Born     time.Time
}

// Progress is the fraction of the lifetime used at now.
func (g *Glitter) Progress(now time.Time) float64 {
	p := float64(now.Sub(g.Born)) / float64(config.GlitterDuration)
	return min(max(p, 0), 1)
}

// Opacity fades linearly to zero over the lifetime.
func (g *Glitter) Opacity(now time.Time) float64 { return 1 - g.Progress(now) }

// Scale shrinks linearly to zero over the lifetime.
func (g *Glitter) Scale(now time.Time) float64 { return 1 - g.Progress(now) }

// Chance is the per-tick spawn probability for one particle.
func Chance(inZone bool) float64 {
	if inZone {
		return config.SparkleZoneSpawnMultiplier
	}
	return config.GlitterSpawnChance
}

type System struct {
	items []*Glitter
	rng   Rand
	color colorful.Color
}

func NewSystem(rng Rand) *System {
	return &System{rng: rng, color: config.GlitterGold}
}

// SetColor sets the colour used outside sparkle zones.
func (s *System) SetColor(c colorful.Color) { s.color = c }

func (s *System) Color() colorful.Color { return s.color }

// Trail makes one spawn roll per live particle. zones are sparkle zones
// already mapped to surface space.
func (s *System) Trail(now time.Time, m coords.Mapper, zones []coords.Circle, store particle.Store, handles []particle.Handle) int {
	spawned := 0
	for _, h := range handles {
		p, ok := store.Get(h)
		if !ok || p.Opacity <= 0 {
			continue
		}
		roll := s.rng.Float64()
		inZone := coords.AnyContains(zones, p.Pos)
		if roll >= Chance(inZone) {
			continue
		}
		s.Spawn(now, m.ToPage(p.Pos), p.Vel, p.Size, inZone)
		spawned++
	}
	return spawned
}

// Spawn ejects one glitter backwards from a particle at pos moving at vel.
func (s *System) Spawn(now time.Time, pos, vel r2.Vec, particleSize float64, rainbow bool) *Glitter {
	if particleSize <= 0 {
		particleSize = config.DefaultParticleSize
	}
	size := particleSize / config.GlitterSizeFactor * (config.GlitterSizeMin + s.rng.Float64()*config.GlitterSizeRange)

	backward := math.Atan2(vel.Y, vel.X) + math.Pi
	angle := backward + (s.rng.Float64()-0.5)*(config.GlitterSpreadAngle*math.Pi/180)
	speed := r2.Norm(vel) * (config.GlitterSpeedMin + s.rng.Float64()*config.GlitterSpeedRange)

	g := &Glitter{
		Pos:      pos,
		Vel:      r2.Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
		Size:     size,
		Spin:     speed * config.GlitterSpinMultiplier,
		Rotation: s.rng.Float64() * 360,
		Color:    s.color,
		Rainbow:  rainbow,
		Born:     now,
	}
	if rainbow {
		i := int(s.rng.Float64() * float64(len(config.Rainbow)))
		g.Color = config.Rainbow[min(i, len(config.Rainbow)-1)]
	}
	s.items = append(s.items, g)
	return g
}

// Step advances every glitter by one animation frame and drops the ones
// whose lifetime is over.
func (s *System) Step(now time.Time) {
	kept := s.items[:0]
	for _, g := range s.items {
		if now.Sub(g.Born) >= config.GlitterDuration {
			continue
		}
		g.Pos = r2.Add(g.Pos, g.Vel)
		g.Rotation = math.Mod(g.Rotation+g.Spin/config.GlitterAssumedFPS, 360)
		kept = append(kept, g)
	}
	clear(s.items[len(kept):])
	s.items = kept
}

// Each visits the live glitter in spawn order.
func (s *System) Each(fn func(g *Glitter)) {
	for _, g := range s.items {
		fn(g)
	}
}

func (s *System) Len() int { return len(s.items) }

// Clear removes all glitter at once.
func (s *System) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}
