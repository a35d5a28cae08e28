// Package physics runs the per-tick interaction rules between the placed
// objects and the live particles.
package physics

import (
	"log/slog"
	"math"
	"time"

	"github.com/iburimskiy/particle-playground/internal/clock"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/emission"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"gonum.org/v1/gonum/spatial/r2"
)

// Rand is the uniform [0,1) source used for emission angles and speeds.
type Rand interface {
	Float64() float64
}

// PopSink receives a pop at a page position whenever a planet swallows a
// particle.
type PopSink interface {
	Pop(page r2.Vec)
}

// Trailer spawns glitter from the live particles once per tick.
type Trailer interface {
	Trail(now time.Time, m coords.Mapper, zones []coords.Circle, store particle.Store, handles []particle.Handle) int
}

type Options struct {
	Tuning  config.Tuning
	Clock   clock.Clock
	Rand    Rand
	Log     *slog.Logger
	Glitter Trailer
	Pops    PopSink
}

// Stats counts what the last tick did.
type Stats struct {
	Emitted   int
	Deflected int
	Reset     int
	Hits      int
	Offscreen int
	Repelled  int
	Glitter   int
}

type Engine struct {
	store   particle.Store
	reg     *scene.Registry
	tracker *emission.Tracker
	glitter Trailer
	pops    PopSink
	clock   clock.Clock
	rng     Rand
	log     *slog.Logger
	tuning  config.Tuning

	frame    uint64
	repulsor bool
	cursor   r2.Vec
	hasMouse bool

	live  []particle.Handle
	zones []coords.Circle
	stats Stats
}

// New builds an engine over the given store. The repulsor starts enabled.
func New(store particle.Store, reg *scene.Registry, tracker *emission.Tracker, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Tuning.PhysicsFrameSkip <= 0 {
		opts.Tuning.PhysicsFrameSkip = 1
	}
	if opts.Tuning.MaxParticles <= 0 {
		opts.Tuning.MaxParticles = config.MaxParticles
	}
	return &Engine{
		store:    store,
		reg:      reg,
		tracker:  tracker,
		glitter:  opts.Glitter,
		pops:     opts.Pops,
		clock:    opts.Clock,
		rng:      opts.Rand,
		log:      opts.Log,
		tuning:   opts.Tuning,
		repulsor: true,
	}
}

func (e *Engine) SetRepulsorEnabled(on bool) { e.repulsor = on }

func (e *Engine) RepulsorEnabled() bool { return e.repulsor }

// SetCursor records the pointer position in page space.
func (e *Engine) SetCursor(page r2.Vec) {
	e.cursor = page
	e.hasMouse = true
}

// ClearCursor is called when the pointer leaves the playground.
func (e *Engine) ClearCursor() { e.hasMouse = false }

// Cursor returns the last pointer position and whether it is present.
func (e *Engine) Cursor() (r2.Vec, bool) { return e.cursor, e.hasMouse }

// Stats reports the counters of the most recent tick.
func (e *Engine) Stats() Stats { return e.stats }

// Frame is called once per animation frame and runs Step every K frames.
// It reports whether a tick ran.
func (e *Engine) Frame() bool {
	e.frame++
	if e.frame%uint64(e.tuning.PhysicsFrameSkip) != 0 {
		return false
	}
	e.Step()
	return true
}

// Step runs one tick: generators, emission transition, resetter fields,
// gravity and collisions, glitter, cursor repulsion. Without an attached
// surface the tick is skipped.
func (e *Engine) Step() {
	e.stats = Stats{}
	surface, ok := e.store.Surface()
	if !ok || !surface.Valid() {
		return
	}
	m := coords.NewMapper(surface)
	now := e.clock.Now()

	e.emitGenerators(now, m)
	e.transition(now, m)

	e.live = e.store.Live(e.live[:0])
	e.applyResetters(m)
	e.applyGravity(m)
	if e.glitter != nil {
		e.stats.Glitter = e.glitter.Trail(now, m, e.sparkleZones(m), e.store, e.live)
	}
	e.applyCursor(m)
}

// Burst launches a handful of fast particles from a page position. Bursts
// ignore the particle cap.
func (e *Engine) Burst(page r2.Vec) int {
	surface, ok := e.store.Surface()
	if !ok || !surface.Valid() || e.rng == nil {
		return 0
	}
	m := coords.NewMapper(surface)
	now := e.clock.Now()
	pos := m.ToSurface(page)

	n := 0
	for range config.BurstParticleCount {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := config.BurstSpeedMin + e.rng.Float64()*(config.BurstSpeedMax-config.BurstSpeedMin)
		if e.launch(now, pos, angle, speed) {
			n++
		}
	}
	return n
}

func (e *Engine) launch(now time.Time, pos r2.Vec, angle, speed float64) bool {
	vel := r2.Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	h, ok := e.store.Add(pos, vel)
	if !ok {
		return false
	}
	e.tracker.Track(h, now, vel)
	return true
}

func (e *Engine) emitGenerators(now time.Time, m coords.Mapper) {
	gens := e.reg.Generators()
	atCap := e.store.Len() >= e.tuning.MaxParticles
	for _, g := range gens {
		g.Disabled = atCap
	}
	if atCap || e.rng == nil {
		return
	}
	for _, g := range gens {
		if !g.LastEmit.IsZero() && now.Sub(g.LastEmit) <= config.GeneratorEmitInterval {
			continue
		}
		if e.store.Len() >= e.tuning.MaxParticles {
			return
		}
		angle := e.rng.Float64() * 2 * math.Pi
		if e.launch(now, m.ToSurface(g.Center()), angle, config.GeneratorParticleSpeed) {
			e.stats.Emitted++
		}
		g.LastEmit = now
	}
}

func (e *Engine) transition(now time.Time, m coords.Mapper) {
	radius := m.Length(config.RepulseRadius)
	cursor, active := e.cursorSurface(m)
	e.tracker.Step(now, e.store, func(p *particle.Particle, age time.Duration) bool {
		if !active || age <= config.RepulseGrace {
			return false
		}
		offset := r2.Sub(p.Pos, cursor)
		dist := r2.Norm(offset)
		if dist <= 0 || dist >= radius {
			return false
		}
		unit := r2.Scale(1/dist, offset)
		p.Vel = r2.Add(p.Vel, r2.Scale(repulsion(radius, dist*dist), unit))
		if floor := radius * config.RepulseMinFraction; dist < floor {
			p.Pos = r2.Add(p.Pos, r2.Scale(floor-dist, unit))
		}
		e.stats.Deflected++
		return true
	})
}

func (e *Engine) applyResetters(m coords.Mapper) {
	fields := e.reg.ResetterFields()
	if len(fields) == 0 {
		return
	}
	circles := make([]coords.Circle, 0, len(fields))
	for _, f := range fields {
		circles = append(circles, m.Circle(f.Center(), f.Radius()))
	}
	for _, h := range e.live {
		p, ok := e.store.Get(h)
		if !ok || inert(p) {
			continue
		}
		if coords.AnyContains(circles, p.Pos) {
			p.Vel = emission.Target
			e.stats.Reset++
		}
	}
}

func (e *Engine) applyGravity(m coords.Mapper) {
	planets := e.reg.Planets()
	if len(planets) == 0 {
		return
	}
	hit := float64(config.PlanetHitRadius)
	if e.tuning.ScaleHitRadius {
		hit = m.Length(hit)
	}
	hit2 := hit * hit

	for _, planet := range planets {
		well := m.Circle(planet.Center(), planet.Radius())
		reach2 := well.Radius * well.Radius

		for _, h := range e.live {
			p, ok := e.store.Get(h)
			if !ok || inert(p) {
				continue
			}
			toward := r2.Sub(well.Center, p.Pos)
			d2 := r2.Norm2(toward)

			struck := d2 < hit2 || (e.tuning.InclusiveHitRadius && d2 == hit2)
			if struck || m.OffSurface(p.Pos, config.CanvasOffscreenBuffer) {
				if struck {
					e.stats.Hits++
					if e.pops != nil {
						e.pops.Pop(m.ToPage(p.Pos))
					}
				} else {
					e.stats.Offscreen++
				}
				if err := particle.SoftKill(e.store, h, p); err != nil {
					e.log.Debug("particle destroy failed", "handle", h, "error", err)
				}
				continue
			}

			if d2 <= 0 || d2 >= reach2 {
				continue
			}
			dist := math.Sqrt(d2)
			unit := r2.Scale(1/dist, toward)
			pull := config.GravityStrength * config.GravityMass * config.GravityFactor / d2
			p.Vel = r2.Add(p.Vel, r2.Scale(pull, unit))

			// energy is lost on the outbound leg only
			if r2.Dot(p.Vel, unit) < 0 {
				p.Vel = r2.Scale(config.OutboundDamping, p.Vel)
			}
			if speed := r2.Norm(p.Vel); speed > config.ParticleMaxSpeed {
				p.Vel = r2.Scale(config.ParticleMaxSpeed/speed, p.Vel)
			}
		}
	}
}

func (e *Engine) applyCursor(m coords.Mapper) {
	cursor, active := e.cursorSurface(m)
	if !active {
		return
	}
	radius := m.Length(config.RepulseRadius)
	reach2 := radius * radius
	for _, h := range e.live {
		p, ok := e.store.Get(h)
		if !ok || inert(p) {
			continue
		}
		offset := r2.Sub(p.Pos, cursor)
		d2 := r2.Norm2(offset)
		if d2 <= 0 || d2 >= reach2 {
			continue
		}
		unit := r2.Scale(1/math.Sqrt(d2), offset)
		p.Vel = r2.Add(p.Vel, r2.Scale(repulsion(radius, d2), unit))
		e.stats.Repelled++
	}
}

func (e *Engine) cursorSurface(m coords.Mapper) (r2.Vec, bool) {
	if !e.repulsor || !e.hasMouse {
		return r2.Vec{}, false
	}
	return m.ToSurface(e.cursor), true
}

func (e *Engine) sparkleZones(m coords.Mapper) []coords.Circle {
	e.zones = e.zones[:0]
	for _, z := range e.reg.SparkleZones() {
		e.zones = append(e.zones, m.Circle(z.Center(), z.Radius()))
	}
	return e.zones
}

// repulsion is the inverse-square impulse magnitude at squared distance
// d2 from the cursor. radius is already in surface units.
func repulsion(radius, d2 float64) float64 {
	return config.RepulseStrength * radius / d2
}

// inert reports a particle parked by SoftKill on a store that could not
// destroy it.
func inert(p *particle.Particle) bool {
	return p.Opacity == 0 && p.Pos == particle.KillPosition
}
