// Package playground wires the simulation pieces together behind the
// operations a front-end needs: placing objects, toggles, resets and the
// per-frame driver.
package playground

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/particle-playground/internal/clock"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/effects"
	"github.com/iburimskiy/particle-playground/internal/emission"
	"github.com/iburimskiy/particle-playground/internal/glitter"
	"github.com/iburimskiy/particle-playground/internal/lifecycle"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/iburimskiy/particle-playground/internal/physics"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

type Rand interface {
	Float64() float64
}

// Sound is the optional audio side of pops and resets.
type Sound interface {
	Pop(now time.Time) bool
	Reset() bool
}

// Colorer is implemented by stores whose star colour follows the theme.
type Colorer interface {
	SetColor(c colorful.Color)
}

type Options struct {
	Tuning config.Tuning
	Clock  clock.Clock
	Rand   Rand
	Log    *slog.Logger
	Sound  Sound
	Theme  config.Theme
}

type Playground struct {
	store   particle.Store
	sched   *lifecycle.Scheduler
	reg     *scene.Registry
	tracker *emission.Tracker
	engine  *physics.Engine
	glitter *glitter.System
	pops    *effects.Pops

	clock clock.Clock
	rng   Rand
	log   *slog.Logger
	sound Sound
	theme config.Theme
}

// New builds a playground over store. Nothing is placed yet; call
// SeedGenerators once the surface is attached.
func New(store particle.Store, opts Options) *Playground {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Theme.Name == "" {
		opts.Theme = config.Themes[0]
	}
	if opts.Tuning == (config.Tuning{}) {
		opts.Tuning = config.DefaultTuning()
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(opts.Tuning.Seed)
	}

	p := &Playground{
		store:   store,
		sched:   lifecycle.NewScheduler(),
		tracker: emission.NewTracker(),
		glitter: glitter.NewSystem(opts.Rand),
		pops:    effects.NewPops(opts.Clock),
		clock:   opts.Clock,
		rng:     opts.Rand,
		log:     opts.Log,
		sound:   opts.Sound,
		theme:   opts.Theme,
	}
	p.reg = scene.NewRegistry(p.sched, opts.Log)
	p.engine = physics.New(store, p.reg, p.tracker, physics.Options{
		Tuning:  opts.Tuning,
		Clock:   opts.Clock,
		Rand:    opts.Rand,
		Log:     opts.Log,
		Glitter: p.glitter,
		Pops:    p.pops,
	})
	if p.sound != nil {
		p.pops.OnPop = func(r2.Vec) { p.sound.Pop(p.clock.Now()) }
	}
	p.glitter.SetColor(opts.Theme.Glitter)
	return p
}

// NewRand returns a PCG source; seed 0 picks one from the wall clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>32|1))
}

// PlaceObject creates an object of kind at a page position. radius is
// ignored for generators. When the kind is full the oldest member is
// evicted.
func (p *Playground) PlaceObject(kind scene.Kind, page r2.Vec, radius float64) (scene.Object, error) {
	obj, err := scene.New(kind, page, radius)
	if err != nil {
		return nil, fmt.Errorf("place %s: %w", kind, err)
	}
	p.reg.Add(obj, p.clock.Now())
	p.log.Info("placed object", "kind", kind, "x", page.X, "y", page.Y, "radius", radius)
	return obj, nil
}

func (p *Playground) SetRepulsorEnabled(on bool) {
	p.engine.SetRepulsorEnabled(on)
	p.log.Info("repulsor toggled", "enabled", on)
}

func (p *Playground) RepulsorEnabled() bool { return p.engine.RepulsorEnabled() }

// SetCursor records the pointer position in page space.
func (p *Playground) SetCursor(page r2.Vec) { p.engine.SetCursor(page) }

func (p *Playground) ClearCursor() { p.engine.ClearCursor() }

// ClearAll fades out every placed object. The generators go with it, so
// their emissions stop easing too.
func (p *Playground) ClearAll() int {
	n := p.reg.Clear(p.clock.Now())
	p.tracker.Clear()
	p.log.Info("cleared objects", "count", n)
	return n
}

// RemoveAllOfKind fades out every object of kind. Removing the generators
// also stops easing the particles they emitted.
func (p *Playground) RemoveAllOfKind(kind scene.Kind) int {
	n := p.reg.RemoveAll(kind, p.clock.Now())
	if kind == scene.KindGenerator {
		p.tracker.Clear()
	}
	p.log.Info("removed objects", "kind", kind, "count", n)
	return n
}

// TriggerReset empties the registry, the store and every effect at once
// and cancels pending fade-outs. Pops then ripple out from where things
// were: live particles ResetParticleStagger apart, planets, generators and
// sparkle zones ResetObjectStagger apart. Resetter fields vanish silently.
func (p *Playground) TriggerReset() {
	now := p.clock.Now()
	var particles []r2.Vec
	if s, ok := p.store.Surface(); ok && s.Valid() {
		particles = p.particlePages(coords.NewMapper(s))
	}
	var objects []r2.Vec
	for _, pl := range p.reg.Planets() {
		objects = append(objects, pl.Center())
	}
	for _, g := range p.reg.Generators() {
		objects = append(objects, g.Center())
	}
	for _, z := range p.reg.SparkleZones() {
		objects = append(objects, z.Center())
	}

	p.reg.Reset()
	p.sched.CancelAll()
	p.tracker.Clear()
	p.glitter.Clear()
	p.store.Clear()
	p.store.Refresh()
	if p.sound != nil {
		p.sound.Reset()
	}

	for i, pos := range particles {
		p.sched.After(now, time.Duration(i)*config.ResetParticleStagger, func() { p.pops.Pop(pos) })
	}
	for i, pos := range objects {
		p.sched.After(now, time.Duration(i)*config.ResetObjectStagger, func() { p.pops.Pop(pos) })
	}
	p.sched.Run(now)
	p.log.Info("reset", "particles", len(particles), "objects", len(objects))
}

// SetGlitterColor takes a CSS hex colour.
func (p *Playground) SetGlitterColor(css string) error {
	c, err := config.ParseColor(css)
	if err != nil {
		return fmt.Errorf("glitter colour: %w", err)
	}
	p.glitter.SetColor(c)
	p.log.Info("glitter colour set", "color", c.Hex())
	return nil
}

func (p *Playground) GlitterColor() colorful.Color { return p.glitter.Color() }

// ApplyTheme switches colour scheme. Live particles pop, then the store
// is refreshed with the new star colour.
func (p *Playground) ApplyTheme(th config.Theme) {
	p.theme = th
	p.glitter.SetColor(th.Glitter)
	if c, ok := p.store.(Colorer); ok {
		c.SetColor(th.Star)
	}
	popped := 0
	if s, ok := p.store.Surface(); ok && s.Valid() {
		popped = p.popParticles(coords.NewMapper(s))
	}
	p.store.Refresh()
	p.log.Info("theme applied", "theme", th.Name, "popped", popped)
}

func (p *Playground) Theme() config.Theme { return p.theme }

// Burst launches a few particles from a clicked page position.
func (p *Playground) Burst(page r2.Vec) int { return p.engine.Burst(page) }

// SeedGenerators places n generators at random positions on the surface.
func (p *Playground) SeedGenerators(n int) int {
	s, ok := p.store.Surface()
	if !ok || !s.Valid() || p.rng == nil {
		return 0
	}
	size := s.Bounds.Size()
	placed := 0
	for range n {
		page := r2.Vec{
			X: s.Bounds.Min.X + p.rng.Float64()*size.X,
			Y: s.Bounds.Min.Y + p.rng.Float64()*size.Y,
		}
		if _, err := p.PlaceObject(scene.KindGenerator, page, 0); err == nil {
			placed++
		}
	}
	return placed
}

// Frame advances one animation frame: due fade-outs finish, physics runs
// on every K-th frame, glitter and pops animate. A panic inside a frame is
// logged and the next frame runs normally. It reports whether physics ran.
func (p *Playground) Frame() (ran bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Debug("frame aborted", "panic", r)
			ran = false
		}
	}()
	now := p.clock.Now()
	p.sched.Run(now)
	ran = p.engine.Frame()
	p.glitter.Step(now)
	p.pops.Step(now)
	return ran
}

func (p *Playground) popParticles(m coords.Mapper) int {
	pages := p.particlePages(m)
	for _, pos := range pages {
		p.pops.Pop(pos)
	}
	return len(pages)
}

// particlePages lists the page position of every visible particle.
func (p *Playground) particlePages(m coords.Mapper) []r2.Vec {
	var out []r2.Vec
	for _, h := range p.store.Live(nil) {
		pt, ok := p.store.Get(h)
		if !ok || pt.Opacity <= 0 {
			continue
		}
		out = append(out, m.ToPage(pt.Pos))
	}
	return out
}

// Registry exposes the placed objects to renderers.
func (p *Playground) Registry() *scene.Registry { return p.reg }

func (p *Playground) Glitter() *glitter.System { return p.glitter }

func (p *Playground) Pops() *effects.Pops { return p.pops }

// Stats reports what the last physics tick did.
func (p *Playground) Stats() physics.Stats { return p.engine.Stats() }

// Tracked is the number of particles still easing toward the drift.
func (p *Playground) Tracked() int { return p.tracker.Len() }

// Now is the playground clock.
func (p *Playground) Now() time.Time { return p.clock.Now() }
