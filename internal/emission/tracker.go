// Package emission tracks particles the core adds to the store and eases
// their velocity from the launch velocity to the steady diagonal drift.
package emission

import (
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

// Target is the steady-state diagonal velocity.
var Target = r2.Vec{X: config.DiagonalVX, Y: config.DiagonalVY}

// Emission is the bookkeeping for one programmatically added particle.
type Emission struct {
	Handle  particle.Handle
	Born    time.Time
	Initial r2.Vec
}

// Resolver looks particles up by handle.
type Resolver interface {
	Get(h particle.Handle) (*particle.Particle, bool)
}

// Deflector runs before interpolation for every tracked particle still in
// transition. Returning true means it changed the particle's velocity and
// the transition restarts from that velocity.
type Deflector func(p *particle.Particle, age time.Duration) bool

type Tracker struct {
	items    []Emission
	duration time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{duration: config.TransitionDuration}
}

// Duration is the length of the launch-to-drift transition.
func (t *Tracker) Duration() time.Duration { return t.duration }

// Track starts easing the particle behind h from initial.
func (t *Tracker) Track(h particle.Handle, born time.Time, initial r2.Vec) {
	t.items = append(t.items, Emission{Handle: h, Born: born, Initial: initial})
}

func (t *Tracker) Len() int { return len(t.items) }

// Emissions returns a copy of the tracked records.
func (t *Tracker) Emissions() []Emission {
	return append([]Emission(nil), t.items...)
}

// Clear forgets every emission. The particles stay in the store.
func (t *Tracker) Clear() { t.items = t.items[:0] }

// Velocity interpolates from initial toward Target at the given age.
func (t *Tracker) Velocity(initial r2.Vec, age time.Duration) r2.Vec {
	progress := float64(age) / float64(t.duration)
	progress = min(max(progress, 0), 1)
	return r2.Add(initial, r2.Scale(progress, r2.Sub(Target, initial)))
}

// Step eases every tracked particle for this tick. Records older than the
// transition, or whose particle no longer resolves or has been faded to
// zero opacity by a kill, are dropped from tracking only.
func (t *Tracker) Step(now time.Time, store Resolver, deflect Deflector) {
	kept := t.items[:0]
	for _, e := range t.items {
		age := now.Sub(e.Born)
		if age > t.duration {
			continue
		}
		p, ok := store.Get(e.Handle)
		if !ok || p.Opacity <= 0 {
			continue
		}
		if deflect != nil && deflect(p, age) {
			e.Initial = p.Vel
			e.Born = now
			age = 0
		}
		p.Vel = t.Velocity(e.Initial, age)
		kept = append(kept, e)
	}
	t.items = kept
}
