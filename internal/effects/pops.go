// Package effects holds the short visual effects layered over the
// particle surface.
package effects

import (
	"time"

	"github.com/iburimskiy/particle-playground/internal/clock"
	"github.com/iburimskiy/particle-playground/internal/config"
	"gonum.org/v1/gonum/spatial/r2"
)

// Pop is a burst effect at a page position.
type Pop struct {
	Pos  r2.Vec
	Born time.Time
}

// Progress is the fraction of the pop animation elapsed at now.
func (p Pop) Progress(now time.Time) float64 {
	v := float64(now.Sub(p.Born)) / float64(config.PopDuration)
	return min(max(v, 0), 1)
}

// Pops collects pop effects. It satisfies the physics engine's pop sink;
// OnPop, when set, is told about every pop as it happens.
type Pops struct {
	items []Pop
	clock clock.Clock

	OnPop func(pos r2.Vec)
}

func NewPops(clock clock.Clock) *Pops {
	return &Pops{clock: clock}
}

// Pop records a pop centred on pos.
func (p *Pops) Pop(pos r2.Vec) {
	p.items = append(p.items, Pop{Pos: pos, Born: p.clock.Now()})
	if p.OnPop != nil {
		p.OnPop(pos)
	}
}

// Step drops finished pops.
func (p *Pops) Step(now time.Time) {
	kept := p.items[:0]
	for _, it := range p.items {
		if now.Sub(it.Born) < config.PopDuration {
			kept = append(kept, it)
		}
	}
	p.items = kept
}

// Each visits the live pops with their animation progress.
func (p *Pops) Each(now time.Time, fn func(pop Pop, progress float64)) {
	for _, it := range p.items {
		fn(it, it.Progress(now))
	}
}

func (p *Pops) Len() int { return len(p.items) }

// Clear removes every pop.
func (p *Pops) Clear() { p.items = p.items[:0] }
