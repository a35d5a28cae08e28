// Package particle defines the contract between the simulation core and
// the particle store that owns and draws the live star particles.
package particle

import (
	"errors"
	"fmt"

	"github.com/iburimskiy/particle-playground/internal/coords"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrStale is returned for operations on a handle whose slot has been
// reused or freed.
var ErrStale = errors.New("particle: stale handle")

// Handle names a store slot. Gen is bumped whenever the slot is freed, so
// a handle held across frames detects reuse structurally.
type Handle struct {
	Index uint32
	Gen   uint32
}

// Particle is the mutable state of a live particle in surface space.
type Particle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Opacity float64
	Size    float64
}

// Store is the particle engine as seen by the core.
type Store interface {
	// Surface reports the current render surface; ok is false while no
	// surface is attached.
	Surface() (s coords.Surface, ok bool)
	// Len is the number of live particles.
	Len() int
	// Live appends the handles of all live particles to dst. The result is
	// a stable snapshot for one tick.
	Live(dst []Handle) []Handle
	// Get resolves a handle. ok is false once the particle is gone. The
	// pointer stays valid until the next Add or Clear.
	Get(h Handle) (p *Particle, ok bool)
	// Add inserts a particle at pos (surface space) moving at vel.
	Add(pos, vel r2.Vec) (Handle, bool)
	// Clear removes every particle.
	Clear()
	// Refresh re-applies store configuration (colours, emitters).
	Refresh()
}

// Destroyer is implemented by stores that can structurally remove a
// particle. It is optional; SoftKill works without it.
type Destroyer interface {
	Destroy(h Handle) error
}

// KillPosition is where soft-killed particles are parked.
var KillPosition = r2.Vec{X: -10000, Y: -10000}

// SoftKill neutralises p and then asks the store to destroy it, if it
// can. Destroy errors are returned for logging only; the particle is inert
// either way.
func SoftKill(s Store, h Handle, p *Particle) (err error) {
	p.Opacity = 0
	p.Vel = r2.Vec{}
	p.Pos = KillPosition

	d, ok := s.(Destroyer)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("particle: destroy panicked: %v", r)
		}
	}()
	return d.Destroy(h)
}
