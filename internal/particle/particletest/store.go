// Package particletest provides an in-memory particle store for tests.
package particletest

import (
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

type slot struct {
	p     particle.Particle
	gen   uint32
	alive bool
}

// Store is a minimal generational store with knobs for failure paths.
type Store struct {
	Geometry  coords.Surface
	Detached  bool
	RejectAdd bool

	// DestroyErr is returned by Destroy after the slot is freed.
	DestroyErr error
	// DestroyPanics makes Destroy panic without freeing the slot.
	DestroyPanics bool

	Destroyed []particle.Handle
	Refreshes int

	slots []slot
}

// New returns a store whose surface maps page to surface 1:1 over w x h.
func New(w, h float64) *Store {
	return &Store{Geometry: coords.Surface{
		Bounds: r2.NewBox(0, 0, w, h),
		Native: r2.Vec{X: w, Y: h},
	}}
}

// Put adds a particle with full opacity and a default size.
func (s *Store) Put(pos, vel r2.Vec) particle.Handle {
	h, _ := s.add(particle.Particle{Pos: pos, Vel: vel, Opacity: 1, Size: 5})
	return h
}

func (s *Store) Surface() (coords.Surface, bool) {
	if s.Detached {
		return coords.Surface{}, false
	}
	return s.Geometry, true
}

func (s *Store) Len() int {
	n := 0
	for _, sl := range s.slots {
		if sl.alive {
			n++
		}
	}
	return n
}

func (s *Store) Live(dst []particle.Handle) []particle.Handle {
	for i, sl := range s.slots {
		if sl.alive {
			dst = append(dst, particle.Handle{Index: uint32(i), Gen: sl.gen})
		}
	}
	return dst
}

func (s *Store) Get(h particle.Handle) (*particle.Particle, bool) {
	if int(h.Index) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.Index]
	if !sl.alive || sl.gen != h.Gen {
		return nil, false
	}
	return &sl.p, true
}

func (s *Store) Add(pos, vel r2.Vec) (particle.Handle, bool) {
	if s.RejectAdd {
		return particle.Handle{}, false
	}
	return s.add(particle.Particle{Pos: pos, Vel: vel, Opacity: 1, Size: 5})
}

func (s *Store) add(p particle.Particle) (particle.Handle, bool) {
	for i := range s.slots {
		if !s.slots[i].alive {
			s.slots[i].p = p
			s.slots[i].alive = true
			return particle.Handle{Index: uint32(i), Gen: s.slots[i].gen}, true
		}
	}
	s.slots = append(s.slots, slot{p: p, alive: true})
	return particle.Handle{Index: uint32(len(s.slots) - 1)}, true
}

func (s *Store) Destroy(h particle.Handle) error {
	if s.DestroyPanics {
		panic("destroy exploded")
	}
	if _, ok := s.Get(h); !ok {
		return particle.ErrStale
	}
	s.slots[h.Index].alive = false
	s.slots[h.Index].gen++
	s.Destroyed = append(s.Destroyed, h)
	return s.DestroyErr
}

func (s *Store) Clear() {
	for i := range s.slots {
		if s.slots[i].alive {
			s.slots[i].alive = false
			s.slots[i].gen++
		}
	}
}

func (s *Store) Refresh() { s.Refreshes++ }

// Plain hides Destroy so the soft-kill fallback path can be exercised.
type Plain struct{ S *Store }

func (p Plain) Surface() (coords.Surface, bool) { return p.S.Surface() }
func (p Plain) Len() int { return p.S.Len() }
func (p Plain) Live(dst []particle.Handle) []particle.Handle { return p.S.Live(dst) }
func (p Plain) Get(h particle.Handle) (*particle.Particle, bool) { return p.S.Get(h) }
func (p Plain) Add(pos, vel r2.Vec) (particle.Handle, bool) { return p.S.Add(pos, vel) }
func (p Plain) Clear() { p.S.Clear() }
func (p Plain) Refresh() { p.S.Refresh() }
