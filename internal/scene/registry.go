package scene

import (
	"log/slog"
	"slices"
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/lifecycle"
)

// State is the lifecycle of a placed object slot.
type State uint8

const (
	// Removed objects are gone from physics and from the screen.
	Removed State = iota
	// Active objects take part in physics.
	Active
	// Evicting objects no longer take part in physics; only their fade-out
	// is still drawn.
	Evicting
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Evicting:
		return "evicting"
	}
	return "removed"
}

// Fade is an evicted object whose visual is still fading out.
type Fade struct {
	Object  Object
	Started time.Time
	task    lifecycle.TaskID
}

// Progress is how far the fade has run at now, in [0, 1].
func (f Fade) Progress(now time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	p := float64(now.Sub(f.Started)) / float64(d)
	return min(max(p, 0), 1)
}

// bounded is a FIFO collection with a fixed capacity.
type bounded[T Object] struct {
	items []T
	limit int
}

func (b *bounded[T]) push(v T) (evicted []T) {
	b.items = append(b.items, v)
	if over := len(b.items) - b.limit; over > 0 {
		evicted = slices.Clone(b.items[:over])
		b.items = slices.Delete(b.items, 0, over)
	}
	return evicted
}

func (b *bounded[T]) drain() []T {
	out := b.items
	b.items = nil
	return out
}

// Registry holds the active placed objects per kind and the fade-outs of
// evicted ones. It is owned by the frame loop and is not locked.
type Registry struct {
	planets   bounded[*Planet]
	gens      bounded[*Generator]
	sparkles  bounded[*SparkleZone]
	resetters bounded[*ResetterField]

	fading []*Fade
	sched  *lifecycle.Scheduler
	fade   time.Duration
	log    *slog.Logger
}

// NewRegistry creates an empty registry whose fade-outs run on sched.
func NewRegistry(sched *lifecycle.Scheduler, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		planets:   bounded[*Planet]{limit: KindPlanet.Capacity()},
		gens:      bounded[*Generator]{limit: KindGenerator.Capacity()},
		sparkles:  bounded[*SparkleZone]{limit: KindSparkleZone.Capacity()},
		resetters: bounded[*ResetterField]{limit: KindResetterField.Capacity()},
		sched:     sched,
		fade:      config.FadeOutDuration,
		log:       log,
	}
}

// FadeDuration is how long evicted objects linger visually.
func (r *Registry) FadeDuration() time.Duration { return r.fade }

// Add inserts obj. When the kind is at capacity the oldest member is
// evicted immediately and returned; its visual fades out over the fade
// duration.
func (r *Registry) Add(obj Object, now time.Time) Object {
	var evicted []Object
	switch o := obj.(type) {
	case *Planet:
		evicted = upcast(r.planets.push(o))
	case *Generator:
		evicted = upcast(r.gens.push(o))
	case *SparkleZone:
		evicted = upcast(r.sparkles.push(o))
	case *ResetterField:
		evicted = upcast(r.resetters.push(o))
	default:
		return nil
	}
	for _, e := range evicted {
		r.log.Info("evicting oldest object", "kind", e.Kind(), "capacity", e.Kind().Capacity())
		r.evict(e, now)
	}
	if len(evicted) == 0 {
		return nil
	}
	return evicted[0]
}

// RemoveAll evicts every active object of kind and returns how many.
func (r *Registry) RemoveAll(kind Kind, now time.Time) int {
	var removed []Object
	switch kind {
	case KindPlanet:
		removed = upcast(r.planets.drain())
	case KindGenerator:
		removed = upcast(r.gens.drain())
	case KindSparkleZone:
		removed = upcast(r.sparkles.drain())
	case KindResetterField:
		removed = upcast(r.resetters.drain())
	}
	for _, o := range removed {
		r.evict(o, now)
	}
	return len(removed)
}

// Clear evicts every active object of every kind.
func (r *Registry) Clear(now time.Time) int {
	n := 0
	for _, k := range Kinds {
		n += r.RemoveAll(k, now)
	}
	return n
}

// Reset drops every object, active or fading, at once and cancels the
// pending fade-out tasks.
func (r *Registry) Reset() {
	r.planets.drain()
	r.gens.drain()
	r.sparkles.drain()
	r.resetters.drain()
	for _, f := range r.fading {
		r.sched.Cancel(f.task)
	}
	r.fading = nil
}

func (r *Registry) evict(o Object, now time.Time) {
	f := &Fade{Object: o, Started: now}
	f.task = r.sched.After(now, r.fade, func() { r.finish(f) })
	r.fading = append(r.fading, f)
}

func (r *Registry) finish(f *Fade) {
	r.fading = slices.DeleteFunc(r.fading, func(x *Fade) bool { return x == f })
}

// Planets returns the active planets in insertion order. Callers must not
// modify the slice.
func (r *Registry) Planets() []*Planet { return r.planets.items }

// Generators returns the active generators in insertion order.
func (r *Registry) Generators() []*Generator { return r.gens.items }

// SparkleZones returns the active sparkle zones in insertion order.
func (r *Registry) SparkleZones() []*SparkleZone { return r.sparkles.items }

// ResetterFields returns the active resetter fields in insertion order.
func (r *Registry) ResetterFields() []*ResetterField { return r.resetters.items }

// Len is the number of active objects of kind.
func (r *Registry) Len(kind Kind) int {
	switch kind {
	case KindPlanet:
		return len(r.planets.items)
	case KindGenerator:
		return len(r.gens.items)
	case KindSparkleZone:
		return len(r.sparkles.items)
	case KindResetterField:
		return len(r.resetters.items)
	}
	return 0
}

// Each visits every active object, kind by kind, in insertion order.
func (r *Registry) Each(fn func(Object)) {
	for _, p := range r.planets.items {
		fn(p)
	}
	for _, g := range r.gens.items {
		fn(g)
	}
	for _, z := range r.sparkles.items {
		fn(z)
	}
	for _, f := range r.resetters.items {
		fn(f)
	}
}

// Fading returns the objects whose fade-out is still running.
func (r *Registry) Fading() []Fade {
	out := make([]Fade, 0, len(r.fading))
	for _, f := range r.fading {
		out = append(out, *f)
	}
	return out
}

// State reports where obj is in its lifecycle.
func (r *Registry) State(obj Object) State {
	found := false
	r.Each(func(o Object) {
		if o == obj {
			found = true
		}
	})
	if found {
		return Active
	}
	for _, f := range r.fading {
		if f.Object == obj {
			return Evicting
		}
	}
	return Removed
}

func upcast[T Object](in []T) []Object {
	if len(in) == 0 {
		return nil
	}
	out := make([]Object, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
