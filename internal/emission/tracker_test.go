package emission

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/iburimskiy/particle-playground/internal/particle/particletest"
	"gonum.org/v1/gonum/spatial/r2"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestVelocityEndpoints(t *testing.T) {
	tr := NewTracker()
	initial := r2.Vec{X: -1, Y: 0}

	if got := tr.Velocity(initial, 0); !near(got, initial) {
		t.Errorf("age 0: %v, want %v", got, initial)
	}
	if got := tr.Velocity(initial, tr.Duration()); !near(got, Target) {
		t.Errorf("age=duration: %v, want %v", got, Target)
	}
	mid := tr.Velocity(initial, tr.Duration()/2)
	want := r2.Vec{X: (-1 + Target.X) / 2, Y: Target.Y / 2}
	if !near(mid, want) {
		t.Errorf("half way: %v, want %v", mid, want)
	}
}

func TestStepInterpolates(t *testing.T) {
	store := particletest.New(800, 600)
	tr := NewTracker()
	initial := r2.Vec{X: 0, Y: -1}
	h := store.Put(r2.Vec{X: 100, Y: 100}, initial)
	tr.Track(h, t0, initial)

	steps := []struct {
		at   time.Duration
		want r2.Vec
	}{
		{0, initial},
		{500 * time.Millisecond, tr.Velocity(initial, 500*time.Millisecond)},
		{2000 * time.Millisecond, Target},
	}
	for _, s := range steps {
		tr.Step(t0.Add(s.at), store, nil)
		p, _ := store.Get(h)
		if !near(p.Vel, s.want) {
			t.Errorf("at %v: vel %v, want %v", s.at, p.Vel, s.want)
		}
	}
	if tr.Len() != 1 {
		t.Fatalf("record dropped at exactly the duration")
	}

	tr.Step(t0.Add(2001*time.Millisecond), store, nil)
	if tr.Len() != 0 {
		t.Error("record kept past the transition")
	}
	if _, ok := store.Get(h); !ok {
		t.Error("expiry must not remove the particle from the store")
	}
}

func TestStepDropsStale(t *testing.T) {
	store := particletest.New(800, 600)
	tr := NewTracker()
	h := store.Put(r2.Vec{}, r2.Vec{X: 1})
	tr.Track(h, t0, r2.Vec{X: 1})
	if err := store.Destroy(h); err != nil {
		t.Fatal(err)
	}
	// Reuse the slot; the old handle must not resolve to the newcomer
	other := store.Put(r2.Vec{}, r2.Vec{X: 9, Y: 9})

	tr.Step(t0.Add(100*time.Millisecond), store, nil)
	if tr.Len() != 0 {
		t.Error("stale emission still tracked")
	}
	if p, _ := store.Get(other); p.Vel != (r2.Vec{X: 9, Y: 9}) {
		t.Errorf("newcomer in the reused slot was eased: %v", p.Vel)
	}
}

func TestDeflectionRestartsTransition(t *testing.T) {
	store := particletest.New(800, 600)
	tr := NewTracker()
	h := store.Put(r2.Vec{}, r2.Vec{X: 1})
	tr.Track(h, t0, r2.Vec{X: 1})

	kicked := r2.Vec{X: -5, Y: 3}
	deflect := func(p *particle.Particle, age time.Duration) bool {
		if age < time.Second {
			return false
		}
		p.Vel = kicked
		return true
	}

	now := t0.Add(1500 * time.Millisecond)
	tr.Step(now, store, deflect)
	p, _ := store.Get(h)
	if !near(p.Vel, kicked) {
		t.Fatalf("velocity after deflection = %v, want %v", p.Vel, kicked)
	}
	e := tr.Emissions()[0]
	if !e.Born.Equal(now) || e.Initial != kicked {
		t.Errorf("record not restarted: %+v", e)
	}

	// The restarted transition outlives the original deadline
	tr.Step(t0.Add(2500*time.Millisecond), store, func(*particle.Particle, time.Duration) bool { return false })
	if tr.Len() != 1 {
		t.Fatal("restarted record expired on the old schedule")
	}
	p, _ = store.Get(h)
	if want := tr.Velocity(kicked, time.Second); !near(p.Vel, want) {
		t.Errorf("vel %v, want %v", p.Vel, want)
	}
}

func TestClear(t *testing.T) {
	store := particletest.New(10, 10)
	tr := NewTracker()
	h := store.Put(r2.Vec{}, r2.Vec{})
	tr.Track(h, t0, r2.Vec{})
	tr.Clear()
	if tr.Len() != 0 {
		t.Error("Clear left records")
	}
	if store.Len() != 1 {
		t.Error("Clear touched the store")
	}
}

func TestStepDropsKilledParticles(t *testing.T) {
	store := particletest.New(800, 600)
	tr := NewTracker()
	initial := r2.Vec{X: 3, Y: 0}
	h := store.Put(r2.Vec{X: 100, Y: 100}, initial)
	tr.Track(h, t0, initial)

	p, _ := store.Get(h)
	if err := particle.SoftKill(particletest.Plain{S: store}, h, p); err != nil {
		t.Fatal(err)
	}
	tr.Step(t0.Add(100*time.Millisecond), store, nil)

	if tr.Len() != 0 {
		t.Errorf("killed particle still tracked")
	}
	if p.Vel != (r2.Vec{}) || p.Pos != particle.KillPosition {
		t.Errorf("killed particle moved: %+v", *p)
	}
}
