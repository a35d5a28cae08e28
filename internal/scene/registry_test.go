package scene

import (
	"errors"
	"testing"
	"time"

	"github.com/iburimskiy/particle-playground/internal/lifecycle"
	"gonum.org/v1/gonum/spatial/r2"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func mustNew(t *testing.T, k Kind, x float64) Object {
	t.Helper()
	o, err := New(k, r2.Vec{X: x, Y: x}, 80)
	if err != nil {
		t.Fatalf("New(%s): %v", k, err)
	}
	return o
}

func TestCapacityNeverExceeded(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			reg := NewRegistry(lifecycle.NewScheduler(), nil)
			var placed []Object
			for i := 0; i < k.Capacity()+5; i++ {
				o := mustNew(t, k, float64(i))
				placed = append(placed, o)
				evicted := reg.Add(o, t0)

				if reg.Len(k) > k.Capacity() {
					t.Fatalf("after %d inserts: %d active, capacity %d", i+1, reg.Len(k), k.Capacity())
				}
				if i < k.Capacity() {
					if evicted != nil {
						t.Fatalf("unexpected eviction at insert %d", i+1)
					}
					continue
				}
				// FIFO: the evicted object is the oldest still active
				if want := placed[i-k.Capacity()]; evicted != want {
					t.Fatalf("insert %d evicted %v, want oldest %v", i+1, evicted.Center(), want.Center())
				}
				if reg.State(evicted) != Evicting {
					t.Errorf("evicted object state = %s", reg.State(evicted))
				}
			}

			// Active members are the newest, in insertion order
			var active []Object
			reg.Each(func(o Object) { active = append(active, o) })
			tail := placed[len(placed)-k.Capacity():]
			if len(active) != len(tail) {
				t.Fatalf("active %d, want %d", len(active), len(tail))
			}
			for i := range tail {
				if active[i] != tail[i] {
					t.Errorf("active[%d] = %v, want %v", i, active[i].Center(), tail[i].Center())
				}
			}
		})
	}
}

func TestFadeLifecycle(t *testing.T) {
	sched := lifecycle.NewScheduler()
	reg := NewRegistry(sched, nil)

	var first Object
	for i := 0; i < 4; i++ {
		o := mustNew(t, KindPlanet, float64(i))
		if i == 0 {
			first = o
		}
		reg.Add(o, t0)
	}

	if got := reg.State(first); got != Evicting {
		t.Fatalf("state after overflow = %s, want evicting", got)
	}
	for _, p := range reg.Planets() {
		if Object(p) == first {
			t.Fatal("evicted planet still in the physics set")
		}
	}
	fades := reg.Fading()
	if len(fades) != 1 || fades[0].Object != first {
		t.Fatalf("unexpected fades: %+v", fades)
	}
	if p := fades[0].Progress(t0.Add(250*time.Millisecond), reg.FadeDuration()); p != 0.5 {
		t.Errorf("fade progress = %v, want 0.5", p)
	}

	sched.Run(t0.Add(499 * time.Millisecond))
	if reg.State(first) != Evicting {
		t.Error("removed before fade finished")
	}
	sched.Run(t0.Add(500 * time.Millisecond))
	if reg.State(first) != Removed {
		t.Errorf("state after fade = %s, want removed", reg.State(first))
	}
	if len(reg.Fading()) != 0 {
		t.Error("fade list not emptied")
	}
}

func TestRemoveAllAndClear(t *testing.T) {
	sched := lifecycle.NewScheduler()
	reg := NewRegistry(sched, nil)
	for _, k := range Kinds {
		reg.Add(mustNew(t, k, 1), t0)
		reg.Add(mustNew(t, k, 2), t0)
	}

	if n := reg.RemoveAll(KindGenerator, t0); n != 2 {
		t.Fatalf("RemoveAll(generator) = %d, want 2", n)
	}
	if reg.Len(KindGenerator) != 0 || reg.Len(KindPlanet) != 2 {
		t.Fatal("RemoveAll touched the wrong kind")
	}
	if n := reg.Clear(t0); n != 6 {
		t.Fatalf("Clear = %d, want 6", n)
	}
	for _, k := range Kinds {
		if reg.Len(k) != 0 {
			t.Errorf("%s still active after Clear", k)
		}
	}
	if len(reg.Fading()) != 8 {
		t.Errorf("expected 8 fading objects, got %d", len(reg.Fading()))
	}
	sched.Run(t0.Add(time.Second))
	if len(reg.Fading()) != 0 {
		t.Error("fades did not complete")
	}
}

func TestResetCancelsFades(t *testing.T) {
	sched := lifecycle.NewScheduler()
	reg := NewRegistry(sched, nil)
	for i := 0; i < 5; i++ {
		reg.Add(mustNew(t, KindSparkleZone, float64(i)), t0)
	}
	if sched.Pending() != 3 {
		t.Fatalf("expected 3 pending fades, got %d", sched.Pending())
	}

	reg.Reset()
	if sched.Pending() != 0 {
		t.Errorf("reset left %d pending tasks", sched.Pending())
	}
	if len(reg.Fading()) != 0 || reg.Len(KindSparkleZone) != 0 {
		t.Error("reset left objects behind")
	}
}

func TestNewValidatesRadius(t *testing.T) {
	tests := []struct {
		kind    Kind
		radius  float64
		wantErr error
	}{
		{KindPlanet, 20, nil},
		{KindPlanet, 200, nil},
		{KindPlanet, 19.9, ErrRadiusOutOfRange},
		{KindSparkleZone, 201, ErrRadiusOutOfRange},
		{KindResetterField, 0, ErrRadiusOutOfRange},
		{KindGenerator, 0, nil},
		{Kind(9), 100, ErrUnknownKind},
	}
	for _, tt := range tests {
		o, err := New(tt.kind, r2.Vec{}, tt.radius)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("New(%s, %v) err = %v, want %v", tt.kind, tt.radius, err, tt.wantErr)
			continue
		}
		if err != nil && o != nil {
			t.Errorf("New(%s) returned a non-nil object with an error", tt.kind)
		}
		if err == nil && o.Kind() != tt.kind {
			t.Errorf("New(%s) built a %s", tt.kind, o.Kind())
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("black-hole"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
