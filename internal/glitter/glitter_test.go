package glitter

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/particle/particletest"
	"gonum.org/v1/gonum/spatial/r2"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// script replays fixed draws and then repeats the last one.
type script struct {
	vals []float64
	n    int
}

func (s *script) Float64() float64 {
	if len(s.vals) == 0 {
		return 0
	}
	i := min(s.n, len(s.vals)-1)
	s.n++
	return s.vals[i]
}

func TestChance(t *testing.T) {
	if Chance(false) != 0.2 {
		t.Errorf("outside zone: %v", Chance(false))
	}
	if Chance(true) != 0.9 {
		t.Errorf("inside zone: %v", Chance(true))
	}
}

func TestSpawnGeometry(t *testing.T) {
	// size draw, spread draw (0.5 = no deviation), speed draw, rotation draw
	s := NewSystem(&script{vals: []float64{0, 0.5, 0, 0.25}})
	g := s.Spawn(t0, r2.Vec{X: 10, Y: 20}, r2.Vec{X: 2, Y: 0}, 4, false)

	if want := 4 / 0.8 * 0.7; math.Abs(g.Size-want) > 1e-9 {
		t.Errorf("size = %v, want %v", g.Size, want)
	}
	// ejected straight backwards at 30% of the particle speed
	if math.Abs(g.Vel.X+0.6) > 1e-9 || math.Abs(g.Vel.Y) > 1e-9 {
		t.Errorf("vel = %v, want (-0.6, 0)", g.Vel)
	}
	if math.Abs(g.Spin-60) > 1e-9 {
		t.Errorf("spin = %v, want 60", g.Spin)
	}
	if g.Rotation != 90 {
		t.Errorf("rotation = %v, want 90", g.Rotation)
	}
	if g.Color != config.GlitterGold || g.Rainbow {
		t.Errorf("unexpected colour %v rainbow=%v", g.Color.Hex(), g.Rainbow)
	}
	if g.Pos != (r2.Vec{X: 10, Y: 20}) {
		t.Errorf("pos = %v", g.Pos)
	}
}

func TestSpawnRainbowAndDefaultSize(t *testing.T) {
	s := NewSystem(&script{vals: []float64{0, 0.5, 0, 0, 0.99}})
	g := s.Spawn(t0, r2.Vec{}, r2.Vec{X: 1}, 0, true)
	if g.Color != config.Rainbow[len(config.Rainbow)-1] {
		t.Errorf("colour = %s, want last rainbow entry", g.Color.Hex())
	}
	if want := config.DefaultParticleSize / 0.8 * 0.7; math.Abs(g.Size-want) > 1e-9 {
		t.Errorf("size = %v, want %v", g.Size, want)
	}
}

func TestTrailProbability(t *testing.T) {
	tests := []struct {
		name   string
		roll   float64
		inZone bool
		want   int
	}{
		{"below base chance", 0.1, false, 1},
		{"at base chance", 0.2, false, 0},
		{"zone boosts", 0.5, true, 1},
		{"zone still rolls", 0.95, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := particletest.New(800, 600)
			store.Put(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 1})
			m := coords.NewMapper(store.Geometry)

			var zones []coords.Circle
			if tt.inZone {
				zones = append(zones, m.Circle(r2.Vec{X: 100, Y: 100}, 50))
			}
			s := NewSystem(&script{vals: []float64{tt.roll}})
			got := s.Trail(t0, m, zones, store, store.Live(nil))
			if got != tt.want || s.Len() != tt.want {
				t.Errorf("spawned %d (len %d), want %d", got, s.Len(), tt.want)
			}
			if got == 1 {
				var rainbow bool
				s.Each(func(g *Glitter) { rainbow = g.Rainbow })
				if rainbow != tt.inZone {
					t.Errorf("rainbow = %v, want %v", rainbow, tt.inZone)
				}
			}
		})
	}
}

func TestTrailUsesPageSpace(t *testing.T) {
	store := particletest.New(800, 600)
	store.Geometry = coords.Surface{
		Bounds: r2.NewBox(0, 28, 400, 328),
		Native: r2.Vec{X: 800, Y: 600},
	}
	store.Put(r2.Vec{X: 200, Y: 100}, r2.Vec{X: 1})
	s := NewSystem(&script{vals: []float64{0}})
	s.Trail(t0, coords.NewMapper(store.Geometry), nil, store, store.Live(nil))

	s.Each(func(g *Glitter) {
		if g.Pos != (r2.Vec{X: 100, Y: 78}) {
			t.Errorf("glitter at %v, want page (100, 78)", g.Pos)
		}
	})
}

func TestStepAnimatesAndExpires(t *testing.T) {
	s := NewSystem(&script{vals: []float64{0, 0.5, 0, 0}})
	s.Spawn(t0, r2.Vec{}, r2.Vec{X: 2}, 5, false)

	s.Step(t0.Add(16 * time.Millisecond))
	s.Each(func(g *Glitter) {
		if math.Abs(g.Pos.X+0.6) > 1e-9 {
			t.Errorf("pos after one frame = %v", g.Pos)
		}
		if math.Abs(g.Rotation-1) > 1e-9 {
			t.Errorf("rotation after one frame = %v, want 1", g.Rotation)
		}
		now := t0.Add(400 * time.Millisecond)
		if math.Abs(g.Opacity(now)-0.5) > 1e-9 || math.Abs(g.Scale(now)-0.5) > 1e-9 {
			t.Errorf("half life opacity %v scale %v", g.Opacity(now), g.Scale(now))
		}
	})

	s.Step(t0.Add(config.GlitterDuration))
	if s.Len() != 0 {
		t.Errorf("expected glitter to expire, %d left", s.Len())
	}
}

func TestSetColorAndClear(t *testing.T) {
	s := NewSystem(&script{vals: []float64{0}})
	red := config.MustHex("#ff0000")
	s.SetColor(red)
	g := s.Spawn(t0, r2.Vec{}, r2.Vec{X: 1}, 5, false)
	if g.Color != red {
		t.Errorf("colour = %s, want #ff0000", g.Color.Hex())
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("clear left %d", s.Len())
	}
}
