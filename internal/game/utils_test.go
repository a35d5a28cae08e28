package game

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.4, 0.4}, {1, 1}, {3, 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:59"},
		{61 * time.Second, "01:01"},
		{12*time.Minute + 5*time.Second, "12:05"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDragRadius(t *testing.T) {
	origin := r2.Vec{X: 100, Y: 100}
	tests := []struct {
		name string
		to   r2.Vec
		want float64
	}{
		{"tiny drag clamps up", r2.Vec{X: 105, Y: 100}, config.ObjectRadiusMin},
		{"in range", r2.Vec{X: 130, Y: 140}, 50},
		{"huge drag clamps down", r2.Vec{X: 900, Y: 100}, config.ObjectRadiusMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dragRadius(origin, tt.to); got != tt.want {
				t.Errorf("dragRadius = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNRGBA(t *testing.T) {
	c := nrgba(config.MustHex("#ff8000"), 0.5)
	if c.R != 255 || c.G != 128 || c.B != 0 || c.A != 128 {
		t.Errorf("nrgba = %+v", c)
	}
	if nrgba(config.StarColor, 7).A != 255 {
		t.Error("alpha not clamped")
	}
}

func TestAppendStar(t *testing.T) {
	center := r2.Vec{X: 50, Y: 50}
	vs, is := appendStar(nil, nil, center, 10, 5, 0, config.StarColor, 1)
	if len(vs) != 1+2*config.StarPoints || len(is) != 3*2*config.StarPoints {
		t.Fatalf("got %d vertices %d indices", len(vs), len(is))
	}
	// first tip points straight up with no rotation
	if math.Abs(float64(vs[1].DstX)-50) > 1e-4 || math.Abs(float64(vs[1].DstY)-40) > 1e-4 {
		t.Errorf("first tip at (%v, %v)", vs[1].DstX, vs[1].DstY)
	}
	for i := 1; i < len(vs); i++ {
		d := math.Hypot(float64(vs[i].DstX)-50, float64(vs[i].DstY)-50)
		want := 10.0
		if i%2 == 0 {
			want = 5
		}
		if math.Abs(d-want) > 1e-4 {
			t.Errorf("vertex %d at distance %v, want %v", i, d, want)
		}
	}

	// a second star continues the index space
	vs, is = appendStar(vs, is, center, 10, 5, 0, config.StarColor, 1)
	if is[len(is)-3] != 11 {
		t.Errorf("second star indices start at %d, want 11", is[len(is)-3])
	}
	if len(vs) != 22 {
		t.Errorf("vertices = %d", len(vs))
	}
}

func TestAppendDiamond(t *testing.T) {
	vs, is := appendDiamond(nil, nil, r2.Vec{}, 2, 45, config.GlitterGold, 0.5)
	if len(vs) != 4 || len(is) != 6 {
		t.Fatalf("got %d vertices %d indices", len(vs), len(is))
	}
	// rotated 45 degrees the square is axis aligned with side 2
	if math.Abs(float64(vs[0].DstX)-1) > 1e-4 || math.Abs(float64(vs[0].DstY)-1) > 1e-4 {
		t.Errorf("corner at (%v, %v), want (1, 1)", vs[0].DstX, vs[0].DstY)
	}
	if vs[0].ColorA != 0.5 {
		t.Errorf("alpha = %v", vs[0].ColorA)
	}
}

func TestSurfaceFor(t *testing.T) {
	s := surfaceFor(r2.Vec{X: 800, Y: 628}, 2)
	if !s.Valid() {
		t.Fatal("surface should be valid")
	}
	if s.Bounds.Min != (r2.Vec{X: 0, Y: config.HUDHeight}) || s.Bounds.Max != (r2.Vec{X: 800, Y: 628}) {
		t.Errorf("bounds = %+v", s.Bounds)
	}
	if s.Native != (r2.Vec{X: 1600, Y: 1200}) {
		t.Errorf("native = %v", s.Native)
	}

	if surfaceFor(r2.Vec{X: 800, Y: config.HUDHeight}, 1).Valid() {
		t.Error("window no taller than the HUD has no surface")
	}
}
