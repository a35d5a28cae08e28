package effects

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/particle-playground/internal/clock"
	"gonum.org/v1/gonum/spatial/r2"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPopLifetime(t *testing.T) {
	clk := clock.NewMock(t0)
	pops := NewPops(clk)

	var heard []r2.Vec
	pops.OnPop = func(pos r2.Vec) { heard = append(heard, pos) }

	pops.Pop(r2.Vec{X: 10, Y: 20})
	clk.Advance(200 * time.Millisecond)
	pops.Pop(r2.Vec{X: 30, Y: 40})

	if len(heard) != 2 || heard[1] != (r2.Vec{X: 30, Y: 40}) {
		t.Fatalf("OnPop calls: %v", heard)
	}

	var progress []float64
	pops.Each(clk.Now(), func(_ Pop, p float64) { progress = append(progress, p) })
	if len(progress) != 2 || math.Abs(progress[0]-0.5) > 1e-9 || progress[1] != 0 {
		t.Errorf("progress = %v, want [0.5 0]", progress)
	}

	pops.Step(t0.Add(400 * time.Millisecond))
	if pops.Len() != 1 {
		t.Fatalf("expected first pop to finish, %d left", pops.Len())
	}
	pops.Step(t0.Add(600 * time.Millisecond))
	if pops.Len() != 0 {
		t.Errorf("expected all pops finished, %d left", pops.Len())
	}
}

func TestPopsClear(t *testing.T) {
	pops := NewPops(clock.NewMock(t0))
	pops.Pop(r2.Vec{})
	pops.Pop(r2.Vec{})
	pops.Clear()
	if pops.Len() != 0 {
		t.Errorf("clear left %d", pops.Len())
	}
}
