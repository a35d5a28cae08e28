package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// A terminal cell stands for a cellW x cellH block of page pixels and a
// cellW/2 x cellH/2 block of surface pixels. Row 0 is the status line.
const (
	cellW = 8
	cellH = 16

	surfaceScale = 0.5
	hudRows      = 1
)

type cell struct{ x, y int }

// grid maps between terminal cells, page space and the render surface.
type grid struct {
	cols, rows int
}

func (g grid) surface() coords.Surface {
	if g.cols <= 0 || g.rows <= hudRows {
		return coords.Surface{}
	}
	page := g.pageSize()
	return coords.Surface{
		Bounds: r2.NewBox(0, hudRows*cellH, page.X, page.Y),
		Native: r2.Vec{
			X: page.X * surfaceScale,
			Y: (page.Y - hudRows*cellH) * surfaceScale,
		},
	}
}

func (g grid) pageSize() r2.Vec {
	return r2.Vec{X: float64(g.cols * cellW), Y: float64(g.rows * cellH)}
}

// cellCenter is the page position under the middle of a cell.
func (g grid) cellCenter(x, y int) r2.Vec {
	return r2.Vec{X: (float64(x) + 0.5) * cellW, Y: (float64(y) + 0.5) * cellH}
}

func (g grid) pageCell(p r2.Vec) (cell, bool) {
	c := cell{x: int(math.Floor(p.X / cellW)), y: int(math.Floor(p.Y / cellH))}
	return c, g.playable(c)
}

func (g grid) surfaceCell(s r2.Vec) (cell, bool) {
	c := cell{
		x: int(math.Floor(s.X / (cellW * surfaceScale))),
		y: hudRows + int(math.Floor(s.Y/(cellH*surfaceScale))),
	}
	return c, g.playable(c)
}

func (g grid) playable(c cell) bool {
	return c.x >= 0 && c.x < g.cols && c.y >= hudRows && c.y < g.rows
}

// ring lists the cells on a circle of page radius r around center.
func (g grid) ring(center r2.Vec, r float64) []cell {
	steps := max(12, int(2*math.Pi*r/cellW))
	seen := make(map[cell]bool, steps)
	out := make([]cell, 0, steps)
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c, ok := g.pageCell(r2.Vec{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// tint blends c toward the background by alpha and converts it for tcell.
func tint(c, bg colorful.Color, alpha float64) tcell.Color {
	alpha = math.Min(math.Max(alpha, 0), 1)
	r, g, b := bg.BlendRgb(c, alpha).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// dragRadius turns a mouse drag into an object radius. Drags shorter
// than a cell place the default size.
func dragRadius(from, to r2.Vec) float64 {
	d := r2.Norm(r2.Sub(to, from))
	if d < cellW {
		return config.ObjectRadiusDefault
	}
	return math.Min(math.Max(d, config.ObjectRadiusMin), config.ObjectRadiusMax)
}
