package starfield

import (
	"github.com/iburimskiy/particle-playground/internal/config"
	"gonum.org/v1/gonum/spatial/r2"
)

// Emitter feeds stars in along one edge of the surface. Anchor and Span
// are fractions of the native surface size.
type Emitter struct {
	Name      string
	Anchor    r2.Vec
	Span      r2.Vec
	Direction r2.Vec
}

var (
	bottomRight = r2.Vec{X: config.DiagonalVX, Y: config.DiagonalVY}
	bottomLeft  = r2.Vec{X: -config.DiagonalVX, Y: config.DiagonalVY}
	topRight    = r2.Vec{X: config.DiagonalVX, Y: -config.DiagonalVY}
)

// EdgeEmitters returns the four default emitters: top and left drift to the
// bottom right, right drifts to the bottom left, bottom drifts up and right.
func EdgeEmitters() []Emitter {
	return []Emitter{
		{Name: "top", Anchor: r2.Vec{X: 0.5, Y: 0}, Span: r2.Vec{X: 1}, Direction: bottomRight},
		{Name: "left", Anchor: r2.Vec{X: 0, Y: 0.5}, Span: r2.Vec{Y: 1}, Direction: bottomRight},
		{Name: "right", Anchor: r2.Vec{X: 1, Y: 0.5}, Span: r2.Vec{Y: 1}, Direction: bottomLeft},
		{Name: "bottom", Anchor: r2.Vec{X: 0.5, Y: 1}, Span: r2.Vec{X: 1}, Direction: topRight},
	}
}

// spawn picks a point along the emitter edge; roll is uniform in [0,1).
func (e Emitter) spawn(native r2.Vec, roll float64) r2.Vec {
	off := roll - 0.5
	return r2.Vec{
		X: (e.Anchor.X + off*e.Span.X) * native.X,
		Y: (e.Anchor.Y + off*e.Span.Y) * native.Y,
	}
}
