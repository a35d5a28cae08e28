// Package coords converts between page space, where pointer events and
// placed objects live, and surface space, the native pixel buffer the
// particle store draws into.
package coords

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Surface describes the render surface for one frame: its bounding
// rectangle in page space and its native pixel dimensions.
type Surface struct {
	Bounds r2.Box
	Native r2.Vec
}

// Valid reports whether the surface has a usable size on both axes.
func (s Surface) Valid() bool {
	return !s.Bounds.Empty() && s.Native.X > 0 && s.Native.Y > 0
}

// Mapper is built from a Surface snapshot. Build a fresh one every tick;
// the bounding rectangle moves on resize and scroll.
type Mapper struct {
	origin r2.Vec
	scale  r2.Vec
	native r2.Vec
}

func NewMapper(s Surface) Mapper {
	size := s.Bounds.Size()
	return Mapper{
		origin: s.Bounds.Min,
		scale: r2.Vec{
			X: ratio(s.Native.X, size.X),
			Y: ratio(s.Native.Y, size.Y),
		},
		native: s.Native,
	}
}

// ratio falls back to 1 whenever the division would not give a finite,
// positive scale.
func ratio(native, page float64) float64 {
	if page <= 0 || native <= 0 {
		return 1
	}
	r := native / page
	if math.IsNaN(r) || math.IsInf(r, 0) || r == 0 {
		return 1
	}
	return r
}

// ToSurface maps a page point into surface space.
func (m Mapper) ToSurface(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: (p.X - m.origin.X) * m.scale.X,
		Y: (p.Y - m.origin.Y) * m.scale.Y,
	}
}

// ToPage maps a surface point back into page space.
func (m Mapper) ToPage(s r2.Vec) r2.Vec {
	return r2.Vec{
		X: s.X/m.scale.X + m.origin.X,
		Y: s.Y/m.scale.Y + m.origin.Y,
	}
}

// Scale returns the device scaling factors (native/bounding) per axis.
func (m Mapper) Scale() r2.Vec { return m.scale }

// Native returns the surface size in native pixels.
func (m Mapper) Native() r2.Vec { return m.native }

// Length scales a page-space length into surface space. Lengths follow
// the horizontal factor, matching how radii have always been treated.
func (m Mapper) Length(l float64) float64 { return l * m.scale.X }

// Circle maps a page-space circle into surface space.
func (m Mapper) Circle(center r2.Vec, radius float64) Circle {
	return Circle{Center: m.ToSurface(center), Radius: m.Length(radius)}
}

// OffSurface reports whether a surface point lies outside the native
// bounds by more than buffer on any side.
func (m Mapper) OffSurface(p r2.Vec, buffer float64) bool {
	return p.X < -buffer || p.Y < -buffer ||
		p.X > m.native.X+buffer || p.Y > m.native.Y+buffer
}
