package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// nrgba converts a theme colour and an opacity in [0,1] for the vector
// helpers, which expect straight alpha.
func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// dragRadius turns a shift-drag into an object radius.
func dragRadius(from, to r2.Vec) float64 {
	d := r2.Norm(r2.Sub(to, from))
	return math.Min(math.Max(d, config.ObjectRadiusMin), config.ObjectRadiusMax)
}

func vertex(p r2.Vec, c colorful.Color, alpha float64) ebiten.Vertex {
	c = c.Clamped()
	return ebiten.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.R),
		ColorG: float32(c.G),
		ColorB: float32(c.B),
		ColorA: float32(clamp01(alpha)),
	}
}

// appendStar appends a filled star as a triangle fan around its centre.
// The outline alternates between the outer and inner radius.
func appendStar(vs []ebiten.Vertex, is []uint16, center r2.Vec, outer, inner, rotation float64, c colorful.Color, alpha float64) ([]ebiten.Vertex, []uint16) {
	base := uint16(len(vs))
	vs = append(vs, vertex(center, c, alpha))
	n := config.StarPoints * 2
	rot := rotation*math.Pi/180 - math.Pi/2
	for i := range n {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := rot + float64(i)*math.Pi/config.StarPoints
		vs = append(vs, vertex(r2.Vec{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}, c, alpha))
	}
	for i := range n {
		is = append(is, base, base+1+uint16(i), base+1+uint16((i+1)%n))
	}
	return vs, is
}

// appendDiamond appends a rotated square of side size centred on center.
func appendDiamond(vs []ebiten.Vertex, is []uint16, center r2.Vec, size, rotation float64, c colorful.Color, alpha float64) ([]ebiten.Vertex, []uint16) {
	base := uint16(len(vs))
	half := size / math.Sqrt2
	rot := rotation * math.Pi / 180
	for i := range 4 {
		a := rot + float64(i)*math.Pi/2
		vs = append(vs, vertex(r2.Vec{X: center.X + half*math.Cos(a), Y: center.Y + half*math.Sin(a)}, c, alpha))
	}
	is = append(is, base, base+1, base+2, base, base+2, base+3)
	return vs, is
}

func rimPoint(center r2.Vec, r, angle float64) r2.Vec {
	return r2.Vec{X: center.X + r*math.Cos(angle), Y: center.Y + r*math.Sin(angle)}
}
