package coords

import "gonum.org/v1/gonum/spatial/r2"

// Circle is a disc in a single coordinate space.
type Circle struct {
	Center r2.Vec
	Radius float64
}

// Contains reports whether p lies strictly inside the circle.
func (c Circle) Contains(p r2.Vec) bool {
	return r2.Norm2(r2.Sub(p, c.Center)) < c.Radius*c.Radius
}

// AnyContains reports whether any circle contains p.
func AnyContains(cs []Circle, p r2.Vec) bool {
	for _, c := range cs {
		if c.Contains(p) {
			return true
		}
	}
	return false
}
