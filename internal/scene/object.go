// Package scene holds the objects the user places on the playground:
// planets, generators, sparkle zones and resetter fields.
package scene

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iburimskiy/particle-playground/internal/config"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrRadiusOutOfRange = errors.New("scene: radius out of range")
	ErrUnknownKind      = errors.New("scene: unknown object kind")
)

// Kind discriminates the placed object variants.
type Kind uint8

const (
	KindPlanet Kind = iota
	KindGenerator
	KindSparkleZone
	KindResetterField
)

// Kinds lists every kind in registry order.
var Kinds = []Kind{KindPlanet, KindGenerator, KindSparkleZone, KindResetterField}

var kindNames = [...]string{"planet", "generator", "sparkle-zone", "resetter-field"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Capacity is the maximum number of active objects of this kind.
func (k Kind) Capacity() int {
	switch k {
	case KindPlanet:
		return config.MaxPlanets
	case KindGenerator:
		return config.MaxGenerators
	case KindSparkleZone:
		return config.MaxSparkleZones
	case KindResetterField:
		return config.MaxResetterFields
	}
	return 0
}

// Sized reports whether objects of this kind carry a radius.
func (k Kind) Sized() bool { return k != KindGenerator }

// ParseKind accepts the names used by the palette ("planet", "sparkle-zone", ...).
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if s == n {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Object is a placed object. The set of implementations is closed:
// *Planet, *Generator, *SparkleZone and *ResetterField.
type Object interface {
	Kind() Kind
	// Center is the page-space position.
	Center() r2.Vec
	sealed()
}

// Disc is implemented by the radius-carrying kinds.
type Disc interface {
	Object
	Radius() float64
}

type disc struct {
	center r2.Vec
	radius float64
}

func newDisc(center r2.Vec, radius float64) (disc, error) {
	if radius < config.ObjectRadiusMin || radius > config.ObjectRadiusMax {
		return disc{}, fmt.Errorf("%w: %.1f not in [%d, %d]",
			ErrRadiusOutOfRange, radius, config.ObjectRadiusMin, config.ObjectRadiusMax)
	}
	return disc{center: center, radius: radius}, nil
}

func (d *disc) Center() r2.Vec  { return d.center }
func (d *disc) Radius() float64 { return d.radius }
func (d *disc) sealed()         {}

// Planet attracts particles within its radius and destroys those that
// reach its core.
type Planet struct{ disc }

func NewPlanet(center r2.Vec, radius float64) (*Planet, error) {
	d, err := newDisc(center, radius)
	if err != nil {
		return nil, err
	}
	return &Planet{d}, nil
}

func (*Planet) Kind() Kind { return KindPlanet }

// SparkleZone raises the glitter spawn rate and switches it to rainbow.
type SparkleZone struct{ disc }

func NewSparkleZone(center r2.Vec, radius float64) (*SparkleZone, error) {
	d, err := newDisc(center, radius)
	if err != nil {
		return nil, err
	}
	return &SparkleZone{d}, nil
}

func (*SparkleZone) Kind() Kind { return KindSparkleZone }

// ResetterField snaps particle velocity back to the diagonal drift.
type ResetterField struct{ disc }

func NewResetterField(center r2.Vec, radius float64) (*ResetterField, error) {
	d, err := newDisc(center, radius)
	if err != nil {
		return nil, err
	}
	return &ResetterField{d}, nil
}

func (*ResetterField) Kind() Kind { return KindResetterField }

// Generator emits one particle per interval while the store has room.
type Generator struct {
	center r2.Vec

	// LastEmit is the time of the last emission; zero emits immediately.
	LastEmit time.Time
	// Disabled is set while the store is at capacity.
	Disabled bool
}

func NewGenerator(center r2.Vec) *Generator {
	return &Generator{center: center}
}

func (g *Generator) Kind() Kind     { return KindGenerator }
func (g *Generator) Center() r2.Vec { return g.center }
func (g *Generator) sealed()        {}

// New builds an object of the given kind. radius is ignored for generators.
func New(kind Kind, center r2.Vec, radius float64) (Object, error) {
	var (
		obj Object
		err error
	)
	switch kind {
	case KindPlanet:
		var p *Planet
		p, err = NewPlanet(center, radius)
		obj = p
	case KindGenerator:
		obj = NewGenerator(center)
	case KindSparkleZone:
		var z *SparkleZone
		z, err = NewSparkleZone(center, radius)
		obj = z
	case KindResetterField:
		var f *ResetterField
		f, err = NewResetterField(center, radius)
		obj = f
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}
