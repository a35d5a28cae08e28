// Package game is the desktop front-end: an ebiten game that drives the
// playground once per tick and draws it.
package game

import (
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-playground/internal/audio"
	"github.com/iburimskiy/particle-playground/internal/clock"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/coords"
	"github.com/iburimskiy/particle-playground/internal/playground"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"github.com/iburimskiy/particle-playground/internal/starfield"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type Options struct {
	// HiDPI renders at the monitor's device scale, so surface space and
	// page space differ the way they do on a retina display.
	HiDPI bool
	// Generators is how many random generators to place once the window
	// has a size.
	Generators int
	Clock      clock.Clock
	Log        *slog.Logger
}

// tool is the armed placement tool.
type tool struct {
	kind     scene.Kind
	armed    bool
	dragging bool
	start    r2.Vec
}

type Game struct {
	play  *playground.Playground
	field *starfield.Field
	chime *audio.Chime
	clock clock.Clock
	log   *slog.Logger

	// window size in page pixels and the page-to-screen factor
	outside r2.Vec
	scale   float64
	hidpi   bool

	tool       tool
	themeIdx   int
	generators int
	seeded     bool
	showHelp   bool
	started    time.Time

	// input edge detection
	prevKey map[ebiten.Key]bool

	lastErr error

	vs []ebiten.Vertex
	is []uint16
}

// New creates the game. chime may be nil.
func New(play *playground.Playground, field *starfield.Field, chime *audio.Chime, opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	g := &Game{
		play:       play,
		field:      field,
		chime:      chime,
		clock:      opts.Clock,
		log:        opts.Log,
		scale:      1,
		hidpi:      opts.HiDPI,
		generators: opts.Generators,
		started:    opts.Clock.Now(),
		prevKey:    map[ebiten.Key]bool{},
	}
	for i, th := range config.Themes {
		if th.Name == play.Theme().Name {
			g.themeIdx = i
		}
	}
	return g
}

func (g *Game) Update() error {
	g.attach()
	if !g.seeded && g.generators > 0 {
		if g.play.SeedGenerators(g.generators) > 0 {
			g.seeded = true
		}
	}

	if err := g.handleInput(); err != nil {
		return err
	}

	g.field.Step(g.clock.Now(), time.Second/config.TPS)
	g.play.Frame()
	return nil
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = 1
	if g.hidpi {
		if s := ebiten.Monitor().DeviceScaleFactor(); s > 0 {
			g.scale = s
		}
	}
	g.outside = r2.Vec{X: float64(outsideWidth), Y: float64(outsideHeight)}
	return int(g.outside.X * g.scale), int(g.outside.Y * g.scale)
}

// surface is the render surface below the HUD strip: page-space bounds
// plus the native size of the screen pixels behind them.
func (g *Game) surface() coords.Surface {
	return surfaceFor(g.outside, g.scale)
}

func surfaceFor(outside r2.Vec, scale float64) coords.Surface {
	if outside.Y <= config.HUDHeight {
		return coords.Surface{}
	}
	return coords.Surface{
		Bounds: r2.NewBox(0, config.HUDHeight, outside.X, outside.Y),
		Native: r2.Vec{X: outside.X * scale, Y: (outside.Y - config.HUDHeight) * scale},
	}
}

func (g *Game) attach() {
	s := g.surface()
	if !s.Valid() {
		g.field.Detach()
		return
	}
	g.field.Attach(s)
}

// toScreen maps a page point to screen pixels.
func (g *Game) toScreen(page r2.Vec) r2.Vec {
	return r2.Scale(g.scale, page)
}

// surfaceToScreen maps a surface point to screen pixels; the surface
// starts below the HUD strip.
func (g *Game) surfaceToScreen(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y + config.HUDHeight*g.scale}
}

func (g *Game) cursorPage() r2.Vec {
	x, y := ebiten.CursorPosition()
	return r2.Vec{X: float64(x) / g.scale, Y: float64(y) / g.scale}
}

func (g *Game) onSurface(page r2.Vec) bool {
	b := g.surface().Bounds
	return page.X >= b.Min.X && page.X < b.Max.X && page.Y >= b.Min.Y && page.Y < b.Max.Y
}
