package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"
	"gonum.org/v1/gonum/spatial/r2"
)

var toolKeys = map[ebiten.Key]scene.Kind{
	ebiten.KeyDigit1: scene.KindPlanet,
	ebiten.KeyDigit2: scene.KindGenerator,
	ebiten.KeyDigit3: scene.KindSparkleZone,
	ebiten.KeyDigit4: scene.KindResetterField,
}

func (g *Game) handleInput() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	for k, kind := range toolKeys {
		if justPressed(k) {
			g.tool = tool{kind: kind, armed: true}
		}
	}
	if justPressed(ebiten.KeyBackquote) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.tool = tool{}
	}

	if justPressed(ebiten.KeyP) {
		g.play.RemoveAllOfKind(scene.KindPlanet)
	}
	if justPressed(ebiten.KeyG) {
		g.play.RemoveAllOfKind(scene.KindGenerator)
	}
	if justPressed(ebiten.KeyC) {
		g.play.ClearAll()
	}
	if justPressed(ebiten.KeyM) {
		g.play.SetRepulsorEnabled(!g.play.RepulsorEnabled())
	}
	if justPressed(ebiten.KeyTab) {
		g.themeIdx = (g.themeIdx + 1) % len(config.Themes)
		g.applyTheme()
	}
	if justPressed(ebiten.KeyR) {
		g.confirmReset()
	}
	if justPressed(ebiten.KeyK) {
		if err := g.pickGlitterColor(); err != nil {
			g.lastErr = err
		}
	}
	if justPressed(ebiten.KeyN) && g.chime != nil {
		g.chime.SetMuted(!g.chime.Muted())
	}
	if justPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}

	g.handleMouse()
	return nil
}

func (g *Game) handleMouse() {
	page := g.cursorPage()
	if g.onSurface(page) {
		g.play.SetCursor(page)
	} else {
		g.play.ClearCursor()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.onSurface(page) {
		if g.tool.armed {
			g.tool.dragging = true
			g.tool.start = page
		} else {
			g.play.Burst(page)
		}
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.tool.dragging {
		g.tool.dragging = false
		radius := float64(config.ObjectRadiusDefault)
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			radius = dragRadius(g.tool.start, page)
		}
		if _, err := g.play.PlaceObject(g.tool.kind, g.tool.start, radius); err != nil {
			g.lastErr = err
		}
	}
}

// previewRadius is the radius the armed tool would place with right now.
func (g *Game) previewRadius() (r2.Vec, float64, bool) {
	if !g.tool.dragging || !g.tool.kind.Sized() {
		return r2.Vec{}, 0, false
	}
	if !ebiten.IsKeyPressed(ebiten.KeyShift) {
		return g.tool.start, config.ObjectRadiusDefault, true
	}
	return g.tool.start, dragRadius(g.tool.start, g.cursorPage()), true
}

func (g *Game) applyTheme() {
	g.play.ApplyTheme(config.Themes[g.themeIdx])
}

func (g *Game) confirmReset() {
	err := zenity.Question("Remove every object and particle?",
		zenity.Title("Reset playground"),
		zenity.OKLabel("Reset"),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return
	}
	if err != nil {
		// no dialog available; reset anyway
		g.lastErr = err
	}
	g.play.TriggerReset()
}

func (g *Game) pickGlitterColor() error {
	c, err := zenity.SelectColor(
		zenity.Title("Glitter colour"),
		zenity.Color(g.play.GlitterColor()),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	picked, ok := colorful.MakeColor(c)
	if !ok {
		return errors.New("glitter colour: fully transparent colour picked")
	}
	return g.play.SetGlitterColor(picked.Hex())
}
