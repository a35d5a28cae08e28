package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/effects"
	"github.com/iburimskiy/particle-playground/internal/glitter"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"github.com/iburimskiy/particle-playground/internal/starfield"
	"github.com/lucasb-eyer/go-colorful"
)

// star inner radius as a fraction of the outer one
const starInset = 0.5

// vertices per DrawTriangles batch, kept under the uint16 index limit
const batchLimit = 60000

var helpLines = []string{
	"1 planet  2 generator  3 sparkle zone  4 resetter field  ` or right click: no tool",
	"click: place (shift+drag sizes it) or burst without a tool",
	"P remove planets  G remove generators  C clear all  R reset",
	"M repulsor  Tab theme  K glitter colour  N mute  H help  Esc quit",
}

func (g *Game) Draw(screen *ebiten.Image) {
	th := g.play.Theme()
	screen.Fill(nrgba(th.Background, 1))

	g.drawStars(screen)
	g.drawObjects(screen, th)
	g.drawGlitter(screen)
	g.drawPops(screen, th)
	g.drawPreview(screen, th)
	g.drawHUD(screen)
}

func (g *Game) flush(screen *ebiten.Image) {
	if len(g.is) == 0 {
		return
	}
	screen.DrawTriangles(g.vs, g.is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	g.vs, g.is = g.vs[:0], g.is[:0]
}

func (g *Game) drawStars(screen *ebiten.Image) {
	g.field.Each(func(_ particle.Handle, s *starfield.Star) {
		if s.Opacity <= 0 {
			return
		}
		if len(g.vs) > batchLimit {
			g.flush(screen)
		}
		g.vs, g.is = appendStar(g.vs, g.is, g.surfaceToScreen(s.Pos), s.Size, s.Size*starInset, s.Rotation, s.Color, s.Opacity)
	})
	g.flush(screen)
}

func (g *Game) drawObjects(screen *ebiten.Image, th config.Theme) {
	now := g.clock.Now()
	reg := g.play.Registry()
	for _, f := range reg.Fading() {
		g.drawObject(screen, th, f.Object, 1-f.Progress(now, reg.FadeDuration()))
	}
	reg.Each(func(o scene.Object) {
		g.drawObject(screen, th, o, 1)
	})
}

func (g *Game) drawObject(screen *ebiten.Image, th config.Theme, o scene.Object, alpha float64) {
	c := g.toScreen(o.Center())
	cx, cy := float32(c.X), float32(c.Y)
	s := float32(g.scale)

	switch obj := o.(type) {
	case *scene.Planet:
		r := float32(obj.Radius()) * s
		vector.DrawFilledCircle(screen, cx, cy, r, nrgba(th.Planet, 0.06*alpha), true)
		vector.StrokeCircle(screen, cx, cy, r, 1*s, nrgba(th.Planet, 0.35*alpha), true)
		vector.DrawFilledCircle(screen, cx, cy, config.PlanetCoreSize/2*s, nrgba(th.Planet, alpha), true)
	case *scene.Generator:
		a := alpha
		if obj.Disabled {
			a *= 0.35
		}
		vector.DrawFilledCircle(screen, cx, cy, 8*s, nrgba(th.Generator, a), true)
		vector.StrokeCircle(screen, cx, cy, 12*s, 2*s, nrgba(th.Generator, 0.5*a), true)
	case *scene.SparkleZone:
		r := float32(obj.Radius()) * s
		vector.DrawFilledCircle(screen, cx, cy, r, nrgba(th.Glitter, 0.05*alpha), true)
		n := float64(len(config.Rainbow))
		for i, col := range config.Rainbow {
			// dashed rainbow rim
			a0 := 2 * math.Pi * float64(i) / n
			a1 := a0 + 2*math.Pi*0.7/n
			from := rimPoint(c, float64(r), a0)
			to := rimPoint(c, float64(r), a1)
			vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), 2*s, nrgba(col, 0.6*alpha), true)
		}
	case *scene.ResetterField:
		r := float32(obj.Radius()) * s
		vector.DrawFilledCircle(screen, cx, cy, r, nrgba(th.ResetterField, 0.08*alpha), true)
		vector.StrokeCircle(screen, cx, cy, r, 1.5*s, nrgba(th.ResetterField, 0.5*alpha), true)
	}
}

func (g *Game) drawGlitter(screen *ebiten.Image) {
	now := g.clock.Now()
	g.play.Glitter().Each(func(gl *glitter.Glitter) {
		if len(g.vs) > batchLimit {
			g.flush(screen)
		}
		size := gl.Size * gl.Scale(now) * g.scale
		g.vs, g.is = appendDiamond(g.vs, g.is, g.toScreen(gl.Pos), size, gl.Rotation, gl.Color, gl.Opacity(now))
	})
	g.flush(screen)
}

func (g *Game) drawPops(screen *ebiten.Image, th config.Theme) {
	g.play.Pops().Each(g.clock.Now(), func(p effects.Pop, progress float64) {
		c := g.toScreen(p.Pos)
		r := config.PopSize / 2 * (0.3 + 0.7*progress) * g.scale
		vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(r), float32(2*g.scale), nrgba(th.Star, 1-progress), true)
	})
}

func (g *Game) drawPreview(screen *ebiten.Image, th config.Theme) {
	center, radius, ok := g.previewRadius()
	if !ok {
		return
	}
	c := g.toScreen(center)
	col := colorful.Color{R: 1, G: 1, B: 1}
	switch g.tool.kind {
	case scene.KindPlanet:
		col = th.Planet
	case scene.KindSparkleZone:
		col = th.Glitter
	case scene.KindResetterField:
		col = th.ResetterField
	}
	vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(radius*g.scale), 1, nrgba(col, 0.7), true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	w := float32(g.outside.X * g.scale)
	h := float32(config.HUDHeight * g.scale)
	vector.DrawFilledRect(screen, 0, 0, w, h, nrgba(colorful.Color{}, 0.7), false)

	if g.chime != nil {
		level := float32(clamp01(g.chime.Level() * 4))
		vector.DrawFilledRect(screen, w-70, 8, 60, 10, nrgba(colorful.Color{R: 0.2, G: 0.2, B: 0.25}, 1), false)
		vector.DrawFilledRect(screen, w-70, 8, 60*level, 10, nrgba(g.play.GlitterColor(), 0.9), false)
	}

	ebitenutil.DebugPrintAt(screen, g.status(), 8, 6)
	if g.showHelp {
		ebitenutil.DebugPrintAt(screen, strings.Join(helpLines, "\n"), 8, int(h)+8)
	}
}

func (g *Game) status() string {
	toolName := "none"
	if g.tool.armed {
		toolName = g.tool.kind.String()
	}
	repulsor := "off"
	if g.play.RepulsorEnabled() {
		repulsor = "on"
	}
	st := g.play.Stats()
	status := fmt.Sprintf("tool %s | repulsor %s | %s | stars %d | easing %d | glitter %d | hits %d | %s | H help",
		toolName, repulsor, g.play.Theme().Name, g.field.Len(), g.play.Tracked(),
		g.play.Glitter().Len(), st.Hits, formatDuration(g.clock.Now().Sub(g.started)))
	if g.chime != nil && g.chime.Muted() {
		status += " | muted"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	return status
}
