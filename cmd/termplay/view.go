package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/effects"
	"github.com/iburimskiy/particle-playground/internal/glitter"
	"github.com/iburimskiy/particle-playground/internal/particle"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"github.com/iburimskiy/particle-playground/internal/starfield"
)

// draw paints one frame. Later layers overwrite earlier ones: objects,
// stars, glitter, pops, then the status line.
func (a *app) draw() {
	th := a.play.Theme()
	bg := th.Background
	base := tcell.StyleDefault.Background(tint(bg, bg, 1))
	a.screen.SetStyle(base)
	a.screen.Clear()

	now := a.play.Now()
	a.drawObjects(base, th, now)

	a.field.Each(func(_ particle.Handle, s *starfield.Star) {
		c, ok := a.grid.surfaceCell(s.Pos)
		if !ok {
			return
		}
		r := '*'
		if s.Size < (config.StarSizeMin+config.StarSizeMax)/2*surfaceScale {
			r = '+'
		}
		a.screen.SetContent(c.x, c.y, r, nil, base.Foreground(tint(s.Color, bg, s.Opacity)))
	})

	a.play.Glitter().Each(func(gl *glitter.Glitter) {
		c, ok := a.grid.pageCell(gl.Pos)
		if !ok {
			return
		}
		a.screen.SetContent(c.x, c.y, '.', nil, base.Foreground(tint(gl.Color, bg, gl.Opacity(now))))
	})

	a.play.Pops().Each(now, func(p effects.Pop, progress float64) {
		style := base.Foreground(tint(th.Star, bg, 1-progress))
		for _, c := range a.grid.ring(p.Pos, config.PopSize*progress/2) {
			a.screen.SetContent(c.x, c.y, 'o', nil, style)
		}
	})

	a.drawStatus(base)
	a.screen.Show()
}

func (a *app) drawObjects(base tcell.Style, th config.Theme, now time.Time) {
	bg := th.Background
	draw := func(obj scene.Object, alpha float64) {
		center, ok := a.grid.pageCell(obj.Center())
		switch o := obj.(type) {
		case *scene.Planet:
			for _, c := range a.grid.ring(o.Center(), o.Radius()) {
				a.screen.SetContent(c.x, c.y, '.', nil, base.Foreground(tint(th.Planet, bg, alpha*0.5)))
			}
			if ok {
				a.screen.SetContent(center.x, center.y, '@', nil, base.Foreground(tint(th.Planet, bg, alpha)))
			}
		case *scene.Generator:
			if !ok {
				return
			}
			style := base.Foreground(tint(th.Generator, bg, alpha))
			if o.Disabled {
				style = style.Dim(true)
			}
			a.screen.SetContent(center.x, center.y, 'G', nil, style)
		case *scene.SparkleZone:
			ring := a.grid.ring(o.Center(), o.Radius())
			for i, c := range ring {
				col := config.Rainbow[i%len(config.Rainbow)]
				a.screen.SetContent(c.x, c.y, ':', nil, base.Foreground(tint(col, bg, alpha)))
			}
		case *scene.ResetterField:
			for _, c := range a.grid.ring(o.Center(), o.Radius()) {
				a.screen.SetContent(c.x, c.y, '#', nil, base.Foreground(tint(th.ResetterField, bg, alpha*0.6)))
			}
			if ok {
				a.screen.SetContent(center.x, center.y, '+', nil, base.Foreground(tint(th.ResetterField, bg, alpha)))
			}
		}
	}
	reg := a.play.Registry()
	reg.Each(func(obj scene.Object) { draw(obj, 1) })
	for _, f := range reg.Fading() {
		draw(f.Object, 1-f.Progress(now, reg.FadeDuration()))
	}
}

func (a *app) drawStatus(base tcell.Style) {
	style := base.Reverse(true)
	for x := range a.grid.cols {
		a.screen.SetContent(x, 0, ' ', nil, style)
	}
	for i, r := range a.status() {
		if i >= a.grid.cols {
			break
		}
		a.screen.SetContent(i, 0, r, nil, style)
	}
}

func (a *app) status() string {
	tool := "burst"
	if a.armed {
		tool = a.kind.String()
	}
	repulsor := "off"
	if a.play.RepulsorEnabled() {
		repulsor = "on"
	}
	st := a.play.Stats()
	s := fmt.Sprintf(" %s | repulsor %s | %s | stars %d | hits %d | glitter %s",
		tool, repulsor, a.play.Theme().Name, a.field.Len(), st.Hits, a.play.GlitterColor().Hex())
	if a.lastErr != nil {
		s += " | Error: " + a.lastErr.Error()
	}
	return s
}
