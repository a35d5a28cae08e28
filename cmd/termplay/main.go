// Command termplay runs the particle playground in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/iburimskiy/particle-playground/internal/audio"
	"github.com/iburimskiy/particle-playground/internal/clock"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/playground"
	"github.com/iburimskiy/particle-playground/internal/scene"
	"github.com/iburimskiy/particle-playground/internal/starfield"
	"gonum.org/v1/gonum/spatial/r2"
)

// glitterCycle is what K steps through; there is no colour dialog here.
var glitterCycle = []string{"#ffd700", "#ff0000", "#ff7f00", "#ffff00", "#00ff00", "#0000ff", "#4b0082", "#9400d3"}

type app struct {
	screen tcell.Screen
	play   *playground.Playground
	field  *starfield.Field
	chime  *audio.Chime
	log    *slog.Logger
	grid   grid

	kind      scene.Kind
	armed     bool
	pressed   bool
	dragStart r2.Vec

	themeIdx   int
	glitterIdx int
	generators int
	seeded     bool

	lastErr error
}

func main() {
	tuning := config.DefaultTuning()

	seed := flag.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	exactHit := flag.Bool("exact-hit", false, "compare the planet hit radius in page pixels instead of scaling it to the surface")
	inclusiveHit := flag.Bool("inclusive-hit", false, "destroy particles sitting exactly on the planet hit radius")
	frameSkip := flag.Int("frame-skip", tuning.PhysicsFrameSkip, "run physics every N frames")
	maxParticles := flag.Int("max-particles", tuning.MaxParticles, "particle count above which generators pause")
	themeName := flag.String("theme", config.Themes[0].Name, "colour theme")
	generators := flag.Int("generators", config.InitialGenerators, "generators placed at startup")
	mute := flag.Bool("mute", false, "start with sound off")
	logPath := flag.String("log", "termplay.log", "log file (the terminal is the screen)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	theme, ok := config.ThemeByName(*themeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown theme %q\n", *themeName)
		os.Exit(2)
	}

	tuning.Seed = *seed
	tuning.ScaleHitRadius = !*exactHit
	tuning.InclusiveHitRadius = *inclusiveHit
	tuning.PhysicsFrameSkip = max(*frameSkip, 1)
	tuning.MaxParticles = *maxParticles

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	chime := audio.New(log)
	// failure is logged by the chime; the playground runs silent
	_ = chime.Init()
	chime.SetMuted(*mute)

	a := newApp(screen, chime, tuning, theme, *generators, log)
	defer a.cleanup()
	a.run()
}

func newApp(screen tcell.Screen, chime *audio.Chime, tuning config.Tuning, theme config.Theme, generators int, log *slog.Logger) *app {
	rng := playground.NewRand(tuning.Seed)
	field := starfield.New(starfield.Options{Rand: rng, Log: log, Color: theme.Star})
	opts := playground.Options{
		Tuning: tuning,
		Clock:  clock.Real{},
		Rand:   rng,
		Log:    log,
		Theme:  theme,
	}
	if chime != nil {
		opts.Sound = chime
	}
	a := &app{
		screen:     screen,
		play:       playground.New(field, opts),
		field:      field,
		chime:      chime,
		log:        log,
		generators: generators,
	}
	for i, th := range config.Themes {
		if th.Name == theme.Name {
			a.themeIdx = i
		}
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	return a
}

func (a *app) run() {
	ticker := time.NewTicker(time.Second / config.TPS)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *app) tick() {
	a.attach()
	if !a.seeded && a.generators > 0 {
		if a.play.SeedGenerators(a.generators) > 0 {
			a.seeded = true
		}
	}
	a.field.Step(a.play.Now(), time.Second/config.TPS)
	a.play.Frame()
	a.draw()
}

func (a *app) attach() {
	w, h := a.screen.Size()
	a.grid = grid{cols: w, rows: h}
	s := a.grid.surface()
	if !s.Valid() {
		a.field.Detach()
		return
	}
	a.field.Attach(s)
}

func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
		a.attach()
	}
	return true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		a.themeIdx = (a.themeIdx + 1) % len(config.Themes)
		a.play.ApplyTheme(config.Themes[a.themeIdx])
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch r := ev.Rune(); r {
	case 'q', 'Q':
		return false
	case '1', '2', '3', '4':
		a.kind = scene.Kinds[r-'1']
		a.armed = true
	case '`':
		a.armed = false
	case 'p', 'P':
		a.play.RemoveAllOfKind(scene.KindPlanet)
	case 'g', 'G':
		a.play.RemoveAllOfKind(scene.KindGenerator)
	case 'c', 'C':
		a.play.ClearAll()
	case 'm', 'M':
		a.play.SetRepulsorEnabled(!a.play.RepulsorEnabled())
	case 'r', 'R':
		a.play.TriggerReset()
		a.lastErr = nil
	case 'k', 'K':
		a.glitterIdx = (a.glitterIdx + 1) % len(glitterCycle)
		a.lastErr = a.play.SetGlitterColor(glitterCycle[a.glitterIdx])
	case 'n', 'N':
		if a.chime != nil {
			a.chime.SetMuted(!a.chime.Muted())
		}
	}
	return true
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	page := a.grid.cellCenter(x, y)
	if a.grid.playable(cell{x: x, y: y}) {
		a.play.SetCursor(page)
	} else {
		a.play.ClearCursor()
	}

	buttons := ev.Buttons()
	if buttons&tcell.Button2 != 0 {
		a.armed = false
		a.pressed = false
		return
	}
	switch {
	case buttons&tcell.Button1 != 0 && !a.pressed:
		a.pressed = true
		a.dragStart = page
		if !a.armed && a.grid.playable(cell{x: x, y: y}) {
			a.play.Burst(page)
		}
	case buttons&tcell.Button1 == 0 && a.pressed:
		a.pressed = false
		if a.armed {
			a.place(page)
		}
	}
}

// place drops the armed object at the drag origin; the drag length sizes it.
func (a *app) place(release r2.Vec) {
	radius := 0.0
	if a.kind.Sized() {
		radius = dragRadius(a.dragStart, release)
	}
	if _, err := a.play.PlaceObject(a.kind, a.dragStart, radius); err != nil {
		a.lastErr = err
		a.log.Warn("placement rejected", "error", err)
		return
	}
	a.lastErr = nil
}

func (a *app) cleanup() {
	if a.chime != nil {
		a.chime.Close()
	}
	a.screen.Fini()
}
