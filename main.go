package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/particle-playground/internal/audio"
	"github.com/iburimskiy/particle-playground/internal/clock"
	"github.com/iburimskiy/particle-playground/internal/config"
	"github.com/iburimskiy/particle-playground/internal/game"
	"github.com/iburimskiy/particle-playground/internal/playground"
	"github.com/iburimskiy/particle-playground/internal/starfield"
)

func main() {
	tuning := config.DefaultTuning()

	seed := flag.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	exactHit := flag.Bool("exact-hit", false, "compare the planet hit radius in page pixels instead of scaling it to the surface")
	inclusiveHit := flag.Bool("inclusive-hit", false, "destroy particles sitting exactly on the planet hit radius")
	frameSkip := flag.Int("frame-skip", tuning.PhysicsFrameSkip, "run physics every N frames")
	maxParticles := flag.Int("max-particles", tuning.MaxParticles, "particle count above which generators pause")
	themeName := flag.String("theme", config.Themes[0].Name, "colour theme")
	generators := flag.Int("generators", config.InitialGenerators, "generators placed at startup")
	hidpi := flag.Bool("hidpi", true, "render at the monitor's device scale")
	mute := flag.Bool("mute", false, "start with sound off")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	theme, ok := config.ThemeByName(*themeName)
	if !ok {
		names := make([]string, 0, len(config.Themes))
		for _, th := range config.Themes {
			names = append(names, th.Name)
		}
		fmt.Fprintf(os.Stderr, "unknown theme %q (have %s)\n", *themeName, strings.Join(names, ", "))
		os.Exit(2)
	}

	tuning.Seed = *seed
	tuning.ScaleHitRadius = !*exactHit
	tuning.InclusiveHitRadius = *inclusiveHit
	tuning.PhysicsFrameSkip = max(*frameSkip, 1)
	tuning.MaxParticles = *maxParticles

	rng := playground.NewRand(tuning.Seed)
	clk := clock.Real{}

	chime := audio.New(log)
	// failure is logged by the chime; the playground runs silent
	_ = chime.Init()
	chime.SetMuted(*mute)
	defer chime.Close()

	field := starfield.New(starfield.Options{Rand: rng, Log: log, Color: theme.Star})
	play := playground.New(field, playground.Options{
		Tuning: tuning,
		Clock:  clk,
		Rand:   rng,
		Log:    log,
		Sound:  chime,
		Theme:  theme,
	})
	g := game.New(play, field, chime, game.Options{
		HiDPI:      *hidpi,
		Generators: *generators,
		Clock:      clk,
		Log:        log,
	})

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Particle Playground - 1-4: tools, R: reset, H: help, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TPS)

	log.Info("starting", "theme", theme.Name, "seed", tuning.Seed, "frame_skip", tuning.PhysicsFrameSkip)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("game stopped", "error", err)
		chime.Close()
		os.Exit(1)
	}
}
