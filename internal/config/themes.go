package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme is a named colour scheme for the whole playground.
type Theme struct {
	Name          string
	Star          colorful.Color
	Glitter       colorful.Color
	Planet        colorful.Color
	Generator     colorful.Color
	ResetterField colorful.Color
	Background    colorful.Color
}

type themeHex struct {
	name                                                    string
	star, glitter, planet, generator, resetter, background string
}

var themeTable = []themeHex{
	{"moonlight", "#e8e6e3", "#ffd700", "#ffffff", "#00ffff", "#00ff00", "#0d1117"},
	{"sunset", "#ffa07a", "#ff6b9d", "#ff8c42", "#ff6b9d", "#ffaa00", "#2d1b2e"},
	{"ocean", "#b0e0e6", "#40e0d0", "#4a90e2", "#00d4ff", "#00ffaa", "#0a1929"},
	{"lavender", "#e6e6fa", "#dda0dd", "#c8a2d0", "#b19cd9", "#9370db", "#1a1625"},
	{"mint", "#f0fff0", "#98fb98", "#b8e6b8", "#7ed957", "#00ff7f", "#0f1e13"},
	{"rose", "#fff5ee", "#b76e79", "#f4c2c2", "#d4a5a5", "#ff69b4", "#1e1214"},
	{"cosmic", "#f8f8ff", "#da70d6", "#9d4edd", "#c77dff", "#ff00ff", "#0d0221"},
}

// Themes lists the built-in schemes, moonlight first.
var Themes = mustThemes()

// StarColor is the default off-white of the star particles.
var StarColor = MustHex("#f5f5f0")

// GlitterGold is the default glitter colour.
var GlitterGold = MustHex("#FFD700")

// Rainbow is the glitter palette used inside sparkle zones.
var Rainbow = []colorful.Color{
	MustHex("#FF0000"),
	MustHex("#FF7F00"),
	MustHex("#FFFF00"),
	MustHex("#00FF00"),
	MustHex("#0000FF"),
	MustHex("#4B0082"),
	MustHex("#9400D3"),
}

// ParseColor accepts a CSS hex colour (#rgb or #rrggbb, leading # optional).
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return c, nil
}

// MustHex is ParseColor for package-level tables.
func MustHex(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ThemeByName looks a scheme up case-insensitively.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range Themes {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Theme{}, false
}

func mustThemes() []Theme {
	out := make([]Theme, 0, len(themeTable))
	for _, h := range themeTable {
		out = append(out, Theme{
			Name:          h.name,
			Star:          MustHex(h.star),
			Glitter:       MustHex(h.glitter),
			Planet:        MustHex(h.planet),
			Generator:     MustHex(h.generator),
			ResetterField: MustHex(h.resetter),
			Background:    MustHex(h.background),
		})
	}
	return out
}
