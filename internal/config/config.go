package config

import "time"

const (
	WindowWidth  = 1280
	WindowHeight = 720

	// HUD strip above the render surface, in page pixels.
	HUDHeight = 28

	TPS = 60
)

// Cursor and interaction
const (
	RepulseRadius      = 50
	RepulseStrength    = 50
	RepulseMinFraction = 0.2
	RepulseGrace       = 1000 * time.Millisecond
)

// Planets and gravity
const (
	PlanetHitRadius  = 40
	PlanetCoreSize   = 20
	GravityStrength  = 2
	GravityMass      = 500
	GravityFactor    = 0.4
	OutboundDamping  = 0.99
	ParticleMaxSpeed = 15
)

// Steady-state diagonal drift every particle trends toward.
const (
	DiagonalVX = 0.7071067811865476
	DiagonalVY = 0.7071067811865475
)

// Generators and emissions
const (
	GeneratorEmitInterval  = 1000 * time.Millisecond
	GeneratorParticleSpeed = 1
	TransitionDuration     = 2000 * time.Millisecond
	InitialGenerators      = 2

	BurstParticleCount = 2
	BurstSpeedMin      = 2
	BurstSpeedMax      = 4
)

// Glitter
const (
	GlitterSpawnChance         = 0.2
	SparkleZoneSpawnMultiplier = 0.9
	GlitterSizeMin             = 0.7
	GlitterSizeRange           = 1
	GlitterSizeFactor          = 0.8
	GlitterSpeedMin            = 0.3
	GlitterSpeedRange          = 0.6
	GlitterSpreadAngle         = 45 // degrees, total cone
	GlitterSpinMultiplier      = 100
	GlitterDuration            = 800 * time.Millisecond
	GlitterAssumedFPS          = 60
	DefaultParticleSize        = 5
)

// Removal and limits
const (
	CanvasOffscreenBuffer = 50

	MaxPlanets        = 3
	MaxGenerators     = 3
	MaxSparkleZones   = 2
	MaxResetterFields = 2
	MaxParticles      = 40
)

// Placed object sizing, page pixels
const (
	ObjectRadiusMin     = 20
	ObjectRadiusMax     = 200
	ObjectRadiusDefault = 100
)

// Animation and timing
const (
	PhysicsFrameSkip = 2
	FadeOutDuration  = 500 * time.Millisecond
	PopDuration      = 400 * time.Millisecond
	PopSize          = 40

	// reset pops ripple out instead of landing in one frame
	ResetParticleStagger = 2 * time.Millisecond
	ResetObjectStagger   = 50 * time.Millisecond
)

// Star field (the particle store)
const (
	StarSizeMin      = 3
	StarSizeMax      = 8
	StarSpeed        = 6
	StarPoints       = 5
	StarRotation     = 10 // degrees per second
	EmitterRateDelay = 100 * time.Millisecond
	EmitterQuantity  = 1
)

// Tuning holds the knobs that can be flipped at startup.
type Tuning struct {
	// ScaleHitRadius multiplies the planet hit radius by the surface scale,
	// matching how the attraction radius is treated.
	ScaleHitRadius bool
	// InclusiveHitRadius destroys particles sitting exactly on the hit radius.
	InclusiveHitRadius bool
	PhysicsFrameSkip   int
	MaxParticles       int
	Seed               uint64
}

func DefaultTuning() Tuning {
	return Tuning{
		ScaleHitRadius:     true,
		InclusiveHitRadius: false,
		PhysicsFrameSkip:   PhysicsFrameSkip,
		MaxParticles:       MaxParticles,
	}
}
