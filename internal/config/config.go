package config

import (
	"errors"
	"time"

	"sideworld/internal/mathx"
)

// Config captures every tunable of a side-scrolling world session.
type Config struct {
	World   WorldConfig   `json:"world" yaml:"world" toml:"world"`
	Terrain TerrainConfig `json:"terrain" yaml:"terrain" toml:"terrain"`
	Forest  ForestConfig  `json:"forest" yaml:"forest" toml:"forest"`
	Leaves  LeafConfig    `json:"leaves" yaml:"leaves" toml:"leaves"`
	Birds   BirdConfig    `json:"birds" yaml:"birds" toml:"birds"`
	Session SessionConfig `json:"session" yaml:"session" toml:"session"`
}

type WorldConfig struct {
	Seed       int64  `json:"seed" yaml:"seed" toml:"seed"`
	SeedPhrase string `json:"seedPhrase" yaml:"seedPhrase" toml:"seedPhrase"` // overrides seed when set
	BlockSize  int    `json:"blockSize" yaml:"blockSize" toml:"blockSize"`
	// The viewport width doubles as the chunk width.
	ViewportWidth  int `json:"viewportWidth" yaml:"viewportWidth" toml:"viewportWidth"`
	ViewportHeight int `json:"viewportHeight" yaml:"viewportHeight" toml:"viewportHeight"`
}

type TerrainConfig struct {
	Noise           string  `json:"noise" yaml:"noise" toml:"noise"` // perlin, simplex or value
	Seed            int64   `json:"seed" yaml:"seed" toml:"seed"`    // 0 falls back to world.seed
	Frequency       float64 `json:"frequency" yaml:"frequency" toml:"frequency"`
	Amplitude       float64 `json:"amplitude" yaml:"amplitude" toml:"amplitude"`
	Octaves         int     `json:"octaves" yaml:"octaves" toml:"octaves"`
	Persistence     float64 `json:"persistence" yaml:"persistence" toml:"persistence"`
	Lacunarity      float64 `json:"lacunarity" yaml:"lacunarity" toml:"lacunarity"`
	Depth           int     `json:"depth" yaml:"depth" toml:"depth"` // rows per column, surface included
	BaseHeightRatio float64 `json:"baseHeightRatio" yaml:"baseHeightRatio" toml:"baseHeightRatio"`
}

type ForestConfig struct {
	PlantProbability float64 `json:"plantProbability" yaml:"plantProbability" toml:"plantProbability"`
	MinTrunkHeight   int     `json:"minTrunkHeight" yaml:"minTrunkHeight" toml:"minTrunkHeight"`
	TrunkHeightRange int     `json:"trunkHeightRange" yaml:"trunkHeightRange" toml:"trunkHeightRange"`
}

type LeafConfig struct {
	WakeDelayMax Duration `json:"wakeDelayMax" yaml:"wakeDelayMax" toml:"wakeDelayMax"`
	SwayAngle    float64  `json:"swayAngle" yaml:"swayAngle" toml:"swayAngle"` // degrees either side
	SwayCycle    Duration `json:"swayCycle" yaml:"swayCycle" toml:"swayCycle"`
	SquashFactor float64  `json:"squashFactor" yaml:"squashFactor" toml:"squashFactor"`
	SquashCycle  Duration `json:"squashCycle" yaml:"squashCycle" toml:"squashCycle"`
	LifetimeMin  Duration `json:"lifetimeMin" yaml:"lifetimeMin" toml:"lifetimeMin"`
	LifetimeMax  Duration `json:"lifetimeMax" yaml:"lifetimeMax" toml:"lifetimeMax"`
	FadeOut      Duration `json:"fadeOut" yaml:"fadeOut" toml:"fadeOut"`
	DeathMin     Duration `json:"deathMin" yaml:"deathMin" toml:"deathMin"`
	DeathMax     Duration `json:"deathMax" yaml:"deathMax" toml:"deathMax"`
	FadeIn       Duration `json:"fadeIn" yaml:"fadeIn" toml:"fadeIn"`
	FallSpeed    float64  `json:"fallSpeed" yaml:"fallSpeed" toml:"fallSpeed"`
	FallDrift    float64  `json:"fallDrift" yaml:"fallDrift" toml:"fallDrift"`
	FallCycle    Duration `json:"fallCycle" yaml:"fallCycle" toml:"fallCycle"`
	StopTime     Duration `json:"stopTime" yaml:"stopTime" toml:"stopTime"`
}

type BirdConfig struct {
	SpawnMin         Duration `json:"spawnMin" yaml:"spawnMin" toml:"spawnMin"`
	SpawnMax         Duration `json:"spawnMax" yaml:"spawnMax" toml:"spawnMax"`
	BandMin          float64  `json:"bandMin" yaml:"bandMin" toml:"bandMin"`
	BandMax          float64  `json:"bandMax" yaml:"bandMax" toml:"bandMax"`
	SpawnDistance    float64  `json:"spawnDistance" yaml:"spawnDistance" toml:"spawnDistance"`
	DeletionDistance float64  `json:"deletionDistance" yaml:"deletionDistance" toml:"deletionDistance"`
	Size             float64  `json:"size" yaml:"size" toml:"size"`
	FlockProbability float64  `json:"flockProbability" yaml:"flockProbability" toml:"flockProbability"`
	FlockColumns     int      `json:"flockColumns" yaml:"flockColumns" toml:"flockColumns"`
	Health           float64  `json:"health" yaml:"health" toml:"health"`
	FlySpeed         float64  `json:"flySpeed" yaml:"flySpeed" toml:"flySpeed"`
	FlyVolatility    float64  `json:"flyVolatility" yaml:"flyVolatility" toml:"flyVolatility"`
	FlapCycle        Duration `json:"flapCycle" yaml:"flapCycle" toml:"flapCycle"`
	DeathFall        Duration `json:"deathFall" yaml:"deathFall" toml:"deathFall"`
	DroppingOdds     int      `json:"droppingOdds" yaml:"droppingOdds" toml:"droppingOdds"` // one in N frames
	DroppingDamage   float64  `json:"droppingDamage" yaml:"droppingDamage" toml:"droppingDamage"`
	DroppingSpeed    float64  `json:"droppingSpeed" yaml:"droppingSpeed" toml:"droppingSpeed"`
	DroppingSize     float64  `json:"droppingSize" yaml:"droppingSize" toml:"droppingSize"`
	DroppingRange    float64  `json:"droppingRange" yaml:"droppingRange" toml:"droppingRange"`
}

type SessionConfig struct {
	TickRate       Duration `json:"tickRate" yaml:"tickRate" toml:"tickRate"` // e.g. "16ms"
	ObserverStartX float64  `json:"observerStartX" yaml:"observerStartX" toml:"observerStartX"`
	ObserverSpeed  float64  `json:"observerSpeed" yaml:"observerSpeed" toml:"observerSpeed"`
	ObserverHealth float64  `json:"observerHealth" yaml:"observerHealth" toml:"observerHealth"`
	// JitterSeed drives cosmetic leaf timing. Zero lets the driver pick one.
	JitterSeed int64 `json:"jitterSeed" yaml:"jitterSeed" toml:"jitterSeed"`
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:           420,
			BlockSize:      30,
			ViewportWidth:  800,
			ViewportHeight: 600,
		},
		Terrain: TerrainConfig{
			Noise:           "perlin",
			Frequency:       0.004,
			Amplitude:       120,
			Octaves:         3,
			Persistence:     0.5,
			Lacunarity:      2.0,
			Depth:           25,
			BaseHeightRatio: 2.0 / 3.0,
		},
		Forest: ForestConfig{
			PlantProbability: 0.1,
			MinTrunkHeight:   7,
			TrunkHeightRange: 7,
		},
		Leaves: LeafConfig{
			WakeDelayMax: Duration(time.Second),
			SwayAngle:    10,
			SwayCycle:    Duration(7 * time.Second),
			SquashFactor: 0.9,
			SquashCycle:  Duration(700 * time.Millisecond),
			LifetimeMin:  Duration(5 * time.Second),
			LifetimeMax:  Duration(60 * time.Second),
			FadeOut:      Duration(10 * time.Second),
			DeathMin:     Duration(5 * time.Second),
			DeathMax:     Duration(20 * time.Second),
			FadeIn:       Duration(3 * time.Second),
			FallSpeed:    50,
			FallDrift:    50,
			FallCycle:    Duration(700 * time.Millisecond),
			StopTime:     Duration(300 * time.Millisecond),
		},
		Birds: BirdConfig{
			SpawnMin:         Duration(2 * time.Second),
			SpawnMax:         Duration(15 * time.Second),
			BandMin:          -100,
			BandMax:          100,
			SpawnDistance:    1000,
			DeletionDistance: 2000,
			Size:             48,
			FlockProbability: 0.3,
			FlockColumns:     4,
			Health:           10,
			FlySpeed:         100,
			FlyVolatility:    100,
			FlapCycle:        Duration(500 * time.Millisecond),
			DeathFall:        Duration(3 * time.Second),
			DroppingOdds:     500,
			DroppingDamage:   15,
			DroppingSpeed:    300,
			DroppingSize:     7,
			DroppingRange:    1000,
		},
		Session: SessionConfig{
			TickRate:       Duration(16 * time.Millisecond),
			ObserverStartX: 400,
			ObserverSpeed:  150,
			ObserverHealth: 100,
		},
	}
}

// WorldSeed resolves the seed phrase, if any, into the numeric world seed.
func (c *Config) WorldSeed() int64 {
	if c.World.SeedPhrase != "" {
		return mathx.SeedFromPhrase(c.World.SeedPhrase)
	}
	return c.World.Seed
}

// TerrainSeed is the seed shared by every chunk's noise field.
func (c *Config) TerrainSeed() int64 {
	if c.Terrain.Seed != 0 {
		return c.Terrain.Seed
	}
	return c.WorldSeed()
}

func (c *Config) Validate() error {
	if c.World.BlockSize <= 0 {
		return errors.New("world.blockSize must be positive")
	}
	if c.World.ViewportWidth <= c.World.BlockSize || c.World.ViewportHeight <= 0 {
		return errors.New("world viewport must be positive and wider than one block")
	}
	switch c.Terrain.Noise {
	case "perlin", "simplex", "value":
	default:
		return errors.New("terrain.noise must be one of perlin, simplex, value")
	}
	if c.Terrain.Depth <= 0 {
		return errors.New("terrain.depth must be positive")
	}
	if c.Terrain.Frequency <= 0 {
		return errors.New("terrain.frequency must be positive")
	}
	if c.Terrain.Amplitude < 0 {
		return errors.New("terrain.amplitude cannot be negative")
	}
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if c.Terrain.BaseHeightRatio <= 0 || c.Terrain.BaseHeightRatio >= 1 {
		return errors.New("terrain.baseHeightRatio must be within (0, 1)")
	}
	if c.Forest.PlantProbability < 0 || c.Forest.PlantProbability > 1 {
		return errors.New("forest.plantProbability must be within [0, 1]")
	}
	if c.Forest.MinTrunkHeight <= 0 || c.Forest.TrunkHeightRange <= 0 {
		return errors.New("forest trunk heights must be positive")
	}
	if c.Leaves.LifetimeMax < c.Leaves.LifetimeMin {
		return errors.New("leaves.lifetimeMax must be >= lifetimeMin")
	}
	if c.Leaves.DeathMax < c.Leaves.DeathMin {
		return errors.New("leaves.deathMax must be >= deathMin")
	}
	if c.Leaves.SquashFactor <= 0 || c.Leaves.SquashFactor > 1 {
		return errors.New("leaves.squashFactor must be within (0, 1]")
	}
	if c.Birds.SpawnMin <= 0 || c.Birds.SpawnMax < c.Birds.SpawnMin {
		return errors.New("birds spawn interval must be positive and ordered")
	}
	if c.Birds.BandMax < c.Birds.BandMin {
		return errors.New("birds.bandMax must be >= bandMin")
	}
	if c.Birds.DeletionDistance <= c.Birds.SpawnDistance {
		return errors.New("birds.deletionDistance must exceed spawnDistance")
	}
	if c.Birds.FlockProbability < 0 || c.Birds.FlockProbability > 1 {
		return errors.New("birds.flockProbability must be within [0, 1]")
	}
	if c.Birds.FlockColumns <= 0 {
		return errors.New("birds.flockColumns must be positive")
	}
	if c.Birds.Health <= 0 || c.Birds.Size <= 0 {
		return errors.New("birds health and size must be positive")
	}
	if c.Birds.DroppingOdds < 0 {
		return errors.New("birds.droppingOdds cannot be negative")
	}
	if c.Session.TickRate <= 0 {
		return errors.New("session.tickRate must be positive")
	}
	if c.Session.ObserverHealth <= 0 {
		return errors.New("session.observerHealth must be positive")
	}
	return nil
}
