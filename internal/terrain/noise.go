package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"sideworld/internal/config"
)

// NoiseField maps a horizontal pixel coordinate to a vertical offset from the
// base ground line. It is immutable once built and continuous in x.
type NoiseField interface {
	HeightOffset(x float64) float64
}

// NewNoiseField builds the backend named by cfg.Noise, seeded with seed.
func NewNoiseField(cfg config.TerrainConfig, seed int64) (NoiseField, error) {
	if cfg.Octaves <= 0 {
		cfg.Octaves = 1
	}
	if cfg.Persistence <= 0 {
		cfg.Persistence = 0.5
	}
	if cfg.Lacunarity <= 0 {
		cfg.Lacunarity = 2
	}
	switch cfg.Noise {
	case "", "perlin":
		return &perlinField{
			gen:     perlin.NewPerlin(2, 2, 1, seed),
			fractal: fractalParams(cfg),
		}, nil
	case "simplex":
		return &simplexField{
			gen:     opensimplex.New(seed),
			fractal: fractalParams(cfg),
		}, nil
	case "value":
		return &valueField{
			seed:    seed,
			fractal: fractalParams(cfg),
		}, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", cfg.Noise)
	}
}

// perlinLattice is the period of a single go-perlin octave. The generator
// truncates towards zero, so inputs are folded into [0, perlinLattice).
const perlinLattice = 256

// perlinField samples one go-perlin octave at a time so every octave input
// can be wrapped onto the lattice on its own.
type perlinField struct {
	gen     *perlin.Perlin
	fractal fractal
}

func (f *perlinField) HeightOffset(x float64) float64 {
	return f.fractal.sum(x, func(v float64) float64 {
		v = math.Mod(v, perlinLattice)
		if v < 0 {
			v += perlinLattice
		}
		// a single octave stays within [-0.5, 0.5]
		return 2 * f.gen.Noise1D(v)
	})
}

type fractal struct {
	frequency   float64
	amplitude   float64
	octaves     int
	persistence float64
	lacunarity  float64
}

func fractalParams(cfg config.TerrainConfig) fractal {
	return fractal{
		frequency:   cfg.Frequency,
		amplitude:   cfg.Amplitude,
		octaves:     cfg.Octaves,
		persistence: cfg.Persistence,
		lacunarity:  cfg.Lacunarity,
	}
}

// sum adds octaves of sample and normalises the result to [-1, 1].
func (p fractal) sum(x float64, sample func(float64) float64) float64 {
	frequency := p.frequency
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < p.octaves; i++ {
		noiseSum += sample(x*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= p.persistence
		frequency *= p.lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return p.amplitude * noiseSum / maxAmplitude
}

type simplexField struct {
	gen     opensimplex.Noise
	fractal fractal
}

func (f *simplexField) HeightOffset(x float64) float64 {
	return f.fractal.sum(x, func(v float64) float64 {
		return f.gen.Eval2(v, 0)
	})
}

// valueField is hashed value noise along one axis.
type valueField struct {
	seed    int64
	fractal fractal
}

func (f *valueField) HeightOffset(x float64) float64 {
	return f.fractal.sum(x, f.valueNoise)
}

func (f *valueField) valueNoise(x float64) float64 {
	x0 := int(math.Floor(x))
	t := smooth(x - float64(x0))
	return lerp(random1D(x0, f.seed), random1D(x0+1, f.seed), t)
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func random1D(x int, seed int64) float64 {
	return float64(hash2(x, int(seed))&0xFFFF)/0x8000 - 1.0
}

func hash2(x, z int) uint32 {
	h := uint32(x*374761393 + z*668265263)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}
