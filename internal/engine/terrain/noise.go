package terrain

import (
	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
)

// Params controls fractal noise synthesis and height shaping.
type Params struct {
	Octaves          int     `yaml:"octaves" toml:"octaves"`
	Persistence      float32 `yaml:"persistence" toml:"persistence"`             // amplitude falloff per octave
	Lacunarity       float32 `yaml:"lacunarity" toml:"lacunarity"`               // frequency growth per octave
	NoiseScale       float32 `yaml:"noise_scale" toml:"noise_scale"`             // grid units to noise units
	HeightMultiplier float32 `yaml:"height_multiplier" toml:"height_multiplier"` // final elevation range
	PowerCurve       float32 `yaml:"power_curve" toml:"power_curve"`             // >1 flattens valleys, sharpens peaks
	BaseHeight       float32 `yaml:"base_height" toml:"base_height"`             // added after scaling
	Seed             int64   `yaml:"seed" toml:"seed"`
}

// DefaultParams returns the mountainous preset the viewer starts with.
func DefaultParams() Params {
	return Params{
		Octaves:          10,
		Persistence:      0.4,
		Lacunarity:       2.5,
		NoiseScale:       0.015,
		HeightMultiplier: 180,
		PowerCurve:       6,
		BaseHeight:       0,
		Seed:             1,
	}
}

// NoiseSource is a 2D noise primitive. Implementations must be pure
// functions of their coordinates.
type NoiseSource interface {
	Noise2D(x, y float64) float64
}

// NewPerlin returns a single-octave Perlin primitive for the given seed.
// Octave summation is done by GenerateHeightsFrom, not by the primitive.
func NewPerlin(seed int64) NoiseSource {
	return perlin.NewPerlin(2, 2, 1, seed)
}

// GenerateHeights synthesizes a width x depth heightfield with Perlin noise.
func GenerateHeights(width, depth int, params Params) *Heightfield {
	return GenerateHeightsFrom(NewPerlin(params.Seed), width, depth, params)
}

// GenerateHeightsFrom synthesizes a heightfield from an arbitrary noise source.
//
// The first pass accumulates fractal noise per cell and records the global
// raw range; the second pass normalizes into [0,1], applies the power curve
// and scales. The output range is therefore [BaseHeight, BaseHeight +
// HeightMultiplier] independent of octave settings.
func GenerateHeightsFrom(src NoiseSource, width, depth int, params Params) *Heightfield {
	if width <= 0 || depth <= 0 {
		return &Heightfield{}
	}

	raw := make([]float32, width*depth)
	minRaw, maxRaw := math32.Inf(1), math32.Inf(-1)

	for z := range depth {
		for x := range width {
			amplitude := 1.0
			frequency := 1.0
			var sum float64

			for range params.Octaves {
				sx := float64(x) * float64(params.NoiseScale) * frequency
				sz := float64(z) * float64(params.NoiseScale) * frequency
				sum += src.Noise2D(sx, sz) * amplitude

				amplitude *= float64(params.Persistence)
				frequency *= float64(params.Lacunarity)
			}

			v := float32(sum)
			raw[z*width+x] = v
			minRaw = min(minRaw, v)
			maxRaw = max(maxRaw, v)
		}
	}

	span := maxRaw - minRaw
	for i, v := range raw {
		var normalized float32
		if span > 0 {
			normalized = (v - minRaw) / span
		}
		raw[i] = params.BaseHeight + applyPowerCurve(normalized, params.PowerCurve)*params.HeightMultiplier
	}

	return &Heightfield{width: width, depth: depth, heights: raw}
}

// applyPowerCurve biases a normalized height toward valleys (power > 1) or
// plateaus (power < 1).
func applyPowerCurve(v, power float32) float32 {
	return math32.Pow(v, power)
}
