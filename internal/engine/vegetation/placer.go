// Package vegetation scatters instanced models over a heightfield.
package vegetation

import (
	"fmt"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/instancing"
	"github.com/Faultbox/scilla/internal/engine/model"
	"github.com/Faultbox/scilla/internal/engine/terrain"
	"github.com/Faultbox/scilla/internal/logger"
)

// Layer describes one kind of vegetation and where it may grow.
type Layer struct {
	Name       string  `yaml:"name" toml:"name"`
	Model      string  `yaml:"model" toml:"model"`
	Count      int     `yaml:"count" toml:"count"`           // candidates drawn, not a guarantee
	MinHeight  float32 `yaml:"min_height" toml:"min_height"` // accepted world Y band
	MaxHeight  float32 `yaml:"max_height" toml:"max_height"`
	SinkOffset float32 `yaml:"sink_offset" toml:"sink_offset"` // lowers the model origin into the ground
	ScaleMin   float32 `yaml:"scale_min" toml:"scale_min"`
	ScaleMax   float32 `yaml:"scale_max" toml:"scale_max"`
}

// DefaultLayers returns the single tree layer used by the demo scene.
func DefaultLayers() []Layer {
	return []Layer{{
		Name:       "small_tree",
		Model:      "models/tree/scene.gltf",
		Count:      200,
		MinHeight:  0,
		MaxHeight:  12,
		SinkOffset: 3,
		ScaleMin:   0.8,
		ScaleMax:   1.3,
	}}
}

// ModelSource loads shared models, normally the asset cache.
type ModelSource interface {
	LoadModel(path string) (*model.Model, error)
}

// Ground is what the placer needs from the terrain besides its heightfield.
type Ground interface {
	Origin() mgl32.Vec3
}

// Placer owns one instanced batch per layer.
type Placer struct {
	dev    gpu.Device
	models ModelSource
	rng    *rand.Rand
	layers []Layer

	batches []*instancing.Batch
	placed  []int
}

// NewPlacer creates a placer. rng drives every random choice so placement
// is reproducible for a given seed.
func NewPlacer(dev gpu.Device, models ModelSource, rng *rand.Rand, layers []Layer) *Placer {
	return &Placer{dev: dev, models: models, rng: rng, layers: layers}
}

// Generate releases any previous batches and scatters every layer over hf.
// Each candidate is drawn uniformly in [0, mapWidth-1) on both axes; those
// whose sunk elevation falls outside the layer band are skipped.
func (p *Placer) Generate(ground Ground, hf *terrain.Heightfield, mapWidth int) error {
	return p.generate(ground, hf, mapWidth, mapWidth)
}

// GenerateGrid is Generate over the full width and depth of hf, so
// rectangular terrain is covered on both axes.
func (p *Placer) GenerateGrid(ground Ground, hf *terrain.Heightfield) error {
	if hf == nil {
		p.Release()
		return nil
	}
	return p.generate(ground, hf, hf.Width(), hf.Depth())
}

func (p *Placer) generate(ground Ground, hf *terrain.Heightfield, width, depth int) error {
	p.Release()

	origin := ground.Origin()
	for _, layer := range p.layers {
		m, err := p.models.LoadModel(layer.Model)
		if err != nil {
			p.Release()
			return fmt.Errorf("vegetation layer %q: %w", layer.Name, err)
		}

		batch := instancing.New(p.dev, m)
		placed := p.scatter(batch, layer, origin, hf, width, depth)
		if err := batch.Finalize(); err != nil {
			batch.Release()
			p.Release()
			return fmt.Errorf("vegetation layer %q: %w", layer.Name, err)
		}
		p.batches = append(p.batches, batch)
		p.placed = append(p.placed, placed)

		logger.Info("vegetation placed",
			zap.String("layer", layer.Name),
			zap.Int("requested", layer.Count),
			zap.Int("placed", placed))
	}
	return nil
}

func (p *Placer) scatter(batch *instancing.Batch, layer Layer, origin mgl32.Vec3, hf *terrain.Heightfield, width, depth int) int {
	if width < 2 || depth < 2 {
		return 0
	}
	spanX, spanZ := float32(width-1), float32(depth-1)
	placed := 0
	for i := 0; i < layer.Count; i++ {
		x := origin.X() + p.rng.Float32()*spanX
		z := origin.Z() + p.rng.Float32()*spanZ

		y := sample(x, z, origin, hf, width, depth) - layer.SinkOffset
		if y < layer.MinHeight || y > layer.MaxHeight {
			continue
		}

		s := layer.ScaleMin + p.rng.Float32()*(layer.ScaleMax-layer.ScaleMin)
		rot := p.rng.Float32() * 360
		if err := batch.AddInstance(mgl32.Vec3{x, y, z}, mgl32.Vec3{s, s, s}, rot); err != nil {
			break
		}
		placed++
	}
	return placed
}

// Placed returns the realized instance count of each layer.
func (p *Placer) Placed() []int { return p.placed }

// Total returns the realized instance count over all layers.
func (p *Placer) Total() int {
	n := 0
	for _, c := range p.placed {
		n += c
	}
	return n
}

// Batches returns the per-layer batches in layer order.
func (p *Placer) Batches() []*instancing.Batch { return p.batches }

// Render draws every batch with the instanced shader.
func (p *Placer) Render(shader gpu.Shader) error {
	for _, b := range p.batches {
		if err := b.Render(shader); err != nil {
			return err
		}
	}
	return nil
}

// Release frees the batches. Models belong to the ModelSource.
func (p *Placer) Release() {
	for _, b := range p.batches {
		b.Release()
	}
	p.batches = nil
	p.placed = nil
}
