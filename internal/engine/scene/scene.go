// Package scene assembles the terrain, vegetation, objects, sky and lights
// rendered each frame, and regenerates them on request.
package scene

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/assets"
	"github.com/Faultbox/scilla/internal/engine/camera"
	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/lighting"
	"github.com/Faultbox/scilla/internal/engine/material"
	"github.com/Faultbox/scilla/internal/engine/model"
	"github.com/Faultbox/scilla/internal/engine/picking"
	"github.com/Faultbox/scilla/internal/engine/terrain"
	"github.com/Faultbox/scilla/internal/engine/texture"
	"github.com/Faultbox/scilla/internal/engine/vegetation"
	"github.com/Faultbox/scilla/internal/logger"
)

// BandTextures names the texture files of one terrain band. Empty paths
// fall back to a flat color.
type BandTextures struct {
	Name      string `yaml:"name" toml:"name"`
	Diffuse   string `yaml:"diffuse" toml:"diffuse"`
	Normal    string `yaml:"normal" toml:"normal"`
	Roughness string `yaml:"roughness" toml:"roughness"`
	AO        string `yaml:"ao" toml:"ao"`
}

func (b BandTextures) path(role material.Role) string {
	switch role {
	case material.Diffuse:
		return b.Diffuse
	case material.Normal:
		return b.Normal
	case material.Roughness:
		return b.Roughness
	default:
		return b.AO
	}
}

// ObjectConfig places one model.
type ObjectConfig struct {
	Model    string     `yaml:"model" toml:"model"`
	Position [3]float32 `yaml:"position" toml:"position"`
	Rotation [3]float32 `yaml:"rotation" toml:"rotation"`
	Scale    [3]float32 `yaml:"scale" toml:"scale"`
}

// Config is everything the scene needs to build itself.
type Config struct {
	Width, Depth   int
	Terrain        terrain.Params
	Bands          []BandTextures
	Vegetation     []vegetation.Layer
	VegetationSeed uint64
	Objects        []ObjectConfig
	SunSpeed       float32
	SunStart       float32
}

// Fallback colors per band name when no diffuse map is configured.
var bandColors = map[string]color.RGBA{
	"grass": {R: 74, G: 110, B: 46, A: 255},
	"rock":  {R: 110, G: 104, B: 98, A: 255},
	"snow":  {R: 235, G: 240, B: 245, A: 255},
}

// Scene owns the per-scene GPU resources. Models and textures belong to the
// asset cache.
type Scene struct {
	dev    gpu.Device
	assets *assets.Cache
	cfg    Config
	rng    *rand.Rand

	Heightfield *terrain.Heightfield
	Terrain     *terrain.Terrain
	Vegetation  *vegetation.Placer
	Objects     []Object
	Skybox      *Skybox
	LightCube   *model.Model

	Sun        *lighting.Sun
	PointLight lighting.PointLight

	Fly       *camera.FlyCamera
	Orbit     *camera.OrbitCamera
	orbiting  bool
	fallbacks []*gpu.Texture2D
}

// New creates an empty scene; call Initialize before rendering.
func New(dev gpu.Device, cache *assets.Cache, cfg Config) *Scene {
	return &Scene{
		dev:        dev,
		assets:     cache,
		cfg:        cfg,
		rng:        rand.New(rand.NewPCG(cfg.VegetationSeed, uint64(cfg.Terrain.Seed))),
		Sun:        lighting.NewSun(cfg.SunSpeed, cfg.SunStart),
		PointLight: lighting.DefaultPointLight(),
		Orbit:      camera.NewOrbitCamera(),
	}
}

// Origin centers the grid, which spans Width-1 by Depth-1 cells, on the
// world origin.
func (s *Scene) Origin() mgl32.Vec3 {
	return mgl32.Vec3{-float32(s.cfg.Width-1) / 2, 0, -float32(s.cfg.Depth-1) / 2}
}

// Initialize builds the sky, the light marker, the terrain with its bands,
// the vegetation and the static objects.
func (s *Scene) Initialize() error {
	var err error
	if s.Skybox, err = NewSkybox(s.dev); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	if s.LightCube, err = model.Upload(s.dev, "light-cube", []model.MeshData{model.CubeData()}, nil); err != nil {
		return fmt.Errorf("light cube: %w", err)
	}

	bands, err := s.loadBands()
	if err != nil {
		return err
	}

	s.Heightfield = terrain.GenerateHeights(s.cfg.Width, s.cfg.Depth, s.cfg.Terrain)
	s.Terrain, err = terrain.New(s.dev, s.Heightfield, terrain.Options{Origin: s.Origin(), Bands: bands})
	if err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	s.logTerrain()

	s.Vegetation = vegetation.NewPlacer(s.dev, s.assets, s.rng, s.cfg.Vegetation)
	if err := s.Vegetation.GenerateGrid(s.Terrain, s.Heightfield); err != nil {
		// Vegetation is cosmetic; a missing model leaves the terrain bare.
		logger.Warn("vegetation disabled", zap.Error(err))
	}

	for _, oc := range s.cfg.Objects {
		m, err := s.assets.LoadModel(oc.Model)
		if err != nil {
			logger.Warn("scene object skipped", zap.String("model", oc.Model), zap.Error(err))
			continue
		}
		scale := mgl32.Vec3(oc.Scale)
		if scale == (mgl32.Vec3{}) {
			scale = mgl32.Vec3{1, 1, 1}
		}
		s.Objects = append(s.Objects, Object{
			Model:    m,
			Position: oc.Position,
			Rotation: oc.Rotation,
			Scale:    scale,
		})
	}

	s.placeCameras()
	return nil
}

func (s *Scene) loadBands() ([]terrain.Band, error) {
	bands := make([]terrain.Band, 0, len(s.cfg.Bands))
	for _, bc := range s.cfg.Bands {
		mat := material.New()
		for _, role := range material.Roles() {
			tex, err := s.bandTexture(bc, role)
			if err != nil {
				return nil, fmt.Errorf("band %s %s: %w", bc.Name, role, err)
			}
			mat.Set(role, tex)
		}
		bands = append(bands, terrain.Band{Name: bc.Name, Material: mat})
	}
	return bands, nil
}

func (s *Scene) bandTexture(bc BandTextures, role material.Role) (*gpu.Texture2D, error) {
	opts := texture.DataOptions()
	if role == material.Diffuse {
		opts = texture.ColorOptions()
	}
	opts.Wrap = gpu.WrapRepeat
	if p := bc.path(role); p != "" {
		tex, err := s.assets.LoadTexture(p, opts)
		if err == nil {
			return tex, nil
		}
		logger.Warn("band texture unavailable, using flat color",
			zap.String("band", bc.Name), zap.String("path", p), zap.Error(err))
	}

	c := color.RGBA{R: 255, G: 255, B: 255, A: 255} // full AO
	switch role {
	case material.Diffuse:
		if col, ok := bandColors[bc.Name]; ok {
			c = col
		} else {
			c = color.RGBA{R: 128, G: 128, B: 128, A: 255}
		}
	case material.Normal:
		c = color.RGBA{R: 128, G: 128, B: 255, A: 255}
	case material.Roughness:
		c = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
	tex, err := texture.Solid(s.dev, c, role == material.Diffuse)
	if err != nil {
		return nil, err
	}
	s.fallbacks = append(s.fallbacks, tex)
	return tex, nil
}

func (s *Scene) logTerrain() {
	lo, hi := s.Heightfield.Range()
	logger.Info("terrain generated",
		zap.Int("width", s.Heightfield.Width()),
		zap.Int("depth", s.Heightfield.Depth()),
		zap.Float32("min", lo),
		zap.Float32("max", hi),
		zap.Int("vertices", s.Terrain.VertexCount()),
		zap.Int32("indices", s.Terrain.IndexCount()))
}

func (s *Scene) placeCameras() {
	b := s.Terrain.WorldBounds()
	s.Orbit.FitToBounds(b.Min, b.Max)

	eye := mgl32.Vec3{0, b.Max.Y() + 40, float32(s.cfg.Depth) / 2}
	if s.Fly == nil {
		s.Fly = camera.NewFlyCamera(eye)
	} else {
		s.Fly.SetPosition(eye)
	}
	s.Fly.LookAt(mgl32.Vec3{0, (b.Min.Y() + b.Max.Y()) / 2, 0})
}

// Params returns the terrain parameters of the current heightfield.
func (s *Scene) Params() terrain.Params { return s.cfg.Terrain }

// Regenerate rebuilds the terrain and vegetation from params. The old
// buffers are released first; nothing is updated in place.
func (s *Scene) Regenerate(params terrain.Params) error {
	s.cfg.Terrain = params
	s.Heightfield = terrain.GenerateHeights(s.cfg.Width, s.cfg.Depth, params)
	if err := s.Terrain.Rebuild(s.Heightfield); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	s.logTerrain()

	if err := s.Vegetation.GenerateGrid(s.Terrain, s.Heightfield); err != nil {
		logger.Warn("vegetation disabled", zap.Error(err))
	}
	return nil
}

// Pick step along the ray, in grid units.
const pickStep = 0.5

// Pick returns the terrain point under pixel (x, y) of a width x height
// viewport seen through the active camera.
func (s *Scene) Pick(x, y float32, width, height int, proj camera.Projection) (mgl32.Vec3, bool) {
	if s.Terrain == nil || width <= 0 || height <= 0 {
		return mgl32.Vec3{}, false
	}
	cam := s.Camera()
	vp := proj.Matrix(cam, width, height).Mul4(cam.ViewMatrix())
	ray := picking.ScreenToRay(x, y, float32(width), float32(height), vp.Inv())

	wb := s.Terrain.WorldBounds()
	box := picking.NewAABB(wb.Min, wb.Max)
	entry, hit := ray.IntersectAABB(box)
	if !hit {
		return mgl32.Vec3{}, false
	}
	if inside(box, ray.Origin) {
		entry = 0
	}

	origin, hf := s.Terrain.Origin(), s.Heightfield
	ground := func(wx, wz float32) (float32, bool) {
		h := vegetation.HeightAtGrid(wx, wz, origin, hf)
		return h, h != vegetation.InvalidHeight
	}
	start := picking.Ray{Origin: ray.At(entry), Direction: ray.Direction}
	return start.IntersectSurface(ground, pickStep, proj.Far)
}

func inside(b picking.AABB, p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Update advances time-dependent state.
func (s *Scene) Update(dt float32) {
	s.Sun.Update(dt)
}

// Camera returns the active camera.
func (s *Scene) Camera() camera.Camera {
	if s.orbiting {
		return s.Orbit
	}
	return s.Fly
}

// Orbiting reports whether the orbit camera is active.
func (s *Scene) Orbiting() bool { return s.orbiting }

// ToggleCamera switches between the fly and orbit cameras.
func (s *Scene) ToggleCamera() {
	s.orbiting = !s.orbiting
	logger.Debug("camera switched", zap.Bool("orbit", s.orbiting))
}

// Release frees everything the scene owns.
func (s *Scene) Release() {
	if s.Vegetation != nil {
		s.Vegetation.Release()
	}
	if s.Terrain != nil {
		s.Terrain.Release()
	}
	if s.Skybox != nil {
		s.Skybox.Release()
	}
	if s.LightCube != nil {
		s.LightCube.Release()
	}
	for _, t := range s.fallbacks {
		t.Release()
	}
	s.fallbacks = nil
}
