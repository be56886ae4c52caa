// Package assets loads textures and models once and hands out shared
// pointers. A Cache is constructed explicitly and passed to whoever loads.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/model"
	"github.com/Faultbox/scilla/internal/engine/texture"
	"github.com/Faultbox/scilla/internal/logger"
)

// ErrNotFound is returned when a relative path exists under no root.
var ErrNotFound = errors.New("asset not found")

type textureKey struct {
	path string
	opts texture.Options
}

// Cache owns every texture and model it loads until Release.
type Cache struct {
	dev   gpu.Device
	roots []string
	mu    sync.Mutex

	textures map[textureKey]*gpu.Texture2D
	models   map[string]*model.Model

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache resolving relative paths against roots.
func NewCache(dev gpu.Device, roots ...string) *Cache {
	return &Cache{
		dev:      dev,
		roots:    roots,
		textures: make(map[textureKey]*gpu.Texture2D),
		models:   make(map[string]*model.Model),
	}
}

// AddRoot adds a search directory. Roots are searched in reverse order
// (last added = highest priority).
func (c *Cache) AddRoot(dir string) {
	c.mu.Lock()
	c.roots = append(c.roots, dir)
	c.mu.Unlock()
}

// Resolve maps path to an existing file. Paths that exist as given are
// used directly; relative paths are then tried under each root.
func (c *Cache) Resolve(path string) (string, error) {
	if exists(path) {
		return filepath.Clean(path), nil
	}
	if !filepath.IsAbs(path) {
		c.mu.Lock()
		roots := append([]string(nil), c.roots...)
		c.mu.Unlock()
		for i := len(roots) - 1; i >= 0; i-- {
			p := filepath.Join(roots[i], path)
			if exists(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

func exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// LoadTexture returns the cached texture for path and color space, loading
// it on first use.
func (c *Cache) LoadTexture(path string, opts texture.Options) (*gpu.Texture2D, error) {
	resolved, err := c.Resolve(path)
	if err != nil {
		return nil, err
	}
	key := textureKey{path: resolved, opts: opts}

	c.mu.Lock()
	tex, ok := c.textures[key]
	c.count(ok)
	c.mu.Unlock()
	if ok {
		return tex, nil
	}

	tex, err = texture.Load(c.dev, resolved, opts)
	if err != nil {
		return nil, fmt.Errorf("loading texture %s: %w", path, err)
	}

	c.mu.Lock()
	c.textures[key] = tex
	c.mu.Unlock()
	logger.Debug("texture loaded", zap.String("path", resolved), zap.Bool("srgb", opts.SRGB))
	return tex, nil
}

// LoadModel returns the cached model for path, loading it and its textures
// through this cache on first use.
func (c *Cache) LoadModel(path string) (*model.Model, error) {
	resolved, err := c.Resolve(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	m, ok := c.models[resolved]
	c.count(ok)
	c.mu.Unlock()
	if ok {
		return m, nil
	}

	m, err = model.Load(c.dev, resolved, c)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}

	c.mu.Lock()
	c.models[resolved] = m
	c.mu.Unlock()
	return m, nil
}

// count must be called with mu held.
func (c *Cache) count(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached textures and models.
func (c *Cache) Len() (textures, models int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures), len(c.models)
}

// Release frees every cached resource and clears the cache.
func (c *Cache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, m := range c.models {
		m.Release()
	}
	for _, t := range c.textures {
		t.Release()
	}
	logger.Info("asset cache released",
		zap.Int("textures", len(c.textures)),
		zap.Int("models", len(c.models)),
		zap.Int("hits", c.hits),
		zap.Int("misses", c.misses))

	c.textures = make(map[textureKey]*gpu.Texture2D)
	c.models = make(map[string]*model.Model)
	c.hits = 0
	c.misses = 0
}
