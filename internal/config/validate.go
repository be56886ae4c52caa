package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/logger"
)

// Minimum sizes below which the viewer cannot run.
const (
	minWindow = 64
	minGrid   = 2
)

// Validate clamps degenerate values in place and rejects settings that
// cannot be repaired.
func (c *Config) Validate() error {
	g := &c.Graphics
	g.Width = clampMin("graphics.width", g.Width, minWindow)
	g.Height = clampMin("graphics.height", g.Height, minWindow)
	g.Samples = max(g.Samples, 0)
	if g.Tiling <= 0 {
		g.Tiling = Default().Graphics.Tiling
	}
	if g.NearPlane <= 0 || g.FarPlane <= g.NearPlane {
		return fmt.Errorf("graphics: near %g / far %g: need 0 < near < far", g.NearPlane, g.FarPlane)
	}

	c.Terrain.Width = clampMin("terrain.width", c.Terrain.Width, minGrid)
	c.Terrain.Depth = clampMin("terrain.depth", c.Terrain.Depth, minGrid)

	for i := range c.Vegetation.Layers {
		l := &c.Vegetation.Layers[i]
		if l.Model == "" {
			return fmt.Errorf("vegetation layer %q: model is required", l.Name)
		}
		l.Count = max(l.Count, 0)
		if l.ScaleMax < l.ScaleMin {
			l.ScaleMin, l.ScaleMax = l.ScaleMax, l.ScaleMin
		}
		if l.MaxHeight < l.MinHeight {
			l.MinHeight, l.MaxHeight = l.MaxHeight, l.MinHeight
		}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func clampMin(name string, v, lo int) int {
	if v < lo {
		logger.Warn("config value clamped", zap.String("key", name), zap.Int("value", v), zap.Int("min", lo))
		return lo
	}
	return v
}
