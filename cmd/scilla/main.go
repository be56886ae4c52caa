// Package main is the entry point for the Scilla terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/app"
	"github.com/Faultbox/scilla/internal/config"
	"github.com/Faultbox/scilla/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Scilla ===",
		zap.Int("terrain_width", cfg.Terrain.Width),
		zap.Int("terrain_depth", cfg.Terrain.Depth),
		zap.Int64("seed", cfg.Terrain.Noise.Seed),
	)
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg.AppConfig())
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		return 1
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
