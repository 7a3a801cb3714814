// Package main is the entry point for the land-cover viewer.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/config"
	"github.com/Faultbox/splatearth/internal/earthfile"
	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/viewer"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first; --help prints usage and exits 0
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	name := filepath.Base(os.Args[0])
	args := config.Args()
	if len(args) == 0 {
		config.Usage(os.Stdout, name)
		return 0
	}

	file, err := earthfile.Load(args[0])
	if err != nil {
		logger.Warn("unable to load earth file", zap.Error(err))
		config.Usage(os.Stdout, name)
		return 0
	}

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to save config", zap.String("path", path), zap.Error(err))
		}
	}

	logger.Info("=== splatviewer ===", zap.String("earth", args[0]))
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg, file)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return 1
	}
	defer v.Close()

	return v.Run()
}
