package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable holding a config file path.
const EnvConfig = "SPLATEARTH_CONFIG"

// fileName is the config file looked up beside the process and the earth file.
const fileName = "splatviewer.yaml"

// Load resolves the session configuration: defaults, then the first config
// file found, then flags. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	var earth string
	if args := Args(); len(args) > 0 {
		earth = args[0]
	}

	if path := resolveConfigPath(earth); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath prefers --config, then $SPLATEARTH_CONFIG, then the
// search locations.
func resolveConfigPath(earth string) string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile(earth)
}

// searchPaths lists candidate config files in priority order: the working
// directory, the earth file's directory, then the user config directory.
func searchPaths(earth string) []string {
	paths := []string{fileName}
	if earth != "" {
		if dir := filepath.Dir(earth); dir != "." {
			paths = append(paths, filepath.Join(dir, fileName))
		}
	}
	return append(paths, filepath.Join(ConfigDir(), "config.yaml"))
}

func findConfigFile(earth string) string {
	for _, path := range searchPaths(earth) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "SplatEarth")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SplatEarth")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "splatearth")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "splatearth")
	}
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected so a
// misspelled setting is reported instead of silently ignored.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.VFov >= 180 {
		errs = append(errs, fmt.Errorf("vfov %v must be below 180 degrees", c.Graphics.VFov))
	}
	if c.Graphics.MSAA < 0 {
		errs = append(errs, fmt.Errorf("msaa %d is negative", c.Graphics.MSAA))
	}
	if c.Splat.TextureUnits < 0 {
		errs = append(errs, fmt.Errorf("texture_units %d is negative", c.Splat.TextureUnits))
	}
	if c.Splat.MaxLOD < 0 {
		errs = append(errs, fmt.Errorf("max_lod %d is negative", c.Splat.MaxLOD))
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("logging level: %w", err))
		}
	}
	return errors.Join(errs...)
}
