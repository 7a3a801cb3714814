package config

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.VFov > 0 {
		t.Errorf("expected unset vfov, got %f", cfg.Graphics.VFov)
	}
	if cfg.Graphics.MSAA != 4 {
		t.Errorf("expected 4x MSAA, got %d", cfg.Graphics.MSAA)
	}

	// Splat defaults
	if cfg.Splat.TextureUnits != 16 {
		t.Errorf("expected 16 texture units, got %d", cfg.Splat.TextureUnits)
	}
	if cfg.Splat.ShaderPath != "" {
		t.Errorf("expected embedded shaders, got %s", cfg.Splat.ShaderPath)
	}
	if cfg.Splat.MaxLOD != 23 {
		t.Errorf("expected max LOD 23, got %d", cfg.Splat.MaxLOD)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestEffectiveVFov(t *testing.T) {
	tests := []struct {
		vfov float32
		want float32
	}{
		{-1, DefaultVFov},
		{0, DefaultVFov},
		{45, 45},
	}
	for _, tt := range tests {
		g := GraphicsConfig{VFov: tt.vfov}
		if got := g.EffectiveVFov(); got != tt.want {
			t.Errorf("EffectiveVFov(%v) = %v, want %v", tt.vfov, got, tt.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  vfov: 55

splat:
  texture_units: 32
  shader_path: "/opt/shaders"
  noise_seed: 42
  max_lod: 19

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.VFov != 55 {
		t.Errorf("expected vfov 55, got %f", cfg.Graphics.VFov)
	}

	if cfg.Splat.TextureUnits != 32 {
		t.Errorf("expected 32 texture units, got %d", cfg.Splat.TextureUnits)
	}
	if cfg.Splat.ShaderPath != "/opt/shaders" {
		t.Errorf("expected shader path /opt/shaders, got %s", cfg.Splat.ShaderPath)
	}
	if cfg.Splat.NoiseSeed != 42 {
		t.Errorf("expected noise seed 42, got %d", cfg.Splat.NoiseSeed)
	}
	if cfg.Splat.MaxLOD != 19 {
		t.Errorf("expected max LOD 19, got %d", cfg.Splat.MaxLOD)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(""); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "splatviewer.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(""); path == "" {
		t.Error("expected to find splatviewer.yaml in current directory")
	}
}

func TestFindConfigFileBesideEarthFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)

	worldDir := filepath.Join(tmpDir, "worlds")
	if err := os.Mkdir(worldDir, 0755); err != nil {
		t.Fatal(err)
	}
	beside := filepath.Join(worldDir, "splatviewer.yaml")
	if err := os.WriteFile(beside, []byte("graphics:\n  width: 640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	earth := filepath.Join(worldDir, "forest.earth")

	if got := findConfigFile(earth); got != beside {
		t.Errorf("expected %s, got %q", beside, got)
	}

	// The working directory wins over the earth file's directory.
	if err := os.WriteFile("splatviewer.yaml", []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(earth); got != "splatviewer.yaml" {
		t.Errorf("expected working directory config, got %q", got)
	}
}

func TestResolveConfigPathEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/splatearth/viewer.yaml")
	if got := resolveConfigPath(""); got != "/etc/splatearth/viewer.yaml" {
		t.Errorf("expected env path, got %q", got)
	}

	*flagConfig = "/tmp/explicit.yaml"
	defer func() { *flagConfig = "" }()
	if got := resolveConfigPath(""); got != "/tmp/explicit.yaml" {
		t.Errorf("--config should win over the environment, got %q", got)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("graphics:\n  widht: 800\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected an error for a misspelled key")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Graphics.Width != Default().Graphics.Width {
		t.Error("empty file should keep defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, true},
		{"vfov too wide", func(c *Config) { c.Graphics.VFov = 180 }, true},
		{"negative msaa", func(c *Config) { c.Graphics.MSAA = -2 }, true},
		{"negative max lod", func(c *Config) { c.Splat.MaxLOD = -1 }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"warn level", func(c *Config) { c.Logging.Level = "warn" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "vfov flag",
			setup: func() { *flagVFov = 60 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.VFov != 60 {
					t.Errorf("expected vfov 60, got %f", cfg.Graphics.VFov)
				}
			},
			teardown: func() { *flagVFov = 0 },
		},
		{
			name:  "shaders flag",
			setup: func() { *flagShaders = "./glsl" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Splat.ShaderPath != "./glsl" {
					t.Errorf("expected shader path ./glsl, got %s", cfg.Splat.ShaderPath)
				}
			},
			teardown: func() { *flagShaders = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width from flag, height from file.
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestParseArgsInterleaved(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	vfov := fs.Float64("vfov", 0, "")
	debug := fs.Bool("debug", false, "")

	err := ParseArgs(fs, []string{"--debug", "world.earth", "--vfov", "45", "extra"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	defer func() { positional = positional[:0] }()

	if !*debug || *vfov != 45 {
		t.Errorf("flags not parsed: debug=%v vfov=%v", *debug, *vfov)
	}
	args := Args()
	if len(args) != 2 || args[0] != "world.earth" || args[1] != "extra" {
		t.Errorf("unexpected positional args %v", args)
	}
}

func TestParseArgsHelp(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	if err := ParseArgs(fs, []string{"--help"}); err != flag.ErrHelp {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	Usage(&buf, "splatviewer")
	defer flag.CommandLine.SetOutput(nil)

	out := buf.String()
	if !strings.Contains(out, "Usage: splatviewer file.earth [options]") {
		t.Errorf("missing usage line:\n%s", out)
	}
	if !strings.Contains(out, "-vfov") {
		t.Errorf("missing vfov option:\n%s", out)
	}
}
