// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
	Splat    SplatConfig    `yaml:"splat"`
}

// GraphicsConfig holds display and camera settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	VFov       float32 `yaml:"vfov"` // vertical field of view in degrees; <= 0 keeps the default
	MSAA       int     `yaml:"msaa"` // multisample count; 0 disables
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// SplatConfig holds land-cover rendering settings.
type SplatConfig struct {
	TextureUnits int    `yaml:"texture_units"` // size of the texture image unit pool
	ShaderPath   string `yaml:"shader_path"`   // directory overriding embedded shaders
	NoiseSeed    int64  `yaml:"noise_seed"`
	MaxLOD       int    `yaml:"max_lod"`
}

// DefaultVFov is the vertical field of view used when none is configured.
const DefaultVFov = 30.0

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			VFov:       -1,
			MSAA:       4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Splat: SplatConfig{
			TextureUnits: 16,
			ShaderPath:   "",
			NoiseSeed:    0,
			MaxLOD:       23,
		},
	}
}

// EffectiveVFov returns the configured field of view, or DefaultVFov.
func (g GraphicsConfig) EffectiveVFov() float32 {
	if g.VFov > 0 {
		return g.VFov
	}
	return DefaultVFov
}
