package config

import (
	"flag"
	"fmt"
	"io"
	"os"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagVFov       = flag.Float64("vfov", 0, "Vertical field of view in degrees")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagShaders    = flag.String("shaders", "", "Directory overriding the embedded shader library")
	flagSaveConfig = flag.String("save-config", "", "Write the effective config to this path")
)

var positional []string

// ParseFlags parses command-line flags. Call this early in main().
// The default flag set exits 0 after printing usage for --help.
func ParseFlags() {
	flag.CommandLine.Usage = func() { Usage(os.Stderr, os.Args[0]) }
	_ = ParseArgs(flag.CommandLine, os.Args[1:])
}

// ParseArgs parses args with fs, allowing flags before and after
// positional arguments ("app file.earth --vfov 45").
func ParseArgs(fs *flag.FlagSet, args []string) error {
	positional = positional[:0]
	for {
		if err := fs.Parse(args); err != nil {
			return err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// Args returns the positional arguments.
func Args() []string {
	return positional
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveConfigPath returns the --save-config destination, if any.
func SaveConfigPath() string {
	return *flagSaveConfig
}

// Usage writes the viewer usage text.
func Usage(w io.Writer, name string) {
	fmt.Fprintf(w, "\nUsage: %s file.earth [options]\n\nOptions:\n", name)
	flag.CommandLine.SetOutput(w)
	flag.CommandLine.PrintDefaults()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagVFov > 0 {
		cfg.Graphics.VFov = float32(*flagVFov)
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagShaders != "" {
		cfg.Splat.ShaderPath = *flagShaders
	}
}
