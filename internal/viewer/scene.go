package viewer

import (
	"image"

	"github.com/Faultbox/splatearth/internal/config"
	"github.com/Faultbox/splatearth/internal/earthfile"
	"github.com/Faultbox/splatearth/internal/splat/landcover"
	"github.com/Faultbox/splatearth/internal/splat/noise"
	"github.com/Faultbox/splatearth/internal/splat/shaders"
	"github.com/Faultbox/splatearth/internal/terrain"
)

// Scene is the terrain engine with the land-cover effect installed.
type Scene struct {
	Engine *terrain.Engine
	Effect *landcover.Effect
	Mesh   []float32
}

// NewScene builds a terrain engine from cfg and installs the land-cover
// effect for the earth file's zones.
func NewScene(cfg *config.Config, file *earthfile.File) *Scene {
	opts := terrain.DefaultOptions()
	if cfg.Splat.TextureUnits > 0 {
		opts.TextureUnits = cfg.Splat.TextureUnits
	}
	if cfg.Splat.MaxLOD > 0 {
		opts.MaxLOD = cfg.Splat.MaxLOD
	}
	engine := terrain.New(opts)

	np := noise.NewProvider(cfg.Splat.NoiseSeed)
	effect := landcover.NewEffect(landcover.Config{
		Zones:    file.Zones,
		Coverage: file.Coverage,
		Units:    engine.Resources(),
		Shaders:  shaders.LandCover().WithOverrideDir(cfg.Splat.ShaderPath),
		Noise:    np,
	})
	engine.AddEffect(effect)

	grid := terrain.Grid{Size: file.Terrain.Size, Cells: file.Terrain.Cells}
	mesh := grid.Vertices(CoverageSampler(file.Coverage, np.Texture().Image))

	return &Scene{Engine: engine, Effect: effect, Mesh: mesh}
}

// Close uninstalls the effect.
func (s *Scene) Close() {
	s.Engine.Close()
}

// CoverageSampler paints the demo terrain with the legend's values, picked
// by the red channel of the noise image so classes form large patches.
func CoverageSampler(cov *landcover.Coverage, noiseImg *image.RGBA) terrain.CoverageFunc {
	var values []float32
	if cov != nil {
		seen := make(map[int]bool)
		for _, v := range cov.Legend {
			if !seen[v.Value] {
				seen[v.Value] = true
				values = append(values, float32(v.Value))
			}
		}
	}
	if len(values) == 0 || noiseImg == nil {
		return nil
	}

	b := noiseImg.Bounds()
	return func(u, v float32) float32 {
		x := b.Min.X + int(u*float32(b.Dx()))%b.Dx()
		y := b.Min.Y + int(v*float32(b.Dy()))%b.Dy()
		r := noiseImg.RGBAAt(x, y).R
		return values[int(r)*len(values)/256]
	}
}
