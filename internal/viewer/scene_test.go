package viewer

import (
	"image"
	"image/color"
	"testing"

	"github.com/Faultbox/splatearth/internal/config"
	"github.com/Faultbox/splatearth/internal/earthfile"
	"github.com/Faultbox/splatearth/internal/splat/landcover"
	"github.com/Faultbox/splatearth/internal/splat/noise"
	"github.com/Faultbox/splatearth/internal/terrain"
)

func testFile() *earthfile.File {
	forest := &landcover.Biome{
		Name:    "forest",
		Classes: []string{"forest"},
		Billboards: []landcover.Billboard{
			{Image: image.NewRGBA(image.Rect(0, 0, 16, 16)), Width: 6, Height: 12},
		},
	}
	trees := landcover.NewLayer("trees", 14)
	trees.Biomes = []*landcover.Biome{forest}

	return &earthfile.File{
		Terrain: earthfile.Terrain{Size: 100, Cells: 4},
		Coverage: &landcover.Coverage{Legend: []landcover.CoverageValue{
			{Value: 41, Class: "forest"},
			{Value: 71, Class: "grassland"},
		}},
		Zones: []*landcover.Zone{
			landcover.NewZone("z", &landcover.LandCover{Layers: []*landcover.Layer{trees}}),
		},
	}
}

func TestNewScene(t *testing.T) {
	cfg := config.Default()
	cfg.Splat.TextureUnits = 8
	cfg.Splat.NoiseSeed = 7

	s := NewScene(cfg, testFile())

	if got := s.Engine.Resources().Size(); got != 8 {
		t.Errorf("pool size = %d, want 8", got)
	}
	if s.Effect.Status() != landcover.StatusInstalled {
		t.Fatalf("effect status = %s", s.Effect.Status())
	}
	if len(s.Engine.Bins()) != 1 {
		t.Errorf("expected 1 bin, got %d", len(s.Engine.Bins()))
	}
	if len(s.Mesh) != 4*4*2*3*terrain.VertexStride {
		t.Errorf("unexpected mesh length %d", len(s.Mesh))
	}
	for i := 8; i < len(s.Mesh); i += terrain.VertexStride {
		if c := s.Mesh[i]; c != 41 && c != 71 {
			t.Fatalf("coverage %v not in legend", c)
		}
	}

	s.Close()
	if s.Effect.Status() != landcover.StatusUninstalled {
		t.Errorf("Close should uninstall, status %s", s.Effect.Status())
	}
	if _, ok := s.Engine.StateSet().Uniform(noise.UniformName); ok {
		t.Error("noise uniform left behind")
	}
}

func TestCoverageSampler(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 10})
	img.SetRGBA(1, 0, color.RGBA{R: 250})

	cov := &landcover.Coverage{Legend: []landcover.CoverageValue{
		{Value: 41, Class: "forest"},
		{Value: 41, Class: "forest"},
		{Value: 52, Class: "scrub"},
	}}
	f := CoverageSampler(cov, img)
	if f == nil {
		t.Fatal("expected a sampler")
	}
	if got := f(0.25, 0.5); got != 41 {
		t.Errorf("low noise = %v, want 41", got)
	}
	if got := f(0.75, 0.5); got != 52 {
		t.Errorf("high noise = %v, want 52", got)
	}

	if CoverageSampler(nil, img) != nil {
		t.Error("nil coverage should give no sampler")
	}
	if CoverageSampler(&landcover.Coverage{}, img) != nil {
		t.Error("empty legend should give no sampler")
	}
}
