package earthfile

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

const forestEarth = `
name: forest demo
terrain:
  size: 2000
coverage:
  name: nlcd
  legend:
    - {value: 41, class: forest}
    - {value: 52, class: scrub}
zones:
  - name: empty
  - name: west
    land_cover:
      layers:
        - name: trees
          lod: 14
          cast_shadows: true
          density: 1.5
          max_distance: 3000
          biomes:
            - name: conifers
              classes: [forest]
              billboards:
                - {url: trees/pine.png, width: 6, height: 12}
                - {url: trees/spruce.png, width: 5, height: 10}
            - name: bushes
              classes: [scrub]
              billboards:
                - {url: trees/bush.png, width: 2, height: 2}
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "trees", "pine.png"), 64, 64)
	writePNG(t, filepath.Join(dir, "trees", "spruce.png"), 64, 64)
	writePNG(t, filepath.Join(dir, "trees", "bush.png"), 32, 32)

	path := filepath.Join(dir, "forest.earth")
	if err := os.WriteFile(path, []byte(forestEarth), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if f.Name != "forest demo" {
		t.Errorf("name = %q", f.Name)
	}
	if f.Terrain.Size != 2000 || f.Terrain.Cells != DefaultTerrain.Cells {
		t.Errorf("terrain = %+v", f.Terrain)
	}
	if f.Coverage == nil || len(f.Coverage.Legend) != 2 || f.Coverage.Legend[1].Class != "scrub" {
		t.Errorf("coverage = %+v", f.Coverage)
	}

	if len(f.Zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(f.Zones))
	}
	if f.Zones[0].HasLandCover() {
		t.Error("zone without land_cover should have no land cover")
	}

	layers := f.Zones[1].LandCover.Layers
	if len(layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(layers))
	}
	l := layers[0]
	if l.LOD != 14 || !l.CastShadows || l.Density != 1.5 || l.MaxDistance != 3000 {
		t.Errorf("unexpected layer %+v", l)
	}
	if l.Fill != 1 || l.Brightness != 1 || l.Contrast != 0 {
		t.Errorf("unset parameters should keep defaults, got fill=%v brightness=%v contrast=%v", l.Fill, l.Brightness, l.Contrast)
	}
	if l.TotalBillboards() != 3 {
		t.Errorf("expected 3 billboards, got %d", l.TotalBillboards())
	}
	pine := l.Biomes[0].Billboards[0]
	if pine.Image == nil || pine.Width != 6 || pine.Height != 12 {
		t.Errorf("unexpected billboard %+v", pine)
	}
	if got := l.Biomes[1].Classes; len(got) != 1 || got[0] != "scrub" {
		t.Errorf("classes = %v", got)
	}
}

func TestDecodeMissingImage(t *testing.T) {
	data := []byte(`
zones:
  - land_cover:
      layers:
        - name: grass
          biomes:
            - billboards:
                - {url: nowhere.png, width: 1, height: 1}
`)
	f, err := Decode(data, t.TempDir())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Zones[0].Name != "zone0" {
		t.Errorf("unnamed zone should get a generated name, got %q", f.Zones[0].Name)
	}
	bb := f.Zones[0].LandCover.Layers[0].Biomes[0].Billboards[0]
	if bb.Image != nil {
		t.Error("missing image should be left nil")
	}
	if f.Terrain != DefaultTerrain {
		t.Errorf("expected default terrain, got %+v", f.Terrain)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"no zones", "name: empty\n", ErrNoZones},
		{"unknown key", "zones:\n  - name: a\n    colour: red\n", nil},
		{"bad yaml", "zones: [\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), "")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.earth")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
