// Package earthfile decodes the YAML scene description handed to the viewer:
// the coverage legend, the land-cover zones and the demo terrain extent.
package earthfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/splatearth/internal/assets"
	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/landcover"
)

// ErrNoZones is returned for earth files that declare no zones.
var ErrNoZones = errors.New("earthfile: no zones defined")

// Terrain sizes the flat demo terrain the viewer renders.
type Terrain struct {
	Size  float32 `yaml:"size"`  // edge length in metres
	Cells int     `yaml:"cells"` // grid cells per edge
}

// DefaultTerrain is used when the earth file has no terrain section.
var DefaultTerrain = Terrain{Size: 1000, Cells: 32}

// File is a decoded earth file.
type File struct {
	Name     string
	Terrain  Terrain
	Coverage *landcover.Coverage
	Zones    []*landcover.Zone
}

type fileDoc struct {
	Name     string       `yaml:"name"`
	Terrain  *Terrain     `yaml:"terrain"`
	Coverage *coverageDoc `yaml:"coverage"`
	Zones    []zoneDoc    `yaml:"zones"`
}

type coverageDoc struct {
	Name   string `yaml:"name"`
	Legend []struct {
		Value int    `yaml:"value"`
		Class string `yaml:"class"`
	} `yaml:"legend"`
}

type zoneDoc struct {
	Name      string        `yaml:"name"`
	LandCover *landCoverDoc `yaml:"land_cover"`
}

type landCoverDoc struct {
	Layers []layerDoc `yaml:"layers"`
}

// Optional shading parameters are pointers so unset values keep the
// landcover.NewLayer defaults.
type layerDoc struct {
	Name        string     `yaml:"name"`
	LOD         int        `yaml:"lod"`
	CastShadows bool       `yaml:"cast_shadows"`
	Wind        *float32   `yaml:"wind"`
	Density     *float32   `yaml:"density"`
	Fill        *float32   `yaml:"fill"`
	MaxDistance *float32   `yaml:"max_distance"`
	Brightness  *float32   `yaml:"brightness"`
	Contrast    *float32   `yaml:"contrast"`
	Biomes      []biomeDoc `yaml:"biomes"`
}

type biomeDoc struct {
	Name       string         `yaml:"name"`
	Classes    []string       `yaml:"classes"`
	Billboards []billboardDoc `yaml:"billboards"`
}

type billboardDoc struct {
	URL    string  `yaml:"url"`
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Load reads the earth file at path. Billboard URLs are resolved relative
// to the file's directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading earth file: %w", err)
	}
	f, err := Decode(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses earth file data. Unknown keys are rejected. Each billboard
// image is decoded once however often it is referenced. An image that cannot
// be loaded is logged and left nil, so the installer skips its layer rather
// than the whole file failing.
func Decode(data []byte, baseDir string) (*File, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding earth file: %w", err)
	}
	if len(doc.Zones) == 0 {
		return nil, ErrNoZones
	}

	f := &File{Name: doc.Name, Terrain: DefaultTerrain}
	if doc.Terrain != nil {
		if doc.Terrain.Size > 0 {
			f.Terrain.Size = doc.Terrain.Size
		}
		if doc.Terrain.Cells > 0 {
			f.Terrain.Cells = doc.Terrain.Cells
		}
	}

	if doc.Coverage != nil {
		cov := &landcover.Coverage{Name: doc.Coverage.Name}
		for _, v := range doc.Coverage.Legend {
			cov.Legend = append(cov.Legend, landcover.CoverageValue{Value: v.Value, Class: v.Class})
		}
		f.Coverage = cov
	}

	images := assets.NewManager()
	for i, zd := range doc.Zones {
		name := zd.Name
		if name == "" {
			name = fmt.Sprintf("zone%d", i)
		}
		var lc *landcover.LandCover
		if zd.LandCover != nil {
			lc = &landcover.LandCover{}
			for _, ld := range zd.LandCover.Layers {
				lc.Layers = append(lc.Layers, ld.build(baseDir, images))
			}
		}
		f.Zones = append(f.Zones, landcover.NewZone(name, lc))
	}
	return f, nil
}

func (ld layerDoc) build(baseDir string, images *assets.Manager) *landcover.Layer {
	l := landcover.NewLayer(ld.Name, ld.LOD)
	l.CastShadows = ld.CastShadows
	setFloat(&l.Wind, ld.Wind)
	setFloat(&l.Density, ld.Density)
	setFloat(&l.Fill, ld.Fill)
	setFloat(&l.MaxDistance, ld.MaxDistance)
	setFloat(&l.Brightness, ld.Brightness)
	setFloat(&l.Contrast, ld.Contrast)

	for _, bd := range ld.Biomes {
		b := &landcover.Biome{Name: bd.Name, Classes: bd.Classes}
		for _, bb := range bd.Billboards {
			b.Billboards = append(b.Billboards, bb.build(baseDir, images))
		}
		l.Biomes = append(l.Biomes, b)
	}
	return l
}

func (bd billboardDoc) build(baseDir string, images *assets.Manager) landcover.Billboard {
	bb := landcover.Billboard{Width: bd.Width, Height: bd.Height}
	path := bd.URL
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	img, err := images.Load(path)
	if err != nil {
		logger.Warn("billboard image not loaded", zap.String("url", bd.URL), zap.Error(err))
		return bb
	}
	bb.Image = img
	return bb
}

func setFloat(dst *float32, v *float32) {
	if v != nil {
		*dst = *v
	}
}
