// Package landcover installs procedurally placed vegetation billboards on a
// terrain engine. Zones own land cover, land cover owns ordered layers,
// layers own biomes, biomes own billboards; the tree is read-only during install.
package landcover

import (
	"image"

	"github.com/Faultbox/splatearth/internal/splat/billboard"
)

// Billboard is one vegetation image variant. Width and Height are the
// world-space size of the rendered quad in metres.
type Billboard struct {
	Image  image.Image
	Width  float32
	Height float32
}

// Biome groups billboard variants used where its coverage classes occur.
type Biome struct {
	Name       string
	Classes    []string
	Billboards []Billboard
}

// Layer is one vegetation category rendered at a fixed terrain LOD.
type Layer struct {
	Name        string
	LOD         int
	CastShadows bool

	Wind        float32
	Density     float32
	Fill        float32
	MaxDistance float32
	Brightness  float32
	Contrast    float32 // added to 1 before scaling around mid-gray; 0 leaves colors unchanged

	Biomes []*Biome
}

// NewLayer returns a layer with the default shading parameters.
func NewLayer(name string, lod int) *Layer {
	return &Layer{
		Name:        name,
		LOD:         lod,
		Wind:        0,
		Density:     1,
		Fill:        1,
		MaxDistance: 1000,
		Brightness:  1,
		Contrast:    0,
	}
}

// TotalBillboards counts billboards across all biomes.
func (l *Layer) TotalBillboards() int {
	n := 0
	for _, b := range l.Biomes {
		if b != nil {
			n += len(b.Billboards)
		}
	}
	return n
}

// Legal reports whether the layer can be rendered: it needs at least one
// biome and at least one billboard.
func (l *Layer) Legal() bool {
	return len(l.Biomes) > 0 && l.TotalBillboards() > 0
}

// Sources lists the layer's billboards in texture-array slot order:
// biome-major, billboard-minor.
func (l *Layer) Sources() []billboard.Source {
	out := make([]billboard.Source, 0, l.TotalBillboards())
	for bi, b := range l.Biomes {
		if b == nil {
			continue
		}
		for i, bb := range b.Billboards {
			out = append(out, billboard.Source{Biome: bi, Index: i, Image: bb.Image})
		}
	}
	return out
}

// LandCover is the ordered layer list of one zone. Order is rendering priority.
type LandCover struct {
	Layers []*Layer
}

// Zone is a geographic partition of the terrain.
type Zone struct {
	Name      string
	LandCover *LandCover

	uid        int
	registered bool
}

// NewZone creates an unregistered zone.
func NewZone(name string, lc *LandCover) *Zone {
	return &Zone{Name: name, LandCover: lc}
}

// UID returns the engine-assigned identifier and whether one is assigned.
func (z *Zone) UID() (int, bool) {
	return z.uid, z.registered
}

func (z *Zone) setUID(uid int) {
	z.uid, z.registered = uid, true
}

func (z *Zone) clearUID() {
	z.uid, z.registered = 0, false
}

// HasLandCover reports whether the zone carries any land-cover data.
func (z *Zone) HasLandCover() bool {
	return z != nil && z.LandCover != nil
}
