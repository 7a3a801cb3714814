package landcover

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/splatearth/internal/splat/noise"
	"github.com/Faultbox/splatearth/internal/splat/state"
)

var errFakeExhausted = errors.New("fake: exhausted")

// fakeUnits is a counting allocator with a hard capacity.
type fakeUnits struct {
	capacity int
	reserved map[int]string
	calls    []string
}

func newFakeUnits(capacity int) *fakeUnits {
	return &fakeUnits{capacity: capacity, reserved: make(map[int]string)}
}

func (f *fakeUnits) Reserve(label string) (int, error) {
	f.calls = append(f.calls, label)
	for u := 0; u < f.capacity; u++ {
		if _, ok := f.reserved[u]; !ok {
			f.reserved[u] = label
			return u, nil
		}
	}
	return -1, errFakeExhausted
}

func (f *fakeUnits) Release(unit int) error {
	if _, ok := f.reserved[unit]; !ok {
		return fmt.Errorf("unit %d not reserved", unit)
	}
	delete(f.reserved, unit)
	return nil
}

func (f *fakeUnits) count(label string) int {
	n := 0
	for _, c := range f.calls {
		if c == label {
			n++
		}
	}
	return n
}

type binKey struct {
	zone, lod int
	shadows   bool
}

// fakeEngine records zone and bin registrations.
type fakeEngine struct {
	root    *state.StateSet
	noise   *noise.Shared
	nextUID int
	zones   map[int]bool
	bins    map[binKey]*state.RenderBin

	rejectLOD     map[int]bool // AddLandCoverLayer returns nil for these LODs
	statelessLOD  map[int]bool // bins for these LODs have no state set
	zoneCalls     int
	layerRequests []binKey
}

func newFakeEngine() *fakeEngine {
	root := state.NewStateSet()
	return &fakeEngine{
		root:         root,
		noise:        noise.NewShared(root),
		zones:        make(map[int]bool),
		bins:         make(map[binKey]*state.RenderBin),
		rejectLOD:    make(map[int]bool),
		statelessLOD: make(map[int]bool),
	}
}

func (f *fakeEngine) StateSet() *state.StateSet { return f.root }

func (f *fakeEngine) Noise() *noise.Shared { return f.noise }

func (f *fakeEngine) AddLandCoverZone() int {
	f.zoneCalls++
	uid := f.nextUID
	f.nextUID++
	f.zones[uid] = true
	return uid
}

func (f *fakeEngine) AddLandCoverLayer(zoneUID, lod int, castShadows bool) *state.RenderBin {
	k := binKey{zoneUID, lod, castShadows}
	f.layerRequests = append(f.layerRequests, k)
	if f.rejectLOD[lod] {
		return nil
	}
	bin := state.NewRenderBin(fmt.Sprintf("bin.%d.%d.%v", zoneUID, lod, castShadows), zoneUID, lod, castShadows)
	if f.statelessLOD[lod] {
		bin.DetachStateSet()
	}
	f.bins[k] = bin
	return bin
}

func (f *fakeEngine) RemoveLandCoverLayer(bin *state.RenderBin) {
	delete(f.bins, binKey{bin.ZoneUID, bin.LOD, bin.CastShadows})
}

func (f *fakeEngine) RemoveLandCoverZone(zoneUID int) {
	delete(f.zones, zoneUID)
}

func img(w, h int) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(im.Pix); i += 4 {
		im.Pix[i], im.Pix[i+3] = 200, 255
	}
	return im
}

func biome(name string, sizes ...int) *Biome {
	b := &Biome{Name: name, Classes: []string{name}}
	for _, s := range sizes {
		b.Billboards = append(b.Billboards, Billboard{Image: img(s, s), Width: 4, Height: 6})
	}
	return b
}

func layer(name string, lod int, biomes ...*Biome) *Layer {
	l := NewLayer(name, lod)
	l.Biomes = biomes
	return l
}
