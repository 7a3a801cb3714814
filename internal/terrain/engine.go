// Package terrain is the in-memory terrain engine that hosts terrain effects:
// it owns the root state set, the texture image unit pool and the registries
// of land-cover zones and render bins.
package terrain

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/landcover"
	"github.com/Faultbox/splatearth/internal/splat/noise"
	"github.com/Faultbox/splatearth/internal/splat/state"
	"github.com/Faultbox/splatearth/internal/splat/texunit"
)

// Options configures an Engine.
type Options struct {
	TextureUnits int            // size of the texture image unit pool
	Reserved     map[int]string // units the engine keeps for itself
	MaxLOD       int            // bins above this LOD are refused
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		TextureUnits: texunit.DefaultUnits,
		Reserved: map[int]string{
			0: "Terrain Color",
			1: "Terrain Elevation",
		},
		MaxLOD: 23,
	}
}

// Engine implements landcover.Engine.
type Engine struct {
	opts      Options
	root      *state.StateSet
	noise     *noise.Shared
	resources *texunit.Pool

	nextZoneUID int
	zones       map[int]bool
	bins        []*state.RenderBin
	binSeq      int

	effects []landcover.TerrainEffect
}

var _ landcover.Engine = (*Engine)(nil)

// New creates an engine with an empty root state set.
func New(opts Options) *Engine {
	root := state.NewStateSet()
	return &Engine{
		opts:      opts,
		root:      root,
		noise:     noise.NewShared(root),
		resources: texunit.NewPool(opts.TextureUnits, opts.Reserved),
		zones:     make(map[int]bool),
	}
}

// StateSet returns the root terrain state set.
func (e *Engine) StateSet() *state.StateSet { return e.root }

// Noise returns the noise binding shared by every installed effect.
func (e *Engine) Noise() *noise.Shared { return e.noise }

// Resources returns the engine-wide texture image unit pool.
func (e *Engine) Resources() *texunit.Pool { return e.resources }

// AddLandCoverZone registers a zone and returns its UID.
func (e *Engine) AddLandCoverZone() int {
	uid := e.nextZoneUID
	e.nextZoneUID++
	e.zones[uid] = true
	logger.Debug("land cover zone added", zap.Int("uid", uid))
	return uid
}

// AddLandCoverLayer creates a render bin for the (zone, LOD, shadow) key.
// It returns nil for unknown zones or out-of-range LODs.
func (e *Engine) AddLandCoverLayer(zoneUID, lod int, castShadows bool) *state.RenderBin {
	if !e.zones[zoneUID] {
		logger.Warn("land cover layer for unknown zone", zap.Int("zone", zoneUID))
		return nil
	}
	if lod < 0 || lod > e.opts.MaxLOD {
		logger.Warn("land cover layer LOD out of range",
			zap.Int("lod", lod),
			zap.Int("maxLOD", e.opts.MaxLOD),
		)
		return nil
	}

	name := fmt.Sprintf("oe.LandCoverBin.%d.%d.%d", zoneUID, lod, e.binSeq)
	e.binSeq++
	bin := state.NewRenderBin(name, zoneUID, lod, castShadows)
	e.bins = append(e.bins, bin)
	return bin
}

// RemoveLandCoverLayer deregisters a bin.
func (e *Engine) RemoveLandCoverLayer(bin *state.RenderBin) {
	for i, b := range e.bins {
		if b == bin {
			e.bins = append(e.bins[:i], e.bins[i+1:]...)
			return
		}
	}
}

// RemoveLandCoverZone deregisters a zone and any bins still attached to it.
func (e *Engine) RemoveLandCoverZone(zoneUID int) {
	delete(e.zones, zoneUID)
	kept := e.bins[:0]
	for _, b := range e.bins {
		if b.ZoneUID != zoneUID {
			kept = append(kept, b)
		}
	}
	e.bins = kept
}

// Zones returns registered zone UIDs in ascending order.
func (e *Engine) Zones() []int {
	out := make([]int, 0, len(e.zones))
	for uid := range e.zones {
		out = append(out, uid)
	}
	sort.Ints(out)
	return out
}

// Bins returns registered bins in registration order.
func (e *Engine) Bins() []*state.RenderBin {
	return append([]*state.RenderBin(nil), e.bins...)
}

// AddEffect installs an effect.
func (e *Engine) AddEffect(effect landcover.TerrainEffect) {
	e.effects = append(e.effects, effect)
	effect.OnInstall(e)
}

// RemoveEffect uninstalls an effect previously added.
func (e *Engine) RemoveEffect(effect landcover.TerrainEffect) {
	for i, ef := range e.effects {
		if ef == effect {
			e.effects = append(e.effects[:i], e.effects[i+1:]...)
			effect.OnUninstall(e)
			return
		}
	}
}

// Close uninstalls every effect in reverse order of installation.
func (e *Engine) Close() {
	for i := len(e.effects) - 1; i >= 0; i-- {
		e.effects[i].OnUninstall(e)
	}
	e.effects = nil
}
