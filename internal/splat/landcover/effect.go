package landcover

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/splatearth/internal/logger"
	"github.com/Faultbox/splatearth/internal/splat/billboard"
	"github.com/Faultbox/splatearth/internal/splat/noise"
	"github.com/Faultbox/splatearth/internal/splat/shaders"
	"github.com/Faultbox/splatearth/internal/splat/state"
	"github.com/Faultbox/splatearth/internal/splat/texarray"
)

// UnitLabel is the purpose label of the land-cover texture-array unit.
const UnitLabel = "LandCover"

var (
	// ErrIllegalLayer marks a layer with no biomes or no billboards.
	ErrIllegalLayer = errors.New("landcover: layer has no biomes or no billboards")
	// ErrNoRenderBin is reported when the engine refuses a (zone, LOD, shadow) bin.
	ErrNoRenderBin = errors.New("landcover: engine returned no render bin")
)

// Engine is the terrain engine the effect installs into.
type Engine interface {
	// StateSet returns the terrain's root state set, creating it if needed.
	StateSet() *state.StateSet
	// Noise returns the noise binding shared by every effect on the root state set.
	Noise() *noise.Shared
	AddLandCoverZone() int
	AddLandCoverLayer(zoneUID, lod int, castShadows bool) *state.RenderBin
	RemoveLandCoverLayer(bin *state.RenderBin)
	RemoveLandCoverZone(zoneUID int)
}

// TextureUnits allocates texture image units by purpose label.
type TextureUnits interface {
	Reserve(label string) (int, error)
	Release(unit int) error
}

// TerrainEffect is implemented by anything a terrain engine installs at
// startup and removes at shutdown.
type TerrainEffect interface {
	OnInstall(engine Engine)
	OnUninstall(engine Engine)
}

// Status is the install lifecycle state of an Effect.
type Status int

const (
	StatusUninstalled Status = iota
	StatusInstalling
	StatusInstalled
	StatusUninstalling
)

func (s Status) String() string {
	switch s {
	case StatusUninstalled:
		return "uninstalled"
	case StatusInstalling:
		return "installing"
	case StatusInstalled:
		return "installed"
	case StatusUninstalling:
		return "uninstalling"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Config configures an Effect.
type Config struct {
	Zones    []*Zone
	Coverage *Coverage
	Units    TextureUnits
	Shaders  *shaders.Library // nil uses shaders.LandCover()
	Noise    *noise.Provider  // nil uses a seed-0 provider
}

type installedZone struct {
	zone *Zone
	bins []*state.RenderBin
}

// installation records everything OnInstall changed so OnUninstall can undo it.
type installation struct {
	noiseUnit int
	haveNoise bool

	landCoverUnit int
	haveUnit      bool

	zones []installedZone
}

// Effect is the land-cover terrain effect.
type Effect struct {
	zones    []*Zone
	units    TextureUnits
	noise    *noise.Provider
	composer Composer

	status Status
	inst   installation
}

// Compile-time check.
var _ TerrainEffect = (*Effect)(nil)

// NewEffect creates an uninstalled effect.
func NewEffect(cfg Config) *Effect {
	lib := cfg.Shaders
	if lib == nil {
		lib = shaders.LandCover()
	}
	np := cfg.Noise
	if np == nil {
		np = noise.NewProvider(0)
	}
	return &Effect{
		zones:    cfg.Zones,
		units:    cfg.Units,
		noise:    np,
		composer: Composer{Library: lib, Coverage: cfg.Coverage},
	}
}

func (e *Effect) log() *zap.Logger {
	return logger.Named("LandCoverTerrainEffect")
}

// Status returns the current lifecycle state.
func (e *Effect) Status() Status { return e.status }

// Zones returns the configured zones.
func (e *Effect) Zones() []*Zone { return e.zones }

// LandCoverUnit returns the texture unit holding the layers' texture arrays.
func (e *Effect) LandCoverUnit() (int, bool) {
	return e.inst.landCoverUnit, e.inst.haveUnit
}

// NoiseUnit returns the texture unit of the shared noise texture.
func (e *Effect) NoiseUnit() (int, bool) {
	return e.inst.noiseUnit, e.inst.haveNoise
}

// Bins returns the render bins this effect registered, in install order.
func (e *Effect) Bins() []*state.RenderBin {
	var out []*state.RenderBin
	for _, iz := range e.inst.zones {
		out = append(out, iz.bins...)
	}
	return out
}

// OnInstall installs the noise texture, reserves the land-cover unit and
// registers a render bin per legal layer of every zone with land cover.
// Failures are logged and confined to the layer or feature they affect.
func (e *Effect) OnInstall(engine Engine) {
	if engine == nil {
		return
	}
	if e.status != StatusUninstalled {
		e.log().Debug("effect already installed", zap.Stringer("status", e.status))
		return
	}
	if !e.landCoverActive() {
		e.log().Debug("No land cover information found")
		return
	}
	if e.units == nil {
		e.log().Warn("No texture unit allocator configured; land cover disabled")
		return
	}

	e.status = StatusInstalling
	if !e.install(engine) {
		e.rollback(engine)
		e.status = StatusUninstalled
		return
	}
	e.status = StatusInstalled
}

func (e *Effect) landCoverActive() bool {
	for _, z := range e.zones {
		if z.HasLandCover() {
			return true
		}
	}
	return false
}

func (e *Effect) hasLegalLayer() bool {
	for _, z := range e.zones {
		if !z.HasLandCover() {
			continue
		}
		for _, l := range z.LandCover.Layers {
			if l != nil && l.Legal() {
				return true
			}
		}
	}
	return false
}

// install reports false when a texture unit could not be reserved and
// nothing past that point was installed.
func (e *Effect) install(engine Engine) bool {
	unit, err := engine.Noise().Acquire(e.noise, e.units)
	if err != nil {
		e.log().Warn("No texture image unit available for LandCover Noise. Aborting.", zap.Error(err))
		return false
	}
	e.inst.noiseUnit, e.inst.haveNoise = unit, true

	if e.hasLegalLayer() {
		lcUnit, err := e.units.Reserve(UnitLabel)
		if err != nil {
			e.log().Warn("No texture image unit available for LandCover.", zap.Error(err))
			return false
		}
		e.inst.landCoverUnit, e.inst.haveUnit = lcUnit, true
	}

	for _, zone := range e.zones {
		if zone == nil {
			continue
		}
		if !zone.HasLandCover() {
			e.log().Debug("zone contains no land cover information", zap.String("zone", zone.Name))
			continue
		}
		e.installZone(engine, zone)
	}
	return true
}

func (e *Effect) installZone(engine Engine, zone *Zone) {
	zone.setUID(engine.AddLandCoverZone())
	iz := installedZone{zone: zone}

	for i, layer := range zone.LandCover.Layers {
		if layer == nil {
			e.log().Warn("ILLEGAL: empty layer found in land cover layer list",
				zap.String("zone", zone.Name), zap.Int("index", i))
			continue
		}
		bin, err := e.installLayer(engine, zone, layer)
		if errors.Is(err, ErrIllegalLayer) {
			e.log().Warn("ILLEGAL: land cover layer with no biomes or no billboards defined",
				zap.String("zone", zone.Name), zap.String("layer", layer.Name))
			continue
		}
		if err != nil {
			e.log().Warn("Skipping land cover layer",
				zap.String("zone", zone.Name),
				zap.String("layer", layer.Name),
				zap.Error(err),
			)
			continue
		}
		iz.bins = append(iz.bins, bin)
	}

	e.inst.zones = append(e.inst.zones, iz)
}

// installLayer registers the layer's bin, then normalizes its billboards,
// builds the texture array and composes the bin's program and uniforms.
// A bin registered for a layer that then fails is handed back to the engine.
func (e *Effect) installLayer(engine Engine, zone *Zone, layer *Layer) (*state.RenderBin, error) {
	if !layer.Legal() {
		return nil, ErrIllegalLayer
	}
	uid, _ := zone.UID()
	bin := engine.AddLandCoverLayer(uid, layer.LOD, layer.CastShadows)
	if bin == nil {
		return nil, ErrNoRenderBin
	}

	arr, err := buildArray(layer)
	if err != nil {
		engine.RemoveLandCoverLayer(bin)
		return nil, err
	}

	ss, err := e.composer.Compose(bin, layer, e.inst.landCoverUnit)
	if err != nil {
		engine.RemoveLandCoverLayer(bin)
		return nil, err
	}
	ss.SetTextureAttribute(e.inst.landCoverUnit, arr)

	e.log().Info("Adding land cover layer",
		zap.String("layer", layer.Name),
		zap.String("zone", zone.Name),
		zap.Int("lod", layer.LOD),
		zap.Int("billboards", arr.Depth),
		zap.Int("width", arr.Width),
		zap.Int("height", arr.Height),
	)
	return bin, nil
}

func buildArray(layer *Layer) (*texarray.Array, error) {
	norm, err := billboard.Normalize(layer.Sources())
	if err != nil {
		return nil, fmt.Errorf("normalizing billboards: %w", err)
	}
	arr, err := texarray.Build(norm.Images)
	if err != nil {
		return nil, fmt.Errorf("building texture array: %w", err)
	}
	return arr, nil
}

// OnUninstall reverses OnInstall: bins and zones are deregistered in reverse
// order, then the land-cover unit is released, then this effect's hold on the
// shared noise texture is dropped.
func (e *Effect) OnUninstall(engine Engine) {
	if engine == nil {
		return
	}
	if e.status != StatusInstalled {
		e.log().Debug("effect not installed", zap.Stringer("status", e.status))
		return
	}
	e.status = StatusUninstalling
	e.rollback(engine)
	e.status = StatusUninstalled
	e.log().Debug("land cover uninstalled")
}

// rollback undoes whatever the current installation holds.
func (e *Effect) rollback(engine Engine) {
	for i := len(e.inst.zones) - 1; i >= 0; i-- {
		iz := e.inst.zones[i]
		for j := len(iz.bins) - 1; j >= 0; j-- {
			engine.RemoveLandCoverLayer(iz.bins[j])
		}
		if uid, ok := iz.zone.UID(); ok {
			engine.RemoveLandCoverZone(uid)
		}
		iz.zone.clearUID()
	}

	if e.inst.haveUnit {
		if err := e.units.Release(e.inst.landCoverUnit); err != nil {
			e.log().Warn("releasing land cover unit", zap.Error(err))
		}
	}

	if e.inst.haveNoise {
		if err := engine.Noise().Release(e.units); err != nil {
			e.log().Warn("releasing noise texture", zap.Error(err))
		}
	}

	e.inst = installation{}
}
