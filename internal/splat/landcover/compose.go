package landcover

import (
	"errors"
	"fmt"

	"github.com/Faultbox/splatearth/internal/splat/shaders"
	"github.com/Faultbox/splatearth/internal/splat/state"
)

// Uniforms bound on every land-cover bin.
const (
	UniformWindFactor  = "oe_landcover_windFactor"
	UniformNoise       = "oe_landcover_noise"
	UniformAO          = "oe_landcover_ao"
	UniformExposure    = "oe_landcover_exposure"
	UniformDensity     = "oe_landcover_density"
	UniformFill        = "oe_landcover_fill"
	UniformMaxDistance = "oe_landcover_maxDistance"
	UniformBrightness  = "oe_landcover_brightness"
	UniformContrast    = "oe_landcover_contrast"
	UniformTexArray    = "oe_landcover_texArray"
)

// Fixed shading constants shared by all layers.
const (
	NoiseStrength float32 = 0.75
	AOStrength    float32 = 0.5
	Exposure      float32 = 1.0
)

// ErrNoStateSet is returned when a render bin has no state set to compose into.
var ErrNoStateSet = errors.New("landcover: render bin has no state set")

// Composer builds the land-cover program and uniforms on a render bin.
type Composer struct {
	Library  *shaders.Library
	Coverage *Coverage
}

// Compose installs, in order: the shared shader library, the layer's
// coverage acceptor (tess-control), the layer's billboard generator
// (geometry), and the layer's uniforms including the texture-array unit.
// Later stages reference symbols the library declares, so order matters.
func (c *Composer) Compose(bin *state.RenderBin, layer *Layer, arrayUnit int) (*state.StateSet, error) {
	ss := bin.StateSet()
	if ss == nil {
		return nil, ErrNoStateSet
	}

	lib := c.Library
	if lib == nil {
		lib = shaders.LandCover()
	}

	vp := state.GetOrCreateProgram(ss)
	if err := lib.LoadAll(vp); err != nil {
		return nil, fmt.Errorf("loading %s shaders: %w", lib.Name, err)
	}
	vp.SetShader(layer.PredicateShader(c.Coverage))
	vp.SetShader(layer.GeometryShader())

	BindUniforms(ss, layer, arrayUnit)
	return ss, nil
}

// BindUniforms sets the layer's tunable parameters as live uniforms.
func BindUniforms(ss *state.StateSet, layer *Layer, arrayUnit int) {
	ss.AddUniform(UniformWindFactor, layer.Wind)
	ss.AddUniform(UniformNoise, NoiseStrength)
	ss.AddUniform(UniformAO, AOStrength)
	ss.AddUniform(UniformExposure, Exposure)

	ss.AddUniform(UniformDensity, layer.Density)
	ss.AddUniform(UniformFill, layer.Fill)
	ss.AddUniform(UniformMaxDistance, layer.MaxDistance)

	ss.AddUniform(UniformBrightness, layer.Brightness)
	ss.AddUniform(UniformContrast, layer.Contrast)

	ss.AddUniform(UniformTexArray, int32(arrayUnit))
}
