// Package state models the render state attached to terrain nodes and
// rendering bins: uniforms, texture attributes bound to image units, and a
// virtual program whose shader stages are composed by name.
package state

import "sort"

// Uniform is a named shader constant. Value is a float32 or an int32.
type Uniform struct {
	Name  string
	Value any
}

// Float returns the uniform value as float32.
func (u Uniform) Float() (float32, bool) {
	f, ok := u.Value.(float32)
	return f, ok
}

// Int returns the uniform value as int32.
func (u Uniform) Int() (int32, bool) {
	i, ok := u.Value.(int32)
	return i, ok
}

// StateSet holds uniforms, texture attributes and an optional program.
// The zero value is not usable; use NewStateSet.
type StateSet struct {
	uniforms map[string]Uniform
	textures map[int]Texture
	program  *Program
}

// NewStateSet creates an empty state set.
func NewStateSet() *StateSet {
	return &StateSet{
		uniforms: make(map[string]Uniform),
		textures: make(map[int]Texture),
	}
}

// AddUniform sets a uniform, replacing any existing uniform of the same name.
func (s *StateSet) AddUniform(name string, value any) {
	s.uniforms[name] = Uniform{Name: name, Value: value}
}

// Uniform looks up a uniform by name.
func (s *StateSet) Uniform(name string) (Uniform, bool) {
	u, ok := s.uniforms[name]
	return u, ok
}

// RemoveUniform deletes a uniform if present.
func (s *StateSet) RemoveUniform(name string) {
	delete(s.uniforms, name)
}

// Uniforms returns all uniforms sorted by name.
func (s *StateSet) Uniforms() []Uniform {
	out := make([]Uniform, 0, len(s.uniforms))
	for _, u := range s.uniforms {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetTextureAttribute binds a texture to a texture image unit.
func (s *StateSet) SetTextureAttribute(unit int, tex Texture) {
	s.textures[unit] = tex
}

// TextureAttribute returns the texture bound to unit, or nil.
func (s *StateSet) TextureAttribute(unit int) Texture {
	return s.textures[unit]
}

// RemoveTextureAttribute unbinds whatever texture occupies unit.
func (s *StateSet) RemoveTextureAttribute(unit int) {
	delete(s.textures, unit)
}

// TextureUnits returns the bound units in ascending order.
func (s *StateSet) TextureUnits() []int {
	units := make([]int, 0, len(s.textures))
	for u := range s.textures {
		units = append(units, u)
	}
	sort.Ints(units)
	return units
}

// Program returns the state set's program, or nil if none was created.
func (s *StateSet) Program() *Program {
	return s.program
}

// GetOrCreateProgram returns the program attached to s, creating it on first use.
func GetOrCreateProgram(s *StateSet) *Program {
	if s.program == nil {
		s.program = NewProgram()
	}
	return s.program
}

// RenderBin is an engine-owned draw grouping for one (zone, LOD, shadow) key.
type RenderBin struct {
	Name        string
	ZoneUID     int
	LOD         int
	CastShadows bool

	stateSet *StateSet
}

// NewRenderBin creates a bin with its own state set.
func NewRenderBin(name string, zoneUID, lod int, castShadows bool) *RenderBin {
	return &RenderBin{
		Name:        name,
		ZoneUID:     zoneUID,
		LOD:         lod,
		CastShadows: castShadows,
		stateSet:    NewStateSet(),
	}
}

// StateSet returns the bin's state set. It may be nil for bins the engine
// has not finished setting up.
func (b *RenderBin) StateSet() *StateSet {
	if b == nil {
		return nil
	}
	return b.stateSet
}

// DetachStateSet drops the bin's state set.
func (b *RenderBin) DetachStateSet() {
	b.stateSet = nil
}
