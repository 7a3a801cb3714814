package state

import "sort"

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageFragment
)

var stageNames = [...]string{"vertex", "tess-control", "tess-evaluation", "geometry", "fragment"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Shader is one named GLSL source assigned to a stage.
type Shader struct {
	Name   string
	Stage  Stage
	Source string
}

// Program is a virtual program: a set of named shaders that the GPU layer
// concatenates per stage and links. Setting a shader with an existing name
// replaces it, so repeated composition is idempotent.
type Program struct {
	shaders map[string]Shader
	order   []string
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{shaders: make(map[string]Shader)}
}

// SetShader adds or replaces a shader by name. Insertion order is kept for
// new names; a replacement keeps its original position.
func (p *Program) SetShader(sh Shader) {
	if _, ok := p.shaders[sh.Name]; !ok {
		p.order = append(p.order, sh.Name)
	}
	p.shaders[sh.Name] = sh
}

// Shader returns the shader registered under name.
func (p *Program) Shader(name string) (Shader, bool) {
	sh, ok := p.shaders[name]
	return sh, ok
}

// RemoveShader drops a shader by name.
func (p *Program) RemoveShader(name string) {
	if _, ok := p.shaders[name]; !ok {
		return
	}
	delete(p.shaders, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Shaders returns every shader in insertion order.
func (p *Program) Shaders() []Shader {
	out := make([]Shader, 0, len(p.order))
	for _, n := range p.order {
		out = append(out, p.shaders[n])
	}
	return out
}

// StageShaders returns the shaders of one stage in insertion order.
func (p *Program) StageShaders(stage Stage) []Shader {
	var out []Shader
	for _, n := range p.order {
		if sh := p.shaders[n]; sh.Stage == stage {
			out = append(out, sh)
		}
	}
	return out
}

// Stages returns the distinct stages present, in pipeline order.
func (p *Program) Stages() []Stage {
	seen := make(map[Stage]bool)
	for _, sh := range p.shaders {
		seen[sh.Stage] = true
	}
	out := make([]Stage, 0, len(seen))
	for st := range seen {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
