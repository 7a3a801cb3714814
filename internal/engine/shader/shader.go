// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/splatearth/internal/splat/shaders"
	"github.com/Faultbox/splatearth/internal/splat/state"
)

// glStage maps pipeline stages to GL shader types.
var glStage = map[state.Stage]uint32{
	state.StageVertex:         gl.VERTEX_SHADER,
	state.StageTessControl:    gl.TESS_CONTROL_SHADER,
	state.StageTessEvaluation: gl.TESS_EVALUATION_SHADER,
	state.StageGeometry:       gl.GEOMETRY_SHADER,
	state.StageFragment:       gl.FRAGMENT_SHADER,
}

// CompileProgram compiles every populated stage of p and links them.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(p *state.Program) (uint32, error) {
	if p == nil {
		return 0, fmt.Errorf("no program")
	}

	var compiled []uint32
	defer func() {
		for _, s := range compiled {
			gl.DeleteShader(s)
		}
	}()

	for _, stage := range p.Stages() {
		shaderType, ok := glStage[stage]
		if !ok {
			return 0, fmt.Errorf("unsupported stage %s", stage)
		}
		s, err := compileShader(shaders.StageSource(p, stage), shaderType, stage.String())
		if err != nil {
			return 0, err
		}
		compiled = append(compiled, s)
	}
	if len(compiled) == 0 {
		return 0, fmt.Errorf("program has no shaders")
	}

	program := gl.CreateProgram()
	for _, s := range compiled {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name,
// or -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
