// Package shader compiles GLSL programs, sets their uniforms and reloads
// them when their source files change.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", log)
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
		log := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}

	return shader, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "no info log"
	}
	log := make([]byte, n)
	read(&log[0])
	return strings.TrimRight(string(log), "\x00\n")
}
