package shader

import (
	"fmt"
	"os"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/logger"
)

// Program is a linked GL program with a uniform location cache.
// It implements gpu.Shader.
type Program struct {
	name string
	src  Source
	id   uint32

	uniforms map[string]int32
}

// New compiles src into a program.
func New(src Source) (*Program, error) {
	id, err := CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", src.Name, err)
	}
	logger.Debug("shader compiled", zap.String("name", src.Name), zap.Uint32("program", id))
	return &Program{name: src.Name, src: src, id: id, uniforms: make(map[string]int32)}, nil
}

// Reload recompiles from the source files. On failure the current program
// stays in use and the error is returned.
func (p *Program) Reload() error {
	if !p.src.HasFiles() {
		return nil
	}
	src, err := p.src.Read()
	if err != nil {
		return err
	}
	id, err := CompileProgram(src.Vertex, src.Fragment)
	if err != nil {
		return fmt.Errorf("shader %s: %w", p.name, err)
	}
	gl.DeleteProgram(p.id)
	p.id = id
	p.src = src
	p.uniforms = make(map[string]int32)
	return nil
}

// Files returns the source file paths, empty for embedded programs.
func (p *Program) Files() []string { return p.src.Files() }

// Name returns the program name.
func (p *Program) Name() string { return p.name }

// ID returns the GL program id.
func (p *Program) ID() uint32 { return p.id }

// Use makes the program current.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Location returns the cached uniform location; -1 when the uniform is
// absent or optimized out.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

func (p *Program) SetTextureUnit(name string, unit uint32) {
	gl.ProgramUniform1i(p.id, p.Location(name), int32(unit))
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.ProgramUniform1i(p.id, p.Location(name), i)
}

func (p *Program) SetInt(name string, v int32) {
	gl.ProgramUniform1i(p.id, p.Location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.ProgramUniform1f(p.id, p.Location(name), v)
}

func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	gl.ProgramUniform2f(p.id, p.Location(name), v[0], v[1])
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.ProgramUniform3f(p.id, p.Location(name), v[0], v[1], v[2])
}

func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.ProgramUniformMatrix3fv(p.id, p.Location(name), 1, false, &m[0])
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(p.id, p.Location(name), 1, false, &m[0])
}

// Delete frees the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
