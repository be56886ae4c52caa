// Package material binds a closed set of texture roles to shader uniforms.
package material

import "github.com/Faultbox/scilla/internal/engine/gpu"

// Role identifies what a texture contributes to shading.
type Role int

const (
	Diffuse Role = iota
	Normal
	Roughness
	AmbientOcclusion

	// RoleCount is the number of texture roles a material can carry.
	RoleCount
)

var roleNames = [RoleCount]string{"diffuse", "normal", "roughness", "ao"}

func (r Role) String() string {
	if r < 0 || r >= RoleCount {
		return "unknown"
	}
	return roleNames[r]
}

// Roles lists every role in binding order.
func Roles() []Role {
	return []Role{Diffuse, Normal, Roughness, AmbientOcclusion}
}

// Material is a set of textures, one per role, plus scalar properties.
// Textures are shared; a material never releases them.
type Material struct {
	Textures  [RoleCount]*gpu.Texture2D
	Shininess float32
}

// New returns a material with the default shininess.
func New() *Material {
	return &Material{Shininess: 32}
}

// Set assigns the texture for a role.
func (m *Material) Set(role Role, tex *gpu.Texture2D) *Material {
	m.Textures[role] = tex
	return m
}

// Texture returns the texture for a role, nil when unset.
func (m *Material) Texture(role Role) *gpu.Texture2D {
	return m.Textures[role]
}

// Has reports whether a role has a live texture.
func (m *Material) Has(role Role) bool {
	t := m.Textures[role]
	return t != nil && t.ID() != 0
}

// BindTextures binds every present texture to baseUnit+role and names the
// unit through the uniform returned by name. Missing roles are skipped.
// It returns the number of textures bound.
func (m *Material) BindTextures(shader gpu.Shader, baseUnit uint32, name func(Role) string) int {
	if m == nil {
		return 0
	}
	bound := 0
	for _, role := range Roles() {
		unit := baseUnit + uint32(role)
		if !m.Textures[role].BindToUnit(unit) {
			continue
		}
		shader.SetTextureUnit(name(role), unit)
		bound++
	}
	return bound
}

// UniformName is the naming used by the object shader: "material.<role>".
func UniformName(role Role) string {
	return "material." + role.String()
}

// Bind binds the material for the object shader, including presence flags
// so the shader can fall back when a map is missing.
func (m *Material) Bind(shader gpu.Shader) {
	if m == nil {
		shader.SetBool("material.hasDiffuse", false)
		shader.SetBool("material.hasNormal", false)
		return
	}
	m.BindTextures(shader, 0, UniformName)
	shader.SetBool("material.hasDiffuse", m.Has(Diffuse))
	shader.SetBool("material.hasNormal", m.Has(Normal))
	shader.SetFloat("material.shininess", m.Shininess)
}
