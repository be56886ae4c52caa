package shader

import (
	"embed"
	"path/filepath"
)

//go:embed glsl/*.vert glsl/*.frag
var builtin embed.FS

// Built-in program names.
const (
	Terrain   = "terrain"
	Object    = "object"
	Instanced = "instanced"
	Light     = "light"
	Skybox    = "skybox"
)

// stages maps a program name to its vertex and fragment file stems.
var stages = map[string][2]string{
	Terrain:   {"terrain", "terrain"},
	Object:    {"object", "object"},
	Instanced: {"instanced", "object"},
	Light:     {"light", "light"},
	Skybox:    {"skybox", "skybox"},
}

// Names lists the built-in programs in compile order.
func Names() []string {
	return []string{Terrain, Object, Instanced, Light, Skybox}
}

// Source is the GLSL text of one program. VertexPath and FragmentPath are
// set when the text came from disk and can be re-read.
type Source struct {
	Name         string
	Vertex       string
	Fragment     string
	VertexPath   string
	FragmentPath string
}

// HasFiles reports whether the source can be re-read from disk.
func (s Source) HasFiles() bool {
	return s.VertexPath != "" && s.FragmentPath != ""
}

// Files returns the on-disk paths, if any.
func (s Source) Files() []string {
	if !s.HasFiles() {
		return nil
	}
	return []string{s.VertexPath, s.FragmentPath}
}

// Read returns a copy of s with the text re-read from its files.
func (s Source) Read() (Source, error) {
	vs, err := readFile(s.VertexPath)
	if err != nil {
		return s, err
	}
	fs, err := readFile(s.FragmentPath)
	if err != nil {
		return s, err
	}
	s.Vertex, s.Fragment = vs, fs
	return s, nil
}

// Builtin returns the embedded source of a named program.
func Builtin(name string) (Source, bool) {
	st, ok := stages[name]
	if !ok {
		return Source{}, false
	}
	vs, err := builtin.ReadFile("glsl/" + st[0] + ".vert")
	if err != nil {
		return Source{}, false
	}
	fs, err := builtin.ReadFile("glsl/" + st[1] + ".frag")
	if err != nil {
		return Source{}, false
	}
	return Source{Name: name, Vertex: string(vs), Fragment: string(fs)}, true
}

// Lookup returns the source of a named program, preferring files under dir
// (dir/<stem>.vert, dir/<stem>.frag) over the embedded copy so a shader
// directory can be edited live. An empty dir always yields the embedded
// source.
func Lookup(name, dir string) (Source, bool) {
	src, ok := Builtin(name)
	if !ok || dir == "" {
		return src, ok
	}
	st := stages[name]
	disk := Source{
		Name:         name,
		VertexPath:   filepath.Join(dir, st[0]+".vert"),
		FragmentPath: filepath.Join(dir, st[1]+".frag"),
	}
	if read, err := disk.Read(); err == nil {
		return read, true
	}
	return src, true
}
