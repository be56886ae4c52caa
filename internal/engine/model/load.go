package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/scilla/internal/engine/gpu"
	"github.com/Faultbox/scilla/internal/engine/material"
	"github.com/Faultbox/scilla/internal/engine/texture"
	"github.com/Faultbox/scilla/internal/logger"
)

// ErrNoGeometry is returned for a file that holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

const (
	attrPosition = "POSITION"
	attrNormal   = "NORMAL"
	attrTexCoord = "TEXCOORD_0"
)

// TextureLoader resolves texture paths, usually through the asset cache so
// textures shared between models are uploaded once.
type TextureLoader interface {
	LoadTexture(path string, opts texture.Options) (*gpu.Texture2D, error)
}

// Load reads a glTF 2.0 model (.gltf with its buffers, or .glb), bakes the
// node hierarchy of the default scene into model space and uploads one mesh
// per triangle primitive. Missing or embedded textures are logged and leave
// the affected role empty.
func Load(dev gpu.Device, path string, textures TextureLoader) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := ReadDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	dir := filepath.Dir(path)
	materials := make(map[string]*material.Material, len(doc.Materials))
	for i, def := range doc.Materials {
		materials[materialKey(i)] = resolveMaterial(doc, def, dir, textures)
	}

	m, err := Upload(dev, path, data, materials)
	if err != nil {
		return nil, err
	}
	logger.Debug("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("materials", len(materials)),
		zap.Int32("indices", m.IndexCount()))
	return m, nil
}

// ReadDocument flattens the default scene of doc into mesh data. Documents
// without scenes contribute every mesh untransformed.
func ReadDocument(doc *gltf.Document) ([]MeshData, error) {
	var out []MeshData
	var visit func(node int, parent mgl32.Mat4, depth int) error
	visit = func(node int, parent mgl32.Mat4, depth int) error {
		if node < 0 || node >= len(doc.Nodes) || depth > len(doc.Nodes) {
			return fmt.Errorf("invalid node %d", node)
		}
		n := doc.Nodes[node]
		world := parent.Mul4(nodeTransform(n))
		if n.Mesh != nil {
			meshes, err := readMesh(doc, *n.Mesh, world)
			if err != nil {
				return err
			}
			out = append(out, meshes...)
		}
		for _, child := range n.Children {
			if err := visit(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if len(doc.Scenes) == 0 {
		for i := range doc.Meshes {
			meshes, err := readMesh(doc, i, mgl32.Ident4())
			if err != nil {
				return nil, err
			}
			out = append(out, meshes...)
		}
		return out, nil
	}

	scene := 0
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		scene = *doc.Scene
	}
	for _, root := range doc.Scenes[scene].Nodes {
		if err := visit(root, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readMesh(doc *gltf.Document, index int, world mgl32.Mat4) ([]MeshData, error) {
	if index < 0 || index >= len(doc.Meshes) {
		return nil, fmt.Errorf("invalid mesh %d", index)
	}
	mesh := doc.Meshes[index]
	normalMat := world.Mat3().Inv().Transpose()

	var out []MeshData
	for p, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		data, err := readPrimitive(doc, prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, p, err)
		}
		data.Name = mesh.Name
		if prim.Material != nil {
			data.Material = materialKey(*prim.Material)
		}
		for i := range data.Vertices {
			v := &data.Vertices[i]
			v.Position = world.Mul4x1(v.Position.Vec4(1)).Vec3()
			if n := normalMat.Mul3x1(v.Normal); n.Len() > 0 {
				v.Normal = n.Normalize()
			}
		}
		out = append(out, data)
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (MeshData, error) {
	var data MeshData
	posIdx, ok := prim.Attributes[attrPosition]
	if !ok {
		return data, errors.New("missing POSITION")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return data, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return data, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[attrNormal]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return data, err
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return data, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[attrTexCoord]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return data, err
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return data, fmt.Errorf("texcoords: %w", err)
		}
	}

	if prim.Indices != nil {
		if acr, err = accessor(doc, *prim.Indices); err != nil {
			return data, err
		}
		if data.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return data, fmt.Errorf("indices: %w", err)
		}
	} else {
		data.Indices = make([]uint32, len(positions))
		for i := range data.Indices {
			data.Indices[i] = uint32(i)
		}
	}
	for _, i := range data.Indices {
		if int(i) >= len(positions) {
			return data, fmt.Errorf("index %d out of range", i)
		}
	}

	data.Vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		v := Vertex{Position: mgl32.Vec3(p)}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.TexCoord = mgl32.Vec2(uvs[i])
		}
		data.Vertices[i] = v
	}
	if len(normals) == 0 {
		faceNormals(&data)
	}
	return data, nil
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("invalid accessor %d", i)
	}
	return doc.Accessors[i], nil
}

// faceNormals gives every vertex the area-weighted average of the normals of
// the triangles that use it.
func faceNormals(d *MeshData) {
	for i := 0; i+2 < len(d.Indices); i += 3 {
		a, b, c := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		pa := d.Vertices[a].Position
		n := d.Vertices[b].Position.Sub(pa).Cross(d.Vertices[c].Position.Sub(pa))
		for _, idx := range []uint32{a, b, c} {
			d.Vertices[idx].Normal = d.Vertices[idx].Normal.Add(n)
		}
	}
	for i := range d.Vertices {
		if n := d.Vertices[i].Normal; n.Len() > 0 {
			d.Vertices[i].Normal = n.Normalize()
		}
	}
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform returns the local matrix of a node. An explicit matrix wins
// over translation/rotation/scale; zero rotation and scale mean identity.
func nodeTransform(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != identity64 && n.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	r := mgl32.Ident4()
	if q := n.Rotation; q != [4]float64{} {
		r = mgl32.Quat{
			W: float32(q[3]),
			V: mgl32.Vec3{float32(q[0]), float32(q[1]), float32(q[2])},
		}.Normalize().Mat4()
	}
	s := mgl32.Ident4()
	if sc := n.Scale; sc != [3]float64{} {
		s = mgl32.Scale3D(float32(sc[0]), float32(sc[1]), float32(sc[2]))
	}
	return t.Mul4(r).Mul4(s)
}

func materialKey(i int) string { return fmt.Sprintf("material%d", i) }

func resolveMaterial(doc *gltf.Document, def *gltf.Material, dir string, textures TextureLoader) *material.Material {
	mat := material.New()
	if textures == nil || def == nil {
		return mat
	}

	refs := [material.RoleCount]*int{}
	if pbr := def.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			refs[material.Diffuse] = &pbr.BaseColorTexture.Index
		}
		if pbr.MetallicRoughnessTexture != nil {
			refs[material.Roughness] = &pbr.MetallicRoughnessTexture.Index
		}
	}
	if def.NormalTexture != nil {
		refs[material.Normal] = def.NormalTexture.Index
	}
	if def.OcclusionTexture != nil {
		refs[material.AmbientOcclusion] = def.OcclusionTexture.Index
	}

	for _, role := range material.Roles() {
		if refs[role] == nil {
			continue
		}
		uri, err := imageURI(doc, *refs[role])
		if err != nil {
			logger.Warn("material texture unavailable",
				zap.String("material", def.Name),
				zap.Stringer("role", role),
				zap.Error(err))
			continue
		}
		// glTF texture coordinates start at the top-left, matching unflipped rows.
		opts := texture.DataOptions()
		if role == material.Diffuse {
			opts = texture.ColorOptions()
		}
		opts.FlipVertically = false
		tex, err := textures.LoadTexture(filepath.Join(dir, filepath.FromSlash(uri)), opts)
		if err != nil {
			logger.Warn("material texture unavailable",
				zap.String("material", def.Name),
				zap.Stringer("role", role),
				zap.Error(err))
			continue
		}
		mat.Set(role, tex)
	}
	return mat
}

func imageURI(doc *gltf.Document, texIndex int) (string, error) {
	if texIndex < 0 || texIndex >= len(doc.Textures) {
		return "", fmt.Errorf("invalid texture %d", texIndex)
	}
	src := doc.Textures[texIndex].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return "", fmt.Errorf("texture %d has no image", texIndex)
	}
	img := doc.Images[*src]
	if img.URI == "" || strings.HasPrefix(img.URI, "data:") {
		return "", fmt.Errorf("image %d is embedded", *src)
	}
	return img.URI, nil
}
