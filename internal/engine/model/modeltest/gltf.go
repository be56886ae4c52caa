// Package modeltest writes small glTF assets for tests.
package modeltest

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Triangle describes a single-triangle glTF file: (0,0,0), (1,0,0) and
// (0,Height,0), indexed, with texture coordinates and no normals.
type Triangle struct {
	Height float32 // 1 when zero
	// Image URIs relative to the file; empty omits the texture.
	BaseColor string
	Normal    string
	// Root node transform.
	Translation [3]float32
	Scale       [3]float32
}

// Write saves t as a .gltf file with an embedded buffer, creating the
// directory if needed.
func Write(tb testing.TB, path string, tri Triangle) {
	tb.Helper()
	h := tri.Height
	if h == 0 {
		h = 1
	}

	var buf []byte
	put := func(vals ...float32) {
		for _, v := range vals {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	put(0, 0, 0, 1, 0, 0, 0, h, 0)
	put(0, 0, 1, 0, 0, 1)
	for _, i := range []uint32{0, 1, 2} {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}

	node := map[string]any{"mesh": 0}
	if tri.Translation != [3]float32{} {
		node["translation"] = tri.Translation
	}
	if tri.Scale != [3]float32{} {
		node["scale"] = tri.Scale
	}
	prim := map[string]any{
		"attributes": map[string]int{"POSITION": 0, "TEXCOORD_0": 1},
		"indices":    2,
	}
	doc := map[string]any{
		"asset":  map[string]string{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes":  []any{node},
		"meshes": []any{map[string]any{"name": "triangle", "primitives": []any{prim}}},
		"buffers": []any{map[string]any{
			"byteLength": len(buf),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf),
		}},
		"bufferViews": []any{
			map[string]int{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]int{"buffer": 0, "byteOffset": 36, "byteLength": 24},
			map[string]int{"buffer": 0, "byteOffset": 60, "byteLength": 12},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3",
				"min": []float32{0, 0, 0}, "max": []float32{1, h, 0}},
			map[string]any{"bufferView": 1, "componentType": 5126, "count": 3, "type": "VEC2"},
			map[string]any{"bufferView": 2, "componentType": 5125, "count": 3, "type": "SCALAR"},
		},
	}

	if tri.BaseColor != "" || tri.Normal != "" {
		var images, textures []any
		mat := map[string]any{"name": "bark"}
		addTexture := func(uri string) int {
			images = append(images, map[string]string{"uri": uri})
			textures = append(textures, map[string]int{"source": len(images) - 1})
			return len(textures) - 1
		}
		if tri.BaseColor != "" {
			mat["pbrMetallicRoughness"] = map[string]any{
				"baseColorTexture": map[string]int{"index": addTexture(tri.BaseColor)},
			}
		}
		if tri.Normal != "" {
			mat["normalTexture"] = map[string]int{"index": addTexture(tri.Normal)}
		}
		doc["images"] = images
		doc["textures"] = textures
		doc["materials"] = []any{mat}
		prim["material"] = 0
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		tb.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		tb.Fatal(err)
	}
}
