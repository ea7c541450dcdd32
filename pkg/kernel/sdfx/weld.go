package sdfx

import (
	"github.com/chazu/meshkit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// welder merges vertices that are equal at float32 precision.
type welder struct {
	lookup   map[[3]float32]uint32
	vertices []float32
	normals  []v3.Vec
	indices  []uint32
}

func newWelder(triangles int) *welder {
	return &welder{
		lookup:   make(map[[3]float32]uint32, triangles/2),
		vertices: make([]float32, 0, triangles*3/2),
		indices:  make([]uint32, 0, triangles*3),
	}
}

// index returns the vertex index for p, adding it on first sight.
func (w *welder) index(p v3.Vec) uint32 {
	key := [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
	if i, ok := w.lookup[key]; ok {
		return i
	}
	i := uint32(len(w.normals))
	w.lookup[key] = i
	w.vertices = append(w.vertices, key[0], key[1], key[2])
	w.normals = append(w.normals, v3.Vec{})
	return i
}

func (w *welder) mesh() *kernel.Mesh {
	normals := make([]float32, 0, len(w.normals)*3)
	for _, n := range w.normals {
		if l := n.Length(); l > 0 {
			n = n.MulScalar(1 / l)
		}
		normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return &kernel.Mesh{
		Vertices: w.vertices,
		Normals:  normals,
		Indices:  w.indices,
	}
}
