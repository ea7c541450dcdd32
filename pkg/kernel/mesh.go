package kernel

import (
	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// Mesh is an indexed triangle mesh with per-vertex selection state.
// Vertices has 3 floats per vertex (x,y,z), Normals has 3 floats per
// vertex and Indices has 3 uint32s per triangle. Selected and Groups are
// either empty or one entry per vertex.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Selected []bool    `json:"selected"`
	Groups   []int     `json:"groups"` // 0 for unselected vertices
	Name     string    `json:"name"`
}

// NewMesh builds a mesh from vertex positions and triangle indices.
func NewMesh(positions []v3.Vec, indices []uint32) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, len(positions)*3),
		Indices:  append([]uint32(nil), indices...),
	}
	for _, p := range positions {
		m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[i*3]),
		Y: float64(m.Vertices[i*3+1]),
		Z: float64(m.Vertices[i*3+2]),
	}
}

// TriangleIndices returns the vertex indices of triangle f.
func (m *Mesh) TriangleIndices(f int) [3]int {
	return [3]int{int(m.Indices[f*3]), int(m.Indices[f*3+1]), int(m.Indices[f*3+2])}
}

// Triangle returns the corners of triangle f.
func (m *Mesh) Triangle(f int) geom.Triangle {
	idx := m.TriangleIndices(f)
	return geom.Triangle{A: m.Vertex(idx[0]), B: m.Vertex(idx[1]), C: m.Vertex(idx[2])}
}

// Bounds returns the box enclosing every vertex. An empty mesh gives the
// inverted box that Merge treats as neutral.
func (m *Mesh) Bounds() geom.BoundingBox {
	pts := make([]v3.Vec, m.VertexCount())
	for i := range pts {
		pts[i] = m.Vertex(i)
	}
	b, _ := geom.FromPoints(pts) // never nil
	return b
}

func (m *Mesh) ensureSelection() {
	n := m.VertexCount()
	if len(m.Selected) != n {
		m.Selected = make([]bool, n)
	}
	if len(m.Groups) != n {
		m.Groups = make([]int, n)
	}
}

// Select marks vertex i as selected or not. It reports false for an out of
// range index.
func (m *Mesh) Select(i int, on bool) bool {
	if i < 0 || i >= m.VertexCount() {
		return false
	}
	m.ensureSelection()
	m.Selected[i] = on
	return true
}

// IsSelected reports whether vertex i is selected.
func (m *Mesh) IsSelected(i int) bool {
	return i >= 0 && i < len(m.Selected) && m.Selected[i]
}

// ClearSelection deselects every vertex and drops the grouping.
func (m *Mesh) ClearSelection() {
	m.ensureSelection()
	for i := range m.Selected {
		m.Selected[i] = false
		m.Groups[i] = 0
	}
}

// SelectedCount returns the number of selected vertices.
func (m *Mesh) SelectedCount() int {
	return lo.Count(m.Selected, true)
}

// SelectedVertices returns the indices of the selected vertices in
// ascending order, nil when there are none.
func (m *Mesh) SelectedVertices() []int {
	ids := lo.FilterMap(m.Selected, func(on bool, i int) (int, bool) {
		return i, on
	})
	if len(ids) == 0 {
		return nil
	}
	return ids
}
