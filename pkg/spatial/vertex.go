package spatial

import (
	"github.com/chazu/meshkit/pkg/geom"
	"github.com/chazu/meshkit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

type vertexItem struct {
	id int
	p  v3.Vec
}

func (v *vertexItem) Bounds() rtreego.Rect {
	return point(v.p).ToRect(pad)
}

// VertexIndex answers region queries over mesh vertices.
type VertexIndex struct {
	tree *rtreego.Rtree
}

// NewVertexIndex indexes every vertex of m. The index does not follow later
// edits to m.
func NewVertexIndex(m *kernel.Mesh) *VertexIndex {
	tree := rtreego.NewTree(3, minChildren, maxChildren)
	for i := 0; i < m.VertexCount(); i++ {
		tree.Insert(&vertexItem{id: i, p: m.Vertex(i)})
	}
	return &VertexIndex{tree: tree}
}

// Len returns the number of indexed vertices.
func (x *VertexIndex) Len() int {
	return x.tree.Size()
}

// InBox returns the vertices inside box, boundary included, in ascending
// order.
func (x *VertexIndex) InBox(box geom.BoundingBox) []int {
	if !box.Valid() {
		return nil
	}
	var ids []int
	for _, s := range x.tree.SearchIntersect(toRect(box)) {
		v := s.(*vertexItem)
		if geom.BoxContainsPoint(box, v.p) != geom.Disjoint {
			ids = append(ids, v.id)
		}
	}
	return sorted(ids)
}

// InSphere returns the vertices within sphere.Radius of its centre in
// ascending order.
func (x *VertexIndex) InSphere(sphere geom.BoundingSphere) []int {
	if sphere.Radius < 0 {
		return nil
	}
	r2 := sphere.Radius * sphere.Radius
	var ids []int
	for _, s := range x.tree.SearchIntersect(toRect(geom.FromSphere(sphere))) {
		v := s.(*vertexItem)
		d := v.p.Sub(sphere.Center)
		if d.Dot(d) <= r2 {
			ids = append(ids, v.id)
		}
	}
	return sorted(ids)
}

// Nearest returns the vertex closest to p. It reports false for an empty
// index.
func (x *VertexIndex) Nearest(p v3.Vec) (int, bool) {
	s := x.tree.NearestNeighbor(point(p))
	if s == nil {
		return 0, false
	}
	return s.(*vertexItem).id, true
}
