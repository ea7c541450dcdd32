package spatial

import (
	"math"

	"github.com/chazu/meshkit/pkg/geom"
	"github.com/chazu/meshkit/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

type faceItem struct {
	id     int
	tri    geom.Triangle
	bounds geom.BoundingBox
	rect   rtreego.Rect
}

func (f *faceItem) Bounds() rtreego.Rect {
	return f.rect
}

// FaceIndex answers region and ray queries over mesh triangles.
type FaceIndex struct {
	tree   *rtreego.Rtree
	bounds geom.BoundingBox
}

// NewFaceIndex indexes every triangle of m by its bounding box.
func NewFaceIndex(m *kernel.Mesh) *FaceIndex {
	x := &FaceIndex{
		tree:   rtreego.NewTree(3, minChildren, maxChildren),
		bounds: m.Bounds(),
	}
	for f := 0; f < m.TriangleCount(); f++ {
		tri := m.Triangle(f)
		b, _ := geom.FromPoints([]v3.Vec{tri.A, tri.B, tri.C})
		x.tree.Insert(&faceItem{id: f, tri: tri, bounds: b, rect: toRect(b)})
	}
	return x
}

// Len returns the number of indexed faces.
func (x *FaceIndex) Len() int {
	return x.tree.Size()
}

// InBox returns the faces whose containment in box is at least minimum,
// in ascending order. A minimum of Disjoint is treated as Intersects.
func (x *FaceIndex) InBox(box geom.BoundingBox, minimum geom.ContainmentType) []int {
	if !box.Valid() {
		return nil
	}
	if minimum < geom.Intersects {
		minimum = geom.Intersects
	}
	var ids []int
	for _, s := range x.tree.SearchIntersect(toRect(box)) {
		f := s.(*faceItem)
		if geom.BoxContainsTriangle(box, f.tri.A, f.tri.B, f.tri.C) >= minimum {
			ids = append(ids, f.id)
		}
	}
	return sorted(ids)
}

// Raycast returns the closest face hit by ray. Ties keep the lower face
// index.
func (x *FaceIndex) Raycast(ray geom.Ray) (Hit, bool) {
	rect, ok := rayRect(ray, x.bounds)
	if !ok {
		return Hit{}, false
	}
	best := Hit{Face: -1, Distance: math.Inf(1)}
	for _, s := range x.tree.SearchIntersect(rect) {
		f := s.(*faceItem)
		if hit, _ := geom.RayIntersectsBox(ray, f.bounds); !hit {
			continue
		}
		hit, d := geom.RayIntersectsTriangle(ray, f.tri.A, f.tri.B, f.tri.C)
		if !hit {
			continue
		}
		if d < best.Distance || (d == best.Distance && f.id < best.Face) {
			best = Hit{Face: f.id, Distance: d}
		}
	}
	if best.Face < 0 {
		return Hit{}, false
	}
	best.Point = ray.At(best.Distance)
	return best, true
}
