// Package spatial indexes mesh vertices and faces in R-trees so selection
// queries and ray picks touch only nearby candidates. Every candidate the
// tree returns is confirmed with the exact test from package geom.
package spatial

import (
	"slices"

	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

// Branching factors of the underlying trees.
const (
	minChildren = 8
	maxChildren = 32
)

// pad grows every rectangle on all sides. rtreego rejects zero-length
// sides and does not count touching rectangles as intersecting.
const pad = 1e-9

func toRect(b geom.BoundingBox) rtreego.Rect {
	lengths := []float64{
		b.Maximum.X - b.Minimum.X + 2*pad,
		b.Maximum.Y - b.Minimum.Y + 2*pad,
		b.Maximum.Z - b.Minimum.Z + 2*pad,
	}
	origin := rtreego.Point{b.Minimum.X - pad, b.Minimum.Y - pad, b.Minimum.Z - pad}
	r, err := rtreego.NewRect(origin, lengths)
	if err != nil {
		// Only NaN or inverted extents reach here. The narrow phase
		// rejects whatever this placeholder matches.
		return rtreego.Point{0, 0, 0}.ToRect(pad)
	}
	return r
}

func point(v v3.Vec) rtreego.Point {
	return rtreego.Point{v.X, v.Y, v.Z}
}

// Hit is the nearest face a ray passes through.
type Hit struct {
	Face     int
	Distance float64
	Point    v3.Vec
}

// rayRect returns the tree-space box covering the part of ray that lies
// inside bounds, or false when the ray misses bounds.
func rayRect(ray geom.Ray, bounds geom.BoundingBox) (rtreego.Rect, bool) {
	hit, near := geom.RayIntersectsBox(ray, bounds)
	if !hit {
		return rtreego.Rect{}, false
	}
	size := bounds.Size()
	span := size.Length() / ray.Direction.Length()
	seg, _ := geom.FromPoints([]v3.Vec{ray.At(near), ray.At(near + span)})
	return toRect(seg), true
}

// sorted returns ids in ascending order.
func sorted(ids []int) []int {
	slices.Sort(ids)
	return ids
}
