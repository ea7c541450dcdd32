package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Ray queries
// ---------------------------------------------------------------------------

// RayIntersectsBox reports whether ray hits box using the slab method.
// distance is the smallest non-negative entry distance along the ray,
// which is 0 when the ray starts inside the box. On a miss distance is 0.
func RayIntersectsBox(ray Ray, box BoundingBox) (bool, float64) {
	tnear := 0.0
	tfar := math.MaxFloat64

	slab := func(origin, dir, lo, hi float64) bool {
		if math.Abs(dir) < ZeroTolerance {
			return origin >= lo && origin <= hi
		}
		inv := 1 / dir
		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tnear = math.Max(t1, tnear)
		tfar = math.Min(t2, tfar)
		return tnear <= tfar
	}

	if !slab(ray.Position.X, ray.Direction.X, box.Minimum.X, box.Maximum.X) ||
		!slab(ray.Position.Y, ray.Direction.Y, box.Minimum.Y, box.Maximum.Y) ||
		!slab(ray.Position.Z, ray.Direction.Z, box.Minimum.Z, box.Maximum.Z) {
		return false, 0
	}
	return true, tnear
}

// RayIntersectsBoxPoint is RayIntersectsBox reporting the entry point
// instead of the distance. On a miss the point is the zero vector.
func RayIntersectsBoxPoint(ray Ray, box BoundingBox) (bool, v3.Vec) {
	hit, d := RayIntersectsBox(ray, box)
	if !hit {
		return false, v3.Vec{}
	}
	return true, ray.At(d)
}

// RayIntersectsPlane reports whether ray hits plane and at what distance.
// A ray parallel to the plane never hits it.
func RayIntersectsPlane(ray Ray, plane Plane) (bool, float64) {
	dir := plane.Normal.Dot(ray.Direction)
	if math.Abs(dir) < ZeroTolerance {
		return false, 0
	}
	pos := plane.Normal.Dot(ray.Position)
	d := (-plane.D - pos) / dir
	if d < 0 {
		if d < -ZeroTolerance {
			return false, 0
		}
		d = 0
	}
	return true, d
}

// RayIntersectsTriangle reports whether ray hits the triangle (either
// face) in front of its origin, and at what distance.
func RayIntersectsTriangle(ray Ray, vertex1, vertex2, vertex3 v3.Vec) (bool, float64) {
	edge1 := vertex2.Sub(vertex1)
	edge2 := vertex3.Sub(vertex1)

	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if math.Abs(det) < ZeroTolerance {
		return false, 0
	}
	inv := 1 / det

	s := ray.Position.Sub(vertex1)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return false, 0
	}

	q := s.Cross(edge1)
	v := ray.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return false, 0
	}

	t := edge2.Dot(q) * inv
	if t < 0 {
		return false, 0
	}
	return true, t
}

// RayIntersectsSphere reports whether ray hits sphere and the entry
// distance, 0 when the ray starts inside.
func RayIntersectsSphere(ray Ray, sphere BoundingSphere) (bool, float64) {
	m := ray.Position.Sub(sphere.Center)
	b := m.Dot(ray.Direction)
	c := m.Dot(m) - sphere.Radius*sphere.Radius
	if c > 0 && b > 0 {
		return false, 0
	}
	disc := b*b - c
	if disc < 0 {
		return false, 0
	}
	d := -b - math.Sqrt(disc)
	if d < 0 {
		d = 0
	}
	return true, d
}

// ---------------------------------------------------------------------------
// Plane classification
// ---------------------------------------------------------------------------

// PlaneIntersectsPoint classifies point against plane.
func PlaneIntersectsPoint(plane Plane, point v3.Vec) PlaneIntersectionType {
	d := plane.Distance(point)
	if d > 0 {
		return Front
	}
	if d < 0 {
		return Back
	}
	return Intersecting
}

// PlaneIntersectsBox classifies box against plane by testing the two
// corners that are extreme along the plane normal.
func PlaneIntersectsBox(plane Plane, box BoundingBox) PlaneIntersectionType {
	var near, far v3.Vec
	pick := func(n, lo, hi float64) (float64, float64) {
		if n >= 0 {
			return lo, hi
		}
		return hi, lo
	}
	near.X, far.X = pick(plane.Normal.X, box.Minimum.X, box.Maximum.X)
	near.Y, far.Y = pick(plane.Normal.Y, box.Minimum.Y, box.Maximum.Y)
	near.Z, far.Z = pick(plane.Normal.Z, box.Minimum.Z, box.Maximum.Z)

	if plane.Distance(near) > 0 {
		return Front
	}
	if plane.Distance(far) < 0 {
		return Back
	}
	return Intersecting
}

// ---------------------------------------------------------------------------
// Box intersection
// ---------------------------------------------------------------------------

// BoxIntersectsBox reports whether a and b overlap on every axis.
func BoxIntersectsBox(a, b BoundingBox) bool {
	if a.Minimum.X > b.Maximum.X || b.Minimum.X > a.Maximum.X {
		return false
	}
	if a.Minimum.Y > b.Maximum.Y || b.Minimum.Y > a.Maximum.Y {
		return false
	}
	if a.Minimum.Z > b.Maximum.Z || b.Minimum.Z > a.Maximum.Z {
		return false
	}
	return true
}

// BoxIntersectsSphere reports whether the point of box nearest to the
// sphere center lies within the sphere.
func BoxIntersectsSphere(box BoundingBox, sphere BoundingSphere) bool {
	nearest := clamp(sphere.Center, box.Minimum, box.Maximum)
	return distanceSquared(sphere.Center, nearest) <= sphere.Radius*sphere.Radius
}

var boxAxes = [3]v3.Vec{{X: 1}, {Y: 1}, {Z: 1}}

// BoxIntersectsTriangle runs the separating axis test between box and the
// triangle: the three box face normals, the nine box-edge × triangle-edge
// axes and the triangle normal.
func BoxIntersectsTriangle(box BoundingBox, vertex1, vertex2, vertex3 v3.Vec) bool {
	center := box.Center()
	extent := box.Maximum.Sub(box.Minimum).MulScalar(0.5)

	a := vertex1.Sub(center)
	b := vertex2.Sub(center)
	c := vertex3.Sub(center)

	// Box face normals reduce to an interval test per axis.
	if math.Max(a.X, math.Max(b.X, c.X)) < -extent.X || math.Min(a.X, math.Min(b.X, c.X)) > extent.X {
		return false
	}
	if math.Max(a.Y, math.Max(b.Y, c.Y)) < -extent.Y || math.Min(a.Y, math.Min(b.Y, c.Y)) > extent.Y {
		return false
	}
	if math.Max(a.Z, math.Max(b.Z, c.Z)) < -extent.Z || math.Min(a.Z, math.Min(b.Z, c.Z)) > extent.Z {
		return false
	}

	edges := [3]v3.Vec{b.Sub(a), c.Sub(b), a.Sub(c)}
	for _, e := range edges {
		for _, u := range boxAxes {
			if separates(u.Cross(e), a, b, c, extent) {
				return false
			}
		}
	}

	return !separates(edges[0].Cross(edges[1]), a, b, c, extent)
}

// separates reports whether axis separates the triangle (a, b, c) from a
// box centred at the origin with half sizes extent. A zero axis never
// separates.
func separates(axis, a, b, c, extent v3.Vec) bool {
	p0 := a.Dot(axis)
	p1 := b.Dot(axis)
	p2 := c.Dot(axis)
	r := extent.X*math.Abs(axis.X) + extent.Y*math.Abs(axis.Y) + extent.Z*math.Abs(axis.Z)
	return math.Max(p0, math.Max(p1, p2)) < -r || math.Min(p0, math.Min(p1, p2)) > r
}

// ---------------------------------------------------------------------------
// Box containment
// ---------------------------------------------------------------------------

// BoxContainsPoint returns Contains when point lies within box on every
// axis (bounds inclusive) and Disjoint otherwise.
func BoxContainsPoint(box BoundingBox, point v3.Vec) ContainmentType {
	if box.Minimum.X <= point.X && box.Maximum.X >= point.X &&
		box.Minimum.Y <= point.Y && box.Maximum.Y >= point.Y &&
		box.Minimum.Z <= point.Z && box.Maximum.Z >= point.Z {
		return Contains
	}
	return Disjoint
}

// BoxContainsTriangle classifies the triangle against box.
func BoxContainsTriangle(box BoundingBox, vertex1, vertex2, vertex3 v3.Vec) ContainmentType {
	if BoxContainsPoint(box, vertex1) == Contains &&
		BoxContainsPoint(box, vertex2) == Contains &&
		BoxContainsPoint(box, vertex3) == Contains {
		return Contains
	}
	if BoxIntersectsTriangle(box, vertex1, vertex2, vertex3) {
		return Intersects
	}
	return Disjoint
}

// BoxContainsBox classifies inner against outer.
func BoxContainsBox(outer, inner BoundingBox) ContainmentType {
	if !BoxIntersectsBox(outer, inner) {
		return Disjoint
	}
	if outer.Minimum.X <= inner.Minimum.X && inner.Maximum.X <= outer.Maximum.X &&
		outer.Minimum.Y <= inner.Minimum.Y && inner.Maximum.Y <= outer.Maximum.Y &&
		outer.Minimum.Z <= inner.Minimum.Z && inner.Maximum.Z <= outer.Maximum.Z {
		return Contains
	}
	return Intersects
}

// BoxContainsSphere classifies sphere against box.
func BoxContainsSphere(box BoundingBox, sphere BoundingSphere) ContainmentType {
	nearest := clamp(sphere.Center, box.Minimum, box.Maximum)
	r := sphere.Radius
	if distanceSquared(sphere.Center, nearest) > r*r {
		return Disjoint
	}

	inside := func(lo, hi, c float64) bool {
		return lo+r <= c && c <= hi-r && hi-lo > r
	}
	if inside(box.Minimum.X, box.Maximum.X, sphere.Center.X) &&
		inside(box.Minimum.Y, box.Maximum.Y, sphere.Center.Y) &&
		inside(box.Minimum.Z, box.Maximum.Z, sphere.Center.Z) {
		return Contains
	}
	return Intersects
}

// ---------------------------------------------------------------------------
// Support mapping
// ---------------------------------------------------------------------------

// SupportPoint returns the corner of box furthest along direction.
func SupportPoint(box BoundingBox, direction v3.Vec) v3.Vec {
	pick := func(d, lo, hi float64) float64 {
		if d >= 0 {
			return hi
		}
		return lo
	}
	return v3.Vec{
		X: pick(direction.X, box.Minimum.X, box.Maximum.X),
		Y: pick(direction.Y, box.Minimum.Y, box.Maximum.Y),
		Z: pick(direction.Z, box.Minimum.Z, box.Maximum.Z),
	}
}
