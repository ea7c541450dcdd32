// Package geom provides the geometry primitives and the intersection and
// containment kernel used for picking and selection. All types are small
// values; nothing in this package mutates its arguments.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ZeroTolerance is the magnitude below which a direction component is
// treated as zero by the slab test.
const ZeroTolerance = 1e-6

// ContainmentType classifies how one shape relates to another.
// Contains is strictly stronger than Intersects.
type ContainmentType int

const (
	Disjoint ContainmentType = iota
	Intersects
	Contains
)

func (c ContainmentType) String() string {
	switch c {
	case Disjoint:
		return "disjoint"
	case Intersects:
		return "intersects"
	case Contains:
		return "contains"
	default:
		return "unknown"
	}
}

// PlaneIntersectionType classifies a shape relative to a plane.
type PlaneIntersectionType int

const (
	Back PlaneIntersectionType = iota
	Front
	Intersecting
)

func (p PlaneIntersectionType) String() string {
	switch p {
	case Back:
		return "back"
	case Front:
		return "front"
	case Intersecting:
		return "intersecting"
	default:
		return "unknown"
	}
}

// Ray is a half-line. Distances reported by the kernel are in units of
// Direction, so Direction should be unit length.
type Ray struct {
	Position  v3.Vec
	Direction v3.Vec
}

// NewRay returns a ray with a normalized direction.
func NewRay(position, direction v3.Vec) Ray {
	return Ray{Position: position, Direction: direction.Normalize()}
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float64) v3.Vec {
	return r.Position.Add(r.Direction.MulScalar(t))
}

// Plane holds the points p satisfying Normal·p + D = 0.
type Plane struct {
	Normal v3.Vec
	D      float64
}

// NewPlane returns the plane through point with the given normal.
// The normal is normalized.
func NewPlane(point, normal v3.Vec) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// PlaneFromPoints returns the plane through a, b and c, facing the side
// from which the points wind counter-clockwise.
func PlaneFromPoints(a, b, c v3.Vec) Plane {
	n := b.Sub(a).Cross(c.Sub(a))
	return NewPlane(a, n)
}

// Distance returns the signed distance from p to the plane. It is a true
// distance only when Normal is unit length.
func (p Plane) Distance(point v3.Vec) float64 {
	return p.Normal.Dot(point) + p.D
}

// BoundingSphere is a sphere given by its center and radius.
type BoundingSphere struct {
	Center v3.Vec
	Radius float64
}

// Triangle is three vertices in winding order.
type Triangle struct {
	A, B, C v3.Vec
}

// Normal returns the unnormalized face normal (B-A)×(C-A).
func (t Triangle) Normal() v3.Vec {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A))
}

// Point is a position used as a shape.
type Point v3.Vec

// Vec returns p as a vector.
func (p Point) Vec() v3.Vec { return v3.Vec(p) }

// distanceSquared returns |a-b|².
func distanceSquared(a, b v3.Vec) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// clamp returns v limited componentwise to [lo, hi].
func clamp(v, lo, hi v3.Vec) v3.Vec {
	return v3.Vec{
		X: math.Min(math.Max(v.X, lo.X), hi.X),
		Y: math.Min(math.Max(v.Y, lo.Y), hi.Y),
		Z: math.Min(math.Max(v.Z, lo.Z), hi.Z),
	}
}
