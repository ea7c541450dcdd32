package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// ErrNilPoints is returned by FromPoints when given a nil slice.
var ErrNilPoints = errors.New("geom: points must not be nil")

// BoundingBox is an axis-aligned box. Minimum should not exceed Maximum on
// any axis; this is not enforced, see Valid.
type BoundingBox struct {
	Minimum v3.Vec
	Maximum v3.Vec
}

// NewBoundingBox returns the box spanning minimum to maximum.
func NewBoundingBox(minimum, maximum v3.Vec) BoundingBox {
	return BoundingBox{Minimum: minimum, Maximum: maximum}
}

// NewBoundingBoxXYZ returns the box spanning the given coordinates.
func NewBoundingBoxXYZ(minX, minY, minZ, maxX, maxY, maxZ float64) BoundingBox {
	return BoundingBox{
		Minimum: v3.Vec{X: minX, Y: minY, Z: minZ},
		Maximum: v3.Vec{X: maxX, Y: maxY, Z: maxZ},
	}
}

// FromPoints returns the smallest box enclosing points. An empty slice
// yields the inverted box (+MaxFloat64, -MaxFloat64), which is not Valid.
func FromPoints(points []v3.Vec) (BoundingBox, error) {
	if points == nil {
		return BoundingBox{}, ErrNilPoints
	}
	lo := v3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	hi := v3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for _, p := range points {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return BoundingBox{Minimum: lo, Maximum: hi}, nil
}

// FromSphere returns the box touching sphere along each axis.
func FromSphere(sphere BoundingSphere) BoundingBox {
	r := v3.Vec{X: sphere.Radius, Y: sphere.Radius, Z: sphere.Radius}
	return BoundingBox{
		Minimum: sphere.Center.Sub(r),
		Maximum: sphere.Center.Add(r),
	}
}

// Merge returns the smallest box enclosing a and b.
func Merge(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		Minimum: a.Minimum.Min(b.Minimum),
		Maximum: a.Maximum.Max(b.Maximum),
	}
}

// FromBox3 converts sdfx bounds.
func FromBox3(b sdf.Box3) BoundingBox {
	return BoundingBox{Minimum: b.Min, Maximum: b.Max}
}

// Box3 converts b to sdfx bounds.
func (b BoundingBox) Box3() sdf.Box3 {
	return sdf.Box3{Min: b.Minimum, Max: b.Maximum}
}

// Corners returns the eight corners: the front face (z = Maximum.Z)
// counter-clockwise from top-left, then the back face in the same order.
// Debug drawing depends on this order.
func (b BoundingBox) Corners() [8]v3.Vec {
	lo, hi := b.Minimum, b.Maximum
	return [8]v3.Vec{
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: lo.Z},
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() v3.Vec {
	return b.Minimum.Add(b.Maximum).MulScalar(0.5)
}

// Size returns the extent of the box along each axis.
func (b BoundingBox) Size() v3.Vec {
	return b.Maximum.Sub(b.Minimum)
}

// Valid reports whether Minimum ≤ Maximum on every axis.
func (b BoundingBox) Valid() bool {
	return b.Minimum.X <= b.Maximum.X && b.Minimum.Y <= b.Maximum.Y && b.Minimum.Z <= b.Maximum.Z
}

// Equal reports whether both corners compare equal.
func (b BoundingBox) Equal(o BoundingBox) bool {
	return b == o
}

// Hash combines the corner hashes by addition.
func (b BoundingBox) Hash() uint64 {
	return hashVec(b.Minimum) + hashVec(b.Maximum)
}

func hashVec(v v3.Vec) uint64 {
	return hashFloat(v.X) + hashFloat(v.Y) + hashFloat(v.Z)
}

// hashFloat folds the bit pattern of f, mapping -0 and +0 together.
func hashFloat(f float64) uint64 {
	if f == 0 {
		return 0
	}
	bits := math.Float64bits(f)
	return bits ^ (bits >> 32)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("Minimum:%s Maximum:%s", FormatVec(b.Minimum), FormatVec(b.Maximum))
}

// FormatVec formats v as "X:x Y:y Z:z".
func FormatVec(v v3.Vec) string {
	return fmt.Sprintf("X:%g Y:%g Z:%g", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Kernel delegation
// ---------------------------------------------------------------------------

// IntersectsRay reports whether ray hits b and the entry distance.
func (b BoundingBox) IntersectsRay(ray Ray) (bool, float64) {
	return RayIntersectsBox(ray, b)
}

// IntersectsRayPoint reports whether ray hits b and the entry point.
func (b BoundingBox) IntersectsRayPoint(ray Ray) (bool, v3.Vec) {
	return RayIntersectsBoxPoint(ray, b)
}

// IntersectsPlane classifies b against plane.
func (b BoundingBox) IntersectsPlane(plane Plane) PlaneIntersectionType {
	return PlaneIntersectsBox(plane, b)
}

// IntersectsTriangle reports whether b and the triangle overlap.
func (b BoundingBox) IntersectsTriangle(vertex1, vertex2, vertex3 v3.Vec) bool {
	return BoxIntersectsTriangle(b, vertex1, vertex2, vertex3)
}

// IntersectsBox reports whether b and o overlap.
func (b BoundingBox) IntersectsBox(o BoundingBox) bool {
	return BoxIntersectsBox(b, o)
}

// IntersectsSphere reports whether b and sphere overlap.
func (b BoundingBox) IntersectsSphere(sphere BoundingSphere) bool {
	return BoxIntersectsSphere(b, sphere)
}

// ContainsPoint classifies point against b.
func (b BoundingBox) ContainsPoint(point v3.Vec) ContainmentType {
	return BoxContainsPoint(b, point)
}

// ContainsTriangle classifies the triangle against b.
func (b BoundingBox) ContainsTriangle(vertex1, vertex2, vertex3 v3.Vec) ContainmentType {
	return BoxContainsTriangle(b, vertex1, vertex2, vertex3)
}

// ContainsBox classifies o against b.
func (b BoundingBox) ContainsBox(o BoundingBox) ContainmentType {
	return BoxContainsBox(b, o)
}

// ContainsSphere classifies sphere against b.
func (b BoundingBox) ContainsSphere(sphere BoundingSphere) ContainmentType {
	return BoxContainsSphere(b, sphere)
}

// SupportMapping returns the corner of b furthest along direction.
func (b BoundingBox) SupportMapping(direction v3.Vec) v3.Vec {
	return SupportPoint(b, direction)
}
