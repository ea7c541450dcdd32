package geom

import (
	"github.com/pkg/errors"
)

// ErrUnsupportedShape is returned for shape pairs without a defined test.
var ErrUnsupportedShape = errors.New("geom: unsupported shape pair")

// Shape is implemented by the fixed set of shapes the kernel can test
// against a BoundingBox: Point, Ray, Plane, Triangle, BoundingBox and
// BoundingSphere.
type Shape interface {
	shape() // marker method restricting implementations to this package
}

func (Point) shape()          {}
func (Ray) shape()            {}
func (Plane) shape()          {}
func (Triangle) shape()       {}
func (BoundingBox) shape()    {}
func (BoundingSphere) shape() {}

// Intersect reports whether box and s overlap. A plane overlaps when it
// passes through the box.
func Intersect(box BoundingBox, s Shape) bool {
	switch v := s.(type) {
	case Point:
		return BoxContainsPoint(box, v.Vec()) == Contains
	case Ray:
		hit, _ := RayIntersectsBox(v, box)
		return hit
	case Plane:
		return PlaneIntersectsBox(v, box) == Intersecting
	case Triangle:
		return BoxIntersectsTriangle(box, v.A, v.B, v.C)
	case BoundingBox:
		return BoxIntersectsBox(box, v)
	case BoundingSphere:
		return BoxIntersectsSphere(box, v)
	}
	return false
}

// Contain classifies s against box. Rays and planes are unbounded and
// have no containment; they yield ErrUnsupportedShape.
func Contain(box BoundingBox, s Shape) (ContainmentType, error) {
	switch v := s.(type) {
	case Point:
		return BoxContainsPoint(box, v.Vec()), nil
	case Triangle:
		return BoxContainsTriangle(box, v.A, v.B, v.C), nil
	case BoundingBox:
		return BoxContainsBox(box, v), nil
	case BoundingSphere:
		return BoxContainsSphere(box, v), nil
	}
	return Disjoint, errors.Wrapf(ErrUnsupportedShape, "box contains %T", s)
}
