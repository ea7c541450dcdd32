package geom

import (
	"math"
	"strings"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

func TestFromPointsSingle(t *testing.T) {
	p := v3.Vec{X: 3, Y: -2, Z: 7}
	b, err := FromPoints([]v3.Vec{p})
	if err != nil {
		t.Fatalf("FromPoints: %v", err)
	}
	if b.Minimum != p || b.Maximum != p {
		t.Errorf("FromPoints([p]) = %v, want Minimum == Maximum == %v", b, p)
	}
}

func TestFromPointsCloud(t *testing.T) {
	pts := []v3.Vec{
		{X: 1, Y: 5, Z: -1},
		{X: -2, Y: 0, Z: 4},
		{X: 0, Y: 9, Z: 2},
	}
	b, err := FromPoints(pts)
	if err != nil {
		t.Fatalf("FromPoints: %v", err)
	}
	want := NewBoundingBoxXYZ(-2, 0, -1, 1, 9, 4)
	if b != want {
		t.Errorf("FromPoints() = %v, want %v", b, want)
	}
	for _, p := range pts {
		if b.ContainsPoint(p) != Contains {
			t.Errorf("box %v does not contain input %v", b, p)
		}
	}
}

func TestFromPointsNil(t *testing.T) {
	_, err := FromPoints(nil)
	if !errors.Is(err, ErrNilPoints) {
		t.Errorf("FromPoints(nil) error = %v, want ErrNilPoints", err)
	}
}

func TestFromPointsEmpty(t *testing.T) {
	b, err := FromPoints([]v3.Vec{})
	if err != nil {
		t.Fatalf("FromPoints(empty) error = %v, want nil", err)
	}
	if b.Minimum.X != math.MaxFloat64 || b.Maximum.X != -math.MaxFloat64 {
		t.Errorf("FromPoints(empty) = %v, want inverted box", b)
	}
	if b.Valid() {
		t.Error("empty box reports Valid")
	}
}

func TestFromSphere(t *testing.T) {
	b := FromSphere(BoundingSphere{Center: v3.Vec{X: 1, Y: 2, Z: 3}, Radius: 2})
	want := NewBoundingBoxXYZ(-1, 0, 1, 3, 4, 5)
	if b != want {
		t.Errorf("FromSphere() = %v, want %v", b, want)
	}
}

func TestMergeEnclosesInputs(t *testing.T) {
	boxes := []BoundingBox{
		unitBox(),
		NewBoundingBoxXYZ(5, 5, 5, 6, 6, 6),
		NewBoundingBoxXYZ(-3, 0.5, 0.2, -1, 0.7, 0.3),
		NewBoundingBoxXYZ(-1, -1, -1, 1, 1, 1),
	}
	for i, a := range boxes {
		for j, b := range boxes {
			m := Merge(a, b)
			if m.ContainsBox(a) == Disjoint || m.ContainsBox(b) == Disjoint {
				t.Errorf("Merge(%d, %d) = %v does not enclose its inputs", i, j, m)
			}
		}
	}
	if got := Merge(boxes[0], boxes[1]); got != NewBoundingBoxXYZ(0, 0, 0, 6, 6, 6) {
		t.Errorf("Merge() = %v", got)
	}

	// An inverted operand takes no part beyond its own extremes.
	inverted := NewBoundingBoxXYZ(0.8, 0.8, 0.8, 0.2, 0.2, 0.2)
	if got := Merge(unitBox(), inverted); got != unitBox() {
		t.Errorf("Merge(unit, inverted) = %v, want %v", got, unitBox())
	}
}

func TestCornersOrder(t *testing.T) {
	b := NewBoundingBoxXYZ(0, 1, 2, 10, 11, 12)
	want := [8]v3.Vec{
		{X: 0, Y: 11, Z: 12},
		{X: 10, Y: 11, Z: 12},
		{X: 10, Y: 1, Z: 12},
		{X: 0, Y: 1, Z: 12},
		{X: 0, Y: 11, Z: 2},
		{X: 10, Y: 11, Z: 2},
		{X: 10, Y: 1, Z: 2},
		{X: 0, Y: 1, Z: 2},
	}
	if got := b.Corners(); got != want {
		t.Errorf("Corners() = %v, want %v", got, want)
	}
}

func TestEqualityAndHash(t *testing.T) {
	a := NewBoundingBoxXYZ(0, 0, 0, 1, 2, 3)
	b := NewBoundingBox(v3.Vec{}, v3.Vec{X: 1, Y: 2, Z: 3})
	c := NewBoundingBoxXYZ(0, 0, 0, 1, 2, 4)

	if !a.Equal(b) || a != b {
		t.Error("equal boxes compare unequal")
	}
	if a.Equal(c) {
		t.Error("different boxes compare equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal boxes hash differently")
	}
	if got, want := a.Hash(), hashVec(a.Minimum)+hashVec(a.Maximum); got != want {
		t.Errorf("Hash() = %d, want %d", got, want)
	}
	// Swapping the corners keeps the sum.
	swapped := NewBoundingBox(a.Maximum, a.Minimum)
	if swapped.Hash() != a.Hash() {
		t.Error("hash is not a sum of corner hashes")
	}
	neg := NewBoundingBox(v3.Vec{X: math.Copysign(0, -1)}, a.Maximum)
	if neg.Hash() != a.Hash() {
		t.Error("-0 and +0 hash differently")
	}
}

func TestString(t *testing.T) {
	s := NewBoundingBoxXYZ(0, 1, 2, 3, 4, 5.5).String()
	want := "Minimum:X:0 Y:1 Z:2 Maximum:X:3 Y:4 Z:5.5"
	if s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
	if !strings.HasPrefix(s, "Minimum:") {
		t.Errorf("String() = %q", s)
	}
}

func TestBox3RoundTrip(t *testing.T) {
	sb := sdf.Box3{Min: v3.Vec{X: -1, Y: -2, Z: -3}, Max: v3.Vec{X: 1, Y: 2, Z: 3}}
	b := FromBox3(sb)
	if b.Minimum != sb.Min || b.Maximum != sb.Max {
		t.Errorf("FromBox3() = %v", b)
	}
	if b.Box3() != sb {
		t.Errorf("Box3() = %v, want %v", b.Box3(), sb)
	}
}

func TestWrapperDelegates(t *testing.T) {
	box := unitBox()
	ray := Ray{v3.Vec{X: -1, Y: 0.5, Z: 0.5}, v3.Vec{X: 1}}

	if hit, d := box.IntersectsRay(ray); !hit || d != 1 {
		t.Errorf("IntersectsRay() = %v, %v", hit, d)
	}
	if hit, p := box.IntersectsRayPoint(ray); !hit || p != (v3.Vec{Y: 0.5, Z: 0.5}) {
		t.Errorf("IntersectsRayPoint() = %v, %v", hit, p)
	}
	if got := box.IntersectsPlane(NewPlane(v3.Vec{X: 0.5}, v3.Vec{X: 1})); got != Intersecting {
		t.Errorf("IntersectsPlane() = %v", got)
	}
	if !box.IntersectsBox(NewBoundingBoxXYZ(0.5, 0.5, 0.5, 3, 3, 3)) {
		t.Error("IntersectsBox() = false")
	}
	if !box.IntersectsSphere(BoundingSphere{Center: v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Radius: 0.1}) {
		t.Error("IntersectsSphere() = false")
	}
	if !box.IntersectsTriangle(v3.Vec{X: 0.5}, v3.Vec{X: 0.5, Y: 1}, v3.Vec{X: 0.5, Z: 1}) {
		t.Error("IntersectsTriangle() = false")
	}
	if got := box.ContainsTriangle(v3.Vec{X: 0.5}, v3.Vec{X: 0.5, Y: 1}, v3.Vec{X: 0.5, Z: 1}); got != Contains {
		t.Errorf("ContainsTriangle() = %v", got)
	}
	if got := box.ContainsSphere(BoundingSphere{Center: v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, Radius: 0.1}); got != Contains {
		t.Errorf("ContainsSphere() = %v", got)
	}
	if got := box.SupportMapping(v3.Vec{X: -1, Y: 1, Z: -1}); got != (v3.Vec{Y: 1}) {
		t.Errorf("SupportMapping() = %v", got)
	}
}
