// Package kernel holds the triangle mesh the interactive tools operate on
// and the abstract solid kernel that produces it. Backends such as sdfx
// build solids behind the Kernel interface and tessellate them into a Mesh.
package kernel

import (
	"github.com/chazu/meshkit/pkg/geom"
	"github.com/pkg/errors"
)

// ErrInvalidSize is returned when a primitive is requested with a
// non-positive dimension.
var ErrInvalidSize = errors.New("kernel: dimensions must be positive")

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() geom.BoundingBox
}

// Kernel builds solids and tessellates them. Primitives are centred on the
// origin.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Sphere(radius float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Place rotates s by rotation, Euler angles in degrees applied about X
// then Y then Z, and then moves it by offset. A zero rotation or offset
// leaves s as it is.
func Place(k Kernel, s Solid, rotation, offset [3]float64) Solid {
	if rotation != ([3]float64{}) {
		s = k.Rotate(s, rotation[0], rotation[1], rotation[2])
	}
	if offset != ([3]float64{}) {
		s = k.Translate(s, offset[0], offset[1], offset[2])
	}
	return s
}

// Build creates the named primitive with a characteristic size: the edge of
// a cube, the diameter of a sphere, or the height and diameter of a
// cylinder.
func Build(k Kernel, shape string, size float64) (Solid, error) {
	switch shape {
	case "box", "cube":
		return k.Box(size, size, size)
	case "sphere":
		return k.Sphere(size / 2)
	case "cylinder":
		return k.Cylinder(size, size/2)
	}
	return nil, errors.Errorf("kernel: unknown shape %q", shape)
}
