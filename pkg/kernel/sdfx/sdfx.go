// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"math"

	"github.com/chazu/meshkit/pkg/geom"
	"github.com/chazu/meshkit/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 64

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

func (s *sdfxSolid) Bounds() geom.BoundingBox {
	return geom.FromBox3(s.s.BoundingBox())
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a kernel that tessellates with the given number of marching
// cubes cells. Non-positive values use DefaultCells.
func New(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultCells
	}
	return &SdfxKernel{cells: cells}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box returns an x×y×z box centred on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidSize, "box %gx%gx%g", x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdf.Box3D")
	}
	return wrap(s), nil
}

// Sphere returns a sphere centred on the origin.
func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	if radius <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidSize, "sphere radius %g", radius)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, errors.Wrap(err, "sdf.Sphere3D")
	}
	return wrap(s), nil
}

// Cylinder returns a cylinder along Z centred on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, errors.Wrapf(kernel.ErrInvalidSize, "cylinder %gx%g", height, radius)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdf.Cylinder3D")
	}
	return wrap(s), nil
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to an indexed triangle mesh using marching
// cubes. Coincident corners are welded into one vertex so that selections
// follow the surface connectivity, and each vertex normal is the
// normalized sum of its face normals.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	triangles := render.ToTriangles(unwrap(s), render.NewMarchingCubesUniform(k.cells))
	if len(triangles) == 0 {
		return nil, errors.New("sdfx: tessellation produced no triangles")
	}

	w := newWelder(len(triangles))
	for _, tri := range triangles {
		idx := [3]uint32{w.index(tri[0]), w.index(tri[1]), w.index(tri[2])}
		// Marching cubes can emit slivers whose corners weld together.
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[2] == idx[0] {
			continue
		}
		n := tri.Normal()
		for _, i := range idx {
			w.normals[i] = w.normals[i].Add(n)
		}
		w.indices = append(w.indices, idx[0], idx[1], idx[2])
	}
	return w.mesh(), nil
}
