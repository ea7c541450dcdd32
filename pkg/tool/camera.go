package tool

import (
	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Camera transforms mesh space to clip space. Model is the transform
// accumulated by the camera tool.
type Camera struct {
	Model      mgl64.Mat4 `json:"model"`
	View       mgl64.Mat4 `json:"view"`
	Projection mgl64.Mat4 `json:"projection"`
}

// Defaults for NewCamera.
const (
	FieldOfView = 45.0 // degrees
	EyeDistance = 5.0
	NearPlane   = 0.1
	FarPlane    = 100.0
)

// NewCamera returns a perspective camera looking down -Z at the origin.
func NewCamera(vp Viewport) Camera {
	aspect := 1.0
	if vp.Height > 0 {
		aspect = vp.Width / vp.Height
	}
	return Camera{
		Model:      mgl64.Ident4(),
		View:       mgl64.LookAtV(mgl64.Vec3{0, 0, EyeDistance}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}),
		Projection: mgl64.Perspective(mgl64.DegToRad(FieldOfView), aspect, NearPlane, FarPlane),
	}
}

// Matrix returns Projection × View × Model.
func (c Camera) Matrix() mgl64.Mat4 {
	return c.Projection.Mul4(c.ModelView())
}

// ModelView returns View × Model.
func (c Camera) ModelView() mgl64.Mat4 {
	return c.View.Mul4(c.Model)
}

// Project maps a mesh-space point to window pixels. visible is false for
// points outside the depth range.
func (c Camera) Project(vp Viewport, p v3.Vec) (pt mgl64.Vec2, visible bool) {
	w, h := int(vp.Width), int(vp.Height)
	win := mgl64.Project(mgl64.Vec3{p.X, p.Y, p.Z}, c.ModelView(), c.Projection, 0, 0, w, h)
	return mgl64.Vec2{win.X(), vp.Height - win.Y()}, win.Z() >= 0 && win.Z() <= 1
}

// Ray returns the mesh-space ray through window point pt, starting on the
// near plane.
func (c Camera) Ray(vp Viewport, pt mgl64.Vec2) (geom.Ray, error) {
	w, h := int(vp.Width), int(vp.Height)
	y := vp.Height - pt.Y()
	near, err := mgl64.UnProject(mgl64.Vec3{pt.X(), y, 0}, c.ModelView(), c.Projection, 0, 0, w, h)
	if err != nil {
		return geom.Ray{}, errors.Wrap(err, "unproject near")
	}
	far, err := mgl64.UnProject(mgl64.Vec3{pt.X(), y, 1}, c.ModelView(), c.Projection, 0, 0, w, h)
	if err != nil {
		return geom.Ray{}, errors.Wrap(err, "unproject far")
	}
	origin := v3.Vec{X: near.X(), Y: near.Y(), Z: near.Z()}
	dir := v3.Vec{X: far.X() - near.X(), Y: far.Y() - near.Y(), Z: far.Z() - near.Z()}
	return geom.NewRay(origin, dir), nil
}
