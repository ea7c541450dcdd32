package arcball

import (
	"github.com/go-gl/mathgl/mgl64"
)

// gesture is the payload of an active drag. Each mode carries only the
// state it needs.
type gesture interface {
	mode() Mode
	drag(b *ArcBall, pt mgl64.Vec2)
	matrix(b *ArcBall) mgl64.Mat4
}

// rotation holds both hemisphere points and the quaternion between them.
type rotation struct {
	start, end mgl64.Vec3
	quat       mgl64.Quat
}

func (r *rotation) mode() Mode { return Rotation }

// drag sets the quaternion to (start×end, start·end), which rotates by
// twice the angle between the two hemisphere points. Near-collinear
// points give no usable axis and reset to identity.
func (r *rotation) drag(b *ArcBall, pt mgl64.Vec2) {
	r.end = b.MapToSphere(pt)
	axis := r.start.Cross(r.end)
	if axis.Len() > Epsilon {
		r.quat = mgl64.Quat{W: r.start.Dot(r.end), V: axis}
	} else {
		r.quat = mgl64.QuatIdent()
	}
}

func (r *rotation) matrix(*ArcBall) mgl64.Mat4 {
	return QuatToMatrix4(r.quat)
}

// pan holds the raw screen offset.
type pan struct {
	start, end mgl64.Vec2
}

func (p *pan) mode() Mode { return Pan }

func (p *pan) drag(_ *ArcBall, pt mgl64.Vec2) { p.end = pt }

func (p *pan) matrix(*ArcBall) mgl64.Mat4 {
	d := p.end.Sub(p.start)
	return mgl64.Translate3D(d.X(), d.Y(), 0)
}

// scale is driven by the horizontal drag distance only.
type scale struct {
	start, end mgl64.Vec2
}

func (s *scale) mode() Mode { return Scale }

func (s *scale) drag(_ *ArcBall, pt mgl64.Vec2) { s.end = pt }

func (s *scale) factor(adjust float64) float64 {
	return 1 + (s.end.X()-s.start.X())*adjust
}

func (s *scale) matrix(b *ArcBall) mgl64.Mat4 {
	f := s.factor(b.adjustWidth)
	return mgl64.Scale3D(f, f, f)
}
