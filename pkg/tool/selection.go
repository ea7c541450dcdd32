package tool

import (
	"math"

	"github.com/chazu/meshkit/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
)

// selector marks vertices whose window projection passes a hit test.
// The selection present at mouse down is kept in additive mode.
type selector struct {
	Base
	prior []bool
}

func (s *selector) begin() {
	s.prior = s.prior[:0]
	if s.additive && s.mesh != nil {
		s.prior = append(s.prior, s.mesh.Selected...)
	}
}

func (s *selector) selectWhere(inside func(mgl64.Vec2) bool) {
	m := s.mesh
	cam := *s.cam
	for i := 0; i < m.VertexCount(); i++ {
		pt, visible := cam.Project(s.vp, m.Vertex(i))
		on := visible && inside(pt)
		if !on && i < len(s.prior) {
			on = s.prior[i]
		}
		m.Select(i, on)
	}
	s.groups = kernel.GroupVertices(m)
}

// VertexByCircle selects the vertices inside the circle centred at the
// mouse down position that passes through the current position.
type VertexByCircle struct {
	selector
}

var _ Tool = (*VertexByCircle)(nil)

func NewVertexByCircle(env Env) *VertexByCircle {
	return &VertexByCircle{selector{Base: newBase("circle", env)}}
}

func (t *VertexByCircle) MouseDown(pt mgl64.Vec2, button Button) {
	t.Base.MouseDown(pt, button)
	t.begin()
}

func (t *VertexByCircle) MouseMove(pt mgl64.Vec2, button Button) {
	if t.mesh == nil {
		return
	}
	t.Base.MouseMove(pt, button)
	if !t.isDown {
		return
	}
	t.SelectByCircle()
	t.Changed()
}

// SelectByCircle applies the current circle to the mesh.
func (t *VertexByCircle) SelectByCircle() {
	center := t.down
	r := t.curr.Sub(t.down).Len()
	t.selectWhere(func(pt mgl64.Vec2) bool {
		return pt.Sub(center).Len() <= r
	})
}

func (t *VertexByCircle) Overlay() Overlay {
	if !t.isDown {
		return Overlay{}
	}
	return Overlay{Shape: OverlayCircle, From: t.down, To: t.curr}
}

// VertexByRectangle selects the vertices inside the window rectangle
// spanned by the mouse down and current positions.
type VertexByRectangle struct {
	selector
}

var _ Tool = (*VertexByRectangle)(nil)

func NewVertexByRectangle(env Env) *VertexByRectangle {
	return &VertexByRectangle{selector{Base: newBase("rectangle", env)}}
}

func (t *VertexByRectangle) MouseDown(pt mgl64.Vec2, button Button) {
	t.Base.MouseDown(pt, button)
	t.begin()
}

func (t *VertexByRectangle) MouseMove(pt mgl64.Vec2, button Button) {
	if t.mesh == nil {
		return
	}
	t.Base.MouseMove(pt, button)
	if !t.isDown {
		return
	}
	t.SelectByRectangle()
	t.Changed()
}

// SelectByRectangle applies the current rectangle to the mesh.
func (t *VertexByRectangle) SelectByRectangle() {
	x0, x1 := math.Min(t.down.X(), t.curr.X()), math.Max(t.down.X(), t.curr.X())
	y0, y1 := math.Min(t.down.Y(), t.curr.Y()), math.Max(t.down.Y(), t.curr.Y())
	t.selectWhere(func(pt mgl64.Vec2) bool {
		return pt.X() >= x0 && pt.X() <= x1 && pt.Y() >= y0 && pt.Y() <= y1
	})
}

func (t *VertexByRectangle) Overlay() Overlay {
	if !t.isDown {
		return Overlay{}
	}
	return Overlay{Shape: OverlayRectangle, From: t.down, To: t.curr}
}
