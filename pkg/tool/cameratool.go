package tool

import (
	"github.com/chazu/meshkit/pkg/arcball"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultBindings maps the left button to rotation, middle to pan and
// right to scale.
func DefaultBindings() map[Button]arcball.Mode {
	return map[Button]arcball.Mode{
		Left:   arcball.Rotation,
		Middle: arcball.Pan,
		Right:  arcball.Scale,
	}
}

const (
	// PanUnits converts a pan in pixels into mesh units.
	PanUnits = 0.01
	// MinScale is the smallest scale a camera gesture applies.
	MinScale = 0.05
)

// CameraTool drives the shared camera's model transform with an arcball.
type CameraTool struct {
	Base
	ball        *arcball.ArcBall
	bindings    map[Button]arcball.Mode
	accumulated mgl64.Mat4
}

var _ Tool = (*CameraTool)(nil)

// NewCameraTool returns a camera tool for env. Missing bindings use
// DefaultBindings.
func NewCameraTool(env Env) (*CameraTool, error) {
	ball, err := arcball.New(env.Viewport.Width, env.Viewport.Height)
	if err != nil {
		return nil, err
	}
	bindings := env.Bindings
	if len(bindings) == 0 {
		bindings = DefaultBindings()
	}
	t := &CameraTool{
		Base:     newBase("camera", env),
		ball:     ball,
		bindings: bindings,
	}
	t.accumulated = t.cam.Model
	return t, nil
}

// Mode returns the active gesture.
func (t *CameraTool) Mode() arcball.Mode { return t.ball.Mode() }

func (t *CameraTool) MouseDown(pt mgl64.Vec2, button Button) {
	t.Base.MouseDown(pt, button)
	t.ball.Click(pt, t.bindings[button])
}

func (t *CameraTool) MouseMove(pt mgl64.Vec2, button Button) {
	t.Base.MouseMove(pt, button)
	if t.ball.Mode() == arcball.None {
		return
	}
	t.ball.Drag(pt)
	t.cam.Model = t.Matrix()
	t.Changed()
}

// MouseUp folds the finished gesture into the accumulated transform.
func (t *CameraTool) MouseUp(pt mgl64.Vec2, button Button) {
	t.Base.MouseUp(pt, button)
	if t.ball.Mode() == arcball.None {
		return
	}
	t.ball.Drag(pt)
	t.accumulated = t.Matrix()
	t.cam.Model = t.accumulated
	t.ball.End()
	t.Changed()
}

func (t *CameraTool) Resize(vp Viewport) error {
	if err := t.Base.Resize(vp); err != nil {
		return err
	}
	return t.ball.SetBounds(vp.Width, vp.Height)
}

// Matrix returns the active gesture composed after the accumulated
// transform. Pans are converted to mesh units with window Y flipped, and a
// scale never drops below MinScale so the model stays invertible.
func (t *CameraTool) Matrix() mgl64.Mat4 {
	g := t.ball.Matrix()
	switch t.ball.Mode() {
	case arcball.Pan:
		g[12] *= PanUnits
		g[13] *= -PanUnits
	case arcball.Scale:
		if t.ball.Scale() < MinScale {
			g = mgl64.Scale3D(MinScale, MinScale, MinScale)
		}
	}
	return g.Mul4(t.accumulated)
}

// Reset discards the accumulated transform.
func (t *CameraTool) Reset() {
	t.ball.End()
	t.accumulated = mgl64.Ident4()
	t.cam.Model = t.accumulated
	t.Changed()
}
