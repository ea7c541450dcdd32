package tool

import (
	"github.com/chazu/meshkit/pkg/kernel"
	"github.com/chazu/meshkit/pkg/spatial"
	"github.com/go-gl/mathgl/mgl64"
)

// ClickSlop is how far in pixels the mouse may travel between down and up
// for the release to count as a click.
const ClickSlop = 3.0

// PickFace selects the three vertices of the face under a click.
type PickFace struct {
	Base
	index   *spatial.FaceIndex
	indexed *kernel.Mesh
	lastHit spatial.Hit
	hasHit  bool
}

var _ Tool = (*PickFace)(nil)

func NewPickFace(env Env) *PickFace {
	return &PickFace{Base: newBase("pick", env)}
}

// LastHit returns the result of the most recent pick.
func (t *PickFace) LastHit() (spatial.Hit, bool) { return t.lastHit, t.hasHit }

func (t *PickFace) MouseUp(pt mgl64.Vec2, button Button) {
	down := t.down
	t.Base.MouseUp(pt, button)
	if t.mesh == nil || pt.Sub(down).Len() > ClickSlop {
		return
	}
	if err := t.Pick(pt); err != nil {
		return
	}
	t.Changed()
}

// Pick casts a ray through window point pt and selects the nearest face
// it hits. A miss clears the selection unless the tool is additive.
func (t *PickFace) Pick(pt mgl64.Vec2) error {
	if t.mesh == nil {
		return ErrNoMesh
	}
	if t.indexed != t.mesh {
		t.index = spatial.NewFaceIndex(t.mesh)
		t.indexed = t.mesh
	}
	ray, err := t.cam.Ray(t.vp, pt)
	if err != nil {
		return err
	}
	t.lastHit, t.hasHit = t.index.Raycast(ray)
	if !t.additive {
		t.mesh.ClearSelection()
	}
	if t.hasHit {
		for _, v := range t.mesh.TriangleIndices(t.lastHit.Face) {
			t.mesh.Select(v, true)
		}
	}
	t.groups = kernel.GroupVertices(t.mesh)
	return nil
}
