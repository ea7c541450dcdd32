// Package arcball implements a virtual trackball camera controller. A drag
// gesture on the viewport is mapped to a rotation (by projecting both drag
// points onto a unit hemisphere), a pan or a uniform scale.
//
// Matrices are mgl64 column-major with the column-vector convention, so a
// pan translation occupies column 3.
package arcball

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Epsilon is the cross-product magnitude below which a drag is treated as
// producing no rotation.
const Epsilon = 1.0e-5

// ErrViewportTooSmall is returned when the smaller viewport side is not
// larger than one pixel.
var ErrViewportTooSmall = errors.New("arcball: viewport too small")

// Mode selects the transform a gesture drives.
type Mode int

const (
	None Mode = iota
	Rotation
	Pan
	Scale
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Rotation:
		return "rotation"
	case Pan:
		return "pan"
	case Scale:
		return "scale"
	default:
		return "unknown"
	}
}

// ParseMode returns the Mode named s, ignoring case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "rotation", "rotate":
		return Rotation, nil
	case "pan":
		return Pan, nil
	case "scale", "zoom":
		return Scale, nil
	}
	return None, errors.Errorf("arcball: unknown mode %q", s)
}

// ArcBall is the per-viewport controller state. It is not safe for
// concurrent use; the tool holding it owns it.
type ArcBall struct {
	w, h         float64 // half extents of the viewport
	adjustWidth  float64
	adjustHeight float64
	g            gesture // nil when no gesture is active
}

// New returns an ArcBall for a w×h viewport.
func New(w, h float64) (*ArcBall, error) {
	b := &ArcBall{}
	if err := b.SetBounds(w, h); err != nil {
		return nil, err
	}
	return b, nil
}

// SetBounds re-derives the normalization for a w×h viewport. The same
// factor is used on both axes so the hemisphere stays round whatever the
// aspect ratio. The active gesture is kept.
func (b *ArcBall) SetBounds(w, h float64) error {
	s := math.Min(w, h)
	if s <= 1 || math.IsNaN(s) {
		return errors.Wrapf(ErrViewportTooSmall, "%gx%g", w, h)
	}
	b.w = w / 2
	b.h = h / 2
	b.adjustWidth = 1 / ((s - 1) * 0.5)
	b.adjustHeight = 1 / ((s - 1) * 0.5)
	return nil
}

// Bounds returns the viewport size.
func (b *ArcBall) Bounds() (w, h float64) {
	return b.w * 2, b.h * 2
}

// Mode returns the mode of the active gesture, None when idle.
func (b *ArcBall) Mode() Mode {
	if b.g == nil {
		return None
	}
	return b.g.mode()
}

// Click starts a gesture in mode at pt, replacing any active one.
func (b *ArcBall) Click(pt mgl64.Vec2, mode Mode) {
	switch mode {
	case Rotation:
		start := b.MapToSphere(pt)
		b.g = &rotation{start: start, end: start, quat: mgl64.QuatIdent()}
	case Pan:
		b.g = &pan{start: pt, end: pt}
	case Scale:
		b.g = &scale{start: pt, end: pt}
	default:
		b.g = nil
	}
}

// Drag moves the active gesture to pt. It does nothing when idle.
func (b *ArcBall) Drag(pt mgl64.Vec2) {
	if b.g == nil {
		return
	}
	b.g.drag(b, pt)
}

// End finishes the active gesture.
func (b *ArcBall) End() {
	b.g = nil
}

// Matrix returns the transform of the active gesture, identity when idle.
func (b *ArcBall) Matrix() mgl64.Mat4 {
	if b.g == nil {
		return mgl64.Ident4()
	}
	return b.g.matrix(b)
}

// Scale returns the uniform scale of an active scale gesture, 1 otherwise.
func (b *ArcBall) Scale() float64 {
	if s, ok := b.g.(*scale); ok {
		return s.factor(b.adjustWidth)
	}
	return 1
}

// Quaternion returns the rotation of an active rotation gesture, identity
// otherwise.
func (b *ArcBall) Quaternion() mgl64.Quat {
	if r, ok := b.g.(*rotation); ok {
		return r.quat
	}
	return mgl64.QuatIdent()
}

// MapToSphere projects a viewport point onto the unit hemisphere centred
// on the viewport. Points outside the hemisphere land on its rim.
func (b *ArcBall) MapToSphere(pt mgl64.Vec2) mgl64.Vec3 {
	x := (b.w - pt.X()) * b.adjustWidth
	y := (b.h - pt.Y()) * b.adjustHeight

	lenSq := x*x + y*y
	if lenSq > 1 {
		norm := 1 / math.Sqrt(lenSq)
		return mgl64.Vec3{x * norm, y * norm, 0}
	}
	return mgl64.Vec3{x, y, math.Sqrt(1 - lenSq)}
}
