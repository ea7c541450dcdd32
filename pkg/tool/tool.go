// Package tool implements the interactive viewport tools: a camera tool
// driving an arcball, and selection tools that mark mesh vertices under a
// screen-space circle, rectangle or picked face. Tools receive raw mouse
// events in window pixels (origin top left) and report changes to their
// observers.
package tool

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownTool is returned when a registry has no tool of that name.
	ErrUnknownTool = errors.New("tool: unknown tool")
	// ErrInvalidViewport is returned for a viewport side not larger than
	// one pixel.
	ErrInvalidViewport = errors.New("tool: invalid viewport")
	// ErrNoMesh is returned by tools that need a mesh when none is set.
	ErrNoMesh = errors.New("tool: no mesh")
)

// Button identifies a mouse button.
type Button int

const (
	None Button = iota
	Left
	Middle
	Right
)

func (b Button) String() string {
	switch b {
	case None:
		return "none"
	case Left:
		return "left"
	case Middle:
		return "middle"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseButton returns the Button named s, ignoring case.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return None, nil
	case "left":
		return Left, nil
	case "middle":
		return Middle, nil
	case "right":
		return Right, nil
	}
	return None, errors.Errorf("tool: unknown button %q", s)
}

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate reports whether both sides exceed one pixel.
func (v Viewport) Validate() error {
	if v.Width <= 1 || v.Height <= 1 {
		return errors.Wrapf(ErrInvalidViewport, "%gx%g", v.Width, v.Height)
	}
	return nil
}

// OverlayShape is the 2D feedback a tool draws over the viewport.
type OverlayShape string

const (
	OverlayNone      OverlayShape = ""
	OverlayCircle    OverlayShape = "circle"
	OverlayRectangle OverlayShape = "rectangle"
)

// Overlay describes the feedback shape between two window points. For a
// circle From is the centre and To lies on the rim.
type Overlay struct {
	Shape OverlayShape `json:"shape"`
	From  mgl64.Vec2   `json:"from"`
	To    mgl64.Vec2   `json:"to"`
}

// Event is sent to observers after a tool changes the mesh or camera.
type Event struct {
	Tool     uuid.UUID `json:"tool"`
	Name     string    `json:"name"`
	Selected int       `json:"selected"`
	Groups   int       `json:"groups"`
}

// Tool receives viewport input.
type Tool interface {
	MouseDown(pt mgl64.Vec2, button Button)
	MouseMove(pt mgl64.Vec2, button Button)
	MouseUp(pt mgl64.Vec2, button Button)
	Resize(vp Viewport) error
	Overlay() Overlay
	Name() string
	OnChanged(fn func(Event))
}
