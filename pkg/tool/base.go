package tool

import (
	"github.com/chazu/meshkit/pkg/arcball"
	"github.com/chazu/meshkit/pkg/kernel"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Env is what a tool is constructed with. Mesh and Camera are shared with
// the caller and with other tools.
type Env struct {
	Mesh     *kernel.Mesh
	Camera   *Camera
	Viewport Viewport
	// Additive keeps the selection made before the current gesture.
	Additive bool
	// Bindings maps buttons to camera gestures.
	Bindings map[Button]arcball.Mode
}

// Base tracks mouse state and observers. Tools embed it and call its
// methods before their own handling.
type Base struct {
	id        uuid.UUID
	name      string
	mesh      *kernel.Mesh
	cam       *Camera
	vp        Viewport
	additive  bool
	down      mgl64.Vec2
	curr      mgl64.Vec2
	isDown    bool
	button    Button
	groups    int
	observers []func(Event)
}

func newBase(name string, env Env) Base {
	cam := env.Camera
	if cam == nil {
		c := NewCamera(env.Viewport)
		cam = &c
	}
	return Base{
		id:       uuid.New(),
		name:     name,
		mesh:     env.Mesh,
		cam:      cam,
		vp:       env.Viewport,
		additive: env.Additive,
	}
}

// ID identifies this tool instance in change events.
func (b *Base) ID() uuid.UUID { return b.id }

func (b *Base) Name() string { return b.name }

// Mesh returns the mesh the tool edits, possibly nil.
func (b *Base) Mesh() *kernel.Mesh { return b.mesh }

// Camera returns the shared camera.
func (b *Base) Camera() *Camera { return b.cam }

func (b *Base) IsMouseDown() bool        { return b.isDown }
func (b *Base) MouseDownPos() mgl64.Vec2 { return b.down }
func (b *Base) MouseCurrPos() mgl64.Vec2 { return b.curr }

// Groups returns the group count after the last selection change.
func (b *Base) Groups() int { return b.groups }

func (b *Base) MouseDown(pt mgl64.Vec2, button Button) {
	b.down = pt
	b.curr = pt
	b.isDown = true
	b.button = button
}

func (b *Base) MouseMove(pt mgl64.Vec2, _ Button) {
	b.curr = pt
}

func (b *Base) MouseUp(pt mgl64.Vec2, _ Button) {
	b.curr = pt
	b.isDown = false
	b.button = None
}

// Resize adopts a new viewport. An invalid one leaves the old in place.
func (b *Base) Resize(vp Viewport) error {
	if err := vp.Validate(); err != nil {
		return err
	}
	b.vp = vp
	return nil
}

func (b *Base) Overlay() Overlay { return Overlay{} }

// OnChanged registers fn to be called after every change.
func (b *Base) OnChanged(fn func(Event)) {
	b.observers = append(b.observers, fn)
}

// Changed notifies the observers.
func (b *Base) Changed() {
	e := Event{Tool: b.id, Name: b.name, Groups: b.groups}
	if b.mesh != nil {
		e.Selected = b.mesh.SelectedCount()
	}
	for _, fn := range b.observers {
		fn(e)
	}
}
