package main

import (
	"context"
	"log"
	"sync"

	"github.com/chazu/meshkit/pkg/arcball"
	"github.com/chazu/meshkit/pkg/config"
	"github.com/chazu/meshkit/pkg/engine"
	"github.com/chazu/meshkit/pkg/geom"
	"github.com/chazu/meshkit/pkg/kernel"
	"github.com/chazu/meshkit/pkg/kernel/sdfx"
	"github.com/chazu/meshkit/pkg/spatial"
	"github.com/chazu/meshkit/pkg/tool"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
//
// The active tool gets the left button. The middle and right buttons always
// drive the camera, so with the camera tool active it gets every button.
type App struct {
	ctx context.Context

	mu       sync.Mutex
	cfg      config.Config
	bindings map[tool.Button]arcball.Mode
	mesh     *kernel.Mesh
	cam      *tool.Camera
	vp       tool.Viewport
	registry *tool.Registry
	camera   *tool.CameraTool
	active   tool.Tool
	last     tool.Event

	engine *engine.Engine
}

var _ engine.Scene = (*App)(nil)

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
}

// FrameData is what the frontend needs to draw one frame. Matrices are
// column-major.
type FrameData struct {
	Model      [16]float64  `json:"model"`
	View       [16]float64  `json:"view"`
	Projection [16]float64  `json:"projection"`
	Selected   []int        `json:"selected"`
	Groups     []int        `json:"groups"`
	GroupCount int          `json:"groupCount"`
	Overlay    tool.Overlay `json:"overlay"`
	Tool       string       `json:"tool"`
	LastEvent  tool.Event   `json:"lastEvent"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ConsoleResult is the full result returned to the console.
type ConsoleResult struct {
	Value  string          `json:"value"`
	Kind   string          `json:"kind"`
	Errors []EvalErrorData `json:"errors"`
}

// NewApp builds the startup mesh and tools described by cfg.
func NewApp(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k := sdfx.New(cfg.Mesh.Cells)
	solid, err := kernel.Build(k, cfg.Mesh.Shape, cfg.Mesh.Size)
	if err != nil {
		return nil, errors.Wrap(err, "building startup solid")
	}
	solid = kernel.Place(k, solid, cfg.Mesh.Rotation, cfg.Mesh.Offset)
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, errors.Wrap(err, "meshing startup solid")
	}
	mesh.Name = cfg.Mesh.Shape
	return newApp(cfg, mesh)
}

func newApp(cfg config.Config, mesh *kernel.Mesh) (*App, error) {
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}
	vp := tool.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	cam := tool.NewCamera(vp)
	a := &App{
		cfg:      cfg,
		bindings: bindings,
		mesh:     mesh,
		cam:      &cam,
		vp:       vp,
		registry: tool.NewRegistry(),
	}

	camera, err := tool.NewCameraTool(a.env())
	if err != nil {
		return nil, err
	}
	camera.OnChanged(a.record)
	a.camera = camera

	if err := a.setTool(cfg.Selection.Tool); err != nil {
		return nil, err
	}
	a.engine = engine.NewEngine(engine.WithScene(a))
	return a, nil
}

// startup is called by Wails on app startup.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	log.Printf("meshkit: %s mesh with %d vertices, %d triangles", a.mesh.Name,
		a.mesh.VertexCount(), a.mesh.TriangleCount())
}

func (a *App) env() tool.Env {
	return tool.Env{
		Mesh:     a.mesh,
		Camera:   a.cam,
		Viewport: a.vp,
		Additive: a.cfg.Selection.Additive,
		Bindings: a.bindings,
	}
}

// record keeps the latest tool event. Tools run under a.mu.
func (a *App) record(e tool.Event) {
	a.last = e
}

func (a *App) setTool(name string) error {
	if name == a.camera.Name() {
		a.active = a.camera
		return nil
	}
	t, err := a.registry.New(name, a.env())
	if err != nil {
		return err
	}
	t.OnChanged(a.record)
	a.active = t
	return nil
}

// SetTool makes the tool called name active.
func (a *App) SetTool(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.setTool(name); err != nil {
		log.Printf("SetTool: %v", err)
		return err
	}
	return nil
}

// Tools returns the names SetTool accepts.
func (a *App) Tools() []string {
	return a.registry.Names()
}

// Resize tells the tools the viewport changed size.
func (a *App) Resize(width, height float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	vp := tool.Viewport{Width: width, Height: height}
	if err := vp.Validate(); err != nil {
		return err
	}
	if err := a.camera.Resize(vp); err != nil {
		return err
	}
	if a.active != tool.Tool(a.camera) {
		if err := a.active.Resize(vp); err != nil {
			return err
		}
	}
	a.vp = vp
	a.cam.Projection = tool.NewCamera(vp).Projection
	return nil
}

// route picks the tool that handles button. Hover moves carry no button
// and go to the active tool.
func (a *App) route(button tool.Button) tool.Tool {
	if button == tool.Left || button == tool.None {
		return a.active
	}
	return a.camera
}

func (a *App) mouse(x, y float64, button string, fn func(tool.Tool, mgl64.Vec2, tool.Button)) error {
	b, err := tool.ParseButton(button)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.route(b), mgl64.Vec2{x, y}, b)
	return nil
}

// MouseDown forwards a button press at window pixel (x, y).
func (a *App) MouseDown(x, y float64, button string) error {
	return a.mouse(x, y, button, func(t tool.Tool, pt mgl64.Vec2, b tool.Button) {
		t.MouseDown(pt, b)
	})
}

// MouseMove forwards a pointer move. button is the one held down, "none"
// when hovering.
func (a *App) MouseMove(x, y float64, button string) error {
	return a.mouse(x, y, button, func(t tool.Tool, pt mgl64.Vec2, b tool.Button) {
		t.MouseMove(pt, b)
	})
}

// MouseUp forwards a button release.
func (a *App) MouseUp(x, y float64, button string) error {
	return a.mouse(x, y, button, func(t tool.Tool, pt mgl64.Vec2, b tool.Button) {
		t.MouseUp(pt, b)
	})
}

// ResetCamera drops the accumulated camera transform.
func (a *App) ResetCamera() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera.Reset()
}

// Mesh returns the mesh being edited.
func (a *App) Mesh() MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return MeshData{
		Vertices: a.mesh.Vertices,
		Normals:  a.mesh.Normals,
		Indices:  a.mesh.Indices,
		Name:     a.mesh.Name,
	}
}

// Frame returns the camera, selection and overlay state.
func (a *App) Frame() FrameData {
	a.mu.Lock()
	defer a.mu.Unlock()
	selected := a.mesh.SelectedVertices()
	if selected == nil {
		selected = []int{}
	}
	groups := append([]int{}, a.mesh.Groups...)
	return FrameData{
		Model:      a.cam.Model,
		View:       a.cam.View,
		Projection: a.cam.Projection,
		Selected:   selected,
		Groups:     groups,
		GroupCount: lo.Max(groups),
		Overlay:    a.active.Overlay(),
		Tool:       a.active.Name(),
		LastEvent:  a.last,
	}
}

// Bounds returns the box enclosing the mesh.
func (a *App) Bounds() geom.BoundingBox {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mesh.Bounds()
}

// selectVertices replaces the selection with the vertices ids returns, or
// adds them in additive mode, and regroups the mesh.
func (a *App) selectVertices(ids func(m *kernel.Mesh) []int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.cfg.Selection.Additive {
		a.mesh.ClearSelection()
	}
	for _, i := range ids(a.mesh) {
		a.mesh.Select(i, true)
	}
	kernel.GroupVertices(a.mesh)
	return a.mesh.SelectedCount()
}

// SelectInBox replaces the selection with the vertices inside box, or adds
// to it in additive mode.
func (a *App) SelectInBox(box geom.BoundingBox) int {
	return a.selectVertices(func(m *kernel.Mesh) []int {
		return spatial.NewVertexIndex(m).InBox(box)
	})
}

// SelectInSphere is SelectInBox for a sphere.
func (a *App) SelectInSphere(sphere geom.BoundingSphere) int {
	return a.selectVertices(func(m *kernel.Mesh) []int {
		return spatial.NewVertexIndex(m).InSphere(sphere)
	})
}

// SelectFacesInBox selects the corners of the faces box contains, or with
// minimum Intersects also those it crosses.
func (a *App) SelectFacesInBox(box geom.BoundingBox, minimum geom.ContainmentType) int {
	return a.selectVertices(func(m *kernel.Mesh) []int {
		var ids []int
		for _, f := range spatial.NewFaceIndex(m).InBox(box, minimum) {
			corners := m.TriangleIndices(f)
			ids = append(ids, corners[:]...)
		}
		return ids
	})
}

// PickNearest selects the vertex closest to p.
func (a *App) PickNearest(p v3.Vec) (v3.Vec, bool) {
	var (
		at    v3.Vec
		found bool
	)
	a.selectVertices(func(m *kernel.Mesh) []int {
		i, ok := spatial.NewVertexIndex(m).Nearest(p)
		if !ok {
			return nil
		}
		at, found = m.Vertex(i), true
		return []int{i}
	})
	return at, found
}

// Evaluate runs console source against the mesh. It does not hold the app
// lock; builtins that touch the mesh take it themselves.
func (a *App) Evaluate(source string) ConsoleResult {
	result := ConsoleResult{Kind: "nil", Errors: []EvalErrorData{}}

	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.Value = res.Value
	result.Kind = res.Kind
	return result
}
