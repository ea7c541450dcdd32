package main

import (
	"os"
	"strconv"
	"testing"

	"github.com/chazu/meshkit/pkg/config"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl64"
)

// testConfig is a 200x200 viewport looking at a unit-radius sphere meshed
// coarsely enough to keep the tests fast.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Viewport = config.Viewport{Width: 200, Height: 200}
	cfg.Mesh = config.Mesh{Shape: "sphere", Size: 2, Cells: 16}
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

// dump formats v for failure messages.
func dump(v any) string {
	return spew.Sdump(v)
}

func drag(t *testing.T, app *App, button string, from, to mgl64.Vec2) {
	t.Helper()
	steps := []func(x, y float64, b string) error{app.MouseDown, app.MouseMove, app.MouseUp}
	pts := []mgl64.Vec2{from, to, to}
	for i, step := range steps {
		if err := step(pts[i].X(), pts[i].Y(), button); err != nil {
			t.Fatalf("mouse event %d: %v", i, err)
		}
	}
}

// TestE2EStartupMesh checks the mesh the app is built with.
func TestE2EStartupMesh(t *testing.T) {
	app := newTestApp(t, testConfig())
	m := app.Mesh()

	if len(m.Vertices) == 0 || len(m.Vertices)%3 != 0 {
		t.Fatalf("vertices = %d floats, want a non-empty multiple of 3", len(m.Vertices))
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals = %d floats, want %d", len(m.Normals), len(m.Vertices))
	}
	if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
		t.Errorf("indices = %d, want a non-empty multiple of 3", len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Vertices)/3 {
			t.Fatalf("index %d out of range", i)
		}
	}
	if m.Name != "sphere" {
		t.Errorf("Name = %q, want sphere", m.Name)
	}

	f := app.Frame()
	if f.Tool != "circle" {
		t.Errorf("Tool = %q, want circle", f.Tool)
	}
	if f.Selected == nil || len(f.Selected) != 0 {
		t.Errorf("Selected = %v, want empty non-nil", f.Selected)
	}
	if mgl64.Mat4(f.Model) != mgl64.Ident4() {
		t.Errorf("Model = %s, want identity", dump(f.Model))
	}
}

// TestE2ECircleSelectsVisibleSphere drags a circle over the whole viewport.
func TestE2ECircleSelectsVisibleSphere(t *testing.T) {
	app := newTestApp(t, testConfig())
	n := len(app.Mesh().Vertices) / 3

	if err := app.MouseDown(100, 100, "left"); err != nil {
		t.Fatal(err)
	}
	if err := app.MouseMove(200, 100, "left"); err != nil {
		t.Fatal(err)
	}
	f := app.Frame()
	if f.Overlay.Shape != "circle" || f.Overlay.From != (mgl64.Vec2{100, 100}) {
		t.Errorf("Overlay = %s", dump(f.Overlay))
	}
	if err := app.MouseUp(200, 100, "left"); err != nil {
		t.Fatal(err)
	}

	f = app.Frame()
	if len(f.Selected) != n {
		t.Errorf("selected %d vertices, want all %d", len(f.Selected), n)
	}
	if f.GroupCount < 1 {
		t.Errorf("GroupCount = %d, want at least 1", f.GroupCount)
	}
	if f.LastEvent.Name != "circle" || f.LastEvent.Selected != n {
		t.Errorf("LastEvent = %s", dump(f.LastEvent))
	}
	if f.Overlay.Shape != "" {
		t.Errorf("Overlay after mouse up = %s, want none", dump(f.Overlay))
	}
}

// TestE2EConsoleSelectBox drives the selection from the console.
func TestE2EConsoleSelectBox(t *testing.T) {
	app := newTestApp(t, testConfig())
	n := len(app.Mesh().Vertices) / 3

	res := app.Evaluate("(select-box (mesh-bounds))")
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %s", dump(res.Errors))
	}
	if res.Kind != "number" || res.Value != strconv.Itoa(n) {
		t.Errorf("result = %s, want number %d", dump(res), n)
	}
	if got := len(app.Frame().Selected); got != n {
		t.Errorf("selected %d, want %d", got, n)
	}

	// Replace mode clears what was there.
	res = app.Evaluate("(select-box (box 10 10 10 11 11 11))")
	if res.Value != "0" {
		t.Errorf("select-box far away = %q, want 0", res.Value)
	}
	if got := len(app.Frame().Selected); got != 0 {
		t.Errorf("selected %d after replace, want 0", got)
	}
}

// TestE2EEmptySource ensures the console handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t, testConfig())
	res := app.Evaluate("")
	if len(res.Errors) != 0 {
		t.Errorf("unexpected errors for empty source: %v", res.Errors)
	}
	if res.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if res.Kind != "nil" {
		t.Errorf("Kind = %q, want nil", res.Kind)
	}
}

// TestE2ESyntaxError ensures syntax errors are reported, not panicked.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t, testConfig())
	res := app.Evaluate("(box 0 0 0 1 1 1")
	if len(res.Errors) == 0 {
		t.Fatal("expected eval errors for unmatched parens")
	}
	if res.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	if res.Value != "" {
		t.Errorf("Value = %q on error, want empty", res.Value)
	}
}

// TestE2EExampleFiles runs the shipped example settings and console script.
func TestE2EExampleFiles(t *testing.T) {
	cfg, err := config.Load("examples/meshkit.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	app := newTestApp(t, cfg)
	n := len(app.Mesh().Vertices) / 3

	source, err := os.ReadFile("examples/cap.mk")
	if err != nil {
		t.Fatalf("failed to read cap.mk: %v", err)
	}
	res := app.Evaluate(string(source))
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	got, err := strconv.Atoi(res.Value)
	if err != nil {
		t.Fatalf("Value = %q, want a count", res.Value)
	}
	if got == 0 || got >= n {
		t.Errorf("cap selected %d of %d vertices", got, n)
	}
	for _, i := range app.Frame().Selected {
		if z := app.Mesh().Vertices[3*i+2]; z < 0.5 {
			t.Errorf("vertex %d at z = %v selected below the cap", i, z)
		}
	}
}
