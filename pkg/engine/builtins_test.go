package engine

import (
	"math"
	"testing"

	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(sphere :radius 2)`,
			expect: `(sphere "__kw_radius" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(box :min a :max b)`,
			expect: `(box "__kw_min" a "__kw_max" b)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" b-c" d-e`,
			expect: `"a \" b-c" d_e`,
		},
		{
			name:   "backtick string preserved",
			input:  "`ray-hit :x` ray-hit",
			expect: "`ray-hit :x` ray_hit",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(box-from-points :from-list pts)`,
			expect: `(box_from_points "__kw_from-list" pts)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5) (vec3 -1 x-1 0)`,
			expect: `(- 10 5) (vec3 -1 x-1 0)`,
		},
		{
			name:   "comment converted to // style",
			input:  ";; comment with :keyword\n(vec3 1 2 3)",
			expect: "// comment with :keyword\n(vec3 1 2 3)",
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func TestGeometryBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   string
		data   any
	}{
		{"vec3", `(vec3 1 2.5 -3)`, "vec3", v3.Vec{X: 1, Y: 2.5, Z: -3}},
		{"box from corners", `(box (vec3 0 0 0) (vec3 1 2 3))`, "box", geom.NewBoundingBoxXYZ(0, 0, 0, 1, 2, 3)},
		{"box keywords", `(box :max (vec3 2 2 2) :min (vec3 -1 -1 -1))`, "box", geom.NewBoundingBoxXYZ(-1, -1, -1, 2, 2, 2)},
		{"box numbers", `(box 0 0 0 1 2 3)`, "box", geom.NewBoundingBoxXYZ(0, 0, 0, 1, 2, 3)},
		{"box from points", `(box-from-points (vec3 1 5 -1) (vec3 -2 0 4))`, "box", geom.NewBoundingBoxXYZ(-2, 0, -1, 1, 5, 4)},
		{"box from point list", `(box-from-points (list (vec3 1 1 1)))`, "box", geom.NewBoundingBoxXYZ(1, 1, 1, 1, 1, 1)},
		{"box from sphere", `(box-from-sphere (sphere (vec3 1 2 3) 2))`, "box", geom.NewBoundingBoxXYZ(-1, 0, 1, 3, 4, 5)},
		{"merge", `(merge (box 0 0 0 1 1 1) (box 5 5 5 6 6 6) (box -1 0 0 0 1 1))`, "box", geom.NewBoundingBoxXYZ(-1, 0, 0, 6, 6, 6)},
		{"center", `(center (box 0 0 0 2 4 6))`, "vec3", v3.Vec{X: 1, Y: 2, Z: 3}},
		{"size", `(size (box 0 0 0 2 4 6))`, "vec3", v3.Vec{X: 2, Y: 4, Z: 6}},
		{"support", `(support (box 0 0 0 1 1 1) (vec3 -1 1 -1))`, "vec3", v3.Vec{Y: 1}},
		{"intersects point", `(intersects (box 0 0 0 1 1 1) (vec3 0.5 0.5 0.5))`, "bool", true},
		{"intersects far sphere", `(intersects (box 0 0 0 1 1 1) (sphere (vec3 3 0 0) 1))`, "bool", false},
		{"contains sphere", `(contains (box 0 0 0 1 1 1) (sphere (vec3 0.5 0.5 0.5) 0.25))`, "string", "contains"},
		{"contains triangle", `(contains (box 0 0 0 1 1 1) (triangle (vec3 0.5 0 0) (vec3 3 0 0) (vec3 0.5 0.5 0)))`, "string", "intersects"},
		{"contains box", `(contains (box 0 0 0 1 1 1) (box 4 4 4 5 5 5))`, "string", "disjoint"},
		{"plane side", `(plane-side (plane (vec3 0 0 5) (vec3 0 0 1)) (box 0 0 0 1 1 1))`, "string", "back"},
		{"plane side point", `(plane-side (plane (vec3 0 0 5) (vec3 0 0 1)) (vec3 0 0 9))`, "string", "front"},
		{"ray hit box", `(ray-hit (ray (vec3 -1 0.5 0.5) (vec3 1 0 0)) (box 0 0 0 1 1 1))`, "number", 1.0},
		{"ray hit plane", `(ray-hit (ray (vec3 0 0 0) (vec3 0 0 2)) (plane (vec3 0 0 3) (vec3 0 0 1)))`, "number", 3.0},
		{"ray point box", `(ray-point (ray (vec3 -1 0.5 0.5) (vec3 1 0 0)) (box 0 0 0 1 1 1))`, "vec3", v3.Vec{Y: 0.5, Z: 0.5}},
		{"ray miss", `(ray-hit (ray (vec3 -1 0.5 0.5) (vec3 -1 0 0)) (box 0 0 0 1 1 1))`, "bool", false},
		{"ray point miss", `(ray-point (ray (vec3 0 0 5) (vec3 0 0 1)) (sphere (vec3 0 0 0) 1))`, "bool", false},
		{"corners", `(corners (box 0 1 2 10 11 12))`, "list", nil},
	}
	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustEval(t, eng, tt.source)
			if res.Kind != tt.kind {
				t.Fatalf("Kind = %q, want %q (value %s)", res.Kind, tt.kind, res.Value)
			}
			if res.Data != tt.data {
				t.Errorf("Data = %#v, want %#v", res.Data, tt.data)
			}
		})
	}
}

func TestEmptyPointsGiveInvertedBox(t *testing.T) {
	res := mustEval(t, NewEngine(), `(box-from-points)`)
	b, ok := res.Data.(geom.BoundingBox)
	if !ok {
		t.Fatalf("Data = %T, want BoundingBox", res.Data)
	}
	if b.Valid() || b.Minimum.X != math.MaxFloat64 {
		t.Errorf("box = %v, want the inverted empty box", b)
	}
}

func TestProgramWithDefinitions(t *testing.T) {
	source := `
; a unit cube and a ray dropped onto it
(def cube (box :min (vec3 0 0 0) :max (vec3 1 1 1)))
(def drop (ray :from (vec3 0.5 0.5 5) :direction (vec3 0 0 -1)))
(ray-hit drop cube)
`
	res := mustEval(t, NewEngine(), source)
	if res.Data != 4.0 {
		t.Errorf("ray-hit = %+v, want 4", res)
	}
}

func TestPrintedValues(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`(box 0 0 0 1 2 3)`, "(box (vec3 0 0 0) (vec3 1 2 3))"},
		{`(sphere (vec3 1 2 3) 0.5)`, "(sphere (vec3 1 2 3) 0.5)"},
		{`(ray (vec3 0 0 0) (vec3 0 0 -4))`, "(ray (vec3 0 0 0) (vec3 0 0 -1))"},
		{`(plane (vec3 0 0 2) (vec3 0 0 1))`, "(plane (vec3 0 0 1) -2)"},
	}
	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := mustEval(t, eng, tt.source).Value; got != tt.want {
				t.Errorf("Value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"vec3 arity", `(vec3 1 2)`},
		{"vec3 type", `(vec3 1 2 "z")`},
		{"box missing corner", `(box (vec3 0 0 0))`},
		{"negative radius", `(sphere (vec3 0 0 0) -1)`},
		{"zero direction", `(ray (vec3 0 0 0) (vec3 0 0 0))`},
		{"contains ray", `(contains (box 0 0 0 1 1 1) (ray (vec3 0 0 0) (vec3 1 0 0)))`},
		{"contains plane", `(contains (box 0 0 0 1 1 1) (plane (vec3 0 0 0) (vec3 1 0 0)))`},
		{"ray hit point", `(ray-hit (ray (vec3 0 0 0) (vec3 1 0 0)) (vec3 1 0 0))`},
		{"merge nothing", `(merge)`},
		{"no scene", `(mesh-bounds)`},
	}
	eng := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if res != nil || len(evalErrs) == 0 {
				t.Errorf("Evaluate(%q) = %+v, %v, want eval errors", tt.source, res, evalErrs)
			}
		})
	}
}

type fakeScene struct {
	bounds  geom.BoundingBox
	got     geom.BoundingBox
	sphere  geom.BoundingSphere
	minimum geom.ContainmentType
	near    []v3.Vec
}

func (s *fakeScene) Bounds() geom.BoundingBox { return s.bounds }

func (s *fakeScene) SelectInBox(b geom.BoundingBox) int {
	s.got = b
	return 7
}

func (s *fakeScene) SelectInSphere(sphere geom.BoundingSphere) int {
	s.sphere = sphere
	return 3
}

func (s *fakeScene) SelectFacesInBox(b geom.BoundingBox, minimum geom.ContainmentType) int {
	s.got, s.minimum = b, minimum
	return 6
}

func (s *fakeScene) PickNearest(p v3.Vec) (v3.Vec, bool) {
	if len(s.near) == 0 {
		return v3.Vec{}, false
	}
	return s.near[0], true
}

func TestSceneBuiltins(t *testing.T) {
	scene := &fakeScene{bounds: geom.NewBoundingBoxXYZ(-1, -1, -1, 1, 1, 1)}
	eng := NewEngine(WithScene(scene))

	res := mustEval(t, eng, `(mesh-bounds)`)
	if res.Data != scene.bounds {
		t.Errorf("mesh-bounds = %+v, want %v", res, scene.bounds)
	}

	res = mustEval(t, eng, `(select-box (box 0 0 0 1 1 1))`)
	if res.Data != 7.0 {
		t.Errorf("select-box = %+v, want 7", res)
	}
	if scene.got != geom.NewBoundingBoxXYZ(0, 0, 0, 1, 1, 1) {
		t.Errorf("scene received %v", scene.got)
	}
}

func TestSceneConditionalSelect(t *testing.T) {
	tests := []struct {
		name   string
		lower  string
		want   float64
		called bool
	}{
		{"overlapping", "0.5", 7, true},
		{"outside", "5", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := &fakeScene{bounds: geom.NewBoundingBoxXYZ(-1, -1, -1, 1, 1, 1)}
			source := `
(def mesh-box (mesh-bounds))
(def cap-box (box :min (vec3 -2 -2 ` + tt.lower + `) :max (vec3 2 2 9)))
(cond (intersects mesh-box cap-box)
  (select-box cap-box)
  0)`
			res := mustEval(t, NewEngine(WithScene(scene)), source)
			if res.Data != tt.want {
				t.Errorf("result = %+v, want %v", res, tt.want)
			}
			if called := scene.got != (geom.BoundingBox{}); called != tt.called {
				t.Errorf("select-box called = %v, want %v", called, tt.called)
			}
		})
	}
}

func TestSceneSelectionBuiltins(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		near    []v3.Vec
		want    any
		sphere  geom.BoundingSphere
		minimum geom.ContainmentType
	}{
		{
			name:   "sphere",
			source: `(select-sphere (sphere (vec3 1 2 3) 0.5))`,
			want:   3.0,
			sphere: geom.BoundingSphere{Center: v3.Vec{X: 1, Y: 2, Z: 3}, Radius: 0.5},
		},
		{
			name:    "faces inside",
			source:  `(select-faces (box 0 0 0 1 1 1))`,
			want:    6.0,
			minimum: geom.Contains,
		},
		{
			name:    "faces crossing",
			source:  `(select-faces (box 0 0 0 1 1 1) "intersects")`,
			want:    6.0,
			minimum: geom.Intersects,
		},
		{
			name:   "nearest",
			source: `(pick-nearest (vec3 0.9 0 0))`,
			near:   []v3.Vec{{X: 1}},
			want:   v3.Vec{X: 1},
		},
		{
			name:   "nearest on empty mesh",
			source: `(pick-nearest (vec3 0.9 0 0))`,
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := &fakeScene{near: tt.near}
			res := mustEval(t, NewEngine(WithScene(scene)), tt.source)
			if res.Data != tt.want {
				t.Errorf("%s = %+v, want %v", tt.source, res, tt.want)
			}
			if scene.sphere != tt.sphere {
				t.Errorf("sphere = %v, want %v", scene.sphere, tt.sphere)
			}
			if scene.minimum != tt.minimum {
				t.Errorf("minimum = %v, want %v", scene.minimum, tt.minimum)
			}
		})
	}
}

func TestSceneSelectionBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"sphere wants a sphere", `(select-sphere (box 0 0 0 1 1 1))`},
		{"faces unknown mode", `(select-faces (box 0 0 0 1 1 1) "touches")`},
		{"faces too many", `(select-faces (box 0 0 0 1 1 1) "contains" 1)`},
		{"nearest wants a point", `(pick-nearest 1)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngine(WithScene(&fakeScene{}))
			res, evalErrs, err := eng.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("Evaluate(%q) fatal error: %v", tt.source, err)
			}
			if res != nil || len(evalErrs) == 0 {
				t.Errorf("Evaluate(%q) = %+v, %v, want eval errors", tt.source, res, evalErrs)
			}
		})
	}
}
