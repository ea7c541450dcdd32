package engine

import (
	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// builtin is the body of a console function. Errors are prefixed with the
// function's console name.
type builtin func(args []zygo.Sexp) (zygo.Sexp, error)

// register installs f under name. name is the console spelling; zygomys
// sees the underscore form produced by preprocessSource.
func register(env *zygo.Zlisp, name string, f builtin) {
	env.AddFunction(kebabToSnake(name), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := f(args)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, name)
		}
		return v, nil
	})
}

func kebabToSnake(name string) string {
	return preprocessSource(name)
}

func wantArgs(args []zygo.Sexp, n int) error {
	if len(args) != n {
		return errors.Errorf("requires exactly %d arguments, got %d", n, len(args))
	}
	return nil
}

// vecArgs converts every argument to a vec3.
func vecArgs(args []zygo.Sexp) ([]v3.Vec, error) {
	out := make([]v3.Vec, len(args))
	for i, a := range args {
		v, err := toVec3(a)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}
		out[i] = v
	}
	return out, nil
}

// registerBuiltins installs the geometry builtins into env. When scene is
// non-nil the mesh builtins are installed too.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, scene Scene) {

	// (vec3 1 2 3)
	register(env, "vec3", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 3); err != nil {
			return nil, err
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, errors.Wrapf(err, "%c", "xyz"[i])
			}
			xyz[i] = f
		}
		return &sexpVec3{v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (box (vec3 0 0 0) (vec3 1 1 1)), (box :min a :max b) or (box 0 0 0 1 1 1)
	register(env, "box", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 6 {
			var f [6]float64
			for i, a := range args {
				v, err := toFloat64(a)
				if err != nil {
					return nil, errors.Wrapf(err, "argument %d", i+1)
				}
				f[i] = v
			}
			return &sexpBox{geom.NewBoundingBoxXYZ(f[0], f[1], f[2], f[3], f[4], f[5])}, nil
		}
		pa := parseArgs(args)
		a, ok1 := pa.arg("min", 0)
		b, ok2 := pa.arg("max", 1)
		if !ok1 || !ok2 {
			return nil, errors.New("requires a minimum and a maximum corner")
		}
		lower, err := toVec3(a)
		if err != nil {
			return nil, errors.Wrap(err, "min")
		}
		upper, err := toVec3(b)
		if err != nil {
			return nil, errors.Wrap(err, "max")
		}
		return &sexpBox{geom.NewBoundingBox(lower, upper)}, nil
	})

	// (box-from-points a b c ...) or (box-from-points (list a b c))
	register(env, "box-from-points", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 1 {
			if items, err := sexpListToSlice(args[0]); err == nil {
				args = items
			}
		}
		pts, err := vecArgs(args)
		if err != nil {
			return nil, err
		}
		if pts == nil {
			pts = []v3.Vec{}
		}
		b, err := geom.FromPoints(pts)
		if err != nil {
			return nil, err
		}
		return &sexpBox{b}, nil
	})

	// (box-from-sphere s)
	register(env, "box-from-sphere", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 1); err != nil {
			return nil, err
		}
		s, err := toSphere(args[0])
		if err != nil {
			return nil, err
		}
		return &sexpBox{geom.FromSphere(s)}, nil
	})

	// (merge a b ...)
	register(env, "merge", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return nil, errors.New("requires at least one box")
		}
		out, err := toBox(args[0])
		if err != nil {
			return nil, err
		}
		for _, a := range args[1:] {
			b, err := toBox(a)
			if err != nil {
				return nil, err
			}
			out = geom.Merge(out, b)
		}
		return &sexpBox{out}, nil
	})

	// (sphere (vec3 0 0 0) 2) or (sphere :center c :radius r)
	register(env, "sphere", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c, ok1 := pa.arg("center", 0)
		r, ok2 := pa.arg("radius", 1)
		if !ok1 || !ok2 {
			return nil, errors.New("requires a center and a radius")
		}
		center, err := toVec3(c)
		if err != nil {
			return nil, errors.Wrap(err, "center")
		}
		radius, err := toFloat64(r)
		if err != nil {
			return nil, errors.Wrap(err, "radius")
		}
		if radius < 0 {
			return nil, errors.Errorf("radius %g is negative", radius)
		}
		return &sexpSphere{geom.BoundingSphere{Center: center, Radius: radius}}, nil
	})

	// (ray (vec3 0 0 5) (vec3 0 0 -1)) or (ray :from p :direction d)
	register(env, "ray", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		p, ok1 := pa.arg("from", 0)
		d, ok2 := pa.arg("direction", 1)
		if !ok1 || !ok2 {
			return nil, errors.New("requires a position and a direction")
		}
		pos, err := toVec3(p)
		if err != nil {
			return nil, errors.Wrap(err, "position")
		}
		dir, err := toVec3(d)
		if err != nil {
			return nil, errors.Wrap(err, "direction")
		}
		if dir.Length() < geom.ZeroTolerance {
			return nil, errors.New("direction has zero length")
		}
		return &sexpRay{geom.NewRay(pos, dir)}, nil
	})

	// (plane point normal) or (plane a b c) through three points
	register(env, "plane", func(args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 3 {
			pts, err := vecArgs(pa.positional)
			if err != nil {
				return nil, err
			}
			return &sexpPlane{geom.PlaneFromPoints(pts[0], pts[1], pts[2])}, nil
		}
		p, ok1 := pa.arg("point", 0)
		n, ok2 := pa.arg("normal", 1)
		if !ok1 || !ok2 {
			return nil, errors.New("requires a point and a normal, or three points")
		}
		pts, err := vecArgs([]zygo.Sexp{p, n})
		if err != nil {
			return nil, err
		}
		if pts[1].Length() < geom.ZeroTolerance {
			return nil, errors.New("normal has zero length")
		}
		return &sexpPlane{geom.NewPlane(pts[0], pts[1])}, nil
	})

	// (triangle a b c)
	register(env, "triangle", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 3); err != nil {
			return nil, err
		}
		pts, err := vecArgs(args)
		if err != nil {
			return nil, err
		}
		return &sexpTriangle{geom.Triangle{A: pts[0], B: pts[1], C: pts[2]}}, nil
	})

	// (corners box) returns the eight corners as a list.
	register(env, "corners", func(args []zygo.Sexp) (zygo.Sexp, error) {
		b, err := oneBox(args)
		if err != nil {
			return nil, err
		}
		c := b.Corners()
		items := lo.Map(c[:], func(v v3.Vec, _ int) zygo.Sexp { return &sexpVec3{v} })
		return zygo.MakeList(items), nil
	})

	// (center box), (size box)
	register(env, "center", func(args []zygo.Sexp) (zygo.Sexp, error) {
		b, err := oneBox(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{b.Center()}, nil
	})
	register(env, "size", func(args []zygo.Sexp) (zygo.Sexp, error) {
		b, err := oneBox(args)
		if err != nil {
			return nil, err
		}
		return &sexpVec3{b.Size()}, nil
	})

	// (support box direction)
	register(env, "support", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 2); err != nil {
			return nil, err
		}
		b, err := toBox(args[0])
		if err != nil {
			return nil, err
		}
		d, err := toVec3(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "direction")
		}
		return &sexpVec3{b.SupportMapping(d)}, nil
	})

	// (intersects box shape)
	register(env, "intersects", func(args []zygo.Sexp) (zygo.Sexp, error) {
		b, s, err := boxAndShape(args)
		if err != nil {
			return nil, err
		}
		return boolSexp(geom.Intersect(b, s)), nil
	})

	// (contains box shape) returns "disjoint", "intersects" or "contains".
	register(env, "contains", func(args []zygo.Sexp) (zygo.Sexp, error) {
		b, s, err := boxAndShape(args)
		if err != nil {
			return nil, err
		}
		c, err := geom.Contain(b, s)
		if err != nil {
			return nil, err
		}
		return &zygo.SexpStr{S: c.String()}, nil
	})

	// (plane-side plane shape) returns "front", "back" or "intersecting"
	// for a point or box.
	register(env, "plane-side", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 2); err != nil {
			return nil, err
		}
		p, ok := args[0].(*sexpPlane)
		if !ok {
			return nil, errors.Errorf("expected plane, got %s", sexpString(args[0]))
		}
		switch v := args[1].(type) {
		case *sexpVec3:
			return &zygo.SexpStr{S: geom.PlaneIntersectsPoint(p.p, v.v).String()}, nil
		case *sexpBox:
			return &zygo.SexpStr{S: geom.PlaneIntersectsBox(p.p, v.b).String()}, nil
		}
		return nil, errors.Errorf("expected vec3 or box, got %s", sexpString(args[1]))
	})

	// (ray-hit ray shape) returns the hit distance, or false on a miss.
	register(env, "ray-hit", func(args []zygo.Sexp) (zygo.Sexp, error) {
		hit, d, _, err := castRay(args)
		if err != nil || !hit {
			return boolSexp(false), err
		}
		return &zygo.SexpFloat{Val: d}, nil
	})

	// (ray-point ray shape) returns the hit point, or false on a miss.
	register(env, "ray-point", func(args []zygo.Sexp) (zygo.Sexp, error) {
		hit, _, p, err := castRay(args)
		if err != nil || !hit {
			return boolSexp(false), err
		}
		return &sexpVec3{p}, nil
	})

	if scene == nil {
		return
	}

	// (mesh-bounds)
	register(env, "mesh-bounds", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 0); err != nil {
			return nil, err
		}
		return &sexpBox{scene.Bounds()}, nil
	})

	// (select-box box) selects the mesh vertices inside box.
	register(env, "select-box", func(args []zygo.Sexp) (zygo.Sexp, error) {
		b, err := oneBox(args)
		if err != nil {
			return nil, err
		}
		return &zygo.SexpInt{Val: int64(scene.SelectInBox(b))}, nil
	})

	// (select-sphere sphere)
	register(env, "select-sphere", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 1); err != nil {
			return nil, err
		}
		s, err := toSphere(args[0])
		if err != nil {
			return nil, err
		}
		return &zygo.SexpInt{Val: int64(scene.SelectInSphere(s))}, nil
	})

	// (select-faces box) selects the faces inside box, (select-faces box
	// "intersects") also those crossing it.
	register(env, "select-faces", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 && len(args) != 2 {
			return nil, errors.Errorf("requires 1 or 2 arguments, got %d", len(args))
		}
		b, err := toBox(args[0])
		if err != nil {
			return nil, err
		}
		minimum := geom.Contains
		if len(args) == 2 {
			if minimum, err = toContainment(args[1]); err != nil {
				return nil, err
			}
		}
		return &zygo.SexpInt{Val: int64(scene.SelectFacesInBox(b, minimum))}, nil
	})

	// (pick-nearest p) returns the selected vertex, or false when the mesh
	// has none.
	register(env, "pick-nearest", func(args []zygo.Sexp) (zygo.Sexp, error) {
		if err := wantArgs(args, 1); err != nil {
			return nil, err
		}
		p, err := toVec3(args[0])
		if err != nil {
			return nil, err
		}
		v, ok := scene.PickNearest(p)
		if !ok {
			return boolSexp(false), nil
		}
		return &sexpVec3{v}, nil
	})
}

func toContainment(s zygo.Sexp) (geom.ContainmentType, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		switch str.S {
		case geom.Contains.String():
			return geom.Contains, nil
		case geom.Intersects.String():
			return geom.Intersects, nil
		}
	}
	return 0, errors.Errorf(`expected "contains" or "intersects", got %s`, sexpString(s))
}

func oneBox(args []zygo.Sexp) (geom.BoundingBox, error) {
	if err := wantArgs(args, 1); err != nil {
		return geom.BoundingBox{}, err
	}
	return toBox(args[0])
}

func boxAndShape(args []zygo.Sexp) (geom.BoundingBox, geom.Shape, error) {
	if err := wantArgs(args, 2); err != nil {
		return geom.BoundingBox{}, nil, err
	}
	b, err := toBox(args[0])
	if err != nil {
		return geom.BoundingBox{}, nil, err
	}
	s, err := toShape(args[1])
	if err != nil {
		return geom.BoundingBox{}, nil, err
	}
	return b, s, nil
}

// castRay intersects a ray with a box, plane, triangle or sphere.
func castRay(args []zygo.Sexp) (hit bool, distance float64, point v3.Vec, err error) {
	if err = wantArgs(args, 2); err != nil {
		return
	}
	r, err := toRay(args[0])
	if err != nil {
		return
	}
	switch v := args[1].(type) {
	case *sexpBox:
		hit, distance = geom.RayIntersectsBox(r, v.b)
	case *sexpPlane:
		hit, distance = geom.RayIntersectsPlane(r, v.p)
	case *sexpTriangle:
		hit, distance = geom.RayIntersectsTriangle(r, v.t.A, v.t.B, v.t.C)
	case *sexpSphere:
		hit, distance = geom.RayIntersectsSphere(r, v.s)
	default:
		err = errors.Errorf("expected box, plane, triangle or sphere, got %s", sexpString(args[1]))
		return
	}
	if hit {
		point = r.At(distance)
	}
	return
}
