package engine

import (
	"fmt"

	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// Sexp wrappers pass geometry between builtins. Each prints as the call
// that would rebuild it.

type sexpVec3 struct{ v v3.Vec }

func (s *sexpVec3) SexpString(ps *zygo.PrintState) string { return vecString(s.v) }
func (s *sexpVec3) Type() *zygo.RegisteredType            { return nil }

type sexpBox struct{ b geom.BoundingBox }

func (s *sexpBox) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(box %s %s)", vecString(s.b.Minimum), vecString(s.b.Maximum))
}
func (s *sexpBox) Type() *zygo.RegisteredType { return nil }

type sexpSphere struct{ s geom.BoundingSphere }

func (s *sexpSphere) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sphere %s %g)", vecString(s.s.Center), s.s.Radius)
}
func (s *sexpSphere) Type() *zygo.RegisteredType { return nil }

type sexpRay struct{ r geom.Ray }

func (s *sexpRay) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(ray %s %s)", vecString(s.r.Position), vecString(s.r.Direction))
}
func (s *sexpRay) Type() *zygo.RegisteredType { return nil }

type sexpPlane struct{ p geom.Plane }

func (s *sexpPlane) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(plane %s %g)", vecString(s.p.Normal), s.p.D)
}
func (s *sexpPlane) Type() *zygo.RegisteredType { return nil }

type sexpTriangle struct{ t geom.Triangle }

func (s *sexpTriangle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(triangle %s %s %s)", vecString(s.t.A), vecString(s.t.B), vecString(s.t.C))
}
func (s *sexpTriangle) Type() *zygo.RegisteredType { return nil }

func vecString(v v3.Vec) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.X, v.Y, v.Z)
}

// describe converts the final value of a program into a Result.
func describe(s zygo.Sexp) *Result {
	if s == nil || s == zygo.SexpNull {
		return &Result{Value: "nil", Kind: "nil"}
	}
	r := &Result{Value: s.SexpString(nil), Kind: "other"}
	switch v := s.(type) {
	case *zygo.SexpInt:
		r.Kind, r.Data = "number", float64(v.Val)
	case *zygo.SexpFloat:
		r.Kind, r.Data = "number", v.Val
	case *zygo.SexpBool:
		r.Kind, r.Data = "bool", v.Val
	case *zygo.SexpStr:
		r.Kind, r.Data = "string", v.S
	case *zygo.SexpPair:
		r.Kind = "list"
	case *sexpVec3:
		r.Kind, r.Data = "vec3", v.v
	case *sexpBox:
		r.Kind, r.Data = "box", v.b
	case *sexpSphere:
		r.Kind, r.Data = "sphere", v.s
	case *sexpRay:
		r.Kind, r.Data = "ray", v.r
	case *sexpPlane:
		r.Kind, r.Data = "plane", v.p
	case *sexpTriangle:
		r.Kind, r.Data = "triangle", v.t
	}
	return r
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %s", sexpString(s))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return v3.Vec{}, errors.Errorf("expected vec3, got %s", sexpString(s))
}

func toBox(s zygo.Sexp) (geom.BoundingBox, error) {
	if v, ok := s.(*sexpBox); ok {
		return v.b, nil
	}
	return geom.BoundingBox{}, errors.Errorf("expected box, got %s", sexpString(s))
}

func toSphere(s zygo.Sexp) (geom.BoundingSphere, error) {
	if v, ok := s.(*sexpSphere); ok {
		return v.s, nil
	}
	return geom.BoundingSphere{}, errors.Errorf("expected sphere, got %s", sexpString(s))
}

func toRay(s zygo.Sexp) (geom.Ray, error) {
	if v, ok := s.(*sexpRay); ok {
		return v.r, nil
	}
	return geom.Ray{}, errors.Errorf("expected ray, got %s", sexpString(s))
}

// toShape accepts any geometry value. A vec3 counts as a point.
func toShape(s zygo.Sexp) (geom.Shape, error) {
	switch v := s.(type) {
	case *sexpVec3:
		return geom.Point(v.v), nil
	case *sexpBox:
		return v.b, nil
	case *sexpSphere:
		return v.s, nil
	case *sexpRay:
		return v.r, nil
	case *sexpPlane:
		return v.p, nil
	case *sexpTriangle:
		return v.t, nil
	}
	return nil, errors.Errorf("expected geometry, got %s", sexpString(s))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, errors.Errorf("expected list or array, got %s", sexpString(s))
}

func sexpString(s zygo.Sexp) string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

func boolSexp(b bool) zygo.Sexp {
	return &zygo.SexpBool{Val: b}
}
