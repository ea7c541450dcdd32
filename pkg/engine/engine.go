// Package engine provides the geometry console. It wraps zygomys in a
// sandboxed environment with builtins for building and testing geometric
// primitives, and reports the value of the last expression.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/meshkit/pkg/geom"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the value of the last expression of a program.
type Result struct {
	// Value is the printed form.
	Value string
	// Kind names the value's type: nil, number, bool, string, vec3, box,
	// sphere, ray, plane, triangle, list or other.
	Kind string
	// Data holds the Go value for geometry, numbers, bools and strings:
	// v3.Vec, a geom shape, float64, bool or string.
	Data any
}

// Scene gives console programs access to the mesh being edited.
type Scene interface {
	// Bounds returns the box enclosing the mesh.
	Bounds() geom.BoundingBox
	// SelectInBox selects the vertices inside box and returns how many
	// are selected afterwards.
	SelectInBox(box geom.BoundingBox) int
	// SelectInSphere selects the vertices inside sphere.
	SelectInSphere(sphere geom.BoundingSphere) int
	// SelectFacesInBox selects the vertices of every face that box
	// relates to at least as strongly as minimum.
	SelectFacesInBox(box geom.BoundingBox, minimum geom.ContainmentType) int
	// PickNearest selects the vertex closest to p and returns its
	// position. It reports false for an empty mesh.
	PickNearest(p v3.Vec) (v3.Vec, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithScene exposes s to programs through mesh-bounds and the selection
// builtins.
func WithScene(s Scene) Option {
	return func(e *Engine) { e.scene = s }
}

// WithTimeout overrides EvalTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment for
// determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	scene      Scene
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs source and returns the value of its last expression.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation, e.timeout)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program with no value.
	if strings.TrimSpace(source) == "" {
		return &Result{Value: "nil", Kind: "nil"}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, e.scene)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	v, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}
	return describe(v), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
