package tool

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Factory builds a tool for env.
type Factory func(env Env) (Tool, error)

// Registry holds named tool factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in tools: circle,
// rectangle, pick and camera.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("circle", func(env Env) (Tool, error) { return NewVertexByCircle(env), nil })
	r.Register("rectangle", func(env Env) (Tool, error) { return NewVertexByRectangle(env), nil })
	r.Register("pick", func(env Env) (Tool, error) { return NewPickFace(env), nil })
	r.Register("camera", func(env Env) (Tool, error) {
		t, err := NewCameraTool(env)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New builds the tool called name.
func (r *Registry) New(name string, env Env) (Tool, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTool, "%q", name)
	}
	t, err := f(env)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s tool", name)
	}
	return t, nil
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := lo.Keys(r.factories)
	sort.Strings(names)
	return names
}
