// Package config loads meshkit settings from YAML. Missing fields keep
// their defaults.
package config

import (
	"bytes"
	"io"
	"math"
	"os"
	"sort"

	"github.com/chazu/meshkit/pkg/arcball"
	"github.com/chazu/meshkit/pkg/tool"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file Load reads when given an empty path.
const DefaultPath = "meshkit.yaml"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full settings tree.
type Config struct {
	Viewport  Viewport  `yaml:"viewport"`
	Camera    Camera    `yaml:"camera"`
	Selection Selection `yaml:"selection"`
	Mesh      Mesh      `yaml:"mesh"`
}

// Viewport is the initial window size in pixels.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Camera maps mouse button names to arcball mode names, e.g. left: rotation.
type Camera struct {
	Bindings map[string]string `yaml:"bindings"`
}

// Selection configures the selection tools.
type Selection struct {
	Additive bool   `yaml:"additive"`
	Tool     string `yaml:"tool"`
}

// Mesh describes the startup mesh.
type Mesh struct {
	Shape string  `yaml:"shape"` // box, sphere or cylinder
	Size  float64 `yaml:"size"`
	Cells int     `yaml:"cells"` // marching cubes resolution
	// Rotation turns the solid before meshing, in degrees about X, Y
	// then Z. Offset then moves it.
	Rotation [3]float64 `yaml:"rotation"`
	Offset   [3]float64 `yaml:"offset"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Viewport: Viewport{Width: 1024, Height: 768},
		Camera: Camera{Bindings: map[string]string{
			"left":   "rotation",
			"middle": "pan",
			"right":  "scale",
		}},
		Selection: Selection{Tool: "circle"},
		Mesh:      Mesh{Shape: "sphere", Size: 2, Cells: 48},
	}
}

// Load reads and validates the file at path. An empty path means
// DefaultPath, and a missing default file yields Default().
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "reading %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over Default() and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// The decoder replaces maps field by field, so bindings given in the
	// file are merged onto the defaults afterwards.
	defaults := cfg.Camera.Bindings
	cfg.Camera.Bindings = nil

	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, errors.Wrap(err, "config: decoding yaml")
		}
	}
	cfg.Camera.Bindings = lo.Assign(defaults, cfg.Camera.Bindings)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := (tool.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}).Validate(); err != nil {
		return errors.Wrapf(ErrInvalid, "viewport %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if _, err := c.Bindings(); err != nil {
		return errors.Wrapf(ErrInvalid, "camera: %v", err)
	}
	if !lo.Contains(tool.NewRegistry().Names(), c.Selection.Tool) {
		return errors.Wrapf(ErrInvalid, "selection tool %q", c.Selection.Tool)
	}
	if !lo.Contains([]string{"box", "cube", "sphere", "cylinder"}, c.Mesh.Shape) {
		return errors.Wrapf(ErrInvalid, "mesh shape %q", c.Mesh.Shape)
	}
	if c.Mesh.Size <= 0 {
		return errors.Wrapf(ErrInvalid, "mesh size %g", c.Mesh.Size)
	}
	if c.Mesh.Cells < 4 || c.Mesh.Cells > 512 {
		return errors.Wrapf(ErrInvalid, "mesh cells %d not in [4, 512]", c.Mesh.Cells)
	}
	for _, f := range append(c.Mesh.Rotation[:], c.Mesh.Offset[:]...) {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(ErrInvalid, "mesh placement %v %v", c.Mesh.Rotation, c.Mesh.Offset)
		}
	}
	return nil
}

// Bindings converts the camera bindings into tool form.
func (c Config) Bindings() (map[tool.Button]arcball.Mode, error) {
	out := make(map[tool.Button]arcball.Mode, len(c.Camera.Bindings))
	keys := lo.Keys(c.Camera.Bindings)
	sort.Strings(keys)
	for _, k := range keys {
		b, err := tool.ParseButton(k)
		if err != nil {
			return nil, err
		}
		m, err := arcball.ParseMode(c.Camera.Bindings[k])
		if err != nil {
			return nil, errors.Wrapf(err, "button %s", k)
		}
		out[b] = m
	}
	return out, nil
}
