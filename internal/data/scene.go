package data

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// Vec3 is a YAML [x, y, z] triple.
type Vec3 [3]float32

// TransformEntry places an entity. Rotation is Euler degrees.
type TransformEntry struct {
	Position Vec3  `yaml:"position,omitempty"`
	Rotation Vec3  `yaml:"rotation,omitempty"`
	Scale    *Vec3 `yaml:"scale,omitempty"` // nil = unit scale
}

type MeshEntry struct {
	Mesh       string `yaml:"mesh,omitempty"`
	Material   string `yaml:"material,omitempty"`
	MeshID     uint32 `yaml:"mesh_id,omitempty"`
	MaterialID uint32 `yaml:"material_id,omitempty"`
	Hidden     bool   `yaml:"hidden,omitempty"`
	NoShadows  bool   `yaml:"no_shadows,omitempty"`
	NoReceive  bool   `yaml:"no_receive_shadows,omitempty"`
}

type LightEntry struct {
	Type      string  `yaml:"type,omitempty"` // directional, point, spot
	Color     *Vec3   `yaml:"color,omitempty"`
	Intensity float32 `yaml:"intensity,omitempty"`
	Range     float32 `yaml:"range,omitempty"`
	InnerCone float32 `yaml:"inner_cone,omitempty"`
	OuterCone float32 `yaml:"outer_cone,omitempty"`
	NoShadows bool    `yaml:"no_shadows,omitempty"`
	Inactive  bool    `yaml:"inactive,omitempty"`
}

type CameraEntry struct {
	Projection string  `yaml:"projection,omitempty"` // perspective, orthographic
	FOV        float32 `yaml:"fov,omitempty"`
	Near       float32 `yaml:"near,omitempty"`
	Far        float32 `yaml:"far,omitempty"`
	OrthoSize  float32 `yaml:"ortho_size,omitempty"`
	Primary    bool    `yaml:"primary,omitempty"`
	Inactive   bool    `yaml:"inactive,omitempty"`
}

// EntityEntry describes one entity. Every section is optional.
type EntityEntry struct {
	Name      string          `yaml:"name,omitempty"`
	Tag       string          `yaml:"tag,omitempty"`
	Transform *TransformEntry `yaml:"transform,omitempty"`
	Mesh      *MeshEntry      `yaml:"mesh,omitempty"`
	Light     *LightEntry     `yaml:"light,omitempty"`
	Camera    *CameraEntry    `yaml:"camera,omitempty"`
	Spin      *Vec3           `yaml:"spin,omitempty"` // degrees per second
}

// SceneTable is a parsed scene file.
type SceneTable struct {
	Name     string        `yaml:"name,omitempty"`
	Entities []EntityEntry `yaml:"entities"`
}

// LoadScene reads a scene file, decoding it from the named charset first.
// An empty charset means UTF-8.
func LoadScene(path, charset string) (*SceneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	t, err := ParseScene(raw, charset)
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	return t, nil
}

func ParseScene(raw []byte, charset string) (*SceneTable, error) {
	text, err := Decode(raw, charset)
	if err != nil {
		return nil, err
	}
	var t SceneTable
	dec := yaml.NewDecoder(bytes.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for i, e := range t.Entities {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, e.Name, err)
		}
	}
	return &t, nil
}

func (e EntityEntry) validate() error {
	if e.Light != nil {
		switch e.Light.Type {
		case "", "directional", "point", "spot":
		default:
			return fmt.Errorf("unknown light type %q", e.Light.Type)
		}
	}
	if e.Camera != nil {
		switch e.Camera.Projection {
		case "", "perspective", "orthographic":
		default:
			return fmt.Errorf("unknown projection %q", e.Camera.Projection)
		}
	}
	if e.Mesh != nil && e.Mesh.Mesh == "" && e.Mesh.MeshID == 0 {
		return fmt.Errorf("mesh needs a path or an id")
	}
	return nil
}

// Count returns the number of entity entries.
func (t *SceneTable) Count() int {
	return len(t.Entities)
}

// Decode converts raw bytes in the given WHATWG charset to UTF-8.
func Decode(raw []byte, charset string) ([]byte, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return raw, nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", charset, err)
	}
	return out, nil
}

// Encode converts UTF-8 text to the given charset.
func Encode(text []byte, charset string) ([]byte, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return text, nil
	}
	out, err := enc.NewEncoder().Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", charset, err)
	}
	return out, nil
}

// lookupEncoding returns nil for UTF-8, which needs no conversion.
func lookupEncoding(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown scene encoding %q: %w", charset, err)
	}
	return enc, nil
}
