package valuetree

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a schema template set loaded from YAML, together with the
// literal values and virtual leaves a tree built from it should get.
type Manifest struct {
	Registry *Registry
	// Top holds the top-level objects in file order.
	Top []*Object
	// Values maps a slash separated path relative to the tree root
	// ("interfaces/interface/name") to a literal value.
	Values map[string]string
	// Virtual lists the relative paths of leaves served live.
	Virtual []string
}

type manifestFile struct {
	Modules []manifestModule  `yaml:"modules"`
	Objects []manifestObject  `yaml:"objects"`
	Values  map[string]string `yaml:"values"`
	Virtual []string          `yaml:"virtual"`
}

type manifestModule struct {
	Name      string `yaml:"name"`
	Revision  string `yaml:"revision"`
	Prefix    string `yaml:"prefix"`
	Namespace string `yaml:"namespace"`
}

type manifestObject struct {
	Kind     string           `yaml:"kind"`
	Name     string           `yaml:"name"`
	Module   string           `yaml:"module"`
	Keys     []string         `yaml:"keys"`
	Default  *string          `yaml:"default"`
	Type     string           `yaml:"type"`
	Enum     []string         `yaml:"enum"`
	Children []manifestObject `yaml:"children"`
}

// LoadManifestFile reads and parses a manifest file.
func LoadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := LoadManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// LoadManifest parses a manifest document.
func LoadManifest(data []byte) (*Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	reg := NewRegistry()
	byName := make(map[string]*Module)
	for _, mm := range file.Modules {
		mod := &Module{Name: mm.Name, Revision: mm.Revision, Prefix: mm.Prefix, Namespace: mm.Namespace}
		if err := reg.AddModule(mod); err != nil {
			return nil, err
		}
		byName[mm.Name] = mod
	}

	out := &Manifest{Registry: reg, Values: file.Values, Virtual: file.Virtual}
	if out.Values == nil {
		out.Values = make(map[string]string)
	}
	for i, mo := range file.Objects {
		if mo.Module == "" {
			return nil, fmt.Errorf("objects[%d] (%s): top-level object needs a module", i, mo.Name)
		}
		obj, err := buildObject(mo, nil, byName)
		if err != nil {
			return nil, fmt.Errorf("objects[%d]: %w", i, err)
		}
		if err := reg.AddTop(obj); err != nil {
			return nil, err
		}
		out.Top = append(out.Top, obj)
	}
	return out, nil
}

func buildObject(mo manifestObject, parent *Object, modules map[string]*Module) (*Object, error) {
	kind, err := ParseKind(mo.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mo.Name, err)
	}
	if kind == KindRoot {
		return nil, fmt.Errorf("%s: root is implicit", mo.Name)
	}

	var mod *Module
	if mo.Module != "" {
		m, ok := modules[mo.Module]
		if !ok {
			return nil, fmt.Errorf("%s: unknown module %q", mo.Name, mo.Module)
		}
		mod = m
	}

	obj := NewObject(kind, mo.Name, mod)
	obj.Keys = mo.Keys
	obj.Enum = mo.Enum
	if mo.Default != nil {
		obj.Default = *mo.Default
		obj.HasDefault = true
	}
	if obj.Type, err = ParseLeafType(mo.Type); err != nil {
		return nil, fmt.Errorf("%s: %w", mo.Name, err)
	}
	if len(obj.Keys) > 0 && kind != KindList {
		return nil, fmt.Errorf("%s: only lists declare keys", mo.Name)
	}
	if len(mo.Children) > 0 && kind.IsSimple() {
		return nil, fmt.Errorf("%s: %s cannot have children", mo.Name, kind)
	}

	if parent != nil {
		parent.AddChild(obj)
	}
	for _, child := range mo.Children {
		if _, err := buildObject(child, obj, modules); err != nil {
			return nil, err
		}
	}
	for _, key := range obj.Keys {
		if _, ok := obj.Child(key); !ok {
			return nil, fmt.Errorf("%s: key %q is not a child leaf", mo.Name, key)
		}
	}
	return obj, nil
}
