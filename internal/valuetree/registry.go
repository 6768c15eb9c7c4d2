// Package valuetree implements the schema registry and the schema-typed
// value tree consumed by the path builder and the tree initializer.
//
// Schema objects form an immutable template graph linked by parent,
// first-child and next-sibling pointers. Value nodes live in an arena
// (Tree) and are addressed by NodeID handles; a node refers to its parent
// by handle only.
package valuetree

import (
	"fmt"
	"strings"

	"mediator/internal/statuserr"
)

// Kind is the schema kind of an object or node.
type Kind int

const (
	KindRoot Kind = iota + 1
	KindContainer
	KindList
	KindLeaf
	KindLeafList
	KindChoice
	KindCase
)

var kindNames = map[Kind]string{
	KindRoot:      "root",
	KindContainer: "container",
	KindList:      "list",
	KindLeaf:      "leaf",
	KindLeafList:  "leaf-list",
	KindChoice:    "choice",
	KindCase:      "case",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a kind name such as "leaf-list" to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown schema kind %q", name)
}

// IsSimple reports whether nodes of this kind carry a value.
func (k Kind) IsSimple() bool { return k == KindLeaf || k == KindLeafList }

// IsTransparent reports whether the kind is a schema-only grouping that
// never appears in instance paths.
func (k Kind) IsTransparent() bool { return k == KindChoice || k == KindCase }

// LeafType is the declared value type of a leaf or leaf-list.
type LeafType int

const (
	TypeString LeafType = iota
	TypeInt
	TypeUint
	TypeBool
	TypeDecimal
	TypeEnumeration
)

var typeNames = map[LeafType]string{
	TypeString:      "string",
	TypeInt:         "int",
	TypeUint:        "uint",
	TypeBool:        "boolean",
	TypeDecimal:     "decimal",
	TypeEnumeration: "enumeration",
}

func (t LeafType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseLeafType converts a type name to a LeafType. The empty name is
// TypeString.
func ParseLeafType(name string) (LeafType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "string":
		return TypeString, nil
	case "int", "int8", "int16", "int32", "int64":
		return TypeInt, nil
	case "uint", "uint8", "uint16", "uint32", "uint64":
		return TypeUint, nil
	case "bool", "boolean":
		return TypeBool, nil
	case "decimal", "decimal64":
		return TypeDecimal, nil
	case "enum", "enumeration":
		return TypeEnumeration, nil
	default:
		return 0, fmt.Errorf("unknown leaf type %q", name)
	}
}

// Module is a schema module.
type Module struct {
	Name      string
	Revision  string
	Prefix    string
	Namespace string
}

// Object is a schema template node.
type Object struct {
	Kind   Kind
	Name   string
	Module *Module

	// Keys holds the ordered key leaf names of a list.
	Keys []string

	// Default is the declared default of a leaf; HasDefault tells an empty
	// default apart from none.
	Default    string
	HasDefault bool

	Type LeafType
	Enum []string

	Parent     *Object
	FirstChild *Object
	Next       *Object
}

// NewObject returns a detached schema object.
func NewObject(kind Kind, name string, mod *Module) *Object {
	return &Object{Kind: kind, Name: name, Module: mod}
}

// AddChild appends child to o's child chain and returns child.
func (o *Object) AddChild(child *Object) *Object {
	child.Parent = o
	if child.Module == nil {
		child.Module = o.Module
	}
	if o.FirstChild == nil {
		o.FirstChild = child
		return child
	}
	last := o.FirstChild
	for last.Next != nil {
		last = last.Next
	}
	last.Next = child
	return child
}

// Children returns o's children in declaration order.
func (o *Object) Children() []*Object {
	var out []*Object
	for c := o.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// Child returns the direct child named name.
func (o *Object) Child(name string) (*Object, bool) {
	for c := o.FirstChild; c != nil; c = c.Next {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// IsKey reports whether o is declared as a key of its parent list.
func (o *Object) IsKey() bool {
	if o.Kind != KindLeaf || o.Parent == nil || o.Parent.Kind != KindList {
		return false
	}
	for _, k := range o.Parent.Keys {
		if k == o.Name {
			return true
		}
	}
	return false
}

// DefaultValue returns the declared default.
func (o *Object) DefaultValue() (string, bool) {
	return o.Default, o.HasDefault
}

// ModuleName returns the owning module's name or "".
func (o *Object) ModuleName() string {
	if o.Module == nil {
		return ""
	}
	return o.Module.Name
}

// Registry resolves modules and their top-level schema objects.
type Registry struct {
	modules []*Module
	top     map[*Module][]*Object
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{top: make(map[*Module][]*Object)}
}

// AddModule registers a module. Name and revision must be unique together,
// and a prefix may only be shared by revisions of the same module.
func (r *Registry) AddModule(m *Module) error {
	if m == nil || m.Name == "" {
		return fmt.Errorf("module name required")
	}
	for _, existing := range r.modules {
		if existing.Name == m.Name && existing.Revision == m.Revision {
			return fmt.Errorf("module %s@%s already registered", m.Name, m.Revision)
		}
	}
	if m.Prefix != "" {
		if owner, ok := r.ModuleByPrefix(m.Prefix); ok && owner.Name != m.Name {
			return fmt.Errorf("prefix %s of module %s is already used by module %s", m.Prefix, m.Name, owner.Name)
		}
	}
	r.modules = append(r.modules, m)
	return nil
}

// Module resolves a module by name and revision. An empty revision picks
// the latest registered revision.
func (r *Registry) Module(name, revision string) (*Module, error) {
	var found *Module
	for _, m := range r.modules {
		if m.Name != name {
			continue
		}
		if revision != "" {
			if m.Revision == revision {
				return m, nil
			}
			continue
		}
		if found == nil || m.Revision > found.Revision {
			found = m
		}
	}
	if found == nil {
		if revision != "" {
			return nil, statuserr.Resolution("module %s@%s not found", name, revision)
		}
		return nil, statuserr.Resolution("module %s not found", name)
	}
	return found, nil
}

// AddTop registers obj as a top-level object of its module.
func (r *Registry) AddTop(obj *Object) error {
	if obj.Module == nil {
		return fmt.Errorf("top-level object %s has no module", obj.Name)
	}
	if _, err := r.Module(obj.Module.Name, obj.Module.Revision); err != nil {
		return err
	}
	r.top[obj.Module] = append(r.top[obj.Module], obj)
	return nil
}

// Top resolves a top-level object by name within mod.
func (r *Registry) Top(mod *Module, name string) (*Object, error) {
	for _, obj := range r.top[mod] {
		if obj.Name == name {
			return obj, nil
		}
	}
	return nil, statuserr.Resolution("object %s not found in module %s", name, mod.Name)
}

// TopObjects returns mod's top-level objects in registration order.
func (r *Registry) TopObjects(mod *Module) []*Object {
	return append([]*Object(nil), r.top[mod]...)
}

// Modules returns all registered modules in registration order.
func (r *Registry) Modules() []*Module {
	return append([]*Module(nil), r.modules...)
}

// ModuleByPrefix resolves a module by its namespace prefix.
func (r *Registry) ModuleByPrefix(prefix string) (*Module, bool) {
	for _, m := range r.modules {
		if m.Prefix == prefix {
			return m, true
		}
	}
	return nil, false
}
