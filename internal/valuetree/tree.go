package valuetree

import (
	"fmt"
	"regexp"
	"strconv"

	"mediator/internal/statuserr"
)

// NodeID addresses a node in a Tree. The zero value is NoNode.
type NodeID uint32

// NoNode is the invalid handle.
const NoNode NodeID = 0

// KeyEntry is a synthesized list key on a list entry.
type KeyEntry struct {
	Name  string
	Value string
}

// VirtualFunc produces the live value of a virtual leaf.
type VirtualFunc func(t *Tree, id NodeID) (string, error)

type node struct {
	kind     Kind
	name     string
	module   *Module
	object   *Object
	parent   NodeID
	children []NodeID

	value    string
	hasValue bool

	keys    []KeyEntry
	virtual VirtualFunc
}

// TreeOptions configures a Tree.
type TreeOptions struct {
	// MaxNodes caps the number of nodes, root included. Zero means no cap.
	MaxNodes int
}

// Tree is an arena of value nodes. It is not safe for concurrent mutation.
type Tree struct {
	nodes    []node
	maxNodes int
}

// NewTree returns a tree holding only its root node.
func NewTree(opts TreeOptions) *Tree {
	t := &Tree{maxNodes: opts.MaxNodes}
	// Index 0 backs NoNode.
	t.nodes = append(t.nodes, node{}, node{kind: KindRoot})
	return t
}

// Root returns the root node.
func (t *Tree) Root() NodeID { return 1 }

// Len returns the number of nodes including the root.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Valid reports whether id addresses a node.
func (t *Tree) Valid(id NodeID) bool {
	return id != NoNode && int(id) < len(t.nodes)
}

func (t *Tree) get(id NodeID) *node {
	if !t.Valid(id) {
		return nil
	}
	return &t.nodes[id]
}

// Kind returns the kind of id, or 0 for an invalid handle.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.get(id); n != nil {
		return n.kind
	}
	return 0
}

// Name returns the declared name of id.
func (t *Tree) Name(id NodeID) string {
	if n := t.get(id); n != nil {
		return n.name
	}
	return ""
}

// Module returns the owning module of id, which may be nil.
func (t *Tree) Module(id NodeID) *Module {
	if n := t.get(id); n != nil {
		return n.module
	}
	return nil
}

// Object returns the schema object id was allocated from.
func (t *Tree) Object(id NodeID) *Object {
	if n := t.get(id); n != nil {
		return n.object
	}
	return nil
}

// Parent returns the parent of id, or NoNode for the root and detached
// nodes.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.get(id); n != nil {
		return n.parent
	}
	return NoNode
}

// Children returns the children of id in attach order.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.get(id); n != nil {
		return append([]NodeID(nil), n.children...)
	}
	return nil
}

// Keys returns the key entries synthesized on list entry id.
func (t *Tree) Keys(id NodeID) []KeyEntry {
	if n := t.get(id); n != nil {
		return append([]KeyEntry(nil), n.keys...)
	}
	return nil
}

// IsVirtual reports whether id is a virtual leaf.
func (t *Tree) IsVirtual(id NodeID) bool {
	n := t.get(id)
	return n != nil && n.virtual != nil
}

// Alloc creates a detached node from obj.
func (t *Tree) Alloc(obj *Object) (NodeID, error) {
	if obj == nil {
		return NoNode, statuserr.Alloc("nil schema object")
	}
	if obj.Kind == KindRoot {
		return NoNode, statuserr.Alloc("cannot allocate a second root")
	}
	if t.maxNodes > 0 && t.Len() >= t.maxNodes {
		return NoNode, statuserr.Alloc("tree is full (%d nodes) allocating %s", t.maxNodes, obj.Name)
	}
	t.nodes = append(t.nodes, node{
		kind:   obj.Kind,
		name:   obj.Name,
		module: obj.Module,
		object: obj,
	})
	return NodeID(len(t.nodes) - 1), nil
}

// Attach links child under parent, after any existing children.
func (t *Tree) Attach(parent, child NodeID) error {
	p, c := t.get(parent), t.get(child)
	if p == nil || c == nil {
		return statuserr.Alloc("invalid handle attaching %d under %d", child, parent)
	}
	if child == t.Root() {
		return statuserr.Alloc("cannot attach the root")
	}
	if c.parent != NoNode {
		return statuserr.Alloc("node %s is already attached", c.name)
	}
	if p.kind.IsSimple() {
		return statuserr.Alloc("cannot attach %s under %s %s", c.name, p.kind, p.name)
	}
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// Child returns the first child of parent named name.
func (t *Tree) Child(parent NodeID, name string) (NodeID, bool) {
	p := t.get(parent)
	if p == nil {
		return NoNode, false
	}
	for _, c := range p.children {
		if t.nodes[c].name == name {
			return c, true
		}
	}
	return NoNode, false
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// SetSimpleValue parses value as the declared type of leaf id and stores it.
func (t *Tree) SetSimpleValue(id NodeID, value string) error {
	n := t.get(id)
	if n == nil {
		return statuserr.Assign("invalid handle %d", id)
	}
	if !n.kind.IsSimple() {
		return statuserr.Assign("%s %s does not take a value", n.kind, n.name)
	}
	if n.virtual != nil {
		return statuserr.Assign("leaf %s is virtual", n.name)
	}
	if err := n.object.Validate(value); err != nil {
		return statuserr.Assign("leaf %s: %v", n.name, err)
	}
	n.value = value
	n.hasValue = true
	return nil
}

// Validate checks value against the declared leaf type of o. A nil
// object accepts anything.
func (o *Object) Validate(value string) error {
	if o == nil {
		return nil
	}
	switch o.Type {
	case TypeInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
	case TypeUint:
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("%q is not an unsigned integer", value)
		}
	case TypeBool:
		if value != "true" && value != "false" {
			return fmt.Errorf("%q is not a boolean", value)
		}
	case TypeDecimal:
		if !decimalPattern.MatchString(value) {
			return fmt.Errorf("%q is not a decimal", value)
		}
	case TypeEnumeration:
		for _, e := range o.Enum {
			if e == value {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %v", value, o.Enum)
	}
	return nil
}

// SynthesizeKey records the value of key leaf id as a key entry on its
// parent list entry.
func (t *Tree) SynthesizeKey(id NodeID) error {
	n := t.get(id)
	if n == nil {
		return statuserr.Assign("invalid handle %d", id)
	}
	if !n.hasValue {
		return statuserr.Assign("key leaf %s has no value", n.name)
	}
	p := t.get(n.parent)
	if p == nil || p.kind != KindList {
		return statuserr.Assign("key leaf %s is not under a list entry", n.name)
	}
	for i := range p.keys {
		if p.keys[i].Name == n.name {
			p.keys[i].Value = n.value
			return nil
		}
	}
	p.keys = append(p.keys, KeyEntry{Name: n.name, Value: n.value})
	return nil
}

// AddVirtual turns leaf id into a virtual leaf whose value is produced by
// fn on every read.
func (t *Tree) AddVirtual(id NodeID, fn VirtualFunc) error {
	n := t.get(id)
	if n == nil {
		return statuserr.Alloc("invalid handle %d", id)
	}
	if !n.kind.IsSimple() {
		return statuserr.Assign("%s %s cannot be virtual", n.kind, n.name)
	}
	if fn == nil {
		return statuserr.Assign("nil callback for virtual leaf %s", n.name)
	}
	n.virtual = fn
	n.value = ""
	n.hasValue = false
	return nil
}

// Value returns the value of id. Virtual leaves call their callback.
func (t *Tree) Value(id NodeID) (string, bool, error) {
	n := t.get(id)
	if n == nil {
		return "", false, nil
	}
	if n.virtual != nil {
		v, err := n.virtual(t, id)
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}
	return n.value, n.hasValue, nil
}

// KeyValue returns the current value of key on list entry id: the
// synthesized key entry if present, else the value of the child leaf of
// that name.
func (t *Tree) KeyValue(id NodeID, key string) (string, bool) {
	n := t.get(id)
	if n == nil {
		return "", false
	}
	for _, k := range n.keys {
		if k.Name == key {
			return k.Value, true
		}
	}
	if c, ok := t.Child(id, key); ok {
		if v, ok, err := t.Value(c); err == nil && ok {
			return v, true
		}
	}
	return "", false
}

// Walk visits id and its descendants depth first. Returning an error stops
// the walk.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) error) error {
	var visit func(NodeID, int) error
	visit = func(n NodeID, depth int) error {
		if err := fn(n, depth); err != nil {
			return err
		}
		for _, c := range t.get(n).children {
			if err := visit(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if !t.Valid(id) {
		return nil
	}
	return visit(id, 0)
}
