// Package treeinit materializes value tree nodes from schema templates.
//
// Each child is allocated, attached under its parent and then given a
// value: a literal if the caller supplied one, else the registered value
// callback's, else the declared default. Key leaves get their key entry
// synthesized on the parent list entry. Containers, lists, choices and
// cases are never assigned a value; their children are initialized
// recursively. A failing child does not stop its siblings: the remaining
// templates are still initialized and the first failure is returned once
// they are done. Only an allocation failure stops the walk. Nothing is
// rolled back.
package treeinit

import (
	"fmt"

	"mediator/internal/statuserr"
	"mediator/internal/valuetree"
	"mediator/pkg/logging"
)

// Options configures an Initializer.
type Options struct {
	Callbacks *Callbacks
	Virtuals  *Virtuals
}

// Initializer builds value subtrees in a single tree.
type Initializer struct {
	tree      *valuetree.Tree
	callbacks *Callbacks
	virtuals  *Virtuals
}

// New returns an initializer for tree.
func New(tree *valuetree.Tree, opts Options) *Initializer {
	return &Initializer{tree: tree, callbacks: opts.Callbacks, virtuals: opts.Virtuals}
}

// Tree returns the tree being initialized.
func (in *Initializer) Tree() *valuetree.Tree { return in.tree }

// InitChild creates one node from obj under parent. A non-nil value is used
// as the literal value of a leaf. Descendants of a container or list are
// initialized from callbacks and defaults only.
func (in *Initializer) InitChild(obj *valuetree.Object, parent valuetree.NodeID, value *string) (valuetree.NodeID, error) {
	return in.initNode(obj, parent, value, nil)
}

// InitSubtree creates obj and all its descendants under parent. Literal
// values are taken from values, keyed by SchemaPath.
func (in *Initializer) InitSubtree(obj *valuetree.Object, parent valuetree.NodeID, values map[string]string) (valuetree.NodeID, error) {
	return in.initNode(obj, parent, literal(obj, values), values)
}

// InitSiblings applies InitSubtree to first and every object on its
// next-sibling chain, in order, and returns every node attached. A sibling
// that fails stays attached and the walk moves on; the first failure is
// returned at the end. An allocation failure stops the walk at once.
func (in *Initializer) InitSiblings(first *valuetree.Object, parent valuetree.NodeID, values map[string]string) ([]valuetree.NodeID, error) {
	var created []valuetree.NodeID
	var firstErr error
	for obj := first; obj != nil; obj = obj.Next {
		id, err := in.InitSubtree(obj, parent, values)
		if id != valuetree.NoNode {
			created = append(created, id)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if statuserr.IsAlloc(err) {
				break
			}
		}
	}
	return created, firstErr
}

// RegisterVirtual creates a virtual leaf from obj under parent. Reads of
// the leaf call cb; no static value is stored.
func (in *Initializer) RegisterVirtual(parent valuetree.NodeID, obj *valuetree.Object, cb valuetree.VirtualFunc) (valuetree.NodeID, error) {
	id, err := in.attach(obj, parent)
	if err != nil {
		return valuetree.NoNode, err
	}
	if err := in.tree.AddVirtual(id, cb); err != nil {
		return id, err
	}
	logging.Debug("TreeInit", "Registered virtual leaf %s", obj.Name)
	return id, nil
}

func (in *Initializer) initNode(obj *valuetree.Object, parent valuetree.NodeID, value *string, values map[string]string) (valuetree.NodeID, error) {
	if obj == nil {
		return valuetree.NoNode, fmt.Errorf("nil schema object")
	}
	if obj.Kind.IsSimple() {
		if cb, ok := in.virtuals.lookup(obj); ok {
			return in.RegisterVirtual(parent, obj, cb)
		}
	}

	id, err := in.attach(obj, parent)
	if err != nil {
		return valuetree.NoNode, err
	}

	if !obj.Kind.IsSimple() {
		var firstErr error
		for c := obj.FirstChild; c != nil; c = c.Next {
			_, err := in.initNode(c, id, literal(c, values), values)
			if err == nil {
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			if statuserr.IsAlloc(err) {
				break
			}
		}
		return id, firstErr
	}

	resolved, ok, err := in.resolveValue(obj, id, value)
	if err != nil {
		return id, fmt.Errorf("value for %s: %w", obj.Name, err)
	}
	if ok {
		if err := in.tree.SetSimpleValue(id, resolved); err != nil {
			return id, err
		}
	}
	if obj.IsKey() {
		if err := in.tree.SynthesizeKey(id); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (in *Initializer) attach(obj *valuetree.Object, parent valuetree.NodeID) (valuetree.NodeID, error) {
	id, err := in.tree.Alloc(obj)
	if err != nil {
		return valuetree.NoNode, err
	}
	if err := in.tree.Attach(parent, id); err != nil {
		return valuetree.NoNode, err
	}
	return id, nil
}

// resolveValue applies the literal, callback, default precedence.
func (in *Initializer) resolveValue(obj *valuetree.Object, id valuetree.NodeID, value *string) (string, bool, error) {
	if value != nil {
		return *value, true, nil
	}
	if cb := in.callbacks.lookup(obj); cb != nil {
		v, ok, err := cb(in.tree, id, obj)
		if err != nil {
			return "", false, err
		}
		if ok {
			return v, true, nil
		}
	}
	v, ok := obj.DefaultValue()
	return v, ok, nil
}

func literal(obj *valuetree.Object, values map[string]string) *string {
	if len(values) == 0 || obj == nil {
		return nil
	}
	if v, ok := values[SchemaPath(obj)]; ok {
		return &v
	}
	return nil
}
