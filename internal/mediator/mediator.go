// Package mediator connects value tree nodes to the status document.
//
// A node's canonical path, built without qualification, is the path of
// its counterpart in the status document. The mediator uses it to seed
// leaf values during tree initialization, to serve virtual leaves live and
// to push updates back into the document.
package mediator

import (
	"context"
	"errors"
	"fmt"

	"mediator/internal/pathbuilder"
	"mediator/internal/statuserr"
	"mediator/internal/treeinit"
	"mediator/internal/valuetree"
	"mediator/pkg/logging"
)

// ErrNoStatus is returned by virtual leaves whose status entry is missing.
var ErrNoStatus = errors.New("no status value")

// StatusStore is the part of the document store the mediator uses.
// *statusstore.Store implements it.
type StatusStore interface {
	Read(ctx context.Context, path string) (string, bool, error)
	ReadAll(ctx context.Context, path string) ([]string, error)
	Write(ctx context.Context, path, value string) error
}

// Mediator bridges one store and any number of value trees.
type Mediator struct {
	store StatusStore
}

// New returns a mediator over store.
func New(store StatusStore) *Mediator {
	return &Mediator{store: store}
}

// Path returns the document path of node relative to the document root.
func (m *Mediator) Path(tree *valuetree.Tree, node valuetree.NodeID) (string, error) {
	return pathbuilder.Build(tree, node, pathbuilder.Options{})
}

// ValueFunc returns a value callback that seeds leaves from the status
// document. Leaves without a status entry, or whose path cannot be built
// yet, fall back to their declared default.
func (m *Mediator) ValueFunc(ctx context.Context) treeinit.ValueFunc {
	return func(tree *valuetree.Tree, node valuetree.NodeID, obj *valuetree.Object) (string, bool, error) {
		path, err := m.Path(tree, node)
		if statuserr.IsResolution(err) {
			logging.Debug("Mediator", "No status path for %s yet: %v", obj.Name, err)
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		value, ok, err := m.store.Read(ctx, path)
		if err != nil {
			return "", false, fmt.Errorf("read status for %s: %w", obj.Name, err)
		}
		return value, ok, nil
	}
}

// VirtualFunc returns a callback serving a virtual leaf from the status
// document on every read.
func (m *Mediator) VirtualFunc(ctx context.Context) valuetree.VirtualFunc {
	return func(tree *valuetree.Tree, node valuetree.NodeID) (string, error) {
		path, err := m.Path(tree, node)
		if err != nil {
			return "", err
		}
		value, ok, err := m.store.Read(ctx, path)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%s: %w", path, ErrNoStatus)
		}
		return value, nil
	}
}

// List returns every status value at node's path in document order. It is
// the reader for leaf-lists.
func (m *Mediator) List(ctx context.Context, tree *valuetree.Tree, node valuetree.NodeID) ([]string, error) {
	path, err := m.Path(tree, node)
	if err != nil {
		return nil, err
	}
	return m.store.ReadAll(ctx, path)
}

// Update writes value to node's status entry and, for a non-virtual leaf,
// to the node itself. The node is only changed once the write succeeded.
func (m *Mediator) Update(ctx context.Context, tree *valuetree.Tree, node valuetree.NodeID, value string) error {
	path, err := m.Path(tree, node)
	if err != nil {
		return err
	}
	if err := tree.Object(node).Validate(value); err != nil {
		return statuserr.Assign("%s: %v", path, err)
	}
	if err := m.store.Write(ctx, path, value); err != nil {
		return err
	}
	if tree.Kind(node).IsSimple() && !tree.IsVirtual(node) {
		if err := tree.SetSimpleValue(node, value); err != nil {
			return err
		}
	}
	logging.Debug("Mediator", "Updated %s to %q", path, value)
	return nil
}
