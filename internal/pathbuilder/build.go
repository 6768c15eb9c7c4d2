// Package pathbuilder turns positions in a value tree into canonical path
// strings and resolves such strings back to nodes.
//
// Segments are emitted outermost first. The root, nameless nodes and
// choice/case nodes never produce a segment, so a leaf reached through a
// choice has the same path as one attached directly. A list gets a key
// predicate only when it is the outermost emitted segment.
package pathbuilder

import (
	"strings"

	"mediator/internal/statuserr"
	"mediator/internal/valuetree"
)

// Navigator is the read-only view of a value tree the builder needs.
// *valuetree.Tree implements it.
type Navigator interface {
	Root() valuetree.NodeID
	Parent(id valuetree.NodeID) valuetree.NodeID
	Children(id valuetree.NodeID) []valuetree.NodeID
	Kind(id valuetree.NodeID) valuetree.Kind
	Name(id valuetree.NodeID) string
	Module(id valuetree.NodeID) *valuetree.Module
	Object(id valuetree.NodeID) *valuetree.Object
	KeyValue(id valuetree.NodeID, key string) (string, bool)
}

// Mode selects the separator style.
type Mode int

const (
	// ModeNormal separates segments with '/'.
	ModeNormal Mode = iota
	// ModeCompact separates segments with '.' and qualifies with '_'.
	ModeCompact
)

func (m Mode) String() string {
	if m == ModeCompact {
		return "compact"
	}
	return "normal"
}

// Options controls Build.
type Options struct {
	// Stop ends the upward walk; segments are emitted for the nodes below it.
	// NoNode walks up to the tree root.
	Stop valuetree.NodeID
	Mode Mode
	// ForceModuleQualify qualifies every segment with the namespace prefix.
	ForceModuleQualify bool
	// WithModuleQualify qualifies every segment with the module name.
	WithModuleQualify bool
	// Module is the ambient module name; segments from other modules are
	// qualified even when neither flag is set.
	Module string
	// MaxLen caps the result length. Zero means no cap.
	MaxLen int
}

// Build returns the canonical path of node.
func Build(nav Navigator, node valuetree.NodeID, opts Options) (string, error) {
	chain, err := ancestry(nav, node, opts.Stop)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	first := true
	for _, id := range chain {
		kind := nav.Kind(id)
		name := nav.Name(id)
		if kind == valuetree.KindRoot || name == "" || kind.IsTransparent() {
			continue
		}

		if !first || opts.Stop == valuetree.NoNode {
			if opts.Mode == ModeCompact {
				b.WriteByte('.')
			} else {
				b.WriteByte('/')
			}
		}

		qualifier, err := moduleQualifier(nav, id, opts)
		if err != nil {
			return "", err
		}
		if qualifier != "" {
			b.WriteString(qualifier)
			if opts.Mode == ModeNormal || opts.ForceModuleQualify || opts.WithModuleQualify {
				b.WriteByte(':')
			} else {
				b.WriteByte('_')
			}
		}
		b.WriteString(name)

		if first && kind == valuetree.KindList {
			if err := writeKeyPredicate(&b, nav, id); err != nil {
				return "", err
			}
		}
		first = false

		if opts.MaxLen > 0 && b.Len() > opts.MaxLen {
			return "", statuserr.BufferOverflow(opts.MaxLen)
		}
	}
	return b.String(), nil
}

// ancestry returns node and its ancestors below stop, outermost first.
func ancestry(nav Navigator, node, stop valuetree.NodeID) ([]valuetree.NodeID, error) {
	if nav.Kind(node) == 0 {
		return nil, statuserr.Resolution("invalid node %d", node)
	}
	var chain []valuetree.NodeID
	id := node
	for id != valuetree.NoNode && id != stop {
		chain = append(chain, id)
		id = nav.Parent(id)
	}
	if stop != valuetree.NoNode && id != stop {
		return nil, statuserr.Resolution("node %s is not below the stop node", nav.Name(node))
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func moduleQualifier(nav Navigator, id valuetree.NodeID, opts Options) (string, error) {
	mod := nav.Module(id)
	var modName string
	if mod != nil {
		modName = mod.Name
	}

	add := opts.WithModuleQualify || opts.ForceModuleQualify ||
		(opts.Module != "" && modName != opts.Module)
	if !add {
		return "", nil
	}

	if opts.ForceModuleQualify {
		if mod == nil || mod.Prefix == "" {
			return "", statuserr.Resolution("no namespace prefix for %s", nav.Name(id))
		}
		return mod.Prefix, nil
	}
	return modName, nil
}

func writeKeyPredicate(b *strings.Builder, nav Navigator, id valuetree.NodeID) error {
	obj := nav.Object(id)
	if obj == nil || len(obj.Keys) == 0 {
		return nil
	}
	key := obj.Keys[0]
	value, ok := nav.KeyValue(id, key)
	if !ok {
		return statuserr.Resolution("list %s has no value for key %s", nav.Name(id), key)
	}
	quote := byte('"')
	if strings.ContainsRune(value, '"') {
		if strings.ContainsRune(value, '\'') {
			return statuserr.Resolution("key %s of list %s holds both quote characters", key, nav.Name(id))
		}
		quote = '\''
	}
	b.WriteByte('[')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteByte(quote)
	b.WriteString(value)
	b.WriteByte(quote)
	b.WriteByte(']')
	return nil
}
