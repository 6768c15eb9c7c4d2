package pathbuilder

import (
	"mediator/internal/pathquery"
	"mediator/internal/statuserr"
	"mediator/internal/valuetree"
)

// Resolve finds the node a normal-mode path names, starting below start
// (NoNode means the tree root). Qualifiers may be module names or
// namespace prefixes. Choice and case nodes are descended transparently.
// No match and more than one match are both resolution errors.
func Resolve(nav Navigator, start valuetree.NodeID, path string) (valuetree.NodeID, error) {
	if start == valuetree.NoNode {
		start = nav.Root()
	}
	segments, err := pathquery.Split(path)
	if err != nil {
		return valuetree.NoNode, err
	}
	if len(segments) == 0 {
		return start, nil
	}

	current := start
	for _, seg := range segments {
		var matches []valuetree.NodeID
		for _, c := range visibleChildren(nav, current) {
			if segmentMatches(nav, c, seg) {
				matches = append(matches, c)
			}
		}
		switch len(matches) {
		case 0:
			return valuetree.NoNode, statuserr.Resolution("no node matches %q in %q", seg.Name, path)
		case 1:
			current = matches[0]
		default:
			return valuetree.NoNode, statuserr.Resolution("%d nodes match %q in %q", len(matches), seg.Name, path)
		}
	}
	return current, nil
}

// visibleChildren returns the children of id that can appear as a path
// segment, flattening choice and case nodes.
func visibleChildren(nav Navigator, id valuetree.NodeID) []valuetree.NodeID {
	var out []valuetree.NodeID
	for _, c := range nav.Children(id) {
		if nav.Kind(c).IsTransparent() || nav.Name(c) == "" {
			out = append(out, visibleChildren(nav, c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

func segmentMatches(nav Navigator, id valuetree.NodeID, seg pathquery.Segment) bool {
	if nav.Name(id) != seg.Name {
		return false
	}
	if seg.Qualifier != "" {
		mod := nav.Module(id)
		if mod == nil || (mod.Name != seg.Qualifier && mod.Prefix != seg.Qualifier) {
			return false
		}
	}
	for _, p := range seg.Predicates {
		v, ok := nav.KeyValue(id, p.Key)
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}
