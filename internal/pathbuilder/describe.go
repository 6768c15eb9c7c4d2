package pathbuilder

import (
	"fmt"

	"mediator/internal/pathquery"
	"mediator/internal/valuetree"
	"mediator/pkg/logging"
)

// StatusPath returns the status document expression for node: the root
// segment followed by the unqualified normal-mode path.
func StatusPath(nav Navigator, node valuetree.NodeID, root string) (string, error) {
	rel, err := Build(nav, node, Options{})
	if err != nil {
		return "", err
	}
	expr := pathquery.Compose(root, rel)
	logging.Debug("PathBuilder", "Status path for %s: %s", nav.Name(node), expr)
	return expr, nil
}

// Describe lists node and its ancestors, innermost first, one line per
// level. Lists show their first key and its current value.
func Describe(nav Navigator, node valuetree.NodeID) []string {
	var lines []string
	for id := node; id != valuetree.NoNode; id = nav.Parent(id) {
		kind := nav.Kind(id)
		if kind == valuetree.KindRoot || kind == 0 {
			continue
		}
		line := fmt.Sprintf("%s %s", kind, nav.Name(id))
		if obj := nav.Object(id); kind == valuetree.KindList && obj != nil && len(obj.Keys) > 0 {
			value, _ := nav.KeyValue(id, obj.Keys[0])
			line = fmt.Sprintf("%s[%s=%q]", line, obj.Keys[0], value)
		}
		lines = append(lines, line)
	}
	return lines
}
