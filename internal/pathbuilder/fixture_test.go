package pathbuilder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mediator/internal/valuetree"
)

// fixture is a value tree with two entries of a keyed top-level list:
//
//	air-interface[layer-protocol]        (mw)
//	  layer-protocol
//	  config
//	    tx-power
//	    choice mode / case adaptive
//	      modulation
//	  ext-stats                          (ext)
//	    errors
type fixture struct {
	tree       *valuetree.Tree
	entries    []valuetree.NodeID
	txPower    []valuetree.NodeID
	modulation []valuetree.NodeID
	errors     []valuetree.NodeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mw := &valuetree.Module{Name: "mw", Prefix: "mwp"}
	ext := &valuetree.Module{Name: "ext", Prefix: "x"}

	list := valuetree.NewObject(valuetree.KindList, "air-interface", mw)
	list.Keys = []string{"layer-protocol"}
	keyObj := list.AddChild(valuetree.NewObject(valuetree.KindLeaf, "layer-protocol", nil))
	configObj := list.AddChild(valuetree.NewObject(valuetree.KindContainer, "config", nil))
	txObj := configObj.AddChild(valuetree.NewObject(valuetree.KindLeaf, "tx-power", nil))
	choiceObj := configObj.AddChild(valuetree.NewObject(valuetree.KindChoice, "mode", nil))
	caseObj := choiceObj.AddChild(valuetree.NewObject(valuetree.KindCase, "adaptive", nil))
	modObj := caseObj.AddChild(valuetree.NewObject(valuetree.KindLeaf, "modulation", nil))
	statsObj := list.AddChild(valuetree.NewObject(valuetree.KindContainer, "ext-stats", ext))
	errObj := statsObj.AddChild(valuetree.NewObject(valuetree.KindLeaf, "errors", nil))

	f := &fixture{tree: valuetree.NewTree(valuetree.TreeOptions{})}
	add := func(parent valuetree.NodeID, obj *valuetree.Object) valuetree.NodeID {
		id, err := f.tree.Alloc(obj)
		require.NoError(t, err)
		require.NoError(t, f.tree.Attach(parent, id))
		return id
	}

	for _, name := range []string{"radio-1", "radio-2"} {
		entry := add(f.tree.Root(), list)
		key := add(entry, keyObj)
		require.NoError(t, f.tree.SetSimpleValue(key, name))
		require.NoError(t, f.tree.SynthesizeKey(key))

		cfg := add(entry, configObj)
		f.txPower = append(f.txPower, add(cfg, txObj))
		choice := add(cfg, choiceObj)
		c := add(choice, caseObj)
		f.modulation = append(f.modulation, add(c, modObj))

		stats := add(entry, statsObj)
		f.errors = append(f.errors, add(stats, errObj))
		f.entries = append(f.entries, entry)
	}
	return f
}
