package treeinit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediator/internal/statuserr"
	"mediator/internal/valuetree"
)

type schema struct {
	pac        *valuetree.Object
	list       *valuetree.Object
	key        *valuetree.Object
	txPower    *valuetree.Object
	rxLevel    *valuetree.Object
	choice     *valuetree.Object
	modulation *valuetree.Object
}

func newSchema() schema {
	mod := &valuetree.Module{Name: "mw", Prefix: "mw"}
	s := schema{pac: valuetree.NewObject(valuetree.KindContainer, "pac", mod)}
	s.list = s.pac.AddChild(valuetree.NewObject(valuetree.KindList, "air-interface", nil))
	s.list.Keys = []string{"layer-protocol"}
	s.key = s.list.AddChild(valuetree.NewObject(valuetree.KindLeaf, "layer-protocol", nil))
	s.txPower = s.list.AddChild(valuetree.NewObject(valuetree.KindLeaf, "tx-power", nil))
	s.txPower.Type = valuetree.TypeInt
	s.txPower.Default, s.txPower.HasDefault = "0", true
	s.rxLevel = s.list.AddChild(valuetree.NewObject(valuetree.KindLeaf, "rx-level", nil))
	s.choice = s.list.AddChild(valuetree.NewObject(valuetree.KindChoice, "mode", nil))
	adaptive := s.choice.AddChild(valuetree.NewObject(valuetree.KindCase, "adaptive", nil))
	s.modulation = adaptive.AddChild(valuetree.NewObject(valuetree.KindLeaf, "modulation", nil))
	s.modulation.Default, s.modulation.HasDefault = "qam-4", true
	return s
}

func value(t *testing.T, tree *valuetree.Tree, id valuetree.NodeID) string {
	t.Helper()
	v, ok, err := tree.Value(id)
	require.NoError(t, err)
	require.True(t, ok, "node %s has no value", tree.Name(id))
	return v
}

func TestInitSiblings_AttachesEveryTemplate(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	entry, err := tree.Alloc(s.list)
	require.NoError(t, err)
	require.NoError(t, tree.Attach(tree.Root(), entry))

	in := New(tree, Options{})
	created, err := in.InitSiblings(s.list.FirstChild, entry, map[string]string{
		"pac/air-interface/layer-protocol": "radio-1",
		"pac/air-interface/rx-level":       "-40",
	})
	require.NoError(t, err)
	require.Len(t, created, 4, "one node per sibling template")
	assert.Equal(t, created, tree.Children(entry))

	assert.Equal(t, "radio-1", value(t, tree, created[0]))
	assert.Equal(t, "0", value(t, tree, created[1]), "declared default")
	assert.Equal(t, "-40", value(t, tree, created[2]))
	assert.Equal(t, []valuetree.KeyEntry{{Name: "layer-protocol", Value: "radio-1"}}, tree.Keys(entry))

	modulation, ok := tree.Child(tree.Children(created[3])[0], "modulation")
	require.True(t, ok, "choice and case are created with their leaves")
	assert.Equal(t, "qam-4", value(t, tree, modulation))
}

func TestInitSubtree_Recurses(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	in := New(tree, Options{})

	pac, err := in.InitSubtree(s.pac, tree.Root(), map[string]string{
		"pac/air-interface/layer-protocol": "radio-7",
		"pac/air-interface/tx-power":       "12",
		"pac/air-interface/modulation":     "qam-256",
	})
	require.NoError(t, err)

	_, ok, err := tree.Value(pac)
	require.NoError(t, err)
	assert.False(t, ok, "containers are never value-assigned")

	entry, ok := tree.Child(pac, "air-interface")
	require.True(t, ok)
	v, ok := tree.KeyValue(entry, "layer-protocol")
	assert.True(t, ok)
	assert.Equal(t, "radio-7", v)

	tx, _ := tree.Child(entry, "tx-power")
	assert.Equal(t, "12", value(t, tree, tx))

	rx, _ := tree.Child(entry, "rx-level")
	_, ok, err = tree.Value(rx)
	require.NoError(t, err)
	assert.False(t, ok, "no literal, callback or default leaves the leaf empty")
}

func TestInitChild_ValuePrecedence(t *testing.T) {
	s := newSchema()
	literalValue := "5"

	tests := []struct {
		name     string
		literal  *string
		callback ValueFunc
		want     string
		wantSet  bool
	}{
		{name: "default", want: "0", wantSet: true},
		{
			name:     "callback beats default",
			callback: func(*valuetree.Tree, valuetree.NodeID, *valuetree.Object) (string, bool, error) { return "3", true, nil },
			want:     "3",
			wantSet:  true,
		},
		{
			name:     "literal beats callback",
			literal:  &literalValue,
			callback: func(*valuetree.Tree, valuetree.NodeID, *valuetree.Object) (string, bool, error) { return "3", true, nil },
			want:     "5",
			wantSet:  true,
		},
		{
			name:     "declining callback falls back to default",
			callback: func(*valuetree.Tree, valuetree.NodeID, *valuetree.Object) (string, bool, error) { return "", false, nil },
			want:     "0",
			wantSet:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := valuetree.NewTree(valuetree.TreeOptions{})
			callbacks := NewCallbacks()
			if tt.callback != nil {
				callbacks.Register(s.txPower, tt.callback)
			}
			in := New(tree, Options{Callbacks: callbacks})

			id, err := in.InitChild(s.txPower, tree.Root(), tt.literal)
			require.NoError(t, err)
			v, ok, err := tree.Value(id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestInitChild_CallbackSeesAttachedNode(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	callbacks := NewCallbacks()
	var seenParent valuetree.NodeID
	callbacks.SetFallback(func(tr *valuetree.Tree, id valuetree.NodeID, obj *valuetree.Object) (string, bool, error) {
		seenParent = tr.Parent(id)
		return "7", true, nil
	})
	in := New(tree, Options{Callbacks: callbacks})

	id, err := in.InitChild(s.txPower, tree.Root(), nil)
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), seenParent)
	assert.Equal(t, "7", value(t, tree, id))
}

func TestInitSiblings_AssignFailureContinues(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	entry, err := tree.Alloc(s.list)
	require.NoError(t, err)
	require.NoError(t, tree.Attach(tree.Root(), entry))

	in := New(tree, Options{})
	created, err := in.InitSiblings(s.list.FirstChild, entry, map[string]string{
		"pac/air-interface/layer-protocol": "radio-1",
		"pac/air-interface/tx-power":       "loud",
		"pac/air-interface/rx-level":       "-40",
	})
	require.Error(t, err)
	assert.True(t, statuserr.IsAssign(err))
	assert.Contains(t, err.Error(), "loud")

	require.Len(t, created, 4, "the failing leaf stays attached and later siblings are created")
	assert.Equal(t, created, tree.Children(entry))
	assert.Equal(t, "tx-power", tree.Name(created[1]))
	_, ok, err := tree.Value(created[1])
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "-40", value(t, tree, created[2]))
}

func TestInitSiblings_FirstErrorWins(t *testing.T) {
	mod := &valuetree.Module{Name: "m", Prefix: "m"}
	p := valuetree.NewObject(valuetree.KindContainer, "p", mod)
	a := p.AddChild(valuetree.NewObject(valuetree.KindLeaf, "a", nil))
	a.Type = valuetree.TypeInt
	b := p.AddChild(valuetree.NewObject(valuetree.KindLeaf, "b", nil))
	b.Type = valuetree.TypeInt
	p.AddChild(valuetree.NewObject(valuetree.KindLeaf, "c", nil))

	tree := valuetree.NewTree(valuetree.TreeOptions{})
	parent, err := New(tree, Options{}).InitSubtree(p, tree.Root(), map[string]string{
		"p/a": "first",
		"p/b": "second",
		"p/c": "ok",
	})
	require.Error(t, err)
	assert.True(t, statuserr.IsAssign(err))
	assert.Contains(t, err.Error(), "first")

	children := tree.Children(parent)
	require.Len(t, children, 3)
	assert.Equal(t, "ok", value(t, tree, children[2]))
}

func TestInit_KeyLeafWithoutValue(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	entry, err := tree.Alloc(s.list)
	require.NoError(t, err)
	require.NoError(t, tree.Attach(tree.Root(), entry))

	_, err = New(tree, Options{}).InitChild(s.key, entry, nil)
	assert.True(t, statuserr.IsAssign(err))
}

func TestInit_AllocFailure(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{MaxNodes: 3})

	_, err := New(tree, Options{}).InitSubtree(s.pac, tree.Root(), map[string]string{
		"pac/air-interface/layer-protocol": "radio-1",
	})
	require.Error(t, err)
	assert.True(t, statuserr.IsAlloc(err))
	assert.Equal(t, 3, tree.Len())
}

func TestInit_CallbackError(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	boom := errors.New("status unavailable")
	callbacks := NewCallbacks()
	callbacks.Register(s.rxLevel, func(*valuetree.Tree, valuetree.NodeID, *valuetree.Object) (string, bool, error) {
		return "", false, boom
	})

	_, err := New(tree, Options{Callbacks: callbacks}).InitChild(s.rxLevel, tree.Root(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestInit_Virtuals(t *testing.T) {
	s := newSchema()
	tree := valuetree.NewTree(valuetree.TreeOptions{})
	virtuals := NewVirtuals()
	reads := 0
	virtuals.Register(s.rxLevel, func(*valuetree.Tree, valuetree.NodeID) (string, error) {
		reads++
		return "-42", nil
	})
	in := New(tree, Options{Virtuals: virtuals})

	id, err := in.InitChild(s.rxLevel, tree.Root(), nil)
	require.NoError(t, err)
	assert.True(t, tree.IsVirtual(id))
	assert.Equal(t, "-42", value(t, tree, id))
	assert.Equal(t, "-42", value(t, tree, id))
	assert.Equal(t, 2, reads)

	direct, err := in.RegisterVirtual(tree.Root(), s.txPower, func(*valuetree.Tree, valuetree.NodeID) (string, error) {
		return "9", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "9", value(t, tree, direct))
}

func TestSchemaPathAndFindObject(t *testing.T) {
	s := newSchema()
	assert.Equal(t, "pac/air-interface/modulation", SchemaPath(s.modulation))
	assert.Equal(t, "pac", SchemaPath(s.pac))

	found, ok := FindObject([]*valuetree.Object{s.pac}, "pac/air-interface/tx-power")
	assert.True(t, ok)
	assert.Same(t, s.txPower, found)

	_, ok = FindObject([]*valuetree.Object{s.pac}, "pac/missing")
	assert.False(t, ok)
}
