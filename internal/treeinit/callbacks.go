package treeinit

import (
	"strings"
	"sync"

	"mediator/internal/valuetree"
)

// ValueFunc supplies the value of a freshly attached leaf. ok=false means
// the callback has nothing to offer and the declared default applies.
type ValueFunc func(tree *valuetree.Tree, node valuetree.NodeID, obj *valuetree.Object) (value string, ok bool, err error)

// Callbacks maps schema objects to value callbacks. A fallback, if set,
// serves every object without a dedicated callback.
type Callbacks struct {
	mu       sync.RWMutex
	byObject map[*valuetree.Object]ValueFunc
	fallback ValueFunc
}

// NewCallbacks returns an empty registry.
func NewCallbacks() *Callbacks {
	return &Callbacks{byObject: make(map[*valuetree.Object]ValueFunc)}
}

// Register sets the callback for obj.
func (c *Callbacks) Register(obj *valuetree.Object, fn ValueFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byObject[obj] = fn
}

// SetFallback sets the callback used for objects without their own.
func (c *Callbacks) SetFallback(fn ValueFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = fn
}

func (c *Callbacks) lookup(obj *valuetree.Object) ValueFunc {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if fn, ok := c.byObject[obj]; ok {
		return fn
	}
	return c.fallback
}

// Virtuals maps schema objects to live value callbacks. Leaves created from
// a registered object become virtual.
type Virtuals struct {
	mu       sync.RWMutex
	byObject map[*valuetree.Object]valuetree.VirtualFunc
}

// NewVirtuals returns an empty registry.
func NewVirtuals() *Virtuals {
	return &Virtuals{byObject: make(map[*valuetree.Object]valuetree.VirtualFunc)}
}

// Register marks obj as virtual, served by fn.
func (v *Virtuals) Register(obj *valuetree.Object, fn valuetree.VirtualFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.byObject[obj] = fn
}

func (v *Virtuals) lookup(obj *valuetree.Object) (valuetree.VirtualFunc, bool) {
	if v == nil {
		return nil, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	fn, ok := v.byObject[obj]
	return fn, ok
}

// SchemaPath returns the slash separated names from the top-level object
// down to obj, skipping choice and case. It is the key format of value maps.
func SchemaPath(obj *valuetree.Object) string {
	var names []string
	for o := obj; o != nil; o = o.Parent {
		if o.Kind.IsTransparent() || o.Name == "" {
			continue
		}
		names = append(names, o.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}

// FindObject resolves a schema path produced by SchemaPath against the
// given top-level objects.
func FindObject(top []*valuetree.Object, path string) (*valuetree.Object, bool) {
	for _, obj := range top {
		if found, ok := findBelow(obj, path); ok {
			return found, true
		}
	}
	return nil, false
}

func findBelow(obj *valuetree.Object, path string) (*valuetree.Object, bool) {
	if SchemaPath(obj) == path {
		return obj, true
	}
	for _, c := range obj.Children() {
		if found, ok := findBelow(c, path); ok {
			return found, true
		}
	}
	return nil, false
}
