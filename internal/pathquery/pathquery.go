// Package pathquery normalizes and compiles the structural path expressions
// used to address the status document.
//
// Callers always speak in paths relative to the document root, for example
// "/airInterface[name='x']/txPower". The package turns them into absolute
// expressions by prepending the root segment ("/status" by default) and
// compiles them with etree so evaluation errors surface before the store
// takes its lock.
package pathquery

import (
	"strings"

	"github.com/beevik/etree"

	"mediator/internal/statuserr"
)

// DefaultRoot is the root segment prepended to every caller supplied path.
const DefaultRoot = "/status"

// Query is a compiled absolute path expression.
type Query struct {
	expr string
	path etree.Path
}

// Expr returns the absolute expression the query was compiled from.
func (q Query) Expr() string { return q.expr }

// Select evaluates the query against doc and returns the matching elements
// in document order.
func (q Query) Select(doc *etree.Document) []*etree.Element {
	if doc == nil {
		return nil
	}
	return doc.FindElementsPath(q.path)
}

// NormalizeRoot returns root with exactly one leading '/' and no trailing
// '/'. An empty root becomes DefaultRoot.
func NormalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" || root == "/" {
		return DefaultRoot
	}
	root = strings.TrimRight(root, "/")
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	return root
}

// Normalize trims whitespace, makes path start with a separator and drops a
// single trailing '/'. Predicate-only expressions ("[name='x']") are left
// anchored to the root element.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "[") {
		path = "/" + path
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") && !strings.HasSuffix(path, "//") {
		path = path[:len(path)-1]
	}
	return path
}

// Compose joins the root segment and a caller supplied relative path.
func Compose(root, path string) string {
	return NormalizeRoot(root) + Normalize(path)
}

// Relative strips root from an absolute expression. It reports false when
// abs is not under root.
func Relative(root, abs string) (string, bool) {
	root = NormalizeRoot(root)
	if abs == root {
		return "", true
	}
	if !strings.HasPrefix(abs, root) {
		return "", false
	}
	rest := abs[len(root):]
	if strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "[") {
		return rest, true
	}
	return "", false
}

// Compile composes root and path and compiles the result. Compilation
// failures are reported as statuserr.ErrQuery.
func Compile(root, path string) (Query, error) {
	expr := Compose(root, path)
	compiled, err := etree.CompilePath(expr)
	if err != nil {
		return Query{}, statuserr.Query(expr, err)
	}
	return Query{expr: expr, path: compiled}, nil
}
