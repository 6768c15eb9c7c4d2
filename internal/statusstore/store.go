// Package statusstore owns the live status document of the managed element.
//
// A Store holds one parsed XML document behind a single lock. Read, ReadAll
// and Write address fragments of it with structural paths relative to the
// document root; Refresh replaces it wholesale from the backing resource.
// Writes are persisted before the lock is released, so the resource always
// reflects the last successful Write.
//
// The Refresher and the Watcher drive Refresh in the background.
package statusstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"mediator/internal/backend"
	"mediator/internal/pathquery"
	"mediator/internal/statuserr"
	"mediator/pkg/logging"
)

// Options configures a Store.
type Options struct {
	// RootSegment is prepended to every path. Defaults to "/status".
	RootSegment string
	// Metrics is optional.
	Metrics *Metrics
}

// Info describes the document currently held by the store.
type Info struct {
	// Generation changes every time a new document is swapped in.
	Generation string
	LoadedAt   time.Time
	Source     string
	Loaded     bool
}

// Store serializes all access to the status document.
type Store struct {
	mu      sync.Mutex
	res     backend.Resource
	root    string
	metrics *Metrics
	flight  singleflight.Group

	doc  *etree.Document
	info Info
}

// New returns a store backed by res. The document is loaded lazily on the
// first operation or by the first Refresh.
func New(res backend.Resource, opts Options) *Store {
	return &Store{
		res:     res,
		root:    pathquery.NormalizeRoot(opts.RootSegment),
		metrics: opts.Metrics,
		info:    Info{Source: res.Describe()},
	}
}

// Root returns the root segment prepended to every path.
func (s *Store) Root() string { return s.root }

// Info returns a snapshot of the current document's metadata.
func (s *Store) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Read returns the text content of the last element matching path in
// document order. ok is false when nothing matches.
func (s *Store) Read(ctx context.Context, path string) (value string, ok bool, err error) {
	started := time.Now()
	defer func() { s.metrics.observe(OpRead, readResult(ok, err), err, started) }()

	q, err := pathquery.Compile(s.root, path)
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return "", false, err
	}

	// Every match is visited and overwrites the previous one.
	for _, el := range q.Select(s.doc) {
		value = textContent(el)
		ok = true
	}
	if !ok {
		logging.Debug("StatusStore", "No match for %s", q.Expr())
	}
	return value, ok, nil
}

// ReadAll returns the text content of every element matching path in
// document order. An empty result is not an error.
func (s *Store) ReadAll(ctx context.Context, path string) (values []string, err error) {
	started := time.Now()
	defer func() { s.metrics.observe(OpReadAll, readResult(len(values) > 0, err), err, started) }()

	q, err := pathquery.Compile(s.root, path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	matches := q.Select(s.doc)
	values = make([]string, 0, len(matches))
	for _, el := range matches {
		values = append(values, textContent(el))
	}
	return values, nil
}

// Write replaces the text content of every element matching path with
// value, visiting matches in reverse document order, and persists the whole
// document. A path with no match still persists. If persisting fails the
// in-memory document is left as it was.
func (s *Store) Write(ctx context.Context, path, value string) (err error) {
	started := time.Now()
	defer func() {
		result := ResultOK
		if err != nil {
			result = ResultError
		}
		s.metrics.observe(OpWrite, result, err, started)
	}()

	q, err := pathquery.Compile(s.root, path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	staged := s.doc.Copy()
	matches := q.Select(staged)
	for i := len(matches) - 1; i >= 0; i-- {
		setTextContent(matches[i], value)
	}

	data, err := staged.WriteToBytes()
	if err != nil {
		return statuserr.IO("serialize status document", err)
	}
	if err := s.res.Store(ctx, data); err != nil {
		logging.Error("StatusStore", err, "Failed to persist status document to %s", s.res.Describe())
		return statuserr.IO("persist status document", err)
	}

	s.swap(staged)
	logging.Debug("StatusStore", "Wrote %q to %d node(s) at %s", value, len(matches), q.Expr())
	return nil
}

// Refresh reloads the document from the backing resource. On failure the
// previous document is kept and the error is returned. Concurrent calls
// share a single reload.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, shared := s.flight.Do("refresh", func() (interface{}, error) {
		started := time.Now()

		s.mu.Lock()
		err := s.reloadLocked(ctx)
		s.mu.Unlock()

		result := ResultOK
		if err != nil {
			result = ResultError
		}
		s.metrics.observe(OpRefresh, result, err, started)
		return nil, err
	})
	if shared {
		logging.Debug("StatusStore", "Refresh shared with a concurrent caller")
	}
	return err
}

// ensureLoaded performs the first load. A resource that does not exist yet
// yields an empty document holding only the root elements.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.doc != nil {
		return nil
	}
	err := s.reloadLocked(ctx)
	if errors.Is(err, backend.ErrNotFound) {
		logging.Warn("StatusStore", "%s does not exist yet, starting with an empty document", s.res.Describe())
		s.swap(emptyDocument(s.root))
		return nil
	}
	return err
}

// reloadLocked parses the resource into a new document and swaps it in.
// s.mu must be held.
func (s *Store) reloadLocked(ctx context.Context) error {
	data, err := s.res.Load(ctx)
	if err != nil {
		if s.doc != nil {
			logging.Error("StatusStore", err, "Failed to load %s, keeping previous document", s.res.Describe())
		}
		return statuserr.IO("load status document", err)
	}

	doc, err := parse(data)
	if err != nil {
		logging.Error("StatusStore", err, "Failed to parse %s, keeping previous document", s.res.Describe())
		return statuserr.IO("parse status document", err)
	}

	s.swap(doc)
	logging.Debug("StatusStore", "Loaded status document from %s (generation %s)", s.res.Describe(), s.info.Generation)
	return nil
}

// swap installs doc as the current document. s.mu must be held.
func (s *Store) swap(doc *etree.Document) {
	now := time.Now()
	s.doc = doc
	s.info = Info{
		Generation: uuid.NewString(),
		LoadedAt:   now,
		Source:     s.res.Describe(),
		Loaded:     true,
	}
	s.metrics.loaded(now)
}

func parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if n := len(doc.ChildElements()); n != 1 {
		return nil, fmt.Errorf("document has %d top-level elements", n)
	}
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && !cd.IsWhitespace() {
			return nil, fmt.Errorf("extra content outside the root element")
		}
	}
	return doc, nil
}

func emptyDocument(root string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	parent := &doc.Element
	for _, name := range strings.Split(strings.Trim(root, "/"), "/") {
		if name == "" {
			continue
		}
		parent = parent.CreateElement(name)
	}
	return doc
}

// textContent concatenates the character data of el and all its
// descendants in document order.
func textContent(el *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return b.String()
}

// setTextContent replaces every child of el with a single text node.
func setTextContent(el *etree.Element, value string) {
	for len(el.Child) > 0 {
		el.RemoveChildAt(0)
	}
	el.SetText(value)
}

func readResult(found bool, err error) string {
	switch {
	case err != nil:
		return ResultError
	case !found:
		return ResultMiss
	default:
		return ResultOK
	}
}
