// Package storetest provides an in-memory Store implementation for
// package tests. It mirrors the store contract the engines rely on:
// merge-or-replace sets, atomic array union/remove, server timestamps,
// and per-document watch callbacks that receive the current snapshot on
// registration and one snapshot per subsequent write.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aryarobyy/to-do-list-be/internal/store"
)

type watcher struct {
	path string
	fn   func(store.Snapshot)
}

// Store is an in-memory document tree.
type Store struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	watchers  map[int]*watcher
	nextWatch int
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		docs:     make(map[string]map[string]any),
		watchers: make(map[int]*watcher),
	}
}

// Seed writes a document without resolving operators or notifying
// watchers. Intended for test setup.
func (s *Store) Seed(path string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = cloneDoc(data)
}

// ActiveWatchCount reports how many watches are currently registered.
func (s *Store) ActiveWatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

func (s *Store) Get(_ context.Context, path string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	return cloneDoc(doc), nil
}

func (s *Store) Set(_ context.Context, path string, data map[string]any, merge bool) error {
	s.mu.Lock()
	cur, ok := s.docs[path]
	if !ok || !merge {
		cur = map[string]any{}
	} else {
		cur = cloneDoc(cur)
	}
	for k, v := range data {
		cur[k] = resolve(cur[k], v)
	}
	s.docs[path] = cur
	fns := s.watchersFor(path)
	snap := store.Snapshot{Exists: true, Data: cloneDoc(cur)}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
	return nil
}

func (s *Store) Update(_ context.Context, path string, data map[string]any) error {
	s.mu.Lock()
	cur, ok := s.docs[path]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", path, store.ErrNotFound)
	}
	cur = cloneDoc(cur)
	for k, v := range data {
		cur[k] = resolve(cur[k], v)
	}
	s.docs[path] = cur
	fns := s.watchersFor(path)
	snap := store.Snapshot{Exists: true, Data: cloneDoc(cur)}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	fns := s.watchersFor(path)
	s.mu.Unlock()

	for _, fn := range fns {
		fn(store.Snapshot{})
	}
	return nil
}

func (s *Store) List(_ context.Context, collection string) ([]store.Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := collection + "/"
	var docs []store.Doc
	for path, data := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.TrimPrefix(path, prefix)
		if strings.Contains(id, "/") {
			continue
		}
		docs = append(docs, store.Doc{ID: id, Data: cloneDoc(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *Store) Query(ctx context.Context, collection, field, op string, value any) ([]store.Doc, error) {
	all, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	var docs []store.Doc
	for _, d := range all {
		if matches(d.Data[field], op, value) {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (s *Store) Watch(_ context.Context, path string, fn func(store.Snapshot)) (func(), error) {
	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = &watcher{path: path, fn: fn}
	doc, ok := s.docs[path]
	snap := store.Snapshot{Exists: ok}
	if ok {
		snap.Data = cloneDoc(doc)
	}
	s.mu.Unlock()

	// Initial snapshot, as the real store delivers on subscribe.
	fn(snap)

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}, nil
}

func (s *Store) watchersFor(path string) []func(store.Snapshot) {
	var fns []func(store.Snapshot)
	for _, w := range s.watchers {
		if w.path == path {
			fns = append(fns, w.fn)
		}
	}
	return fns
}

func matches(field any, op string, value any) bool {
	switch op {
	case "==":
		return field == value
	case "array-contains-any":
		have := stringSlice(field)
		want, _ := value.([]string)
		for _, w := range want {
			for _, h := range have {
				if h == w {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// resolve applies operator values against the current field contents.
func resolve(existing, v any) any {
	switch t := v.(type) {
	case store.Sentinel:
		return time.Now().UTC()
	case store.Union:
		out := stringSlice(existing)
		for _, val := range t.Values {
			if !contains(out, val) {
				out = append(out, val)
			}
		}
		return out
	case store.Remove:
		out := make([]string, 0)
		for _, val := range stringSlice(existing) {
			if !contains(t.Values, val) {
				out = append(out, val)
			}
		}
		return out
	default:
		return v
	}
}

func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func contains(values []string, v string) bool {
	for _, e := range values {
		if e == v {
			return true
		}
	}
	return false
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		switch t := v.(type) {
		case []string:
			if t == nil {
				out[k] = t
			} else {
				out[k] = append(make([]string, 0, len(t)), t...)
			}
		case []any:
			if t == nil {
				out[k] = t
			} else {
				out[k] = append(make([]any, 0, len(t)), t...)
			}
		default:
			out[k] = v
		}
	}
	return out
}
