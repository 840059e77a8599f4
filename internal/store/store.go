// Package store defines the document store port consumed by the engines
// and repositories. Documents live in a strict tree of slash-separated
// paths (users/{userId}/{collection}/{key}) and are addressed as opaque
// field maps. The concrete backend is injected at construction so tests
// can run against an in-memory double.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get and Update when no document exists
	// at the given path.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable wraps any other failure of the underlying store.
	ErrUnavailable = errors.New("store unavailable")
)

// Doc is a document returned from a collection read, keyed by its
// document id.
type Doc struct {
	ID   string
	Data map[string]any
}

// Snapshot is the state of a watched document at notification time.
// Exists is false when the document was deleted.
type Snapshot struct {
	Exists bool
	Data   map[string]any
}

// Sentinel is a write-time placeholder resolved by the store itself.
type Sentinel int

// ServerTimestamp resolves to the store's server-assigned write time.
const ServerTimestamp Sentinel = iota

// Union is an atomic set-union applied to an array field.
type Union struct {
	Values []string
}

// ArrayUnion returns an operator that merges values into an array field,
// deduplicating against its current contents.
func ArrayUnion(values ...string) Union {
	return Union{Values: values}
}

// Remove is an atomic set-difference applied to an array field.
type Remove struct {
	Values []string
}

// ArrayRemove returns an operator that removes values from an array field.
func ArrayRemove(values ...string) Remove {
	return Remove{Values: values}
}

// Store is the narrow surface of the document store used by this backend.
// Field maps passed to Set and Update may contain ServerTimestamp, Union
// and Remove values; everything else is stored as-is.
type Store interface {
	Get(ctx context.Context, path string) (map[string]any, error)
	Set(ctx context.Context, path string, data map[string]any, merge bool) error
	Update(ctx context.Context, path string, data map[string]any) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, collection string) ([]Doc, error)
	Query(ctx context.Context, collection, field, op string, value any) ([]Doc, error)

	// Watch registers a change-notification callback for the document at
	// path. The current snapshot is delivered first, then one snapshot per
	// subsequent change. The returned function tears the watch down; it is
	// safe to call more than once.
	Watch(ctx context.Context, path string, fn func(Snapshot)) (func(), error)
}
