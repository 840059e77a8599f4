package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore adapts a Cloud Firestore client to the Store port.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an initialized Firestore client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) Get(ctx context.Context, path string) (map[string]any, error) {
	snap, err := f.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, unavailable("get "+path, err)
	}
	return snap.Data(), nil
}

func (f *Firestore) Set(ctx context.Context, path string, data map[string]any, merge bool) error {
	ref := f.client.Doc(path)
	var err error
	if merge {
		_, err = ref.Set(ctx, toFirestore(data), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, toFirestore(data))
	}
	if err != nil {
		return unavailable("set "+path, err)
	}
	return nil
}

func (f *Firestore) Update(ctx context.Context, path string, data map[string]any) error {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		updates = append(updates, firestore.Update{Path: k, Value: fieldValue(v)})
	}
	if _, err := f.client.Doc(path).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return unavailable("update "+path, err)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, path string) error {
	if _, err := f.client.Doc(path).Delete(ctx); err != nil {
		return unavailable("delete "+path, err)
	}
	return nil
}

func (f *Firestore) List(ctx context.Context, collection string) ([]Doc, error) {
	return f.collect(f.client.Collection(collection).Documents(ctx), collection)
}

func (f *Firestore) Query(ctx context.Context, collection, field, op string, value any) ([]Doc, error) {
	it := f.client.Collection(collection).Where(field, op, value).Documents(ctx)
	return f.collect(it, collection)
}

func (f *Firestore) collect(it *firestore.DocumentIterator, collection string) ([]Doc, error) {
	defer it.Stop()
	var docs []Doc
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, unavailable("list "+collection, err)
		}
		docs = append(docs, Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
}

func (f *Firestore) Watch(ctx context.Context, path string, fn func(Snapshot)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := f.client.Doc(path).Snapshots(ctx)
	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				// Canceled or stream failure; the watch is dead either way.
				return
			}
			if !snap.Exists() {
				fn(Snapshot{})
				continue
			}
			fn(Snapshot{Exists: true, Data: snap.Data()})
		}
	}()
	return cancel, nil
}

// toFirestore rewrites the port's operator values into their Firestore
// counterparts.
func toFirestore(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = fieldValue(v)
	}
	return out
}

func fieldValue(v any) any {
	switch t := v.(type) {
	case Sentinel:
		return firestore.ServerTimestamp
	case Union:
		return firestore.ArrayUnion(anySlice(t.Values)...)
	case Remove:
		return firestore.ArrayRemove(anySlice(t.Values)...)
	default:
		return v
	}
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
