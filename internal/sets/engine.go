// Package sets implements the membership set engine: named, deduplicated
// collections of note ids kept per user. Categories and favourites are
// structurally identical, so both are instances of the same Engine
// pointed at different collection roots.
package sets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aryarobyy/to-do-list-be/internal/apperr"
	"github.com/aryarobyy/to-do-list-be/internal/store"
)

// ErrEmptyTitle is returned when a raw title is blank after trimming.
var ErrEmptyTitle = errors.New("title is empty")

const usersCollection = "users"

// Engine manages one membership collection ("category" or "favourite")
// under each user's subtree. Mutations rely on the store's atomic
// union/remove operators; there is no client-side locking. The engine
// trusts caller-supplied note ids and does not validate them against the
// notes collection.
type Engine struct {
	st         store.Store
	collection string
}

// NewEngine returns an engine over the given collection root.
func NewEngine(st store.Store, collection string) *Engine {
	return &Engine{st: st, collection: collection}
}

func (e *Engine) setPath(ownerID, title string) string {
	return usersCollection + "/" + ownerID + "/" + e.collection + "/" + title
}

func (e *Engine) ownerExists(ctx context.Context, ownerID string) error {
	if _, err := e.st.Get(ctx, usersCollection+"/"+ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("owner %q: %w", ownerID, apperr.ErrUnknownOwner)
		}
		return fmt.Errorf("check owner: %w", err)
	}
	return nil
}

// CreateOrMerge unions noteIDs into the set stored under the normalized
// title, creating the document on first write. An empty noteIDs list is
// a valid no-op merge that still touches updatedAt.
func (e *Engine) CreateOrMerge(ctx context.Context, ownerID, rawTitle string, noteIDs []string) (map[string]any, error) {
	if strings.TrimSpace(rawTitle) == "" {
		return nil, ErrEmptyTitle
	}
	if err := e.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}

	title := NormalizeTitle(rawTitle)
	path := e.setPath(ownerID, title)

	exists := true
	if _, err := e.st.Get(ctx, path); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get set: %w", err)
		}
		exists = false
	}

	data := map[string]any{
		"title":     title,
		"updatedAt": store.ServerTimestamp,
	}
	if !exists {
		data["createdAt"] = store.ServerTimestamp
	}
	if len(noteIDs) > 0 {
		data["noteId"] = store.ArrayUnion(noteIDs...)
	}
	if err := e.st.Set(ctx, path, data, true); err != nil {
		return nil, fmt.Errorf("merge set: %w", err)
	}

	return e.fetch(ctx, path, title)
}

// UpdateMembership applies add as a set-union and remove as a
// set-difference against the noteId field. The union is issued before
// the difference, so an id present in both lists ends up absent. Legacy
// documents created without a noteId field get it initialized before the
// first union.
func (e *Engine) UpdateMembership(ctx context.Context, ownerID, rawTitle string, add, remove []string) (map[string]any, error) {
	title := NormalizeTitle(rawTitle)
	path := e.setPath(ownerID, title)

	doc, err := e.st.Get(ctx, path)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("set %q: %w", title, apperr.ErrSetNotFound)
		}
		return nil, fmt.Errorf("get set: %w", err)
	}

	if len(add) > 0 && doc["noteId"] == nil {
		if err := e.st.Update(ctx, path, map[string]any{"noteId": []string{}}); err != nil {
			return nil, fmt.Errorf("init noteId: %w", err)
		}
	}

	first := map[string]any{"updatedAt": store.ServerTimestamp}
	if len(add) > 0 {
		first["noteId"] = store.ArrayUnion(add...)
	}
	if err := e.st.Update(ctx, path, first); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	if len(remove) > 0 {
		if err := e.st.Update(ctx, path, map[string]any{"noteId": store.ArrayRemove(remove...)}); err != nil {
			return nil, fmt.Errorf("remove members: %w", err)
		}
	}

	return e.fetch(ctx, path, title)
}

// Rename moves the set to the new normalized title: all fields except
// the key are copied, updatedAt is stamped, then the old key is deleted.
// An existing document at the new title is overwritten. The two storage
// operations are not transactional; a failure between them leaves both
// documents present.
func (e *Engine) Rename(ctx context.Context, ownerID, oldRawTitle, newRawTitle string) (map[string]any, error) {
	if strings.TrimSpace(oldRawTitle) == "" || strings.TrimSpace(newRawTitle) == "" {
		return nil, ErrEmptyTitle
	}

	oldTitle := NormalizeTitle(oldRawTitle)
	newTitle := NormalizeTitle(newRawTitle)
	oldPath := e.setPath(ownerID, oldTitle)
	newPath := e.setPath(ownerID, newTitle)

	doc, err := e.st.Get(ctx, oldPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("set %q: %w", oldTitle, apperr.ErrSetNotFound)
		}
		return nil, fmt.Errorf("get set: %w", err)
	}

	doc["title"] = newTitle
	doc["updatedAt"] = store.ServerTimestamp
	if err := e.st.Set(ctx, newPath, doc, false); err != nil {
		return nil, fmt.Errorf("copy set: %w", err)
	}
	if err := e.st.Delete(ctx, oldPath); err != nil {
		return nil, fmt.Errorf("delete old set: %w", err)
	}

	return e.fetch(ctx, newPath, newTitle)
}

// GetByTitle returns the set stored under the normalized title with its
// key re-attached as title/id.
func (e *Engine) GetByTitle(ctx context.Context, ownerID, rawTitle string) (map[string]any, error) {
	if err := e.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}
	title := NormalizeTitle(rawTitle)
	doc, err := e.st.Get(ctx, e.setPath(ownerID, title))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("set %q: %w", title, apperr.ErrSetNotFound)
		}
		return nil, fmt.Errorf("get set: %w", err)
	}
	return annotate(doc, title), nil
}

// ListAll returns every set document under the owner.
func (e *Engine) ListAll(ctx context.Context, ownerID string) ([]map[string]any, error) {
	if err := e.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}
	docs, err := e.st.List(ctx, usersCollection+"/"+ownerID+"/"+e.collection)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, annotate(d.Data, d.ID))
	}
	return out, nil
}

func (e *Engine) fetch(ctx context.Context, path, title string) (map[string]any, error) {
	doc, err := e.st.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read back set: %w", err)
	}
	return annotate(doc, title), nil
}

func annotate(doc map[string]any, key string) map[string]any {
	doc["title"] = key
	doc["id"] = key
	return doc
}
