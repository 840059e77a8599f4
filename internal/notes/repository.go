// Package notes implements the canonical note lifecycle: creation with
// field normalization, presence-based partial update, lookup, listing
// and deletion. Other components treat note ids as opaque strings; no
// foreign-key enforcement happens here.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aryarobyy/to-do-list-be/internal/apperr"
	"github.com/aryarobyy/to-do-list-be/internal/models"
	"github.com/aryarobyy/to-do-list-be/internal/store"
)

const usersCollection = "users"

// Repository stores per-user note documents under
// users/{ownerId}/notes/{noteId}.
type Repository struct {
	st store.Store
}

// NewRepository returns a repository over the given store.
func NewRepository(st store.Store) *Repository {
	return &Repository{st: st}
}

// CreateInput carries the fields accepted on note creation. Tags and
// subtasks may be nil; they normalize to empty arrays.
type CreateInput struct {
	Title    string
	Content  string
	Schedule string
	Status   string
	Tags     []string
	SubTasks []models.SubTask
}

// UpdateInput carries a partial update. Only non-nil fields are applied:
// an explicit zero value is a valid update, an absent field is a skip.
type UpdateInput struct {
	Title    *string
	Content  *string
	Schedule *string
	Status   *string
	Tags     *[]string
	SubTasks *[]models.SubTask
}

func notePath(ownerID, noteID string) string {
	return usersCollection + "/" + ownerID + "/notes/" + noteID
}

func (r *Repository) ownerExists(ctx context.Context, ownerID string) error {
	if _, err := r.st.Get(ctx, usersCollection+"/"+ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("owner %q: %w", ownerID, apperr.ErrUnknownOwner)
		}
		return fmt.Errorf("check owner: %w", err)
	}
	return nil
}

// Create stores a new note with a fresh random id, normalized tags,
// defaulted subtasks and a validated status, stamped with the store's
// server time. Returns the full stored document.
func (r *Repository) Create(ctx context.Context, ownerID string, in CreateInput) (map[string]any, error) {
	if err := r.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	data := map[string]any{
		"id":        id,
		"creatorId": ownerID,
		"title":     in.Title,
		"content":   in.Content,
		"schedule":  in.Schedule,
		"status":    string(models.ParseStatus(in.Status)),
		"tags":      normalizeTags(in.Tags),
		"subTasks":  normalizeSubTasks(in.SubTasks),
		"createdAt": store.ServerTimestamp,
		"updatedAt": store.ServerTimestamp,
	}
	if err := r.st.Set(ctx, notePath(ownerID, id), data, false); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	stored, err := r.st.Get(ctx, notePath(ownerID, id))
	if err != nil {
		return nil, fmt.Errorf("read back note: %w", err)
	}
	return stored, nil
}

// Update applies the fields present in the input and refreshes
// updatedAt. The target note must exist; updating a nonexistent id
// surfaces ErrNoteNotFound rather than creating a partial document.
func (r *Repository) Update(ctx context.Context, ownerID, noteID string, in UpdateInput) (map[string]any, error) {
	if ownerID == "" {
		return nil, apperr.ErrMissingCreator
	}
	if err := r.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}

	path := notePath(ownerID, noteID)
	if _, err := r.st.Get(ctx, path); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("note %q: %w", noteID, apperr.ErrNoteNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	data := map[string]any{"updatedAt": store.ServerTimestamp}
	if in.Title != nil {
		data["title"] = *in.Title
	}
	if in.Content != nil {
		data["content"] = *in.Content
	}
	if in.Schedule != nil {
		data["schedule"] = *in.Schedule
	}
	if in.Status != nil {
		data["status"] = string(models.ParseStatus(*in.Status))
	}
	if in.Tags != nil {
		data["tags"] = normalizeTags(*in.Tags)
	}
	if in.SubTasks != nil {
		data["subTasks"] = normalizeSubTasks(*in.SubTasks)
	}
	if err := r.st.Update(ctx, path, data); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	stored, err := r.st.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read back note: %w", err)
	}
	return stored, nil
}

// GetByID returns the note under the owner/id pair.
func (r *Repository) GetByID(ctx context.Context, ownerID, noteID string) (map[string]any, error) {
	if err := r.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}
	doc, err := r.st.Get(ctx, notePath(ownerID, noteID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("note %q: %w", noteID, apperr.ErrNoteNotFound)
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return doc, nil
}

// ListByOwner returns every note under the owner, each annotated with
// its key as id.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]map[string]any, error) {
	docs, err := r.st.List(ctx, usersCollection+"/"+ownerID+"/notes")
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		d.Data["id"] = d.ID
		out = append(out, d.Data)
	}
	return out, nil
}

// ListByTags returns notes whose tag set intersects the supplied list
// (logical OR across tags). The filter is upper-cased to match the
// stored form.
func (r *Repository) ListByTags(ctx context.Context, ownerID string, tags []string) ([]map[string]any, error) {
	if len(tags) == 0 {
		return nil, apperr.ErrInvalidTags
	}
	if err := r.ownerExists(ctx, ownerID); err != nil {
		return nil, err
	}
	docs, err := r.st.Query(ctx, usersCollection+"/"+ownerID+"/notes", "tags", "array-contains-any", normalizeTags(tags))
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		d.Data["id"] = d.ID
		out = append(out, d.Data)
	}
	return out, nil
}

// Delete removes the note unconditionally; deleting a nonexistent note
// succeeds silently.
func (r *Repository) Delete(ctx context.Context, ownerID, noteID string) error {
	if err := r.ownerExists(ctx, ownerID); err != nil {
		return err
	}
	if err := r.st.Delete(ctx, notePath(ownerID, noteID)); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.ToUpper(t))
	}
	return out
}

func normalizeSubTasks(tasks []models.SubTask) []map[string]any {
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, map[string]any{
			"text":   t.Text,
			"isDone": t.IsDone,
			"isBold": t.IsBold,
		})
	}
	return out
}
