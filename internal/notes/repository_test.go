package notes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryarobyy/to-do-list-be/internal/apperr"
	"github.com/aryarobyy/to-do-list-be/internal/models"
	"github.com/aryarobyy/to-do-list-be/internal/store/storetest"
)

const owner = "u1"

func newRepo(t *testing.T) (*Repository, *storetest.Store) {
	t.Helper()
	st := storetest.New()
	st.Seed("users/"+owner, map[string]any{"id": owner, "email": "u1@example.com"})
	return NewRepository(st), st
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesFields(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	note, err := r.Create(ctx, owner, CreateInput{
		Title:  "groceries",
		Status: "bogus",
		Tags:   []string{"urgent", "Home"},
		SubTasks: []models.SubTask{
			{Text: "milk"},
			{Text: "bread", IsDone: true, IsBold: true},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, note["id"])
	assert.Equal(t, owner, note["creatorId"])
	assert.Equal(t, "ACTIVE", note["status"], "unknown status falls back to active")
	assert.Equal(t, []string{"URGENT", "HOME"}, note["tags"])
	assert.IsType(t, time.Time{}, note["createdAt"])
	assert.IsType(t, time.Time{}, note["updatedAt"])

	subTasks, ok := note["subTasks"].([]map[string]any)
	require.True(t, ok, "subTasks should be a slice of maps, got %T", note["subTasks"])
	require.Len(t, subTasks, 2)
	assert.Equal(t, map[string]any{"text": "milk", "isDone": false, "isBold": false}, subTasks[0])
	assert.Equal(t, map[string]any{"text": "bread", "isDone": true, "isBold": true}, subTasks[1])
}

func TestCreateDefaultsEmptyCollections(t *testing.T) {
	r, _ := newRepo(t)

	note, err := r.Create(context.Background(), owner, CreateInput{Title: "bare"})
	require.NoError(t, err)

	assert.Equal(t, []string{}, note["tags"])
	assert.Equal(t, []map[string]any{}, note["subTasks"])
	assert.Equal(t, "ACTIVE", note["status"])
}

func TestCreateKeepsDeactiveStatus(t *testing.T) {
	r, _ := newRepo(t)

	note, err := r.Create(context.Background(), owner, CreateInput{Status: "DEACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, "DEACTIVE", note["status"])
}

func TestCreateUnknownOwner(t *testing.T) {
	r, _ := newRepo(t)
	_, err := r.Create(context.Background(), "ghost", CreateInput{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrUnknownOwner)
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	a, err := r.Create(ctx, owner, CreateInput{Title: "a"})
	require.NoError(t, err)
	b, err := r.Create(ctx, owner, CreateInput{Title: "b"})
	require.NoError(t, err)
	assert.NotEqual(t, a["id"], b["id"])
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	note, err := r.Create(ctx, owner, CreateInput{
		Title:   "original",
		Content: "body",
		Tags:    []string{"work"},
	})
	require.NoError(t, err)
	id := note["id"].(string)
	createdUpdatedAt := note["updatedAt"].(time.Time)

	updated, err := r.Update(ctx, owner, id, UpdateInput{
		Content: strPtr(""),
		Status:  strPtr("DEACTIVE"),
	})
	require.NoError(t, err)

	assert.Equal(t, "original", updated["title"], "absent field must be untouched")
	assert.Equal(t, "", updated["content"], "explicit zero value must be applied")
	assert.Equal(t, "DEACTIVE", updated["status"])
	assert.Equal(t, []string{"WORK"}, updated["tags"])
	assert.NotEqual(t, createdUpdatedAt, updated["updatedAt"], "updatedAt must be refreshed")
}

func TestUpdateNormalizesTagsAndStatus(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	note, err := r.Create(ctx, owner, CreateInput{Title: "n"})
	require.NoError(t, err)
	id := note["id"].(string)

	tags := []string{"new", "Tags"}
	updated, err := r.Update(ctx, owner, id, UpdateInput{
		Tags:   &tags,
		Status: strPtr("not-a-status"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "TAGS"}, updated["tags"])
	assert.Equal(t, "ACTIVE", updated["status"])
}

func TestUpdateErrors(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	_, err := r.Update(ctx, "", "any", UpdateInput{})
	assert.ErrorIs(t, err, apperr.ErrMissingCreator)

	_, err = r.Update(ctx, "ghost", "any", UpdateInput{})
	assert.ErrorIs(t, err, apperr.ErrUnknownOwner)

	_, err = r.Update(ctx, owner, "missing-note", UpdateInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNoteNotFound)
}

func TestGetByID(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	note, err := r.Create(ctx, owner, CreateInput{Title: "find me"})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, owner, note["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, "find me", got["title"])

	_, err = r.GetByID(ctx, owner, "missing")
	assert.ErrorIs(t, err, apperr.ErrNoteNotFound)

	_, err = r.GetByID(ctx, "ghost", "missing")
	assert.ErrorIs(t, err, apperr.ErrUnknownOwner)
}

func TestListByOwner(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, owner, CreateInput{Title: "a"})
	require.NoError(t, err)
	_, err = r.Create(ctx, owner, CreateInput{Title: "b"})
	require.NoError(t, err)

	list, err := r.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.NotEmpty(t, n["id"])
	}

	empty, err := r.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListByTagsMatchesAnyTag(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	_, err := r.Create(ctx, owner, CreateInput{Title: "a", Tags: []string{"work", "urgent"}})
	require.NoError(t, err)
	_, err = r.Create(ctx, owner, CreateInput{Title: "b", Tags: []string{"home"}})
	require.NoError(t, err)
	_, err = r.Create(ctx, owner, CreateInput{Title: "c"})
	require.NoError(t, err)

	// The filter is case-insensitive against the stored upper-cased tags.
	list, err := r.ListByTags(ctx, owner, []string{"urgent", "home"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	titles := []string{list[0]["title"].(string), list[1]["title"].(string)}
	assert.ElementsMatch(t, []string{"a", "b"}, titles)

	none, err := r.ListByTags(ctx, owner, []string{"nothing"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByTagsErrors(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	_, err := r.ListByTags(ctx, owner, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidTags)

	_, err = r.ListByTags(ctx, "ghost", []string{"work"})
	assert.ErrorIs(t, err, apperr.ErrUnknownOwner)
}

func TestDeleteIsSilentForMissingNotes(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	note, err := r.Create(ctx, owner, CreateInput{Title: "doomed"})
	require.NoError(t, err)
	id := note["id"].(string)

	require.NoError(t, r.Delete(ctx, owner, id))
	_, err = r.GetByID(ctx, owner, id)
	assert.ErrorIs(t, err, apperr.ErrNoteNotFound)

	// Deleting again is not an error.
	assert.NoError(t, r.Delete(ctx, owner, id))

	assert.ErrorIs(t, r.Delete(ctx, "ghost", id), apperr.ErrUnknownOwner)
}
