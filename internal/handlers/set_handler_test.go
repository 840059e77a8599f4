package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryarobyy/to-do-list-be/internal/sets"
	"github.com/aryarobyy/to-do-list-be/internal/store/storetest"
	"github.com/aryarobyy/to-do-list-be/pkg/logger"
)

func setupSetRouter(t *testing.T) (*gin.Engine, *storetest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := storetest.New()
	st.Seed("users/u1", map[string]any{"id": "u1", "email": "u1@example.com"})

	h := NewSetHandler(sets.NewEngine(st, "category"), "Category", logger.Nop())
	router := gin.New()
	router.POST("/category/", h.Create)
	router.GET("/category/:creatorId", h.List)
	router.PUT("/category/", h.Update)
	router.PUT("/category/title", h.Rename)
	router.POST("/category/title", h.GetByTitle)
	return router, st
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSetHandlerCreate(t *testing.T) {
	router, _ := setupSetRouter(t)

	w := doJSON(t, router, http.MethodPost, "/category/", gin.H{
		"creatorId": "u1",
		"title":     "daily tasks",
		"noteId":    []string{"n1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Category saved successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Daily Tasks", data["title"])
}

func TestSetHandlerCreateRejectsMissingFields(t *testing.T) {
	router, _ := setupSetRouter(t)

	w := doJSON(t, router, http.MethodPost, "/category/", gin.H{"creatorId": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetHandlerUnknownOwnerMapsTo404(t *testing.T) {
	router, _ := setupSetRouter(t)

	w := doJSON(t, router, http.MethodPost, "/category/", gin.H{
		"creatorId": "ghost",
		"title":     "work",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_OWNER", decodeBody(t, w)["code"])
}

func TestSetHandlerUpdateMembership(t *testing.T) {
	router, _ := setupSetRouter(t)

	w := doJSON(t, router, http.MethodPost, "/category/", gin.H{
		"creatorId": "u1",
		"title":     "work",
		"noteId":    []string{"n1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/category/", gin.H{
		"creatorId":    "u1",
		"title":        "work",
		"addNoteId":    []string{"n2"},
		"removeNoteId": []string{"n1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, []any{"n2"}, data["noteId"])
}

func TestSetHandlerUpdateUnknownSetMapsTo404(t *testing.T) {
	router, _ := setupSetRouter(t)

	w := doJSON(t, router, http.MethodPut, "/category/", gin.H{
		"creatorId": "u1",
		"title":     "missing",
		"addNoteId": []string{"n1"},
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SET_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestSetHandlerRename(t *testing.T) {
	router, st := setupSetRouter(t)

	w := doJSON(t, router, http.MethodPost, "/category/", gin.H{
		"creatorId": "u1",
		"title":     "work",
		"noteId":    []string{"n1"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/category/title", gin.H{
		"creatorId": "u1",
		"oldTitle":  "work",
		"newTitle":  "projects",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "Projects", data["title"])

	_, err := st.Get(context.Background(), "users/u1/category/Work")
	assert.Error(t, err, "old key must be gone after rename")
}

func TestSetHandlerListAndGetByTitle(t *testing.T) {
	router, _ := setupSetRouter(t)

	for _, title := range []string{"work", "home"} {
		w := doJSON(t, router, http.MethodPost, "/category/", gin.H{
			"creatorId": "u1",
			"title":     title,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/category/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["data"].([]any)
	assert.Len(t, list, 2)

	w = doJSON(t, router, http.MethodPost, "/category/title", gin.H{
		"creatorId": "u1",
		"title":     "WORK",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "Work", data["title"])
}
