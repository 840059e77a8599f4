package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aryarobyy/to-do-list-be/internal/models"
	"github.com/aryarobyy/to-do-list-be/internal/notes"
	"github.com/aryarobyy/to-do-list-be/pkg/logger"
)

// NoteHandler exposes the note repository over HTTP.
type NoteHandler struct {
	repo *notes.Repository
	log  *logger.Logger
}

// NewNoteHandler wires the note repository.
func NewNoteHandler(repo *notes.Repository, log *logger.Logger) *NoteHandler {
	return &NoteHandler{repo: repo, log: log}
}

// CreateNotePayload defines the expected JSON for creating a note.
type CreateNotePayload struct {
	CreatedBy string           `json:"createdBy" binding:"required"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Schedule  string           `json:"schedule"`
	Status    string           `json:"status"`
	Tags      []string         `json:"tags"`
	SubTasks  []models.SubTask `json:"subTasks"`
}

func (h *NoteHandler) Create(c *gin.Context) {
	var payload CreateNotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	note, err := h.repo.Create(c.Request.Context(), payload.CreatedBy, notes.CreateInput{
		Title:    payload.Title,
		Content:  payload.Content,
		Schedule: payload.Schedule,
		Status:   payload.Status,
		Tags:     payload.Tags,
		SubTasks: payload.SubTasks,
	})
	if err != nil {
		h.log.Error(c.Request.Context(), "create note failed", zap.Error(err))
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, note, "Note created successfully")
}

// UpdateNotePayload defines a partial note update. Pointer fields
// distinguish "absent" from an explicit zero value.
type UpdateNotePayload struct {
	CreatedBy string            `json:"createdBy"`
	Title     *string           `json:"title"`
	Content   *string           `json:"content"`
	Schedule  *string           `json:"schedule"`
	Status    *string           `json:"status"`
	Tags      *[]string         `json:"tags"`
	SubTasks  *[]models.SubTask `json:"subTasks"`
}

func (h *NoteHandler) Update(c *gin.Context) {
	var payload UpdateNotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	note, err := h.repo.Update(c.Request.Context(), payload.CreatedBy, c.Param("noteId"), notes.UpdateInput{
		Title:    payload.Title,
		Content:  payload.Content,
		Schedule: payload.Schedule,
		Status:   payload.Status,
		Tags:     payload.Tags,
		SubTasks: payload.SubTasks,
	})
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, note, "Note updated successfully")
}

func (h *NoteHandler) GetByID(c *gin.Context) {
	note, err := h.repo.GetByID(c.Request.Context(), c.Param("creatorId"), c.Param("noteId"))
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, note, "Getting note successful")
}

func (h *NoteHandler) ListByCreator(c *gin.Context) {
	list, err := h.repo.ListByOwner(c.Request.Context(), c.Param("creatorId"))
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, list, "Getting notes successful")
}

// TagsPayload carries the tag filter for ListByTags.
type TagsPayload struct {
	Tags []string `json:"tags"`
}

func (h *NoteHandler) ListByTags(c *gin.Context) {
	var payload TagsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	list, err := h.repo.ListByTags(c.Request.Context(), c.Param("creatorId"), payload.Tags)
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, list, "Getting notes successful")
}

func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("creatorId"), c.Param("noteId")); err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, gin.H{"id": c.Param("noteId")}, "Note deleted successfully")
}
