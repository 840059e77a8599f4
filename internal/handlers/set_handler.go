package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aryarobyy/to-do-list-be/internal/sets"
	"github.com/aryarobyy/to-do-list-be/pkg/logger"
)

// SetHandler exposes one membership set engine over HTTP. The category
// and favourite routes are two instances of this handler over engines
// with different collection roots.
type SetHandler struct {
	engine *sets.Engine
	label  string
	log    *logger.Logger
}

// NewSetHandler wires a membership set engine. The label shows up in
// response messages ("Category", "Favourite").
func NewSetHandler(engine *sets.Engine, label string, log *logger.Logger) *SetHandler {
	return &SetHandler{engine: engine, label: label, log: log}
}

// CreateSetPayload defines the expected JSON for creating or merging a
// set.
type CreateSetPayload struct {
	CreatorID string   `json:"creatorId" binding:"required"`
	Title     string   `json:"title" binding:"required"`
	NoteID    []string `json:"noteId"`
}

func (h *SetHandler) Create(c *gin.Context) {
	var payload CreateSetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	set, err := h.engine.CreateOrMerge(c.Request.Context(), payload.CreatorID, payload.Title, payload.NoteID)
	if err != nil {
		h.log.Error(c.Request.Context(), "save set failed", zap.String("kind", h.label), zap.Error(err))
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, set, h.label+" saved successfully")
}

func (h *SetHandler) List(c *gin.Context) {
	list, err := h.engine.ListAll(c.Request.Context(), c.Param("creatorId"))
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, list, "Getting "+h.label+" successful")
}

// UpdateSetPayload carries membership changes; add is applied before
// remove.
type UpdateSetPayload struct {
	CreatorID    string   `json:"creatorId" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	AddNoteID    []string `json:"addNoteId"`
	RemoveNoteID []string `json:"removeNoteId"`
}

func (h *SetHandler) Update(c *gin.Context) {
	var payload UpdateSetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	set, err := h.engine.UpdateMembership(c.Request.Context(), payload.CreatorID, payload.Title, payload.AddNoteID, payload.RemoveNoteID)
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, set, h.label+" updated successfully")
}

// RenameSetPayload carries a title move.
type RenameSetPayload struct {
	CreatorID string `json:"creatorId" binding:"required"`
	OldTitle  string `json:"oldTitle" binding:"required"`
	NewTitle  string `json:"newTitle" binding:"required"`
}

func (h *SetHandler) Rename(c *gin.Context) {
	var payload RenameSetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	set, err := h.engine.Rename(c.Request.Context(), payload.CreatorID, payload.OldTitle, payload.NewTitle)
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, set, h.label+" renamed successfully")
}

// GetSetPayload identifies a set by owner and title.
type GetSetPayload struct {
	CreatorID string `json:"creatorId" binding:"required"`
	Title     string `json:"title" binding:"required"`
}

func (h *SetHandler) GetByTitle(c *gin.Context) {
	var payload GetSetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	set, err := h.engine.GetByTitle(c.Request.Context(), payload.CreatorID, payload.Title)
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, set, h.label+" retrieved successfully")
}
