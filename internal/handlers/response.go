package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aryarobyy/to-do-list-be/internal/apperr"
	"github.com/aryarobyy/to-do-list-be/internal/realtime"
	"github.com/aryarobyy/to-do-list-be/internal/sets"
	"github.com/aryarobyy/to-do-list-be/internal/store"
	"github.com/aryarobyy/to-do-list-be/internal/users"
)

func successRes(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"message": message, "data": data})
}

func errorRes(c *gin.Context, err error) {
	status, code := classify(err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// classify maps a failure onto its HTTP status and stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrMissingCreator):
		return http.StatusBadRequest, "MISSING_CREATOR"
	case errors.Is(err, apperr.ErrInvalidTags):
		return http.StatusBadRequest, "INVALID_TAGS"
	case errors.Is(err, sets.ErrEmptyTitle):
		return http.StatusBadRequest, "EMPTY_TITLE"
	case errors.Is(err, users.ErrMissingCredentials):
		return http.StatusBadRequest, "MISSING_CREDENTIALS"
	case errors.Is(err, users.ErrInvalidEmail):
		return http.StatusBadRequest, "INVALID_EMAIL"
	case errors.Is(err, users.ErrEmailExists):
		return http.StatusBadRequest, "EMAIL_EXISTS"
	case errors.Is(err, apperr.ErrUnknownOwner):
		return http.StatusNotFound, "UNKNOWN_OWNER"
	case errors.Is(err, apperr.ErrSetNotFound):
		return http.StatusNotFound, "SET_NOT_FOUND"
	case errors.Is(err, apperr.ErrNoteNotFound):
		return http.StatusNotFound, "NOTE_NOT_FOUND"
	case errors.Is(err, realtime.ErrConnectionClosed):
		return http.StatusGone, "CONNECTION_CLOSED"
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusInternalServerError, "STORE_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
