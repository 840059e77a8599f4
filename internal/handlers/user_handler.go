package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aryarobyy/to-do-list-be/internal/users"
	"github.com/aryarobyy/to-do-list-be/pkg/logger"
)

// UserHandler exposes the user service over HTTP.
type UserHandler struct {
	svc *users.Service
	log *logger.Logger
}

// NewUserHandler wires the user service.
func NewUserHandler(svc *users.Service, log *logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// RegisterPayload defines the expected JSON for registration.
type RegisterPayload struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Image      string `json:"img_url"`
	LastActive string `json:"last_active"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), users.RegisterInput{
		Email:      payload.Email,
		Password:   payload.Password,
		Name:       payload.Name,
		Username:   payload.Username,
		Image:      payload.Image,
		LastActive: payload.LastActive,
	})
	if err != nil {
		h.log.Error(c.Request.Context(), "register failed", zap.Error(err))
		errorRes(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "data": user, "token": token})
}

// LoginPayload defines the expected JSON for login.
type LoginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		h.log.Warn(c.Request.Context(), "login failed", zap.Error(err))
		errorRes(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "data": user, "token": token})
}

// UpdateUserPayload defines the mutable profile fields.
type UpdateUserPayload struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Image    *string `json:"img_url"`
}

func (h *UserHandler) Update(c *gin.Context) {
	var payload UpdateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	user, err := h.svc.Update(c.Request.Context(), c.Param("id"), users.UpdateInput{
		Name:     payload.Name,
		Username: payload.Username,
		Image:    payload.Image,
	})
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, user, "User update successful")
}

func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, user, "Getting user successful")
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	matches, err := h.svc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, matches, "Getting user successful")
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	matches, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, matches, "Getting user successful")
}

// LogoutPayload identifies the account to log out.
type LogoutPayload struct {
	ID string `json:"id" binding:"required"`
}

func (h *UserHandler) Logout(c *gin.Context) {
	var payload LogoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), payload.ID); err != nil {
		errorRes(c, err)
		return
	}
	successRes(c, http.StatusOK, gin.H{"id": payload.ID}, "Logout successful")
}
