package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/apperr"
	"tasktracker/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GET /users — the authenticated user's own profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := getUserID(c)

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondFail(c, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("[user][getMe][err] id=%d: %v", userID, err)
		respondServerError(c)
		return
	}
	respondSuccess(c, http.StatusOK, user, "User retrieved successfully")
}

// DELETE /users — delete the authenticated user's own account.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID := getUserID(c)

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondFail(c, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("[user][deleteMe][err] id=%d: %v", userID, err)
		respondServerError(c)
		return
	}
	log.Printf("[user][deleteMe][ok] id=%d", userID)
	respondSuccess(c, http.StatusOK, nil, "User deleted successfully")
}
