package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmind/backend/internal/service"
)

// ProfileHandler exposes the stored meal profile for the
// authenticated user
type ProfileHandler struct {
	profiles service.IProfileService
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(profiles service.IProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile returns the caller's profile, or 404 while collection has
// not completed yet.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if errors.Is(err, service.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		log.Printf("failed to load profile for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
