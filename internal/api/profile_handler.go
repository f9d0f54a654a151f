package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler serves the caller's own account.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *zap.Logger
}

func NewProfileHandler(profileService service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

type ReplaceProfileRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
}

type PatchProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=1,max=150"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /users/profile/ [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// ReplaceProfile handles PUT; both fields are required.
func (h *ProfileHandler) ReplaceProfile(c *gin.Context) {
	var req ReplaceProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.update(c, domain.ProfileUpdate{Username: &req.Username, Email: &req.Email})
}

// PatchProfile handles PATCH; absent fields are kept.
func (h *ProfileHandler) PatchProfile(c *gin.Context) {
	var req PatchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.update(c, domain.ProfileUpdate{Username: req.Username, Email: req.Email})
}

func (h *ProfileHandler) update(c *gin.Context, update domain.ProfileUpdate) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.profileService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
