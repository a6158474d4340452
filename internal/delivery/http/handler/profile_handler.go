package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 5 << 20

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Get current user's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} profile.ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.profileUseCase.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateMyProfile handles PUT /profile/me
// @Summary Update my profile
// @Description Update current user's profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateProfileRequest true "Profile update data"
// @Success 200 {object} profile.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.profileUseCase.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CompleteOnboarding handles POST /profile/complete-onboarding
// @Summary Complete onboarding
// @Description Create profile and complete onboarding
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.CreateProfileRequest true "Profile creation data"
// @Success 201 {object} profile.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/complete-onboarding [post]
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req profile.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	resp, err := h.profileUseCase.CreateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to create profile")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// UploadAvatar handles POST /profile/me/avatar
// @Summary Upload avatar
// @Description Upload a JPEG, PNG or WebP avatar (multipart field "file", up to 5 MB)
// @Tags profile
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} profile.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /profile/me/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	upload, ok := readUpload(c)
	if !ok {
		return
	}
	defer upload.body.Close()

	resp, err := h.profileUseCase.UploadAvatar(c.Request.Context(), userID, upload.body, upload.size, upload.contentType)
	if err != nil {
		respondError(c, err, "failed to upload avatar")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfileByUserID handles GET /profile/:user_id
// @Summary Get user profile
// @Description Get another user's profile by user ID
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} profile.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profile/{user_id} [get]
func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	targetUserID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	resp, err := h.profileUseCase.GetProfileByUserID(c.Request.Context(), targetUserID)
	if err != nil {
		respondError(c, err, "failed to get profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateBio handles POST /profile/generate-bio
// @Summary Generate bio with AI
// @Description Suggest 3 bios from the profile and the given overrides
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.GenerateBioRequest false "Overrides"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/generate-bio [post]
func (h *ProfileHandler) GenerateBio(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req profile.GenerateBioRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	bios, err := h.profileUseCase.GenerateBio(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to generate bio")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bios": bios})
}
