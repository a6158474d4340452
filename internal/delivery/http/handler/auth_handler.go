package handler

import (
	"net/http"

	"github.com/gdugdh24/collabswipe-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/session"
	"github.com/gdugdh24/collabswipe-backend/internal/usecase/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// MeResponse describes the signed-in user and their onboarding state
type MeResponse struct {
	User       *domain.User    `json:"user"`
	Profile    *domain.Profile `json:"profile"`
	HasProfile bool            `json:"has_profile"`
	Onboarded  bool            `json:"is_onboarding_complete"`
}

// SignUp handles account registration
// @Summary Sign up
// @Description Create an account with email and password and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.Credentials true "Email and password"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.authUseCase.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "sign up failed")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// SignIn handles password sign-in
// @Summary Sign in
// @Description Verify credentials and start a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.Credentials true "Email and password"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.authUseCase.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "sign in failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SignOut handles user logout
// @Summary Sign out
// @Description Invalidate the current session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	token, ok := middleware.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "missing authorization token",
		})
		return
	}

	if err := h.authUseCase.SignOut(c.Request.Context(), token); err != nil {
		respondError(c, err, "sign out failed")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "signed out successfully",
	})
}

// Me returns current user info
// @Summary Get current user
// @Description Get authenticated user and onboarding state
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	st, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return
	}

	user, err := h.authUseCase.GetUser(c.Request.Context(), st.UserID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:       user,
		Profile:    st.Profile,
		HasProfile: st.HasProfile,
		Onboarded:  st.Onboarded,
	})
}
