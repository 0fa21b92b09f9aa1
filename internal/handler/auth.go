package handler

import (
	"net/http"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body dto.SignupRequest true "Request body"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Router /api/auth/signup [post]
func (h *Handler) authSignup(c *gin.Context) {
	var input dto.SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}

	resp, err := h.services.Auth.Signup(c.Request.Context(), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.metrics.Signups.Inc()

	c.JSON(http.StatusCreated, resp)
}

// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param input body dto.SigninRequest true "Request body"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Router /api/auth/signin [post]
func (h *Handler) authSignin(c *gin.Context) {
	var input dto.SigninRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}

	resp, err := h.services.Auth.Signin(c.Request.Context(), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401,404 {object} dto.MessageResponse
// @Router /api/auth/me [get]
func (h *Handler) authMe(c *gin.Context) {
	identity, ok := h.getIdentityFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	user, err := h.services.Auth.Me(c.Request.Context(), identity.UserID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
