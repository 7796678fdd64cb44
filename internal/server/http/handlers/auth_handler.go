package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/dto"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/server/http/middleware"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/usecase"
)

// AuthHandler processes registration, login, and profile lookup.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), usecase.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		ScoutGroup: req.ScoutGroup,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: token, User: toUserResponse(user)})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid payload"})
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: toUserResponse(user)})
}

// Profile handles GET /api/v1/auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	principal := CurrentPrincipal(c)
	user, err := h.facade.Profile(c.Request.Context(), principal.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
