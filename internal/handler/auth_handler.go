package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dex-sniper/internal/middleware"
	"github.com/dex-sniper/internal/service"
	"github.com/dex-sniper/pkg/response"
)

// AuthHandler handles operator account API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an operator account. The first account becomes the
// bot's admin, later ones start as observers.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	operator, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.BadRequest(c, "username already taken")
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "email already taken")
			return
		}
		response.InternalError(c, "failed to register operator")
		return
	}

	response.Created(c, gin.H{
		"id":       operator.ID,
		"username": operator.Username,
		"email":    operator.Email,
		"role":     operator.Role,
	})
}

// Login handles operator login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, token)
}

// RefreshToken handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.RefreshToken(req.Token)
	if err != nil {
		response.Unauthorized(c, "invalid or expired token")
		return
	}

	response.Success(c, token)
}

// Me returns the authenticated operator's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	operator, err := h.authService.GetOperatorByID(middleware.OperatorID(c))
	if err != nil {
		response.NotFound(c, "operator not found")
		return
	}
	response.Success(c, operator)
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
	}
}

// RegisterProtectedRoutes registers auth routes that need a valid token
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}
