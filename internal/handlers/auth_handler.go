package handlers

import (
	"net/http"

	"delego_backend/internal/auth"
	"delego_backend/internal/middleware"
	"delego_backend/internal/services"
	"delego_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	tokens      *auth.TokenManager
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		tokens:      tokens,
	}
}

// RegisterRoutes registers authentication routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}

	me := rg.Group("/auth")
	me.Use(middleware.AuthMiddleware(h.tokens))
	{
		me.GET("/me", h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.Register(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"user": dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	response, err := h.authService.Login(db, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Browser clients use the cookie; API clients the token field.
	c.SetCookie("access_token", response.Token, int(h.tokens.TTL().Seconds()), "/", "", false, true)

	c.JSON(http.StatusOK, response)
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully logged out",
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	user, err := h.authService.GetUser(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
	})
}
