package handlers

import (
	"net/http"

	"github.com/blogsystem/blog-api/internal/accounts"
	"github.com/blogsystem/blog-api/internal/config"
	"github.com/blogsystem/blog-api/internal/models"
	"github.com/blogsystem/blog-api/internal/sessions"
	"github.com/blogsystem/blog-api/internal/tokens"
	"github.com/blogsystem/blog-api/pkg/logger"
	"github.com/blogsystem/blog-api/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRequest carries new-account fields
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest carries credential-login fields
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	accountsSvc *accounts.Service
	sessionsSvc *sessions.Service
	verifier    *tokens.Verifier
}

func NewAuthHandler(cfg *config.Config, a *accounts.Service, s *sessions.Service, v *tokens.Verifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, accountsSvc: a, sessionsSvc: s, verifier: v}
}

// Register routes under /api/auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/api/auth")
	a.POST("/register", h.RegisterAccount)
	a.POST("/login", h.Login)
	a.POST("/refresh", h.Refresh)
	a.POST("/logout", h.Logout)
	a.GET("/me", middleware.AuthMiddleware(h.verifier), h.Me)
}

// RegisterAccount creates an account and returns tokens so the new author
// is logged in immediately.
func (h *AuthHandler) RegisterAccount(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.accountsSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if err == accounts.ErrEmailTaken {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
			return
		}
		logger.Errorf("account registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating account"})
		return
	}
	access, refresh, ok := h.issueTokens(c, u)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Account created successfully",
		"user":         u,
		"accessToken":  access,
		"refreshToken": refresh,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Login verifies credentials and returns access + refresh tokens
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	u, err := h.accountsSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == accounts.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}
	access, refresh, ok := h.issueTokens(c, u)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         u,
		"accessToken":  access,
		"refreshToken": refresh,
		"expiresIn":    int(h.cfg.JWT.AccessTokenTTL.Seconds()),
	})
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "validation failed"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}
	u, err := h.accountsSvc.GetByID(c.Request.Context(), sess.AccountID)
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "account lookup failed"})
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create access token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access, "expiresIn": int(h.cfg.JWT.AccessTokenTTL.Seconds())})
}

// Logout invalidates the refresh token and blacklists the presented access token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	// If the client supplied an Authorization Bearer token, blacklist it for
	// its remaining lifetime so it cannot be replayed after logout.
	if auth := c.GetHeader("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
		at := auth[7:]
		if ttl, err := h.verifier.RemainingTTL(c.Request.Context(), at); err == nil && ttl > 0 {
			if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to blacklist access token"})
				return
			}
		}
	}
	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.CallerID(c)
	u, err := h.accountsSvc.GetByID(c.Request.Context(), id)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unknown account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// issueTokens mints an access token and refresh session for the account,
// writing the error response itself on failure.
func (h *AuthHandler) issueTokens(c *gin.Context, acct *models.Account) (string, string, bool) {
	access, err := tokens.GenerateAccessToken(h.cfg, acct, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create access token"})
		return "", "", false
	}
	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), acct.ID, h.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return "", "", false
	}
	return access, refresh, true
}
