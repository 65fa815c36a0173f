package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/journal-auth/internal/api/http/cookie"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
)

const (
	verifiedRedirect     = "/login?verified=1"
	invalidTokenRedirect = "/login?error=invalid-token"
)

// AuthService defines registration, login and password recovery operations.
type AuthService interface {
	Register(ctx context.Context, input model.RegisterInput) error
	VerifyEmail(ctx context.Context, rawToken string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (model.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input model.PasswordReset) error
	Me(ctx context.Context, claims model.SessionClaims) (model.User, error)
}

// Auth handles HTTP endpoints for account lifecycle and password login.
type Auth struct {
	authService    AuthService
	cookies        *cookie.Writer
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, cookies *cookie.Writer, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		cookies:        cookies,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type userResponse struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	EmailVerified    bool   `json:"emailVerified"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	IsAdmin          bool   `json:"isAdmin"`
}

// Register creates an unverified account.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	err := h.authService.Register(c.Request.Context(), model.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Check your email to verify your address.",
	})
}

// ResendVerification always reports success.
func (h *Auth) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// VerifyEmail redeems the token from the query string and redirects to the login page.
func (h *Auth) VerifyEmail(c *gin.Context) {
	err := h.authService.VerifyEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.logger.Info("Auth handler: email verification rejected",
			"error", err.Error())
		c.Redirect(http.StatusFound, invalidTokenRedirect)
		return
	}

	c.Redirect(http.StatusFound, verifiedRedirect)
}

// Login checks credentials and sets either a full or a pending session cookie.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, result.Session, http.SameSiteStrictMode)

	if result.RequiresTwoFactor {
		c.JSON(http.StatusOK, gin.H{"requires2fa": true})
		return
	}

	h.cookies.Clear(c, cookie.Pending)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Logout clears the session cookies.
func (h *Auth) Logout(c *gin.Context) {
	h.cookies.Clear(c, cookie.Session, cookie.Pending)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the current user's profile.
func (h *Auth) Me(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), claims)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		Name:             user.Name,
		EmailVerified:    user.EmailVerified,
		TwoFactorEnabled: user.TwoFactorEnabled,
		IsAdmin:          user.IsAdmin,
	})
}

// ForgotPassword mails a reset link if the account exists. It always reports success.
func (h *Auth) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ResetPassword sets a new password using a reset token.
func (h *Auth) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), model.PasswordReset{
		Token:           req.Token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
