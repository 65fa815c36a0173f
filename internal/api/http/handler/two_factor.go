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
	actionEnable  = "enable"
	actionDisable = "disable"
)

// TwoFactorService defines second factor enrollment and verification.
type TwoFactorService interface {
	Setup(ctx context.Context, claims model.SessionClaims) (model.TwoFactorSetup, error)
	Enable(ctx context.Context, claims model.SessionClaims, secret, code string) ([]string, error)
	Disable(ctx context.Context, claims model.SessionClaims, code string) error
	RegenerateBackupCodes(ctx context.Context, claims model.SessionClaims, code string) ([]string, error)
	Verify(ctx context.Context, claims model.SessionClaims, code string) (model.Session, error)
	RequestEmailOTP(ctx context.Context, claims model.SessionClaims) error
}

// TwoFactor handles HTTP endpoints for two-factor authentication.
type TwoFactor struct {
	twoFactorService TwoFactorService
	cookies          *cookie.Writer
	contextManager   model.ContextManager
	logger           *logger.Logger
}

// NewTwoFactor creates a new TwoFactor handler.
func NewTwoFactor(
	twoFactorService TwoFactorService,
	cookies *cookie.Writer,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *TwoFactor {
	return &TwoFactor{
		twoFactorService: twoFactorService,
		cookies:          cookies,
		contextManager:   contextManager,
		logger:           logger,
	}
}

type changeTwoFactorRequest struct {
	Action string `json:"action"`
	Code   string `json:"code"`
	Secret string `json:"secret"`
}

type codeRequest struct {
	Code string `json:"code"`
}

// Setup proposes a fresh TOTP secret without storing it.
func (h *TwoFactor) Setup(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	setup, err := h.twoFactorService.Setup(c.Request.Context(), claims)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":    setup.Secret,
		"qrDataUrl": setup.QRDataURL,
	})
}

// Change enables or disables two-factor authentication.
func (h *TwoFactor) Change(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	var req changeTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	switch req.Action {
	case actionEnable:
		codes, err := h.twoFactorService.Enable(c.Request.Context(), claims, req.Secret, req.Code)
		if err != nil {
			WriteError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "backupCodes": codes})
	case actionDisable:
		if err := h.twoFactorService.Disable(c.Request.Context(), claims, req.Code); err != nil {
			WriteError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": `action must be "enable" or "disable"`})
	}
}

// RegenerateBackupCodes replaces the backup code set after a TOTP check.
func (h *TwoFactor) RegenerateBackupCodes(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	codes, err := h.twoFactorService.RegenerateBackupCodes(c.Request.Context(), claims, req.Code)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "backupCodes": codes})
}

// RequestEmailOTP mails a one-time code to the pending user.
func (h *TwoFactor) RequestEmailOTP(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	if err := h.twoFactorService.RequestEmailOTP(c.Request.Context(), claims); err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "A verification code has been sent to your email.",
	})
}

// Verify promotes a pending session to a full one.
func (h *TwoFactor) Verify(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	session, err := h.twoFactorService.Verify(c.Request.Context(), claims, req.Code)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, session, http.SameSiteLaxMode)
	h.cookies.Clear(c, cookie.Pending)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
