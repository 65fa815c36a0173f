package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/journal-auth/internal/api/http/cookie"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
)

// AdminService defines admin bootstrap and role management.
type AdminService interface {
	Claimable(ctx context.Context) (bool, error)
	ClaimFirstAdmin(ctx context.Context, claims model.SessionClaims) (model.Session, error)
	SetAdmin(ctx context.Context, claims model.SessionClaims, targetID uuid.UUID, isAdmin bool) error
}

// Admin handles HTTP endpoints for admin management.
type Admin struct {
	adminService   AdminService
	cookies        *cookie.Writer
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAdmin creates a new Admin handler.
func NewAdmin(adminService AdminService, cookies *cookie.Writer, contextManager model.ContextManager, logger *logger.Logger) *Admin {
	return &Admin{
		adminService:   adminService,
		cookies:        cookies,
		contextManager: contextManager,
		logger:         logger,
	}
}

type setAdminRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

// ClaimStatus reports whether the first-admin claim is still open.
func (h *Admin) ClaimStatus(c *gin.Context) {
	claimable, err := h.adminService.Claimable(c.Request.Context())
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"claimable": claimable})
}

// Claim makes the caller the first admin and re-issues their session.
func (h *Admin) Claim(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	session, err := h.adminService.ClaimFirstAdmin(c.Request.Context(), claims)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}

	h.cookies.SetSession(c, session, http.SameSiteStrictMode)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SetAdmin grants or revokes admin rights for the user in the path.
func (h *Admin) SetAdmin(c *gin.Context) {
	claims, ok := claimsFrom(c, h.contextManager)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if err := h.adminService.SetAdmin(c.Request.Context(), claims, targetID, *req.IsAdmin); err != nil {
		WriteError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
