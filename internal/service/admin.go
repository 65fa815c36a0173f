package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/journal-auth/internal/apierror"
	"github.com/dtroode/journal-auth/internal/logger"
	"github.com/dtroode/journal-auth/internal/model"
)

type Admin struct {
	userStore model.UserStore
	sessions  *Sessions
	logger    *logger.Logger
}

func NewAdmin(userStore model.UserStore, sessions *Sessions, logger *logger.Logger) *Admin {
	return &Admin{userStore: userStore, sessions: sessions, logger: logger}
}

// Claimable reports whether no admin exists yet.
func (s *Admin) Claimable(ctx context.Context) (bool, error) {
	n, err := s.userStore.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return n == 0, nil
}

// ClaimFirstAdmin promotes the caller when there is no admin and returns a
// session carrying the new claim.
func (s *Admin) ClaimFirstAdmin(ctx context.Context, claims model.SessionClaims) (model.Session, error) {
	id, err := subjectID(claims)
	if err != nil {
		return model.Session{}, err
	}

	claimed, err := s.userStore.ClaimFirstAdmin(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Session{}, apierror.NewUnauthorized(apierror.MsgNotAuthenticated)
		}
		s.logger.Error("Admin service: failed to claim admin",
			"user_id", id,
			"error", err.Error())
		return model.Session{}, fmt.Errorf("failed to claim admin: %w", err)
	}
	if !claimed {
		s.logger.Info("Admin service: claim rejected, admin exists",
			"user_id", id)
		return model.Session{}, apierror.NewForbidden(apierror.MsgAdminExists)
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	s.logger.Info("Admin service: first admin claimed",
		"user_id", id)

	return s.sessions.Full(user)
}

// SetAdmin grants or revokes admin rights. The actor must currently be an
// admin and may not revoke their own rights.
func (s *Admin) SetAdmin(ctx context.Context, actor model.SessionClaims, targetID uuid.UUID, isAdmin bool) error {
	actorID, err := subjectID(actor)
	if err != nil {
		return err
	}

	current, err := s.userStore.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewUnauthorized(apierror.MsgNotAuthenticated)
		}
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if !current.IsAdmin {
		return apierror.NewForbidden("admin privileges required")
	}
	if targetID == actorID && !isAdmin {
		return apierror.NewForbidden("you cannot remove your own admin rights")
	}

	if err := s.userStore.SetAdmin(ctx, targetID, isAdmin); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewNotFound("user not found")
		}
		return fmt.Errorf("failed to set admin: %w", err)
	}

	s.logger.Info("Admin service: admin flag changed",
		"actor_id", actorID,
		"target_id", targetID,
		"is_admin", isAdmin)

	return nil
}
