package services

import (
	"context"
	"encoding/json"

	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/domain/providers"
	apperrors "github.com/careslot/backend/pkg/errors"
)

// SessionService persists the demo role flag under the currentUser snapshot
// key. It is deliberately not an authentication layer: any caller may claim
// any role, and the routing guards only read the flag back.
type SessionService struct {
	snapshots providers.SnapshotStore
}

// NewSessionService creates a new session service
func NewSessionService(snapshots providers.SnapshotStore) *SessionService {
	return &SessionService{snapshots: snapshots}
}

// Login records the current user with the chosen role
func (s *SessionService) Login(ctx context.Context, email string, role entities.UserRole) (entities.CurrentUser, error) {
	name := "User"
	if role == entities.RoleAdmin {
		name = "Admin"
	}

	user := entities.CurrentUser{
		Email: email,
		Role:  role,
		Name:  name,
	}

	data, err := json.Marshal(user)
	if err != nil {
		return entities.CurrentUser{}, apperrors.NewInternalError("failed to encode session", err)
	}
	if err := s.snapshots.Save(ctx, providers.SnapshotKeyCurrentUser, data); err != nil {
		return entities.CurrentUser{}, apperrors.NewInternalError("failed to persist session", err)
	}

	return user, nil
}

// Current returns the recorded user, or a not found error when nobody is logged in
func (s *SessionService) Current(ctx context.Context) (*entities.CurrentUser, error) {
	data, err := s.snapshots.Load(ctx, providers.SnapshotKeyCurrentUser)
	if err != nil {
		if err == providers.ErrSnapshotNotFound {
			return nil, apperrors.NewNotFoundError("no current user")
		}
		return nil, apperrors.NewInternalError("failed to load session", err)
	}

	var user entities.CurrentUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, apperrors.NewNotFoundError("no current user")
	}
	return &user, nil
}

// Logout clears the recorded user
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.snapshots.Delete(ctx, providers.SnapshotKeyCurrentUser); err != nil {
		return apperrors.NewInternalError("failed to clear session", err)
	}
	return nil
}
