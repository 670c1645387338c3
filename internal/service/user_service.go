// Package service wires the primary store, the fan-out synchronizer, and
// the auxiliary-store adapters into the operations the controller layer
// consumes. Primary mutations succeed or fail on the primary store alone;
// projection propagation is handed to the synchronizer after the commit.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/database"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/fanout"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/model"
	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// UserService owns the user lifecycle against the primary store and mirrors
// every mutation into the graph projection.
type UserService struct {
	users  *database.UserDAO
	sync   *fanout.Synchronizer
	logger *slog.Logger
}

// NewUserService creates a user service.
func NewUserService(users *database.UserDAO, sync *fanout.Synchronizer, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		sync:   sync,
		logger: logger.With("component", "user_service"),
	}
}

// Create persists a new user and propagates it to the graph. A zero ID is
// minted here; the auxiliary stores only ever mirror canonical ids.
func (s *UserService) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = types.NewID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.sync.UserCreated(user)
	return nil
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id types.ID) (*model.User, error) {
	return s.users.Get(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// Update overwrites a user's mutable fields and replaces the user's
// attribute edges in the graph wholesale.
func (s *UserService) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.sync.UserUpdated(user)
	return nil
}

// Delete removes a user from the primary store and the graph.
func (s *UserService) Delete(ctx context.Context, id types.ID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.sync.UserDeleted(id)
	return nil
}
