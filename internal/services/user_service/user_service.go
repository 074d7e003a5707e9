package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/lib/logger/sl"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/repository"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserService serves the profile surface. Account creation happens through
// the auth service only; ownership checks live in the transport layer.
type UserService struct {
	log  *slog.Logger
	repo repository.UserRepository
}

func NewUserService(log *slog.Logger, repo repository.UserRepository) *UserService {
	return &UserService{log: log, repo: repo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "user_service.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.log.Error("failed to list users", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "user_service.GetUserByID"

	user, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		s.log.Error("failed to get user", slog.String("op", op), sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdateUser changes profile fields only. Passwords go through the auth
// service's change-password flow.
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, username, email string) (models.User, error) {
	const op = "user_service.UpdateUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := s.repo.UpdateUser(ctx, userID, username, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("email already taken", sl.Err(err))

			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to update user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user updated")

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	const op = "user_service.DeleteUser"

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		s.log.Error("failed to delete user", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user deleted", slog.String("op", op), slog.String("user_id", userID.String()))

	return nil
}
