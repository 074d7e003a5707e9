package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	appjwt "github.com/chenzabatani-spec/web-app-assignment2/internal/lib/jwt"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/lib/logger/sl"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/repository"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	// ErrTokenReuse means a signed, unexpired refresh token was presented
	// after it had already been rotated out of the active set. Every session
	// of the account is revoked before this error is returned.
	ErrTokenReuse = errors.New("refresh token reuse detected")
)

// Auth drives the session lifecycle: credential issuance, one-time-use
// refresh rotation, reuse detection and revocation.
type Auth struct {
	log    *slog.Logger
	users  repository.UserRepository
	tokens *appjwt.Manager
}

func New(log *slog.Logger, users repository.UserRepository, tokens *appjwt.Manager) *Auth {
	return &Auth{
		log:    log,
		users:  users,
		tokens: tokens,
	}
}

// Register creates the account and logs it in: the returned pair's refresh
// token is already part of the account's active set.
func (a *Auth) Register(ctx context.Context, username, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "auth.Register"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.users.SaveUser(ctx, models.User{
		Username:      username,
		Email:         email,
		PassHash:      passHash,
		RefreshTokens: []string{},
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", sl.Err(err))

			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to save user", sl.Err(err))

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := a.issuePair(ctx, id)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))

	return pair, id, nil
}

// Login verifies the credentials and appends a fresh refresh token to the
// account's active set. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := a.issuePair(ctx, user.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return pair, user.ID, nil
}

// Refresh trades a valid refresh token for a fresh pair. Each refresh token
// is good for exactly one successful refresh: the rotation removes it from
// the active set in the same statement that appends its replacement. A
// signed, unexpired token that is no longer in the set is treated as theft:
// the whole set is cleared and ErrTokenReuse is returned.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	userID, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		log.Warn("refresh token failed verification", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	log = log.With(slog.String("user_id", userID.String()))

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newAccess, err := a.tokens.NewAccessToken(user.ID)
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newRefresh, err := a.tokens.NewRefreshToken(user.ID)
	if err != nil {
		log.Error("failed to generate refresh token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.users.RotateRefreshToken(ctx, user.ID, refreshToken, newRefresh); err != nil {
		if errors.Is(err, storage.ErrTokenNotInSet) {
			log.Warn("refresh token reuse detected, revoking all sessions")

			if clearErr := a.users.ClearRefreshTokens(ctx, user.ID); clearErr != nil {
				log.Error("failed to revoke sessions", sl.Err(clearErr))
			}

			return nil, fmt.Errorf("%s: %w", op, ErrTokenReuse)
		}
		log.Error("failed to rotate refresh token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tokens refreshed")

	return &models.TokenPair{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	}, nil
}

// Logout removes the presented refresh token from the account's active set.
// Removing an already-absent token is a no-op, not an error; only a token
// that fails verification is rejected.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	const op = "auth.Logout"

	log := a.log.With(slog.String("op", op))

	userID, err := a.tokens.ParseRefresh(refreshToken)
	if err != nil {
		log.Warn("logout token failed verification", sl.Err(err))

		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := a.users.RemoveRefreshToken(ctx, userID, refreshToken); err != nil {
		log.Error("failed to remove refresh token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged out", slog.String("user_id", userID.String()))

	return nil
}

// ChangePassword replaces the password hash after verifying the old
// password. The active refresh-token set is cleared in the same statement,
// so every other session must re-authenticate.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	const op = "auth.ChangePassword"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(oldPassword)); err != nil {
		log.Info("old password does not match", sl.Err(err))

		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.users.UpdatePassword(ctx, userID, passHash); err != nil {
		log.Error("failed to update password", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password changed, sessions revoked")

	return nil
}

func (a *Auth) issuePair(ctx context.Context, userID uuid.UUID) (*models.TokenPair, error) {
	accessToken, err := a.tokens.NewAccessToken(userID)
	if err != nil {
		a.log.Error("failed to generate access token", sl.Err(err))

		return nil, err
	}

	refreshToken, err := a.tokens.NewRefreshToken(userID)
	if err != nil {
		a.log.Error("failed to generate refresh token", sl.Err(err))

		return nil, err
	}

	if err := a.users.AppendRefreshToken(ctx, userID, refreshToken); err != nil {
		a.log.Error("failed to persist refresh token", sl.Err(err))

		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
