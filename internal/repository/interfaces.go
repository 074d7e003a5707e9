package repository

import (
	"context"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"

	"github.com/google/uuid"
)

// UserRepository is the credential store. The token-set mutations are single
// conditional statements on the account row, so concurrent callers serialize
// on the database and never observe a partial rotation.
type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, username, email string) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	AppendRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	// RotateRefreshToken atomically replaces oldToken with newToken in the
	// account's active set. Returns storage.ErrTokenNotInSet when oldToken is
	// no longer present; at most one of any number of concurrent callers can
	// succeed for the same oldToken.
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error
	// RemoveRefreshToken is idempotent: removing an absent token is a no-op.
	RemoveRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	ClearRefreshTokens(ctx context.Context, userID uuid.UUID) error
	// UpdatePassword replaces the password hash and clears the active
	// refresh-token set in the same statement, revoking every other session.
	UpdatePassword(ctx context.Context, userID uuid.UUID, passHash []byte) error
}
