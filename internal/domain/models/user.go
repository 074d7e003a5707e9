package models

import (
	"github.com/google/uuid"
)

// User is the persisted account record. PassHash and RefreshTokens never
// leave the server: RefreshTokens is the account's set of currently-valid
// refresh tokens, mutated on every login, refresh and logout.
type User struct {
	ID            uuid.UUID `db:"id" json:"_id"`
	Username      string    `db:"username" json:"username"`
	Email         string    `db:"email" json:"email"`
	PassHash      []byte    `db:"password" json:"-"`
	RefreshTokens []string  `db:"refresh_tokens" json:"-"`
}
