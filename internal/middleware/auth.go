package middleware

import (
	"net/http"
	"strings"

	appjwt "github.com/chenzabatani-spec/web-app-assignment2/internal/lib/jwt"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// userIDKey is the echo context key the gate stores the authenticated
// account id under.
const userIDKey = "user_id"

// Auth returns the access-token gate for protected routes. It validates the
// bearer token against the access secret only and never consults storage:
// access tokens are self-contained and expire on their own; revocation
// happens through refresh-token rotation.
func Auth(tokens *appjwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
			}

			token := strings.TrimPrefix(header, "Bearer ")

			userID, err := tokens.ParseAccess(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
			}

			c.Set(userIDKey, userID)

			return next(c)
		}
	}
}

// UserID returns the authenticated account id attached by Auth, or uuid.Nil
// when the request passed through no gate.
func UserID(c echo.Context) uuid.UUID {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
