package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/lib/logger/sl"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/middleware"
	authsvc "github.com/chenzabatani-spec/web-app-assignment2/internal/services/auth"
	usersvc "github.com/chenzabatani-spec/web-app-assignment2/internal/services/user_service"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/dto/request"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.TokenPair, uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, username, email string) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type Routers struct {
	log         *slog.Logger
	AuthService AuthService
	UserService UserService
}

func NewRouter(log *slog.Logger, authService AuthService, userService UserService) *Routers {
	return &Routers{
		log:         log,
		AuthService: authService,
		UserService: userService,
	}
}

// Register creates an account and logs it in. 201 with the pair and the new
// account id on success.
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid register request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_register_request", err.Error()))
	}

	pair, userID, err := r.AuthService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrUserExists) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusBadRequest, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ID:           userID.String(),
	})
}

// Login returns a fresh token pair. Unknown email and wrong password produce
// the same response.
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, userID, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, response.ErrInvalidCredentials)
		}

		log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ID:           userID.String(),
	})
}

// Refresh rotates the presented refresh token. An authentic token outside
// the active set means reuse: every session of the account has been revoked
// by the time the 403 goes out.
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("missing_refresh_token", "Refresh token required"))
	}

	pair, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrTokenReuse), errors.Is(err, authsvc.ErrInvalidToken):
			log.Warn("refresh rejected", sl.Err(err))
			return c.JSON(http.StatusForbidden, response.ErrInvalidRefreshToken)
		case errors.Is(err, authsvc.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		default:
			log.Error("refresh failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout drops the presented refresh token. A token that fails verification
// is plain bad input here, not a security event.
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LogoutRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("missing_refresh_token", "Refresh token required"))
	}

	if err := r.AuthService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		if errors.Is(err, authsvc.ErrInvalidToken) {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_token", "Invalid refresh token"))
		}

		log.Error("logout failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.NoContent(http.StatusOK)
}

// ChangePassword verifies the old password before replacing the hash. All
// other sessions of the account are revoked on success.
func (r *Routers) ChangePassword(c echo.Context) error {
	const op = "http.routers.ChangePassword"

	log := r.log.With(
		slog.String("op", op),
	)

	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return c.JSON(http.StatusUnauthorized, response.ErrUnauthorized)
	}

	var req request.ChangePasswordRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_change_password_request", err.Error()))
	}

	err := r.AuthService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidCredentials)
		case errors.Is(err, authsvc.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		default:
			log.Error("change password failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.NoContent(http.StatusOK)
}

func (r *Routers) ListUsers(c echo.Context) error {
	const op = "http.routers.ListUsers"

	log := r.log.With(
		slog.String("op", op),
	)

	users, err := r.UserService.ListUsers(c.Request().Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, users)
}

func (r *Routers) GetUser(c echo.Context) error {
	const op = "http.routers.GetUser"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "Invalid user id format"))
	}

	user, err := r.UserService.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		}

		log.Error("failed to get user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, user)
}

// CreateUser is intentionally disabled: accounts are created through
// /auth/register only.
func (r *Routers) CreateUser(c echo.Context) error {
	return c.JSON(http.StatusMethodNotAllowed, response.ErrorResponseWithDetails(
		"method_not_allowed", "Use /auth/register to create a new user"))
}

// UpdateUser lets an account change its own profile fields. Password fields
// in the body are ignored; passwords change via /auth/change-password.
func (r *Routers) UpdateUser(c echo.Context) error {
	const op = "http.routers.UpdateUser"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "Invalid user id format"))
	}

	if middleware.UserID(c) != userID {
		return c.JSON(http.StatusForbidden, response.ErrorResponseWithDetails(
			"access_denied", "You can only update your own profile"))
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	user, err := r.UserService.UpdateUser(c.Request().Context(), userID, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, usersvc.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, response.ErrUserNotFound)
		case errors.Is(err, usersvc.ErrUserExists):
			return c.JSON(http.StatusBadRequest, response.ErrUserAlreadyExists)
		default:
			log.Error("failed to update user", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser lets an account delete itself only.
func (r *Routers) DeleteUser(c echo.Context) error {
	const op = "http.routers.DeleteUser"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "Invalid user id format"))
	}

	if middleware.UserID(c) != userID {
		return c.JSON(http.StatusForbidden, response.ErrorResponseWithDetails(
			"access_denied", "You can only delete your own account"))
	}

	if err := r.UserService.DeleteUser(c.Request().Context(), userID); err != nil {
		log.Error("failed to delete user", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Item deleted"})
}
