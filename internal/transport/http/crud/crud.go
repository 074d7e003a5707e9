package crud

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/lib/logger/sl"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/middleware"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Repository is the uniform persistence contract a handler is built over.
type Repository[T any] interface {
	Create(ctx context.Context, item T) (T, error)
	List(ctx context.Context, filter map[string]any) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Update(ctx context.Context, id uuid.UUID, item T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Config assembles a Handler by composition: the ownership rules are hooks
// passed in explicitly, not methods to override.
type Config[T any] struct {
	Log  *slog.Logger
	Name string
	Repo Repository[T]
	// Owner extracts the owning account id; when set, Update and Delete
	// require the authenticated identity to match.
	Owner func(T) uuid.UUID
	// SetOwner stamps the authenticated identity on created items.
	SetOwner func(*T, uuid.UUID)
	// Filters maps allowed query parameters to columns for List.
	Filters map[string]string
	// NotFound is the storage sentinel translated to a 404.
	NotFound error
}

// Handler is a persistence-backed CRUD handler parameterized by entity type.
type Handler[T any] struct {
	cfg Config[T]
}

func NewHandler[T any](cfg Config[T]) *Handler[T] {
	return &Handler[T]{cfg: cfg}
}

func (h *Handler[T]) List(c echo.Context) error {
	const op = "crud.List"

	log := h.log(op)

	filter := map[string]any{}
	for param, column := range h.cfg.Filters {
		value := c.QueryParam(param)
		if value == "" {
			continue
		}
		if id, err := uuid.Parse(value); err == nil {
			filter[column] = id
		} else {
			filter[column] = value
		}
	}

	items, err := h.cfg.Repo.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("failed to list items", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *Handler[T]) GetByID(c echo.Context) error {
	const op = "crud.GetByID"

	log := h.log(op)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "Invalid id format"))
	}

	item, err := h.cfg.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, h.cfg.NotFound) {
			return c.JSON(http.StatusNotFound, response.ErrorResponseWithDetails("not_found", "Item not found"))
		}
		log.Error("failed to get item", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *Handler[T]) Create(c echo.Context) error {
	const op = "crud.Create"

	log := h.log(op)

	var item T
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if h.cfg.SetOwner != nil {
		h.cfg.SetOwner(&item, middleware.UserID(c))
	}

	created, err := h.cfg.Repo.Create(c.Request().Context(), item)
	if err != nil {
		log.Error("failed to create item", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("create_failed", err.Error()))
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *Handler[T]) Update(c echo.Context) error {
	const op = "crud.Update"

	log := h.log(op)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "Invalid id format"))
	}

	if status, errResp := h.checkOwnership(c, id); errResp != nil {
		return c.JSON(status, errResp)
	}

	var item T
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	updated, err := h.cfg.Repo.Update(c.Request().Context(), id, item)
	if err != nil {
		if errors.Is(err, h.cfg.NotFound) {
			return c.JSON(http.StatusNotFound, response.ErrorResponseWithDetails("not_found", "Item not found"))
		}
		log.Error("failed to update item", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *Handler[T]) Delete(c echo.Context) error {
	const op = "crud.Delete"

	log := h.log(op)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_id", "Invalid id format"))
	}

	if status, errResp := h.checkOwnership(c, id); errResp != nil {
		return c.JSON(status, errResp)
	}

	if err := h.cfg.Repo.Delete(c.Request().Context(), id); err != nil {
		log.Error("failed to delete item", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Item deleted"})
}

// checkOwnership fetches the item and compares its owner with the
// authenticated identity. A nil Owner hook disables the check.
func (h *Handler[T]) checkOwnership(c echo.Context, id uuid.UUID) (int, *response.ErrorResponse) {
	if h.cfg.Owner == nil {
		return 0, nil
	}

	item, err := h.cfg.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, h.cfg.NotFound) {
			resp := response.ErrorResponseWithDetails("not_found", "Item not found")
			return http.StatusNotFound, &resp
		}
		h.log("crud.checkOwnership").Error("failed to get item", sl.Err(err))
		resp := response.ErrInternal
		return http.StatusInternalServerError, &resp
	}

	if h.cfg.Owner(item) != middleware.UserID(c) {
		resp := response.ErrorResponseWithDetails("access_denied", "You can only modify your own "+h.cfg.Name)
		return http.StatusForbidden, &resp
	}

	return 0, nil
}

func (h *Handler[T]) log(op string) *slog.Logger {
	return h.cfg.Log.With(
		slog.String("op", op),
		slog.String("entity", h.cfg.Name),
	)
}
