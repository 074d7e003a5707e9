package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chenzabatani-spec/web-app-assignment2/internal/domain/models"
	"github.com/chenzabatani-spec/web-app-assignment2/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PostRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewPostRepository(db *pgxpool.Pool) *PostRepo {
	return &PostRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *PostRepo) Create(ctx context.Context, post models.Post) (models.Post, error) {
	const op = "repository.post_repository.Create"

	query, args, err := r.sb.Insert("posts").
		Columns("title", "content", "sender_id").
		Values(post.Title, post.Content, post.Sender).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&post.ID)
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (r *PostRepo) List(ctx context.Context, filter map[string]any) ([]models.Post, error) {
	const op = "repository.post_repository.List"

	builder := r.sb.Select("id", "title", "content", "sender_id").From("posts")
	if len(filter) > 0 {
		builder = builder.Where(sq.Eq(filter))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Sender); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Post, error) {
	const op = "repository.post_repository.GetByID"

	query, args, err := r.sb.Select("id", "title", "content", "sender_id").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var post models.Post
	err = r.db.QueryRow(ctx, query, args...).Scan(&post.ID, &post.Title, &post.Content, &post.Sender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, post models.Post) (models.Post, error) {
	const op = "repository.post_repository.Update"

	query, args, err := r.sb.Update("posts").
		Set("title", post.Title).
		Set("content", post.Content).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, title, content, sender_id").
		ToSql()
	if err != nil {
		return models.Post{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var updated models.Post
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Title, &updated.Content, &updated.Sender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return models.Post{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "repository.post_repository.Delete"

	query, args, err := r.sb.Delete("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
