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

type CommentRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *CommentRepo) Create(ctx context.Context, comment models.Comment) (models.Comment, error) {
	const op = "repository.comment_repository.Create"

	query, args, err := r.sb.Insert("comments").
		Columns("message", "sender_id", "post_id").
		Values(comment.Message, comment.Sender, comment.PostID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&comment.ID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

func (r *CommentRepo) List(ctx context.Context, filter map[string]any) ([]models.Comment, error) {
	const op = "repository.comment_repository.List"

	builder := r.sb.Select("id", "message", "sender_id", "post_id").From("comments")
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

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.Message, &comment.Sender, &comment.PostID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	const op = "repository.comment_repository.GetByID"

	query, args, err := r.sb.Select("id", "message", "sender_id", "post_id").
		From("comments").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var comment models.Comment
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&comment.ID, &comment.Message, &comment.Sender, &comment.PostID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return comment, nil
}

func (r *CommentRepo) Update(ctx context.Context, id uuid.UUID, comment models.Comment) (models.Comment, error) {
	const op = "repository.comment_repository.Update"

	query, args, err := r.sb.Update("comments").
		Set("message", comment.Message).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, message, sender_id, post_id").
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var updated models.Comment
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Message, &updated.Sender, &updated.PostID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "repository.comment_repository.Delete"

	query, args, err := r.sb.Delete("comments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
