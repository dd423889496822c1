package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/comments/domain"
	"github.com/philly/snapgram/internal/comments/ports"
	"github.com/philly/snapgram/internal/platform/postgres"
)

const commentsPostIDFkey = "comments_post_id_fkey"

var commentColumns = []string{"c.id", "c.post_id", "c.author_id", "c.text", "c.created_at"}

// CommentRepository implements ports.CommentRepository using PostgreSQL
type CommentRepository struct {
	postgres.BaseRepository
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("comments").
		Columns("id", "post_id", "author_id", "text", "created_at").
		Values(
			pgUUID(comment.ID),
			pgUUID(comment.PostID),
			pgUUID(comment.AuthorID),
			comment.Text,
			comment.CreatedAt,
		))
	switch {
	case postgres.IsForeignKeyViolation(err, commentsPostIDFkey):
		return ports.ErrPostNotFound
	case err != nil:
		return fmt.Errorf("CommentRepository.Create: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query, args, err := r.SB.
		Select(commentColumns...).
		From("comments c").
		Where(sq.Eq{"c.id": pgUUID(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.FindByID: build query: %w", err)
	}

	comment, err := scanComment(r.DB(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.FindByID: %w", err)
	}
	return comment, nil
}

func (r *CommentRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return existsQuery(ctx, r.BaseRepository, "comments", sq.Eq{"id": pgUUID(id)})
}

// Delete removes the comment; comment likes go by cascade.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.Exec(ctx, r.SB.Delete("comments").Where(sq.Eq{"id": pgUUID(id)}))
	if err != nil {
		return fmt.Errorf("CommentRepository.Delete: %w", err)
	}
	if affected == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID, viewerID uuid.UUID) ([]domain.CommentView, error) {
	query, args, err := r.SB.
		Select(commentColumns...).
		Columns(
			"u.username", "u.image_url",
			"(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS like_count",
		).
		Column(sq.Expr(
			"EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = ?) AS liked",
			pgUUID(viewerID),
		)).
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(sq.Eq{"c.post_id": pgUUID(postID)}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.ListByPost: build query: %w", err)
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("CommentRepository.ListByPost: %w", err)
	}
	defer rows.Close()

	views := []domain.CommentView{}
	for rows.Next() {
		var (
			c                    domain.Comment
			view                 domain.CommentView
			id, postID, authorID pgtype.UUID
			username, imageURL   *string
		)
		err := rows.Scan(
			&id, &postID, &authorID, &c.Text, &c.CreatedAt,
			&username, &imageURL, &view.LikeCount, &view.LikedByActor,
		)
		if err != nil {
			return nil, fmt.Errorf("CommentRepository.ListByPost: %w", err)
		}
		c.ID = uuid.UUID(id.Bytes)
		c.PostID = uuid.UUID(postID.Bytes)
		c.AuthorID = uuid.UUID(authorID.Bytes)
		view.Comment = &c
		view.Author = domain.Author{ID: c.AuthorID, Username: stringValue(username), ImageURL: stringValue(imageURL)}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CommentRepository.ListByPost: rows error: %w", err)
	}
	return views, nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	var id, postID, authorID pgtype.UUID
	if err := row.Scan(&id, &postID, &authorID, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.PostID = uuid.UUID(postID.Bytes)
	c.AuthorID = uuid.UUID(authorID.Bytes)
	return &c, nil
}
