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
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/philly/snapgram/internal/posts/domain"
	"github.com/philly/snapgram/internal/posts/ports"
)

const (
	postsMediaIDKey  = "posts_media_id_key"
	postsMediaIDFkey = "posts_media_id_fkey"
)

var postColumns = []string{"p.id", "p.media_id", "p.owner_id", "p.caption", "p.created_at", "p.updated_at"}

// PostRepository implements ports.PostRepository using PostgreSQL. It also
// satisfies the comments context's PostChecker.
type PostRepository struct {
	postgres.BaseRepository
}

func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var _ ports.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("posts").
		Columns("id", "media_id", "owner_id", "caption", "created_at", "updated_at").
		Values(
			pgUUID(post.ID),
			pgUUID(post.MediaID),
			pgUUID(post.OwnerID),
			post.Caption,
			post.CreatedAt,
			post.UpdatedAt,
		))
	switch {
	case postgres.IsUniqueViolation(err, postsMediaIDKey):
		return ports.ErrMediaInUse
	case postgres.IsForeignKeyViolation(err, postsMediaIDFkey):
		return ports.ErrMediaNotFound
	case err != nil:
		return fmt.Errorf("PostRepository.Create: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query, args, err := r.SB.
		Select(postColumns...).
		From("posts p").
		Where(sq.Eq{"p.id": pgUUID(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: build query: %w", err)
	}

	post, err := scanPost(r.DB(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindByID: %w", err)
	}
	return post, nil
}

func (r *PostRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, "posts", sq.Eq{"id": pgUUID(id)})
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) error {
	affected, err := r.Exec(ctx, r.SB.
		Update("posts").
		Set("caption", post.Caption).
		Set("updated_at", post.UpdatedAt).
		Where(sq.Eq{"id": pgUUID(post.ID)}))
	if err != nil {
		return fmt.Errorf("PostRepository.Update: %w", err)
	}
	if affected == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

// Delete removes the post. Likes, comments and comment likes go by cascade.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.Exec(ctx, r.SB.Delete("posts").Where(sq.Eq{"id": pgUUID(id)}))
	if err != nil {
		return fmt.Errorf("PostRepository.Delete: %w", err)
	}
	if affected == 0 {
		return ports.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) FindDetails(ctx context.Context, id uuid.UUID) (*domain.PostDetails, error) {
	query, args, err := r.SB.
		Select(postColumns...).
		Columns("m.url", "m.created_at", "u.username", "u.image_url").
		From("posts p").
		Join("media m ON m.id = p.media_id").
		Join("users u ON u.id = p.owner_id").
		Where(sq.Eq{"p.id": pgUUID(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindDetails: build query: %w", err)
	}

	var (
		post               domain.Post
		media              domain.Media
		postID, mediaID    pgtype.UUID
		ownerID            pgtype.UUID
		username, imageURL *string
	)
	err = r.DB(ctx).QueryRow(ctx, query, args...).Scan(
		&postID, &mediaID, &ownerID, &post.Caption, &post.CreatedAt, &post.UpdatedAt,
		&media.URL, &media.CreatedAt, &username, &imageURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindDetails: %w", err)
	}

	post.ID = uuid.UUID(postID.Bytes)
	post.MediaID = uuid.UUID(mediaID.Bytes)
	post.OwnerID = uuid.UUID(ownerID.Bytes)
	media.ID = post.MediaID
	media.OwnerID = post.OwnerID

	likes, err := r.likes(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindDetails: likes: %w", err)
	}

	return &domain.PostDetails{
		Post:  &post,
		Media: &media,
		Author: domain.Author{
			ID:       post.OwnerID,
			Username: stringValue(username),
			ImageURL: stringValue(imageURL),
		},
		Likes: likes,
	}, nil
}

func (r *PostRepository) likes(ctx context.Context, postID uuid.UUID) ([]domain.Like, error) {
	query, args, err := r.SB.
		Select("l.user_id", "u.username", "l.created_at").
		From("likes l").
		Join("users u ON u.id = l.user_id").
		Where(sq.Eq{"l.post_id": pgUUID(postID)}).
		OrderBy("l.created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []domain.Like{}
	for rows.Next() {
		var like domain.Like
		var userID pgtype.UUID
		var username *string
		if err := rows.Scan(&userID, &username, &like.CreatedAt); err != nil {
			return nil, err
		}
		like.UserID = uuid.UUID(userID.Bytes)
		like.Username = stringValue(username)
		likes = append(likes, like)
	}
	return likes, rows.Err()
}

func (r *PostRepository) FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Post, error) {
	query, args, err := r.SB.
		Select(postColumns...).
		From("posts p").
		Where(sq.Eq{"p.owner_id": pgUUID(ownerID)}).
		OrderBy("p.created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindLatestByOwner: build query: %w", err)
	}

	post, err := scanPost(r.DB(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("PostRepository.FindLatestByOwner: %w", err)
	}
	return post, nil
}

func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]domain.FeedItem, error) {
	query, args, err := r.SB.
		Select(postColumns...).
		Columns(
			"m.url", "u.username", "u.image_url",
			"(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count",
		).
		From("posts p").
		Join("media m ON m.id = p.media_id").
		Join("users u ON u.id = p.owner_id").
		OrderBy("p.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListRecent: build query: %w", err)
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("PostRepository.ListRecent: %w", err)
	}
	defer rows.Close()

	items := []domain.FeedItem{}
	for rows.Next() {
		var (
			post                     domain.Post
			item                     domain.FeedItem
			postID, mediaID, ownerID pgtype.UUID
			username, imageURL       *string
		)
		err := rows.Scan(
			&postID, &mediaID, &ownerID, &post.Caption, &post.CreatedAt, &post.UpdatedAt,
			&item.MediaURL, &username, &imageURL, &item.LikeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("PostRepository.ListRecent: %w", err)
		}
		post.ID = uuid.UUID(postID.Bytes)
		post.MediaID = uuid.UUID(mediaID.Bytes)
		post.OwnerID = uuid.UUID(ownerID.Bytes)
		item.Post = &post
		item.Author = domain.Author{ID: post.OwnerID, Username: stringValue(username), ImageURL: stringValue(imageURL)}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PostRepository.ListRecent: rows error: %w", err)
	}
	return items, nil
}

// exists wraps a lookup in SELECT EXISTS, which squirrel cannot build.
func (r *PostRepository) exists(ctx context.Context, table string, where sq.Eq) (bool, error) {
	return existsQuery(ctx, r.BaseRepository, table, where)
}

func existsQuery(ctx context.Context, base postgres.BaseRepository, table string, where sq.Eq) (bool, error) {
	sub, args, err := base.SB.Select("1").From(table).Where(where).ToSql()
	if err != nil {
		return false, fmt.Errorf("exists %s: build query: %w", table, err)
	}

	var exists bool
	if err := base.DB(ctx).QueryRow(ctx, fmt.Sprintf("SELECT EXISTS(%s)", sub), args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", table, err)
	}
	return exists, nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	var id, mediaID, ownerID pgtype.UUID

	err := row.Scan(&id, &mediaID, &ownerID, &post.Caption, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}

	post.ID = uuid.UUID(id.Bytes)
	post.MediaID = uuid.UUID(mediaID.Bytes)
	post.OwnerID = uuid.UUID(ownerID.Bytes)
	return &post, nil
}
