package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/philly/snapgram/internal/users/domain"
	"github.com/philly/snapgram/internal/users/ports"
)

const (
	usersExternalIDKey = "users_external_id_key"
	usersUsernameKey   = "users_username_key"
)

var userColumns = []string{
	"id", "external_id", "email", "username", "image_url", "bio", "created_at", "updated_at",
}

// UserRepository implements ports.UserRepository using PostgreSQL
type UserRepository struct {
	postgres.BaseRepository
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("users").
		Columns(userColumns...).
		Values(
			pgUUID(user.ID),
			user.ExternalID,
			user.Email,
			nullString(user.Username),
			nullString(user.ImageURL),
			user.Bio,
			user.CreatedAt,
			user.UpdatedAt,
		))
	switch {
	case postgres.IsUniqueViolation(err, usersExternalIDKey):
		return ports.ErrUserExists
	case postgres.IsUniqueViolation(err, usersUsernameKey):
		return ports.ErrUsernameTaken
	case err != nil:
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "FindByID", sq.Eq{"id": pgUUID(id)})
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return r.findOne(ctx, "FindByExternalID", sq.Eq{"external_id": externalID})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, ports.ErrUserNotFound
	}
	return r.findOne(ctx, "FindByUsername", sq.Eq{"username": username})
}

// Search matches case-insensitively; LIKE wildcards in substring are literal.
func (r *UserRepository) Search(ctx context.Context, substring string, limit int) ([]*domain.User, error) {
	query, args, err := r.SB.
		Select(userColumns...).
		From("users").
		Where(sq.ILike{"username": "%" + escapeLike(substring) + "%"}).
		OrderBy("username").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Search: build query: %w", err)
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("UserRepository.Search: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("UserRepository.Search: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("UserRepository.Search: rows error: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	affected, err := r.Exec(ctx, r.SB.
		Update("users").
		Set("username", nullString(user.Username)).
		Set("image_url", nullString(user.ImageURL)).
		Set("bio", user.Bio).
		Set("updated_at", user.UpdatedAt).
		Where(sq.Eq{"id": pgUUID(user.ID)}))
	switch {
	case postgres.IsUniqueViolation(err, usersUsernameKey):
		return ports.ErrUsernameTaken
	case err != nil:
		return fmt.Errorf("UserRepository.Update: %w", err)
	case affected == 0:
		return ports.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, op string, where sq.Eq) (*domain.User, error) {
	query, args, err := r.SB.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("UserRepository.%s: build query: %w", op, err)
	}

	user, err := scanUser(r.DB(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("UserRepository.%s: %w", op, err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var id pgtype.UUID
	var username, imageURL *string

	err := row.Scan(
		&id,
		&user.ExternalID,
		&user.Email,
		&username,
		&imageURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID = uuid.UUID(id.Bytes)
	user.Username = stringValue(username)
	user.ImageURL = stringValue(imageURL)
	return &user, nil
}

// ProfileReader implements ports.ProfileReader with joins over follows,
// posts and media.
type ProfileReader struct {
	postgres.BaseRepository
}

func NewProfileReader(db *pgxpool.Pool) *ProfileReader {
	return &ProfileReader{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var _ ports.ProfileReader = (*ProfileReader)(nil)

func (r *ProfileReader) Connections(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]domain.Connections, error) {
	out := make(map[uuid.UUID]domain.Connections, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	ids := make([]pgtype.UUID, len(userIDs))
	for i, id := range userIDs {
		ids[i] = pgUUID(id)
		out[id] = domain.Connections{}
	}

	// Followers: the owner is the followed user, the connection the follower.
	followers, err := r.edges(ctx, ids, "f.following_id", "f.follower_id")
	if err != nil {
		return nil, fmt.Errorf("ProfileReader.Connections: followers: %w", err)
	}
	following, err := r.edges(ctx, ids, "f.follower_id", "f.following_id")
	if err != nil {
		return nil, fmt.Errorf("ProfileReader.Connections: following: %w", err)
	}

	for owner, conns := range followers {
		c := out[owner]
		c.Followers = conns
		out[owner] = c
	}
	for owner, conns := range following {
		c := out[owner]
		c.Following = conns
		out[owner] = c
	}
	return out, nil
}

func (r *ProfileReader) edges(ctx context.Context, ids []pgtype.UUID, ownerCol, otherCol string) (map[uuid.UUID][]domain.Connection, error) {
	query, args, err := r.SB.
		Select(ownerCol, "u.id", "u.username", "u.image_url").
		From("follows f").
		Join("users u ON u.id = " + otherCol).
		Where(sq.Eq{ownerCol: ids}).
		OrderBy("f.created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]domain.Connection)
	for rows.Next() {
		var owner, id pgtype.UUID
		var username, imageURL *string
		if err := rows.Scan(&owner, &id, &username, &imageURL); err != nil {
			return nil, err
		}
		key := uuid.UUID(owner.Bytes)
		result[key] = append(result[key], domain.Connection{
			UserID:   uuid.UUID(id.Bytes),
			Username: stringValue(username),
			ImageURL: stringValue(imageURL),
		})
	}
	return result, rows.Err()
}

func (r *ProfileReader) PostsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.PostSummary, error) {
	query, args, err := r.SB.
		Select("p.id", "p.media_id", "m.url", "p.caption", "p.created_at").
		From("posts p").
		Join("media m ON m.id = p.media_id").
		Where(sq.Eq{"p.owner_id": pgUUID(ownerID)}).
		OrderBy("p.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ProfileReader.PostsByOwner: build query: %w", err)
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ProfileReader.PostsByOwner: %w", err)
	}
	defer rows.Close()

	var posts []domain.PostSummary
	for rows.Next() {
		var s domain.PostSummary
		var id, mediaID pgtype.UUID
		if err := rows.Scan(&id, &mediaID, &s.MediaURL, &s.Caption, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("ProfileReader.PostsByOwner: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		s.MediaID = uuid.UUID(mediaID.Bytes)
		posts = append(posts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProfileReader.PostsByOwner: rows error: %w", err)
	}
	return posts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
