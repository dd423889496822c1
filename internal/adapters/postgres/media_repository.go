package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/philly/snapgram/internal/posts/domain"
	"github.com/philly/snapgram/internal/posts/ports"
)

var mediaColumns = []string{"id", "url", "owner_id", "created_at"}

// MediaRepository implements ports.MediaRepository using PostgreSQL
type MediaRepository struct {
	postgres.BaseRepository
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var _ ports.MediaRepository = (*MediaRepository)(nil)

func (r *MediaRepository) Create(ctx context.Context, media *domain.Media) error {
	_, err := r.Exec(ctx, r.SB.
		Insert("media").
		Columns(mediaColumns...).
		Values(pgUUID(media.ID), media.URL, pgUUID(media.OwnerID), media.CreatedAt))
	if err != nil {
		return fmt.Errorf("MediaRepository.Create: %w", err)
	}
	return nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	query, args, err := r.SB.
		Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"id": pgUUID(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("MediaRepository.FindByID: build query: %w", err)
	}

	media, err := scanMedia(r.DB(ctx).QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrMediaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("MediaRepository.FindByID: %w", err)
	}
	return media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.Exec(ctx, r.SB.Delete("media").Where(sq.Eq{"id": pgUUID(id)}))
	switch {
	case postgres.IsForeignKeyViolation(err, postsMediaIDFkey):
		return ports.ErrMediaInUse
	case err != nil:
		return fmt.Errorf("MediaRepository.Delete: %w", err)
	case affected == 0:
		return ports.ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepository) ListOrphans(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Media, error) {
	query, args, err := r.SB.
		Select(mediaColumns...).
		From("media m").
		Where(sq.Lt{"m.created_at": cutoff}).
		Where("NOT EXISTS (SELECT 1 FROM posts p WHERE p.media_id = m.id)").
		OrderBy("m.created_at").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("MediaRepository.ListOrphans: build query: %w", err)
	}

	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("MediaRepository.ListOrphans: %w", err)
	}
	defer rows.Close()

	var orphans []*domain.Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("MediaRepository.ListOrphans: %w", err)
		}
		orphans = append(orphans, media)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MediaRepository.ListOrphans: rows error: %w", err)
	}
	return orphans, nil
}

func scanMedia(row pgx.Row) (*domain.Media, error) {
	var media domain.Media
	var id, ownerID pgtype.UUID
	if err := row.Scan(&id, &media.URL, &ownerID, &media.CreatedAt); err != nil {
		return nil, err
	}
	media.ID = uuid.UUID(id.Bytes)
	media.OwnerID = uuid.UUID(ownerID.Bytes)
	return &media, nil
}
