package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/philly/snapgram/internal/platform/relation"
)

// edgeTable maps a relation kind onto its join table.
type edgeTable struct {
	name       string
	subjectCol string
	actorCol   string
	constraint string
}

var edgeTables = map[relation.Kind]edgeTable{
	relation.KindFollow:      {name: "follows", subjectCol: "following_id", actorCol: "follower_id", constraint: "follows_pair_key"},
	relation.KindLike:        {name: "likes", subjectCol: "post_id", actorCol: "user_id", constraint: "likes_pair_key"},
	relation.KindCommentLike: {name: "comment_likes", subjectCol: "comment_id", actorCol: "user_id", constraint: "comment_likes_pair_key"},
}

// EdgeRepository implements relation.EdgeStore for follows, likes and
// comment likes.
type EdgeRepository struct {
	postgres.BaseRepository
}

func NewEdgeRepository(db *pgxpool.Pool) *EdgeRepository {
	return &EdgeRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var _ relation.EdgeStore = (*EdgeRepository)(nil)

func (r *EdgeRepository) Exists(ctx context.Context, edge relation.Edge) (bool, error) {
	t, err := tableFor(edge.Kind)
	if err != nil {
		return false, err
	}
	return existsQuery(ctx, r.BaseRepository, t.name, t.where(edge))
}

// Insert relies on the pair key. ON CONFLICT keeps a lost race from aborting
// the surrounding transaction.
func (r *EdgeRepository) Insert(ctx context.Context, edge relation.Edge) error {
	t, err := tableFor(edge.Kind)
	if err != nil {
		return err
	}

	affected, err := r.Exec(ctx, r.SB.
		Insert(t.name).
		Columns(t.subjectCol, t.actorCol).
		Values(pgUUID(edge.SubjectID), pgUUID(edge.ActorID)).
		Suffix(fmt.Sprintf("ON CONFLICT ON CONSTRAINT %s DO NOTHING", t.constraint)))
	switch {
	case postgres.IsUniqueViolation(err, t.constraint):
		return relation.ErrEdgeExists
	case err != nil:
		return fmt.Errorf("EdgeRepository.Insert %s: %w", edge.Kind, err)
	case affected == 0:
		return relation.ErrEdgeExists
	}
	return nil
}

func (r *EdgeRepository) Delete(ctx context.Context, edge relation.Edge) (bool, error) {
	t, err := tableFor(edge.Kind)
	if err != nil {
		return false, err
	}

	affected, err := r.Exec(ctx, r.SB.Delete(t.name).Where(t.where(edge)))
	if err != nil {
		return false, fmt.Errorf("EdgeRepository.Delete %s: %w", edge.Kind, err)
	}
	return affected > 0, nil
}

func (t edgeTable) where(edge relation.Edge) sq.Eq {
	return sq.Eq{
		t.subjectCol: pgUUID(edge.SubjectID),
		t.actorCol:   pgUUID(edge.ActorID),
	}
}

func tableFor(kind relation.Kind) (edgeTable, error) {
	t, ok := edgeTables[kind]
	if !ok {
		return edgeTable{}, fmt.Errorf("EdgeRepository: unknown relation kind %q", kind)
	}
	return t, nil
}
