package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is a common interface for both pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository contains the database components every repository embeds.
type BaseRepository struct {
	pool *pgxpool.Pool
	SB   sq.StatementBuilderType // SQL builder with PostgreSQL placeholders
}

func NewBaseRepository(pool *pgxpool.Pool) BaseRepository {
	return BaseRepository{
		pool: pool,
		SB:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// DB returns the transaction bound to ctx by TransactionManager, or the pool.
func (b BaseRepository) DB(ctx context.Context) Querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return b.pool
}

// Exec builds and runs a statement, returning the number of affected rows.
func (b BaseRepository) Exec(ctx context.Context, stmt sq.Sqlizer) (int64, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := b.DB(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
