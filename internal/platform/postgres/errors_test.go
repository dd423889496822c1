package postgres_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "follows_pair_key"}

	assert.True(t, postgres.IsUniqueViolation(dup, ""))
	assert.True(t, postgres.IsUniqueViolation(fmt.Errorf("insert: %w", dup), "follows_pair_key"))
	assert.False(t, postgres.IsUniqueViolation(dup, "users_username_key"))
	assert.False(t, postgres.IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, postgres.IsUniqueViolation(errors.New("plain"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	restrict := &pgconn.PgError{Code: "23503", ConstraintName: "posts_media_id_fkey"}

	assert.True(t, postgres.IsForeignKeyViolation(restrict, ""))
	assert.True(t, postgres.IsForeignKeyViolation(fmt.Errorf("delete: %w", restrict), "posts_media_id_fkey"))
	assert.False(t, postgres.IsForeignKeyViolation(restrict, "comments_post_id_fkey"))
	assert.False(t, postgres.IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}, ""))
}
