// Package seeder inserts a small demo graph for local development.
package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DemoUser is one seeded account. External IDs use the "seed|" prefix so
// they can never collide with identities issued by the real provider.
type DemoUser struct {
	ExternalID string
	Email      string
	Username   string
	Bio        string
}

var DemoUsers = []DemoUser{
	{ExternalID: "seed|ada", Email: "ada@example.test", Username: "ada", Bio: "First light."},
	{ExternalID: "seed|grace", Email: "grace@example.test", Username: "grace", Bio: "Shipping it."},
}

// DemoUserID is stable across runs so reseeding is a no-op.
func DemoUserID(externalID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("snapgram:"+externalID))
}

type DemoSeeder struct{}

func NewDemoSeeder() *DemoSeeder {
	return &DemoSeeder{}
}

func (s *DemoSeeder) Name() string {
	return "DemoSeeder"
}

// Seed inserts the demo users and has every one follow every other.
func (s *DemoSeeder) Seed(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, u := range DemoUsers {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, external_id, email, username, bio)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (external_id) DO NOTHING`,
			DemoUserID(u.ExternalID), u.ExternalID, u.Email, u.Username, u.Bio,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
	}

	for _, follower := range DemoUsers {
		for _, following := range DemoUsers {
			if follower.ExternalID == following.ExternalID {
				continue
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO follows (follower_id, following_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				DemoUserID(follower.ExternalID), DemoUserID(following.ExternalID),
			)
			if err != nil {
				return fmt.Errorf("failed to seed follow %s -> %s: %w", follower.Username, following.Username, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
