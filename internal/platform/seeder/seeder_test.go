package seeder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/platform/seeder"
	"github.com/philly/snapgram/internal/testutil/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSeeder struct {
	name string
	err  error
	log  *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Seed(context.Context, *pgxpool.Pool) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

func TestOrchestratorRunsInOrder(t *testing.T) {
	var ran []string
	o := seeder.NewOrchestrator(memstore.Logger(), nil,
		recordingSeeder{name: "users", log: &ran},
		recordingSeeder{name: "follows", log: &ran},
	)

	require.NoError(t, o.RunAll(context.Background()))
	assert.Equal(t, []string{"users", "follows"}, ran)
}

func TestOrchestratorStopsAtFirstFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	o := seeder.NewOrchestrator(memstore.Logger(), nil,
		recordingSeeder{name: "users", err: boom, log: &ran},
		recordingSeeder{name: "follows", log: &ran},
	)

	err := o.RunAll(context.Background())
	require.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "seeder users failed")
	assert.Equal(t, []string{"users"}, ran)
}
