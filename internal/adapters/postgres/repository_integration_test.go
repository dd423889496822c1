//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgadapter "github.com/philly/snapgram/internal/adapters/postgres"
	commentsapp "github.com/philly/snapgram/internal/comments/application"
	"github.com/philly/snapgram/internal/platform/eventbus"
	"github.com/philly/snapgram/internal/platform/migrations"
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/philly/snapgram/internal/platform/relation"
	postsapp "github.com/philly/snapgram/internal/posts/application"
	postsdomain "github.com/philly/snapgram/internal/posts/domain"
	"github.com/philly/snapgram/internal/testutil/memstore"
	usersdomain "github.com/philly/snapgram/internal/users/domain"
	usersseeder "github.com/philly/snapgram/internal/users/seeder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("snapgram_test"),
		tcpostgres.WithUsername("snapgram"),
		tcpostgres.WithPassword("snapgram"),
		testcontainers.WithWaitStrategyAndDeadline(2*time.Minute,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres container: %v\n", err)
		return 1
	}
	defer func() { _ = testcontainers.TerminateContainer(container) }()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
		return 1
	}
	if err := migrations.Run(ctx, dsn, migrations.Up, memstore.Logger()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return 1
	}

	pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		return 1
	}
	defer pool.Close()

	return m.Run()
}

type stack struct {
	users    *pgadapter.UserRepository
	media    *pgadapter.MediaRepository
	posts    *postsapp.PostsService
	comments *commentsapp.CommentsService
	edges    *pgadapter.EdgeRepository
}

func newStack(t *testing.T) *stack {
	t.Helper()
	log := memstore.Logger()
	bus := eventbus.NewBus(log)
	t.Cleanup(bus.Wait)

	tx := postgres.NewTransactionManager(pool)
	postRepo := pgadapter.NewPostRepository(pool)
	s := &stack{
		users: pgadapter.NewUserRepository(pool),
		media: pgadapter.NewMediaRepository(pool),
		edges: pgadapter.NewEdgeRepository(pool),
	}
	s.posts = postsapp.NewPostsService(postRepo, s.media, memstore.NewObjects(), s.edges, tx, bus, log)
	s.comments = commentsapp.NewCommentsService(pgadapter.NewCommentRepository(pool), postRepo, s.edges, tx, bus, log)
	return s
}

func (s *stack) user(t *testing.T, username string) *usersdomain.User {
	t.Helper()
	u, err := usersdomain.NewUser("ext|"+uuid.NewString(), username+"@example.test", "")
	require.NoError(t, err)
	u.Username = username
	require.NoError(t, s.users.Create(context.Background(), u))
	return u
}

func (s *stack) post(t *testing.T, ownerID uuid.UUID) *postsdomain.Post {
	t.Helper()
	ctx := context.Background()
	media := postsdomain.NewMedia("https://bucket.example.test/"+uuid.NewString(), ownerID)
	require.NoError(t, s.media.Create(ctx, media))
	post, err := s.posts.CreatePost(ctx, ownerID, postsapp.CreatePostParams{MediaID: media.ID, Caption: "hello"})
	require.NoError(t, err)
	return post
}

func uniqueName(prefix string) string {
	return prefix + uuid.NewString()[:6]
}

func TestEdgeRepository_ConcurrentTogglesKeepOneRow(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	owner := s.user(t, uniqueName("own"))
	fan := s.user(t, uniqueName("fan"))
	post := s.post(t, owner.ID)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.posts.ToggleLike(ctx, fan.ID, post.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var rows int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM likes WHERE post_id = $1 AND user_id = $2", post.ID, fan.ID).Scan(&rows)
	require.NoError(t, err)
	assert.LessOrEqual(t, rows, 1)
}

func TestEdgeRepository_InsertTwiceReportsExisting(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	a := s.user(t, uniqueName("a"))
	b := s.user(t, uniqueName("b"))
	edge := relation.Edge{Kind: relation.KindFollow, SubjectID: b.ID, ActorID: a.ID}

	require.NoError(t, s.edges.Insert(ctx, edge))
	assert.ErrorIs(t, s.edges.Insert(ctx, edge), relation.ErrEdgeExists)

	exists, err := s.edges.Exists(ctx, edge)
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := s.edges.Delete(ctx, edge)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.edges.Delete(ctx, edge)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPostLifecycle_CascadesToLikesAndComments(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	owner := s.user(t, uniqueName("own"))
	fan := s.user(t, uniqueName("fan"))
	post := s.post(t, owner.ID)

	_, err := s.posts.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	comment, err := s.comments.CreateComment(ctx, fan.ID, commentsapp.CreateCommentParams{PostID: post.ID, Text: "nice"})
	require.NoError(t, err)
	_, err = s.comments.ToggleCommentLike(ctx, owner.ID, comment.ID)
	require.NoError(t, err)

	details, err := s.posts.GetPost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, details.UserLiked)
	assert.Equal(t, owner.Username, details.Author.Username)

	views, err := s.comments.ListComments(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].LikedByActor)
	assert.Equal(t, 1, views[0].LikeCount)

	require.NoError(t, s.posts.DeletePost(ctx, owner.ID, post.ID))

	for _, table := range []string{"likes", "comments", "comment_likes", "media"} {
		var n int
		require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+" WHERE "+ownerColumn(table)+" = ANY($1)",
			[]uuid.UUID{post.ID, post.MediaID, comment.ID}).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func ownerColumn(table string) string {
	switch table {
	case "comment_likes":
		return "comment_id"
	case "media":
		return "id"
	default:
		return "post_id"
	}
}

func TestMediaRepository_DeleteRefusedWhileAttached(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	owner := s.user(t, uniqueName("own"))
	post := s.post(t, owner.ID)

	err := s.media.Delete(ctx, post.MediaID)
	assert.Error(t, err)

	orphans, err := s.media.ListOrphans(ctx, time.Now().Add(time.Hour), 100)
	require.NoError(t, err)
	for _, m := range orphans {
		assert.NotEqual(t, post.MediaID, m.ID)
	}
}

func TestUserRepository_SearchEscapesWildcards(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	suffix := uuid.NewString()[:4]
	s.user(t, "ab_"+suffix)
	s.user(t, "abx"+suffix)

	found, err := s.users.Search(ctx, "AB_"+suffix, 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ab_"+suffix, found[0].Username)
}

func TestUserRepository_UsernameUnique(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	name := uniqueName("dup")
	s.user(t, name)
	other := s.user(t, uniqueName("oth"))

	other.Username = name
	err := s.users.Update(ctx, other)
	assert.Error(t, err)
}

func TestDemoSeeder_Idempotent(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	demo := usersseeder.NewDemoSeeder()

	require.NoError(t, demo.Seed(ctx, pool))
	require.NoError(t, demo.Seed(ctx, pool))

	ada, err := s.users.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	grace, err := s.users.FindByUsername(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, usersseeder.DemoUserID("seed|ada"), ada.ID)

	follows, err := s.edges.Exists(ctx, relation.Edge{Kind: relation.KindFollow, SubjectID: grace.ID, ActorID: ada.ID})
	require.NoError(t, err)
	assert.True(t, follows)
}
