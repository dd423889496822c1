package postgres

import (
	"github.com/google/wire"
	commentsports "github.com/philly/snapgram/internal/comments/ports"
	"github.com/philly/snapgram/internal/platform/postgres"
	"github.com/philly/snapgram/internal/platform/relation"
	"github.com/philly/snapgram/internal/platform/transaction"
	postsports "github.com/philly/snapgram/internal/posts/ports"
	usersports "github.com/philly/snapgram/internal/users/ports"
)

// ProviderSet is the wire provider set for postgres repositories
var ProviderSet = wire.NewSet(
	NewUserRepository,
	wire.Bind(new(usersports.UserRepository), new(*UserRepository)),
	NewProfileReader,
	wire.Bind(new(usersports.ProfileReader), new(*ProfileReader)),

	NewPostRepository,
	wire.Bind(new(postsports.PostRepository), new(*PostRepository)),
	wire.Bind(new(commentsports.PostChecker), new(*PostRepository)),
	NewMediaRepository,
	wire.Bind(new(postsports.MediaRepository), new(*MediaRepository)),

	NewCommentRepository,
	wire.Bind(new(commentsports.CommentRepository), new(*CommentRepository)),

	NewEdgeRepository,
	wire.Bind(new(relation.EdgeStore), new(*EdgeRepository)),

	postgres.NewTransactionManager,
	wire.Bind(new(transaction.Manager), new(*postgres.TransactionManager)),
)
