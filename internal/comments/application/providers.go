package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for the comments application layer
var ProviderSet = wire.NewSet(
	NewCommentsService,
)
