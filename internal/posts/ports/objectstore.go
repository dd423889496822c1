package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PresignPutInput binds a presigned PUT to exactly the declared object.
type PresignPutInput struct {
	Key            string
	ContentType    string
	ContentLength  int64
	ChecksumSHA256 string
	Metadata       map[string]string
	Expires        time.Duration
}

// ObjectStore is the blob namespace media lives in.
type ObjectStore interface {
	PresignPut(ctx context.Context, in PresignPutInput) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// UploadLimiter throttles upload handshakes per user.
type UploadLimiter interface {
	Allow(ctx context.Context, actorID uuid.UUID) (bool, error)
}
