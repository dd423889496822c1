package memstore

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/philly/snapgram/internal/posts/ports"
)

// Objects records presign and delete calls instead of talking to a bucket.
type Objects struct {
	mu        sync.Mutex
	BaseURL   string
	Presigned []ports.PresignPutInput
	Deleted   []string
	// DeleteErr, when set, is returned by DeleteObject.
	DeleteErr error
}

var _ ports.ObjectStore = (*Objects)(nil)

func NewObjects() *Objects {
	return &Objects{BaseURL: "https://bucket.example.test"}
}

func (o *Objects) PresignPut(ctx context.Context, in ports.PresignPutInput) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Presigned = append(o.Presigned, in)
	q := url.Values{"X-Amz-Expires": {fmt.Sprint(int(in.Expires.Seconds()))}, "X-Amz-Signature": {"sig"}}
	return o.BaseURL + "/" + in.Key + "?" + q.Encode(), nil
}

func (o *Objects) DeleteObject(ctx context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.DeleteErr != nil {
		return o.DeleteErr
	}
	o.Deleted = append(o.Deleted, key)
	return nil
}

func (o *Objects) DeletedKeys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.Deleted...)
}

// Limiter allows the first Budget calls per actor. A negative Budget never
// limits; Err makes every call fail.
type Limiter struct {
	mu     sync.Mutex
	Budget int
	Err    error
	calls  map[uuid.UUID]int
}

var _ ports.UploadLimiter = (*Limiter)(nil)

func (l *Limiter) Allow(ctx context.Context, actorID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return false, l.Err
	}
	if l.calls == nil {
		l.calls = make(map[uuid.UUID]int)
	}
	l.calls[actorID]++
	return l.Budget < 0 || l.calls[actorID] <= l.Budget, nil
}
