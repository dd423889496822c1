package domain

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media is an uploaded image. It is recorded before the bytes reach the
// object store and stays an orphan until a Post references it.
type Media struct {
	ID        uuid.UUID
	URL       string
	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// NewMedia records the object URL with any query string removed, so the
// stored URL never carries signing parameters.
func NewMedia(objectURL string, ownerID uuid.UUID) *Media {
	return &Media{
		ID:        uuid.New(),
		URL:       StripQuery(objectURL),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
}

// ObjectKey is the final path segment of the URL.
func (m *Media) ObjectKey() string {
	if u, err := url.Parse(m.URL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(StripQuery(m.URL))
}

// StripQuery drops everything from the first '?'.
func StripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
