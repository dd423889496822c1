package domain

import (
	"crypto/rand"
	"encoding/hex"
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	MaxUploadBytes int64 = 8 * 1024 * 1024
	UploadURLTTL         = 60 * time.Second
	objectKeyBytes       = 32
)

// AllowedContentTypes is the upload allow-list.
var AllowedContentTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// Upload failure reasons. They are shown to the end user as-is.
const (
	ReasonNotSignedIn     = "You must be signed in to upload posts."
	ReasonInvalidType     = "Invalid file type"
	ReasonTooLarge        = "File is too large"
	ReasonEmpty           = "File is empty"
	ReasonMissingChecksum = "Missing file checksum"
	ReasonRateLimited     = "Too many uploads, try again later"
)

// UploadRequest describes the file a client is about to upload.
type UploadRequest struct {
	ContentType string
	SizeBytes   int64
	Checksum    string // base64 SHA-256 of the content
}

// Rejection returns the reason the request cannot be accepted, or "".
func (r UploadRequest) Rejection() string {
	switch {
	case !slices.Contains(AllowedContentTypes, r.ContentType):
		return ReasonInvalidType
	case r.SizeBytes <= 0:
		return ReasonEmpty
	case r.SizeBytes > MaxUploadBytes:
		return ReasonTooLarge
	case r.Checksum == "":
		return ReasonMissingChecksum
	}
	return ""
}

// UploadTicket authorises one direct upload.
type UploadTicket struct {
	URL     string
	MediaID uuid.UUID
}

// UploadResult holds either a Ticket or a FailureReason, never both.
type UploadResult struct {
	Ticket        *UploadTicket
	FailureReason string
}

func (r UploadResult) OK() bool { return r.Ticket != nil }

func Rejected(reason string) UploadResult {
	return UploadResult{FailureReason: reason}
}

// NewObjectKey returns 32 random bytes, hex encoded.
func NewObjectKey() (string, error) {
	buf := make([]byte, objectKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
