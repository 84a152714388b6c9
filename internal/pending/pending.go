package pending

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// TTL is how long a parked analysis request stays resumable.
const TTL = 30 * time.Minute

var (
	// ErrExpired covers both unknown and timed-out request ids.
	ErrExpired = errors.New("pending request expired or not found")
	// ErrOwnerMismatch means the id exists but belongs to another user.
	// The request is purged when this is returned.
	ErrOwnerMismatch = errors.New("pending request belongs to another user")
)

// AnalysisRequest is an analysis parked while the client extracts the
// source document text on its side.
type AnalysisRequest struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"ownerId"`
	Mode          string            `json:"mode"`
	Answers       map[string]string `json:"answers,omitempty"`
	SecondaryText string            `json:"secondaryText,omitempty"`
	SourceFileKey string            `json:"sourceFileKey,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Store parks and resumes analysis requests. Consume removes the request
// atomically so concurrent resumes cannot both succeed.
type Store interface {
	Put(ctx context.Context, req AnalysisRequest) error
	Consume(ctx context.Context, id string, ownerID string) (AnalysisRequest, error)
}

// NewRequestID builds an id unique enough for a 30-minute window.
func NewRequestID(ownerID string) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// math-free fallback keeps ids usable even if the entropy pool fails
		copy(buf, fmt.Sprintf("%08x", time.Now().UnixNano()))
	}
	return fmt.Sprintf("ptd_%s_%d_%s", ownerID, time.Now().Unix(), hex.EncodeToString(buf))
}
