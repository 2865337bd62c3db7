// Package session persists workbench view states between requests.
//
// A session is addressed by its id (UUID v7) and expires after a sliding TTL:
// every Load or Save pushes the expiry forward. Values are stored as JSON so
// that both implementations hand out independent copies.
package session

import (
	"context"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// Store keeps one value of T per session id.
type Store[T any] interface {
	// Create stores a new session. It fails with a conflict if id is taken.
	Create(ctx context.Context, id string, value T) error
	// Load returns the session, or apperr NotFound when it expired or never existed.
	Load(ctx context.Context, id string) (T, error)
	// Save replaces an existing session. It does not resurrect expired ones.
	Save(ctx context.Context, id string, value T) error
	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

var (
	errSessionNotFound = apperr.NotFound("Workbench session")
	errSessionExists   = apperr.Conflict("Workbench session already exists")
)

func ttlOrDefault(ttl, fallback time.Duration) time.Duration {
	if ttl <= 0 {
		return fallback
	}
	return ttl
}
