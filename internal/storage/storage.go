// Package storage provides durable persistence for the entry list. Two
// backends are available: a local JSON file for single-desk installs and a
// PostgreSQL database for shared ones. Both satisfy register.Store.
package storage

import (
	"context"

	"github.com/rlourenco/bicicletario/internal/models"
)

// Store persists the full entry list. Implementations must be durable
// across process restarts. Callers treat saves as
// at-least-once-on-success and never retry on failure.
type Store interface {
	SaveEntries(ctx context.Context, entries []models.Entry) error
	LoadEntries(ctx context.Context) ([]models.Entry, error)
}
