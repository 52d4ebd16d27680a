// Package store persists the application-state document as one opaque
// record under a fixed key. Every save writes the whole document; partial
// updates are not supported.
package store

import (
	"context"

	"github.com/claude/setlog/internal/models"
)

// stateKey is the fixed key the document is stored under.
const stateKey = "setlog-state"

// Store is the persistence contract consumed by the engine. Load returns
// (nil, nil) when no document has been saved yet.
type Store interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	Clear(ctx context.Context) error
	Close() error
}
