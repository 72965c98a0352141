package storage

import (
	"context"

	"brs/internal/models"
)

// HotStore is the mutable document tier. All writes go here; the migration
// sweep is the only component that deletes on behalf of archival.
type HotStore interface {
	// Create stores a new record. models.ErrDuplicateID on id collision.
	Create(record models.Record) (models.Record, error)
	// Read performs a point lookup by id and falls back to a query when the
	// point path fails, so a partition quirk never reads as absence.
	// models.ErrNotFound when the record is truly absent.
	Read(id string) (models.Record, error)
	// Query runs a filter clause with bound vars, e.g.
	// "WHERE created_date < $cutoff ORDER BY created_date".
	Query(clause string, vars map[string]any) ([]models.Record, error)
	// Replace overwrites the record stored under id.
	Replace(id string, record models.Record) (models.Record, error)
	// Delete removes the record. models.ErrNotFound when absent.
	Delete(id string) error
	Close()
}

// BlobInfo describes one cold-tier entry for listing consumers.
type BlobInfo struct {
	Name     string
	Size     int64
	Metadata map[string]string
}

// ColdStore is the immutable blob tier. Entries are only ever written by
// the migration sweep and never deleted by this system.
type ColdStore interface {
	// EnsureContainer creates the container when absent. Idempotent: an
	// already-existing container is not an error.
	EnsureContainer(ctx context.Context) error
	// Put overwrites the blob at key with data and metadata.
	Put(ctx context.Context, key string, data []byte, metadata map[string]string) error
	// Get returns the blob payload. models.ErrNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}
