// Package store keeps a history of computed distances.
//
// Two backends implement [Store]: [MemoryStore], a bounded in-process
// history used by default, and [MongoStore], which persists records to a
// MongoDB collection so several server instances share one history.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one stored distance result.
type Record struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name,omitempty"`
	Kind       string    `json:"kind"`
	Strategy   string    `json:"strategy"`
	Length     int       `json:"length"`
	Distance   int       `json:"distance"`
	Normalized float64   `json:"normalized"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewRecord returns a record with a fresh random ID and the current time.
func NewRecord(name, kind, strategy string, length, distance int, normalized float64) Record {
	return Record{
		ID:         uuid.New(),
		Name:       name,
		Kind:       kind,
		Strategy:   strategy,
		Length:     length,
		Distance:   distance,
		Normalized: normalized,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store persists records.
type Store interface {
	// Save appends a record to the history.
	Save(ctx context.Context, r Record) error

	// List returns up to limit records, newest first. limit <= 0 returns
	// every record the backend retains.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases the backend.
	Close(ctx context.Context) error
}
