// Package store provides the directive storage interface and its file-log,
// in-memory, and SQLite implementations.
package store

import (
	"context"

	"github.com/andrewowest/Hypnosis/internal/model"
)

// Store defines the directive storage capability. A backend persists whole
// records and tombstone markers; it never interprets content or priority.
type Store interface {
	// Write durably persists a record. It must not return until the write
	// is acknowledged as durable.
	Write(ctx context.Context, d model.Directive) error

	// ReadAll returns every record in injection order, including tombstoned
	// ones (flagged via Tombstoned). Filtering is the caller's job.
	ReadAll(ctx context.Context) ([]model.Directive, error)

	// AppendTombstone marks the record with the given ID as deleted.
	AppendTombstone(ctx context.Context, id string) error

	// ReplaceAll atomically replaces the store contents with the given
	// records, preserving their order. Used by compaction.
	ReplaceAll(ctx context.Context, ds []model.Directive) error

	// Close releases the backing resources.
	Close() error
}
