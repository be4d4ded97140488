// Package model defines the core directive data types.
package model

import "time"

// Directive represents a stored directive record. Records are immutable once
// written; forgetting appends a tombstone marker rather than editing in place.
type Directive struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Priority   float64        `json:"priority"`
	Category   string         `json:"category,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Tombstoned bool           `json:"-"`
}

// PriorityLevels maps symbolic priority names to their scores. The names and
// values are a stable public vocabulary; new levels may be added but existing
// values never change.
var PriorityLevels = map[string]float64{
	"critical": 0.99,
	"high":     0.95,
	"medium":   0.85,
	"low":      0.75,
}
