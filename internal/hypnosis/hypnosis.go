// Package hypnosis implements directive injection, recall, and forgetting on
// top of a storage backend.
package hypnosis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/andrewowest/Hypnosis/internal/model"
	"github.com/andrewowest/Hypnosis/internal/store"
)

var (
	// ErrInvalidPriority marks an unknown level name or a score outside [0, 1].
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrEmptyDirective marks content that is blank after trimming.
	ErrEmptyDirective = errors.New("empty directive")
	// ErrStorageWrite marks a backend failure while persisting; nothing was stored.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageRead marks a backend failure while reading; no partial result.
	ErrStorageRead = errors.New("storage read failed")
)

// Options configures a Hypnotizer.
type Options struct {
	// DefaultPriority is used when Inject is called without a priority spec.
	DefaultPriority float64
	// CompactAfter triggers compaction once this many tombstones accumulate.
	// 0 disables automatic compaction; Compact can always be called directly.
	CompactAfter int
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{DefaultPriority: 0.95}
}

// Hypnotizer injects directives into an agent's long-term memory with
// guaranteed persistence. All operations are synchronous: a write either
// durably completes or fails.
type Hypnotizer struct {
	mu       sync.Mutex
	store    store.Store
	opts     Options
	entropy  *ulid.MonotonicEntropy
	lastTick int64
}

// New creates a Hypnotizer backed by the given store.
func New(st store.Store, opts Options) *Hypnotizer {
	return &Hypnotizer{
		store:   st,
		opts:    opts,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// nextTimestamp returns a strictly increasing timestamp, so injection order
// stays total even under coarse wall-clock resolution. Caller holds mu.
func (h *Hypnotizer) nextTimestamp() time.Time {
	now := time.Now().UTC().UnixNano()
	if now <= h.lastTick {
		now = h.lastTick + 1
	}
	h.lastTick = now
	return time.Unix(0, now).UTC()
}

// newID returns a fresh ULID. Monotonic entropy keeps IDs unique even when
// several directives land in the same millisecond. Caller holds mu.
func (h *Hypnotizer) newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), h.entropy).String()
}

// InjectParams holds parameters for injecting a directive.
type InjectParams struct {
	Content  string
	Priority string // level name or decimal score; empty uses the default
	Category string
	Metadata map[string]any
}

// Inject persists a directive and returns the stored record. The write is
// synchronous and durable; on error nothing was persisted and the caller
// must retry explicitly.
func (h *Hypnotizer) Inject(ctx context.Context, p InjectParams) (*model.Directive, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is blank", ErrEmptyDirective)
	}
	score, err := resolvePriority(p.Priority, h.opts.DefaultPriority)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.nextTimestamp()
	d := model.Directive{
		ID:        h.newID(now),
		Content:   content,
		Priority:  score,
		Category:  p.Category,
		Metadata:  p.Metadata,
		CreatedAt: now,
	}
	if err := h.store.Write(ctx, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return &d, nil
}

// RecallParams holds filters for retrieving directives. All filters are
// optional and combined with AND.
type RecallParams struct {
	Query       string  // case-insensitive substring match on content
	Category    string  // exact match
	MinPriority float64 // inclusive lower bound
}

// Recall returns matching live directives sorted by priority descending,
// most recent first among equals. The result is a materialized slice the
// caller owns; no match yields an empty slice, not an error.
func (h *Hypnotizer) Recall(ctx context.Context, p RecallParams) ([]model.Directive, error) {
	ds, err := h.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	q := strings.ToLower(p.Query)
	out := make([]model.Directive, 0, len(ds))
	for _, d := range ds {
		if d.Tombstoned {
			continue
		}
		if p.Category != "" && d.Category != p.Category {
			continue
		}
		if d.Priority < p.MinPriority {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(d.Content), q) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Forget tombstones a directive. Returns true if the directive existed and
// was live; a missing or already-forgotten ID returns false, not an error.
func (h *Hypnotizer) Forget(ctx context.Context, id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ds, err := h.store.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	found := false
	tombstones := 0
	for _, d := range ds {
		if d.Tombstoned {
			tombstones++
		} else if d.ID == id {
			found = true
		}
	}
	if !found {
		return false, nil
	}

	if err := h.store.AppendTombstone(ctx, id); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	tombstones++

	if h.opts.CompactAfter > 0 && tombstones >= h.opts.CompactAfter {
		// The tombstone is already durable, so the forget stands even if
		// compaction fails; the error is still the caller's to see.
		if err := h.compactLocked(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

// Compact rewrites the store keeping only live directives, in their original
// relative order.
func (h *Hypnotizer) Compact(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.compactLocked(ctx)
}

func (h *Hypnotizer) compactLocked(ctx context.Context) error {
	ds, err := h.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	survivors := make([]model.Directive, 0, len(ds))
	for _, d := range ds {
		if !d.Tombstoned {
			survivors = append(survivors, d)
		}
	}
	if err := h.store.ReplaceAll(ctx, survivors); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return nil
}

// Categories returns the sorted unique categories of live directives.
func (h *Hypnotizer) Categories(ctx context.Context) ([]string, error) {
	ds, err := h.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	seen := make(map[string]bool)
	var out []string
	for _, d := range ds {
		if d.Tombstoned || d.Category == "" || seen[d.Category] {
			continue
		}
		seen[d.Category] = true
		out = append(out, d.Category)
	}
	sort.Strings(out)
	return out, nil
}
