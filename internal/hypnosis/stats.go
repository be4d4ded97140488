package hypnosis

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// Stats holds store statistics.
type Stats struct {
	StorePath       string   `json:"store_path,omitempty"`
	StoreSizeBytes  int64    `json:"store_size_bytes,omitempty"`
	TotalDirectives int      `json:"total_directives"`
	LiveDirectives  int      `json:"live_directives"`
	Tombstoned      int      `json:"tombstoned"`
	Categories      []string `json:"categories,omitempty"`
}

// Stats returns record counts and, when storePath is set, the size of the
// backing file.
func (h *Hypnotizer) Stats(ctx context.Context, storePath string) (*Stats, error) {
	ds, err := h.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	st := &Stats{StorePath: storePath}
	if storePath != "" {
		if info, err := os.Stat(storePath); err == nil {
			st.StoreSizeBytes = info.Size()
		}
	}

	seen := make(map[string]bool)
	for _, d := range ds {
		st.TotalDirectives++
		if d.Tombstoned {
			st.Tombstoned++
			continue
		}
		st.LiveDirectives++
		if d.Category != "" && !seen[d.Category] {
			seen[d.Category] = true
			st.Categories = append(st.Categories, d.Category)
		}
	}
	sort.Strings(st.Categories)
	return st, nil
}
