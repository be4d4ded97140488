package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/andrewowest/Hypnosis/internal/model"
)

// logLine is the wire form of one line in the log file: either a full record
// or a minimal tombstone marker ({"id":...,"tombstone":true}).
type logLine struct {
	ID        string         `json:"id"`
	Content   string         `json:"content,omitempty"`
	Priority  float64        `json:"priority,omitempty"`
	Category  string         `json:"category,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
	Tombstone bool           `json:"tombstone,omitempty"`
}

// FileStore implements Store as an append-only newline-delimited JSON log.
// Every append is a single complete line, flushed and fsynced before the
// write returns. Deletion appends a tombstone marker; only ReplaceAll
// rewrites the file, via a temp file and an atomic rename.
type FileStore struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// NewFileStore opens or creates a log file at the given path.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open store file: %w", err)
	}
	return &FileStore{path: path, f: f}, nil
}

func (s *FileStore) Write(ctx context.Context, d model.Directive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLine(logLine{
		ID:        d.ID,
		Content:   d.Content,
		Priority:  d.Priority,
		Category:  d.Category,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	})
}

func (s *FileStore) AppendTombstone(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLine(logLine{ID: id, Tombstone: true})
}

// appendLine writes one complete line and fsyncs. Caller holds mu.
func (s *FileStore) appendLine(ln logLine) error {
	b, err := json.Marshal(ln)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := s.f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync store file: %w", err)
	}
	return nil
}

func (s *FileStore) ReadAll(ctx context.Context) ([]model.Directive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAllLocked()
}

func (s *FileStore) readAllLocked() ([]model.Directive, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	var ds []model.Directive
	byID := make(map[string]int)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ln logLine
		if err := json.Unmarshal(line, &ln); err != nil {
			// Skip unparsable lines rather than failing the whole read;
			// a torn tail line after a crash must not poison the log.
			continue
		}
		if ln.Tombstone {
			if i, ok := byID[ln.ID]; ok {
				ds[i].Tombstoned = true
			}
			continue
		}
		byID[ln.ID] = len(ds)
		ds = append(ds, model.Directive{
			ID:        ln.ID,
			Content:   ln.Content,
			Priority:  ln.Priority,
			Category:  ln.Category,
			Metadata:  ln.Metadata,
			CreatedAt: ln.CreatedAt,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan store file: %w", err)
	}
	return ds, nil
}

func (s *FileStore) ReplaceAll(ctx context.Context, ds []model.Directive) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".directives-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, d := range ds {
		b, err := json.Marshal(logLine{
			ID:        d.ID,
			Content:   d.Content,
			Priority:  d.Priority,
			Category:  d.Category,
			Metadata:  d.Metadata,
			CreatedAt: d.CreatedAt,
		})
		if err != nil {
			tmp.Close()
			return fmt.Errorf("encode record: %w", err)
		}
		w.Write(b)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("swap store file: %w", err)
	}

	// The old append handle points at the replaced inode; reopen.
	s.f.Close()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reopen store file: %w", err)
	}
	s.f = f
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
