package sales

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Store caches the loaded table for one dataset file, keyed by the file's
// modification time and size. Get revalidates with a single stat call and
// reloads when the underlying file changed, so there is no process-wide
// state with undefined invalidation.
type Store struct {
	path   string
	loader *Loader
	logger *slog.Logger

	mu      sync.Mutex
	table   *Table
	modTime time.Time
	size    int64
}

// NewStore creates a store for the dataset at path.
func NewStore(path string, loader *Loader, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		loader: loader,
		logger: logger.With(slog.String("component", "sales.store")),
	}
}

// Path returns the dataset file path the store watches.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached table, reloading it when the dataset file's
// modification time or size changed since the last load. Load failures drop
// the cached copy: a dataset that disappeared or went bad must not keep
// serving stale data.
func (s *Store) Get(ctx context.Context) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		s.table = nil
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: s.path}
		}
		return nil, err
	}

	if s.table != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.table, nil
	}

	table, err := s.loader.Load(ctx, s.path)
	if err != nil {
		s.table = nil
		return nil, err
	}

	s.table = table
	s.modTime = info.ModTime()
	s.size = info.Size()

	s.logger.InfoContext(ctx, "dataset cache refreshed",
		slog.String("path", s.path),
		slog.Int("rows", table.Len()),
		slog.Time("mod_time", s.modTime))

	return table, nil
}

// Invalidate drops the cached table so the next Get reloads from disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = nil
}
