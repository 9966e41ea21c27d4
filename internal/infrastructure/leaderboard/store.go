// Package leaderboard persists finished runs to a local msgpack file.
package leaderboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/younwookim/coopcrawl/internal/application/world"
)

// DefaultLimit is how many records a store keeps when none is given.
const DefaultLimit = 50

const fileVersion = 1

type file struct {
	Version int                 `msgpack:"version"`
	Records []world.ScoreRecord `msgpack:"records"`
}

// FileStore keeps the best runs in one file, ordered by level, then kills,
// then earliest timestamp.
type FileStore struct {
	mu    sync.Mutex
	path  string
	limit int
}

// NewFileStore creates a store at path. A limit <= 0 uses DefaultLimit.
func NewFileStore(path string, limit int) *FileStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &FileStore{path: path, limit: limit}
}

// Submit records rec, dropping the worst entries beyond the limit.
func (s *FileStore) Submit(ctx context.Context, rec world.ScoreRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, rec)
	sortRecords(records)
	if len(records) > s.limit {
		records = records[:s.limit]
	}
	return s.save(records)
}

// Top returns up to n best records. n <= 0 returns all of them.
func (s *FileStore) Top(n int) ([]world.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (s *FileStore) load() ([]world.ScoreRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var f file
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	if f.Version != fileVersion {
		return nil, fmt.Errorf("unsupported leaderboard version %d in %s", f.Version, s.path)
	}
	return f.Records, nil
}

// save writes through a temp file so a crash never leaves a torn file.
func (s *FileStore) save(records []world.ScoreRecord) error {
	data, err := msgpack.Marshal(&file{Version: fileVersion, Records: records})
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

func sortRecords(records []world.ScoreRecord) {
	slices.SortStableFunc(records, func(a, b world.ScoreRecord) int {
		return cmp.Or(
			cmp.Compare(b.Level, a.Level),
			cmp.Compare(b.Kills, a.Kills),
			a.Timestamp.Compare(b.Timestamp),
		)
	})
}
