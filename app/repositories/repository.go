package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrUnsupportedURL = errors.New("unsupported database url")
)

const (
	MemoryURL    = "memory://"
	badgerScheme = "badger://"
)

// Open connects to the store named by rawURL:
//
//	mongodb://host/db, mongodb+srv://...  MongoDB
//	badger:///path/to/dir                 Badger on disk
//	memory://                             Badger in memory
func Open(ctx context.Context, rawURL string) (Store, error) {
	switch {
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		return OpenMongo(ctx, rawURL)
	case rawURL == MemoryURL:
		return OpenBadger("")
	case strings.HasPrefix(rawURL, badgerScheme):
		path := strings.TrimPrefix(rawURL, badgerScheme)
		if path == "" {
			return nil, fmt.Errorf("%w: badger url needs a directory", ErrUnsupportedURL)
		}
		return OpenBadger(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
}

// OpenBadger opens a Badger-backed store at path. An empty path keeps everything in memory.
func OpenBadger(path string) (*BadgerPostRepository, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.
		WithLogger(nil).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	repo := NewBadgerPostRepository(db)
	repo.owned = true
	return repo, nil
}
