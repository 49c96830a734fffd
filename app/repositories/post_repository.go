package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements Store using BadgerDB, one JSON document per key.
type BadgerPostRepository struct {
	db    *badger.DB
	owned bool
}

// NewBadgerPostRepository creates a new BadgerPostRepository on a caller-owned DB.
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	post.ID = newID()
	post.BeforeCreate()

	data, err := marshalEntity(post)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(postKey(post.ID), data)
	})
}

// CreateMany inserts posts in a single write batch.
func (r *BadgerPostRepository) CreateMany(ctx context.Context, posts []*models.BlogPost) error {
	wb := r.db.NewWriteBatch()
	defer wb.Cancel()

	for _, post := range posts {
		post.ID = newID()
		post.BeforeCreate()

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		if err := wb.Set(postKey(post.ID), data); err != nil {
			return fmt.Errorf("failed to queue post %s: %w", post.ID, err)
		}
	}
	return wb.Flush()
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	if !isValidID(id) {
		return nil, ErrNotFound
	}

	var post models.BlogPost
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post in key order.
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.BlogPost, error) {
	posts := make([]*models.BlogPost, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(PostKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var post models.BlogPost
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update applies the present fields of update to an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, id string, update models.PostUpdate) error {
	if !isValidID(id) {
		return ErrNotFound
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var post models.BlogPost
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}
		update.Apply(&post)

		data, err := marshalEntity(&post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID. Deleting a missing post is not an error.
func (r *BadgerPostRepository) Delete(ctx context.Context, id string) error {
	if !isValidID(id) {
		return nil
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(postKey(id))
	})
}

// Count returns the number of stored posts.
func (r *BadgerPostRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(PostKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (r *BadgerPostRepository) Ping(ctx context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return nil
}

func (r *BadgerPostRepository) DropAll(ctx context.Context) error {
	return r.db.DropAll()
}

// Close closes the DB if this repository opened it.
func (r *BadgerPostRepository) Close(ctx context.Context) error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}

// Backup streams a full backup of the database to w.
func (r *BadgerPostRepository) Backup(w io.Writer) error {
	if _, err := r.db.Backup(w, 0); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup.
func (r *BadgerPostRepository) Restore(rd io.Reader) error {
	if err := r.db.Load(rd, 16); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}
