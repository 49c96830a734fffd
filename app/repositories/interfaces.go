package repositories

import (
	"context"
	"io"

	"blogapi/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	CreateMany(ctx context.Context, posts []*models.BlogPost) error
	GetByID(ctx context.Context, id string) (*models.BlogPost, error)
	List(ctx context.Context) ([]*models.BlogPost, error)
	Update(ctx context.Context, id string, update models.PostUpdate) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// Store is a PostRepository that owns its underlying connection.
type Store interface {
	PostRepository
	Ping(ctx context.Context) error
	// DropAll removes every post. Intended for tests and the clean command.
	DropAll(ctx context.Context) error
	Close(ctx context.Context) error
}

// Archiver is implemented by stores that can stream a full backup.
type Archiver interface {
	Backup(w io.Writer) error
	Restore(r io.Reader) error
}
