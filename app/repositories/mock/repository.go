package mock

import (
	"context"
	"errors"
	"sync"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrClosed is returned by every call after Close.
var ErrClosed = errors.New("mock: store is closed")

// PostRepository is an in-memory repositories.Store. Posts are copied on the way in
// and out so callers cannot mutate stored state behind its back.
type PostRepository struct {
	posts  map[string]models.BlogPost
	order  []string
	closed bool
	mutex  sync.RWMutex

	// Err, when set, is returned by every operation.
	Err error
}

var _ repositories.Store = (*PostRepository)(nil)

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts: make(map[string]models.BlogPost),
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.posts = make(map[string]models.BlogPost)
	m.order = nil
}

func (m *PostRepository) fail() error {
	if m.Err != nil {
		return m.Err
	}
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *PostRepository) insert(post *models.BlogPost) {
	post.ID = primitive.NewObjectID().Hex()
	post.BeforeCreate()
	m.posts[post.ID] = *post
	m.order = append(m.order, post.ID)
}

func (m *PostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.fail(); err != nil {
		return err
	}
	m.insert(post)
	return nil
}

func (m *PostRepository) CreateMany(ctx context.Context, posts []*models.BlogPost) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.fail(); err != nil {
		return err
	}
	for _, post := range posts {
		m.insert(post)
	}
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.BlogPost, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if err := m.fail(); err != nil {
		return nil, err
	}
	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &post, nil
}

func (m *PostRepository) List(ctx context.Context) ([]*models.BlogPost, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if err := m.fail(); err != nil {
		return nil, err
	}
	posts := make([]*models.BlogPost, 0, len(m.order))
	for _, id := range m.order {
		post := m.posts[id]
		posts = append(posts, &post)
	}
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, id string, update models.PostUpdate) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.fail(); err != nil {
		return err
	}
	post, exists := m.posts[id]
	if !exists {
		return repositories.ErrNotFound
	}
	update.Apply(&post)
	m.posts[id] = post
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.fail(); err != nil {
		return err
	}
	if _, exists := m.posts[id]; !exists {
		return nil
	}
	delete(m.posts, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *PostRepository) Count(ctx context.Context) (int64, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if err := m.fail(); err != nil {
		return 0, err
	}
	return int64(len(m.posts)), nil
}

func (m *PostRepository) Ping(ctx context.Context) error {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.fail()
}

func (m *PostRepository) DropAll(ctx context.Context) error {
	if err := m.Ping(ctx); err != nil {
		return err
	}
	m.Clear()
	return nil
}

func (m *PostRepository) Close(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}
