package services

import (
	"context"
	"errors"
	"fmt"

	"blogapi/app/metrics"
	"blogapi/app/models"
	"blogapi/app/repositories"
)

var (
	// ErrInvalidPost wraps validation failures of a create or update payload.
	ErrInvalidPost = errors.New("invalid post")
	// ErrIDMismatch is returned when an update body names a different post than the path.
	ErrIDMismatch = errors.New("request path id and request body id must match")
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost validates and stores a new post. ID and Created are assigned by the store.
func (s *PostService) CreatePost(ctx context.Context, post *models.BlogPost) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPost, err)
	}
	post.ID = ""

	observe := metrics.StartStoreOp("create")
	err := s.postRepo.Create(ctx, post)
	observe(err)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	metrics.RecordMutation("create")
	return nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id string) (*models.BlogPost, error) {
	observe := metrics.StartStoreOp("get")
	post, err := s.postRepo.GetByID(ctx, id)
	observe(err)
	return post, err
}

// ListPosts retrieves every post
func (s *PostService) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	observe := metrics.StartStoreOp("list")
	posts, err := s.postRepo.List(ctx)
	observe(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdatePost applies update to the post with the given id. The post's id and creation
// time are never changed.
func (s *PostService) UpdatePost(ctx context.Context, id string, update models.PostUpdate) error {
	if update.ID != "" && update.ID != id {
		return fmt.Errorf("%w: path %q, body %q", ErrIDMismatch, id, update.ID)
	}
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPost, err)
	}

	observe := metrics.StartStoreOp("update")
	err := s.postRepo.Update(ctx, id, update)
	observe(err)
	if err != nil {
		return err
	}
	metrics.RecordMutation("update")
	return nil
}

// DeletePost removes a post. Removing a post that does not exist succeeds.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	observe := metrics.StartStoreOp("delete")
	err := s.postRepo.Delete(ctx, id)
	observe(err)
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	metrics.RecordMutation("delete")
	return nil
}
