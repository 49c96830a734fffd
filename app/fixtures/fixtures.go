// Package fixtures generates random blog posts for seeding a store.
package fixtures

import (
	"context"
	"fmt"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
)

// DefaultSeedCount is how many posts Seed inserts when asked for none.
const DefaultSeedCount = 10

// GenerateBlogPost returns an unsaved post with random author, title and content.
func GenerateBlogPost() *models.BlogPost {
	return &models.BlogPost{
		Author: models.Author{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
		},
		Title:   gofakeit.JobTitle(),
		Content: gofakeit.Paragraph(1, 4, 12, " "),
	}
}

// GenerateBlogPosts returns n unsaved posts.
func GenerateBlogPosts(n int) []*models.BlogPost {
	posts := make([]*models.BlogPost, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, GenerateBlogPost())
	}
	return posts
}

// Seed inserts n generated posts and returns them with their assigned ids.
func Seed(ctx context.Context, repo repositories.PostRepository, n int, log logrus.FieldLogger) ([]*models.BlogPost, error) {
	if n <= 0 {
		n = DefaultSeedCount
	}
	log.WithField("count", n).Info("seeding blog data")

	posts := GenerateBlogPosts(n)
	if err := repo.CreateMany(ctx, posts); err != nil {
		return nil, fmt.Errorf("seed %d posts: %w", n, err)
	}
	return posts, nil
}

// Wipe removes every post from store.
func Wipe(ctx context.Context, store repositories.Store, log logrus.FieldLogger) error {
	log.Warn("deleting all blog posts")
	if err := store.DropAll(ctx); err != nil {
		return fmt.Errorf("wipe posts: %w", err)
	}
	return nil
}
