package fixtures

import (
	"context"
	"io"
	"testing"

	"blogapi/app/repositories/mock"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestGenerateBlogPost(t *testing.T) {
	post := GenerateBlogPost()

	assert.NotEmpty(t, post.Author.FirstName)
	assert.NotEmpty(t, post.Author.LastName)
	assert.NotEmpty(t, post.Title)
	assert.NotEmpty(t, post.Content)
	assert.Empty(t, post.ID)
	assert.NoError(t, post.Validate())
}

func TestGenerateBlogPosts(t *testing.T) {
	posts := GenerateBlogPosts(5)
	assert.Len(t, posts, 5)
	for _, p := range posts {
		assert.NoError(t, p.Validate())
	}
	assert.Empty(t, GenerateBlogPosts(0))
}

func TestSeedAndWipe(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewPostRepository()
	log := quietLogger()

	posts, err := Seed(ctx, repo, 10, log)
	require.NoError(t, err)
	assert.Len(t, posts, 10)
	for _, p := range posts {
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.Created.IsZero())
	}

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, n)

	require.NoError(t, Wipe(ctx, repo, log))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedDefaultCount(t *testing.T) {
	repo := mock.NewPostRepository()
	posts, err := Seed(context.Background(), repo, 0, quietLogger())
	require.NoError(t, err)
	assert.Len(t, posts, DefaultSeedCount)
}

func TestSeedStoreError(t *testing.T) {
	repo := mock.NewPostRepository()
	repo.Err = assert.AnError

	_, err := Seed(context.Background(), repo, 3, quietLogger())
	assert.ErrorIs(t, err, assert.AnError)

	assert.ErrorIs(t, Wipe(context.Background(), repo, quietLogger()), assert.AnError)
}
