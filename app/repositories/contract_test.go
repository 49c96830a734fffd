package repositories

import (
	"context"
	"testing"
	"time"

	"blogapi/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(title string) *models.BlogPost {
	return &models.BlogPost{
		Author:  models.Author{FirstName: "Jane", LastName: "Doe"},
		Title:   title,
		Content: "Content for " + title,
	}
}

func strPtr(s string) *string { return &s }

// runStoreContract exercises the behavior every Store backend must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	t.Cleanup(func() { _ = store.DropAll(ctx) })

	t.Run("create and get post", func(t *testing.T) {
		post := newTestPost("Create")
		require.NoError(t, store.Create(ctx, post))
		assert.True(t, isValidID(post.ID))
		assert.False(t, post.Created.IsZero())

		retrieved, err := store.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, retrieved.ID)
		assert.Equal(t, post.Title, retrieved.Title)
		assert.Equal(t, post.Content, retrieved.Content)
		assert.Equal(t, post.Author, retrieved.Author)
		assert.True(t, post.Created.Equal(retrieved.Created))
	})

	t.Run("create keeps supplied created", func(t *testing.T) {
		created := time.Date(2019, 5, 6, 7, 8, 9, 0, time.UTC)
		post := newTestPost("Dated")
		post.Created = created
		require.NoError(t, store.Create(ctx, post))

		retrieved, err := store.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.True(t, created.Equal(retrieved.Created))
	})

	t.Run("get unknown post", func(t *testing.T) {
		_, err := store.GetByID(ctx, newID())
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.GetByID(ctx, "malformed")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create many, list and count", func(t *testing.T) {
		require.NoError(t, store.DropAll(ctx))

		posts := []*models.BlogPost{newTestPost("A"), newTestPost("B"), newTestPost("C")}
		require.NoError(t, store.CreateMany(ctx, posts))

		ids := make(map[string]bool)
		for _, p := range posts {
			require.NotEmpty(t, p.ID)
			ids[p.ID] = true
		}
		assert.Len(t, ids, 3)

		listed, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 3)
		for _, p := range listed {
			assert.True(t, ids[p.ID], "unexpected id %s", p.ID)
		}

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})

	t.Run("update replaces only given fields", func(t *testing.T) {
		post := newTestPost("Original")
		require.NoError(t, store.Create(ctx, post))

		err := store.Update(ctx, post.ID, models.PostUpdate{
			Title:  strPtr("Updated"),
			Author: &models.Author{FirstName: "John", LastName: "Smith"},
		})
		require.NoError(t, err)

		updated, err := store.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", updated.Title)
		assert.Equal(t, post.Content, updated.Content)
		assert.Equal(t, "John Smith", updated.AuthorName())
		assert.Equal(t, post.ID, updated.ID)
		assert.True(t, post.Created.Equal(updated.Created))
	})

	t.Run("empty update of existing post", func(t *testing.T) {
		post := newTestPost("Untouched")
		require.NoError(t, store.Create(ctx, post))
		assert.NoError(t, store.Update(ctx, post.ID, models.PostUpdate{}))
	})

	t.Run("update unknown post", func(t *testing.T) {
		err := store.Update(ctx, newID(), models.PostUpdate{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)

		err = store.Update(ctx, newID(), models.PostUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)

		err = store.Update(ctx, "malformed", models.PostUpdate{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		post := newTestPost("Doomed")
		require.NoError(t, store.Create(ctx, post))

		require.NoError(t, store.Delete(ctx, post.ID))
		_, err := store.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		before, err := store.Count(ctx)
		require.NoError(t, err)
		assert.NoError(t, store.Delete(ctx, post.ID))
		assert.NoError(t, store.Delete(ctx, newID()))
		assert.NoError(t, store.Delete(ctx, "malformed"))
		after, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("drop all", func(t *testing.T) {
		require.NoError(t, store.Create(ctx, newTestPost("Gone")))
		require.NoError(t, store.DropAll(ctx))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		listed, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, listed)
		assert.Empty(t, listed)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
