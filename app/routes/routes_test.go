package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogapi/app/middleware"
	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*mux.Router, repositories.Store) {
	store, err := repositories.Open(context.Background(), repositories.MemoryURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	log, _ := logtest.NewNullLogger()
	return SetupRoutes(store, log), store
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostRoutes(t *testing.T) {
	router, store := setupTestRouter(t)
	ctx := context.Background()

	var id string
	t.Run("POST /posts creates a post", func(t *testing.T) {
		w := do(router, "POST", "/posts", `{"author":{"firstName":"Jane","lastName":"Doe"},"title":"Hello","content":"World"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

		var view models.PostView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		id = view.ID
		assert.Equal(t, "/posts/"+id, w.Header().Get("Location"))
	})

	t.Run("GET /posts lists posts", func(t *testing.T) {
		w := do(router, "GET", "/posts", "")
		require.Equal(t, http.StatusOK, w.Code)

		var views []models.PostView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "Jane Doe", views[0].Author)
	})

	t.Run("GET /posts/{id} shows a post", func(t *testing.T) {
		w := do(router, "GET", "/posts/"+id, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title":"Hello"`)
	})

	t.Run("PUT /posts/{id} updates a post", func(t *testing.T) {
		w := do(router, "PUT", "/posts/"+id, `{"id":"`+id+`","content":"Changed"}`)
		require.Equal(t, http.StatusNoContent, w.Code)

		post, err := store.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Changed", post.Content)
		assert.Equal(t, "Hello", post.Title)
	})

	t.Run("PUT /posts/{id} with unknown id", func(t *testing.T) {
		w := do(router, "PUT", "/posts/000000000000000000000000", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DELETE /posts/{id} removes a post", func(t *testing.T) {
		w := do(router, "DELETE", "/posts/"+id, "")
		require.Equal(t, http.StatusNoContent, w.Code)

		_, err := store.GetByID(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		w = do(router, "DELETE", "/posts/"+id, "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestOperationalRoutes(t *testing.T) {
	router, store := setupTestRouter(t)

	w := do(router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	// Populate a route label before scraping.
	do(router, "GET", "/posts", "")
	w = do(router, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blog_http_requests_total")

	require.NoError(t, store.Close(context.Background()))
	w = do(router, "GET", "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnknownRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "unknown path", method: "GET", path: "/nope", status: http.StatusNotFound},
		{name: "unsupported method", method: "POST", path: "/health", status: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}
