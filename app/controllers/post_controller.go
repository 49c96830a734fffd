package controllers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"blogapi/app/middleware"
	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

const maxBodyBytes = 1 << 20

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	log         logrus.FieldLogger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, log logrus.FieldLogger) *PostController {
	return &PostController{
		postService: postService,
		log:         log,
	}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		pc.sendStoreError(w, r, err)
		return
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, post.Serialize())
	}
	pc.sendJSON(w, http.StatusOK, views)
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		pc.sendStoreError(w, r, err)
		return
	}

	body, err := json.Marshal(post.Serialize())
	if err != nil {
		pc.sendStoreError(w, r, err)
		return
	}
	etag := entityTag(body)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}

// entityTag is a strong validator for a serialized post.
func entityTag(body []byte) string {
	sum := blake2b.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if err := decodeBody(w, r, &post); err != nil {
		pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := pc.postService.CreatePost(r.Context(), &post); err != nil {
		pc.sendStoreError(w, r, err)
		return
	}

	w.Header().Set("Location", "/posts/"+post.ID)
	pc.sendJSON(w, http.StatusCreated, post.Serialize())
}

// Update handles replacing the given fields of an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	var update models.PostUpdate
	if err := decodeBody(w, r, &update); err != nil {
		pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := pc.postService.UpdatePost(r.Context(), mux.Vars(r)["id"], update); err != nil {
		pc.sendStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := pc.postService.DeletePost(r.Context(), mux.Vars(r)["id"]); err != nil {
		pc.sendStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// Helper methods for consistent response handling

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, pc.log, status, data)
}

func writeJSON(w http.ResponseWriter, log logrus.FieldLogger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

// sendStoreError maps a service error to its HTTP status.
func (pc *PostController) sendStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPost), errors.Is(err, services.ErrIDMismatch):
		pc.sendError(w, r, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repositories.ErrNotFound):
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
	default:
		pc.log.WithError(err).WithField("request_id", middleware.GetRequestID(r.Context())).
			Error("post store failure")
		pc.sendError(w, r, "Internal server error", http.StatusInternalServerError)
	}
}

func (pc *PostController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	pc.sendJSON(w, status, map[string]string{"error": message})
}
