package routes

import (
	"encoding/json"
	"net/http"

	"blogapi/app/controllers"
	"blogapi/app/metrics"
	"blogapi/app/middleware"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// SetupRoutes defines the application's routes on top of store and returns a router.
func SetupRoutes(store repositories.Store, log logrus.FieldLogger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.Metrics)

	postController := controllers.NewPostController(services.NewPostService(store), log)
	healthController := controllers.NewHealthController(store, log)

	router.NotFoundHandler = jsonError(http.StatusNotFound, "Not found")
	router.MethodNotAllowedHandler = jsonError(http.StatusMethodNotAllowed, "Method not allowed")

	router.HandleFunc("/health", healthController.Check).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Posts endpoints
	posts := router.PathPrefix("/posts").Subrouter()
	posts.Use(middleware.ContentTypeJSON)
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id}", postController.Update).Methods("PUT")
	posts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")

	return router
}

func jsonError(status int, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
	})
}
