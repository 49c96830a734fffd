package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/app/repositories/mock"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestHealthController(t *testing.T) {
	repo := mock.NewPostRepository()
	log, hook := logtest.NewNullLogger()
	hc := NewHealthController(repo, log)

	w := httptest.NewRecorder()
	hc.Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	_ = repo.Close(context.Background())

	w = httptest.NewRecorder()
	hc.Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	assert.Equal(t, "health check failed", hook.LastEntry().Message)
}
