package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports store reachability.
type HealthController struct {
	store Pinger
	log   logrus.FieldLogger
}

func NewHealthController(store Pinger, log logrus.FieldLogger) *HealthController {
	return &HealthController{store: store, log: log}
}

// Check answers 200 when the store responds to a ping and 503 otherwise.
func (hc *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := hc.store.Ping(ctx); err != nil {
		hc.log.WithError(err).Warn("health check failed")
		writeJSON(w, hc.log, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, hc.log, http.StatusOK, map[string]string{"status": "ok"})
}
