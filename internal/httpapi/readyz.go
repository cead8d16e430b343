package httpapi

import (
	"context"
	"net/http"
	"time"
)

type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

func ReadyzHandler(rc ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := rc.Ready(ctx); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		writeText(w, http.StatusOK, "ready")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}
