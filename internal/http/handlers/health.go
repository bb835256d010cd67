package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
)

func Root(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"message": "E-Commerce Order API is running"})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyHandler reports 503 until the order store answers. The cache is
// reported but never fails readiness; a nil Cache means it is disabled.
type ReadyHandler struct {
	Store Pinger
	Cache Pinger
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("readiness check failed")
		WriteError(w, r, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	cacheState := "disabled"
	if h.Cache != nil {
		cacheState = "ok"
		if err := h.Cache.Ping(ctx); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("cache ping failed")
			cacheState = "unavailable"
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready", "cache": cacheState})
}
