package server

import (
	"net/http"
	"strconv"

	"WonFM/logger"
)

const defaultRecentLimit = 10

// RecentTracksHandler handles GET /api/tracks/recent?n=.
func (h *APIHandler) RecentTracksHandler(w http.ResponseWriter, r *http.Request) {
	n := defaultRecentLimit
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		n = parsed
	}

	tracks, err := h.trackRepo.ListRecent(n)
	if err != nil {
		logger.Error("[API] Failed to list recent tracks", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to list tracks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tracks": tracks,
		"count":  len(tracks),
	})
}
