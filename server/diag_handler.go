package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"WonFM/config"
	"WonFM/core/diag"
	"WonFM/db"
	"WonFM/storage"
)

// HealthHandler handles GET /api/health. Configuration presence only; no
// live calls are made here.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := config.CheckDeployment(h.cfg)

	serviceWord := func(configured bool) string {
		if configured {
			return "configured"
		}
		return "not configured"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"deployment": status,
		"services": map[string]string{
			"database":   serviceWord(status.DatabaseConfigured),
			"elevenlabs": serviceWord(status.ElevenLabsConfigured),
			"voice":      serviceWord(status.VoiceIDConfigured),
			"storage":    serviceWord(status.StorageConfigured),
			"stripe":     serviceWord(status.StripeConfigured),
		},
	})
}

type connectionProbe struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TestConnectionHandler handles GET /api/test-connection: one live round
// trip per external service, fired independently and joined before the
// report renders. No partial results, no per-probe timeout.
func (h *APIHandler) TestConnectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		dbProbe      connectionProbe
		voiceProbe   connectionProbe
		storageProbe connectionProbe
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := db.Ping(); err != nil {
			dbProbe = connectionProbe{Error: err.Error()}
			return
		}
		dbProbe = connectionProbe{Success: true}
	}()
	go func() {
		defer wg.Done()
		if err := h.voiceClient.Probe(ctx); err != nil {
			voiceProbe = connectionProbe{Error: err.Error()}
			return
		}
		voiceProbe = connectionProbe{Success: true}
	}()
	go func() {
		defer wg.Done()
		if err := storage.ProbeUpload(ctx); err != nil {
			storageProbe = connectionProbe{Error: err.Error()}
			return
		}
		storageProbe = connectionProbe{Success: true}
	}()
	wg.Wait()

	allReady := dbProbe.Success && voiceProbe.Success && storageProbe.Success &&
		h.cfg.VoiceID != ""

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbProbe,
		"elevenlabs": map[string]interface{}{
			"configured": h.cfg.ElevenLabsAPIKey != "",
			"probe":      voiceProbe,
			"voiceId":    h.cfg.VoiceID != "",
		},
		"storage": storageProbe,
		"environment": map[string]string{
			"appEnv": h.cfg.Environment,
		},
		"allSystemsReady": allReady,
	})
}

// DiagnosticsHandler handles GET /api/diagnostics: runs the full suite.
// A run in flight cannot be aborted; concurrent triggers get 409.
func (h *APIHandler) DiagnosticsHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.diagnostics.Run(r.Context())
	if err != nil {
		if errors.Is(err, diag.ErrRunInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}
