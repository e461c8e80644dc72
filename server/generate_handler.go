package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"WonFM/core/musical"
	"WonFM/core/voice"
	"WonFM/logger"
	"WonFM/model"
)

// GenerateAudioRequest is the generate-audio request body.
type GenerateAudioRequest struct {
	Prompt   string `json:"prompt"`
	Style    string `json:"style"`
	Language string `json:"language"`
}

// GenerateAudioResponse is the generate-audio success body. Durable tells
// callers whether AudioURL points at durable storage or a transient
// reference that was never persisted.
type GenerateAudioResponse struct {
	Success  bool         `json:"success"`
	AudioURL string       `json:"audioUrl"`
	Durable  bool         `json:"durable"`
	Track    *model.Track `json:"track,omitempty"`
	Message  string       `json:"message"`
}

// GenerateAudioHandler handles POST /api/generate-audio.
func (h *APIHandler) GenerateAudioHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Same validation the orchestrator applies; callers must not rely on
	// only one of the two layers.
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if utf8.RuneCountInString(req.Prompt) > musical.MaxPromptLength {
		writeError(w, http.StatusBadRequest, musical.ErrPromptTooLong.Error())
		return
	}

	genReq := musical.Request{
		Prompt:   req.Prompt,
		Style:    req.Style,
		Language: req.Language,
	}
	if userID, err := GetUserIDFromContext(r.Context()); err == nil {
		genReq.UserID = &userID
	}

	result, err := h.generator.Generate(r.Context(), genReq)
	if err != nil {
		switch {
		case errors.Is(err, musical.ErrPromptRequired), errors.Is(err, musical.ErrPromptTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			var apiErr *voice.APIError
			if errors.As(err, &apiErr) {
				// Provider status and message propagate verbatim.
				writeError(w, http.StatusInternalServerError,
					"Voice generation failed: "+strconv.Itoa(apiErr.Status)+" "+apiErr.Message)
				return
			}
			logger.Error("[API] Generation failed", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, GenerateAudioResponse{
		Success:  true,
		AudioURL: result.AudioURL,
		Durable:  result.Durable(),
		Track:    result.Track,
		Message:  result.Message,
	})
}
