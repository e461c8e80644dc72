package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"WonFM/logger"
)

// Fixed model and voice settings. Not user-configurable.
const (
	modelID = "eleven_multilingual_v2"

	stability       = 0.5
	similarityBoost = 0.8
	styleWeight     = 0.2
	useSpeakerBoost = true
)

// ErrNotConfigured is returned when the API key or voice id is missing.
var ErrNotConfigured = errors.New("speech synthesis not configured")

// APIError carries the provider's status code and raw body for a non-2xx
// response. Message is the unwrapped detail.message when the body parses as
// the provider's JSON error shape, otherwise the raw body text.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voice generation failed: %d %s", e.Status, e.Message)
}

// Client calls the ElevenLabs text-to-speech API. No caching: the same text
// submitted twice issues two remote calls and is billed twice. No retries,
// no backoff; the transport's defaults are the only timeout.
type Client struct {
	apiKey     string
	voiceID    string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a synthesis client. baseURL is overridable for tests.
func NewClient(apiKey, voiceID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	return &Client{
		apiKey:     apiKey,
		voiceID:    voiceID,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize converts text to audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if c.apiKey == "" || c.voiceID == "" {
		return nil, ErrNotConfigured
	}

	logger.Info("[Voice] Starting generation",
		logger.Int("textLength", len(text)),
		logger.String("voiceId", c.voiceID))

	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       stability,
			SimilarityBoost: similarityBoost,
			Style:           styleWeight,
			UseSpeakerBoost: useSpeakerBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: unwrapDetailMessage(body),
			Body:    string(body),
		}
		logger.Error("[Voice] Generation failed",
			logger.Int("status", resp.StatusCode),
			logger.String("body", apiErr.Body))
		return nil, apiErr
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	logger.Info("[Voice] Generation successful", logger.Int("audioBytes", len(audio)))
	return audio, nil
}

// Probe verifies the API key against the voices endpoint. Used only by the
// diagnostics pages; synthesis never calls it.
func (c *Client) Probe(ctx context.Context) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Message: unwrapDetailMessage(body), Body: string(body)}
	}
	return nil
}

// unwrapDetailMessage best-effort extracts detail.message from the
// provider's JSON error body; falls back to the raw text.
func unwrapDetailMessage(body []byte) string {
	var parsed struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail.Message != "" {
		return parsed.Detail.Message
	}
	return string(body)
}
