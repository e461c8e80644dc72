package voice_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"WonFM/core/voice"

	"github.com/stretchr/testify/require"
)

func TestSynthesizeNotConfigured(t *testing.T) {
	t.Parallel()

	client := voice.NewClient("", "", "")
	_, err := client.Synthesize(context.Background(), "hello")
	require.Equal(t, voice.ErrNotConfigured, err)

	client = voice.NewClient("key", "", "")
	_, err = client.Synthesize(context.Background(), "hello")
	require.Equal(t, voice.ErrNotConfigured, err)
}

func TestSynthesizeSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/text-to-speech/voice-123", r.URL.Path)
		require.Equal(t, "secret-key", r.Header.Get("xi-api-key"))
		require.Equal(t, "audio/mpeg", r.Header.Get("Accept"))

		var body struct {
			Text          string `json:"text"`
			ModelID       string `json:"model_id"`
			VoiceSettings struct {
				Stability       float64 `json:"stability"`
				SimilarityBoost float64 `json:"similarity_boost"`
				Style           float64 `json:"style"`
				UseSpeakerBoost bool    `json:"use_speaker_boost"`
			} `json:"voice_settings"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "sing about rivers", body.Text)
		require.Equal(t, "eleven_multilingual_v2", body.ModelID)
		require.Equal(t, 0.5, body.VoiceSettings.Stability)
		require.Equal(t, 0.8, body.VoiceSettings.SimilarityBoost)
		require.Equal(t, 0.2, body.VoiceSettings.Style)
		require.True(t, body.VoiceSettings.UseSpeakerBoost)

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	client := voice.NewClient("secret-key", "voice-123", srv.URL)
	audio, err := client.Synthesize(context.Background(), "sing about rivers")
	require.NoError(t, err)
	require.Equal(t, []byte("mp3-bytes"), audio)
}

func TestSynthesizeUnwrapsDetailMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key provided."}}`))
	}))
	defer srv.Close()

	client := voice.NewClient("bad-key", "voice-123", srv.URL)
	_, err := client.Synthesize(context.Background(), "hello")

	var apiErr *voice.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Invalid API key provided.", apiErr.Message)
	require.EqualError(t, err, "voice generation failed: 401 Invalid API key provided.")
}

func TestSynthesizeRawBodyFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	client := voice.NewClient("key", "voice-123", srv.URL)
	_, err := client.Synthesize(context.Background(), "hello")

	var apiErr *voice.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "upstream unavailable", apiErr.Message)
	require.Equal(t, "upstream unavailable", apiErr.Body)
}

func TestProbe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/voices", r.URL.Path)
		require.Equal(t, "secret-key", r.Header.Get("xi-api-key"))
		w.Write([]byte(`{"voices":[]}`))
	}))
	defer srv.Close()

	client := voice.NewClient("secret-key", "voice-123", srv.URL)
	require.NoError(t, client.Probe(context.Background()))

	// Voice id is not needed for the probe; the key alone is checked.
	client = voice.NewClient("secret-key", "", srv.URL)
	require.NoError(t, client.Probe(context.Background()))

	client = voice.NewClient("", "", srv.URL)
	require.Equal(t, voice.ErrNotConfigured, client.Probe(context.Background()))
}

func TestProbeFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"message":"Invalid API key provided."}}`))
	}))
	defer srv.Close()

	client := voice.NewClient("bad-key", "voice-123", srv.URL)
	err := client.Probe(context.Background())

	var apiErr *voice.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
