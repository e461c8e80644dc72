package config_test

import (
	"os"
	"testing"

	"WonFM/config"

	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PASSWORD", "ELEVENLABS_API_KEY", "VOICE_ID",
		"MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "JWT_SECRET",
		"STRIPE_SECRET_KEY", "MINIO_PUBLIC_BASE_URL", "REDIS_PASSWORD",
	} {
		// t.Setenv registers restoration; Unsetenv on top so LookupEnv
		// reports unset during the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestStatusReportsEveryKeyWithoutValues(t *testing.T) {
	clearKeys(t)
	t.Setenv("ELEVENLABS_API_KEY", "super-secret-value")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	statuses := config.Status()
	require.Len(t, statuses, 9)

	byKey := map[string]config.KeyStatus{}
	for _, s := range statuses {
		byKey[s.Key] = s
	}

	require.True(t, byKey["ELEVENLABS_API_KEY"].Set)
	require.True(t, byKey["ELEVENLABS_API_KEY"].Required)
	require.True(t, byKey["STRIPE_SECRET_KEY"].Set)
	require.False(t, byKey["STRIPE_SECRET_KEY"].Required)
	require.False(t, byKey["VOICE_ID"].Set)
}

func TestMissingListsOnlyRequiredKeys(t *testing.T) {
	clearKeys(t)
	t.Setenv("DB_PASSWORD", "x")
	t.Setenv("JWT_SECRET", "x")

	missing := config.Missing()
	require.ElementsMatch(t, []string{
		"ELEVENLABS_API_KEY", "VOICE_ID", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY",
	}, missing)
}

func TestCheckDeployment(t *testing.T) {
	cfg := &config.Config{
		Environment:      "production",
		DBPassword:       "pw",
		ElevenLabsAPIKey: "key",
		VoiceID:          "voice",
		MinioAccessKey:   "access",
		MinioSecretKey:   "secret",
	}

	status := config.CheckDeployment(cfg)
	require.True(t, status.DatabaseConfigured)
	require.True(t, status.ElevenLabsConfigured)
	require.True(t, status.VoiceIDConfigured)
	require.True(t, status.StorageConfigured)
	require.False(t, status.StripeConfigured, "Stripe is optional")
	require.True(t, status.AllSystemsReady, "readiness ignores optional services")

	cfg.VoiceID = ""
	status = config.CheckDeployment(cfg)
	require.False(t, status.AllSystemsReady)
}
