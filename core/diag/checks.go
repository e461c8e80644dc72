package diag

import (
	"context"
	"fmt"
	"os"

	"WonFM/config"
	"WonFM/db"
	"WonFM/storage"

	"WonFM/core/voice"
)

// VoiceProber is the slice of the synthesis client diagnostics needs.
type VoiceProber interface {
	Probe(ctx context.Context) error
}

// DefaultChecks assembles the standard suite: configuration presence plus
// one live round trip per external service. Every run re-executes all of
// them; nothing is cached between runs.
func DefaultChecks(cfg *config.Config, prober VoiceProber) []Check {
	var checks []Check

	// One check per configuration key. Required keys fail when unset,
	// optional ones only warn. Presence is looked up inside Run so a re-run
	// sees keys added or removed since startup (the env watcher reloads
	// .env without a restart).
	for _, ks := range config.Status() {
		key, required := ks.Key, ks.Required
		name := fmt.Sprintf("Environment Variable: %s", key)
		checks = append(checks, Check{
			Name: name,
			Run: func(ctx context.Context) CheckResult {
				if _, set := os.LookupEnv(key); set {
					return CheckResult{Name: name, Status: StatusPass, Message: fmt.Sprintf("%s is configured", key)}
				}
				if required {
					return CheckResult{Name: name, Status: StatusFail, Message: fmt.Sprintf("Missing required environment variable: %s", key)}
				}
				return CheckResult{Name: name, Status: StatusWarning, Message: fmt.Sprintf("Optional variable %s not set", key)}
			},
		})
	}

	checks = append(checks,
		Check{
			Name: "Database Connection",
			Run: func(ctx context.Context) CheckResult {
				if err := db.Ping(); err != nil {
					return CheckResult{Name: "Database Connection", Status: StatusFail, Message: err.Error()}
				}
				return CheckResult{Name: "Database Connection", Status: StatusPass, Message: "Successfully connected to the database"}
			},
		},
		Check{
			Name: "Redis Connection",
			Run: func(ctx context.Context) CheckResult {
				if db.RedisClient == nil {
					return CheckResult{Name: "Redis Connection", Status: StatusWarning, Message: "Redis client not initialized"}
				}
				if err := db.RedisClient.Ping(ctx).Err(); err != nil {
					return CheckResult{Name: "Redis Connection", Status: StatusFail, Message: err.Error()}
				}
				return CheckResult{Name: "Redis Connection", Status: StatusPass, Message: "Successfully connected to Redis"}
			},
		},
		Check{
			Name: "Object Storage Round Trip",
			Run: func(ctx context.Context) CheckResult {
				if err := storage.ProbeUpload(ctx); err != nil {
					return CheckResult{Name: "Object Storage Round Trip", Status: StatusFail, Message: err.Error()}
				}
				return CheckResult{Name: "Object Storage Round Trip", Status: StatusPass, Message: "Upload and delete round trip succeeded"}
			},
		},
		Check{
			Name: "Speech Synthesis API",
			Run: func(ctx context.Context) CheckResult {
				if err := prober.Probe(ctx); err != nil {
					if err == voice.ErrNotConfigured {
						return CheckResult{Name: "Speech Synthesis API", Status: StatusFail, Message: "ElevenLabs API key not configured"}
					}
					return CheckResult{Name: "Speech Synthesis API", Status: StatusFail, Message: err.Error()}
				}
				return CheckResult{Name: "Speech Synthesis API", Status: StatusPass, Message: "ElevenLabs API connection successful"}
			},
		},
		Check{
			Name: "Voice ID Configuration",
			Run: func(ctx context.Context) CheckResult {
				if cfg.VoiceID == "" {
					return CheckResult{Name: "Voice ID Configuration", Status: StatusWarning, Message: "Voice ID not set"}
				}
				return CheckResult{Name: "Voice ID Configuration", Status: StatusPass, Message: "Voice ID configured"}
			},
		},
	)

	return checks
}
