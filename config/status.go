package config

import "os"

// KeyStatus reports whether a single configuration key is set. Values are
// never included so the report is safe to hand to any caller.
type KeyStatus struct {
	Key      string `json:"key"`
	Set      bool   `json:"set"`
	Required bool   `json:"required"`
}

// requiredKeys are the variables the core generation and auth flows need.
var requiredKeys = []string{
	"DB_PASSWORD",
	"ELEVENLABS_API_KEY",
	"VOICE_ID",
	"MINIO_ACCESS_KEY",
	"MINIO_SECRET_KEY",
	"JWT_SECRET",
}

// optionalKeys toggle side features when present.
var optionalKeys = []string{
	"STRIPE_SECRET_KEY",
	"MINIO_PUBLIC_BASE_URL",
	"REDIS_PASSWORD",
}

// Status enumerates the required and optional configuration keys and reports
// set/unset for each, without leaking any value.
func Status() []KeyStatus {
	statuses := make([]KeyStatus, 0, len(requiredKeys)+len(optionalKeys))
	for _, key := range requiredKeys {
		_, set := os.LookupEnv(key)
		statuses = append(statuses, KeyStatus{Key: key, Set: set, Required: true})
	}
	for _, key := range optionalKeys {
		_, set := os.LookupEnv(key)
		statuses = append(statuses, KeyStatus{Key: key, Set: set, Required: false})
	}
	return statuses
}

// Missing returns the names of all required keys that are not set.
func Missing() []string {
	var missing []string
	for _, key := range requiredKeys {
		if _, set := os.LookupEnv(key); !set {
			missing = append(missing, key)
		}
	}
	return missing
}

// DeploymentStatus summarizes which external services are configured.
type DeploymentStatus struct {
	Environment          string `json:"environment"`
	DatabaseConfigured   bool   `json:"databaseConfigured"`
	ElevenLabsConfigured bool   `json:"elevenLabsConfigured"`
	VoiceIDConfigured    bool   `json:"voiceIdConfigured"`
	StorageConfigured    bool   `json:"storageConfigured"`
	StripeConfigured     bool   `json:"stripeConfigured"`
	AllSystemsReady      bool   `json:"allSystemsReady"`
}

// CheckDeployment reports configuration presence for every external service.
// Presence only toggles behavior; values are never validated here.
func CheckDeployment(cfg *Config) DeploymentStatus {
	status := DeploymentStatus{
		Environment:          cfg.Environment,
		DatabaseConfigured:   cfg.DBPassword != "" || cfg.DBHost != "",
		ElevenLabsConfigured: cfg.ElevenLabsAPIKey != "",
		VoiceIDConfigured:    cfg.VoiceID != "",
		StorageConfigured:    cfg.MinioAccessKey != "" && cfg.MinioSecretKey != "",
		StripeConfigured:     cfg.StripeSecretKey != "",
	}
	status.AllSystemsReady = status.DatabaseConfigured &&
		status.ElevenLabsConfigured &&
		status.VoiceIDConfigured &&
		status.StorageConfigured
	return status
}
