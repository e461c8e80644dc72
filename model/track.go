package model

import "time"

// Supported languages for generation requests.
const (
	LanguageEnglish = "english"
	LanguageYoruba  = "yoruba"
	LanguagePidgin  = "pidgin"
)

// Track represents one generated audio artifact and its generation
// parameters. A persisted track always carries a non-empty AudioURL backed
// by durable storage; ephemeral results are never written to the store.
// Rows are created exactly once and never updated or deleted.
type Track struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId,omitempty"` // nil for anonymous generations
	Prompt    string    `json:"prompt"`
	Style     string    `json:"style"`
	Language  string    `json:"language"`
	AudioURL  string    `json:"audioUrl"`
	Duration  int       `json:"duration"` // estimated seconds, always in [0,59]
	CreatedAt time.Time `json:"createdAt"`
}
