package musical

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"WonFM/logger"
	"WonFM/model"
	"WonFM/repository"

	"github.com/google/uuid"
)

// MaxPromptLength keeps clips inside the 59-second cap. The same limit is
// enforced again at the HTTP layer; callers must not rely on only one of
// the two checks.
const MaxPromptLength = 500

// Validation errors surfaced as 400s by the HTTP layer.
var (
	ErrPromptRequired = errors.New("Prompt is required")
	ErrPromptTooLong  = errors.New("Text too long. Please keep it under 500 characters for optimal audio length.")
)

// Synthesizer converts text to audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AudioStore uploads a named payload and returns its public URL.
type AudioStore interface {
	Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// Publisher receives a notification for every persisted track.
type Publisher interface {
	PublishTrackCreated(track *model.Track)
}

// Request is one generation request.
type Request struct {
	Prompt   string
	Style    string
	Language string
	UserID   *int64 // nil for anonymous callers
}

// Result is the tagged outcome of a generation. A durable result points at
// object storage and (insert permitting) a persisted row; an ephemeral
// result carries the raw audio and a process-local reference, and nothing
// was persisted.
type Result struct {
	AudioURL string
	Track    *model.Track
	Message  string
	Audio    []byte // populated only for ephemeral results

	durable bool
}

// Durable reports whether AudioURL points at durable storage.
func (r *Result) Durable() bool {
	return r.durable
}

// Generator sequences synthesis, storage and metadata persistence.
type Generator struct {
	synth     Synthesizer
	store     AudioStore
	tracks    repository.TrackRepository
	publisher Publisher
}

// NewGenerator wires the generation orchestrator. publisher may be nil.
func NewGenerator(synth Synthesizer, store AudioStore, tracks repository.TrackRepository, publisher Publisher) *Generator {
	return &Generator{synth: synth, store: store, tracks: tracks, publisher: publisher}
}

// EstimateDuration derives the presentation duration estimate from prompt
// length. It is not measured from the synthesized audio.
func EstimateDuration(prompt string) int {
	d := utf8.RuneCountInString(prompt) / 8
	if d > 59 {
		d = 59
	}
	return d
}

// timestampToken derives the filename token; colon and dot are not safe in
// object names everywhere.
func timestampToken(t time.Time) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

// Generate runs the full pipeline: validate, synthesize, upload, persist.
// Steps are sequential; nothing is retried. A storage failure degrades to
// an ephemeral result instead of failing the request; synthesis failures
// propagate with the provider's status and message attached.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}
	if utf8.RuneCountInString(req.Prompt) > MaxPromptLength {
		return nil, ErrPromptTooLong
	}

	logger.Info("[Generate] Generating audio",
		logger.String("style", req.Style),
		logger.String("language", req.Language),
		logger.Int("promptLength", utf8.RuneCountInString(req.Prompt)))

	duration := EstimateDuration(req.Prompt)

	audio, err := g.synth.Synthesize(ctx, req.Prompt)
	if err != nil {
		return nil, err
	}

	// Timestamp granularity makes collisions negligible; no dedup here.
	filename := fmt.Sprintf("won-musicals-%s.mp3", timestampToken(time.Now()))

	audioURL, err := g.store.Upload(ctx, filename, audio, "audio/mpeg")
	if err != nil {
		// Degrade to a transient, non-persisted reference. No repository row
		// is written for ephemeral results.
		logger.Error("[Generate] Upload failed, returning ephemeral result", logger.ErrorField(err))
		return &Result{
			AudioURL: fmt.Sprintf("ephemeral://%s", uuid.New().String()),
			Track: &model.Track{
				Prompt:   req.Prompt,
				Style:    req.Style,
				Language: req.Language,
				Duration: duration,
				UserID:   req.UserID,
			},
			Message: "Audio generated successfully (temporary URL)",
			Audio:   audio,
			durable: false,
		}, nil
	}

	track := &model.Track{
		Prompt:   req.Prompt,
		Style:    req.Style,
		Language: req.Language,
		AudioURL: audioURL,
		Duration: duration,
		UserID:   req.UserID,
	}

	id, err := g.tracks.CreateTrack(track)
	if err != nil {
		// The object is durable even though the metadata insert failed; hand
		// back the URL and the in-memory track (zero id, zero created_at).
		logger.Error("[Generate] Metadata save failed", logger.ErrorField(err))
		return &Result{
			AudioURL: audioURL,
			Track:    track,
			Message:  "Audio generated successfully!",
			durable:  true,
		}, nil
	}

	track.ID = id
	if stored, err := g.tracks.GetTrackByID(id); err == nil && stored != nil {
		track = stored
	}

	if g.publisher != nil {
		g.publisher.PublishTrackCreated(track)
	}

	logger.Info("[Generate] Audio generation complete",
		logger.Int64("trackId", track.ID),
		logger.String("audioUrl", audioURL))

	return &Result{
		AudioURL: audioURL,
		Track:    track,
		Message:  "Audio generated successfully!",
		durable:  true,
	}, nil
}
