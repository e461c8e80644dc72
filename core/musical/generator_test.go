package musical_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"WonFM/core/musical"
	"WonFM/model"

	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	audio []byte
	err   error
	text  string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.text = text
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type fakeStore struct {
	url         string
	err         error
	filename    string
	data        []byte
	contentType string
	calls       int
}

func (f *fakeStore) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	f.calls++
	f.filename = filename
	f.data = data
	f.contentType = contentType
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakeTrackRepo struct {
	created   *model.Track
	createErr error
	nextID    int64
	stored    map[int64]*model.Track
}

func (f *fakeTrackRepo) CreateTrack(track *model.Track) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = track
	return f.nextID, nil
}

func (f *fakeTrackRepo) GetTrackByID(id int64) (*model.Track, error) {
	if f.stored == nil {
		return nil, nil
	}
	return f.stored[id], nil
}

func (f *fakeTrackRepo) ListRecent(n int) ([]*model.Track, error) {
	return nil, nil
}

type fakePublisher struct {
	published []*model.Track
}

func (f *fakePublisher) PublishTrackCreated(track *model.Track) {
	f.published = append(f.published, track)
}

func TestEstimateDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prompt string
		want   int
	}{
		{"empty", "", 0},
		{"seven runes", "1234567", 0},
		{"eight runes", "12345678", 1},
		{"eighty runes", strings.Repeat("a", 80), 10},
		{"capped at fifty nine", strings.Repeat("a", 500), 59},
		{"runes not bytes", strings.Repeat("日", 16), 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, musical.EstimateDuration(tt.prompt))
		})
	}
}

func TestGenerateValidatesPrompt(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{audio: []byte("mp3")}
	store := &fakeStore{url: "http://example.com/a.mp3"}
	repo := &fakeTrackRepo{nextID: 1}
	gen := musical.NewGenerator(synth, store, repo, nil)

	_, err := gen.Generate(context.Background(), musical.Request{Prompt: ""})
	require.Equal(t, musical.ErrPromptRequired, err)

	_, err = gen.Generate(context.Background(), musical.Request{Prompt: "   \n\t "})
	require.Equal(t, musical.ErrPromptRequired, err)

	_, err = gen.Generate(context.Background(), musical.Request{Prompt: strings.Repeat("a", 501)})
	require.Equal(t, musical.ErrPromptTooLong, err)

	// Rune count, not byte count: 500 multibyte runes is still within bounds.
	res, err := gen.Generate(context.Background(), musical.Request{Prompt: strings.Repeat("日", 500)})
	require.NoError(t, err)
	require.True(t, res.Durable())
}

func TestGenerateSynthesisFailurePropagates(t *testing.T) {
	t.Parallel()

	synthErr := errors.New("voice generation failed: 401 invalid api key")
	synth := &fakeSynth{err: synthErr}
	store := &fakeStore{url: "http://example.com/a.mp3"}
	repo := &fakeTrackRepo{nextID: 1}
	gen := musical.NewGenerator(synth, store, repo, nil)

	_, err := gen.Generate(context.Background(), musical.Request{Prompt: "sing about rivers"})
	require.Equal(t, synthErr, err)
	require.Zero(t, store.calls, "nothing should be uploaded after a synthesis failure")
}

func TestGenerateDurablePath(t *testing.T) {
	t.Parallel()

	userID := int64(7)
	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	store := &fakeStore{url: "http://minio.local/won-audio/won-musicals-x.mp3"}
	repo := &fakeTrackRepo{
		nextID: 42,
		stored: map[int64]*model.Track{
			42: {ID: 42, Prompt: "sing about rivers", AudioURL: "http://minio.local/won-audio/won-musicals-x.mp3", Duration: 2},
		},
	}
	pub := &fakePublisher{}
	gen := musical.NewGenerator(synth, store, repo, pub)

	res, err := gen.Generate(context.Background(), musical.Request{
		Prompt:   "sing about rivers",
		Style:    "afrobeat",
		Language: model.LanguageYoruba,
		UserID:   &userID,
	})
	require.NoError(t, err)
	require.True(t, res.Durable())
	require.Equal(t, store.url, res.AudioURL)
	require.Equal(t, "Audio generated successfully!", res.Message)
	require.Nil(t, res.Audio, "durable results carry no raw audio")

	// The uploaded object is the synthesized payload under a timestamped name.
	require.Equal(t, []byte("mp3-bytes"), store.data)
	require.Equal(t, "audio/mpeg", store.contentType)
	require.True(t, strings.HasPrefix(store.filename, "won-musicals-"))
	require.True(t, strings.HasSuffix(store.filename, ".mp3"))
	require.NotContains(t, store.filename, ":")

	// The persisted row carries the caller's metadata.
	require.NotNil(t, repo.created)
	require.Equal(t, "sing about rivers", repo.created.Prompt)
	require.Equal(t, "afrobeat", repo.created.Style)
	require.Equal(t, model.LanguageYoruba, repo.created.Language)
	require.Equal(t, &userID, repo.created.UserID)

	// The freshly read row is what goes out, and the publisher saw it.
	require.Equal(t, int64(42), res.Track.ID)
	require.Len(t, pub.published, 1)
	require.Equal(t, int64(42), pub.published[0].ID)
}

func TestGenerateUploadFailureDegradesToEphemeral(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	store := &fakeStore{err: errors.New("bucket unavailable")}
	repo := &fakeTrackRepo{nextID: 1}
	pub := &fakePublisher{}
	gen := musical.NewGenerator(synth, store, repo, pub)

	res, err := gen.Generate(context.Background(), musical.Request{Prompt: "sing about rain"})
	require.NoError(t, err, "a storage failure must not fail the request")
	require.False(t, res.Durable())
	require.True(t, strings.HasPrefix(res.AudioURL, "ephemeral://"))
	require.Equal(t, "Audio generated successfully (temporary URL)", res.Message)
	require.Equal(t, []byte("mp3-bytes"), res.Audio)

	// Nothing persists on the ephemeral path.
	require.Nil(t, repo.created)
	require.Empty(t, pub.published)
	require.Zero(t, res.Track.ID)
}

func TestGenerateInsertFailureStillDurable(t *testing.T) {
	t.Parallel()

	synth := &fakeSynth{audio: []byte("mp3-bytes")}
	store := &fakeStore{url: "http://minio.local/won-audio/a.mp3"}
	repo := &fakeTrackRepo{createErr: errors.New("duplicate entry")}
	pub := &fakePublisher{}
	gen := musical.NewGenerator(synth, store, repo, pub)

	res, err := gen.Generate(context.Background(), musical.Request{Prompt: "sing about storms"})
	require.NoError(t, err)
	require.True(t, res.Durable(), "the object is durable even when the insert fails")
	require.Equal(t, store.url, res.AudioURL)
	require.Zero(t, res.Track.ID)
	require.Empty(t, pub.published, "no event without a persisted row")
}
