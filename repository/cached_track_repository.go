package repository

import (
	"context"

	"WonFM/cache"
	"WonFM/logger"
	"WonFM/model"
)

// cachedTrackRepository puts a Redis cache in front of the recent-tracks
// listing. Inserts invalidate every cached listing so a listing taken after
// a successful generation always includes the new row. Cache failures fall
// through to the store; the cache is an optimization, never a source of truth.
type cachedTrackRepository struct {
	inner TrackRepository
}

// NewCachedTrackRepository wraps repo with the recent-tracks cache.
func NewCachedTrackRepository(repo TrackRepository) TrackRepository {
	return &cachedTrackRepository{inner: repo}
}

func (r *cachedTrackRepository) CreateTrack(track *model.Track) (int64, error) {
	id, err := r.inner.CreateTrack(track)
	if err != nil {
		return 0, err
	}
	if cacheErr := cache.InvalidateRecentTracks(context.Background()); cacheErr != nil {
		logger.Warn("[TrackRepo] Failed to invalidate recent-tracks cache", logger.ErrorField(cacheErr))
	}
	return id, nil
}

func (r *cachedTrackRepository) GetTrackByID(id int64) (*model.Track, error) {
	return r.inner.GetTrackByID(id)
}

func (r *cachedTrackRepository) ListRecent(n int) ([]*model.Track, error) {
	ctx := context.Background()
	if tracks, err := cache.GetRecentTracks(ctx, n); err == nil {
		return tracks, nil
	}

	tracks, err := r.inner.ListRecent(n)
	if err != nil {
		return nil, err
	}
	if cacheErr := cache.SetRecentTracks(ctx, n, tracks); cacheErr != nil {
		logger.Warn("[TrackRepo] Failed to cache recent tracks", logger.ErrorField(cacheErr))
	}
	return tracks, nil
}
