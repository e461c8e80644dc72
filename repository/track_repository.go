package repository

import (
	"database/sql"
	"fmt"
	"time"

	"WonFM/db"
	"WonFM/logger"
	"WonFM/model"
)

// TrackRepository defines the interface for track data operations.
// Tracks are written once and never updated or deleted; listings always
// re-query the store.
type TrackRepository interface {
	CreateTrack(track *model.Track) (int64, error)
	GetTrackByID(id int64) (*model.Track, error)
	ListRecent(n int) ([]*model.Track, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	DB *sql.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository() TrackRepository {
	return &mysqlTrackRepository{DB: db.DB}
}

// CreateTrack adds a new track to the database and returns the store-assigned id.
func (r *mysqlTrackRepository) CreateTrack(track *model.Track) (int64, error) {
	query := `INSERT INTO won_tracks (prompt, style, language, audio_url, duration, user_id, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateTrack: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	res, err := stmt.Exec(track.Prompt, track.Style, track.Language, track.AudioURL, track.Duration, track.UserID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateTrack: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateTrack: %w", err)
	}
	logger.Info("[TrackRepo] Track created", logger.Int64("trackId", id))
	return id, nil
}

// GetTrackByID retrieves a track by its ID. Returns (nil, nil) when no row exists.
func (r *mysqlTrackRepository) GetTrackByID(id int64) (*model.Track, error) {
	query := `SELECT id, user_id, prompt, style, language, audio_url, duration, created_at
	           FROM won_tracks WHERE id = ?`
	row := r.DB.QueryRow(query, id)

	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return track, nil
}

// ListRecent retrieves the n most recently created tracks, newest first.
// Every call issues a fresh query.
func (r *mysqlTrackRepository) ListRecent(n int) ([]*model.Track, error) {
	query := `SELECT id, user_id, prompt, style, language, audio_url, duration, created_at
	           FROM won_tracks ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.DB.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track in ListRecent: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListRecent: %w", err)
	}

	return tracks, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(s scanner) (*model.Track, error) {
	track := &model.Track{}
	var userID sql.NullInt64
	err := s.Scan(&track.ID, &userID, &track.Prompt, &track.Style, &track.Language, &track.AudioURL, &track.Duration, &track.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		track.UserID = &userID.Int64
	}
	return track, nil
}
